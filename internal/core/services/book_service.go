package services

import (
	"context"
	"errors"

	"pustaka-api/internal/adapters/persistence/models"
	"pustaka-api/internal/adapters/persistence/repositories"
	"pustaka-api/internal/core/domain"

	"gorm.io/gorm"
)

// BookService handles catalog business logic
type BookService struct {
	bookRepo   repositories.BookRepository
	reviewRepo *repositories.ReviewRepository
}

// NewBookService creates a new book service
func NewBookService(bookRepo repositories.BookRepository, reviewRepo *repositories.ReviewRepository) *BookService {
	return &BookService{
		bookRepo:   bookRepo,
		reviewRepo: reviewRepo,
	}
}

// ListBooksInput represents catalog list input
type ListBooksInput struct {
	Query      string
	GenreID    *uint
	AuthorID   *uint
	LocationID *uint
	Sort       string
	Page       int
	Limit      int
}

// ListBooksOutput represents catalog list output
type ListBooksOutput struct {
	Books      []*models.BookResponse `json:"books"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// List lists catalog books with search, filters and rating aggregates
func (s *BookService) List(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	page, limit := normalizePage(input.Page, input.Limit, 12)

	filter := &repositories.BookFilter{
		Query:      input.Query,
		GenreID:    input.GenreID,
		AuthorID:   input.AuthorID,
		LocationID: input.LocationID,
		Sort:       input.Sort,
	}

	books, total, err := s.bookRepo.List(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.BookResponse, 0, len(books))
	for _, book := range books {
		avg, count, err := s.bookRepo.RatingStats(ctx, book.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, book.ToResponse(avg, count))
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListBooksOutput{
		Books:      responses,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// BookDetail bundles a book with its reviews
type BookDetail struct {
	Book    *models.BookResponse `json:"book"`
	Reviews []*models.Review     `json:"reviews"`
}

// GetDetail gets a book with its reviews and rating aggregates
func (s *BookService) GetDetail(ctx context.Context, bookID uint) (*BookDetail, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	avg, count, err := s.bookRepo.RatingStats(ctx, bookID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return &BookDetail{
		Book:    book.ToResponse(avg, count),
		Reviews: reviews,
	}, nil
}

// SaveBookInput represents create/update book input
type SaveBookInput struct {
	Title           string `json:"title" validate:"required"`
	ISBN            string `json:"isbn,omitempty"`
	Description     string `json:"description,omitempty"`
	PublicationYear int    `json:"publication_year"`
	Stock           int    `json:"stock"`
	LocationID      *uint  `json:"location_id,omitempty"`
	GenreIDs        []uint `json:"genre_ids,omitempty"`
	AuthorIDs       []uint `json:"author_ids,omitempty"`
}

// Create adds a book to the catalog
func (s *BookService) Create(ctx context.Context, input *SaveBookInput) (*models.Book, error) {
	book := &models.Book{
		Title:           input.Title,
		ISBN:            input.ISBN,
		Description:     input.Description,
		PublicationYear: input.PublicationYear,
		Stock:           input.Stock,
		LocationID:      input.LocationID,
		Genres:          genreRefs(input.GenreIDs),
		Authors:         authorRefs(input.AuthorIDs),
	}
	if book.ISBN == "" {
		book.ISBN = "-"
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Update edits a catalog book. Stock is not touched here.
func (s *BookService) Update(ctx context.Context, bookID uint, input *SaveBookInput) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	book.Title = input.Title
	book.Description = input.Description
	book.PublicationYear = input.PublicationYear
	book.LocationID = input.LocationID
	if input.ISBN != "" {
		book.ISBN = input.ISBN
	}
	book.Genres = genreRefs(input.GenreIDs)
	book.Authors = authorRefs(input.AuthorIDs)

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes a book from the catalog
func (s *BookService) Delete(ctx context.Context, bookID uint) error {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBookNotFound
		}
		return err
	}
	return s.bookRepo.Delete(ctx, bookID)
}

func genreRefs(ids []uint) []models.Genre {
	if ids == nil {
		return nil
	}
	genres := make([]models.Genre, 0, len(ids))
	for _, id := range ids {
		genres = append(genres, models.Genre{ID: id})
	}
	return genres
}

func authorRefs(ids []uint) []models.Author {
	if ids == nil {
		return nil
	}
	authors := make([]models.Author, 0, len(ids))
	for _, id := range ids {
		authors = append(authors, models.Author{ID: id})
	}
	return authors
}
