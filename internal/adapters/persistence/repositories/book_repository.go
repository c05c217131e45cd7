package repositories

import (
	"context"

	"pustaka-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID gets a book by ID with relations
func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Authors").
		Preload("Location").
		First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List lists books with search, filters, sorting and pagination
func (r *bookRepository) List(ctx context.Context, filter *BookFilter, offset, limit int) ([]*models.Book, int64, error) {
	var books []*models.Book
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Book{})

	if filter != nil {
		if filter.Query != "" {
			like := "%" + filter.Query + "%"
			q = q.Where("title LIKE ? OR isbn LIKE ?", like, like)
		}
		if filter.GenreID != nil {
			q = q.Joins("JOIN book_genres bg ON bg.book_id = books.id").
				Where("bg.genre_id = ?", *filter.GenreID)
		}
		if filter.AuthorID != nil {
			q = q.Joins("JOIN book_authors ba ON ba.book_id = books.id").
				Where("ba.author_id = ?", *filter.AuthorID)
		}
		if filter.LocationID != nil {
			q = q.Where("location_id = ?", *filter.LocationID)
		}
	}

	q.Distinct("books.id").Count(&total)

	switch sort := sortOf(filter); sort {
	case "rating":
		q = q.Joins("LEFT JOIN reviews rv ON rv.book_id = books.id").
			Group("books.id").
			Order("COALESCE(AVG(rv.rating), 0) DESC, books.title ASC")
	case "newest":
		q = q.Order("books.id DESC")
	default:
		q = q.Order("books.title ASC")
	}

	err := q.
		Preload("Genres").
		Preload("Authors").
		Preload("Location").
		Offset(offset).
		Limit(limit).
		Find(&books).Error

	return books, total, err
}

func sortOf(filter *BookFilter) string {
	if filter == nil {
		return ""
	}
	return filter.Sort
}

// Update updates a book. Stock is deliberately excluded: only the loan
// transitions in loanRepository may change it. Genre and author sets are
// replaced when provided.
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	db := r.db.WithContext(ctx)

	if err := db.Model(book).Omit("stock", "Genres", "Authors").Updates(book).Error; err != nil {
		return err
	}

	if book.Genres != nil {
		if err := db.Model(book).Association("Genres").Replace(book.Genres); err != nil {
			return err
		}
	}
	if book.Authors != nil {
		if err := db.Model(book).Association("Authors").Replace(book.Authors); err != nil {
			return err
		}
	}
	return nil
}

// Delete soft deletes a book
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Book{}, id).Error
}

// RatingStats returns the average rating and review count for a book
func (r *bookRepository) RatingStats(ctx context.Context, bookID uint) (float64, int64, error) {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("book_id = ?", bookID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&stats).Error
	return stats.Avg, stats.Count, err
}
