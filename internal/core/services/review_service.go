package services

import (
	"context"
	"errors"

	"pustaka-api/internal/adapters/persistence/models"
	"pustaka-api/internal/adapters/persistence/repositories"
	"pustaka-api/internal/core/domain"

	"gorm.io/gorm"
)

// Review errors
var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrDuplicateReview = errors.New("user already reviewed this book")
)

// ReviewService handles book review business logic
type ReviewService struct {
	reviewRepo *repositories.ReviewRepository
	bookRepo   repositories.BookRepository
}

// NewReviewService creates a new review service
func NewReviewService(reviewRepo *repositories.ReviewRepository, bookRepo repositories.BookRepository) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
	}
}

// SubmitReviewInput represents review submission input
type SubmitReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// Submit creates a review, one per (book, user)
func (s *ReviewService) Submit(ctx context.Context, bookID, userID uint, input *SubmitReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByBookAndUser(ctx, bookID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
