package repositories

import (
	"context"

	"pustaka-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ReviewRepository handles review data access
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create creates a new review
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// ExistsByBookAndUser checks if the user already reviewed the book
func (r *ReviewRepository) ExistsByBookAndUser(ctx context.Context, bookID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("book_id = ? AND user_id = ?", bookID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListByBook lists reviews for a book, newest first
func (r *ReviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
