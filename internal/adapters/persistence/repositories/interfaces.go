package repositories

import (
	"context"
	"time"

	"pustaka-api/internal/adapters/persistence/models"
	"pustaka-api/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// BookFilter narrows book listings
type BookFilter struct {
	Query      string // matches title or ISBN
	GenreID    *uint
	AuthorID   *uint
	LocationID *uint
	Sort       string // "title" (default), "rating", "newest"
}

// BookRepository defines book repository interface
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	List(ctx context.Context, filter *BookFilter, offset, limit int) ([]*models.Book, int64, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
	RatingStats(ctx context.Context, bookID uint) (avg float64, count int64, err error)
}

// LoanRepository defines the loan ledger data access interface.
// Approve and Return apply the status change and the book stock change in
// one database transaction; no caller ever sees one without the other.
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	ListByMember(ctx context.Context, memberID uint, status domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error)
	List(ctx context.Context, status domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error)
	ListApprovedByMember(ctx context.Context, memberID uint) ([]*models.Loan, error)

	HasActiveLoanForBook(ctx context.Context, memberID, bookID uint) (bool, error)
	CountActiveByMember(ctx context.Context, memberID uint) (int64, error)
	HasUnpaidFine(ctx context.Context, memberID uint) (bool, error)
	HasOverdueLoan(ctx context.Context, memberID uint, today time.Time) (bool, error)
	SumUnpaidFines(ctx context.Context, memberID uint) (int64, error)

	Approve(ctx context.Context, loanID uint, borrowDate time.Time, rules domain.FineRules) error
	Reject(ctx context.Context, loanID uint) error
	Return(ctx context.Context, loanID uint, returnDate time.Time, rules domain.FineRules) error
	DeletePending(ctx context.Context, loanID uint) error
	MarkPaid(ctx context.Context, loanID uint) error
}
