package repositories

import (
	"context"
	"time"

	"pustaka-api/internal/adapters/persistence/models"
	"pustaka-api/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID with relations
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Member").
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByMember lists a member's loans, optionally filtered by status
func (r *loanRepository) ListByMember(ctx context.Context, memberID uint, status domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Loan{}).Where("member_id = ?", memberID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q.Count(&total)

	err := q.
		Preload("Book").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error

	return loans, total, err
}

// List lists all loans, optionally filtered by status
func (r *loanRepository) List(ctx context.Context, status domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Loan{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q.Count(&total)

	err := q.
		Preload("Book").
		Preload("Member").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error

	return loans, total, err
}

// ListApprovedByMember lists a member's currently borrowed books ordered by due date
func (r *loanRepository) ListApprovedByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("member_id = ? AND status = ?", memberID, domain.StatusApproved).
		Order("due_date ASC").
		Find(&loans).Error
	return loans, err
}

// HasActiveLoanForBook reports whether the member already has a pending or
// approved loan for this book
func (r *loanRepository) HasActiveLoanForBook(ctx context.Context, memberID, bookID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ? AND book_id = ?", memberID, bookID).
		Where("status IN ?", []domain.LoanStatus{domain.StatusPending, domain.StatusApproved}).
		Count(&count).Error
	return count > 0, err
}

// CountActiveByMember counts the member's pending and approved loans
func (r *loanRepository) CountActiveByMember(ctx context.Context, memberID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ?", memberID).
		Where("status IN ?", []domain.LoanStatus{domain.StatusPending, domain.StatusApproved}).
		Count(&count).Error
	return count, err
}

// HasUnpaidFine reports whether the member has any fixed fine not yet paid,
// regardless of loan status
func (r *loanRepository) HasUnpaidFine(ctx context.Context, memberID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ? AND is_paid = ? AND fine_amount > 0", memberID, false).
		Count(&count).Error
	return count > 0, err
}

// HasOverdueLoan reports whether the member currently holds an approved loan
// past its due date
func (r *loanRepository) HasOverdueLoan(ctx context.Context, memberID uint, today time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ? AND status = ? AND due_date < ?", memberID, domain.StatusApproved, today).
		Count(&count).Error
	return count > 0, err
}

// SumUnpaidFines sums the member's fixed fines that are not yet paid
func (r *loanRepository) SumUnpaidFines(ctx context.Context, memberID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ? AND is_paid = ?", memberID, false).
		Select("COALESCE(SUM(fine_amount), 0)").
		Scan(&total).Error
	return total, err
}

// Approve moves a pending loan to approved, setting borrow and due dates and
// decrementing the book's stock in the same transaction. Two approvals racing
// for the last copy resolve to one success and one domain.ErrOutOfStock:
// the conditional stock decrement succeeds for exactly one of them.
func (r *loanRepository) Approve(ctx context.Context, loanID uint, borrowDate time.Time, rules domain.FineRules) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&loan, loanID).Error; err != nil {
			return err
		}
		if !domain.CanTransition(loan.Status, domain.StatusApproved) {
			return domain.ErrInvalidTransition
		}

		res := tx.Model(&models.Book{}).
			Where("id = ? AND stock > 0", loan.BookID).
			UpdateColumn("stock", gorm.Expr("stock - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrOutOfStock
		}

		dueDate := rules.DueDate(borrowDate)
		return tx.Model(&models.Loan{}).
			Where("id = ?", loanID).
			Updates(map[string]interface{}{
				"status":      domain.StatusApproved,
				"borrow_date": borrowDate,
				"due_date":    dueDate,
			}).Error
	})
}

// Reject moves a pending loan to rejected. No stock or date change.
func (r *loanRepository) Reject(ctx context.Context, loanID uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND status = ?", loanID, domain.StatusPending).
		Update("status", domain.StatusRejected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Return moves an approved loan to returned, fixes the final fine and
// increments the book's stock in the same transaction. A return date already
// present on the row (set manually by an admin) wins over the given one.
// The fine is computed exactly once here; repeated calls fail the status
// guard and never touch the stored amount.
func (r *loanRepository) Return(ctx context.Context, loanID uint, returnDate time.Time, rules domain.FineRules) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&loan, loanID).Error; err != nil {
			return err
		}
		if !domain.CanTransition(loan.Status, domain.StatusReturned) {
			return domain.ErrInvalidTransition
		}

		if loan.ReturnDate != nil {
			returnDate = *loan.ReturnDate
		}

		var fine int64
		if loan.DueDate != nil {
			fine = rules.FinalFine(*loan.DueDate, returnDate)
		}

		if err := tx.Model(&models.Loan{}).
			Where("id = ?", loanID).
			Updates(map[string]interface{}{
				"status":      domain.StatusReturned,
				"return_date": returnDate,
				"fine_amount": fine,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Book{}).
			Where("id = ?", loan.BookID).
			UpdateColumn("stock", gorm.Expr("stock + 1")).Error
	})
}

// DeletePending hard-deletes a loan while it is still pending. The status
// guard in the WHERE clause makes cancellation racing an approval safe:
// whichever commits first wins, the other sees zero rows.
func (r *loanRepository) DeletePending(ctx context.Context, loanID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", loanID, domain.StatusPending).
		Delete(&models.Loan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotCancellable
	}
	return nil
}

// MarkPaid sets is_paid on a loan. Naturally idempotent: setting true on an
// already-paid loan changes nothing.
func (r *loanRepository) MarkPaid(ctx context.Context, loanID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ?", loanID).
		Update("is_paid", true).Error
}
