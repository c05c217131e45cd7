package services

import (
	"context"
	"errors"
	"log"
	"time"

	"pustaka-api/internal/adapters/persistence/models"
	"pustaka-api/internal/adapters/persistence/repositories"
	"pustaka-api/internal/core/domain"

	"gorm.io/gorm"
)

// LoanService handles the loan lifecycle: request, approval, rejection,
// return, cancellation, and the fine projections derived from it.
type LoanService struct {
	loanRepo repositories.LoanRepository
	bookRepo repositories.BookRepository
	rules    domain.FineRules
	now      func() time.Time
}

// NewLoanService creates a new loan service
func NewLoanService(loanRepo repositories.LoanRepository, bookRepo repositories.BookRepository, rules domain.FineRules) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		bookRepo: bookRepo,
		rules:    rules,
		now:      time.Now,
	}
}

// Rules returns the lending rules the service was constructed with
func (s *LoanService) Rules() domain.FineRules {
	return s.rules
}

// CanBorrow reports whether the member may request new loans. A member is
// blocked by any unpaid fixed fine, or by any approved loan already past
// its due date. Evaluated fresh on every call.
func (s *LoanService) CanBorrow(ctx context.Context, memberID uint) (bool, error) {
	hasUnpaid, err := s.loanRepo.HasUnpaidFine(ctx, memberID)
	if err != nil {
		return false, err
	}
	if hasUnpaid {
		return false, nil
	}

	// due_date is a DATE column; compare against midnight so a loan due
	// today does not count as overdue for the rest of the day
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	hasOverdue, err := s.loanRepo.HasOverdueLoan(ctx, memberID, today)
	if err != nil {
		return false, err
	}
	return !hasOverdue, nil
}

// RequestLoan creates a pending loan for the member. Checks run in a fixed
// priority order so only one failure is ever reported: eligibility, then
// borrowing limit, then duplicate request, then stock.
func (s *LoanService) RequestLoan(ctx context.Context, memberID, bookID uint) (*models.Loan, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	ok, err := s.CanBorrow(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrIneligibleMember
	}

	active, err := s.loanRepo.CountActiveByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if active >= int64(s.rules.BorrowLimit) {
		return nil, domain.ErrBorrowLimitExceeded
	}

	duplicate, err := s.loanRepo.HasActiveLoanForBook(ctx, memberID, bookID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, domain.ErrDuplicateActiveLoan
	}

	if book.Stock <= 0 {
		return nil, domain.ErrOutOfStock
	}

	loan := &models.Loan{
		BookID:   bookID,
		MemberID: memberID,
		Status:   domain.StatusPending,
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	log.Printf("📖 Loan requested: loan=%d book=%d member=%d", loan.ID, bookID, memberID)
	return loan, nil
}

// Approve moves a pending loan to approved. Borrow date is today, due date
// follows the configured loan period, and the book's stock is decremented
// atomically with the status change.
func (s *LoanService) Approve(ctx context.Context, loanID uint) error {
	err := s.loanRepo.Approve(ctx, loanID, s.now(), s.rules)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrLoanNotFound
	}
	return err
}

// Reject moves a pending loan to rejected
func (s *LoanService) Reject(ctx context.Context, loanID uint) error {
	err := s.loanRepo.Reject(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrLoanNotFound
	}
	return err
}

// Return moves an approved loan to returned. The final fine is fixed inside
// the same transaction that flips the status and restores the stock; once
// set it is never recomputed.
func (s *LoanService) Return(ctx context.Context, loanID uint) error {
	err := s.loanRepo.Return(ctx, loanID, s.now(), s.rules)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrLoanNotFound
	}
	return err
}

// Cancel deletes a loan that is still pending. Only the requesting member
// may cancel, and approved or finished loans are not cancellable.
func (s *LoanService) Cancel(ctx context.Context, loanID, requesterID uint) error {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLoanNotFound
		}
		return err
	}

	if loan.MemberID != requesterID {
		return domain.ErrNotCancellable
	}

	return s.loanRepo.DeletePending(ctx, loanID)
}

// MarkPaid flags a loan's fine as paid. Administrative override path;
// normal settlement goes through the payment service.
func (s *LoanService) MarkPaid(ctx context.Context, loanID uint) error {
	if _, err := s.loanRepo.GetByID(ctx, loanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLoanNotFound
		}
		return err
	}
	return s.loanRepo.MarkPaid(ctx, loanID)
}

// BatchOutcome records the result of one loan inside a batch operation
type BatchOutcome struct {
	LoanID uint   `json:"loan_id"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// ApproveBatch approves each loan independently. A failure (typically out of
// stock) skips that loan without rolling back the ones already approved.
func (s *LoanService) ApproveBatch(ctx context.Context, loanIDs []uint) []BatchOutcome {
	return s.applyBatch(loanIDs, func(id uint) error { return s.Approve(ctx, id) })
}

// RejectBatch rejects each loan independently
func (s *LoanService) RejectBatch(ctx context.Context, loanIDs []uint) []BatchOutcome {
	return s.applyBatch(loanIDs, func(id uint) error { return s.Reject(ctx, id) })
}

// ReturnBatch returns each loan independently
func (s *LoanService) ReturnBatch(ctx context.Context, loanIDs []uint) []BatchOutcome {
	return s.applyBatch(loanIDs, func(id uint) error { return s.Return(ctx, id) })
}

func (s *LoanService) applyBatch(loanIDs []uint, apply func(uint) error) []BatchOutcome {
	outcomes := make([]BatchOutcome, 0, len(loanIDs))
	for _, id := range loanIDs {
		if err := apply(id); err != nil {
			outcomes = append(outcomes, BatchOutcome{LoanID: id, Error: err.Error()})
			continue
		}
		outcomes = append(outcomes, BatchOutcome{LoanID: id, OK: true})
	}
	return outcomes
}

// GetByID gets a loan with its running fine attached
func (s *LoanService) GetByID(ctx context.Context, loanID uint) (*models.LoanResponse, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan.ToResponse(s.runningFine(loan)), nil
}

// ListInput represents loan list input
type ListLoansInput struct {
	Status domain.LoanStatus
	Page   int
	Limit  int
}

// ListLoansOutput represents loan list output
type ListLoansOutput struct {
	Loans      []*models.LoanResponse `json:"loans"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// List lists all loans (admin view)
func (s *LoanService) List(ctx context.Context, input *ListLoansInput) (*ListLoansOutput, error) {
	page, limit := normalizePage(input.Page, input.Limit, 10)
	loans, total, err := s.loanRepo.List(ctx, input.Status, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return s.listOutput(loans, total, page, limit), nil
}

// ListByMember lists a member's own loans
func (s *LoanService) ListByMember(ctx context.Context, memberID uint, input *ListLoansInput) (*ListLoansOutput, error) {
	page, limit := normalizePage(input.Page, input.Limit, 8)
	loans, total, err := s.loanRepo.ListByMember(ctx, memberID, input.Status, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return s.listOutput(loans, total, page, limit), nil
}

func (s *LoanService) listOutput(loans []*models.Loan, total int64, page, limit int) *ListLoansOutput {
	responses := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, loan.ToResponse(s.runningFine(loan)))
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListLoansOutput{
		Loans:      responses,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// ProfileSummary aggregates a member's borrowing state for display
type ProfileSummary struct {
	CurrentLoans    []*models.LoanResponse `json:"current_loans"`
	ActiveLoanCount int64                  `json:"active_loan_count"`
	BorrowLimit     int                    `json:"borrow_limit"`
	TotalFine       int64                  `json:"total_fine"`
	CanBorrow       bool                   `json:"can_borrow"`
}

// Summary builds the member's profile summary: currently borrowed books,
// active-loan count against the limit, eligibility, and the total fine
// owed right now (fixed unpaid fines plus fines still accruing on overdue
// approved loans).
func (s *LoanService) Summary(ctx context.Context, memberID uint) (*ProfileSummary, error) {
	current, err := s.loanRepo.ListApprovedByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	fixed, err := s.loanRepo.SumUnpaidFines(ctx, memberID)
	if err != nil {
		return nil, err
	}

	activeCount, err := s.loanRepo.CountActiveByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	canBorrow, err := s.CanBorrow(ctx, memberID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.LoanResponse, 0, len(current))
	var running int64
	for _, loan := range current {
		fine := s.runningFine(loan)
		running += fine
		responses = append(responses, loan.ToResponse(fine))
	}

	return &ProfileSummary{
		CurrentLoans:    responses,
		ActiveLoanCount: activeCount,
		BorrowLimit:     s.rules.BorrowLimit,
		TotalFine:       fixed + running,
		CanBorrow:       canBorrow,
	}, nil
}

// runningFine projects the fine on a loan as of now. Read-only, never stored.
func (s *LoanService) runningFine(loan *models.Loan) int64 {
	return s.rules.RunningFine(loan.Status, loan.DueDate, loan.FineAmount, s.now())
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
