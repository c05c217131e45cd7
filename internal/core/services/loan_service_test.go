package services

import (
	"context"
	"testing"
	"time"

	"pustaka-api/internal/adapters/persistence/models"
	"pustaka-api/internal/adapters/persistence/repositories"
	"pustaka-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubLoanRepo is an in-memory LoanRepository for service tests
type stubLoanRepo struct {
	loans            map[uint]*models.Loan
	nextID           uint
	unpaidFine       bool
	overdue          bool
	activeCount      int64
	hasActiveForBook bool
	sumUnpaid        int64
	approveErr       error
	markPaidCalls    int
}

func newStubLoanRepo() *stubLoanRepo {
	return &stubLoanRepo{loans: map[uint]*models.Loan{}, nextID: 1}
}

func (r *stubLoanRepo) Create(_ context.Context, loan *models.Loan) error {
	loan.ID = r.nextID
	r.nextID++
	if loan.Status == "" {
		loan.Status = domain.StatusPending
	}
	r.loans[loan.ID] = loan
	return nil
}

func (r *stubLoanRepo) GetByID(_ context.Context, id uint) (*models.Loan, error) {
	loan, ok := r.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return loan, nil
}

func (r *stubLoanRepo) ListByMember(_ context.Context, memberID uint, status domain.LoanStatus, _, _ int) ([]*models.Loan, int64, error) {
	var out []*models.Loan
	for _, loan := range r.loans {
		if loan.MemberID == memberID && (status == "" || loan.Status == status) {
			out = append(out, loan)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubLoanRepo) List(_ context.Context, status domain.LoanStatus, _, _ int) ([]*models.Loan, int64, error) {
	var out []*models.Loan
	for _, loan := range r.loans {
		if status == "" || loan.Status == status {
			out = append(out, loan)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubLoanRepo) ListApprovedByMember(_ context.Context, memberID uint) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, loan := range r.loans {
		if loan.MemberID == memberID && loan.Status == domain.StatusApproved {
			out = append(out, loan)
		}
	}
	return out, nil
}

func (r *stubLoanRepo) HasActiveLoanForBook(_ context.Context, _, _ uint) (bool, error) {
	return r.hasActiveForBook, nil
}

func (r *stubLoanRepo) CountActiveByMember(_ context.Context, _ uint) (int64, error) {
	return r.activeCount, nil
}

func (r *stubLoanRepo) HasUnpaidFine(_ context.Context, _ uint) (bool, error) {
	return r.unpaidFine, nil
}

func (r *stubLoanRepo) HasOverdueLoan(_ context.Context, memberID uint, today time.Time) (bool, error) {
	if r.overdue {
		return true, nil
	}
	for _, loan := range r.loans {
		if loan.MemberID == memberID && loan.Status == domain.StatusApproved &&
			loan.DueDate != nil && loan.DueDate.Before(today) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLoanRepo) SumUnpaidFines(_ context.Context, _ uint) (int64, error) {
	return r.sumUnpaid, nil
}

func (r *stubLoanRepo) Approve(_ context.Context, loanID uint, borrowDate time.Time, rules domain.FineRules) error {
	if r.approveErr != nil {
		return r.approveErr
	}
	loan, ok := r.loans[loanID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !domain.CanTransition(loan.Status, domain.StatusApproved) {
		return domain.ErrInvalidTransition
	}
	due := rules.DueDate(borrowDate)
	loan.Status = domain.StatusApproved
	loan.BorrowDate = &borrowDate
	loan.DueDate = &due
	return nil
}

func (r *stubLoanRepo) Reject(_ context.Context, loanID uint) error {
	loan, ok := r.loans[loanID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !domain.CanTransition(loan.Status, domain.StatusRejected) {
		return domain.ErrInvalidTransition
	}
	loan.Status = domain.StatusRejected
	return nil
}

func (r *stubLoanRepo) Return(_ context.Context, loanID uint, returnDate time.Time, rules domain.FineRules) error {
	loan, ok := r.loans[loanID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !domain.CanTransition(loan.Status, domain.StatusReturned) {
		return domain.ErrInvalidTransition
	}
	loan.Status = domain.StatusReturned
	loan.ReturnDate = &returnDate
	if loan.DueDate != nil {
		loan.FineAmount = rules.FinalFine(*loan.DueDate, returnDate)
	}
	return nil
}

func (r *stubLoanRepo) DeletePending(_ context.Context, loanID uint) error {
	loan, ok := r.loans[loanID]
	if !ok || loan.Status != domain.StatusPending {
		return domain.ErrNotCancellable
	}
	delete(r.loans, loanID)
	return nil
}

func (r *stubLoanRepo) MarkPaid(_ context.Context, loanID uint) error {
	r.markPaidCalls++
	if loan, ok := r.loans[loanID]; ok {
		loan.IsPaid = true
	}
	return nil
}

// stubBookRepo is an in-memory BookRepository for service tests
type stubBookRepo struct {
	books map[uint]*models.Book
}

func newStubBookRepo(books ...*models.Book) *stubBookRepo {
	r := &stubBookRepo{books: map[uint]*models.Book{}}
	for _, b := range books {
		r.books[b.ID] = b
	}
	return r
}

func (r *stubBookRepo) Create(_ context.Context, book *models.Book) error {
	r.books[book.ID] = book
	return nil
}

func (r *stubBookRepo) GetByID(_ context.Context, id uint) (*models.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return book, nil
}

func (r *stubBookRepo) List(_ context.Context, _ *repositories.BookFilter, _, _ int) ([]*models.Book, int64, error) {
	return nil, 0, nil
}

func (r *stubBookRepo) Update(_ context.Context, book *models.Book) error {
	r.books[book.ID] = book
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, id uint) error {
	delete(r.books, id)
	return nil
}

func (r *stubBookRepo) RatingStats(_ context.Context, _ uint) (float64, int64, error) {
	return 0, 0, nil
}

func newTestLoanService(loanRepo *stubLoanRepo, bookRepo *stubBookRepo, now time.Time) *LoanService {
	s := NewLoanService(loanRepo, bookRepo, domain.DefaultFineRules())
	s.now = func() time.Time { return now }
	return s
}

func TestLoanService_RequestLoan(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	t.Run("creates pending loan", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		bookRepo := newStubBookRepo(&models.Book{ID: 1, Title: "Bumi Manusia", Stock: 3})
		svc := newTestLoanService(loanRepo, bookRepo, now)

		loan, err := svc.RequestLoan(ctx, 7, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, loan.Status)
		assert.Equal(t, uint(7), loan.MemberID)
		assert.Equal(t, uint(1), loan.BookID)
		assert.Nil(t, loan.BorrowDate)
		assert.Nil(t, loan.DueDate)
	})

	t.Run("unknown book", func(t *testing.T) {
		svc := newTestLoanService(newStubLoanRepo(), newStubBookRepo(), now)

		_, err := svc.RequestLoan(ctx, 7, 99)
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})

	t.Run("blocked by unpaid fine", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loanRepo.unpaidFine = true
		bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 3})
		svc := newTestLoanService(loanRepo, bookRepo, now)

		_, err := svc.RequestLoan(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrIneligibleMember)
	})

	t.Run("blocked by overdue loan", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loanRepo.overdue = true
		bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 3})
		svc := newTestLoanService(loanRepo, bookRepo, now)

		_, err := svc.RequestLoan(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrIneligibleMember)
	})

	t.Run("eligibility reported before limit", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loanRepo.unpaidFine = true
		loanRepo.activeCount = 5
		loanRepo.hasActiveForBook = true
		bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 0})
		svc := newTestLoanService(loanRepo, bookRepo, now)

		_, err := svc.RequestLoan(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrIneligibleMember)
	})

	t.Run("limit reached", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loanRepo.activeCount = 5
		bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 3})
		svc := newTestLoanService(loanRepo, bookRepo, now)

		_, err := svc.RequestLoan(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrBorrowLimitExceeded)
	})

	t.Run("duplicate active loan", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loanRepo.hasActiveForBook = true
		bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 3})
		svc := newTestLoanService(loanRepo, bookRepo, now)

		_, err := svc.RequestLoan(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrDuplicateActiveLoan)
	})

	t.Run("out of stock", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 0})
		svc := newTestLoanService(loanRepo, bookRepo, now)

		_, err := svc.RequestLoan(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrOutOfStock)
	})
}

func TestLoanService_CanBorrow_DueDateBoundary(t *testing.T) {
	ctx := context.Background()
	// midday on the due day: the loan is not overdue until tomorrow
	now := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)

	newRepoWithDue := func(due time.Time) *stubLoanRepo {
		loanRepo := newStubLoanRepo()
		loanRepo.loans[1] = &models.Loan{
			ID:       1,
			MemberID: 7,
			BookID:   1,
			Status:   domain.StatusApproved,
			DueDate:  &due,
		}
		return loanRepo
	}

	t.Run("due today is still eligible", func(t *testing.T) {
		loanRepo := newRepoWithDue(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC))
		svc := newTestLoanService(loanRepo, newStubBookRepo(), now)

		ok, err := svc.CanBorrow(ctx, 7)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("due yesterday is overdue", func(t *testing.T) {
		loanRepo := newRepoWithDue(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC))
		svc := newTestLoanService(loanRepo, newStubBookRepo(), now)

		ok, err := svc.CanBorrow(ctx, 7)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestLoanService_Return_FineFixedOnce(t *testing.T) {
	ctx := context.Background()

	loanRepo := newStubLoanRepo()
	bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 1})
	svc := newTestLoanService(loanRepo, bookRepo, time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC))

	loan, err := svc.RequestLoan(ctx, 7, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Approve(ctx, loan.ID))
	require.NotNil(t, loan.DueDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *loan.DueDate)

	// returned four days late: 4 * 1000
	svc.now = func() time.Time { return time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, svc.Return(ctx, loan.ID))
	assert.Equal(t, domain.StatusReturned, loan.Status)
	assert.Equal(t, int64(4000), loan.FineAmount)

	// a second return fails the status guard and never touches the fine
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }
	assert.ErrorIs(t, svc.Return(ctx, loan.ID), domain.ErrInvalidTransition)
	assert.Equal(t, domain.StatusReturned, loan.Status)
	assert.Equal(t, int64(4000), loan.FineAmount)
}

func TestLoanService_ApproveSetsDates(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	loanRepo := newStubLoanRepo()
	bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 1})
	svc := newTestLoanService(loanRepo, bookRepo, now)

	loan, err := svc.RequestLoan(ctx, 7, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, loan.ID))
	assert.Equal(t, domain.StatusApproved, loan.Status)
	require.NotNil(t, loan.DueDate)
	assert.Equal(t, time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC), *loan.DueDate)
}

func TestLoanService_Approve_NotFound(t *testing.T) {
	svc := newTestLoanService(newStubLoanRepo(), newStubBookRepo(), time.Now())
	assert.ErrorIs(t, svc.Approve(context.Background(), 99), domain.ErrLoanNotFound)
}

func TestLoanService_Cancel(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("owner cancels pending", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 1})
		svc := newTestLoanService(loanRepo, bookRepo, now)

		loan, err := svc.RequestLoan(ctx, 7, 1)
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, loan.ID, 7))
		_, err = loanRepo.GetByID(ctx, loan.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("someone else cannot cancel", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 1})
		svc := newTestLoanService(loanRepo, bookRepo, now)

		loan, err := svc.RequestLoan(ctx, 7, 1)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Cancel(ctx, loan.ID, 8), domain.ErrNotCancellable)
	})

	t.Run("approved loan not cancellable", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 1})
		svc := newTestLoanService(loanRepo, bookRepo, now)

		loan, err := svc.RequestLoan(ctx, 7, 1)
		require.NoError(t, err)
		require.NoError(t, svc.Approve(ctx, loan.ID))

		assert.ErrorIs(t, svc.Cancel(ctx, loan.ID, 7), domain.ErrNotCancellable)
	})

	t.Run("missing loan", func(t *testing.T) {
		svc := newTestLoanService(newStubLoanRepo(), newStubBookRepo(), now)
		assert.ErrorIs(t, svc.Cancel(ctx, 99, 7), domain.ErrLoanNotFound)
	})
}

func TestLoanService_ApproveBatch_Independent(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	loanRepo := newStubLoanRepo()
	bookRepo := newStubBookRepo(&models.Book{ID: 1, Stock: 10})
	svc := newTestLoanService(loanRepo, bookRepo, now)

	first, err := svc.RequestLoan(ctx, 7, 1)
	require.NoError(t, err)
	second, err := svc.RequestLoan(ctx, 8, 1)
	require.NoError(t, err)

	// second already approved, so re-approving it fails while the rest proceed
	require.NoError(t, svc.Approve(ctx, second.ID))

	outcomes := svc.ApproveBatch(ctx, []uint{first.ID, second.ID, 99})
	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].OK)
	assert.False(t, outcomes[1].OK)
	assert.NotEmpty(t, outcomes[1].Error)
	assert.False(t, outcomes[2].OK)

	assert.Equal(t, domain.StatusApproved, first.Status)
}

func TestLoanService_Summary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	loanRepo := newStubLoanRepo()
	loanRepo.sumUnpaid = 2000
	loanRepo.activeCount = 2

	// approved loan three days overdue: 3 * 1000 accruing
	due := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	loanRepo.loans[1] = &models.Loan{
		ID:       1,
		MemberID: 7,
		BookID:   1,
		Status:   domain.StatusApproved,
		DueDate:  &due,
	}

	svc := newTestLoanService(loanRepo, newStubBookRepo(), now)

	summary, err := svc.Summary(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.ActiveLoanCount)
	assert.Equal(t, domain.DefaultBorrowLimit, summary.BorrowLimit)
	assert.Equal(t, int64(5000), summary.TotalFine) // 2000 fixed + 3000 running
	assert.False(t, summary.CanBorrow)              // the overdue loan blocks new requests
	require.Len(t, summary.CurrentLoans, 1)
	assert.Equal(t, int64(3000), summary.CurrentLoans[0].RunningFine)
}

func TestLoanService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	loanRepo := newStubLoanRepo()
	loanRepo.loans[1] = &models.Loan{ID: 1, Status: domain.StatusReturned, FineAmount: 4000}

	svc := newTestLoanService(loanRepo, newStubBookRepo(), time.Now())

	require.NoError(t, svc.MarkPaid(ctx, 1))
	assert.True(t, loanRepo.loans[1].IsPaid)

	assert.ErrorIs(t, svc.MarkPaid(ctx, 99), domain.ErrLoanNotFound)
}
