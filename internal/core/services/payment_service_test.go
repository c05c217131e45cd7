package services

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"pustaka-api/internal/adapters/persistence/models"
	"pustaka-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSnap records the last transaction request and returns a canned token
type fakeSnap struct {
	lastReq *SnapTransactionRequest
	token   string
	err     error
}

func (f *fakeSnap) CreateTransaction(_ context.Context, req *SnapTransactionRequest) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func newTestPaymentService(loanRepo *stubLoanRepo, snap *fakeSnap, now time.Time) *PaymentService {
	s := NewPaymentService(loanRepo, snap)
	s.now = func() time.Time { return now }
	return s
}

func payableLoan() *models.Loan {
	return &models.Loan{
		ID:         42,
		MemberID:   7,
		BookID:     1,
		Status:     domain.StatusReturned,
		FineAmount: 4000,
		Book:       &models.Book{ID: 1, Title: "Laskar Pelangi"},
		Member:     &models.User{ID: 7, Username: "budi", Email: "budi@mail.com"},
	}
}

func TestPaymentService_CreateFinePayment(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 17, 9, 30, 45, 0, time.UTC)

	t.Run("opens transaction for returned loan", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loanRepo.loans[42] = payableLoan()
		snap := &fakeSnap{token: "snap-token-abc"}
		svc := newTestPaymentService(loanRepo, snap, now)

		out, err := svc.CreateFinePayment(ctx, 42, 7)
		require.NoError(t, err)
		assert.Equal(t, "FINE-42-20240517093045", out.OrderID)
		assert.Equal(t, "snap-token-abc", out.SnapToken)
		assert.Equal(t, int64(4000), out.Amount)

		require.NotNil(t, snap.lastReq)
		assert.Equal(t, int64(4000), snap.lastReq.GrossAmount)
		assert.Equal(t, "Denda: Laskar Pelangi", snap.lastReq.ItemName)
		assert.Equal(t, "budi", snap.lastReq.CustomerName)
	})

	t.Run("truncates long titles", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loan := payableLoan()
		loan.Book.Title = "Sejarah Nusantara Dari Masa Ke Masa"
		loanRepo.loans[42] = loan
		snap := &fakeSnap{token: "tok"}
		svc := newTestPaymentService(loanRepo, snap, now)

		_, err := svc.CreateFinePayment(ctx, 42, 7)
		require.NoError(t, err)
		assert.Equal(t, "Denda: Sejarah Nusantara Da", snap.lastReq.ItemName)
	})

	t.Run("truncation keeps multibyte titles valid", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loan := payableLoan()
		loan.Book.Title = "Sejarah Peradaban Ménak Jinggo"
		loanRepo.loans[42] = loan
		snap := &fakeSnap{token: "tok"}
		svc := newTestPaymentService(loanRepo, snap, now)

		_, err := svc.CreateFinePayment(ctx, 42, 7)
		require.NoError(t, err)
		assert.Equal(t, "Denda: Sejarah Peradaban Mé", snap.lastReq.ItemName)
		assert.True(t, utf8.ValidString(snap.lastReq.ItemName))
	})

	t.Run("unknown loan", func(t *testing.T) {
		svc := newTestPaymentService(newStubLoanRepo(), &fakeSnap{}, now)
		_, err := svc.CreateFinePayment(ctx, 99, 7)
		assert.ErrorIs(t, err, domain.ErrLoanNotFound)
	})

	t.Run("only the owner may pay", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loanRepo.loans[42] = payableLoan()
		svc := newTestPaymentService(loanRepo, &fakeSnap{}, now)

		_, err := svc.CreateFinePayment(ctx, 42, 8)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("not payable", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*models.Loan)
		}{
			{"still approved", func(l *models.Loan) { l.Status = domain.StatusApproved }},
			{"no fine", func(l *models.Loan) { l.FineAmount = 0 }},
			{"already paid", func(l *models.Loan) { l.IsPaid = true }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				loanRepo := newStubLoanRepo()
				loan := payableLoan()
				tc.mutate(loan)
				loanRepo.loans[42] = loan
				svc := newTestPaymentService(loanRepo, &fakeSnap{}, now)

				_, err := svc.CreateFinePayment(ctx, 42, 7)
				assert.ErrorIs(t, err, domain.ErrFineNotPayable)
			})
		}
	})
}

func TestPaymentService_HandleNotification(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("settlement marks the fine paid", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loanRepo.loans[42] = payableLoan()
		svc := newTestPaymentService(loanRepo, &fakeSnap{}, now)

		result, err := svc.HandleNotification(ctx, "FINE-42-20240517093045", "settlement")
		require.NoError(t, err)
		assert.True(t, result.Applied)
		assert.Equal(t, uint(42), result.LoanID)
		assert.True(t, loanRepo.loans[42].IsPaid)
		assert.Equal(t, 1, loanRepo.markPaidCalls)
	})

	t.Run("capture settles too", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loanRepo.loans[42] = payableLoan()
		svc := newTestPaymentService(loanRepo, &fakeSnap{}, now)

		result, err := svc.HandleNotification(ctx, "FINE-42-20240517093045", "capture")
		require.NoError(t, err)
		assert.True(t, result.Applied)
	})

	t.Run("duplicate delivery is a no-op", func(t *testing.T) {
		loanRepo := newStubLoanRepo()
		loanRepo.loans[42] = payableLoan()
		svc := newTestPaymentService(loanRepo, &fakeSnap{}, now)

		_, err := svc.HandleNotification(ctx, "FINE-42-20240517093045", "settlement")
		require.NoError(t, err)

		result, err := svc.HandleNotification(ctx, "FINE-42-20240517093045", "settlement")
		require.NoError(t, err)
		assert.False(t, result.Applied)
		assert.Equal(t, 1, loanRepo.markPaidCalls)
	})

	t.Run("non-settling statuses acknowledged untouched", func(t *testing.T) {
		for _, status := range []string{"pending", "deny", "expire", "cancel"} {
			loanRepo := newStubLoanRepo()
			loanRepo.loans[42] = payableLoan()
			svc := newTestPaymentService(loanRepo, &fakeSnap{}, now)

			result, err := svc.HandleNotification(ctx, "FINE-42-20240517093045", status)
			require.NoError(t, err, status)
			assert.False(t, result.Applied, status)
			assert.False(t, loanRepo.loans[42].IsPaid, status)
		}
	})

	t.Run("malformed order id", func(t *testing.T) {
		svc := newTestPaymentService(newStubLoanRepo(), &fakeSnap{}, now)
		_, err := svc.HandleNotification(ctx, "ORDER-123", "settlement")
		assert.ErrorIs(t, err, domain.ErrMalformedToken)
	})

	t.Run("unknown loan", func(t *testing.T) {
		svc := newTestPaymentService(newStubLoanRepo(), &fakeSnap{}, now)
		_, err := svc.HandleNotification(ctx, "FINE-42-20240517093045", "settlement")
		assert.ErrorIs(t, err, domain.ErrLoanNotFound)
	})
}
