package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pustaka-api/internal/adapters/persistence/repositories"
	"pustaka-api/internal/core/domain"
	"pustaka-api/internal/pkg/paytoken"

	"gorm.io/gorm"
)

// Gateway transaction statuses that settle a fine. Anything else
// (pending, deny, expire, cancel) is acknowledged without a state change.
var settledStatuses = map[string]bool{
	"settlement": true,
	"capture":    true,
}

// PaymentService reconciles gateway notifications against loan fines and
// creates Snap transactions for paying them.
type PaymentService struct {
	loanRepo repositories.LoanRepository
	snap     SnapAPI
	now      func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(loanRepo repositories.LoanRepository, snap SnapAPI) *PaymentService {
	return &PaymentService{
		loanRepo: loanRepo,
		snap:     snap,
		now:      time.Now,
	}
}

// CreateFinePaymentOutput carries the Snap token the client widget needs
type CreateFinePaymentOutput struct {
	OrderID   string `json:"order_id"`
	SnapToken string `json:"snap_token"`
	Amount    int64  `json:"amount"`
}

// CreateFinePayment opens a payment transaction for a returned loan's fine.
// Only the owning member may pay, the loan must be returned with a fine
// outstanding.
func (s *PaymentService) CreateFinePayment(ctx context.Context, loanID, requesterID uint) (*CreateFinePaymentOutput, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	if loan.MemberID != requesterID {
		return nil, domain.ErrForbidden
	}
	if loan.Status != domain.StatusReturned || loan.FineAmount <= 0 || loan.IsPaid {
		return nil, domain.ErrFineNotPayable
	}

	orderID := paytoken.New(loan.ID, s.now())

	itemName := "Denda"
	if loan.Book != nil {
		title := loan.Book.Title
		if runes := []rune(title); len(runes) > 20 {
			title = string(runes[:20])
		}
		itemName = fmt.Sprintf("Denda: %s", title)
	}

	req := &SnapTransactionRequest{
		OrderID:     orderID,
		GrossAmount: loan.FineAmount,
		ItemID:      fmt.Sprintf("%d", loan.ID),
		ItemName:    itemName,
	}
	if loan.Member != nil {
		req.CustomerName = loan.Member.Username
		req.CustomerEmail = loan.Member.Email
	}

	token, err := s.snap.CreateTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Printf("💳 Fine payment created: loan=%d order=%s amount=%d", loan.ID, orderID, loan.FineAmount)

	return &CreateFinePaymentOutput{
		OrderID:   orderID,
		SnapToken: token,
		Amount:    loan.FineAmount,
	}, nil
}

// NotificationResult reports what a gateway notification did
type NotificationResult struct {
	LoanID  uint
	Applied bool // true when the fine was marked paid by this call
}

// HandleNotification consumes one payment-gateway notification. The
// contract with the gateway is at-least-once with no ordering guarantee,
// so the settled write is idempotent: replays land on an already-paid loan
// and change nothing. Non-settling statuses are acknowledged untouched so
// the gateway stops retrying. Every failure maps to a structured domain
// error; nothing internal leaks to the caller.
func (s *PaymentService) HandleNotification(ctx context.Context, orderID, transactionStatus string) (*NotificationResult, error) {
	loanID, err := paytoken.ParseLoanID(orderID)
	if err != nil {
		return nil, domain.ErrMalformedToken
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	if !settledStatuses[transactionStatus] {
		return &NotificationResult{LoanID: loan.ID}, nil
	}

	if loan.IsPaid {
		// duplicate delivery
		return &NotificationResult{LoanID: loan.ID}, nil
	}

	if err := s.loanRepo.MarkPaid(ctx, loan.ID); err != nil {
		return nil, err
	}

	log.Printf("✅ Fine settled: loan=%d order=%s status=%s", loan.ID, orderID, transactionStatus)
	return &NotificationResult{LoanID: loan.ID, Applied: true}, nil
}
