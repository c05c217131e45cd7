package domain

import "errors"

// Loan lifecycle errors
var (
	ErrIneligibleMember    = errors.New("member has unpaid fines or overdue loans")
	ErrOutOfStock          = errors.New("book is out of stock")
	ErrDuplicateActiveLoan = errors.New("member already has an active loan for this book")
	ErrBorrowLimitExceeded = errors.New("member reached the borrowing limit")
	ErrNotCancellable      = errors.New("only pending loans can be cancelled")
	ErrInvalidTransition   = errors.New("invalid loan status transition")
)

// Payment reconciliation errors
var (
	ErrMalformedToken = errors.New("malformed payment order token")
	ErrLoanNotFound   = errors.New("loan not found")
	ErrFineNotPayable = errors.New("loan has no payable fine")
)

// Common errors
var (
	ErrBookNotFound = errors.New("book not found")
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
)
