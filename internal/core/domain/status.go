package domain

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	StatusPending  LoanStatus = "pending"
	StatusApproved LoanStatus = "approved"
	StatusRejected LoanStatus = "rejected"
	StatusReturned LoanStatus = "returned"
)

// validNext holds the allowed loan status transitions.
// Rejected and Returned are terminal. Cancellation is not a transition:
// a pending loan is deleted outright since no stock or fine exists yet.
var validNext = map[LoanStatus]map[LoanStatus]bool{
	StatusPending:  {StatusApproved: true, StatusRejected: true},
	StatusApproved: {StatusReturned: true},
	StatusRejected: {},
	StatusReturned: {},
}

// CanTransition reports whether a loan may move from one status to another
func CanTransition(from, to LoanStatus) bool {
	return validNext[from][to]
}

// IsValid reports whether s is a known loan status
func (s LoanStatus) IsValid() bool {
	_, ok := validNext[s]
	return ok
}

// IsActive reports whether the loan still counts against the member's
// borrowing limit (pending or approved)
func (s LoanStatus) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// IsTerminal reports whether no further transition is possible
func (s LoanStatus) IsTerminal() bool {
	return len(validNext[s]) == 0
}
