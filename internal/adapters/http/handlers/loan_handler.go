package handlers

import (
	"errors"
	"strconv"

	"pustaka-api/internal/core/domain"
	"pustaka-api/internal/core/services"
	"pustaka-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles member-facing loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// RequestLoanRequest represents loan request body
type RequestLoanRequest struct {
	BookID uint `json:"book_id"`
}

// RequestLoan submits a borrow request
// @Summary Request loan
// @Description Request to borrow a book; created in pending status
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RequestLoanRequest true "Loan request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) RequestLoan(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req RequestLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.BookID == 0 {
		return response.BadRequest(c, "Book ID is required")
	}

	loan, err := h.loanService.RequestLoan(c.Context(), userID, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrIneligibleMember):
			return response.Forbidden(c, "You have unpaid fines or overdue loans")
		case errors.Is(err, domain.ErrBorrowLimitExceeded):
			return response.Conflict(c, "Active loan limit reached")
		case errors.Is(err, domain.ErrDuplicateActiveLoan):
			return response.Conflict(c, "You already have an active loan for this book")
		case errors.Is(err, domain.ErrOutOfStock):
			return response.Conflict(c, "Book is out of stock")
		default:
			return response.InternalServerError(c, "Failed to request loan")
		}
	}

	return response.Created(c, "Loan requested successfully", fiber.Map{
		"loan": loan,
	})
}

// MyLoans lists the member's own loans
// @Summary List my loans
// @Description List the authenticated member's loans, optionally by status
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter: pending, approved, rejected, returned"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /loans/my [get]
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	status := domain.LoanStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		return response.BadRequest(c, "Invalid status filter")
	}

	input := &services.ListLoansInput{
		Status: status,
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 8),
	}

	result, err := h.loanService.ListByMember(c.Context(), userID, input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", result)
}

// Cancel withdraws a pending loan request
// @Summary Cancel loan request
// @Description Delete own pending loan request; approved loans cannot be cancelled
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id} [delete]
func (h *LoanHandler) Cancel(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if err := h.loanService.Cancel(c.Context(), uint(id), userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrNotCancellable):
			return response.Conflict(c, "Only pending loans can be cancelled")
		default:
			return response.InternalServerError(c, "Failed to cancel loan")
		}
	}

	return response.Success(c, "Loan cancelled successfully", nil)
}

// Summary returns the member's borrowing summary
// @Summary My borrowing summary
// @Description Current loans, active count, total fine owed, and eligibility
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/summary [get]
func (h *LoanHandler) Summary(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	summary, err := h.loanService.Summary(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to build summary")
	}

	return response.Success(c, "Summary retrieved successfully", summary)
}
