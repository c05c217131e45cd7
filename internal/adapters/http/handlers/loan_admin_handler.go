package handlers

import (
	"context"
	"errors"
	"strconv"

	"pustaka-api/internal/core/domain"
	"pustaka-api/internal/core/services"
	"pustaka-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanAdminHandler handles the librarian loan console
type LoanAdminHandler struct {
	loanService *services.LoanService
}

// NewLoanAdminHandler creates a new loan admin handler
func NewLoanAdminHandler(loanService *services.LoanService) *LoanAdminHandler {
	return &LoanAdminHandler{loanService: loanService}
}

// BatchRequest represents batch operation request body
type BatchRequest struct {
	LoanIDs []uint `json:"loan_ids"`
}

// List lists all loans
// @Summary List loans
// @Description List all loans, optionally by status (Admin only)
// @Tags Admin Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter: pending, approved, rejected, returned"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/loans [get]
func (h *LoanAdminHandler) List(c *fiber.Ctx) error {
	status := domain.LoanStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		return response.BadRequest(c, "Invalid status filter")
	}

	input := &services.ListLoansInput{
		Status: status,
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
	}

	result, err := h.loanService.List(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", result)
}

// Get returns one loan
// @Summary Get loan
// @Description Get a loan with its running fine (Admin only)
// @Tags Admin Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/loans/{id} [get]
func (h *LoanAdminHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	loan, err := h.loanService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to get loan")
	}

	return response.Success(c, "Loan retrieved successfully", fiber.Map{
		"loan": loan,
	})
}

// Approve approves a pending loan
// @Summary Approve loan
// @Description Approve a pending loan and take one stock unit (Admin only)
// @Tags Admin Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/loans/{id}/approve [post]
func (h *LoanAdminHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.loanService.Approve, "Loan approved successfully")
}

// Reject rejects a pending loan
// @Summary Reject loan
// @Description Reject a pending loan; stock is untouched (Admin only)
// @Tags Admin Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/loans/{id}/reject [post]
func (h *LoanAdminHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.loanService.Reject, "Loan rejected successfully")
}

// Return records a book return
// @Summary Return loan
// @Description Record the return, fix the fine and restore stock (Admin only)
// @Tags Admin Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/loans/{id}/return [post]
func (h *LoanAdminHandler) Return(c *fiber.Ctx) error {
	return h.transition(c, h.loanService.Return, "Loan returned successfully")
}

// MarkPaid marks a fine as paid out of band
// @Summary Mark fine paid
// @Description Settle a fine manually, e.g. cash at the desk (Admin only)
// @Tags Admin Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/loans/{id}/mark-paid [post]
func (h *LoanAdminHandler) MarkPaid(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if err := h.loanService.MarkPaid(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to mark fine as paid")
	}

	return response.Success(c, "Fine marked as paid", nil)
}

// ApproveBatch approves many pending loans
// @Summary Approve loans in batch
// @Description Approve each loan independently; failures are reported per loan (Admin only)
// @Tags Admin Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BatchRequest true "Loan IDs"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/loans/approve-batch [post]
func (h *LoanAdminHandler) ApproveBatch(c *fiber.Ctx) error {
	return h.batch(c, h.loanService.ApproveBatch)
}

// RejectBatch rejects many pending loans
// @Summary Reject loans in batch
// @Description Reject each loan independently; failures are reported per loan (Admin only)
// @Tags Admin Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BatchRequest true "Loan IDs"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/loans/reject-batch [post]
func (h *LoanAdminHandler) RejectBatch(c *fiber.Ctx) error {
	return h.batch(c, h.loanService.RejectBatch)
}

// ReturnBatch records many returns
// @Summary Return loans in batch
// @Description Return each loan independently; failures are reported per loan (Admin only)
// @Tags Admin Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BatchRequest true "Loan IDs"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/loans/return-batch [post]
func (h *LoanAdminHandler) ReturnBatch(c *fiber.Ctx) error {
	return h.batch(c, h.loanService.ReturnBatch)
}

func (h *LoanAdminHandler) transition(c *fiber.Ctx, apply func(ctx context.Context, loanID uint) error, message string) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if err := apply(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Loan is not in a state that allows this action")
		case errors.Is(err, domain.ErrOutOfStock):
			return response.Conflict(c, "Book is out of stock")
		default:
			return response.InternalServerError(c, "Failed to update loan")
		}
	}

	return response.Success(c, message, nil)
}

func (h *LoanAdminHandler) batch(c *fiber.Ctx, apply func(ctx context.Context, loanIDs []uint) []services.BatchOutcome) error {
	var req BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.LoanIDs) == 0 {
		return response.BadRequest(c, "Loan IDs are required")
	}

	outcomes := apply(c.Context(), req.LoanIDs)

	succeeded := 0
	for _, o := range outcomes {
		if o.OK {
			succeeded++
		}
	}

	return response.Success(c, "Batch processed", fiber.Map{
		"results":   outcomes,
		"succeeded": succeeded,
		"failed":    len(outcomes) - succeeded,
	})
}
