package handlers

import (
	"errors"
	"log"
	"strconv"

	"pustaka-api/internal/core/domain"
	"pustaka-api/internal/core/services"
	"pustaka-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles fine payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// NotificationRequest represents the gateway notification payload
type NotificationRequest struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
}

// CreateFinePayment opens a gateway transaction for a loan's fine
// @Summary Pay fine
// @Description Create a Snap transaction for the fine on a returned loan
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/pay [post]
func (h *PaymentHandler) CreateFinePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	result, err := h.paymentService.CreateFinePayment(c.Context(), uint(id), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You can only pay your own fines")
		case errors.Is(err, domain.ErrFineNotPayable):
			return response.Conflict(c, "Loan has no payable fine")
		default:
			return response.InternalServerError(c, "Failed to create payment")
		}
	}

	return response.Created(c, "Payment created successfully", result)
}

// Notification consumes payment gateway callbacks
// @Summary Payment notification webhook
// @Description Gateway callback; settlement marks the fine paid, replays are no-ops
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body NotificationRequest true "Gateway notification"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/notification [post]
func (h *PaymentHandler) Notification(c *fiber.Ctx) error {
	var req NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.OrderID == "" {
		return response.BadRequest(c, "Order ID is required")
	}

	result, err := h.paymentService.HandleNotification(c.Context(), req.OrderID, req.TransactionStatus)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedToken):
			return response.BadRequest(c, "Unrecognized order ID")
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		default:
			return response.InternalServerError(c, "Failed to process notification")
		}
	}

	if result.Applied {
		log.Printf("✅ Fine settled via gateway for loan %d", result.LoanID)
	}

	return response.Success(c, "Notification processed", fiber.Map{
		"loan_id": result.LoanID,
		"applied": result.Applied,
	})
}
