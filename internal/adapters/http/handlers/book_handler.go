package handlers

import (
	"errors"
	"strconv"

	"pustaka-api/internal/core/domain"
	"pustaka-api/internal/core/services"
	"pustaka-api/internal/pkg/pagination"
	"pustaka-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService   *services.BookService
	reviewService *services.ReviewService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService, reviewService *services.ReviewService) *BookHandler {
	return &BookHandler{
		bookService:   bookService,
		reviewService: reviewService,
	}
}

// List lists catalog books
// @Summary List books
// @Description Search and browse the catalog with filters
// @Tags Books
// @Accept json
// @Produce json
// @Param q query string false "Search title or ISBN"
// @Param genre_id query int false "Filter by genre"
// @Param author_id query int false "Filter by author"
// @Param location_id query int false "Filter by shelf location"
// @Param sort query string false "Sort: title, rating, newest"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	input := &services.ListBooksInput{
		Query: c.Query("q"),
		Sort:  c.Query("sort"),
		Page:  params.Page,
		Limit: params.Limit,
	}

	if id := uint(c.QueryInt("genre_id", 0)); id > 0 {
		input.GenreID = &id
	}
	if id := uint(c.QueryInt("author_id", 0)); id > 0 {
		input.AuthorID = &id
	}
	if id := uint(c.QueryInt("location_id", 0)); id > 0 {
		input.LocationID = &id
	}

	result, err := h.bookService.List(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully", result)
}

// Get returns one book with its reviews
// @Summary Get book detail
// @Description Get a book with rating aggregates and reviews
// @Tags Books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	detail, err := h.bookService.GetDetail(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", detail)
}

// Create adds a book to the catalog
// @Summary Create book
// @Description Create a new catalog book (Admin only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SaveBookInput true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var req services.SaveBookInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}
	if req.Stock < 0 {
		return response.BadRequest(c, "Stock cannot be negative")
	}

	book, err := h.bookService.Create(c.Context(), &req)
	if err != nil {
		return response.InternalServerError(c, "Failed to create book")
	}

	return response.Created(c, "Book created successfully", fiber.Map{
		"book": book,
	})
}

// Update edits a catalog book
// @Summary Update book
// @Description Update book metadata; stock is adjusted only by loan traffic (Admin only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body services.SaveBookInput true "Book data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/books/{id} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req services.SaveBookInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}

	book, err := h.bookService.Update(c.Context(), uint(id), &req)
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to update book")
	}

	return response.Success(c, "Book updated successfully", fiber.Map{
		"book": book,
	})
}

// Delete removes a book from the catalog
// @Summary Delete book
// @Description Soft-delete a catalog book (Admin only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if err := h.bookService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to delete book")
	}

	return response.Success(c, "Book deleted successfully", nil)
}

// SubmitReview posts a review on a book
// @Summary Submit review
// @Description Post a rating and comment, one per member per book
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body services.SubmitReviewInput true "Review data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books/{id}/reviews [post]
func (h *BookHandler) SubmitReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req services.SubmitReviewInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	review, err := h.reviewService.Submit(c.Context(), uint(id), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			return response.BadRequest(c, "Rating must be between 1 and 5")
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, services.ErrDuplicateReview):
			return response.Conflict(c, "You have already reviewed this book")
		default:
			return response.InternalServerError(c, "Failed to submit review")
		}
	}

	return response.Created(c, "Review submitted successfully", fiber.Map{
		"review": review,
	})
}
