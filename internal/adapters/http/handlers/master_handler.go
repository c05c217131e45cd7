package handlers

import (
	"strconv"

	"pustaka-api/internal/adapters/persistence/models"
	"pustaka-api/internal/adapters/persistence/repositories"
	"pustaka-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MasterHandler handles master data endpoints
type MasterHandler struct {
	genreRepo    *repositories.GenreRepository
	authorRepo   *repositories.AuthorRepository
	locationRepo *repositories.LocationRepository
}

// NewMasterHandler creates a new master handler
func NewMasterHandler(
	genreRepo *repositories.GenreRepository,
	authorRepo *repositories.AuthorRepository,
	locationRepo *repositories.LocationRepository,
) *MasterHandler {
	return &MasterHandler{
		genreRepo:    genreRepo,
		authorRepo:   authorRepo,
		locationRepo: locationRepo,
	}
}

// ============================================================
// Genres
// ============================================================

// NameRequest represents a name-only master record body
type NameRequest struct {
	Name string `json:"name"`
}

// ListGenres lists all genres
// @Summary List genres
// @Tags Master
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /genres [get]
func (h *MasterHandler) ListGenres(c *fiber.Ctx) error {
	genres, err := h.genreRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list genres")
	}

	return response.Success(c, "Genres retrieved successfully", fiber.Map{
		"genres": genres,
	})
}

// CreateGenre creates a new genre
// @Summary Create genre
// @Description Create a new genre (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body NameRequest true "Genre data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/genres [post]
func (h *MasterHandler) CreateGenre(c *fiber.Ctx) error {
	var req NameRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	genre := &models.Genre{Name: req.Name}
	if err := h.genreRepo.Create(c.Context(), genre); err != nil {
		return response.Conflict(c, "Genre already exists")
	}

	return response.Created(c, "Genre created successfully", fiber.Map{
		"genre": genre,
	})
}

// UpdateGenre updates a genre
// @Summary Update genre
// @Description Update a genre (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Genre ID"
// @Param body body NameRequest true "Genre data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/genres/{id} [put]
func (h *MasterHandler) UpdateGenre(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req NameRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	genre, err := h.genreRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Genre not found")
	}

	genre.Name = req.Name
	if err := h.genreRepo.Update(c.Context(), genre); err != nil {
		return response.InternalServerError(c, "Failed to update genre")
	}

	return response.Success(c, "Genre updated successfully", fiber.Map{
		"genre": genre,
	})
}

// DeleteGenre deletes a genre
// @Summary Delete genre
// @Description Delete a genre (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Genre ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/genres/{id} [delete]
func (h *MasterHandler) DeleteGenre(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if _, err := h.genreRepo.GetByID(c.Context(), uint(id)); err != nil {
		return response.NotFound(c, "Genre not found")
	}

	if err := h.genreRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete genre")
	}

	return response.Success(c, "Genre deleted successfully", nil)
}

// ============================================================
// Authors
// ============================================================

// ListAuthors lists all authors
// @Summary List authors
// @Tags Master
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /authors [get]
func (h *MasterHandler) ListAuthors(c *fiber.Ctx) error {
	authors, err := h.authorRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list authors")
	}

	return response.Success(c, "Authors retrieved successfully", fiber.Map{
		"authors": authors,
	})
}

// CreateAuthor creates a new author
// @Summary Create author
// @Description Create a new author (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body NameRequest true "Author data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/authors [post]
func (h *MasterHandler) CreateAuthor(c *fiber.Ctx) error {
	var req NameRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	author := &models.Author{Name: req.Name}
	if err := h.authorRepo.Create(c.Context(), author); err != nil {
		return response.Conflict(c, "Author already exists")
	}

	return response.Created(c, "Author created successfully", fiber.Map{
		"author": author,
	})
}

// UpdateAuthor updates an author
// @Summary Update author
// @Description Update an author (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Param body body NameRequest true "Author data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/authors/{id} [put]
func (h *MasterHandler) UpdateAuthor(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req NameRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	author, err := h.authorRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Author not found")
	}

	author.Name = req.Name
	if err := h.authorRepo.Update(c.Context(), author); err != nil {
		return response.InternalServerError(c, "Failed to update author")
	}

	return response.Success(c, "Author updated successfully", fiber.Map{
		"author": author,
	})
}

// DeleteAuthor deletes an author
// @Summary Delete author
// @Description Delete an author (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/authors/{id} [delete]
func (h *MasterHandler) DeleteAuthor(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if _, err := h.authorRepo.GetByID(c.Context(), uint(id)); err != nil {
		return response.NotFound(c, "Author not found")
	}

	if err := h.authorRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete author")
	}

	return response.Success(c, "Author deleted successfully", nil)
}

// ============================================================
// Shelf Locations
// ============================================================

// LocationRequest represents shelf location body
type LocationRequest struct {
	ShelfName   string `json:"shelf_name"`
	Description string `json:"description,omitempty"`
}

// ListLocations lists all shelf locations
// @Summary List shelf locations
// @Tags Master
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /locations [get]
func (h *MasterHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.locationRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list locations")
	}

	return response.Success(c, "Locations retrieved successfully", fiber.Map{
		"locations": locations,
	})
}

// CreateLocation creates a new shelf location
// @Summary Create shelf location
// @Description Create a new shelf location (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LocationRequest true "Location data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/locations [post]
func (h *MasterHandler) CreateLocation(c *fiber.Ctx) error {
	var req LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ShelfName == "" {
		return response.BadRequest(c, "Shelf name is required")
	}

	location := &models.Location{
		ShelfName:   req.ShelfName,
		Description: req.Description,
	}
	if err := h.locationRepo.Create(c.Context(), location); err != nil {
		return response.Conflict(c, "Location already exists")
	}

	return response.Created(c, "Location created successfully", fiber.Map{
		"location": location,
	})
}

// UpdateLocation updates a shelf location
// @Summary Update shelf location
// @Description Update a shelf location (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Param body body LocationRequest true "Location data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/locations/{id} [put]
func (h *MasterHandler) UpdateLocation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ShelfName == "" {
		return response.BadRequest(c, "Shelf name is required")
	}

	location, err := h.locationRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Location not found")
	}

	location.ShelfName = req.ShelfName
	location.Description = req.Description
	if err := h.locationRepo.Update(c.Context(), location); err != nil {
		return response.InternalServerError(c, "Failed to update location")
	}

	return response.Success(c, "Location updated successfully", fiber.Map{
		"location": location,
	})
}

// DeleteLocation deletes a shelf location
// @Summary Delete shelf location
// @Description Delete a shelf location (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/locations/{id} [delete]
func (h *MasterHandler) DeleteLocation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if _, err := h.locationRepo.GetByID(c.Context(), uint(id)); err != nil {
		return response.NotFound(c, "Location not found")
	}

	if err := h.locationRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete location")
	}

	return response.Success(c, "Location deleted successfully", nil)
}
