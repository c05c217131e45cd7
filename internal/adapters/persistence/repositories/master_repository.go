package repositories

import (
	"context"

	"pustaka-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GenreRepository handles genre data access
type GenreRepository struct {
	db *gorm.DB
}

// NewGenreRepository creates a new genre repository
func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Create creates a new genre
func (r *GenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	return r.db.WithContext(ctx).Create(genre).Error
}

// GetByID gets a genre by ID
func (r *GenreRepository) GetByID(ctx context.Context, id uint) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.WithContext(ctx).First(&genre, id).Error
	return &genre, err
}

// List lists all genres
func (r *GenreRepository) List(ctx context.Context) ([]*models.Genre, error) {
	var genres []*models.Genre
	err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}

// Update updates a genre
func (r *GenreRepository) Update(ctx context.Context, genre *models.Genre) error {
	return r.db.WithContext(ctx).Save(genre).Error
}

// Delete deletes a genre
func (r *GenreRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Genre{}, id).Error
}

// AuthorRepository handles author data access
type AuthorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *gorm.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// Create creates a new author
func (r *AuthorRepository) Create(ctx context.Context, author *models.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

// GetByID gets an author by ID
func (r *AuthorRepository) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	var author models.Author
	err := r.db.WithContext(ctx).First(&author, id).Error
	return &author, err
}

// List lists all authors
func (r *AuthorRepository) List(ctx context.Context) ([]*models.Author, error) {
	var authors []*models.Author
	err := r.db.WithContext(ctx).Order("name ASC").Find(&authors).Error
	return authors, err
}

// Update updates an author
func (r *AuthorRepository) Update(ctx context.Context, author *models.Author) error {
	return r.db.WithContext(ctx).Save(author).Error
}

// Delete deletes an author
func (r *AuthorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Author{}, id).Error
}

// LocationRepository handles shelf location data access
type LocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create creates a new location
func (r *LocationRepository) Create(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

// GetByID gets a location by ID
func (r *LocationRepository) GetByID(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).First(&location, id).Error
	return &location, err
}

// List lists all locations
func (r *LocationRepository) List(ctx context.Context) ([]*models.Location, error) {
	var locations []*models.Location
	err := r.db.WithContext(ctx).Order("shelf_name ASC").Find(&locations).Error
	return locations, err
}

// Update updates a location
func (r *LocationRepository) Update(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// Delete deletes a location
func (r *LocationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Location{}, id).Error
}
