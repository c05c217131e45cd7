package models

import (
	"time"

	"pustaka-api/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & Member Tables
// ============================================================

// User represents users table. Members and admins share it; the loan core
// only ever uses the ID as an opaque member identity.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'USER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog Master Tables
// ============================================================

// Genre represents genres table
type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Genre) TableName() string {
	return "genres"
}

// Author represents authors table
type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}

// Location represents shelf locations
type Location struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ShelfName   string    `gorm:"size:50;uniqueIndex;not null" json:"shelf_name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Location) TableName() string {
	return "locations"
}

// ============================================================
// Catalog Main Tables
// ============================================================

// Book represents books table. Stock is only ever mutated inside loan
// transitions (approve decrements, return increments), never directly.
type Book struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:200;not null;index" json:"title"`
	ISBN            string         `gorm:"size:13;default:'-'" json:"isbn"`
	Description     string         `gorm:"type:text" json:"description"`
	PublicationYear int            `gorm:"not null" json:"publication_year"`
	Stock           int            `gorm:"not null;default:0" json:"stock"`
	LocationID      *uint          `json:"location_id"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Genres   []Genre   `gorm:"many2many:book_genres" json:"genres,omitempty"`
	Authors  []Author  `gorm:"many2many:book_authors" json:"authors,omitempty"`
	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Reviews  []Review  `gorm:"foreignKey:BookID" json:"reviews,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

// BookResponse DTO with rating aggregates
type BookResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	ISBN            string    `json:"isbn"`
	Description     string    `json:"description"`
	PublicationYear int       `json:"publication_year"`
	Stock           int       `json:"stock"`
	Genres          []Genre   `json:"genres,omitempty"`
	Authors         []Author  `json:"authors,omitempty"`
	Location        *Location `json:"location,omitempty"`
	AverageRating   float64   `json:"average_rating"`
	TotalReviews    int64     `json:"total_reviews"`
	CreatedAt       time.Time `json:"created_at"`
}

func (b *Book) ToResponse(avgRating float64, totalReviews int64) *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		Description:     b.Description,
		PublicationYear: b.PublicationYear,
		Stock:           b.Stock,
		Genres:          b.Genres,
		Authors:         b.Authors,
		Location:        b.Location,
		AverageRating:   avgRating,
		TotalReviews:    totalReviews,
		CreatedAt:       b.CreatedAt,
	}
}

// Review represents book reviews, one per (book, user)
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_book_user" json:"book_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_book_user" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

// ============================================================
// Loan Table
// ============================================================

// Loan represents loans table. Dates are populated only at specific
// transitions: borrow/due on approval, return on return. FineAmount is
// fixed exactly once when the loan enters returned status.
type Loan struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	BookID     uint              `gorm:"not null;index" json:"book_id"`
	MemberID   uint              `gorm:"not null;index" json:"member_id"`
	Status     domain.LoanStatus `gorm:"size:10;not null;default:'pending';index" json:"status"`
	BorrowDate *time.Time        `gorm:"type:date" json:"borrow_date"`
	DueDate    *time.Time        `gorm:"type:date" json:"due_date"`
	ReturnDate *time.Time        `gorm:"type:date" json:"return_date"`
	FineAmount int64             `gorm:"not null;default:0" json:"fine_amount"`
	IsPaid     bool              `gorm:"not null;default:false" json:"is_paid"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Book   *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Member *User `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// LoanResponse DTO with the running-fine projection attached
type LoanResponse struct {
	ID          uint              `json:"id"`
	BookID      uint              `json:"book_id"`
	BookTitle   string            `json:"book_title,omitempty"`
	MemberID    uint              `json:"member_id"`
	MemberName  string            `json:"member_name,omitempty"`
	Status      domain.LoanStatus `json:"status"`
	BorrowDate  *time.Time        `json:"borrow_date"`
	DueDate     *time.Time        `json:"due_date"`
	ReturnDate  *time.Time        `json:"return_date"`
	FineAmount  int64             `json:"fine_amount"`
	RunningFine int64             `json:"running_fine"`
	IsPaid      bool              `json:"is_paid"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (l *Loan) ToResponse(runningFine int64) *LoanResponse {
	resp := &LoanResponse{
		ID:          l.ID,
		BookID:      l.BookID,
		MemberID:    l.MemberID,
		Status:      l.Status,
		BorrowDate:  l.BorrowDate,
		DueDate:     l.DueDate,
		ReturnDate:  l.ReturnDate,
		FineAmount:  l.FineAmount,
		RunningFine: runningFine,
		IsPaid:      l.IsPaid,
		CreatedAt:   l.CreatedAt,
	}

	if l.Book != nil {
		resp.BookTitle = l.Book.Title
	}
	if l.Member != nil {
		resp.MemberName = l.Member.Username
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Genre{},
		&Author{},
		&Location{},
		&Book{},
		&Review{},
		&Loan{},
	)
}
