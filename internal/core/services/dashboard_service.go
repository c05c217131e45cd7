package services

import (
	"context"
	"time"

	"pustaka-api/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User Statistics
	TotalUsers   int64 `json:"total_users"`
	TotalAdmins  int64 `json:"total_admins"`
	TotalMembers int64 `json:"total_members"`

	// Catalog Statistics
	TotalBooks int64 `json:"total_books"`
	TotalStock int64 `json:"total_stock"`

	// Loan Statistics
	TotalLoans    int64 `json:"total_loans"`
	PendingLoans  int64 `json:"pending_loans"`
	ApprovedLoans int64 `json:"approved_loans"`
	OverdueLoans  int64 `json:"overdue_loans"`
	ReturnedLoans int64 `json:"returned_loans"`

	// Fine Statistics
	OutstandingFines int64 `json:"outstanding_fines"`
	CollectedFines   int64 `json:"collected_fines"`

	// Monthly Statistics
	LoansThisMonth int64 `json:"loans_this_month"`

	// Recent Activity
	RecentLoans []LoanSummary `json:"recent_loans"`

	// Most Borrowed
	TopBooks []BookStats `json:"top_books"`
}

// LoanSummary represents loan summary for dashboard
type LoanSummary struct {
	ID        uint      `json:"id"`
	BookTitle string    `json:"book_title"`
	Username  string    `json:"username"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// BookStats represents borrow counts per book
type BookStats struct {
	BookID    uint   `json:"book_id"`
	Title     string `json:"title"`
	LoanCount int64  `json:"loan_count"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}
	today := time.Now().Format("2006-01-02")

	// User counts by role
	s.db.WithContext(ctx).Table("users").Where("deleted_at IS NULL").Count(&data.TotalUsers)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "ADMIN").Count(&data.TotalAdmins)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "USER").Count(&data.TotalMembers)

	// Catalog counts
	s.db.WithContext(ctx).Table("books").Where("deleted_at IS NULL").Count(&data.TotalBooks)
	s.db.WithContext(ctx).Table("books").Where("deleted_at IS NULL").
		Select("COALESCE(SUM(stock), 0)").Scan(&data.TotalStock)

	// Loan counts by status
	s.db.WithContext(ctx).Table("loans").Count(&data.TotalLoans)
	s.db.WithContext(ctx).Table("loans").Where("status = ?", domain.StatusPending).Count(&data.PendingLoans)
	s.db.WithContext(ctx).Table("loans").Where("status = ?", domain.StatusApproved).Count(&data.ApprovedLoans)
	s.db.WithContext(ctx).Table("loans").
		Where("status = ? AND due_date < ?", domain.StatusApproved, today).
		Count(&data.OverdueLoans)
	s.db.WithContext(ctx).Table("loans").Where("status = ?", domain.StatusReturned).Count(&data.ReturnedLoans)

	// Fine totals (stored amounts only; running fines are per-member views)
	s.db.WithContext(ctx).Table("loans").
		Where("status = ? AND fine_amount > 0 AND is_paid = ?", domain.StatusReturned, false).
		Select("COALESCE(SUM(fine_amount), 0)").Scan(&data.OutstandingFines)
	s.db.WithContext(ctx).Table("loans").
		Where("status = ? AND fine_amount > 0 AND is_paid = ?", domain.StatusReturned, true).
		Select("COALESCE(SUM(fine_amount), 0)").Scan(&data.CollectedFines)

	// This month
	monthStart := time.Now().Format("2006-01") + "-01"
	s.db.WithContext(ctx).Table("loans").Where("created_at >= ?", monthStart).Count(&data.LoansThisMonth)

	// Recent loans
	s.db.WithContext(ctx).Table("loans").
		Select("loans.id, books.title AS book_title, users.username, loans.status, loans.created_at").
		Joins("JOIN books ON books.id = loans.book_id").
		Joins("JOIN users ON users.id = loans.member_id").
		Order("loans.created_at DESC").
		Limit(10).
		Scan(&data.RecentLoans)

	// Most borrowed books
	s.db.WithContext(ctx).Table("loans").
		Select("loans.book_id, books.title, COUNT(loans.id) AS loan_count").
		Joins("JOIN books ON books.id = loans.book_id").
		Group("loans.book_id, books.title").
		Order("loan_count DESC").
		Limit(5).
		Scan(&data.TopBooks)

	return data, nil
}
