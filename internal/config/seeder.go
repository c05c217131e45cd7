package config

import (
	"log"

	"pustaka-api/internal/adapters/persistence/models"
	"pustaka-api/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedMasterData(); err != nil {
		log.Printf("⚠️ Master data seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds a default admin user
// Development/testing only; create production admins through a secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@pustaka.local",
		Password: hashedPassword,
		Role:     "ADMIN",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("✅ Default admin user seeded (admin / admin123456)")
	return nil
}

// seedMasterData seeds starter genres, authors and shelf locations
func (s *Seeder) seedMasterData() error {
	var count int64
	s.db.Model(&models.Genre{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	genres := []models.Genre{
		{Name: "Fiksi"},
		{Name: "Non-Fiksi"},
		{Name: "Sains"},
		{Name: "Sejarah"},
		{Name: "Teknologi"},
	}
	if err := s.db.Create(&genres).Error; err != nil {
		return err
	}

	authors := []models.Author{
		{Name: "Pramoedya Ananta Toer"},
		{Name: "Andrea Hirata"},
		{Name: "Tere Liye"},
	}
	if err := s.db.Create(&authors).Error; err != nil {
		return err
	}

	locations := []models.Location{
		{ShelfName: "A-1", Description: "Lantai 1, rak depan"},
		{ShelfName: "B-2", Description: "Lantai 1, rak tengah"},
		{ShelfName: "C-3", Description: "Lantai 2, rak referensi"},
	}
	if err := s.db.Create(&locations).Error; err != nil {
		return err
	}

	log.Println("✅ Master data seeded")
	return nil
}
