package services

import (
	"context"
	"log"

	"pustaka-api/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start registers and starts all scheduled jobs
func (s *CronService) Start() {
	// Purge expired refresh tokens nightly at 02:00
	if _, err := s.cron.AddFunc("0 2 * * *", s.cleanupRefreshTokens); err != nil {
		log.Printf("❌ Failed to register token cleanup job: %v", err)
	}

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop gracefully stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) cleanupRefreshTokens() {
	if err := s.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("❌ Refresh token cleanup error: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens purged")
}
