package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/modsentry/modsentry/backend/internal/logger"
	"github.com/modsentry/modsentry/backend/internal/models"
)

// RetentionService deletes audit log entries older than the configured
// window on a daily schedule.
type RetentionService struct {
	db   *gorm.DB
	days int
	cron *cron.Cron
}

func NewRetentionService(db *gorm.DB, days int) *RetentionService {
	return &RetentionService{db: db, days: days, cron: cron.New()}
}

// Start schedules the daily sweep. No-op when retention is disabled (days <= 0).
func (s *RetentionService) Start() error {
	if s.days <= 0 {
		return nil
	}
	if _, err := s.cron.AddFunc("@daily", func() {
		if _, err := s.Sweep(); err != nil {
			logger.Log().WithError(err).Warn("audit retention sweep failed")
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule.
func (s *RetentionService) Stop() {
	s.cron.Stop()
}

// Sweep removes audit entries older than the retention window and returns how
// many rows were deleted.
func (s *RetentionService) Sweep() (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.days)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.RuleAuditLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		logger.WithFields(map[string]interface{}{
			"deleted": result.RowsAffected,
			"cutoff":  cutoff.Format(time.RFC3339),
		}).Info("audit retention sweep completed")
	}
	return result.RowsAffected, nil
}
