package services

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modsentry/modsentry/backend/internal/logger"
	"github.com/modsentry/modsentry/backend/internal/metrics"
	"github.com/modsentry/modsentry/backend/internal/models"
)

const auditQueueSize = 256

// RequestMeta carries optional request context recorded alongside a mutation.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditService appends rule mutation events through a buffered queue drained
// by a single writer goroutine. The queue makes the non-atomicity explicit: a
// mutation can succeed while its audit record is lost, and that loss never
// surfaces to the caller.
type AuditService struct {
	db    *gorm.DB
	queue chan models.RuleAuditLog
	done  chan struct{}
}

func NewAuditService(db *gorm.DB) *AuditService {
	s := &AuditService{
		db:    db,
		queue: make(chan models.RuleAuditLog, auditQueueSize),
		done:  make(chan struct{}),
	}
	go s.drain()
	return s
}

func (s *AuditService) drain() {
	for entry := range s.queue {
		if err := s.db.Create(&entry).Error; err != nil {
			logger.WithFields(map[string]interface{}{
				"rule_id": entry.RuleUUID,
				"action":  entry.Action,
			}).WithError(err).Warn("audit write failed, event lost")
		}
	}
	close(s.done)
}

// Record queues a mutation event. It never blocks and never fails the caller:
// a full queue drops the event and counts it.
func (s *AuditService) Record(ruleUUID, action, userID string, changes interface{}, meta RequestMeta) {
	snapshot, err := json.Marshal(changes)
	if err != nil {
		logger.Log().WithError(err).Debug("audit changes snapshot not serializable")
		snapshot = []byte("{}")
	}

	entry := models.RuleAuditLog{
		UUID:      uuid.New().String(),
		RuleUUID:  ruleUUID,
		Action:    action,
		UserID:    userID,
		Changes:   string(snapshot),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}

	select {
	case s.queue <- entry:
	default:
		metrics.IncAuditDropped()
		logger.WithFields(map[string]interface{}{
			"rule_id": ruleUUID,
			"action":  action,
		}).Warn("audit queue full, event dropped")
	}
}

// ListByRule returns audit entries for one rule, newest first.
func (s *AuditService) ListByRule(ruleUUID string, limit int) ([]models.RuleAuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.RuleAuditLog
	err := s.db.Where("rule_uuid = ?", ruleUUID).
		Order("created_at desc").Limit(limit).Find(&entries).Error
	return entries, err
}

// ListRecent returns the most recent audit entries across all rules.
func (s *AuditService) ListRecent(limit int) ([]models.RuleAuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.RuleAuditLog
	err := s.db.Order("created_at desc").Limit(limit).Find(&entries).Error
	return entries, err
}

// Close stops accepting events and waits for queued entries to be written.
// Call once at shutdown; Record must not be called afterwards.
func (s *AuditService) Close() {
	close(s.queue)
	<-s.done
}
