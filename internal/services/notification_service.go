package services

import (
	"fmt"
	"strings"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/modsentry/modsentry/backend/internal/logger"
	"github.com/modsentry/modsentry/backend/internal/models"
)

// NotificationService stores in-app notifications and optionally pushes them
// to an external service via a shoutrrr URL. External sends are best-effort.
type NotificationService struct {
	DB          *gorm.DB
	notifyURL   string
	minPriority int
}

func NewNotificationService(db *gorm.DB, notifyURL string, minPriority int) *NotificationService {
	return &NotificationService{DB: db, notifyURL: notifyURL, minPriority: minPriority}
}

func (s *NotificationService) Create(nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
		Read:    false,
	}
	result := s.DB.Create(notification)
	return notification, result.Error
}

func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(id string) error {
	return s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (s *NotificationService) MarkAllAsRead() error {
	return s.DB.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// NotifyBlocked records a notification when a message was blocked by rules at
// or above the configured priority threshold. Failures are logged and
// swallowed; a lost notification never affects the evaluation outcome.
func (s *NotificationService) NotifyBlocked(userID string, blockedBy []models.Rule) {
	top := 0
	var names []string
	for _, rule := range blockedBy {
		names = append(names, rule.Name)
		if rule.Priority > top {
			top = rule.Priority
		}
	}
	if top < s.minPriority {
		return
	}

	title := "Message blocked"
	message := fmt.Sprintf("A message for user %s was blocked by: %s", userID, strings.Join(names, ", "))

	if _, err := s.Create(models.NotificationWarning, title, message); err != nil {
		logger.Log().WithError(err).Warn("failed to store block notification")
	}

	if s.notifyURL == "" {
		return
	}
	go func() {
		if err := shoutrrr.Send(s.notifyURL, title+": "+message); err != nil {
			logger.Log().WithError(err).Warn("failed to send external notification")
		}
	}()
}
