package models

import (
	"time"
)

// Audit actions recorded for rule mutations.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// RuleAuditLog records one rule mutation. Rows are append-only: the core never
// updates or deletes them outside the retention sweep.
type RuleAuditLog struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UUID      string    `json:"id" gorm:"uniqueIndex"`
	RuleUUID  string    `json:"rule_id" gorm:"index"`
	Action    string    `json:"action"` // CREATE, UPDATE, DELETE
	UserID    string    `json:"user_id"`
	Changes   string    `json:"changes" gorm:"type:text"` // opaque JSON snapshot
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
