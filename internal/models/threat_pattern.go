package models

import (
	"time"
)

// Risk levels for threat patterns, ordered from least to most severe.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// ThreatPattern is a global catalog entry describing a known risk category.
// It is reference data provisioned by administrators and readable by all users;
// it is not evaluated against messages directly.
type ThreatPattern struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	UUID        string    `json:"id" gorm:"uniqueIndex"`
	Name        string    `json:"name" gorm:"uniqueIndex"`
	Description string    `json:"description"`
	PatternType string    `json:"pattern_type"` // e.g. "spam", "phishing", "malware", "custom"
	Config      string    `json:"config" gorm:"type:text"`
	RiskLevel   string    `json:"risk_level" gorm:"default:medium"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
