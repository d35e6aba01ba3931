package models

import (
	"time"
)

// RuleTemplate is a reusable rule configuration a user can clone into a
// personal Rule. Config has the same shape as a Rule's config plus an embedded
// "rule_type" key.
type RuleTemplate struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	UUID        string    `json:"id" gorm:"uniqueIndex"`
	Name        string    `json:"name" gorm:"index"`
	Description string    `json:"description"`
	Category    string    `json:"category" gorm:"index"`
	Config      string    `json:"config" gorm:"type:text"`
	IsPublic    bool      `json:"is_public" gorm:"default:false"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
