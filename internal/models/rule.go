package models

import (
	"encoding/json"
	"time"
)

// Rule types understood by the evaluator. Unknown types are stored as-is and
// evaluate to allow.
const (
	RuleTypeKeywordFilter = "keyword_filter"
	RuleTypeURLFilter     = "url_filter"
	RuleTypeContentFilter = "content_filter"
	RuleTypeCustom        = "custom"
)

// Actions a matched rule can request. "flag" appears in catalog data but is
// never treated as blocking by the aggregator.
const (
	ActionAllow = "allow"
	ActionBlock = "block"
	ActionFlag  = "flag"
)

// Priority bounds for a rule.
const (
	MinPriority     = 1
	MaxPriority     = 10
	DefaultPriority = 1
)

// Rule is a user-owned moderation rule applied to inbound messages.
// Config holds the type-specific configuration as a JSON document.
type Rule struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	UUID        string    `json:"id" gorm:"uniqueIndex"`
	OwnerUserID string    `json:"user_id" gorm:"index"`
	RuleType    string    `json:"rule_type"` // "keyword_filter", "url_filter", "content_filter", "custom"
	Name        string    `json:"rule_name" gorm:"index"`
	Description string    `json:"rule_description"`
	Config      string    `json:"rule_config" gorm:"type:text"` // JSON document, shape depends on RuleType
	Priority    int       `json:"priority" gorm:"default:1"`    // 1..10, higher evaluates first
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedBy   string    `json:"created_by"`
	UpdatedBy   string    `json:"updated_by"`
}

// KeywordFilterConfig matches case-insensitive keyword occurrences in the
// message text and triggers once the total count reaches MaxOccurrences.
type KeywordFilterConfig struct {
	Keywords       []string `json:"keywords"`
	MaxOccurrences int      `json:"max_occurrences,omitempty"`
	Action         string   `json:"action,omitempty"`
}

// URLFilterConfig matches URLs extracted from the message text. Domains act as
// an allow-list checked before Patterns.
type URLFilterConfig struct {
	Domains  []string `json:"domains,omitempty"`
	Patterns []string `json:"patterns,omitempty"`
	Action   string   `json:"action,omitempty"`
}

// ContentFilter is one entry of a content_filter rule. Type selects the check:
// "regex" tests Pattern against the text, "length" tests len(text) > MaxLength.
type ContentFilter struct {
	Type      string `json:"type"`
	Pattern   string `json:"pattern,omitempty"`
	MaxLength int    `json:"max_length,omitempty"`
}

// ContentFilterConfig applies its filters in order; the first match decides.
type ContentFilterConfig struct {
	Filters []ContentFilter `json:"filters"`
	Action  string          `json:"action,omitempty"`
}

// KeywordConfig decodes the rule's config as a keyword_filter configuration
// and applies defaults.
func (r *Rule) KeywordConfig() (KeywordFilterConfig, error) {
	var cfg KeywordFilterConfig
	if err := json.Unmarshal([]byte(r.Config), &cfg); err != nil {
		return cfg, err
	}
	if cfg.MaxOccurrences <= 0 {
		cfg.MaxOccurrences = 1
	}
	if cfg.Action == "" {
		cfg.Action = ActionBlock
	}
	return cfg, nil
}

// URLConfig decodes the rule's config as a url_filter configuration and
// applies defaults.
func (r *Rule) URLConfig() (URLFilterConfig, error) {
	var cfg URLFilterConfig
	if err := json.Unmarshal([]byte(r.Config), &cfg); err != nil {
		return cfg, err
	}
	if cfg.Action == "" {
		cfg.Action = ActionBlock
	}
	return cfg, nil
}

// ContentConfig decodes the rule's config as a content_filter configuration
// and applies defaults.
func (r *Rule) ContentConfig() (ContentFilterConfig, error) {
	var cfg ContentFilterConfig
	if err := json.Unmarshal([]byte(r.Config), &cfg); err != nil {
		return cfg, err
	}
	if cfg.Action == "" {
		cfg.Action = ActionBlock
	}
	return cfg, nil
}
