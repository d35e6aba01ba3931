package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modsentry/modsentry/backend/internal/models"
)

// RuleInput is the create payload for a rule. RuleConfig is kept raw so the
// type-specific shape can be checked against RuleType.
type RuleInput struct {
	RuleType        string          `json:"rule_type"`
	RuleName        string          `json:"rule_name"`
	RuleDescription string          `json:"rule_description"`
	RuleConfig      json.RawMessage `json:"rule_config"`
	Priority        *int            `json:"priority"`
	UserID          string          `json:"user_id"`
}

// ValidationResult reports whether a rule payload is acceptable. It is always
// returned, never raised: a failed validation is a value, not an error.
type ValidationResult struct {
	Valid  bool     `json:"is_valid"`
	Errors []string `json:"errors"`
}

// ValidateRule checks the generic fields in order (rule_type, rule_name,
// rule_config), then the type-specific config shape. Unknown rule types pass
// the generic checks only; they receive no type-specific validation.
func ValidateRule(in RuleInput) ValidationResult {
	var errs []string

	if strings.TrimSpace(in.RuleType) == "" {
		errs = append(errs, "rule_type is required")
	}
	if strings.TrimSpace(in.RuleName) == "" {
		errs = append(errs, "rule_name is required")
	}
	if len(in.RuleConfig) == 0 || string(in.RuleConfig) == "null" {
		errs = append(errs, "rule_config is required")
	}
	if in.Priority != nil && (*in.Priority < models.MinPriority || *in.Priority > models.MaxPriority) {
		errs = append(errs, fmt.Sprintf("priority must be between %d and %d", models.MinPriority, models.MaxPriority))
	}

	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs}
	}

	errs = append(errs, validateRuleConfig(in.RuleType, in.RuleConfig)...)

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// validateRuleConfig checks the config document against the shape required by
// the rule type. Unknown types return no errors.
func validateRuleConfig(ruleType string, raw json.RawMessage) []string {
	switch ruleType {
	case models.RuleTypeKeywordFilter:
		return validateKeywordConfig(raw)
	case models.RuleTypeURLFilter:
		return validateURLConfig(raw)
	case models.RuleTypeContentFilter:
		return validateContentConfig(raw)
	}
	return nil
}

func validateKeywordConfig(raw json.RawMessage) []string {
	var cfg models.KeywordFilterConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return []string{"keyword_filter config requires a keywords list of strings"}
	}
	if len(cfg.Keywords) == 0 {
		return []string{"keyword_filter config requires a non-empty keywords list"}
	}
	for _, kw := range cfg.Keywords {
		if strings.TrimSpace(kw) == "" {
			return []string{"keywords must not contain empty entries"}
		}
	}
	return nil
}

func validateURLConfig(raw json.RawMessage) []string {
	var cfg models.URLFilterConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return []string{"url_filter config must be a JSON object with domains or patterns lists"}
	}
	if len(cfg.Domains) == 0 && len(cfg.Patterns) == 0 {
		return []string{"url_filter config requires at least one of domains or patterns"}
	}
	return nil
}

func validateContentConfig(raw json.RawMessage) []string {
	var cfg models.ContentFilterConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return []string{"content_filter config requires a filters list"}
	}
	if cfg.Filters == nil {
		return []string{"content_filter config requires a filters list"}
	}
	var errs []string
	for i, f := range cfg.Filters {
		if strings.TrimSpace(f.Type) == "" {
			errs = append(errs, fmt.Sprintf("content filter %d requires a type", i))
			continue
		}
		if f.Type == "regex" && f.Pattern == "" {
			errs = append(errs, fmt.Sprintf("content filter %d requires a pattern", i))
		}
	}
	return errs
}
