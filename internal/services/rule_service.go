package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modsentry/modsentry/backend/internal/models"
)

// ErrRuleNotFound covers both a missing id and an owner mismatch. The two are
// deliberately indistinguishable so callers cannot probe other users' rules.
var ErrRuleNotFound = errors.New("rule not found")

// ValidationError carries the field errors from a failed rule validation.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "rule validation failed: " + strings.Join(e.Errors, "; ")
}

// RuleListFilters narrows a rule listing.
type RuleListFilters struct {
	RuleType string
	IsActive *bool
}

// RuleUpdateInput is a partial update: only non-nil fields are applied.
// The rule type is immutable and deliberately absent.
type RuleUpdateInput struct {
	RuleName        *string         `json:"rule_name"`
	RuleDescription *string         `json:"rule_description"`
	RuleConfig      json.RawMessage `json:"rule_config"`
	Priority        *int            `json:"priority"`
	IsActive        *bool           `json:"is_active"`
	UserID          string          `json:"user_id"`
}

// RuleService owns CRUD over rules. Every operation is scoped by the owning
// user id; mutations feed the audit queue after the store write succeeds.
type RuleService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewRuleService(db *gorm.DB, audit *AuditService) *RuleService {
	return &RuleService{db: db, audit: audit}
}

// Create validates and persists a new rule owned by in.UserID.
func (s *RuleService) Create(in RuleInput, meta RequestMeta) (*models.Rule, error) {
	if res := ValidateRule(in); !res.Valid {
		return nil, &ValidationError{Errors: res.Errors}
	}

	priority := models.DefaultPriority
	if in.Priority != nil {
		priority = *in.Priority
	}

	rule := models.Rule{
		UUID:        uuid.New().String(),
		OwnerUserID: in.UserID,
		RuleType:    in.RuleType,
		Name:        in.RuleName,
		Description: in.RuleDescription,
		Config:      string(in.RuleConfig),
		Priority:    priority,
		IsActive:    true,
		CreatedBy:   in.UserID,
		UpdatedBy:   in.UserID,
	}

	if err := s.db.Create(&rule).Error; err != nil {
		return nil, err
	}

	s.audit.Record(rule.UUID, models.AuditActionCreate, in.UserID, rule, meta)

	return &rule, nil
}

// GetByUUID retrieves a rule by its public id, scoped to the owner.
func (s *RuleService) GetByUUID(id, ownerID string) (*models.Rule, error) {
	var rule models.Rule
	if err := s.db.Where("uuid = ? AND owner_user_id = ?", id, ownerID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// List returns the owner's rules ordered by priority descending, then creation
// time descending. The ordering is part of the contract: evaluation reports
// follow it.
func (s *RuleService) List(ownerID string, filters RuleListFilters) ([]models.Rule, error) {
	query := s.db.Where("owner_user_id = ?", ownerID)
	if filters.RuleType != "" {
		query = query.Where("rule_type = ?", filters.RuleType)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}

	var rules []models.Rule
	if err := query.Order("priority desc, created_at desc").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// ListActive returns the owner's active rules in evaluation order.
func (s *RuleService) ListActive(ownerID string) ([]models.Rule, error) {
	active := true
	return s.List(ownerID, RuleListFilters{IsActive: &active})
}

// Update applies a partial update: fields absent from the payload keep their
// prior value. updated_at and updated_by are always refreshed.
func (s *RuleService) Update(id, ownerID string, in RuleUpdateInput, meta RequestMeta) (*models.Rule, error) {
	rule, err := s.GetByUUID(id, ownerID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}

	if in.RuleName != nil {
		if strings.TrimSpace(*in.RuleName) == "" {
			return nil, &ValidationError{Errors: []string{"rule_name must not be empty"}}
		}
		rule.Name = *in.RuleName
		changes["rule_name"] = *in.RuleName
	}
	if in.RuleDescription != nil {
		rule.Description = *in.RuleDescription
		changes["rule_description"] = *in.RuleDescription
	}
	if len(in.RuleConfig) > 0 && string(in.RuleConfig) != "null" {
		// Config is validated against the stored rule type; the type itself
		// never changes after creation.
		if errs := validateRuleConfig(rule.RuleType, in.RuleConfig); len(errs) > 0 {
			return nil, &ValidationError{Errors: errs}
		}
		rule.Config = string(in.RuleConfig)
		changes["rule_config"] = json.RawMessage(in.RuleConfig)
	}
	if in.Priority != nil {
		if *in.Priority < models.MinPriority || *in.Priority > models.MaxPriority {
			return nil, &ValidationError{Errors: []string{"priority must be between 1 and 10"}}
		}
		rule.Priority = *in.Priority
		changes["priority"] = *in.Priority
	}
	if in.IsActive != nil {
		rule.IsActive = *in.IsActive
		changes["is_active"] = *in.IsActive
	}

	rule.UpdatedBy = in.UserID

	if err := s.db.Save(rule).Error; err != nil {
		return nil, err
	}

	s.audit.Record(rule.UUID, models.AuditActionUpdate, in.UserID, changes, meta)

	return rule, nil
}

// Delete removes the rule and returns the deleted row. Hard delete, no
// tombstone.
func (s *RuleService) Delete(id, ownerID, userID string, meta RequestMeta) (*models.Rule, error) {
	rule, err := s.GetByUUID(id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(&models.Rule{}, rule.ID).Error; err != nil {
		return nil, err
	}

	s.audit.Record(rule.UUID, models.AuditActionDelete, userID, rule, meta)

	return rule, nil
}
