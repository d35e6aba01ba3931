package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modsentry/modsentry/backend/internal/models"
)

var ErrTemplateNotFound = errors.New("rule template not found")

// TemplateService manages reusable rule templates and materializes them into
// per-user rules.
type TemplateService struct {
	db    *gorm.DB
	rules *RuleService
}

func NewTemplateService(db *gorm.DB, rules *RuleService) *TemplateService {
	return &TemplateService{db: db, rules: rules}
}

// CreateOrUpdate upserts a template keyed by name, so provisioning is
// idempotent.
func (s *TemplateService) CreateOrUpdate(t *models.RuleTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("name is required")
	}
	if !json.Valid([]byte(t.Config)) {
		return errors.New("config must be a JSON document")
	}

	var existing models.RuleTemplate
	if err := s.db.Where("name = ?", t.Name).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			t.UUID = uuid.New().String()
			return s.db.Create(t).Error
		}
		return err
	}

	existing.Description = t.Description
	existing.Category = t.Category
	existing.Config = t.Config
	existing.IsPublic = t.IsPublic
	if err := s.db.Save(&existing).Error; err != nil {
		return err
	}
	*t = existing
	return nil
}

// List returns public templates ordered by category, then name.
func (s *TemplateService) List() ([]models.RuleTemplate, error) {
	var templates []models.RuleTemplate
	err := s.db.Where("is_public = ?", true).
		Order("category asc, name asc").Find(&templates).Error
	return templates, err
}

// GetByUUID retrieves a public template by its public id.
func (s *TemplateService) GetByUUID(id string) (*models.RuleTemplate, error) {
	var t models.RuleTemplate
	if err := s.db.Where("uuid = ? AND is_public = ?", id, true).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Materialize clones a public template into a new rule owned by userID.
// Customization keys shallowly override the template config; rule_name,
// rule_description and priority are lifted out of the config. Creation goes
// through RuleService.Create so validation and audit apply as for a direct
// create.
func (s *TemplateService) Materialize(templateID, userID string, customizations map[string]interface{}, meta RequestMeta) (*models.Rule, error) {
	t, err := s.GetByUUID(templateID)
	if err != nil {
		return nil, err
	}

	base := map[string]interface{}{}
	if err := json.Unmarshal([]byte(t.Config), &base); err != nil {
		return nil, fmt.Errorf("decode template config: %w", err)
	}

	ruleType := models.RuleTypeCustom
	if rt, ok := base["rule_type"].(string); ok && rt != "" {
		ruleType = rt
	}
	delete(base, "rule_type")

	name := t.Name
	description := t.Description
	var priority *int

	for key, value := range customizations {
		switch key {
		case "rule_name":
			if v, ok := value.(string); ok {
				name = v
			}
		case "rule_description":
			if v, ok := value.(string); ok {
				description = v
			}
		case "priority":
			if v, ok := value.(float64); ok {
				p := int(v)
				priority = &p
			}
		case "user_id", "rule_type":
			// ownership comes from the caller, the type from the template
		default:
			base[key] = value
		}
	}

	config, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encode merged config: %w", err)
	}

	in := RuleInput{
		RuleType:        ruleType,
		RuleName:        name,
		RuleDescription: description,
		RuleConfig:      config,
		Priority:        priority,
		UserID:          userID,
	}

	return s.rules.Create(in, meta)
}
