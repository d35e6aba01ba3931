package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modsentry/modsentry/backend/internal/models"
)

var (
	ErrThreatPatternNotFound = errors.New("threat pattern not found")
	ErrInvalidRiskLevel      = errors.New("invalid risk level")
)

// ValidRiskLevels defines allowed threat pattern risk levels.
var ValidRiskLevels = []string{models.RiskLow, models.RiskMedium, models.RiskHigh, models.RiskCritical}

// riskOrder sorts patterns most severe first.
const riskOrder = "CASE risk_level WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END"

// PatternListFilters narrows a threat pattern listing.
type PatternListFilters struct {
	PatternType string
	RiskLevel   string
	IsActive    *bool
}

// PatternService manages the global threat pattern catalog. Patterns are
// read-mostly reference data; mutation is an administrative operation.
type PatternService struct {
	db *gorm.DB
}

func NewPatternService(db *gorm.DB) *PatternService {
	return &PatternService{db: db}
}

// CreateOrUpdate upserts a pattern keyed by name, so provisioning the catalog
// is idempotent.
func (s *PatternService) CreateOrUpdate(p *models.ThreatPattern) error {
	if err := s.validate(p); err != nil {
		return err
	}

	var existing models.ThreatPattern
	if err := s.db.Where("name = ?", p.Name).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p.UUID = uuid.New().String()
			return s.db.Create(p).Error
		}
		return err
	}

	existing.Description = p.Description
	existing.PatternType = p.PatternType
	existing.Config = p.Config
	existing.RiskLevel = p.RiskLevel
	existing.IsActive = p.IsActive
	if err := s.db.Save(&existing).Error; err != nil {
		return err
	}
	*p = existing
	return nil
}

// GetByUUID retrieves a pattern by its public id.
func (s *PatternService) GetByUUID(id string) (*models.ThreatPattern, error) {
	var p models.ThreatPattern
	if err := s.db.Where("uuid = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreatPatternNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns patterns ordered by risk level (critical first), then name.
func (s *PatternService) List(filters PatternListFilters) ([]models.ThreatPattern, error) {
	query := s.db.Model(&models.ThreatPattern{})
	if filters.PatternType != "" {
		query = query.Where("pattern_type = ?", filters.PatternType)
	}
	if filters.RiskLevel != "" {
		query = query.Where("risk_level = ?", filters.RiskLevel)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}

	var patterns []models.ThreatPattern
	if err := query.Order(riskOrder + ", name asc").Find(&patterns).Error; err != nil {
		return nil, err
	}
	return patterns, nil
}

// Update replaces the mutable fields of an existing pattern.
func (s *PatternService) Update(id string, updates *models.ThreatPattern) (*models.ThreatPattern, error) {
	p, err := s.GetByUUID(id)
	if err != nil {
		return nil, err
	}

	p.Name = updates.Name
	p.Description = updates.Description
	p.PatternType = updates.PatternType
	p.Config = updates.Config
	p.RiskLevel = updates.RiskLevel
	p.IsActive = updates.IsActive

	if err := s.validate(p); err != nil {
		return nil, err
	}

	if err := s.db.Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a pattern by its public id.
func (s *PatternService) Delete(id string) error {
	result := s.db.Where("uuid = ?", id).Delete(&models.ThreatPattern{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrThreatPatternNotFound
	}
	return nil
}

func (s *PatternService) validate(p *models.ThreatPattern) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if p.RiskLevel == "" {
		p.RiskLevel = models.RiskMedium
	}
	for _, valid := range ValidRiskLevels {
		if p.RiskLevel == valid {
			return nil
		}
	}
	return ErrInvalidRiskLevel
}
