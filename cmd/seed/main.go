package main

import (
	"fmt"
	"log"

	"github.com/modsentry/modsentry/backend/internal/config"
	"github.com/modsentry/modsentry/backend/internal/database"
	"github.com/modsentry/modsentry/backend/internal/models"
	"github.com/modsentry/modsentry/backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Rule{},
		&models.ThreatPattern{},
		&models.RuleTemplate{},
		&models.RuleAuditLog{},
		&models.Notification{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	patterns := services.NewPatternService(db)
	threatPatterns := []models.ThreatPattern{
		{
			Name:        "Bulk Spam Keywords",
			Description: "Common bulk advertising and giveaway spam phrases",
			PatternType: "spam",
			Config:      `{"keywords":["free money","act now","limited offer","click here to claim"],"max_occurrences":1,"action":"block"}`,
			RiskLevel:   models.RiskMedium,
			IsActive:    true,
		},
		{
			Name:        "Credential Phishing Links",
			Description: "URL shorteners and lookalike login pages used in phishing",
			PatternType: "phishing",
			Config:      `{"patterns":["bit\\.ly","tinyurl\\.com","[a-z0-9-]+-login\\.[a-z]+"],"action":"block"}`,
			RiskLevel:   models.RiskCritical,
			IsActive:    true,
		},
		{
			Name:        "Malware Distribution",
			Description: "Links to executable payloads",
			PatternType: "malware",
			Config:      `{"patterns":["\\.exe$","\\.scr$","\\.bat$"],"action":"block"}`,
			RiskLevel:   models.RiskHigh,
			IsActive:    true,
		},
		{
			Name:        "Excessive Caps",
			Description: "Shouting messages, flagged for review rather than blocked",
			PatternType: "custom",
			Config:      `{"filters":[{"type":"regex","pattern":"^[A-Z\\s!?]{30,}$"}],"action":"flag"}`,
			RiskLevel:   models.RiskLow,
			IsActive:    true,
		},
	}
	for i := range threatPatterns {
		if err := patterns.CreateOrUpdate(&threatPatterns[i]); err != nil {
			log.Fatalf("Failed to seed threat pattern %q: %v", threatPatterns[i].Name, err)
		}
	}
	fmt.Printf("✓ Seeded %d threat patterns\n", len(threatPatterns))

	audit := services.NewAuditService(db)
	defer audit.Close()
	templates := services.NewTemplateService(db, services.NewRuleService(db, audit))
	ruleTemplates := []models.RuleTemplate{
		{
			Name:        "Profanity Filter",
			Description: "Blocks messages containing common profanity",
			Category:    "content",
			Config:      `{"rule_type":"keyword_filter","keywords":["damn","hell"],"max_occurrences":1,"action":"block"}`,
			IsPublic:    true,
			CreatedBy:   "system",
		},
		{
			Name:        "Suspicious Link Filter",
			Description: "Blocks shortened or lookalike URLs, trusts well-known domains",
			Category:    "links",
			Config:      `{"rule_type":"url_filter","domains":["github.com","wikipedia.org"],"patterns":["bit\\.ly","tinyurl\\.com"],"action":"block"}`,
			IsPublic:    true,
			CreatedBy:   "system",
		},
		{
			Name:        "Long Message Filter",
			Description: "Flags messages longer than 2000 characters",
			Category:    "content",
			Config:      `{"rule_type":"content_filter","filters":[{"type":"length","max_length":2000}],"action":"flag"}`,
			IsPublic:    true,
			CreatedBy:   "system",
		},
	}
	for i := range ruleTemplates {
		if err := templates.CreateOrUpdate(&ruleTemplates[i]); err != nil {
			log.Fatalf("Failed to seed rule template %q: %v", ruleTemplates[i].Name, err)
		}
	}
	fmt.Printf("✓ Seeded %d rule templates\n", len(ruleTemplates))
}
