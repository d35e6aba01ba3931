package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/modsentry/modsentry/backend/internal/api/handlers"
	"github.com/modsentry/modsentry/backend/internal/api/middleware"
	"github.com/modsentry/modsentry/backend/internal/config"
	"github.com/modsentry/modsentry/backend/internal/metrics"
	"github.com/modsentry/modsentry/backend/internal/models"
	"github.com/modsentry/modsentry/backend/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.Rule{},
		&models.ThreatPattern{},
		&models.RuleTemplate{},
		&models.RuleAuditLog{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	authService, err := services.NewAuthService(cfg.AdminToken, cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}

	auditService := services.NewAuditService(db)
	ruleService := services.NewRuleService(db, auditService)
	patternService := services.NewPatternService(db)
	templateService := services.NewTemplateService(db, ruleService)
	notificationService := services.NewNotificationService(db, cfg.NotifyURL, cfg.NotifyMinPriority)
	evaluationService := services.NewEvaluationService(ruleService, notificationService)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	api.Use(middleware.CORS(cfg.AllowedOrigin))

	authHandler := handlers.NewAuthHandler(authService)
	api.POST("/auth/token", authHandler.Token)

	ruleHandler := handlers.NewRuleHandler(ruleService)
	api.POST("/rules", ruleHandler.Create)
	api.GET("/rules", ruleHandler.List)
	api.GET("/rules/:id", ruleHandler.Get)
	api.PUT("/rules/:id", ruleHandler.Update)
	api.DELETE("/rules/:id", ruleHandler.Delete)

	auditHandler := handlers.NewAuditHandler(auditService, ruleService)
	api.GET("/rules/:id/audit", auditHandler.ListForRule)

	evaluateHandler := handlers.NewEvaluateHandler(evaluationService)
	api.POST("/evaluate", evaluateHandler.Evaluate)

	templateHandler := handlers.NewTemplateHandler(templateService)
	api.GET("/templates", templateHandler.List)
	api.GET("/templates/:id", templateHandler.Get)
	api.POST("/templates/:id/apply", templateHandler.Apply)

	patternHandler := handlers.NewPatternHandler(patternService)
	api.GET("/patterns", patternHandler.List)
	api.GET("/patterns/:id", patternHandler.Get)

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	api.GET("/notifications", notificationHandler.List)
	api.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
	api.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(authService))
	{
		admin.POST("/patterns", patternHandler.Create)
		admin.PUT("/patterns/:id", patternHandler.Update)
		admin.DELETE("/patterns/:id", patternHandler.Delete)
		admin.POST("/templates", templateHandler.Create)
		admin.GET("/audit", auditHandler.ListRecent)
	}

	return nil
}
