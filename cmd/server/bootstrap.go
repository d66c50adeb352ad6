package main

import (
	"github.com/huangang/projectpulse/internal/config"
	"github.com/huangang/projectpulse/internal/handlers"
	"github.com/huangang/projectpulse/internal/identity"
	"github.com/huangang/projectpulse/internal/middleware"
	"github.com/huangang/projectpulse/internal/models"
	"github.com/huangang/projectpulse/internal/services"
	"github.com/huangang/projectpulse/internal/utils"
	"github.com/huangang/projectpulse/pkg/logger"
	"gorm.io/gorm"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	db          *gorm.DB
	resolver    identity.Resolver
	entitlement identity.EntitlementChecker
	systemLogs  *services.SystemLogService
	retention   *services.RetentionScheduler
	analyzeRL   *middleware.RateLimiter

	health    *handlers.HealthHandler
	dashboard *handlers.DashboardHandler
	project   *handlers.ProjectHandler
	task      *handlers.TaskHandler
	milestone *handlers.MilestoneHandler
	insight   *handlers.InsightHandler
	aiUsage   *handlers.AIUsageHandler
	systemLog *handlers.SystemLogHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	db, err := models.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	entitlement, err := identity.NewEntitlementChecker(cfg.Entitlement.Mode, db)
	if err != nil {
		logger.Fatalf("Failed to configure entitlement: %v", err)
	}

	aiService := services.NewAIService(&cfg.LLM)
	if err := aiService.Validate(); err != nil {
		// Startup continues; analyze requests report the missing setting.
		logger.Warn().Err(err).Str("provider", cfg.LLM.Provider).Msg("Insight generation is not configured")
	}

	holidays := services.NewHolidayService()
	usage := services.NewAIUsageService(db)
	systemLogs := services.NewSystemLogService(db)

	retention := services.NewRetentionScheduler(systemLogs, usage, cfg.Audit.RetentionDays)
	if err := retention.Start(cfg.Audit.CleanupCron); err != nil {
		logger.Fatalf("Failed to start retention scheduler: %v", err)
	}

	return &appServices{
		db:          db,
		resolver:    identity.NewJWTResolver(utils.NewTokenManager(cfg.JWT.Secret)),
		entitlement: entitlement,
		systemLogs:  systemLogs,
		retention:   retention,
		analyzeRL:   middleware.NewRateLimiter(cfg.Server.AnalyzeRPS, cfg.Server.AnalyzeBurst),

		health:    handlers.NewHealthHandler(db, cfg.LLM.Provider),
		dashboard: handlers.NewDashboardHandler(services.NewDashboardService(db, holidays, cfg.Dashboard), holidays),
		project:   handlers.NewProjectHandler(services.NewProjectService(db)),
		task:      handlers.NewTaskHandler(services.NewTaskService(db)),
		milestone: handlers.NewMilestoneHandler(services.NewMilestoneService(db)),
		insight:   handlers.NewInsightHandler(services.NewInsightService(db, aiService, usage)),
		aiUsage:   handlers.NewAIUsageHandler(usage),
		systemLog: handlers.NewSystemLogHandler(systemLogs),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.retention.Stop()
	s.analyzeRL.Stop()
	logger.Info().Msg("All schedulers stopped")

	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
