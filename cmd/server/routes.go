package main

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/projectpulse/internal/config"
	"github.com/huangang/projectpulse/internal/middleware"
	"github.com/huangang/projectpulse/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	// Middleware
	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health check
	r.GET("/health", svc.health.CheckHealth)

	api := r.Group("/api")
	api.Use(middleware.AuthRequired(svc.resolver), middleware.EntitlementRequired(svc.entitlement))
	if cfg.Audit.Enabled {
		api.Use(middleware.AuditLog(svc.systemLogs))
	}
	{
		// Dashboard
		api.GET("/dashboard", svc.dashboard.Get)
		api.GET("/dashboard/holiday-countries", svc.dashboard.Countries)

		// Projects
		api.GET("/projects", svc.project.List)
		api.GET("/projects/:id", svc.project.GetByID)
		api.POST("/projects", svc.project.Create)
		api.PUT("/projects/:id", svc.project.Update)
		api.DELETE("/projects/:id", svc.project.Delete)

		// Tasks
		api.GET("/tasks", svc.task.Board)
		api.GET("/tasks/:id", svc.task.GetByID)
		api.POST("/tasks", svc.task.Create)
		api.POST("/tasks/:id/move", svc.task.Move)
		api.POST("/tasks/:id/log-time", svc.task.LogTime)
		api.GET("/tasks/:id/time-entries", svc.task.TimeEntries)

		// Milestones
		api.GET("/milestones", svc.milestone.List)
		api.POST("/milestones", svc.milestone.Create)
		api.POST("/milestones/:id/complete", svc.milestone.Complete)

		// Insights
		api.GET("/insights", svc.insight.List)
		api.GET("/insights/:id", svc.insight.GetByID)
		api.POST("/insights/analyze", svc.analyzeRL.Middleware(), svc.insight.Analyze)

		// Usage and audit trail
		api.GET("/ai-usage/stats", svc.aiUsage.GetStats)
		api.GET("/activity-log", svc.systemLog.List)
	}
}
