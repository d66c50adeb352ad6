package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db          *gorm.DB
	llmProvider string
}

func NewHealthHandler(db *gorm.DB, llmProvider string) *HealthHandler {
	return &HealthHandler{db: db, llmProvider: llmProvider}
}

// CheckHealth reports database reachability and the configured generation provider.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"
	status := 200

	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
		status = 503
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": "projectpulse",
		"components": gin.H{
			"database":     dbStatus,
			"llm_provider": h.llmProvider,
		},
	})
}
