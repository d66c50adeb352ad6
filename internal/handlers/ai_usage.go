package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/huangang/projectpulse/internal/middleware"
	"github.com/huangang/projectpulse/internal/models"
	"github.com/huangang/projectpulse/internal/services"
	"github.com/huangang/projectpulse/pkg/response"
)

// AIUsageHandler exposes the caller's generation ledger.
type AIUsageHandler struct {
	usageService *services.AIUsageService
}

func NewAIUsageHandler(usageService *services.AIUsageService) *AIUsageHandler {
	return &AIUsageHandler{usageService: usageService}
}

// GetStats returns aggregated AI usage statistics
// GET /api/ai-usage/stats?start_date=&end_date=&project_id=
func (h *AIUsageHandler) GetStats(c *gin.Context) {
	filter := services.UsageFilter{UserID: middleware.GetUserID(c)}

	var err error
	if filter.StartDate, err = models.ParseOptionalDate(c.Query("start_date")); err != nil {
		response.BadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	if filter.EndDate, err = models.ParseOptionalDate(c.Query("end_date")); err != nil {
		response.BadRequest(c, "end_date must be YYYY-MM-DD")
		return
	}
	if pidStr := c.Query("project_id"); pidStr != "" {
		pid, err := strconv.ParseUint(pidStr, 10, 32)
		if err != nil {
			response.BadRequest(c, "invalid project id")
			return
		}
		p := uint(pid)
		filter.ProjectID = &p
	}

	stats, err := h.usageService.GetStats(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, stats)
}
