package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/projectpulse/internal/middleware"
	"github.com/huangang/projectpulse/internal/services"
	"github.com/huangang/projectpulse/pkg/response"
)

type InsightHandler struct {
	insightService *services.InsightService
}

func NewInsightHandler(insightService *services.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// List returns stored insights, newest first
// GET /api/insights?project_id=
func (h *InsightHandler) List(c *gin.Context) {
	var req services.InsightListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	insights, err := h.insightService.List(middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, insights)
}

// GET /api/insights/:id
func (h *InsightHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "insight")
	if !ok {
		return
	}

	insight, err := h.insightService.Get(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, insight)
}

// Analyze generates and stores a new insight for one project
// POST /api/insights/analyze
func (h *InsightHandler) Analyze(c *gin.Context) {
	var req services.GenerateInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	who, _ := middleware.CurrentIdentity(c)
	result, err := h.insightService.Generate(c.Request.Context(), who, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, result)
}
