package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/projectpulse/internal/middleware"
	"github.com/huangang/projectpulse/internal/services"
	"github.com/huangang/projectpulse/pkg/response"
)

type MilestoneHandler struct {
	milestoneService *services.MilestoneService
}

func NewMilestoneHandler(milestoneService *services.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{milestoneService: milestoneService}
}

// GET /api/milestones
func (h *MilestoneHandler) List(c *gin.Context) {
	milestones, err := h.milestoneService.List(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, milestones)
}

// POST /api/milestones
func (h *MilestoneHandler) Create(c *gin.Context) {
	var req services.CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	milestone, err := h.milestoneService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, milestone)
}

// POST /api/milestones/:id/complete
func (h *MilestoneHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "milestone")
	if !ok {
		return
	}

	milestone, err := h.milestoneService.Complete(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, milestone)
}
