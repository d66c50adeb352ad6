package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/projectpulse/internal/middleware"
	"github.com/huangang/projectpulse/internal/services"
	"github.com/huangang/projectpulse/pkg/response"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	holidayService   *services.HolidayService
}

func NewDashboardHandler(dashboardService *services.DashboardService, holidayService *services.HolidayService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, holidayService: holidayService}
}

// Get returns status counts, board buckets, upcoming deadlines, quick stats and recent activity
// GET /api/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	dashboard, err := h.dashboardService.Get(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, dashboard)
}

// Countries lists the holiday calendars usable for workday countdowns
// GET /api/dashboard/holiday-countries
func (h *DashboardHandler) Countries(c *gin.Context) {
	response.Success(c, h.holidayService.SupportedCountries())
}
