package handlers

import (
	"net/http"

	"civicos/internal/middleware"
	"civicos/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
	activity  *services.ActivityService
}

func NewDashboardHandler(dashboard *services.DashboardService, activity *services.ActivityService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, activity: activity}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) Activity(c *gin.Context) {
	activities, err := h.activity.Recent(c.Request.Context(), middleware.CurrentUserID(c), queryInt(c, "limit", 20))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": activities})
}
