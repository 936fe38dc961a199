package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aptivohq/aptivo-backend/internal/response"
	"github.com/aptivohq/aptivo-backend/internal/service"
)

// DashboardHandler serves the staff overview aggregates.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary godoc
// GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardService.GetSummary(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}
