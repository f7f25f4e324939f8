package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luxilearn/luxilearn-backend/internal/response"
	"github.com/luxilearn/luxilearn-backend/internal/service"
)

// DashboardHandler handles admin dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetOverview godoc
// GET /api/v1/admin/dashboard
// Returns summary counts, course status distribution, per-course stats and
// recent submissions.
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	data, err := h.dashboardService.GetOverview(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, data)
}
