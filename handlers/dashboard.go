package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/services"
)

type DashboardHandler struct {
	DashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{DashboardService: dashboardService}
}

// GetOwnerDashboard returns the caller's portfolio summary
// GET /dashboard
func (h *DashboardHandler) GetOwnerDashboard(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	dash, err := h.DashboardService.OwnerDashboard(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "load dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dash})
}

// GetAdminDashboard returns platform-wide numbers
// GET /admin/dashboard
func (h *DashboardHandler) GetAdminDashboard(c *gin.Context) {
	dash, err := h.DashboardService.AdminDashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "load admin dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dash})
}
