package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/db"
	"github.com/jpk1234556/machacoshostels/services"
)

type MaintenanceHandler struct {
	MaintenanceService *services.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService *services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{MaintenanceService: maintenanceService}
}

// ListMaintenanceRequests returns the caller's maintenance requests
// GET /maintenance?status=open
func (h *MaintenanceHandler) ListMaintenanceRequests(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	requests, err := h.MaintenanceService.List(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		respondServiceError(c, err, "list maintenance requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"maintenance_requests": requests})
}

// GetMaintenanceRequest returns a single maintenance request
// GET /maintenance/{id}
func (h *MaintenanceHandler) GetMaintenanceRequest(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	request, err := h.MaintenanceService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get maintenance request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"maintenance_request": request})
}

// CreateMaintenanceRequest raises a request against a unit the caller owns
// POST /maintenance
func (h *MaintenanceHandler) CreateMaintenanceRequest(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	request, err := h.MaintenanceService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "create maintenance request")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"maintenance_request": request})
}

// UpdateMaintenanceRequest applies a partial update
// PUT /maintenance/{id}
func (h *MaintenanceHandler) UpdateMaintenanceRequest(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.UpdateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	request, err := h.MaintenanceService.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "update maintenance request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"maintenance_request": request})
}

// DeleteMaintenanceRequest removes a maintenance request
// DELETE /maintenance/{id}
func (h *MaintenanceHandler) DeleteMaintenanceRequest(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.MaintenanceService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete maintenance request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Maintenance request deleted successfully"})
}
