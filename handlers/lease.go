package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/db"
	"github.com/jpk1234556/machacoshostels/services"
)

type LeaseHandler struct {
	LeaseService *services.LeaseService
}

func NewLeaseHandler(leaseService *services.LeaseService) *LeaseHandler {
	return &LeaseHandler{LeaseService: leaseService}
}

// ListLeases returns the caller's leases
// GET /leases?status=active
func (h *LeaseHandler) ListLeases(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	leases, err := h.LeaseService.List(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		respondServiceError(c, err, "list leases")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leases": leases})
}

// GetLease returns a single lease with tenant and unit context
// GET /leases/{id}
func (h *LeaseHandler) GetLease(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	lease, err := h.LeaseService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get lease")
		return
	}

	c.JSON(http.StatusOK, gin.H{"lease": lease})
}

// CreateLease signs a tenant onto a unit and marks it occupied
// POST /leases
func (h *LeaseHandler) CreateLease(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	lease, err := h.LeaseService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "create lease")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lease": lease})
}

// UpdateLease applies a partial update; ending a lease frees its unit
// PUT /leases/{id}
func (h *LeaseHandler) UpdateLease(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.UpdateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	lease, err := h.LeaseService.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "update lease")
		return
	}

	c.JSON(http.StatusOK, gin.H{"lease": lease})
}

// DeleteLease removes a lease record
// DELETE /leases/{id}
func (h *LeaseHandler) DeleteLease(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.LeaseService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete lease")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lease deleted successfully"})
}
