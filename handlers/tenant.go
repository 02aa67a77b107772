package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/db"
	"github.com/jpk1234556/machacoshostels/services"
)

type TenantHandler struct {
	TenantService *services.TenantService
}

func NewTenantHandler(tenantService *services.TenantService) *TenantHandler {
	return &TenantHandler{TenantService: tenantService}
}

// ListTenants returns the caller's tenants
// GET /tenants
func (h *TenantHandler) ListTenants(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	tenants, err := h.TenantService.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "list tenants")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenants": tenants})
}

// GetTenant returns a single tenant
// GET /tenants/{id}
func (h *TenantHandler) GetTenant(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	tenant, err := h.TenantService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get tenant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// CreateTenant registers a tenant under the caller
// POST /tenants
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	tenant, err := h.TenantService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "create tenant")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tenant": tenant})
}

// UpdateTenant applies a partial update
// PUT /tenants/{id}
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	tenant, err := h.TenantService.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "update tenant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// DeleteTenant removes a tenant
// DELETE /tenants/{id}
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.TenantService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete tenant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tenant deleted successfully"})
}
