package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/db"
	"github.com/jpk1234556/machacoshostels/services"
)

// AdminHandler exposes the approval workflow and role management. Every
// route here sits behind RequireSuperAdmin.
type AdminHandler struct {
	ProfileService  *services.ProfileService
	ApprovalService *services.ApprovalService
	Roles           *authz.RoleStore
}

func NewAdminHandler(profileService *services.ProfileService, approvalService *services.ApprovalService, roles *authz.RoleStore) *AdminHandler {
	return &AdminHandler{
		ProfileService:  profileService,
		ApprovalService: approvalService,
		Roles:           roles,
	}
}

// ListProfiles returns all owner profiles, optionally filtered by status
// GET /admin/profiles?status=pending
func (h *AdminHandler) ListProfiles(c *gin.Context) {
	status := db.ApprovalStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	profiles, err := h.ProfileService.List(c.Request.Context(), status)
	if err != nil {
		respondServiceError(c, err, "list profiles")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// SetApprovalStatus moves a profile between pending, approved and rejected
// PUT /admin/profiles/{id}/approval
func (h *AdminHandler) SetApprovalStatus(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}

	targetID := c.Param("id")
	var req db.SetApprovalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid approval status"})
		return
	}

	entry, err := h.ApprovalService.SetApprovalStatus(c.Request.Context(), adminID, targetID, req.Status)
	if err != nil {
		respondServiceError(c, err, "set approval status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Approval status updated",
		"activity": entry,
	})
}

// ListActivityLogs returns the audit trail, newest first
// GET /admin/activity?limit=50&offset=0
func (h *AdminHandler) ListActivityLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, err := h.ApprovalService.ListActivityLogs(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err, "list activity logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity_logs": logs})
}

// GrantOwnerRole assigns the property_owner role to a user
// POST /admin/users/{id}/roles/property_owner
func (h *AdminHandler) GrantOwnerRole(c *gin.Context) {
	targetID := c.Param("id")

	if err := h.Roles.Assign(c.Request.Context(), targetID, authz.RolePropertyOwner); err != nil {
		respondServiceError(c, err, "grant role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role granted"})
}

// RevokeOwnerRole removes the property_owner role from a user
// DELETE /admin/users/{id}/roles/property_owner
func (h *AdminHandler) RevokeOwnerRole(c *gin.Context) {
	targetID := c.Param("id")

	if err := h.Roles.Remove(c.Request.Context(), targetID, authz.RolePropertyOwner); err != nil {
		respondServiceError(c, err, "revoke role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role revoked"})
}
