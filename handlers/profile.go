package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/db"
	"github.com/jpk1234556/machacoshostels/services"
)

type ProfileHandler struct {
	ProfileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{ProfileService: profileService}
}

// GetProfile returns the caller's own profile
// GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	profile, err := h.ProfileService.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile updates the caller's own contact and KYC fields.
// Approval status is not reachable through this endpoint.
// PUT /profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	profile, err := h.ProfileService.UpdateSelf(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// RegisterFCMToken stores the caller's device token for push notifications
// POST /profile/fcm-token
func (h *ProfileHandler) RegisterFCMToken(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.ProfileService.SetFCMToken(c.Request.Context(), userID, req.Token); err != nil {
		respondServiceError(c, err, "register FCM token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "FCM token registered"})
}
