package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/authz"
)

// callerID returns the authenticated user id set by the auth middleware.
func callerID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID.(string), true
}

// respondServiceError maps the authz sentinels onto HTTP statuses. Everything
// the caller may not see reads as not found.
func respondServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, authz.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, authz.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + ": " + err.Error()})
	}
}
