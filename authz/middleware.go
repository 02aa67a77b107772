package authz

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthzMiddleware creates gin middleware for per-route authorization checks.
// These checks are defense in depth: the service layer re-evaluates the same
// predicate at the data-access boundary, which stays the source of truth.
type AuthzMiddleware struct {
	Authorizer Authorizer
}

// NewAuthzMiddleware creates a new authorization middleware
func NewAuthzMiddleware(az Authorizer) *AuthzMiddleware {
	return &AuthzMiddleware{Authorizer: az}
}

// RequireSuperAdmin aborts with 403 unless the authenticated user holds
// super_admin. Used for the approval workflow and activity-log routes.
func (m *AuthzMiddleware) RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "User not authenticated",
			})
			return
		}

		if !m.Authorizer.IsSuperAdmin(c.Request.Context(), userID) {
			log.Printf("AUTHZ DENIED - User %s is not a super admin", userID)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Super admin role required",
			})
			return
		}

		c.Next()
	}
}

// RequireOwnership ensures the caller owns the resource identified by the
// :id route param (or is a super admin). Unauthorized and nonexistent rows
// both produce 404 so existence is never confirmed for foreign rows.
func (m *AuthzMiddleware) RequireOwnership(resource ResourceType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "User not authenticated",
			})
			return
		}

		resourceID := c.Param("id")
		if resourceID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "bad_request",
				"message": "Resource ID is required",
			})
			return
		}

		if !m.Authorizer.CanRead(c.Request.Context(), userID, resource, resourceID) {
			log.Printf("AUTHZ DENIED - User %s cannot access %s %s", userID, resource, resourceID)
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": "not found",
			})
			return
		}

		c.Next()
	}
}
