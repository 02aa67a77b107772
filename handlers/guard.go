package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/db"
)

// GuardState is the single state a session resolves to. The client renders
// its blocking screens off this value.
type GuardState string

const (
	GuardAdmin    GuardState = "admin"
	GuardPending  GuardState = "pending"
	GuardRejected GuardState = "rejected"
	GuardApproved GuardState = "approved"
)

// EvaluateGuard maps a role check and an approval status to exactly one
// guard state. Admin wins over approval status, rejected wins over pending.
func EvaluateGuard(isSuperAdmin bool, status db.ApprovalStatus) GuardState {
	if isSuperAdmin {
		return GuardAdmin
	}
	switch status {
	case db.ApprovalRejected:
		return GuardRejected
	case db.ApprovalApproved:
		return GuardApproved
	default:
		return GuardPending
	}
}

// GuardHandler serves the session state and blocks unapproved owners.
type GuardHandler struct {
	Authorizer authz.Authorizer
}

func NewGuardHandler(az authz.Authorizer) *GuardHandler {
	return &GuardHandler{Authorizer: az}
}

// GetSession godoc
// GET /api/session
func (h *GuardHandler) GetSession(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	status := db.ApprovalStatus(c.GetString("approval_status"))
	state := EvaluateGuard(h.Authorizer.IsSuperAdmin(c.Request.Context(), userID), status)

	c.JSON(http.StatusOK, gin.H{
		"user_id":         userID,
		"email":           c.GetString("user_email"),
		"state":           state,
		"approval_status": status,
	})
}

// RequireApproved blocks pending and rejected owners from the main API.
// Super admins pass regardless of their own approval status.
func (h *GuardHandler) RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		status := db.ApprovalStatus(c.GetString("approval_status"))
		state := EvaluateGuard(h.Authorizer.IsSuperAdmin(c.Request.Context(), userID), status)

		switch state {
		case GuardAdmin, GuardApproved:
			c.Next()
		case GuardRejected:
			log.Printf("GUARD BLOCKED - User: %s (rejected)", userID)
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Your account application was rejected",
				"code":  "approval_rejected",
			})
			c.Abort()
		default:
			log.Printf("GUARD BLOCKED - User: %s (pending)", userID)
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Your account is awaiting approval",
				"code":  "approval_pending",
			})
			c.Abort()
		}
	}
}
