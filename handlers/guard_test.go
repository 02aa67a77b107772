package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/db"
)

// MockAuthorizer
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) IsSuperAdmin(ctx context.Context, userID string) bool {
	args := m.Called(ctx, userID)
	return args.Bool(0)
}

func (m *MockAuthorizer) HasRole(ctx context.Context, userID string, role authz.Role) bool {
	args := m.Called(ctx, userID, role)
	return args.Bool(0)
}

func (m *MockAuthorizer) ResolveOwner(ctx context.Context, resource authz.ResourceType, resourceID string) (string, error) {
	args := m.Called(ctx, resource, resourceID)
	return args.String(0), args.Error(1)
}

func (m *MockAuthorizer) CanRead(ctx context.Context, userID string, resource authz.ResourceType, resourceID string) bool {
	args := m.Called(ctx, userID, resource, resourceID)
	return args.Bool(0)
}

func (m *MockAuthorizer) CanWrite(ctx context.Context, userID string, resource authz.ResourceType, resourceID string) bool {
	args := m.Called(ctx, userID, resource, resourceID)
	return args.Bool(0)
}

func TestEvaluateGuard(t *testing.T) {
	tests := []struct {
		name    string
		isAdmin bool
		status  db.ApprovalStatus
		want    GuardState
	}{
		{"admin wins over pending", true, db.ApprovalPending, GuardAdmin},
		{"admin wins over rejected", true, db.ApprovalRejected, GuardAdmin},
		{"approved owner", false, db.ApprovalApproved, GuardApproved},
		{"pending owner", false, db.ApprovalPending, GuardPending},
		{"rejected owner", false, db.ApprovalRejected, GuardRejected},
		{"unknown status reads as pending", false, db.ApprovalStatus(""), GuardPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateGuard(tt.isAdmin, tt.status)
			assert.Equal(t, tt.want, got)
		})
	}
}

func guardRequest(t *testing.T, userID string, status string, isAdmin bool) (*httptest.ResponseRecorder, *MockAuthorizer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockAuthorizer := new(MockAuthorizer)
	if userID != "" {
		mockAuthorizer.On("IsSuperAdmin", mock.Anything, userID).Return(isAdmin)
	}

	handler := NewGuardHandler(mockAuthorizer)

	w := httptest.NewRecorder()
	r := gin.New()
	r.GET("/protected", func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
			c.Set("approval_status", status)
		}
	}, handler.RequireApproved(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"reached": true})
	})

	req, _ := http.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)
	return w, mockAuthorizer
}

func TestGuardHandler_RequireApproved(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		w, _ := guardRequest(t, "", "", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("approved owner passes", func(t *testing.T) {
		w, _ := guardRequest(t, "owner-1", "approved", false)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin bypasses own approval status", func(t *testing.T) {
		w, _ := guardRequest(t, "admin-1", "pending", true)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("pending owner blocked with code", func(t *testing.T) {
		w, _ := guardRequest(t, "owner-1", "pending", false)
		assert.Equal(t, http.StatusForbidden, w.Code)

		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "approval_pending", body["code"])
	})

	t.Run("rejected owner blocked with code", func(t *testing.T) {
		w, _ := guardRequest(t, "owner-1", "rejected", false)
		assert.Equal(t, http.StatusForbidden, w.Code)

		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "approval_rejected", body["code"])
	})
}

func TestGuardHandler_GetSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockAuthorizer := new(MockAuthorizer)
	mockAuthorizer.On("IsSuperAdmin", mock.Anything, "owner-1").Return(false)

	handler := NewGuardHandler(mockAuthorizer)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/session", nil)
	c.Set("user_id", "owner-1")
	c.Set("user_email", "owner@example.com")
	c.Set("approval_status", "pending")

	handler.GetSession(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "pending", body["state"])
	assert.Equal(t, "owner-1", body["user_id"])
}
