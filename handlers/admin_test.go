package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/services"
)

func approvalRequest(t *testing.T, handler *AdminHandler, targetID, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/admin/profiles/"+targetID+"/approval", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", "admin-1")
	c.Params = []gin.Param{{Key: "id", Value: targetID}}

	handler.SetApprovalStatus(c)
	return w
}

func expectDecision(mock sqlmock.Sqlmock, previous, next string) {
	mock.ExpectQuery("SELECT approval_status, email FROM profiles").
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"approval_status", "email"}).
			AddRow(previous, "owner@example.com"))
	mock.ExpectExec("UPDATE profiles SET approval_status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO admin_activity_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestAdminHandler_SetApprovalStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	approvalService := services.NewApprovalService(pg, nil)
	handler := NewAdminHandler(services.NewProfileService(pg, authz.NewRoleStore(pg)), approvalService, authz.NewRoleStore(pg))

	t.Run("approve", func(t *testing.T) {
		expectDecision(mock, "pending", "approved")

		w := approvalRequest(t, handler, "owner-1", `{"status":"approved"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user_approved")
	})

	t.Run("second approve is accepted and audited again", func(t *testing.T) {
		expectDecision(mock, "approved", "approved")

		w := approvalRequest(t, handler, "owner-1", `{"status":"approved"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user_approved")
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		w := approvalRequest(t, handler, "owner-1", `{"status":"banana"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing body rejected", func(t *testing.T) {
		w := approvalRequest(t, handler, "owner-1", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAdminHandler_ListProfiles_InvalidFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pg, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	handler := NewAdminHandler(services.NewProfileService(pg, authz.NewRoleStore(pg)), services.NewApprovalService(pg, nil), authz.NewRoleStore(pg))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/admin/profiles?status=banana", nil)
	c.Set("user_id", "admin-1")

	handler.ListProfiles(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
