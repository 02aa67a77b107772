package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/jpk1234556/machacoshostels/db"
)

var errDBDown = errors.New("connection reset")

func TestApprovalService_SetApprovalStatus(t *testing.T) {
	tests := []struct {
		name       string
		newStatus  db.ApprovalStatus
		mockFunc   func(mock sqlmock.Sqlmock)
		wantErr    bool
		wantAction string
	}{
		{
			name:      "approve pending user",
			newStatus: db.ApprovalApproved,
			mockFunc: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT approval_status, email FROM profiles").
					WithArgs("owner-1").
					WillReturnRows(sqlmock.NewRows([]string{"approval_status", "email"}).
						AddRow("pending", "owner@example.com"))
				mock.ExpectExec("UPDATE profiles SET approval_status").
					WithArgs("owner-1", db.ApprovalApproved, sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("INSERT INTO admin_activity_logs").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantAction: "user_approved",
		},
		{
			name:      "approve already-approved user still audits",
			newStatus: db.ApprovalApproved,
			mockFunc: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT approval_status, email FROM profiles").
					WithArgs("owner-1").
					WillReturnRows(sqlmock.NewRows([]string{"approval_status", "email"}).
						AddRow("approved", "owner@example.com"))
				mock.ExpectExec("UPDATE profiles SET approval_status").
					WithArgs("owner-1", db.ApprovalApproved, sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("INSERT INTO admin_activity_logs").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantAction: "user_approved",
		},
		{
			name:      "reject user",
			newStatus: db.ApprovalRejected,
			mockFunc: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT approval_status, email FROM profiles").
					WithArgs("owner-1").
					WillReturnRows(sqlmock.NewRows([]string{"approval_status", "email"}).
						AddRow("pending", "owner@example.com"))
				mock.ExpectExec("UPDATE profiles SET approval_status").
					WithArgs("owner-1", db.ApprovalRejected, sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("INSERT INTO admin_activity_logs").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantAction: "user_rejected",
		},
		{
			name:      "invalid status never touches the database",
			newStatus: db.ApprovalStatus("banana"),
			mockFunc:  func(mock sqlmock.Sqlmock) {},
			wantErr:   true,
		},
		{
			name:      "unknown profile",
			newStatus: db.ApprovalApproved,
			mockFunc: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT approval_status, email FROM profiles").
					WithArgs("owner-1").
					WillReturnRows(sqlmock.NewRows([]string{"approval_status", "email"}))
			},
			wantErr: true,
		},
		{
			name:      "audit failure is tolerated",
			newStatus: db.ApprovalApproved,
			mockFunc: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT approval_status, email FROM profiles").
					WithArgs("owner-1").
					WillReturnRows(sqlmock.NewRows([]string{"approval_status", "email"}).
						AddRow("pending", "owner@example.com"))
				mock.ExpectExec("UPDATE profiles SET approval_status").
					WithArgs("owner-1", db.ApprovalApproved, sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("INSERT INTO admin_activity_logs").
					WillReturnError(errDBDown)
			},
			wantAction: "user_approved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create mock db: %v", err)
			}
			defer pg.Close()

			tt.mockFunc(mock)

			svc := NewApprovalService(pg, nil)
			entry, err := svc.SetApprovalStatus(context.Background(), "admin-1", "owner-1", tt.newStatus)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got none")
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if entry.Action != tt.wantAction {
					t.Errorf("action = %q, want %q", entry.Action, tt.wantAction)
				}
				if entry.AdminID != "admin-1" || entry.TargetUserID != "owner-1" {
					t.Errorf("audit entry has wrong actors: %+v", entry)
				}
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestApprovalService_UpdateFailureWritesNoAudit(t *testing.T) {
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	mock.ExpectQuery("SELECT approval_status, email FROM profiles").
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"approval_status", "email"}).
			AddRow("pending", "owner@example.com"))
	mock.ExpectExec("UPDATE profiles SET approval_status").
		WillReturnError(errDBDown)
	// No INSERT expectation: the audit row must not be attempted.

	svc := NewApprovalService(pg, nil)
	_, err = svc.SetApprovalStatus(context.Background(), "admin-1", "owner-1", db.ApprovalApproved)
	if err == nil {
		t.Fatal("expected error when update fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApprovalService_ListActivityLogs(t *testing.T) {
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT id, admin_id, action, target_user_id").
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "admin_id", "action", "target_user_id", "target_user_email", "details", "created_at"}).
			AddRow("log-2", "admin-1", "user_rejected", "owner-2", "b@example.com", "{}", now).
			AddRow("log-1", "admin-1", "user_approved", "owner-1", "a@example.com", "{}", now.Add(-time.Hour)))

	svc := NewApprovalService(pg, nil)
	logs, err := svc.ListActivityLogs(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d logs, want 2", len(logs))
	}
	if logs[0].Action != "user_rejected" {
		t.Errorf("first log action = %q, want user_rejected", logs[0].Action)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
