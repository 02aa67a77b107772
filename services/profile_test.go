package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/db"
)

func profileRows(id, email string, status db.ApprovalStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "full_name", "phone", "approval_status",
		"national_id", "id_document_path", "physical_address",
		"mpesa_number", "fcm_token", "created_at", "updated_at",
	}).AddRow(id, email, "Test Owner", "", status, "", "", "", "", "", now, now)
}

func TestProfileService_EnsureProfile_NewUser(t *testing.T) {
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	// Lookup misses, then profile and default role commit together.
	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO profiles").
		WithArgs("user-1", "new@example.com", "New Owner", db.ApprovalPending, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(sqlmock.AnyArg(), "user-1", "property_owner", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewProfileService(pg, authz.NewRoleStore(pg))
	p, err := svc.EnsureProfile(context.Background(), "user-1", "new@example.com", "New Owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ApprovalStatus != db.ApprovalPending {
		t.Errorf("new profile status = %q, want pending", p.ApprovalStatus)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestProfileService_EnsureProfile_ExistingUser(t *testing.T) {
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	// Existing profile short-circuits: no transaction, no writes.
	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id").
		WithArgs("user-1").
		WillReturnRows(profileRows("user-1", "old@example.com", db.ApprovalApproved))

	svc := NewProfileService(pg, authz.NewRoleStore(pg))
	p, err := svc.EnsureProfile(context.Background(), "user-1", "new@example.com", "Whoever")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Email != "old@example.com" {
		t.Errorf("existing profile must be returned unchanged, got email %q", p.Email)
	}
	if p.ApprovalStatus != db.ApprovalApproved {
		t.Errorf("status = %q, want approved", p.ApprovalStatus)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestProfileService_EnsureProfile_RoleFailureRollsBack(t *testing.T) {
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_roles").
		WillReturnError(errDBDown)
	mock.ExpectRollback()

	svc := NewProfileService(pg, authz.NewRoleStore(pg))
	if _, err := svc.EnsureProfile(context.Background(), "user-1", "new@example.com", "New Owner"); err == nil {
		t.Fatal("expected error when role insert fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestProfileService_UpdateSelf(t *testing.T) {
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id").
		WithArgs("user-1").
		WillReturnRows(profileRows("user-1", "a@example.com", db.ApprovalApproved))
	mock.ExpectExec("UPDATE profiles").
		WithArgs("user-1", "Test Owner", "0712345678", "", "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	phone := "0712345678"
	svc := NewProfileService(pg, authz.NewRoleStore(pg))
	p, err := svc.UpdateSelf(context.Background(), "user-1", db.UpdateProfileRequest{Phone: &phone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Phone != "0712345678" {
		t.Errorf("phone = %q, want updated value", p.Phone)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestProfileService_List_FilterAndRoles(t *testing.T) {
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT p.id, p.email").
		WithArgs(db.ApprovalPending).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "full_name", "phone", "approval_status",
			"national_id", "id_document_path", "physical_address",
			"mpesa_number", "fcm_token", "created_at", "updated_at", "roles",
		}).AddRow("user-1", "a@example.com", "Owner A", "", "pending", "", "", "", "", "", now, now, "{property_owner}"))

	svc := NewProfileService(pg, authz.NewRoleStore(pg))
	profiles, err := svc.List(context.Background(), db.ApprovalPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(profiles))
	}
	if len(profiles[0].Roles) != 1 || profiles[0].Roles[0] != "property_owner" {
		t.Errorf("roles = %v, want [property_owner]", profiles[0].Roles)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
