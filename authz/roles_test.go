package authz

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRoleStore_Assign(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	store := NewRoleStore(db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(sqlmock.AnyArg(), "user-1", "property_owner", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Assign(ctx, "user-1", RolePropertyOwner); err != nil {
		t.Errorf("Assign() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRoleStore_Assign_AlreadyHeld(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	store := NewRoleStore(db)
	ctx := context.Background()

	// ON CONFLICT DO NOTHING: zero rows affected is still success.
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(sqlmock.AnyArg(), "user-1", "super_admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.Assign(ctx, "user-1", RoleSuperAdmin); err != nil {
		t.Errorf("Assign() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRoleStore_ListForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	store := NewRoleStore(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT role FROM user_roles").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).
			AddRow("property_owner").
			AddRow("super_admin"))

	roles, err := store.ListForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(roles) != 2 {
		t.Errorf("ListForUser() returned %d roles, want 2", len(roles))
	}
	if roles[0] != RolePropertyOwner || roles[1] != RoleSuperAdmin {
		t.Errorf("ListForUser() = %v", roles)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
