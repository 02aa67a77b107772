package authz

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSimpleAuthorizer_HasRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	authz := NewSimpleAuthorizer(db)
	ctx := context.Background()

	tests := []struct {
		name     string
		userID   string
		role     Role
		mockFunc func()
		want     bool
	}{
		{
			name:   "user is super admin",
			userID: "user-1",
			role:   RoleSuperAdmin,
			mockFunc: func() {
				mock.ExpectQuery("SELECT EXISTS").
					WithArgs("user-1", "super_admin").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			want: true,
		},
		{
			name:   "user is property owner only",
			userID: "user-2",
			role:   RoleSuperAdmin,
			mockFunc: func() {
				mock.ExpectQuery("SELECT EXISTS").
					WithArgs("user-2", "super_admin").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			want: false,
		},
		{
			name:   "user holds property_owner",
			userID: "user-3",
			role:   RolePropertyOwner,
			mockFunc: func() {
				mock.ExpectQuery("SELECT EXISTS").
					WithArgs("user-3", "property_owner").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockFunc()
			got := authz.HasRole(ctx, tt.userID, tt.role)
			if got != tt.want {
				t.Errorf("HasRole() = %v, want %v", got, tt.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestSimpleAuthorizer_ResolveOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	authz := NewSimpleAuthorizer(db)
	ctx := context.Background()

	tests := []struct {
		name       string
		resource   ResourceType
		resourceID string
		mockFunc   func()
		wantOwner  string
		wantErr    error
	}{
		{
			name:       "property resolves directly",
			resource:   ResourceProperty,
			resourceID: "prop-1",
			mockFunc: func() {
				mock.ExpectQuery("SELECT owner_id FROM properties").
					WithArgs("prop-1").
					WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("owner-1"))
			},
			wantOwner: "owner-1",
		},
		{
			name:       "unit resolves through property",
			resource:   ResourceUnit,
			resourceID: "unit-1",
			mockFunc: func() {
				mock.ExpectQuery("SELECT p.owner_id FROM units").
					WithArgs("unit-1").
					WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("owner-1"))
			},
			wantOwner: "owner-1",
		},
		{
			name:       "payment resolves through lease, unit, property",
			resource:   ResourcePayment,
			resourceID: "pay-1",
			mockFunc: func() {
				mock.ExpectQuery("SELECT p.owner_id FROM payments").
					WithArgs("pay-1").
					WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("owner-2"))
			},
			wantOwner: "owner-2",
		},
		{
			name:       "nonexistent row returns ErrNotFound",
			resource:   ResourceLease,
			resourceID: "lease-x",
			mockFunc: func() {
				mock.ExpectQuery("SELECT p.owner_id FROM leases").
					WithArgs("lease-x").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockFunc()
			got, err := authz.ResolveOwner(ctx, tt.resource, tt.resourceID)
			if err != tt.wantErr {
				t.Errorf("ResolveOwner() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.wantOwner {
				t.Errorf("ResolveOwner() = %v, want %v", got, tt.wantOwner)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestSimpleAuthorizer_CanWrite(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	authz := NewSimpleAuthorizer(db)
	ctx := context.Background()

	tests := []struct {
		name       string
		userID     string
		resource   ResourceType
		resourceID string
		mockFunc   func()
		want       bool
	}{
		{
			name:       "owner can write own unit",
			userID:     "owner-1",
			resource:   ResourceUnit,
			resourceID: "unit-1",
			mockFunc: func() {
				mock.ExpectQuery("SELECT EXISTS").
					WithArgs("owner-1", "super_admin").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectQuery("SELECT p.owner_id FROM units").
					WithArgs("unit-1").
					WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("owner-1"))
			},
			want: true,
		},
		{
			name:       "non-owner cannot write foreign unit",
			userID:     "owner-2",
			resource:   ResourceUnit,
			resourceID: "unit-1",
			mockFunc: func() {
				mock.ExpectQuery("SELECT EXISTS").
					WithArgs("owner-2", "super_admin").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectQuery("SELECT p.owner_id FROM units").
					WithArgs("unit-1").
					WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("owner-1"))
			},
			want: false,
		},
		{
			name:       "super admin bypasses ownership",
			userID:     "admin-1",
			resource:   ResourcePayment,
			resourceID: "pay-1",
			mockFunc: func() {
				mock.ExpectQuery("SELECT EXISTS").
					WithArgs("admin-1", "super_admin").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			want: true,
		},
		{
			name:       "nonexistent row is denied",
			userID:     "owner-1",
			resource:   ResourceProperty,
			resourceID: "prop-x",
			mockFunc: func() {
				mock.ExpectQuery("SELECT EXISTS").
					WithArgs("owner-1", "super_admin").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectQuery("SELECT owner_id FROM properties").
					WithArgs("prop-x").
					WillReturnError(sql.ErrNoRows)
			},
			want: false,
		},
		{
			name:       "empty user id is denied without queries",
			userID:     "",
			resource:   ResourceProperty,
			resourceID: "prop-1",
			mockFunc:   func() {},
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockFunc()
			got := authz.CanWrite(ctx, tt.userID, tt.resource, tt.resourceID)
			if got != tt.want {
				t.Errorf("CanWrite() = %v, want %v", got, tt.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}
