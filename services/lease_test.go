package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/db"
)

// stubAuthorizer answers checks from fixed data, no database behind it.
type stubAuthorizer struct {
	admin  bool
	owners map[string]string // resourceID -> ownerID
}

func (s *stubAuthorizer) IsSuperAdmin(ctx context.Context, userID string) bool { return s.admin }
func (s *stubAuthorizer) HasRole(ctx context.Context, userID string, role authz.Role) bool {
	return false
}
func (s *stubAuthorizer) ResolveOwner(ctx context.Context, resource authz.ResourceType, resourceID string) (string, error) {
	owner, ok := s.owners[resourceID]
	if !ok {
		return "", authz.ErrNotFound
	}
	return owner, nil
}
func (s *stubAuthorizer) CanRead(ctx context.Context, userID string, resource authz.ResourceType, resourceID string) bool {
	return s.CanWrite(ctx, userID, resource, resourceID)
}
func (s *stubAuthorizer) CanWrite(ctx context.Context, userID string, resource authz.ResourceType, resourceID string) bool {
	if userID == "" {
		return false
	}
	if s.admin {
		return true
	}
	owner, err := s.ResolveOwner(ctx, resource, resourceID)
	return err == nil && owner == userID
}

func TestLeaseService_Create_MarksUnitOccupied(t *testing.T) {
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	az := &stubAuthorizer{owners: map[string]string{
		"unit-1":   "owner-1",
		"tenant-1": "owner-1",
	}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO leases").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE units SET status").
		WithArgs("unit-1", "occupied", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewLeaseService(pg, az, NewUnitService(pg, az))
	lease, err := svc.Create(context.Background(), "owner-1", db.CreateLeaseRequest{
		UnitID:      "unit-1",
		TenantID:    "tenant-1",
		StartDate:   time.Now(),
		MonthlyRent: 8500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lease.Status != "active" {
		t.Errorf("lease status = %q, want active", lease.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeaseService_Create_DeniedForForeignUnit(t *testing.T) {
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	az := &stubAuthorizer{owners: map[string]string{
		"unit-1":   "someone-else",
		"tenant-1": "owner-1",
	}}

	// No SQL expected: the denial happens before any write.
	svc := NewLeaseService(pg, az, NewUnitService(pg, az))
	_, err = svc.Create(context.Background(), "owner-1", db.CreateLeaseRequest{
		UnitID:    "unit-1",
		TenantID:  "tenant-1",
		StartDate: time.Now(),
	})
	if err != authz.ErrPermissionDenied {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeaseService_Update_EndingFreesUnit(t *testing.T) {
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	az := &stubAuthorizer{owners: map[string]string{"lease-1": "owner-1"}}

	now := time.Now()
	leaseCols := []string{
		"id", "unit_id", "tenant_id", "start_date", "end_date", "monthly_rent",
		"deposit_paid", "status", "created_at", "updated_at",
		"full_name", "unit_number", "name",
	}
	mock.ExpectQuery("SELECT l.id, l.unit_id").
		WithArgs("lease-1").
		WillReturnRows(sqlmock.NewRows(leaseCols).
			AddRow("lease-1", "unit-1", "tenant-1", now, nil, 8500.0,
				8500.0, "active", now, now,
				"Jane Tenant", "A1", "Sunrise Hostel"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE leases SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE units SET status").
		WithArgs("unit-1", "vacant", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ended := "ended"
	svc := NewLeaseService(pg, az, NewUnitService(pg, az))
	lease, err := svc.Update(context.Background(), "owner-1", "lease-1", db.UpdateLeaseRequest{Status: &ended})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lease.Status != "ended" {
		t.Errorf("lease status = %q, want ended", lease.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeaseService_Get_ForeignLeaseReadsAsMissing(t *testing.T) {
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer pg.Close()

	az := &stubAuthorizer{owners: map[string]string{"lease-1": "someone-else"}}

	svc := NewLeaseService(pg, az, NewUnitService(pg, az))
	_, err = svc.Get(context.Background(), "owner-1", "lease-1")
	if err != authz.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
