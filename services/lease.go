package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/db"
)

// LeaseService owns the leases table. Creating a lease touches two branches
// of the ownership chain (unit and tenant) and the unit's occupancy status,
// so it runs in one transaction.
type LeaseService struct {
	PG         *sql.DB
	Authorizer authz.Authorizer
	Units      *UnitService
}

func NewLeaseService(pg *sql.DB, az authz.Authorizer, units *UnitService) *LeaseService {
	return &LeaseService{PG: pg, Authorizer: az, Units: units}
}

const leaseSelect = `
	SELECT l.id, l.unit_id, l.tenant_id, l.start_date, l.end_date, l.monthly_rent,
	       l.deposit_paid, l.status, l.created_at, l.updated_at,
	       t.full_name, u.unit_number, p.name
	FROM leases l
	JOIN units u ON l.unit_id = u.id
	JOIN properties p ON u.property_id = p.id
	JOIN tenants t ON l.tenant_id = t.id`

func scanLease(rows *sql.Rows) (db.Lease, error) {
	var l db.Lease
	err := rows.Scan(&l.ID, &l.UnitID, &l.TenantID, &l.StartDate, &l.EndDate, &l.MonthlyRent,
		&l.DepositPaid, &l.Status, &l.CreatedAt, &l.UpdatedAt,
		&l.TenantName, &l.UnitNumber, &l.PropertyName)
	return l, err
}

// List returns the caller's leases, optionally filtered by status.
func (s *LeaseService) List(ctx context.Context, callerID, status string) ([]db.Lease, error) {
	query := leaseSelect
	args := []interface{}{}
	where := ""

	if !s.Authorizer.IsSuperAdmin(ctx, callerID) {
		args = append(args, callerID)
		where = fmt.Sprintf(" WHERE p.owner_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		if where == "" {
			where = fmt.Sprintf(" WHERE l.status = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND l.status = $%d", len(args))
		}
	}
	query += where + ` ORDER BY l.created_at DESC`

	rows, err := s.PG.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	defer rows.Close()

	leases := []db.Lease{}
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}

// Get returns one lease with tenant and unit context.
func (s *LeaseService) Get(ctx context.Context, callerID, id string) (db.Lease, error) {
	if !s.Authorizer.CanRead(ctx, callerID, authz.ResourceLease, id) {
		return db.Lease{}, authz.ErrNotFound
	}

	rows, err := s.PG.QueryContext(ctx, leaseSelect+` WHERE l.id = $1`, id)
	if err != nil {
		return db.Lease{}, fmt.Errorf("failed to get lease: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return db.Lease{}, authz.ErrNotFound
	}
	return scanLease(rows)
}

// Create inserts a lease over a unit and tenant the caller owns, and flips
// the unit to occupied in the same transaction.
func (s *LeaseService) Create(ctx context.Context, callerID string, req db.CreateLeaseRequest) (db.Lease, error) {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceUnit, req.UnitID) {
		return db.Lease{}, authz.ErrPermissionDenied
	}
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceTenant, req.TenantID) {
		return db.Lease{}, authz.ErrPermissionDenied
	}

	now := time.Now()
	l := db.Lease{
		ID:          uuid.New().String(),
		UnitID:      req.UnitID,
		TenantID:    req.TenantID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MonthlyRent: req.MonthlyRent,
		DepositPaid: req.DepositPaid,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.PG.BeginTx(ctx, nil)
	if err != nil {
		return l, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO leases (id, unit_id, tenant_id, start_date, end_date, monthly_rent, deposit_paid, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, l.ID, l.UnitID, l.TenantID, l.StartDate, l.EndDate, l.MonthlyRent, l.DepositPaid, l.Status, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return l, fmt.Errorf("failed to create lease: %w", err)
	}

	if err := s.Units.SetStatus(ctx, tx, l.UnitID, "occupied"); err != nil {
		return l, err
	}

	if err := tx.Commit(); err != nil {
		return l, fmt.Errorf("failed to commit lease creation: %w", err)
	}
	return l, nil
}

// Update applies a partial update. Ending or terminating a lease frees the
// unit in the same transaction.
func (s *LeaseService) Update(ctx context.Context, callerID, id string, req db.UpdateLeaseRequest) (db.Lease, error) {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceLease, id) {
		return db.Lease{}, authz.ErrPermissionDenied
	}

	l, err := s.Get(ctx, callerID, id)
	if err != nil {
		return l, err
	}

	if req.EndDate != nil {
		l.EndDate = req.EndDate
	}
	if req.MonthlyRent != nil {
		l.MonthlyRent = *req.MonthlyRent
	}
	if req.Status != nil {
		l.Status = *req.Status
	}
	l.UpdatedAt = time.Now()

	tx, err := s.PG.BeginTx(ctx, nil)
	if err != nil {
		return l, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE leases SET end_date = $2, monthly_rent = $3, status = $4, updated_at = $5
		WHERE id = $1
	`, l.ID, l.EndDate, l.MonthlyRent, l.Status, l.UpdatedAt)
	if err != nil {
		return l, fmt.Errorf("failed to update lease: %w", err)
	}

	if l.Status == "ended" || l.Status == "terminated" {
		if err := s.Units.SetStatus(ctx, tx, l.UnitID, "vacant"); err != nil {
			return l, err
		}
	}

	if err := tx.Commit(); err != nil {
		return l, fmt.Errorf("failed to commit lease update: %w", err)
	}
	return l, nil
}

// Delete removes a lease record.
func (s *LeaseService) Delete(ctx context.Context, callerID, id string) error {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceLease, id) {
		return authz.ErrPermissionDenied
	}

	_, err := s.PG.ExecContext(ctx, `DELETE FROM leases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lease: %w", err)
	}
	return nil
}
