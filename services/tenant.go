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

// TenantService owns the tenants table. Tenants hang directly off an owner,
// so resolution is a single hop.
type TenantService struct {
	PG         *sql.DB
	Authorizer authz.Authorizer
}

func NewTenantService(pg *sql.DB, az authz.Authorizer) *TenantService {
	return &TenantService{PG: pg, Authorizer: az}
}

// List returns the caller's tenants.
func (s *TenantService) List(ctx context.Context, callerID string) ([]db.Tenant, error) {
	query := `
		SELECT id, owner_id, full_name, COALESCE(email, ''), phone, COALESCE(national_id, ''),
		       created_at, updated_at
		FROM tenants`
	args := []interface{}{}
	if !s.Authorizer.IsSuperAdmin(ctx, callerID) {
		query += ` WHERE owner_id = $1`
		args = append(args, callerID)
	}
	query += ` ORDER BY full_name`

	rows, err := s.PG.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := []db.Tenant{}
	for rows.Next() {
		var t db.Tenant
		err := rows.Scan(&t.ID, &t.OwnerID, &t.FullName, &t.Email, &t.Phone, &t.NationalID,
			&t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// Get returns one tenant record.
func (s *TenantService) Get(ctx context.Context, callerID, id string) (db.Tenant, error) {
	if !s.Authorizer.CanRead(ctx, callerID, authz.ResourceTenant, id) {
		return db.Tenant{}, authz.ErrNotFound
	}

	var t db.Tenant
	err := s.PG.QueryRowContext(ctx, `
		SELECT id, owner_id, full_name, COALESCE(email, ''), phone, COALESCE(national_id, ''),
		       created_at, updated_at
		FROM tenants WHERE id = $1
	`, id).Scan(&t.ID, &t.OwnerID, &t.FullName, &t.Email, &t.Phone, &t.NationalID,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, authz.ErrNotFound
		}
		return t, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

// Create inserts a tenant owned by the caller.
func (s *TenantService) Create(ctx context.Context, callerID string, req db.CreateTenantRequest) (db.Tenant, error) {
	now := time.Now()
	t := db.Tenant{
		ID:         uuid.New().String(),
		OwnerID:    callerID,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		NationalID: req.NationalID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := s.PG.ExecContext(ctx, `
		INSERT INTO tenants (id, owner_id, full_name, email, phone, national_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, t.ID, t.OwnerID, t.FullName, t.Email, t.Phone, t.NationalID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return t, fmt.Errorf("failed to create tenant: %w", err)
	}
	return t, nil
}

// Update applies a partial update after re-checking ownership.
func (s *TenantService) Update(ctx context.Context, callerID, id string, req db.UpdateTenantRequest) (db.Tenant, error) {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceTenant, id) {
		return db.Tenant{}, authz.ErrPermissionDenied
	}

	t, err := s.Get(ctx, callerID, id)
	if err != nil {
		return t, err
	}

	if req.FullName != nil {
		t.FullName = *req.FullName
	}
	if req.Email != nil {
		t.Email = *req.Email
	}
	if req.Phone != nil {
		t.Phone = *req.Phone
	}
	if req.NationalID != nil {
		t.NationalID = *req.NationalID
	}
	t.UpdatedAt = time.Now()

	_, err = s.PG.ExecContext(ctx, `
		UPDATE tenants SET full_name = $2, email = $3, phone = $4, national_id = $5, updated_at = $6
		WHERE id = $1
	`, t.ID, t.FullName, t.Email, t.Phone, t.NationalID, t.UpdatedAt)
	if err != nil {
		return t, fmt.Errorf("failed to update tenant: %w", err)
	}
	return t, nil
}

// Delete removes a tenant record.
func (s *TenantService) Delete(ctx context.Context, callerID, id string) error {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceTenant, id) {
		return authz.ErrPermissionDenied
	}

	_, err := s.PG.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return nil
}
