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

// UnitService owns the units table. Authorization resolves one hop up the
// chain: a unit belongs to whoever owns its property.
type UnitService struct {
	PG         *sql.DB
	Authorizer authz.Authorizer
}

func NewUnitService(pg *sql.DB, az authz.Authorizer) *UnitService {
	return &UnitService{PG: pg, Authorizer: az}
}

// List returns the caller's units, optionally filtered to one property.
func (s *UnitService) List(ctx context.Context, callerID, propertyID string) ([]db.Unit, error) {
	query := `
		SELECT u.id, u.property_id, u.unit_number, u.unit_type, u.monthly_rent, u.status,
		       u.created_at, u.updated_at, p.name
		FROM units u
		JOIN properties p ON u.property_id = p.id`
	args := []interface{}{}
	where := ""

	if !s.Authorizer.IsSuperAdmin(ctx, callerID) {
		args = append(args, callerID)
		where = fmt.Sprintf(" WHERE p.owner_id = $%d", len(args))
	}
	if propertyID != "" {
		args = append(args, propertyID)
		if where == "" {
			where = fmt.Sprintf(" WHERE u.property_id = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND u.property_id = $%d", len(args))
		}
	}
	query += where + ` ORDER BY p.name, u.unit_number`

	rows, err := s.PG.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	units := []db.Unit{}
	for rows.Next() {
		var u db.Unit
		err := rows.Scan(&u.ID, &u.PropertyID, &u.UnitNumber, &u.UnitType, &u.MonthlyRent,
			&u.Status, &u.CreatedAt, &u.UpdatedAt, &u.PropertyName)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// Get returns one unit, ErrNotFound for foreign or missing rows.
func (s *UnitService) Get(ctx context.Context, callerID, id string) (db.Unit, error) {
	if !s.Authorizer.CanRead(ctx, callerID, authz.ResourceUnit, id) {
		return db.Unit{}, authz.ErrNotFound
	}

	var u db.Unit
	err := s.PG.QueryRowContext(ctx, `
		SELECT u.id, u.property_id, u.unit_number, u.unit_type, u.monthly_rent, u.status,
		       u.created_at, u.updated_at, p.name
		FROM units u
		JOIN properties p ON u.property_id = p.id
		WHERE u.id = $1
	`, id).Scan(&u.ID, &u.PropertyID, &u.UnitNumber, &u.UnitType, &u.MonthlyRent,
		&u.Status, &u.CreatedAt, &u.UpdatedAt, &u.PropertyName)
	if err != nil {
		if err == sql.ErrNoRows {
			return u, authz.ErrNotFound
		}
		return u, fmt.Errorf("failed to get unit: %w", err)
	}
	return u, nil
}

// Create inserts a unit under a property the caller owns.
func (s *UnitService) Create(ctx context.Context, callerID string, req db.CreateUnitRequest) (db.Unit, error) {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceProperty, req.PropertyID) {
		return db.Unit{}, authz.ErrPermissionDenied
	}

	now := time.Now()
	u := db.Unit{
		ID:          uuid.New().String(),
		PropertyID:  req.PropertyID,
		UnitNumber:  req.UnitNumber,
		UnitType:    req.UnitType,
		MonthlyRent: req.MonthlyRent,
		Status:      "vacant",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.PG.ExecContext(ctx, `
		INSERT INTO units (id, property_id, unit_number, unit_type, monthly_rent, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.PropertyID, u.UnitNumber, u.UnitType, u.MonthlyRent, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return u, fmt.Errorf("failed to create unit: %w", err)
	}
	return u, nil
}

// Update applies a partial update after re-checking ownership.
func (s *UnitService) Update(ctx context.Context, callerID, id string, req db.UpdateUnitRequest) (db.Unit, error) {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceUnit, id) {
		return db.Unit{}, authz.ErrPermissionDenied
	}

	u, err := s.Get(ctx, callerID, id)
	if err != nil {
		return u, err
	}

	if req.UnitNumber != nil {
		u.UnitNumber = *req.UnitNumber
	}
	if req.UnitType != nil {
		u.UnitType = *req.UnitType
	}
	if req.MonthlyRent != nil {
		u.MonthlyRent = *req.MonthlyRent
	}
	if req.Status != nil {
		u.Status = *req.Status
	}
	u.UpdatedAt = time.Now()

	_, err = s.PG.ExecContext(ctx, `
		UPDATE units SET unit_number = $2, unit_type = $3, monthly_rent = $4, status = $5, updated_at = $6
		WHERE id = $1
	`, u.ID, u.UnitNumber, u.UnitType, u.MonthlyRent, u.Status, u.UpdatedAt)
	if err != nil {
		return u, fmt.Errorf("failed to update unit: %w", err)
	}
	return u, nil
}

// Delete removes a unit.
func (s *UnitService) Delete(ctx context.Context, callerID, id string) error {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceUnit, id) {
		return authz.ErrPermissionDenied
	}

	_, err := s.PG.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete unit: %w", err)
	}
	return nil
}

// SetStatus updates only the occupancy status. Used by the lease workflow
// when a lease starts or ends.
func (s *UnitService) SetStatus(ctx context.Context, tx *sql.Tx, unitID, status string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE units SET status = $2, updated_at = $3 WHERE id = $1
	`, unitID, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set unit status: %w", err)
	}
	return nil
}
