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

// PropertyService owns the properties table, the root of the ownership
// chain. Reads are owner-filtered in SQL so a foreign owner's rows simply
// never appear; writes re-check the policy predicate and fail with
// ErrPermissionDenied.
type PropertyService struct {
	PG         *sql.DB
	Authorizer authz.Authorizer
}

func NewPropertyService(pg *sql.DB, az authz.Authorizer) *PropertyService {
	return &PropertyService{PG: pg, Authorizer: az}
}

// List returns the caller's properties with unit counts. Super admins see
// every property.
func (s *PropertyService) List(ctx context.Context, callerID string) ([]db.Property, error) {
	query := `
		SELECT p.id, p.owner_id, p.name, p.location, COALESCE(p.description, ''),
		       p.created_at, p.updated_at, COUNT(u.id)
		FROM properties p
		LEFT JOIN units u ON u.property_id = p.id`
	args := []interface{}{}
	if !s.Authorizer.IsSuperAdmin(ctx, callerID) {
		query += ` WHERE p.owner_id = $1`
		args = append(args, callerID)
	}
	query += ` GROUP BY p.id ORDER BY p.created_at DESC`

	rows, err := s.PG.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	properties := []db.Property{}
	for rows.Next() {
		var p db.Property
		err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Location, &p.Description,
			&p.CreatedAt, &p.UpdatedAt, &p.UnitCount)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// Get returns one property. Rows outside the caller's ownership resolve to
// ErrNotFound, indistinguishable from nonexistent rows.
func (s *PropertyService) Get(ctx context.Context, callerID, id string) (db.Property, error) {
	if !s.Authorizer.CanRead(ctx, callerID, authz.ResourceProperty, id) {
		return db.Property{}, authz.ErrNotFound
	}

	var p db.Property
	err := s.PG.QueryRowContext(ctx, `
		SELECT id, owner_id, name, location, COALESCE(description, ''), created_at, updated_at
		FROM properties WHERE id = $1
	`, id).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Location, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return p, authz.ErrNotFound
		}
		return p, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

// Create inserts a property rooted at the caller's identity. The owner_id
// always comes from the verified session, never from the request body.
func (s *PropertyService) Create(ctx context.Context, callerID string, req db.CreatePropertyRequest) (db.Property, error) {
	now := time.Now()
	p := db.Property{
		ID:          uuid.New().String(),
		OwnerID:     callerID,
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.PG.ExecContext(ctx, `
		INSERT INTO properties (id, owner_id, name, location, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.OwnerID, p.Name, p.Location, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return p, fmt.Errorf("failed to create property: %w", err)
	}
	return p, nil
}

// Update applies a partial update after re-checking ownership.
func (s *PropertyService) Update(ctx context.Context, callerID, id string, req db.UpdatePropertyRequest) (db.Property, error) {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceProperty, id) {
		return db.Property{}, authz.ErrPermissionDenied
	}

	p, err := s.Get(ctx, callerID, id)
	if err != nil {
		return p, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	p.UpdatedAt = time.Now()

	_, err = s.PG.ExecContext(ctx, `
		UPDATE properties SET name = $2, location = $3, description = $4, updated_at = $5
		WHERE id = $1
	`, p.ID, p.Name, p.Location, p.Description, p.UpdatedAt)
	if err != nil {
		return p, fmt.Errorf("failed to update property: %w", err)
	}
	return p, nil
}

// Delete removes a property. Units, leases and payments cascade in the
// schema.
func (s *PropertyService) Delete(ctx context.Context, callerID, id string) error {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceProperty, id) {
		return authz.ErrPermissionDenied
	}

	_, err := s.PG.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return nil
}
