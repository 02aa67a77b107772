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

// MaintenanceService tracks repair requests raised against units. High
// priority requests fire a push notification to the property owner.
type MaintenanceService struct {
	PG         *sql.DB
	Authorizer authz.Authorizer
	Notifier   *NotificationService
}

func NewMaintenanceService(pg *sql.DB, az authz.Authorizer, notifier *NotificationService) *MaintenanceService {
	return &MaintenanceService{PG: pg, Authorizer: az, Notifier: notifier}
}

const maintenanceSelect = `
	SELECT m.id, m.unit_id, m.title, COALESCE(m.description, ''), m.priority, m.status,
	       COALESCE(m.reported_by, ''), m.resolved_at, m.created_at, m.updated_at,
	       u.unit_number, p.name
	FROM maintenance_requests m
	JOIN units u ON m.unit_id = u.id
	JOIN properties p ON u.property_id = p.id`

func scanMaintenance(rows *sql.Rows) (db.MaintenanceRequest, error) {
	var m db.MaintenanceRequest
	err := rows.Scan(&m.ID, &m.UnitID, &m.Title, &m.Description, &m.Priority, &m.Status,
		&m.ReportedBy, &m.ResolvedAt, &m.CreatedAt, &m.UpdatedAt,
		&m.UnitNumber, &m.PropertyName)
	return m, err
}

// List returns the caller's maintenance requests, optionally filtered by status.
func (s *MaintenanceService) List(ctx context.Context, callerID, status string) ([]db.MaintenanceRequest, error) {
	query := maintenanceSelect
	args := []interface{}{}
	where := ""

	if !s.Authorizer.IsSuperAdmin(ctx, callerID) {
		args = append(args, callerID)
		where = fmt.Sprintf(" WHERE p.owner_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		if where == "" {
			where = fmt.Sprintf(" WHERE m.status = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND m.status = $%d", len(args))
		}
	}
	query += where + ` ORDER BY m.created_at DESC`

	rows, err := s.PG.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance requests: %w", err)
	}
	defer rows.Close()

	requests := []db.MaintenanceRequest{}
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, m)
	}
	return requests, rows.Err()
}

// Get returns one maintenance request.
func (s *MaintenanceService) Get(ctx context.Context, callerID, id string) (db.MaintenanceRequest, error) {
	if !s.Authorizer.CanRead(ctx, callerID, authz.ResourceMaintenance, id) {
		return db.MaintenanceRequest{}, authz.ErrNotFound
	}

	rows, err := s.PG.QueryContext(ctx, maintenanceSelect+` WHERE m.id = $1`, id)
	if err != nil {
		return db.MaintenanceRequest{}, fmt.Errorf("failed to get maintenance request: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return db.MaintenanceRequest{}, authz.ErrNotFound
	}
	return scanMaintenance(rows)
}

// Create raises a request against a unit the caller owns. High priority
// requests notify the owner asynchronously.
func (s *MaintenanceService) Create(ctx context.Context, callerID string, req db.CreateMaintenanceRequest) (db.MaintenanceRequest, error) {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceUnit, req.UnitID) {
		return db.MaintenanceRequest{}, authz.ErrPermissionDenied
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	now := time.Now()
	m := db.MaintenanceRequest{
		ID:          uuid.New().String(),
		UnitID:      req.UnitID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      "open",
		ReportedBy:  callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.PG.ExecContext(ctx, `
		INSERT INTO maintenance_requests (id, unit_id, title, description, priority, status, reported_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, m.ID, m.UnitID, m.Title, m.Description, m.Priority, m.Status, m.ReportedBy, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return m, fmt.Errorf("failed to create maintenance request: %w", err)
	}

	if m.Priority == "high" && s.Notifier != nil {
		ownerID, rerr := s.Authorizer.ResolveOwner(ctx, authz.ResourceUnit, m.UnitID)
		if rerr == nil {
			alert := m
			go s.Notifier.SendMaintenanceAlert(ownerID, &alert)
		}
	}
	return m, nil
}

// Update applies a partial update. Moving to resolved stamps resolved_at.
func (s *MaintenanceService) Update(ctx context.Context, callerID, id string, req db.UpdateMaintenanceRequest) (db.MaintenanceRequest, error) {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceMaintenance, id) {
		return db.MaintenanceRequest{}, authz.ErrPermissionDenied
	}

	m, err := s.Get(ctx, callerID, id)
	if err != nil {
		return m, err
	}

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Priority != nil {
		m.Priority = *req.Priority
	}
	if req.Status != nil {
		m.Status = *req.Status
		if m.Status == "resolved" && m.ResolvedAt == nil {
			now := time.Now()
			m.ResolvedAt = &now
		}
	}
	m.UpdatedAt = time.Now()

	_, err = s.PG.ExecContext(ctx, `
		UPDATE maintenance_requests
		SET title = $2, description = $3, priority = $4, status = $5, resolved_at = $6, updated_at = $7
		WHERE id = $1
	`, m.ID, m.Title, m.Description, m.Priority, m.Status, m.ResolvedAt, m.UpdatedAt)
	if err != nil {
		return m, fmt.Errorf("failed to update maintenance request: %w", err)
	}
	return m, nil
}

// Delete removes a maintenance request.
func (s *MaintenanceService) Delete(ctx context.Context, callerID, id string) error {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceMaintenance, id) {
		return authz.ErrPermissionDenied
	}

	_, err := s.PG.ExecContext(ctx, `DELETE FROM maintenance_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete maintenance request: %w", err)
	}
	return nil
}
