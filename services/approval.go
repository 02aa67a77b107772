package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jpk1234556/machacoshostels/db"
)

// ApprovalService owns the approval_status transition and its audit trail.
// Callers are already verified as super admins before anything here runs.
type ApprovalService struct {
	PG       *sql.DB
	Notifier *NotificationService
}

func NewApprovalService(pg *sql.DB, notifier *NotificationService) *ApprovalService {
	return &ApprovalService{PG: pg, Notifier: notifier}
}

// approvalActions maps the new status to the audit action name.
var approvalActions = map[db.ApprovalStatus]string{
	db.ApprovalApproved: "user_approved",
	db.ApprovalRejected: "user_rejected",
	db.ApprovalPending:  "user_set_pending",
}

// SetApprovalStatus transitions the target profile's approval status and
// appends one audit entry. All transitions between the three states are
// permitted, including redundant ones - approving an already-approved user
// succeeds and still produces an audit row.
//
// The two writes are intentionally not atomic: the audit entry is only
// attempted after the status update succeeded, and an audit failure is
// logged but never rolls the status back.
func (s *ApprovalService) SetApprovalStatus(ctx context.Context, adminID, targetUserID string, newStatus db.ApprovalStatus) (db.AdminActivityLog, error) {
	if !newStatus.Valid() {
		return db.AdminActivityLog{}, fmt.Errorf("invalid approval status: %q", newStatus)
	}

	var previous db.ApprovalStatus
	var targetEmail string
	err := s.PG.QueryRowContext(ctx, `
		SELECT approval_status, email FROM profiles WHERE id = $1
	`, targetUserID).Scan(&previous, &targetEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return db.AdminActivityLog{}, fmt.Errorf("profile %s not found", targetUserID)
		}
		return db.AdminActivityLog{}, fmt.Errorf("failed to load target profile: %w", err)
	}

	_, err = s.PG.ExecContext(ctx, `
		UPDATE profiles SET approval_status = $2, updated_at = $3 WHERE id = $1
	`, targetUserID, newStatus, time.Now())
	if err != nil {
		return db.AdminActivityLog{}, fmt.Errorf("failed to update approval status: %w", err)
	}

	entry := s.writeAuditEntry(ctx, adminID, targetUserID, targetEmail, previous, newStatus)

	// Push notification to the owner is best effort.
	if s.Notifier != nil {
		go s.Notifier.SendApprovalDecision(targetUserID, newStatus)
	}

	return entry, nil
}

// writeAuditEntry appends the activity-log row for a completed transition.
// Failure here is reported locally and swallowed: the status change already
// happened and must not be undone by a logging problem.
func (s *ApprovalService) writeAuditEntry(ctx context.Context, adminID, targetUserID, targetEmail string, previous, next db.ApprovalStatus) db.AdminActivityLog {
	details, _ := json.Marshal(map[string]string{
		"previous_status": string(previous),
		"new_status":      string(next),
	})

	entry := db.AdminActivityLog{
		ID:              uuid.New().String(),
		AdminID:         adminID,
		Action:          approvalActions[next],
		TargetUserID:    targetUserID,
		TargetUserEmail: targetEmail,
		Details:         string(details),
		CreatedAt:       time.Now(),
	}

	_, err := s.PG.ExecContext(ctx, `
		INSERT INTO admin_activity_logs (id, admin_id, action, target_user_id, target_user_email, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.AdminID, entry.Action, entry.TargetUserID, entry.TargetUserEmail, entry.Details, entry.CreatedAt)
	if err != nil {
		log.Printf("Failed to write audit entry for %s on %s: %v", entry.Action, targetUserID, err)
	}

	return entry
}

// ListActivityLogs returns audit entries, newest first. Visible to super
// admins only (enforced by the route middleware).
func (s *ApprovalService) ListActivityLogs(ctx context.Context, limit, offset int) ([]db.AdminActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := s.PG.QueryContext(ctx, `
		SELECT id, admin_id, action, target_user_id, COALESCE(target_user_email, ''), COALESCE(details, ''), created_at
		FROM admin_activity_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	var logs []db.AdminActivityLog
	for rows.Next() {
		var e db.AdminActivityLog
		err := rows.Scan(&e.ID, &e.AdminID, &e.Action, &e.TargetUserID, &e.TargetUserEmail, &e.Details, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}
