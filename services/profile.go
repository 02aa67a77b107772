package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/db"
)

// ProfileService owns the profiles table. Approval status changes do NOT go
// through here - they belong to the ApprovalService, which is gated behind
// super_admin.
type ProfileService struct {
	PG    *sql.DB
	Roles *authz.RoleStore
}

func NewProfileService(pg *sql.DB, roles *authz.RoleStore) *ProfileService {
	return &ProfileService{PG: pg, Roles: roles}
}

const profileColumns = `id, email, COALESCE(full_name, ''), COALESCE(phone, ''), approval_status,
	COALESCE(national_id, ''), COALESCE(id_document_path, ''), COALESCE(physical_address, ''),
	COALESCE(mpesa_number, ''), COALESCE(fcm_token, ''), created_at, updated_at`

func scanProfile(row *sql.Row) (db.Profile, error) {
	var p db.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Phone, &p.ApprovalStatus,
		&p.NationalID, &p.IDDocumentPath, &p.PhysicalAddress,
		&p.MpesaNumber, &p.FCMToken, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Get returns a profile by identity id.
func (s *ProfileService) Get(ctx context.Context, id string) (db.Profile, error) {
	row := s.PG.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return p, authz.ErrNotFound
	}
	return p, err
}

// EnsureProfile creates the profile and its default property_owner role the
// first time an identity is seen. Both rows commit in one transaction so
// "exactly one profile, exactly one owner role" holds even if the process
// dies between statements. Existing profiles are returned unchanged.
func (s *ProfileService) EnsureProfile(ctx context.Context, userID, email, fullName string) (db.Profile, error) {
	if p, err := s.Get(ctx, userID); err == nil {
		return p, nil
	} else if err != authz.ErrNotFound {
		return db.Profile{}, err
	}

	now := time.Now()
	p := db.Profile{
		ID:             userID,
		Email:          email,
		FullName:       fullName,
		ApprovalStatus: db.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tx, err := s.PG.BeginTx(ctx, nil)
	if err != nil {
		return db.Profile{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (id, email, full_name, approval_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, p.ID, p.Email, p.FullName, p.ApprovalStatus, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return db.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := s.Roles.AssignTx(ctx, tx, userID, authz.RolePropertyOwner); err != nil {
		return db.Profile{}, err
	}

	if err := tx.Commit(); err != nil {
		return db.Profile{}, fmt.Errorf("failed to commit profile creation: %w", err)
	}
	return p, nil
}

// UpdateSelf applies the caller's own partial update. approval_status is
// deliberately not reachable from here.
func (s *ProfileService) UpdateSelf(ctx context.Context, userID string, req db.UpdateProfileRequest) (db.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return p, err
	}

	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.NationalID != nil {
		p.NationalID = *req.NationalID
	}
	if req.PhysicalAddress != nil {
		p.PhysicalAddress = *req.PhysicalAddress
	}
	if req.MpesaNumber != nil {
		p.MpesaNumber = *req.MpesaNumber
	}
	p.UpdatedAt = time.Now()

	_, err = s.PG.ExecContext(ctx, `
		UPDATE profiles
		SET full_name = $2, phone = $3, national_id = $4, physical_address = $5,
		    mpesa_number = $6, updated_at = $7
		WHERE id = $1
	`, p.ID, p.FullName, p.Phone, p.NationalID, p.PhysicalAddress, p.MpesaNumber, p.UpdatedAt)
	if err != nil {
		return p, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

// SetIDDocumentPath records the storage object path of an uploaded KYC
// document on the caller's own profile.
func (s *ProfileService) SetIDDocumentPath(ctx context.Context, userID, path string) error {
	_, err := s.PG.ExecContext(ctx, `
		UPDATE profiles SET id_document_path = $2, updated_at = $3 WHERE id = $1
	`, userID, path, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set document path: %w", err)
	}
	return nil
}

// SetFCMToken stores the caller's push token.
func (s *ProfileService) SetFCMToken(ctx context.Context, userID, token string) error {
	_, err := s.PG.ExecContext(ctx, `
		UPDATE profiles SET fcm_token = $2, updated_at = $3 WHERE id = $1
	`, userID, token, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set fcm token: %w", err)
	}
	return nil
}

// List returns profiles for the admin console, optionally filtered by
// approval status, with each user's roles aggregated in.
func (s *ProfileService) List(ctx context.Context, status db.ApprovalStatus) ([]db.Profile, error) {
	query := `
		SELECT p.id, p.email, COALESCE(p.full_name, ''), COALESCE(p.phone, ''), p.approval_status,
		       COALESCE(p.national_id, ''), COALESCE(p.id_document_path, ''), COALESCE(p.physical_address, ''),
		       COALESCE(p.mpesa_number, ''), COALESCE(p.fcm_token, ''), p.created_at, p.updated_at,
		       COALESCE(array_agg(r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
		FROM profiles p
		LEFT JOIN user_roles r ON r.user_id = p.id`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE p.approval_status = $1`
		args = append(args, status)
	}
	query += ` GROUP BY p.id ORDER BY p.created_at DESC`

	rows, err := s.PG.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []db.Profile
	for rows.Next() {
		var p db.Profile
		var roles pq.StringArray
		err := rows.Scan(&p.ID, &p.Email, &p.FullName, &p.Phone, &p.ApprovalStatus,
			&p.NationalID, &p.IDDocumentPath, &p.PhysicalAddress,
			&p.MpesaNumber, &p.FCMToken, &p.CreatedAt, &p.UpdatedAt, &roles)
		if err != nil {
			return nil, err
		}
		p.Roles = roles
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
