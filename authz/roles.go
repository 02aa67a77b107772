package authz

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RoleStore manages user_roles rows. This is the "write" side of the role
// model, kept separate from Authorizer which only answers checks.
//
// super_admin is never self-granted through the API: role writes are gated
// behind a super_admin check in the handler layer, and the first admin is
// seeded out-of-band with the adminctl command.
type RoleStore struct {
	db *sql.DB
}

// NewRoleStore creates a new RoleStore with the given database connection
func NewRoleStore(db *sql.DB) *RoleStore {
	return &RoleStore{db: db}
}

// Assign adds a role to a user. Assigning an already-held role is a no-op.
func (s *RoleStore) Assign(ctx context.Context, userID string, role Role) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_roles (id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, role) DO NOTHING
	`, uuid.New().String(), userID, string(role), time.Now())

	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// AssignTx adds a role inside an existing transaction. Used by profile
// provisioning so the profile row and its default role commit together.
func (s *RoleStore) AssignTx(ctx context.Context, tx *sql.Tx, userID string, role Role) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_roles (id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, role) DO NOTHING
	`, uuid.New().String(), userID, string(role), time.Now())

	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// Remove deletes a (user, role) row.
func (s *RoleStore) Remove(ctx context.Context, userID string, role Role) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM user_roles WHERE user_id = $1 AND role = $2
	`, userID, string(role))

	if err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}
	return nil
}

// ListForUser returns all roles held by a user.
func (s *RoleStore) ListForUser(ctx context.Context, userID string) ([]Role, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		roles = append(roles, Role(r))
	}
	return roles, rows.Err()
}
