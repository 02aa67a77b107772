package authz

import (
	"context"
	"database/sql"
	"log"
)

// SimpleAuthorizer implements the Authorizer interface using direct SQL
// queries. This is the default in-process implementation. It ONLY answers
// permission checks - no CRUD operations.
type SimpleAuthorizer struct {
	db *sql.DB
}

// NewSimpleAuthorizer creates a new SimpleAuthorizer with the given database connection
func NewSimpleAuthorizer(db *sql.DB) *SimpleAuthorizer {
	return &SimpleAuthorizer{db: db}
}

// Ensure SimpleAuthorizer implements Authorizer interface
var _ Authorizer = (*SimpleAuthorizer)(nil)

// ============================================================================
// Role checks
// ============================================================================

// HasRole checks for the existence of a (user, role) row.
func (a *SimpleAuthorizer) HasRole(ctx context.Context, userID string, role Role) bool {
	var exists bool
	err := a.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)
	`, userID, string(role)).Scan(&exists)

	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Error checking role: %v", err)
		}
		return false
	}
	return exists
}

// IsSuperAdmin reports whether the user holds super_admin.
func (a *SimpleAuthorizer) IsSuperAdmin(ctx context.Context, userID string) bool {
	return a.HasRole(ctx, userID, RoleSuperAdmin)
}

// ============================================================================
// Ownership resolution
// ============================================================================

// ownerQueries maps each resource type to the query resolving its root
// owner_id. Resolution always happens server-side against the live chain,
// never from a client-supplied claim.
var ownerQueries = map[ResourceType]string{
	ResourceProfile: `SELECT id FROM profiles WHERE id = $1`,
	ResourceProperty: `SELECT owner_id FROM properties WHERE id = $1`,
	ResourceTenant: `SELECT owner_id FROM tenants WHERE id = $1`,
	ResourceUnit: `
		SELECT p.owner_id FROM units u
		JOIN properties p ON u.property_id = p.id
		WHERE u.id = $1`,
	ResourceLease: `
		SELECT p.owner_id FROM leases l
		JOIN units u ON l.unit_id = u.id
		JOIN properties p ON u.property_id = p.id
		WHERE l.id = $1`,
	ResourcePayment: `
		SELECT p.owner_id FROM payments pay
		JOIN leases l ON pay.lease_id = l.id
		JOIN units u ON l.unit_id = u.id
		JOIN properties p ON u.property_id = p.id
		WHERE pay.id = $1`,
	ResourceMaintenance: `
		SELECT p.owner_id FROM maintenance_requests m
		JOIN units u ON m.unit_id = u.id
		JOIN properties p ON u.property_id = p.id
		WHERE m.id = $1`,
}

// ResolveOwner walks the foreign-key chain to the owning identity.
func (a *SimpleAuthorizer) ResolveOwner(ctx context.Context, resource ResourceType, resourceID string) (string, error) {
	query, ok := ownerQueries[resource]
	if !ok {
		return "", ErrNotFound
	}

	var ownerID string
	err := a.db.QueryRowContext(ctx, query, resourceID).Scan(&ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", err
	}
	return ownerID, nil
}

// ============================================================================
// Admission predicates
// ============================================================================

// CanRead admits the read iff the resolved owner equals the caller or the
// caller is a super admin. A false result must surface as an empty read,
// never as an error.
func (a *SimpleAuthorizer) CanRead(ctx context.Context, userID string, resource ResourceType, resourceID string) bool {
	return a.admit(ctx, userID, resource, resourceID)
}

// CanWrite admits the write under the same ownership rule. A false result
// surfaces as ErrPermissionDenied.
func (a *SimpleAuthorizer) CanWrite(ctx context.Context, userID string, resource ResourceType, resourceID string) bool {
	return a.admit(ctx, userID, resource, resourceID)
}

func (a *SimpleAuthorizer) admit(ctx context.Context, userID string, resource ResourceType, resourceID string) bool {
	if userID == "" {
		return false
	}
	if a.IsSuperAdmin(ctx, userID) {
		return true
	}
	ownerID, err := a.ResolveOwner(ctx, resource, resourceID)
	if err != nil {
		// Nonexistent rows are denied the same way as foreign rows.
		return false
	}
	return ownerID == userID
}
