// Package authz decides who may see and change what.
//
// Every data operation against an owned-resource table is admitted iff the
// resolved root owner of the target row equals the caller, or the caller
// holds the super_admin role. The predicates live here as first-class,
// testable functions evaluated at the data-access boundary - handlers never
// recompute them ad hoc. Deny by default.
package authz

import (
	"context"
	"errors"
)

// Role is a platform-level role held by a user. Role checks are existence
// checks against user_roles, never single-value lookups: a user may hold
// several roles.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RolePropertyOwner Role = "property_owner"
)

// ResourceType identifies a table in the owned-resource chain.
type ResourceType string

const (
	ResourceProfile     ResourceType = "profile"
	ResourceProperty    ResourceType = "property"
	ResourceUnit        ResourceType = "unit"
	ResourceTenant      ResourceType = "tenant"
	ResourceLease       ResourceType = "lease"
	ResourcePayment     ResourceType = "payment"
	ResourceMaintenance ResourceType = "maintenance_request"
)

// Sentinel errors surfaced by the policy layer.
var (
	// ErrPermissionDenied is returned for unauthorized writes. Unauthorized
	// reads never return it - they come back empty to avoid confirming that
	// a row outside the caller's ownership exists.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource does not exist. Callers must
	// surface it identically to a denied read.
	ErrNotFound = errors.New("not found")
)

// Authorizer answers one question: "is this allowed?".
//
// The only trusted input is the caller's verified identity from the
// authenticated session - never a client-supplied owner or role claim.
type Authorizer interface {
	// IsSuperAdmin reports whether the user holds the super_admin role.
	IsSuperAdmin(ctx context.Context, userID string) bool

	// HasRole reports whether the user holds the given role.
	HasRole(ctx context.Context, userID string, role Role) bool

	// ResolveOwner walks the foreign-key chain from the given row up to the
	// identity that ultimately controls it (payment -> lease -> unit ->
	// property -> owner_id). Returns ErrNotFound if the row does not exist.
	ResolveOwner(ctx context.Context, resource ResourceType, resourceID string) (string, error)

	// CanRead reports whether the user may read the row. Super admins may
	// read everything; profiles are readable only by their owner.
	CanRead(ctx context.Context, userID string, resource ResourceType, resourceID string) bool

	// CanWrite reports whether the user may mutate the row. Same rule as
	// CanRead; the approval_status field of a profile is additionally
	// restricted to super admins, enforced by the approval workflow.
	CanWrite(ctx context.Context, userID string, resource ResourceType, resourceID string) bool
}
