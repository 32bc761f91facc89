package role

import (
	"context"

	"github.com/xraph/radius/id"
)

// Store defines persistence operations for roles.
type Store interface {
	// CreateRole persists a new role. Permission references are not checked.
	CreateRole(ctx context.Context, r *Role) error

	// GetRole retrieves a role by ID with its raw permission references.
	GetRole(ctx context.Context, roleID id.RoleID) (*Role, error)

	// UpdateRole sets the update's fields on the role. When upsert is true
	// and no role has roleID, one is inserted.
	UpdateRole(ctx context.Context, roleID id.RoleID, u *Update, upsert bool) error

	// DeleteRole removes a role by ID. Users referencing it are untouched.
	DeleteRole(ctx context.Context, roleID id.RoleID) error

	// ListRoles returns every role ordered by ID.
	ListRoles(ctx context.Context) ([]*Role, error)

	// ListRolesByIDs returns the roles matching roleIDs.
	// Unknown IDs are skipped; order is unspecified.
	ListRolesByIDs(ctx context.Context, roleIDs []id.RoleID) ([]*Role, error)
}
