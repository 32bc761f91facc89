package permission

import (
	"context"

	"github.com/xraph/radius/id"
)

// Store defines persistence operations for permissions.
type Store interface {
	// CreatePermission persists a new permission. A duplicate name fails
	// with a conflict reported by the backend's unique index.
	CreatePermission(ctx context.Context, p *Permission) error

	// GetPermission retrieves a permission by ID.
	GetPermission(ctx context.Context, permID id.PermissionID) (*Permission, error)

	// UpdatePermission sets the update's fields on the permission. When
	// upsert is true and no permission has permID, one is inserted.
	UpdatePermission(ctx context.Context, permID id.PermissionID, u *Update, upsert bool) error

	// DeletePermission removes a permission by ID.
	DeletePermission(ctx context.Context, permID id.PermissionID) error

	// ListPermissions returns every permission ordered by ID.
	ListPermissions(ctx context.Context) ([]*Permission, error)

	// ListPermissionsByIDs returns the permissions matching permIDs.
	// Unknown IDs are skipped; order is unspecified.
	ListPermissionsByIDs(ctx context.Context, permIDs []id.PermissionID) ([]*Permission, error)
}
