// Package plugin defines the plugin system for Radius.
// Plugins are notified after each successful mutation and can react by
// logging, recording metrics or forwarding the event elsewhere.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import (
	"context"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/user"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// ──────────────────────────────────────────────────
// Permission lifecycle hooks
// ──────────────────────────────────────────────────

// PermissionCreated is called after a permission is created.
type PermissionCreated interface {
	OnPermissionCreated(ctx context.Context, p *permission.Permission) error
}

// PermissionUpdated is called after a permission is updated or upserted.
// u holds only the fields that were written.
type PermissionUpdated interface {
	OnPermissionUpdated(ctx context.Context, permID id.PermissionID, u *permission.Update) error
}

// PermissionDeleted is called after a permission is deleted.
type PermissionDeleted interface {
	OnPermissionDeleted(ctx context.Context, permID id.PermissionID) error
}

// ──────────────────────────────────────────────────
// Role lifecycle hooks
// ──────────────────────────────────────────────────

// RoleCreated is called after a role is created.
type RoleCreated interface {
	OnRoleCreated(ctx context.Context, r *role.Role) error
}

// RoleUpdated is called after a role is updated or upserted.
type RoleUpdated interface {
	OnRoleUpdated(ctx context.Context, roleID id.RoleID, u *role.Update) error
}

// RoleDeleted is called after a role is deleted.
type RoleDeleted interface {
	OnRoleDeleted(ctx context.Context, roleID id.RoleID) error
}

// ──────────────────────────────────────────────────
// User lifecycle hooks
// ──────────────────────────────────────────────────

// UserCreated is called after a user is created.
type UserCreated interface {
	OnUserCreated(ctx context.Context, u *user.User) error
}

// UserUpdated is called after a user is updated or upserted.
type UserUpdated interface {
	OnUserUpdated(ctx context.Context, userID id.UserID, u *user.Update) error
}

// UserDeleted is called after a user is deleted.
type UserDeleted interface {
	OnUserDeleted(ctx context.Context, userID id.UserID) error
}

// ──────────────────────────────────────────────────
// Shutdown hook
// ──────────────────────────────────────────────────

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
