package plugin

import (
	"context"
	"log/slog"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/user"
)

// entry pairs a hook with the plugin name for logging.
type entry[H any] struct {
	name string
	hook H
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	permissionCreated []entry[PermissionCreated]
	permissionUpdated []entry[PermissionUpdated]
	permissionDeleted []entry[PermissionDeleted]
	roleCreated       []entry[RoleCreated]
	roleUpdated       []entry[RoleUpdated]
	roleDeleted       []entry[RoleDeleted]
	userCreated       []entry[UserCreated]
	userUpdated       []entry[UserUpdated]
	userDeleted       []entry[UserDeleted]
	shutdown          []entry[Shutdown]
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	cache(&r.permissionCreated, name, p)
	cache(&r.permissionUpdated, name, p)
	cache(&r.permissionDeleted, name, p)
	cache(&r.roleCreated, name, p)
	cache(&r.roleUpdated, name, p)
	cache(&r.roleDeleted, name, p)
	cache(&r.userCreated, name, p)
	cache(&r.userUpdated, name, p)
	cache(&r.userDeleted, name, p)
	cache(&r.shutdown, name, p)
}

func cache[H any](list *[]entry[H], name string, p Plugin) {
	if h, ok := p.(H); ok {
		*list = append(*list, entry[H]{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// ──────────────────────────────────────────────────
// Permission event emitters
// ──────────────────────────────────────────────────

// EmitPermissionCreated notifies all plugins that implement PermissionCreated.
func (r *Registry) EmitPermissionCreated(ctx context.Context, p *permission.Permission) {
	for _, e := range r.permissionCreated {
		if err := e.hook.OnPermissionCreated(ctx, p); err != nil {
			r.logHookError("OnPermissionCreated", e.name, err)
		}
	}
}

// EmitPermissionUpdated notifies all plugins that implement PermissionUpdated.
func (r *Registry) EmitPermissionUpdated(ctx context.Context, permID id.PermissionID, u *permission.Update) {
	for _, e := range r.permissionUpdated {
		if err := e.hook.OnPermissionUpdated(ctx, permID, u); err != nil {
			r.logHookError("OnPermissionUpdated", e.name, err)
		}
	}
}

// EmitPermissionDeleted notifies all plugins that implement PermissionDeleted.
func (r *Registry) EmitPermissionDeleted(ctx context.Context, permID id.PermissionID) {
	for _, e := range r.permissionDeleted {
		if err := e.hook.OnPermissionDeleted(ctx, permID); err != nil {
			r.logHookError("OnPermissionDeleted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Role event emitters
// ──────────────────────────────────────────────────

// EmitRoleCreated notifies all plugins that implement RoleCreated.
func (r *Registry) EmitRoleCreated(ctx context.Context, rl *role.Role) {
	for _, e := range r.roleCreated {
		if err := e.hook.OnRoleCreated(ctx, rl); err != nil {
			r.logHookError("OnRoleCreated", e.name, err)
		}
	}
}

// EmitRoleUpdated notifies all plugins that implement RoleUpdated.
func (r *Registry) EmitRoleUpdated(ctx context.Context, roleID id.RoleID, u *role.Update) {
	for _, e := range r.roleUpdated {
		if err := e.hook.OnRoleUpdated(ctx, roleID, u); err != nil {
			r.logHookError("OnRoleUpdated", e.name, err)
		}
	}
}

// EmitRoleDeleted notifies all plugins that implement RoleDeleted.
func (r *Registry) EmitRoleDeleted(ctx context.Context, roleID id.RoleID) {
	for _, e := range r.roleDeleted {
		if err := e.hook.OnRoleDeleted(ctx, roleID); err != nil {
			r.logHookError("OnRoleDeleted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// User event emitters
// ──────────────────────────────────────────────────

// EmitUserCreated notifies all plugins that implement UserCreated.
func (r *Registry) EmitUserCreated(ctx context.Context, u *user.User) {
	for _, e := range r.userCreated {
		if err := e.hook.OnUserCreated(ctx, u); err != nil {
			r.logHookError("OnUserCreated", e.name, err)
		}
	}
}

// EmitUserUpdated notifies all plugins that implement UserUpdated.
func (r *Registry) EmitUserUpdated(ctx context.Context, userID id.UserID, u *user.Update) {
	for _, e := range r.userUpdated {
		if err := e.hook.OnUserUpdated(ctx, userID, u); err != nil {
			r.logHookError("OnUserUpdated", e.name, err)
		}
	}
}

// EmitUserDeleted notifies all plugins that implement UserDeleted.
func (r *Registry) EmitUserDeleted(ctx context.Context, userID id.UserID) {
	for _, e := range r.userDeleted {
		if err := e.hook.OnUserDeleted(ctx, userID); err != nil {
			r.logHookError("OnUserDeleted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Shutdown emitter
// ──────────────────────────────────────────────────

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Hook errors never reach the caller of the mutation.
func (r *Registry) logHookError(hook, pluginName string, err error) {
	r.logger.Warn("plugin hook error",
		slog.String("hook", hook),
		slog.String("plugin", pluginName),
		slog.String("error", err.Error()),
	)
}
