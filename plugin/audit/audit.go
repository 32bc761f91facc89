// Package audit is a Radius plugin that writes one structured log line per
// successful mutation.
package audit

import (
	"context"
	"log/slog"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/plugin"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/user"
)

var (
	_ plugin.PermissionCreated = (*Plugin)(nil)
	_ plugin.UserDeleted       = (*Plugin)(nil)
	_ plugin.Shutdown          = (*Plugin)(nil)
)

// Plugin logs mutations at Info level.
type Plugin struct {
	logger *slog.Logger
}

// New returns an audit plugin writing to logger, or slog.Default when nil.
func New(logger *slog.Logger) *Plugin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Plugin{logger: logger.With(slog.String("component", "audit"))}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return "audit" }

func (p *Plugin) log(ctx context.Context, msg, entity string, entityID id.ID, attrs ...slog.Attr) error {
	attrs = append([]slog.Attr{
		slog.String("entity", entity),
		slog.String("id", entityID.String()),
	}, attrs...)
	p.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
	return nil
}

// changed lists the names of the fields an update wrote.
func changed(fields map[string]bool) []string {
	var out []string
	for _, name := range []string{"name", "description", "permissions", "roles"} {
		if fields[name] {
			out = append(out, name)
		}
	}
	return out
}

func (p *Plugin) OnPermissionCreated(ctx context.Context, perm *permission.Permission) error {
	return p.log(ctx, "entity created", "permission", perm.ID, slog.String("name", perm.Name))
}

func (p *Plugin) OnPermissionUpdated(ctx context.Context, permID id.PermissionID, u *permission.Update) error {
	fields := changed(map[string]bool{"name": u.Name != nil, "description": u.Description != nil})
	return p.log(ctx, "entity updated", "permission", permID, slog.Any("fields", fields))
}

func (p *Plugin) OnPermissionDeleted(ctx context.Context, permID id.PermissionID) error {
	return p.log(ctx, "entity deleted", "permission", permID)
}

func (p *Plugin) OnRoleCreated(ctx context.Context, r *role.Role) error {
	return p.log(ctx, "entity created", "role", r.ID,
		slog.String("name", r.Name),
		slog.Int("permissions", len(r.Permissions)),
	)
}

func (p *Plugin) OnRoleUpdated(ctx context.Context, roleID id.RoleID, u *role.Update) error {
	fields := changed(map[string]bool{
		"name":        u.Name != nil,
		"description": u.Description != nil,
		"permissions": u.Permissions != nil,
	})
	return p.log(ctx, "entity updated", "role", roleID, slog.Any("fields", fields))
}

func (p *Plugin) OnRoleDeleted(ctx context.Context, roleID id.RoleID) error {
	return p.log(ctx, "entity deleted", "role", roleID)
}

func (p *Plugin) OnUserCreated(ctx context.Context, u *user.User) error {
	return p.log(ctx, "entity created", "user", u.ID,
		slog.String("name", u.Name),
		slog.Int("roles", len(u.Roles)),
	)
}

func (p *Plugin) OnUserUpdated(ctx context.Context, userID id.UserID, u *user.Update) error {
	fields := changed(map[string]bool{"name": u.Name != nil, "roles": u.Roles != nil})
	return p.log(ctx, "entity updated", "user", userID, slog.Any("fields", fields))
}

func (p *Plugin) OnUserDeleted(ctx context.Context, userID id.UserID) error {
	return p.log(ctx, "entity deleted", "user", userID)
}

// OnShutdown implements plugin.Shutdown.
func (p *Plugin) OnShutdown(ctx context.Context) error {
	p.logger.InfoContext(ctx, "radius shutting down")
	return nil
}
