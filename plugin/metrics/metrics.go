// Package metrics is a Radius plugin that counts entity mutations with
// Prometheus collectors.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/plugin"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/user"
)

// Entity and event label values.
const (
	EntityPermission = "permission"
	EntityRole       = "role"
	EntityUser       = "user"

	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

var (
	_ plugin.PermissionCreated = (*Plugin)(nil)
	_ plugin.PermissionUpdated = (*Plugin)(nil)
	_ plugin.PermissionDeleted = (*Plugin)(nil)
	_ plugin.RoleCreated       = (*Plugin)(nil)
	_ plugin.RoleUpdated       = (*Plugin)(nil)
	_ plugin.RoleDeleted       = (*Plugin)(nil)
	_ plugin.UserCreated       = (*Plugin)(nil)
	_ plugin.UserUpdated       = (*Plugin)(nil)
	_ plugin.UserDeleted       = (*Plugin)(nil)
)

// Plugin records one counter increment per successful mutation.
type Plugin struct {
	events *prometheus.CounterVec
}

// New registers the collectors against registerer. A nil registerer uses
// the Prometheus default.
func New(registerer prometheus.Registerer) *Plugin {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "radius_entity_events_total",
		Help: "Successful entity mutations partitioned by entity and event.",
	}, []string{"entity", "event"})
	registerer.MustRegister(events)
	return &Plugin{events: events}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return "metrics" }

// Events exposes the underlying counter vector.
func (p *Plugin) Events() *prometheus.CounterVec { return p.events }

func (p *Plugin) inc(entity, event string) error {
	p.events.WithLabelValues(entity, event).Inc()
	return nil
}

func (p *Plugin) OnPermissionCreated(context.Context, *permission.Permission) error {
	return p.inc(EntityPermission, EventCreated)
}

func (p *Plugin) OnPermissionUpdated(context.Context, id.PermissionID, *permission.Update) error {
	return p.inc(EntityPermission, EventUpdated)
}

func (p *Plugin) OnPermissionDeleted(context.Context, id.PermissionID) error {
	return p.inc(EntityPermission, EventDeleted)
}

func (p *Plugin) OnRoleCreated(context.Context, *role.Role) error {
	return p.inc(EntityRole, EventCreated)
}

func (p *Plugin) OnRoleUpdated(context.Context, id.RoleID, *role.Update) error {
	return p.inc(EntityRole, EventUpdated)
}

func (p *Plugin) OnRoleDeleted(context.Context, id.RoleID) error {
	return p.inc(EntityRole, EventDeleted)
}

func (p *Plugin) OnUserCreated(context.Context, *user.User) error {
	return p.inc(EntityUser, EventCreated)
}

func (p *Plugin) OnUserUpdated(context.Context, id.UserID, *user.Update) error {
	return p.inc(EntityUser, EventUpdated)
}

func (p *Plugin) OnUserDeleted(context.Context, id.UserID) error {
	return p.inc(EntityUser, EventDeleted)
}
