package extension

import (
	"log/slog"

	"github.com/xraph/radius"
	"github.com/xraph/radius/plugin"
	"github.com/xraph/radius/store"
)

// ExtOption configures the Radius Forge extension.
type ExtOption func(*Extension)

// WithStore sets the composite permission/role/user store. It takes
// precedence over any store.Store already provided in the Forge container;
// without it Register fails unless the container holds one.
func WithStore(s store.Store) ExtOption {
	return func(e *Extension) {
		e.serviceOpts = append(e.serviceOpts, radius.WithStore(s))
	}
}

// WithConfig replaces the extension configuration wholesale. An empty
// BasePath mounts the routes at the router root; use DefaultConfig as the
// starting point to keep "/api/v1".
func WithConfig(cfg Config) ExtOption {
	return func(e *Extension) {
		e.config = cfg
	}
}

// WithServiceOptions appends radius.Service options. They apply after the
// container store and the configured UpsertOnUpdate, so they win.
func WithServiceOptions(opts ...radius.Option) ExtOption {
	return func(e *Extension) {
		e.serviceOpts = append(e.serviceOpts, opts...)
	}
}

// WithPlugin registers a plugin notified after successful permission,
// role and user writes and on shutdown.
func WithPlugin(x plugin.Plugin) ExtOption {
	return func(e *Extension) {
		e.plugins = append(e.plugins, x)
	}
}

// WithLogger sets the logger handed to the service. Defaults to slog.Default.
func WithLogger(l *slog.Logger) ExtOption {
	return func(e *Extension) {
		e.logger = l
	}
}

// WithDisableRoutes skips mounting the /permissions, /roles and /users routes
// on the Forge router. The service is still provided in the container.
func WithDisableRoutes() ExtOption {
	return func(e *Extension) {
		e.config.DisableRoutes = true
	}
}

// WithDisableMigrate stops Start from migrating the store schema.
func WithDisableMigrate() ExtOption {
	return func(e *Extension) {
		e.config.DisableMigrate = true
	}
}
