// Package extension mounts Radius inside a Forge application.
package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/radius"
	"github.com/xraph/radius/api"
	"github.com/xraph/radius/plugin"
	"github.com/xraph/radius/store"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "radius"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "RBAC management: permissions, roles and users"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Radius as a Forge extension.
type Extension struct {
	config      Config
	svc         *radius.Service
	apiHandler  *api.API
	logger      *slog.Logger
	serviceOpts []radius.Option
	plugins     []plugin.Plugin
}

// New creates a Radius Forge extension with the given options.
func New(opts ...ExtOption) *Extension {
	e := &Extension{config: DefaultConfig()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the extension name.
func (e *Extension) Name() string { return ExtensionName }

// Description returns the extension description.
func (e *Extension) Description() string { return ExtensionDescription }

// Version returns the extension version.
func (e *Extension) Version() string { return ExtensionVersion }

// Dependencies returns the list of extension names this extension depends on.
func (e *Extension) Dependencies() []string { return []string{} }

// Service returns the underlying Radius service.
func (e *Extension) Service() *radius.Service { return e.svc }

// API returns the API handler.
func (e *Extension) API() *api.API { return e.apiHandler }

// Register implements [forge.Extension]. It builds the service, registers
// it in the DI container, and optionally registers HTTP routes.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.init(fapp); err != nil {
		return err
	}

	if err := vessel.Provide(fapp.Container(), func() (*radius.Service, error) {
		return e.svc, nil
	}); err != nil {
		return fmt.Errorf("radius: register service in container: %w", err)
	}

	return nil
}

func (e *Extension) init(fapp forge.App) error {
	opts := []radius.Option{radius.WithLogger(e.loggerOrDefault())}

	// Resolve store from DI container; option-provided stores override it.
	if s, err := forge.Inject[store.Store](fapp.Container()); err == nil {
		opts = append(opts, radius.WithStore(s))
	}

	svc, err := e.build(opts...)
	if err != nil {
		return err
	}
	e.svc = svc
	e.apiHandler = api.New(svc, fapp.Router(), e.config.BasePath)

	if !e.config.DisableRoutes {
		if err := e.apiHandler.RegisterRoutes(fapp.Router()); err != nil {
			return fmt.Errorf("radius: register routes: %w", err)
		}
	}

	return nil
}

// build creates the service from base followed by the configured options.
func (e *Extension) build(base ...radius.Option) (*radius.Service, error) {
	opts := make([]radius.Option, 0, len(base)+len(e.serviceOpts)+len(e.plugins)+1)
	opts = append(opts, base...)
	if e.config.UpsertOnUpdate != nil {
		opts = append(opts, radius.WithConfig(radius.Config{UpsertOnUpdate: e.config.UpsertOnUpdate}))
	}
	opts = append(opts, e.serviceOpts...)
	for _, x := range e.plugins {
		opts = append(opts, radius.WithPlugin(x))
	}

	svc, err := radius.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("radius: create service: %w", err)
	}
	return svc, nil
}

func (e *Extension) loggerOrDefault() *slog.Logger {
	if e.logger == nil {
		return slog.Default()
	}
	return e.logger
}

// Start runs migrations unless disabled.
func (e *Extension) Start(ctx context.Context) error {
	if e.svc == nil {
		return errors.New("radius: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.svc.Store().Migrate(ctx); err != nil {
			return fmt.Errorf("radius: migration failed: %w", err)
		}
	}
	return nil
}

// Stop notifies plugins of shutdown. The store belongs to whoever created it
// and is left open.
func (e *Extension) Stop(ctx context.Context) error {
	if e.svc == nil {
		return nil
	}
	e.svc.Shutdown(ctx)
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.svc == nil {
		return errors.New("radius: extension not initialized")
	}
	return e.svc.Ping(ctx)
}

// Handler returns the HTTP handler for all API routes.
func (e *Extension) Handler() http.Handler {
	if e.apiHandler == nil {
		return http.NotFoundHandler()
	}
	return e.apiHandler.Handler()
}

// RegisterRoutes registers all radius API routes into a Forge router.
func (e *Extension) RegisterRoutes(router forge.Router) error {
	if e.apiHandler != nil {
		return e.apiHandler.RegisterRoutes(router)
	}
	return nil
}
