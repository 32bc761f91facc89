// Package radius manages role-based access control data: permissions,
// roles that group permissions, and users that hold roles.
//
// References between entities are weak. A role stores permission IDs and a
// user stores role IDs exactly as written; nothing checks that they exist
// and deletes never cascade. Reads resolve the references into nested
// records, dropping any that no longer point at a record.
//
//	svc, err := radius.New(radius.WithStore(memory.New()))
//	perm, err := svc.CreatePermission(ctx, &permission.Permission{Name: "reading"})
//	r, err := svc.CreateRole(ctx, &role.Role{Name: "reader", Permissions: []id.PermissionID{perm.ID}})
//	u, err := svc.CreateUser(ctx, &user.User{Name: "alice", Roles: []id.RoleID{r.ID}})
//	detail, err := svc.GetUser(ctx, u.ID) // alice → [reader → [reading]]
package radius

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xraph/radius/plugin"
	"github.com/xraph/radius/store"
)

// Service exposes the CRUD and query operations over the three entity
// stores. It holds no mutable state of its own and is safe for concurrent use.
type Service struct {
	store   store.Store
	plugins *plugin.Registry
	pending []plugin.Plugin
	logger  *slog.Logger
	config  Config
}

// New creates a new Radius service with the given options.
func New(opts ...Option) (*Service, error) {
	svc := &Service{
		logger: slog.Default(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.store == nil {
		return nil, errors.New("radius: store is required")
	}
	svc.plugins = plugin.NewRegistry(svc.logger)
	for _, x := range svc.pending {
		svc.plugins.Register(x)
	}
	svc.pending = nil
	return svc, nil
}

// Store returns the underlying composite store.
func (s *Service) Store() store.Store { return s.store }

// Plugins returns the plugin registry.
func (s *Service) Plugins() *plugin.Registry { return s.plugins }

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error { return s.store.Ping(ctx) }

// Shutdown notifies plugins that the service is stopping.
// It does not close the store.
func (s *Service) Shutdown(ctx context.Context) {
	s.plugins.EmitShutdown(ctx)
}

// normalizeName trims surrounding whitespace and rejects blank names.
func normalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrNameRequired
	}
	return trimmed, nil
}

// normalizeNamePtr applies normalizeName to an optional update field.
func normalizeNamePtr(name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}
	trimmed, err := normalizeName(*name)
	if err != nil {
		return nil, err
	}
	return &trimmed, nil
}

// upsertFor decides whether an update may insert. A record can only be
// inserted when the update names it.
func (s *Service) upsertFor(name *string) bool {
	return s.config.upsertOnUpdate() && name != nil
}

// missingOnUpdate converts a not-found result into the error reported to
// callers. Under the upsert policy the record would have been inserted had
// the update carried a name, so the fault is the missing name.
func (s *Service) missingOnUpdate(err error) error {
	if errors.Is(err, store.ErrNotFound) && s.config.upsertOnUpdate() {
		return fmt.Errorf("%w: no record to update and none can be created without a name", ErrNameRequired)
	}
	return err
}
