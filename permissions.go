package radius

import (
	"context"
	"fmt"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
)

// ListPermissions returns every permission.
func (s *Service) ListPermissions(ctx context.Context) ([]*permission.Permission, error) {
	perms, err := s.store.ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("radius: list permissions: %w", err)
	}
	return perms, nil
}

// GetPermission returns the permission with the given ID.
func (s *Service) GetPermission(ctx context.Context, permID id.PermissionID) (*permission.Permission, error) {
	p, err := s.store.GetPermission(ctx, permID)
	if err != nil {
		return nil, fmt.Errorf("radius: get permission: %w", err)
	}
	return p, nil
}

// CreatePermission stores a new permission under a fresh ID and returns it.
func (s *Service) CreatePermission(ctx context.Context, in *permission.Permission) (*permission.Permission, error) {
	if in == nil {
		return nil, fmt.Errorf("radius: create permission: %w", ErrNameRequired)
	}
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("radius: create permission: %w", err)
	}

	p := &permission.Permission{
		ID:          id.New(),
		Name:        name,
		Description: in.Description,
	}
	if err := s.store.CreatePermission(ctx, p); err != nil {
		return nil, fmt.Errorf("radius: create permission: %w", err)
	}

	s.plugins.EmitPermissionCreated(ctx, p)
	return p, nil
}

// UpdatePermission sets the fields present in u. See Config.UpsertOnUpdate
// for the behavior when no permission has permID.
func (s *Service) UpdatePermission(ctx context.Context, permID id.PermissionID, u *permission.Update) error {
	var upd permission.Update
	if u != nil {
		upd = *u
	}
	name, err := normalizeNamePtr(upd.Name)
	if err != nil {
		return fmt.Errorf("radius: update permission: %w", err)
	}
	upd.Name = name

	if err := s.store.UpdatePermission(ctx, permID, &upd, s.upsertFor(upd.Name)); err != nil {
		return fmt.Errorf("radius: update permission: %w", s.missingOnUpdate(err))
	}

	s.plugins.EmitPermissionUpdated(ctx, permID, &upd)
	return nil
}

// DeletePermission removes a permission. Roles referencing it keep the
// reference; reads drop it.
func (s *Service) DeletePermission(ctx context.Context, permID id.PermissionID) error {
	if err := s.store.DeletePermission(ctx, permID); err != nil {
		return fmt.Errorf("radius: delete permission: %w", err)
	}

	s.plugins.EmitPermissionDeleted(ctx, permID)
	return nil
}
