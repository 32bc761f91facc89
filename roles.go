package radius

import (
	"context"
	"fmt"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/role"
)

// ListRoles returns every role with its permissions resolved.
func (s *Service) ListRoles(ctx context.Context) ([]*role.Detail, error) {
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("radius: list roles: %w", err)
	}
	details, err := s.resolveRoles(ctx, roles)
	if err != nil {
		return nil, fmt.Errorf("radius: list roles: %w", err)
	}
	return details, nil
}

// GetRole returns the role with the given ID, permissions resolved.
func (s *Service) GetRole(ctx context.Context, roleID id.RoleID) (*role.Detail, error) {
	r, err := s.store.GetRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("radius: get role: %w", err)
	}
	details, err := s.resolveRoles(ctx, []*role.Role{r})
	if err != nil {
		return nil, fmt.Errorf("radius: get role: %w", err)
	}
	return details[0], nil
}

// CreateRole stores a new role under a fresh ID and returns it. The
// permission references are stored as given.
func (s *Service) CreateRole(ctx context.Context, in *role.Role) (*role.Role, error) {
	if in == nil {
		return nil, fmt.Errorf("radius: create role: %w", ErrNameRequired)
	}
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("radius: create role: %w", err)
	}

	r := &role.Role{
		ID:          id.New(),
		Name:        name,
		Description: in.Description,
		Permissions: append([]id.PermissionID{}, in.Permissions...),
	}
	if err := s.store.CreateRole(ctx, r); err != nil {
		return nil, fmt.Errorf("radius: create role: %w", err)
	}

	s.plugins.EmitRoleCreated(ctx, r)
	return r, nil
}

// UpdateRole sets the fields present in u. See Config.UpsertOnUpdate for
// the behavior when no role has roleID.
func (s *Service) UpdateRole(ctx context.Context, roleID id.RoleID, u *role.Update) error {
	var upd role.Update
	if u != nil {
		upd = *u
	}
	name, err := normalizeNamePtr(upd.Name)
	if err != nil {
		return fmt.Errorf("radius: update role: %w", err)
	}
	upd.Name = name

	if err := s.store.UpdateRole(ctx, roleID, &upd, s.upsertFor(upd.Name)); err != nil {
		return fmt.Errorf("radius: update role: %w", s.missingOnUpdate(err))
	}

	s.plugins.EmitRoleUpdated(ctx, roleID, &upd)
	return nil
}

// DeleteRole removes a role. Users referencing it keep the reference;
// reads drop it.
func (s *Service) DeleteRole(ctx context.Context, roleID id.RoleID) error {
	if err := s.store.DeleteRole(ctx, roleID); err != nil {
		return fmt.Errorf("radius: delete role: %w", err)
	}

	s.plugins.EmitRoleDeleted(ctx, roleID)
	return nil
}
