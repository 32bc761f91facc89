package radius

import (
	"context"
	"fmt"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/user"
)

// ListUsers returns every user with roles and their permissions resolved.
func (s *Service) ListUsers(ctx context.Context) ([]*user.Detail, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("radius: list users: %w", err)
	}
	details, err := s.resolveUsers(ctx, users)
	if err != nil {
		return nil, fmt.Errorf("radius: list users: %w", err)
	}
	return details, nil
}

// GetUser returns the user with the given ID, fully resolved.
func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*user.Detail, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("radius: get user: %w", err)
	}
	details, err := s.resolveUsers(ctx, []*user.User{u})
	if err != nil {
		return nil, fmt.Errorf("radius: get user: %w", err)
	}
	return details[0], nil
}

// CreateUser stores a new user under a fresh ID and returns it. The role
// references are stored as given.
func (s *Service) CreateUser(ctx context.Context, in *user.User) (*user.User, error) {
	if in == nil {
		return nil, fmt.Errorf("radius: create user: %w", ErrNameRequired)
	}
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("radius: create user: %w", err)
	}

	u := &user.User{
		ID:    id.New(),
		Name:  name,
		Roles: append([]id.RoleID{}, in.Roles...),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("radius: create user: %w", err)
	}

	s.plugins.EmitUserCreated(ctx, u)
	return u, nil
}

// UpdateUser sets the fields present in u. See Config.UpsertOnUpdate for
// the behavior when no user has userID.
func (s *Service) UpdateUser(ctx context.Context, userID id.UserID, u *user.Update) error {
	var upd user.Update
	if u != nil {
		upd = *u
	}
	name, err := normalizeNamePtr(upd.Name)
	if err != nil {
		return fmt.Errorf("radius: update user: %w", err)
	}
	upd.Name = name

	if err := s.store.UpdateUser(ctx, userID, &upd, s.upsertFor(upd.Name)); err != nil {
		return fmt.Errorf("radius: update user: %w", s.missingOnUpdate(err))
	}

	s.plugins.EmitUserUpdated(ctx, userID, &upd)
	return nil
}

// DeleteUser removes a user.
func (s *Service) DeleteUser(ctx context.Context, userID id.UserID) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("radius: delete user: %w", err)
	}

	s.plugins.EmitUserDeleted(ctx, userID)
	return nil
}
