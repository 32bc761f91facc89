package radius

import (
	"context"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/user"
)

// resolveRoles replaces each role's permission references with the
// permission records. One batch lookup serves all roles. References that
// match no record are dropped; order and repeats are kept.
func (s *Service) resolveRoles(ctx context.Context, roles []*role.Role) ([]*role.Detail, error) {
	var refs []id.PermissionID
	for _, r := range roles {
		refs = append(refs, r.Permissions...)
	}

	index := make(map[id.PermissionID]*permission.Permission)
	if refs = distinct(refs); len(refs) > 0 {
		perms, err := s.store.ListPermissionsByIDs(ctx, refs)
		if err != nil {
			return nil, err
		}
		for _, p := range perms {
			index[p.ID] = p
		}
	}

	details := make([]*role.Detail, len(roles))
	for n, r := range roles {
		details[n] = &role.Detail{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Permissions: pick(index, r.Permissions),
		}
	}
	return details, nil
}

// resolveUsers resolves users two levels deep: roles, then the roles'
// permissions. The dangling rule applies at both levels.
func (s *Service) resolveUsers(ctx context.Context, users []*user.User) ([]*user.Detail, error) {
	var refs []id.RoleID
	for _, u := range users {
		refs = append(refs, u.Roles...)
	}

	index := make(map[id.RoleID]*role.Detail)
	if refs = distinct(refs); len(refs) > 0 {
		roles, err := s.store.ListRolesByIDs(ctx, refs)
		if err != nil {
			return nil, err
		}
		resolved, err := s.resolveRoles(ctx, roles)
		if err != nil {
			return nil, err
		}
		for _, r := range resolved {
			index[r.ID] = r
		}
	}

	details := make([]*user.Detail, len(users))
	for n, u := range users {
		details[n] = &user.Detail{
			ID:    u.ID,
			Name:  u.Name,
			Roles: pick(index, u.Roles),
		}
	}
	return details, nil
}

// pick maps refs through index, skipping refs with no entry.
func pick[T any](index map[id.ID]*T, refs []id.ID) []*T {
	out := make([]*T, 0, len(refs))
	for _, ref := range refs {
		if v, ok := index[ref]; ok {
			out = append(out, v)
		}
	}
	return out
}

func distinct(ids []id.ID) []id.ID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[id.ID]struct{}, len(ids))
	out := make([]id.ID, 0, len(ids))
	for _, i := range ids {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}
