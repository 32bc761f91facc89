// Package memory provides an in-memory implementation of the Radius composite
// store. It is intended for testing and development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/store"
	"github.com/xraph/radius/user"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a thread-safe in-memory store for all Radius entities.
// Each collection keeps a name index that plays the role of a unique index.
type Store struct {
	mu sync.RWMutex

	permissions     map[string]*permission.Permission
	permissionNames map[string]string // name -> id
	roles           map[string]*role.Role
	roleNames       map[string]string
	users           map[string]*user.User
	userNames       map[string]string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		permissions:     make(map[string]*permission.Permission),
		permissionNames: make(map[string]string),
		roles:           make(map[string]*role.Role),
		roleNames:       make(map[string]string),
		users:           make(map[string]*user.User),
		userNames:       make(map[string]string),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Permission Store
// ──────────────────────────────────────────────────

func (s *Store) CreatePermission(_ context.Context, p *permission.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := p.ID.String()
	if _, ok := s.permissions[key]; ok {
		return fmt.Errorf("permission %s: %w", p.ID, store.ErrConflict)
	}
	if err := claimName(s.permissionNames, p.Name, key); err != nil {
		return fmt.Errorf("permission %q: %w", p.Name, err)
	}
	s.permissions[key] = copyPermission(p)
	return nil
}

func (s *Store) GetPermission(_ context.Context, permID id.PermissionID) (*permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.permissions[permID.String()]
	if !ok {
		return nil, fmt.Errorf("permission %s: %w", permID, store.ErrNotFound)
	}
	return copyPermission(p), nil
}

func (s *Store) UpdatePermission(_ context.Context, permID id.PermissionID, u *permission.Update, upsert bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := permID.String()
	current, ok := s.permissions[key]
	if !ok {
		if !upsert {
			return fmt.Errorf("permission %s: %w", permID, store.ErrNotFound)
		}
		current = &permission.Permission{ID: permID}
	}
	next := copyPermission(current)
	u.Apply(next)
	if err := renameKey(s.permissionNames, current.Name, next.Name, key, ok); err != nil {
		return fmt.Errorf("permission %q: %w", next.Name, err)
	}
	s.permissions[key] = next
	return nil
}

func (s *Store) DeletePermission(_ context.Context, permID id.PermissionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := permID.String()
	p, ok := s.permissions[key]
	if !ok {
		return fmt.Errorf("permission %s: %w", permID, store.ErrNotFound)
	}
	delete(s.permissionNames, p.Name)
	delete(s.permissions, key)
	return nil
}

func (s *Store) ListPermissions(_ context.Context) ([]*permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*permission.Permission, 0, len(s.permissions))
	for _, k := range sortedKeys(s.permissions) {
		result = append(result, copyPermission(s.permissions[k]))
	}
	return result, nil
}

func (s *Store) ListPermissionsByIDs(_ context.Context, permIDs []id.PermissionID) ([]*permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*permission.Permission, 0, len(permIDs))
	seen := make(map[string]struct{}, len(permIDs))
	for _, pid := range permIDs {
		key := pid.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if p, ok := s.permissions[key]; ok {
			result = append(result, copyPermission(p))
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Role Store
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(_ context.Context, r *role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.ID.String()
	if _, ok := s.roles[key]; ok {
		return fmt.Errorf("role %s: %w", r.ID, store.ErrConflict)
	}
	if err := claimName(s.roleNames, r.Name, key); err != nil {
		return fmt.Errorf("role %q: %w", r.Name, err)
	}
	s.roles[key] = copyRole(r)
	return nil
}

func (s *Store) GetRole(_ context.Context, roleID id.RoleID) (*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[roleID.String()]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", roleID, store.ErrNotFound)
	}
	return copyRole(r), nil
}

func (s *Store) UpdateRole(_ context.Context, roleID id.RoleID, u *role.Update, upsert bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := roleID.String()
	current, ok := s.roles[key]
	if !ok {
		if !upsert {
			return fmt.Errorf("role %s: %w", roleID, store.ErrNotFound)
		}
		current = &role.Role{ID: roleID, Permissions: []id.PermissionID{}}
	}
	next := copyRole(current)
	u.Apply(next)
	if err := renameKey(s.roleNames, current.Name, next.Name, key, ok); err != nil {
		return fmt.Errorf("role %q: %w", next.Name, err)
	}
	s.roles[key] = next
	return nil
}

func (s *Store) DeleteRole(_ context.Context, roleID id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := roleID.String()
	r, ok := s.roles[key]
	if !ok {
		return fmt.Errorf("role %s: %w", roleID, store.ErrNotFound)
	}
	delete(s.roleNames, r.Name)
	delete(s.roles, key)
	return nil
}

func (s *Store) ListRoles(_ context.Context) ([]*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*role.Role, 0, len(s.roles))
	for _, k := range sortedKeys(s.roles) {
		result = append(result, copyRole(s.roles[k]))
	}
	return result, nil
}

func (s *Store) ListRolesByIDs(_ context.Context, roleIDs []id.RoleID) ([]*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*role.Role, 0, len(roleIDs))
	seen := make(map[string]struct{}, len(roleIDs))
	for _, rid := range roleIDs {
		key := rid.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if r, ok := s.roles[key]; ok {
			result = append(result, copyRole(r))
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// User Store
// ──────────────────────────────────────────────────

func (s *Store) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := u.ID.String()
	if _, ok := s.users[key]; ok {
		return fmt.Errorf("user %s: %w", u.ID, store.ErrConflict)
	}
	if err := claimName(s.userNames, u.Name, key); err != nil {
		return fmt.Errorf("user %q: %w", u.Name, err)
	}
	s.users[key] = copyUser(u)
	return nil
}

func (s *Store) GetUser(_ context.Context, userID id.UserID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID.String()]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
	}
	return copyUser(u), nil
}

func (s *Store) UpdateUser(_ context.Context, userID id.UserID, upd *user.Update, upsert bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID.String()
	current, ok := s.users[key]
	if !ok {
		if !upsert {
			return fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
		}
		current = &user.User{ID: userID, Roles: []id.RoleID{}}
	}
	next := copyUser(current)
	upd.Apply(next)
	if err := renameKey(s.userNames, current.Name, next.Name, key, ok); err != nil {
		return fmt.Errorf("user %q: %w", next.Name, err)
	}
	s.users[key] = next
	return nil
}

func (s *Store) DeleteUser(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID.String()
	u, ok := s.users[key]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
	}
	delete(s.userNames, u.Name)
	delete(s.users, key)
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*user.User, 0, len(s.users))
	for _, k := range sortedKeys(s.users) {
		result = append(result, copyUser(s.users[k]))
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// claimName reserves name for key in a collection's name index.
func claimName(names map[string]string, name, key string) error {
	if owner, taken := names[name]; taken && owner != key {
		return store.ErrConflict
	}
	names[name] = key
	return nil
}

// renameKey moves key's entry in the name index from oldName to newName.
// existed is false when the record is being inserted by an upsert.
func renameKey(names map[string]string, oldName, newName, key string, existed bool) error {
	if existed && oldName == newName {
		return nil
	}
	if err := claimName(names, newName, key); err != nil {
		return err
	}
	if existed {
		delete(names, oldName)
	}
	return nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyPermission(p *permission.Permission) *permission.Permission {
	c := *p
	return &c
}

func copyRole(r *role.Role) *role.Role {
	c := *r
	if r.Permissions != nil {
		c.Permissions = make([]id.PermissionID, len(r.Permissions))
		copy(c.Permissions, r.Permissions)
	}
	return &c
}

func copyUser(u *user.User) *user.User {
	c := *u
	if u.Roles != nil {
		c.Roles = make([]id.RoleID, len(u.Roles))
		copy(c.Roles, u.Roles)
	}
	return &c
}
