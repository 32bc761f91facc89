package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/xraph/grove"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/user"
)

// ──────────────────────────────────────────────────
// Permission model
// ──────────────────────────────────────────────────

type permissionModel struct {
	grove.BaseModel `grove:"table:radius_permissions"`
	ID              string `grove:"id,pk"`
	Name            string `grove:"name,notnull"`
	Description     string `grove:"description,notnull"`
}

func permissionToModel(p *permission.Permission) *permissionModel {
	return &permissionModel{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
	}
}

func permissionFromModel(m *permissionModel) (*permission.Permission, error) {
	pid, err := id.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	return &permission.Permission{
		ID:          pid,
		Name:        m.Name,
		Description: m.Description,
	}, nil
}

// ──────────────────────────────────────────────────
// Role model
// ──────────────────────────────────────────────────

type roleModel struct {
	grove.BaseModel `grove:"table:radius_roles"`
	ID              string `grove:"id,pk"`
	Name            string `grove:"name,notnull"`
	Description     string `grove:"description,notnull"`
	Permissions     string `grove:"permissions,notnull"` // JSON text
}

func roleToModel(r *role.Role) (*roleModel, error) {
	perms, err := encodeRefs(r.Permissions)
	if err != nil {
		return nil, fmt.Errorf("marshal role permissions: %w", err)
	}
	return &roleModel{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		Permissions: perms,
	}, nil
}

func roleFromModel(m *roleModel) (*role.Role, error) {
	rid, err := id.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	perms, err := decodeRefs(m.Permissions)
	if err != nil {
		return nil, fmt.Errorf("unmarshal role permissions: %w", err)
	}
	return &role.Role{
		ID:          rid,
		Name:        m.Name,
		Description: m.Description,
		Permissions: perms,
	}, nil
}

// ──────────────────────────────────────────────────
// User model
// ──────────────────────────────────────────────────

type userModel struct {
	grove.BaseModel `grove:"table:radius_users"`
	ID              string `grove:"id,pk"`
	Name            string `grove:"name,notnull"`
	Roles           string `grove:"roles,notnull"` // JSON text
}

func userToModel(u *user.User) (*userModel, error) {
	roles, err := encodeRefs(u.Roles)
	if err != nil {
		return nil, fmt.Errorf("marshal user roles: %w", err)
	}
	return &userModel{
		ID:    u.ID.String(),
		Name:  u.Name,
		Roles: roles,
	}, nil
}

func userFromModel(m *userModel) (*user.User, error) {
	uid, err := id.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	roles, err := decodeRefs(m.Roles)
	if err != nil {
		return nil, fmt.Errorf("unmarshal user roles: %w", err)
	}
	return &user.User{
		ID:    uid,
		Name:  m.Name,
		Roles: roles,
	}, nil
}

// encodeRefs stores ids as a JSON array of hex strings. A nil slice is
// stored as [].
func encodeRefs(ids []id.ID) (string, error) {
	raw, err := json.Marshal(id.Strings(ids))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeRefs(raw string) ([]id.ID, error) {
	if raw == "" {
		return []id.ID{}, nil
	}
	var refs []string
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		return nil, err
	}
	return id.ParseAll(refs)
}
