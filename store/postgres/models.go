package postgres

import (
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
	ID              string   `grove:"id,pk"`
	Name            string   `grove:"name,notnull"`
	Description     string   `grove:"description,notnull"`
	Permissions     []string `grove:"permissions,type:text[],notnull"`
}

func roleToModel(r *role.Role) *roleModel {
	return &roleModel{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		Permissions: refsToArray(r.Permissions),
	}
}

func roleFromModel(m *roleModel) (*role.Role, error) {
	rid, err := id.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	perms, err := id.ParseAll(m.Permissions)
	if err != nil {
		return nil, err
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
	ID              string   `grove:"id,pk"`
	Name            string   `grove:"name,notnull"`
	Roles           []string `grove:"roles,type:text[],notnull"`
}

func userToModel(u *user.User) *userModel {
	return &userModel{
		ID:    u.ID.String(),
		Name:  u.Name,
		Roles: refsToArray(u.Roles),
	}
}

func userFromModel(m *userModel) (*user.User, error) {
	uid, err := id.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	roles, err := id.ParseAll(m.Roles)
	if err != nil {
		return nil, err
	}
	return &user.User{
		ID:    uid,
		Name:  m.Name,
		Roles: roles,
	}, nil
}

// refsToArray never returns nil so the NOT NULL column receives '{}'
// rather than NULL.
func refsToArray(ids []id.ID) []string {
	return id.Strings(ids)
}
