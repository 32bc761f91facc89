// Package role defines the Role entity, its resolved view and its store
// interface.
package role

import (
	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
)

// Role groups permissions. Permissions holds weak references: the IDs are
// stored as given and may name permissions that no longer exist.
type Role struct {
	ID          id.RoleID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Permissions []id.PermissionID `json:"permissions"`
}

// Detail is a role with its permission references resolved.
type Detail struct {
	ID          id.RoleID                `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Permissions []*permission.Permission `json:"permissions"`
}

// Update carries the fields of a partial update. Nil fields are left as stored.
type Update struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Permissions *[]id.PermissionID `json:"permissions,omitempty"`
}

// IsEmpty reports whether the update sets no fields.
func (u *Update) IsEmpty() bool {
	return u == nil || (u.Name == nil && u.Description == nil && u.Permissions == nil)
}

// Apply writes the update's fields onto r.
func (u *Update) Apply(r *Role) {
	if u == nil {
		return
	}
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Permissions != nil {
		r.Permissions = append([]id.PermissionID(nil), (*u.Permissions)...)
	}
}
