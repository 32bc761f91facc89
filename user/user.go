// Package user defines the User entity, its resolved view and its store
// interface.
package user

import (
	"github.com/xraph/radius/id"
	"github.com/xraph/radius/role"
)

// User is a named principal holding weak references to roles.
type User struct {
	ID    id.UserID   `json:"id"`
	Name  string      `json:"name"`
	Roles []id.RoleID `json:"roles"`
}

// Detail is a user with roles, and the roles' permissions, resolved.
type Detail struct {
	ID    id.UserID      `json:"id"`
	Name  string         `json:"name"`
	Roles []*role.Detail `json:"roles"`
}

// Update carries the fields of a partial update. Nil fields are left as stored.
type Update struct {
	Name  *string      `json:"name,omitempty"`
	Roles *[]id.RoleID `json:"roles,omitempty"`
}

// IsEmpty reports whether the update sets no fields.
func (u *Update) IsEmpty() bool {
	return u == nil || (u.Name == nil && u.Roles == nil)
}

// Apply writes the update's fields onto usr.
func (u *Update) Apply(usr *User) {
	if u == nil {
		return
	}
	if u.Name != nil {
		usr.Name = *u.Name
	}
	if u.Roles != nil {
		usr.Roles = append([]id.RoleID(nil), (*u.Roles)...)
	}
}
