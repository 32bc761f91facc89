// Package permission defines the Permission entity and its store interface.
package permission

import (
	"github.com/xraph/radius/id"
)

// Permission is a named capability that roles group together.
// It is the leaf of the assignment graph and holds no references.
type Permission struct {
	ID          id.PermissionID `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
}

// Update carries the fields of a partial update. Nil fields are left as stored.
type Update struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsEmpty reports whether the update sets no fields.
func (u *Update) IsEmpty() bool {
	return u == nil || (u.Name == nil && u.Description == nil)
}

// Apply writes the update's fields onto p.
func (u *Update) Apply(p *Permission) {
	if u == nil {
		return
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
}
