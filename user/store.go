package user

import (
	"context"

	"github.com/xraph/radius/id"
)

// Store defines persistence operations for users.
type Store interface {
	// CreateUser persists a new user. Role references are not checked.
	CreateUser(ctx context.Context, u *User) error

	// GetUser retrieves a user by ID with its raw role references.
	GetUser(ctx context.Context, userID id.UserID) (*User, error)

	// UpdateUser sets the update's fields on the user. When upsert is true
	// and no user has userID, one is inserted.
	UpdateUser(ctx context.Context, userID id.UserID, u *Update, upsert bool) error

	// DeleteUser removes a user by ID.
	DeleteUser(ctx context.Context, userID id.UserID) error

	// ListUsers returns every user ordered by ID.
	ListUsers(ctx context.Context) ([]*User, error)
}
