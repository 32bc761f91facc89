// Package store defines the aggregate persistence interface. Each entity
// package (permission, role, user) defines its own store interface; the
// composite Store composes them all.
// Backends: MongoDB, Postgres, and Memory.
package store

import (
	"context"
	"errors"

	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/user"
)

// Store is the aggregate persistence interface.
// A single backend (mongo, postgres, memory) implements all of them.
type Store interface {
	permission.Store
	role.Store
	user.Store

	// Migrate creates the collections' unique name indexes (or tables).
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}

// Backends wrap these sentinels so callers can match with errors.Is.
var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates the unique name index.
	ErrConflict = errors.New("name already exists")

	// ErrUnavailable is returned when the storage medium is unreachable or
	// fails for any reason other than the two above.
	ErrUnavailable = errors.New("storage unavailable")
)
