package radius

import (
	"errors"

	"github.com/xraph/radius/store"
)

var (
	// ErrNotFound is returned when no record has the requested ID.
	// Malformed IDs are reported the same way.
	ErrNotFound = store.ErrNotFound

	// ErrConflict is returned when a write would duplicate a name.
	ErrConflict = store.ErrConflict

	// ErrStorageUnavailable is returned when the backing store fails.
	ErrStorageUnavailable = store.ErrUnavailable

	// ErrNameRequired is returned when a write would leave a record without a name.
	ErrNameRequired = errors.New("radius: name is required")
)
