// Package id defines the identifier type shared by every Radius entity.
//
// Identifiers are 12-byte document ids rendered as 24 lowercase hex
// characters (e.g. "65a1f0c2e4b0a1b2c3d4e5f6"). They are generated by the
// service on create, or supplied by the caller on an upserting update.
package id

import (
	"database/sql/driver"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ID is the primary identifier type for all Radius entities.
//
// The zero value is Nil. A parsed all-zero id ("000000000000000000000000")
// is a valid, non-nil identifier.
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	inner bson.ObjectID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new unique ID.
func New() ID {
	return ID{inner: bson.NewObjectID(), valid: true}
}

// Parse parses a 24-character hex string into an ID.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	oid, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: oid, valid: true}, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// ParseAll parses every string in ss, failing on the first malformed one.
func ParseAll(ss []string) ([]ID, error) {
	ids := make([]ID, 0, len(ss))
	for _, s := range ss {
		parsed, err := Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, parsed)
	}

	return ids, nil
}

// FromObjectID wraps a document-store ObjectID.
func FromObjectID(oid bson.ObjectID) ID {
	return ID{inner: oid, valid: true}
}

// ──────────────────────────────────────────────────
// Type aliases
// ──────────────────────────────────────────────────

// PermissionID identifies a permission.
type PermissionID = ID

// RoleID identifies a role.
type RoleID = ID

// UserID identifies a user.
type UserID = ID

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the hex representation. Returns an empty string for Nil.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.Hex()
}

// ObjectID returns the underlying document-store ObjectID.
func (i ID) ObjectID() bson.ObjectID {
	return i.inner
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.inner.Hex(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		return i.UnmarshalText([]byte(v))
	case []byte:
		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}

// Strings returns the hex form of every id, in order.
func Strings(ids []ID) []string {
	out := make([]string, len(ids))
	for n, i := range ids {
		out[n] = i.String()
	}

	return out
}
