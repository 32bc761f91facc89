package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/store"
	"github.com/xraph/radius/store/storetest"
)

// testDSN opens a fresh database file under the test's temp dir. The busy
// timeout lets concurrent writers queue on the file lock.
func testDSN(t *testing.T) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "radius.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	s, err := Open(ctx, testDSN(t))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return newTestStore(t) })
}

func TestMigrateTwice(t *testing.T) {
	s := newTestStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), store.ErrNotFound},
		{"unique violation", errors.New("constraint failed: UNIQUE constraint failed: radius_roles.name (2067)"), store.ErrConflict},
		{"locked", errors.New("database is locked (5) (SQLITE_BUSY)"), store.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError("op", tt.err)
			if !errors.Is(got, tt.want) {
				t.Fatalf("mapError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRefsRoundTrip(t *testing.T) {
	a, b := id.New(), id.New()

	raw, err := encodeRefs([]id.ID{a, b, a})
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeRefs(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != a {
		t.Fatalf("refs reordered or deduplicated: %v", got)
	}

	empty, err := encodeRefs(nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty != "[]" {
		t.Fatalf("nil refs encoded as %q, want []", empty)
	}
}

func TestDecodeRefsRejectsMalformed(t *testing.T) {
	if _, err := decodeRefs(`["not-an-id"]`); err == nil {
		t.Fatal("expected malformed id to fail")
	}
	if _, err := decodeRefs(`{`); err == nil {
		t.Fatal("expected malformed JSON to fail")
	}
}
