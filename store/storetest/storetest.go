// Package storetest is a conformance suite every store.Store backend runs.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/store"
	"github.com/xraph/radius/user"
)

// Factory returns an empty, migrated store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

// Run executes the full suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"PermissionCRUD", testPermissionCRUD},
		{"PermissionDuplicateName", testPermissionDuplicateName},
		{"PermissionUpsert", testPermissionUpsert},
		{"MissingIDs", testMissingIDs},
		{"RoleReferencesStoredRaw", testRoleReferencesStoredRaw},
		{"RoleUpdateAndRename", testRoleUpdateAndRename},
		{"UserCRUD", testUserCRUD},
		{"ListByIDs", testListByIDs},
		{"ListOrderedByID", testListOrderedByID},
		{"DeleteDoesNotCascade", testDeleteDoesNotCascade},
		{"ConcurrentCreateSameName", testConcurrentCreateSameName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func strPtr(s string) *string { return &s }

func mustNotFound(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func mustConflict(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func testPermissionCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()
	p := &permission.Permission{ID: id.New(), Name: "reading", Description: "can read"}

	if err := s.CreatePermission(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPermission(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "reading" || got.Description != "can read" {
		t.Fatalf("unexpected permission %+v", got)
	}

	err = s.UpdatePermission(ctx, p.ID, &permission.Update{Description: strPtr("can read docs")}, false)
	if err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetPermission(ctx, p.ID)
	if got.Name != "reading" || got.Description != "can read docs" {
		t.Fatalf("partial update lost fields: %+v", got)
	}

	// An empty update only checks existence.
	if err := s.UpdatePermission(ctx, p.ID, &permission.Update{}, false); err != nil {
		t.Fatalf("empty update on existing record: %v", err)
	}

	list, err := s.ListPermissions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 permission, got %d", len(list))
	}

	if err := s.DeletePermission(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	_, err = s.GetPermission(ctx, p.ID)
	mustNotFound(t, err)
}

func testPermissionDuplicateName(t *testing.T, s store.Store) {
	ctx := context.Background()
	first := &permission.Permission{ID: id.New(), Name: "writing", Description: "original"}
	if err := s.CreatePermission(ctx, first); err != nil {
		t.Fatal(err)
	}

	err := s.CreatePermission(ctx, &permission.Permission{ID: id.New(), Name: "writing", Description: "other"})
	mustConflict(t, err)

	got, err := s.GetPermission(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "original" {
		t.Fatalf("original record modified: %+v", got)
	}

	second := &permission.Permission{ID: id.New(), Name: "deleting"}
	if err := s.CreatePermission(ctx, second); err != nil {
		t.Fatal(err)
	}
	err = s.UpdatePermission(ctx, second.ID, &permission.Update{Name: strPtr("writing")}, true)
	mustConflict(t, err)

	// The freed name becomes available after a rename.
	if err := s.UpdatePermission(ctx, first.ID, &permission.Update{Name: strPtr("writing2")}, false); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdatePermission(ctx, second.ID, &permission.Update{Name: strPtr("writing")}, false); err != nil {
		t.Fatalf("rename into freed name: %v", err)
	}
}

func testPermissionUpsert(t *testing.T, s store.Store) {
	ctx := context.Background()
	pid := id.New()

	err := s.UpdatePermission(ctx, pid, &permission.Update{Name: strPtr("upserted"), Description: strPtr("d")}, true)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPermission(ctx, pid)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != pid || got.Name != "upserted" || got.Description != "d" {
		t.Fatalf("unexpected upserted permission %+v", got)
	}

	err = s.UpdatePermission(ctx, id.New(), &permission.Update{Name: strPtr("never")}, false)
	mustNotFound(t, err)
}

func testMissingIDs(t *testing.T, s store.Store) {
	ctx := context.Background()
	missing := id.MustParse("000000000000000000000000")

	_, err := s.GetPermission(ctx, missing)
	mustNotFound(t, err)
	mustNotFound(t, s.DeletePermission(ctx, missing))

	_, err = s.GetRole(ctx, missing)
	mustNotFound(t, err)
	mustNotFound(t, s.DeleteRole(ctx, missing))
	mustNotFound(t, s.UpdateRole(ctx, missing, &role.Update{}, false))

	_, err = s.GetUser(ctx, missing)
	mustNotFound(t, err)
	mustNotFound(t, s.DeleteUser(ctx, missing))
	mustNotFound(t, s.UpdateUser(ctx, missing, &user.Update{}, false))
}

func testRoleReferencesStoredRaw(t *testing.T, s store.Store) {
	ctx := context.Background()
	p := &permission.Permission{ID: id.New(), Name: "reading"}
	if err := s.CreatePermission(ctx, p); err != nil {
		t.Fatal(err)
	}

	dangling := id.MustParse("000000000000000000000000")
	r := &role.Role{
		ID:          id.New(),
		Name:        "reader",
		Permissions: []id.PermissionID{p.ID, dangling, p.ID},
	}
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetRole(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Permissions) != 3 {
		t.Fatalf("expected 3 raw references, got %v", got.Permissions)
	}
	if got.Permissions[0] != p.ID || got.Permissions[1] != dangling || got.Permissions[2] != p.ID {
		t.Fatalf("references reordered or rewritten: %v", got.Permissions)
	}
}

func testRoleUpdateAndRename(t *testing.T, s store.Store) {
	ctx := context.Background()
	r := &role.Role{ID: id.New(), Name: "editor", Description: "edits"}
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}
	mustConflict(t, s.CreateRole(ctx, &role.Role{ID: id.New(), Name: "editor"}))

	perms := []id.PermissionID{id.New()}
	err := s.UpdateRole(ctx, r.ID, &role.Update{Name: strPtr("chief-editor"), Permissions: &perms}, true)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetRole(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "chief-editor" || got.Description != "edits" {
		t.Fatalf("unexpected role %+v", got)
	}
	if len(got.Permissions) != 1 || got.Permissions[0] != perms[0] {
		t.Fatalf("permissions not replaced: %v", got.Permissions)
	}

	empty := []id.PermissionID{}
	if err := s.UpdateRole(ctx, r.ID, &role.Update{Permissions: &empty}, false); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetRole(ctx, r.ID)
	if len(got.Permissions) != 0 {
		t.Fatalf("expected permissions cleared, got %v", got.Permissions)
	}

	// Upserted roles start with the payload only.
	rid := id.New()
	if err := s.UpdateRole(ctx, rid, &role.Update{Name: strPtr("fresh")}, true); err != nil {
		t.Fatal(err)
	}
	got, err = s.GetRole(ctx, rid)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "fresh" || len(got.Permissions) != 0 {
		t.Fatalf("unexpected upserted role %+v", got)
	}
}

func testUserCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()
	rid := id.New()
	u := &user.User{ID: id.New(), Name: "alice", Roles: []id.RoleID{rid}}

	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}
	mustConflict(t, s.CreateUser(ctx, &user.User{ID: id.New(), Name: "alice"}))

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "alice" || len(got.Roles) != 1 || got.Roles[0] != rid {
		t.Fatalf("unexpected user %+v", got)
	}

	if err := s.UpdateUser(ctx, u.ID, &user.Update{Name: strPtr("alice2")}, false); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetUser(ctx, u.ID)
	if got.Name != "alice2" || len(got.Roles) != 1 {
		t.Fatalf("unexpected user after update %+v", got)
	}

	uid := id.New()
	if err := s.UpdateUser(ctx, uid, &user.Update{Name: strPtr("bob")}, true); err != nil {
		t.Fatal(err)
	}
	list, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 users, got %d", len(list))
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	_, err = s.GetUser(ctx, u.ID)
	mustNotFound(t, err)
}

func testListByIDs(t *testing.T, s store.Store) {
	ctx := context.Background()
	p1 := &permission.Permission{ID: id.New(), Name: "p1"}
	p2 := &permission.Permission{ID: id.New(), Name: "p2"}
	for _, p := range []*permission.Permission{p1, p2} {
		if err := s.CreatePermission(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListPermissionsByIDs(ctx, []id.PermissionID{p2.ID, id.New(), p2.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != p2.ID {
		t.Fatalf("expected only p2, got %+v", got)
	}

	none, err := s.ListPermissionsByIDs(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty result, got %d", len(none))
	}

	r := &role.Role{ID: id.New(), Name: "r1"}
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}
	roles, err := s.ListRolesByIDs(ctx, []id.RoleID{id.New(), r.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 1 || roles[0].ID != r.ID {
		t.Fatalf("expected only r1, got %+v", roles)
	}
}

func testListOrderedByID(t *testing.T, s store.Store) {
	ctx := context.Background()
	ids := []id.PermissionID{
		id.MustParse("000000000000000000000003"),
		id.MustParse("000000000000000000000001"),
		id.MustParse("000000000000000000000002"),
	}
	for n, pid := range ids {
		p := &permission.Permission{ID: pid, Name: string(rune('a' + n))}
		if err := s.CreatePermission(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListPermissions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 permissions, got %d", len(list))
	}
	for n, want := range []string{"000000000000000000000001", "000000000000000000000002", "000000000000000000000003"} {
		if list[n].ID.String() != want {
			t.Fatalf("position %d: expected %s, got %s", n, want, list[n].ID)
		}
	}
}

func testDeleteDoesNotCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	p := &permission.Permission{ID: id.New(), Name: "reading"}
	r := &role.Role{ID: id.New(), Name: "reader", Permissions: []id.PermissionID{p.ID}}
	u := &user.User{ID: id.New(), Name: "carol", Roles: []id.RoleID{r.ID}}
	if err := s.CreatePermission(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}

	if err := s.DeletePermission(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteRole(ctx, r.ID); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Roles) != 1 || got.Roles[0] != r.ID {
		t.Fatalf("user references rewritten by delete: %v", got.Roles)
	}
}

func testConcurrentCreateSameName(t *testing.T, s store.Store) {
	ctx := context.Background()
	const workers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.CreatePermission(ctx, &permission.Permission{ID: id.New(), Name: "contended"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, store.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 || conflicts != workers-1 {
		t.Fatalf("expected 1 winner and %d conflicts, got %d and %d", workers-1, wins, conflicts)
	}
}
