package radius_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/radius"
	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/store/memory"
	"github.com/xraph/radius/user"
)

func newService(t *testing.T, opts ...radius.Option) *radius.Service {
	t.Helper()
	svc, err := radius.New(append([]radius.Option{radius.WithStore(memory.New())}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func strPtr(s string) *string { return &s }

func TestNewRequiresStore(t *testing.T) {
	if _, err := radius.New(); err == nil {
		t.Fatal("expected error without a store")
	}
}

func TestCreateAndGetPermission(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	p, err := svc.CreatePermission(ctx, &permission.Permission{Name: "  reading ", Description: "can read"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID.IsNil() {
		t.Fatal("expected a fresh ID")
	}

	got, err := svc.GetPermission(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "reading" {
		t.Fatalf("expected trimmed name, got %q", got.Name)
	}
}

func TestBlankNameRejected(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	if _, err := svc.CreatePermission(ctx, &permission.Permission{Name: "   "}); !errors.Is(err, radius.ErrNameRequired) {
		t.Fatalf("create: expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.CreateRole(ctx, &role.Role{}); !errors.Is(err, radius.ErrNameRequired) {
		t.Fatalf("create role: expected ErrNameRequired, got %v", err)
	}

	u, err := svc.CreateUser(ctx, &user.User{Name: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateUser(ctx, u.ID, &user.Update{Name: strPtr("")}); !errors.Is(err, radius.ErrNameRequired) {
		t.Fatalf("update: expected ErrNameRequired, got %v", err)
	}
}

func TestNilInputRejected(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	if _, err := svc.CreatePermission(ctx, nil); !errors.Is(err, radius.ErrNameRequired) {
		t.Fatalf("create permission: expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.CreateRole(ctx, nil); !errors.Is(err, radius.ErrNameRequired) {
		t.Fatalf("create role: expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.CreateUser(ctx, nil); !errors.Is(err, radius.ErrNameRequired) {
		t.Fatalf("create user: expected ErrNameRequired, got %v", err)
	}

	list, err := svc.ListPermissions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Fatalf("nil input stored a record: %v", list)
	}
}

func TestDuplicateNameConflict(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	orig, err := svc.CreateRole(ctx, &role.Role{Name: "reader", Description: "first"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateRole(ctx, &role.Role{Name: "reader", Description: "second"}); !errors.Is(err, radius.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	got, err := svc.GetRole(ctx, orig.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "first" {
		t.Fatalf("original modified: %+v", got)
	}
}

func TestUnknownID(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	missing := id.New()

	if _, err := svc.GetPermission(ctx, missing); !errors.Is(err, radius.ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetRole(ctx, missing); !errors.Is(err, radius.ErrNotFound) {
		t.Fatalf("get role: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetUser(ctx, missing); !errors.Is(err, radius.ErrNotFound) {
		t.Fatalf("get user: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteUser(ctx, missing); !errors.Is(err, radius.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUnknownIDUpserts(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	pid := id.New()

	if err := svc.UpdatePermission(ctx, pid, &permission.Update{Name: strPtr("writing")}); err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetPermission(ctx, pid)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "writing" {
		t.Fatalf("unexpected upserted permission %+v", got)
	}
}

func TestUpsertWithoutNameRejected(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	rid := id.New()

	err := svc.UpdateRole(ctx, rid, &role.Update{Description: strPtr("no name")})
	if !errors.Is(err, radius.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if errors.Is(err, radius.ErrNotFound) {
		t.Fatal("name-required fault must not also read as not found")
	}
	if _, err := svc.GetRole(ctx, rid); !errors.Is(err, radius.ErrNotFound) {
		t.Fatalf("nameless role was stored: %v", err)
	}
}

func TestUpsertPolicyOff(t *testing.T) {
	ctx := context.Background()
	off := false
	svc := newService(t, radius.WithConfig(radius.Config{UpsertOnUpdate: &off}))

	uid := id.New()
	if err := svc.UpdateUser(ctx, uid, &user.Update{Name: strPtr("bob")}); !errors.Is(err, radius.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetUser(ctx, uid); !errors.Is(err, radius.ErrNotFound) {
		t.Fatalf("user was inserted with policy off: %v", err)
	}
}

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	p, err := svc.CreatePermission(ctx, &permission.Permission{Name: "reading", Description: "can read"})
	if err != nil {
		t.Fatal(err)
	}
	r, err := svc.CreateRole(ctx, &role.Role{Name: "reader", Description: "reads", Permissions: []id.PermissionID{p.ID}})
	if err != nil {
		t.Fatal(err)
	}
	u, err := svc.CreateUser(ctx, &user.User{Name: "alice", Roles: []id.RoleID{r.ID}})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID || got.Name != "alice" || len(got.Roles) != 1 {
		t.Fatalf("unexpected user %+v", got)
	}
	gr := got.Roles[0]
	if gr.ID != r.ID || gr.Name != "reader" || gr.Description != "reads" || len(gr.Permissions) != 1 {
		t.Fatalf("unexpected role %+v", gr)
	}
	gp := gr.Permissions[0]
	if gp.ID != p.ID || gp.Name != "reading" || gp.Description != "can read" {
		t.Fatalf("unexpected permission %+v", gp)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || len(users[0].Roles) != 1 || len(users[0].Roles[0].Permissions) != 1 {
		t.Fatalf("unexpected list %+v", users)
	}
}

func TestDanglingReferenceDropped(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	r, err := svc.CreateRole(ctx, &role.Role{
		Name:        "ghost",
		Permissions: []id.PermissionID{id.MustParse("000000000000000000000000")},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetRole(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Permissions == nil || len(got.Permissions) != 0 {
		t.Fatalf("expected empty permission list, got %v", got.Permissions)
	}
}

func TestResolutionKeepsOrderAndDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	a, _ := svc.CreatePermission(ctx, &permission.Permission{Name: "a"})
	b, _ := svc.CreatePermission(ctx, &permission.Permission{Name: "b"})
	r, err := svc.CreateRole(ctx, &role.Role{
		Name:        "mixed",
		Permissions: []id.PermissionID{b.ID, id.New(), a.ID, b.ID},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetRole(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range got.Permissions {
		names = append(names, p.Name)
	}
	if len(names) != 3 || names[0] != "b" || names[1] != "a" || names[2] != "b" {
		t.Fatalf("unexpected resolution order %v", names)
	}
}

func TestDeleteDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	keep, _ := svc.CreatePermission(ctx, &permission.Permission{Name: "keep"})
	gone, _ := svc.CreatePermission(ctx, &permission.Permission{Name: "gone"})
	r, err := svc.CreateRole(ctx, &role.Role{Name: "r", Permissions: []id.PermissionID{keep.ID, gone.ID}})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeletePermission(ctx, gone.ID); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetRole(ctx, r.ID)
	if err != nil {
		t.Fatalf("role did not survive permission delete: %v", err)
	}
	if len(got.Permissions) != 1 || got.Permissions[0].ID != keep.ID {
		t.Fatalf("unexpected resolved permissions %+v", got.Permissions)
	}

	raw, err := svc.Store().GetRole(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw.Permissions) != 2 || raw.Permissions[1] != gone.ID {
		t.Fatalf("raw references changed: %v", raw.Permissions)
	}
}

func TestDeletedRoleDroppedFromUser(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	r, _ := svc.CreateRole(ctx, &role.Role{Name: "temp"})
	u, err := svc.CreateUser(ctx, &user.User{Name: "carol", Roles: []id.RoleID{r.ID}})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteRole(ctx, r.ID); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Roles) != 0 {
		t.Fatalf("expected no roles, got %+v", got.Roles)
	}
}

func TestCreateStoresEmptyReferences(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	r, err := svc.CreateRole(ctx, &role.Role{Name: "empty"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Permissions == nil {
		t.Fatal("expected empty, non-nil permission list")
	}
}

type recordingPlugin struct {
	created []string
	updated []id.ID
	deleted []id.ID
}

func (p *recordingPlugin) Name() string { return "recording" }

func (p *recordingPlugin) OnPermissionCreated(_ context.Context, perm *permission.Permission) error {
	p.created = append(p.created, perm.Name)
	return nil
}

func (p *recordingPlugin) OnPermissionUpdated(_ context.Context, permID id.PermissionID, _ *permission.Update) error {
	p.updated = append(p.updated, permID)
	return nil
}

func (p *recordingPlugin) OnPermissionDeleted(_ context.Context, permID id.PermissionID) error {
	p.deleted = append(p.deleted, permID)
	return nil
}

func TestPluginsNotifiedOnSuccessOnly(t *testing.T) {
	ctx := context.Background()
	rec := &recordingPlugin{}
	svc := newService(t, radius.WithPlugin(rec))

	p, err := svc.CreatePermission(ctx, &permission.Permission{Name: "reading"})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = svc.CreatePermission(ctx, &permission.Permission{Name: "reading"})
	if err := svc.UpdatePermission(ctx, p.ID, &permission.Update{Description: strPtr("x")}); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeletePermission(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	_ = svc.DeletePermission(ctx, p.ID)

	if len(rec.created) != 1 || len(rec.updated) != 1 || len(rec.deleted) != 1 {
		t.Fatalf("unexpected notifications %+v", rec)
	}
}
