package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/user"
)

func strPtr(s string) *string { return &s }

func TestSetDocuments(t *testing.T) {
	pid := id.New()

	tests := []struct {
		name string
		set  bson.M
		keys []string
	}{
		{"empty permission update", permissionSet(&permission.Update{}), nil},
		{"permission name only", permissionSet(&permission.Update{Name: strPtr("x")}), []string{"name"}},
		{"permission both", permissionSet(&permission.Update{Name: strPtr("x"), Description: strPtr("")}), []string{"name", "description"}},
		{"role permissions cleared", roleSet(&role.Update{Permissions: &[]id.PermissionID{}}), []string{"permissions"}},
		{"role all", roleSet(&role.Update{Name: strPtr("r"), Description: strPtr("d"), Permissions: &[]id.PermissionID{pid}}), []string{"name", "description", "permissions"}},
		{"user roles", userSet(&user.Update{Roles: &[]id.RoleID{pid}}), []string{"roles"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.set) != len(tt.keys) {
				t.Fatalf("expected %d fields, got %v", len(tt.keys), tt.set)
			}
			for _, k := range tt.keys {
				if _, ok := tt.set[k]; !ok {
					t.Errorf("missing field %q in %v", k, tt.set)
				}
			}
		})
	}
}

func TestUpdateDocInitialisesReferences(t *testing.T) {
	doc := updateDoc(roleSet(&role.Update{Name: strPtr("r")}), "permissions")
	onInsert, ok := doc["$setOnInsert"].(bson.M)
	if len(doc) != 2 || doc["$set"] == nil || !ok {
		t.Fatalf("unexpected update doc %v", doc)
	}
	if refs, ok := onInsert["permissions"].(bson.A); !ok || len(refs) != 0 {
		t.Fatalf("upserted role must start with an empty permissions array: %v", onInsert)
	}

	doc = updateDoc(roleSet(&role.Update{Name: strPtr("r"), Permissions: &[]id.PermissionID{}}), "permissions")
	if len(doc) != 1 {
		t.Fatalf("$setOnInsert must not touch a field in $set: %v", doc)
	}

	doc = updateDoc(permissionSet(&permission.Update{Name: strPtr("p")}), "")
	if len(doc) != 1 {
		t.Fatalf("permissions carry no references: %v", doc)
	}
}

func TestModelRoundTrip(t *testing.T) {
	r := &role.Role{
		ID:          id.New(),
		Name:        "reader",
		Permissions: []id.PermissionID{id.MustParse("000000000000000000000000"), id.New()},
	}
	got := roleFromModel(roleToModel(r))
	if got.ID != r.ID || got.Name != r.Name || len(got.Permissions) != 2 || got.Permissions[0] != r.Permissions[0] {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	u := userFromModel(&userModel{ID: bson.NewObjectID(), Name: "alice"})
	if u.Roles == nil {
		t.Fatal("missing roles array should decode to an empty list")
	}
}
