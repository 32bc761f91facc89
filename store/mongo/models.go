package mongo

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/xraph/grove"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/user"
)

// ──────────────────────────────────────────────────
// Permission model
// ──────────────────────────────────────────────────

type permissionModel struct {
	grove.BaseModel `grove:"table:permissions"`
	ID              bson.ObjectID `grove:"id,pk"       bson:"_id"`
	Name            string        `grove:"name"        bson:"name"`
	Description     string        `grove:"description" bson:"description,omitempty"`
}

func permissionToModel(p *permission.Permission) *permissionModel {
	return &permissionModel{
		ID:          p.ID.ObjectID(),
		Name:        p.Name,
		Description: p.Description,
	}
}

func permissionFromModel(m *permissionModel) *permission.Permission {
	return &permission.Permission{
		ID:          id.FromObjectID(m.ID),
		Name:        m.Name,
		Description: m.Description,
	}
}

func permissionSet(u *permission.Update) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	return set
}

// ──────────────────────────────────────────────────
// Role model
// ──────────────────────────────────────────────────

type roleModel struct {
	grove.BaseModel `grove:"table:roles"`
	ID              bson.ObjectID   `grove:"id,pk"       bson:"_id"`
	Name            string          `grove:"name"        bson:"name"`
	Description     string          `grove:"description" bson:"description,omitempty"`
	Permissions     []bson.ObjectID `grove:"permissions" bson:"permissions"`
}

func roleToModel(r *role.Role) *roleModel {
	return &roleModel{
		ID:          r.ID.ObjectID(),
		Name:        r.Name,
		Description: r.Description,
		Permissions: toObjectIDs(r.Permissions),
	}
}

func roleFromModel(m *roleModel) *role.Role {
	return &role.Role{
		ID:          id.FromObjectID(m.ID),
		Name:        m.Name,
		Description: m.Description,
		Permissions: fromObjectIDs(m.Permissions),
	}
}

func roleSet(u *role.Update) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Permissions != nil {
		set["permissions"] = toObjectIDs(*u.Permissions)
	}
	return set
}

// ──────────────────────────────────────────────────
// User model
// ──────────────────────────────────────────────────

type userModel struct {
	grove.BaseModel `grove:"table:users"`
	ID              bson.ObjectID   `grove:"id,pk" bson:"_id"`
	Name            string          `grove:"name"  bson:"name"`
	Roles           []bson.ObjectID `grove:"roles" bson:"roles"`
}

func userToModel(u *user.User) *userModel {
	return &userModel{
		ID:    u.ID.ObjectID(),
		Name:  u.Name,
		Roles: toObjectIDs(u.Roles),
	}
}

func userFromModel(m *userModel) *user.User {
	return &user.User{
		ID:    id.FromObjectID(m.ID),
		Name:  m.Name,
		Roles: fromObjectIDs(m.Roles),
	}
}

func userSet(u *user.Update) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Roles != nil {
		set["roles"] = toObjectIDs(*u.Roles)
	}
	return set
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// updateDoc builds the update document for set. Reference fields that set
// leaves alone are initialised to an empty array when the update inserts,
// so upserted documents decode the same as created ones.
func updateDoc(set bson.M, refField string) bson.M {
	doc := bson.M{"$set": set}
	if refField == "" {
		return doc
	}
	if _, ok := set[refField]; ok {
		return doc
	}
	doc["$setOnInsert"] = bson.M{refField: bson.A{}}
	return doc
}

func toObjectIDs(ids []id.ID) []bson.ObjectID {
	out := make([]bson.ObjectID, len(ids))
	for i, v := range ids {
		out[i] = v.ObjectID()
	}
	return out
}

func fromObjectIDs(oids []bson.ObjectID) []id.ID {
	out := make([]id.ID, len(oids))
	for i, v := range oids {
		out[i] = id.FromObjectID(v)
	}
	return out
}
