// Package mongo implements the Radius composite store on MongoDB through
// the grove ORM.
//
// Each entity lives in its own collection keyed by ObjectID with a unique
// index on name. Reference lists are stored as arrays of ObjectIDs.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/store"
	"github.com/xraph/radius/user"
)

// Collection name constants.
const (
	colPermissions = "permissions"
	colRoles       = "roles"
	colUsers       = "users"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation of the composite Radius store.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Connect dials uri, selects database and returns a store on it. timeout
// bounds the initial connection check.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	mdb := mongodriver.New()
	if err := mdb.Open(ctx, uri, mongodriver.WithDatabase(database)); err != nil {
		return nil, fmt.Errorf("radius/mongo: connect: %w: %w", store.ErrUnavailable, err)
	}
	db, err := grove.Open(mdb)
	if err != nil {
		_ = mdb.Close()
		return nil, fmt.Errorf("radius/mongo: open grove: %w", err)
	}
	return New(db), nil
}

// Migrate creates the unique name index on every collection.
func (s *Store) Migrate(ctx context.Context) error {
	for _, col := range []string{colPermissions, colRoles, colUsers} {
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, []mongod.IndexModel{
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		})
		if err != nil {
			return mapError("migrate "+col+" indexes", err)
		}
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return mapError("ping", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// mapError sorts driver errors into the store taxonomy.
func mapError(op string, err error) error {
	switch {
	case errors.Is(err, mongod.ErrNoDocuments):
		return fmt.Errorf("radius/mongo: %s: %w", op, store.ErrNotFound)
	case mongod.IsDuplicateKeyError(err):
		return fmt.Errorf("radius/mongo: %s: %w", op, store.ErrConflict)
	default:
		return fmt.Errorf("radius/mongo: %s: %w: %w", op, store.ErrUnavailable, err)
	}
}

func byID(i id.ID) bson.M { return bson.M{"_id": i.ObjectID()} }

func byIDs(ids []id.ID) bson.M {
	return bson.M{"_id": bson.M{"$in": toObjectIDs(ids)}}
}

var sortByID = bson.D{{Key: "_id", Value: 1}}

// update runs a partial update against one document of model's collection.
// An empty set only checks that the document exists.
func (s *Store) update(ctx context.Context, model any, op string, target id.ID, set bson.M, refField string, upsert bool) error {
	if len(set) == 0 {
		if err := s.mdb.NewFind(model).Filter(byID(target)).Scan(ctx); err != nil {
			return mapError(op, err)
		}
		return nil
	}

	q := s.mdb.NewUpdate(model).
		Filter(byID(target)).
		SetUpdate(updateDoc(set, refField))
	if upsert {
		q = q.Upsert()
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return mapError(op, err)
	}
	if res.MatchedCount() == 0 && res.UpsertedCount() == 0 {
		return fmt.Errorf("radius/mongo: %s %s: %w", op, target, store.ErrNotFound)
	}
	return nil
}

func (s *Store) remove(ctx context.Context, model any, op string, target id.ID) error {
	res, err := s.mdb.NewDelete(model).Filter(byID(target)).Exec(ctx)
	if err != nil {
		return mapError(op, err)
	}
	if res.DeletedCount() == 0 {
		return fmt.Errorf("radius/mongo: %s %s: %w", op, target, store.ErrNotFound)
	}
	return nil
}

func findAll[M any](ctx context.Context, mdb *mongodriver.MongoDB, op string, filter bson.M) ([]M, error) {
	models := []M{}
	if err := mdb.NewFind(&models).Filter(filter).Sort(sortByID).Scan(ctx); err != nil {
		return nil, mapError(op, err)
	}
	return models, nil
}

// ──────────────────────────────────────────────────
// Permission operations
// ──────────────────────────────────────────────────

func (s *Store) CreatePermission(ctx context.Context, p *permission.Permission) error {
	if _, err := s.mdb.NewInsert(permissionToModel(p)).Exec(ctx); err != nil {
		return mapError("create permission", err)
	}
	return nil
}

func (s *Store) GetPermission(ctx context.Context, permID id.PermissionID) (*permission.Permission, error) {
	var m permissionModel
	if err := s.mdb.NewFind(&m).Filter(byID(permID)).Scan(ctx); err != nil {
		return nil, mapError("get permission "+permID.String(), err)
	}
	return permissionFromModel(&m), nil
}

func (s *Store) UpdatePermission(ctx context.Context, permID id.PermissionID, u *permission.Update, upsert bool) error {
	return s.update(ctx, &permissionModel{}, "update permission", permID, permissionSet(u), "", upsert)
}

func (s *Store) DeletePermission(ctx context.Context, permID id.PermissionID) error {
	return s.remove(ctx, (*permissionModel)(nil), "delete permission", permID)
}

func (s *Store) ListPermissions(ctx context.Context) ([]*permission.Permission, error) {
	return s.listPermissions(ctx, bson.M{})
}

func (s *Store) ListPermissionsByIDs(ctx context.Context, permIDs []id.PermissionID) ([]*permission.Permission, error) {
	if len(permIDs) == 0 {
		return []*permission.Permission{}, nil
	}
	return s.listPermissions(ctx, byIDs(permIDs))
}

func (s *Store) listPermissions(ctx context.Context, filter bson.M) ([]*permission.Permission, error) {
	models, err := findAll[permissionModel](ctx, s.mdb, "list permissions", filter)
	if err != nil {
		return nil, err
	}
	result := make([]*permission.Permission, len(models))
	for i := range models {
		result[i] = permissionFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Role operations
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(ctx context.Context, r *role.Role) error {
	if _, err := s.mdb.NewInsert(roleToModel(r)).Exec(ctx); err != nil {
		return mapError("create role", err)
	}
	return nil
}

func (s *Store) GetRole(ctx context.Context, roleID id.RoleID) (*role.Role, error) {
	var m roleModel
	if err := s.mdb.NewFind(&m).Filter(byID(roleID)).Scan(ctx); err != nil {
		return nil, mapError("get role "+roleID.String(), err)
	}
	return roleFromModel(&m), nil
}

func (s *Store) UpdateRole(ctx context.Context, roleID id.RoleID, u *role.Update, upsert bool) error {
	return s.update(ctx, &roleModel{}, "update role", roleID, roleSet(u), "permissions", upsert)
}

func (s *Store) DeleteRole(ctx context.Context, roleID id.RoleID) error {
	return s.remove(ctx, (*roleModel)(nil), "delete role", roleID)
}

func (s *Store) ListRoles(ctx context.Context) ([]*role.Role, error) {
	return s.listRoles(ctx, bson.M{})
}

func (s *Store) ListRolesByIDs(ctx context.Context, roleIDs []id.RoleID) ([]*role.Role, error) {
	if len(roleIDs) == 0 {
		return []*role.Role{}, nil
	}
	return s.listRoles(ctx, byIDs(roleIDs))
}

func (s *Store) listRoles(ctx context.Context, filter bson.M) ([]*role.Role, error) {
	models, err := findAll[roleModel](ctx, s.mdb, "list roles", filter)
	if err != nil {
		return nil, err
	}
	result := make([]*role.Role, len(models))
	for i := range models {
		result[i] = roleFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// User operations
// ──────────────────────────────────────────────────

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	if _, err := s.mdb.NewInsert(userToModel(u)).Exec(ctx); err != nil {
		return mapError("create user", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	var m userModel
	if err := s.mdb.NewFind(&m).Filter(byID(userID)).Scan(ctx); err != nil {
		return nil, mapError("get user "+userID.String(), err)
	}
	return userFromModel(&m), nil
}

func (s *Store) UpdateUser(ctx context.Context, userID id.UserID, u *user.Update, upsert bool) error {
	return s.update(ctx, &userModel{}, "update user", userID, userSet(u), "roles", upsert)
}

func (s *Store) DeleteUser(ctx context.Context, userID id.UserID) error {
	return s.remove(ctx, (*userModel)(nil), "delete user", userID)
}

func (s *Store) ListUsers(ctx context.Context) ([]*user.User, error) {
	models, err := findAll[userModel](ctx, s.mdb, "list users", bson.M{})
	if err != nil {
		return nil, err
	}
	result := make([]*user.User, len(models))
	for i := range models {
		result[i] = userFromModel(&models[i])
	}
	return result, nil
}
