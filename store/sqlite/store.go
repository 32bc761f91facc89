// Package sqlite provides a SQLite implementation of the Radius composite
// store using grove ORM. It suits single-node deployments and tests that
// want a real SQL engine without a server.
//
// Reference lists are stored as JSON arrays of hex ids in TEXT columns.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/store"
	"github.com/xraph/radius/user"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a SQLite implementation of the composite Radius store.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// Open opens the database file named by dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	sdb := sqlitedriver.New()
	if err := sdb.Open(ctx, dsn); err != nil {
		return nil, fmt.Errorf("radius/sqlite: open: %w: %w", store.ErrUnavailable, err)
	}
	db, err := grove.Open(sdb)
	if err != nil {
		_ = sdb.Close()
		return nil, fmt.Errorf("radius/sqlite: open grove: %w", err)
	}
	return New(db), nil
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("radius/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return mapError("migrate", err)
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

// mapError sorts driver errors into the store taxonomy. SQLite reports
// unique violations only through the message text.
func mapError(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("radius/sqlite: %s: %w", op, store.ErrNotFound)
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("radius/sqlite: %s: %w", op, store.ErrConflict)
	default:
		return fmt.Errorf("radius/sqlite: %s: %w: %w", op, store.ErrUnavailable, err)
	}
}

func corrupt(op string, err error) error {
	return fmt.Errorf("radius/sqlite: %s: %w: %w", op, store.ErrUnavailable, err)
}

// column is one field of a partial update.
type column struct {
	name  string
	value any
}

// conflictClause overwrites only cols when the id already exists.
func conflictClause(cols []column) string {
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c.name + " = excluded." + c.name
	}
	return "(id) DO UPDATE SET " + strings.Join(sets, ", ")
}

// inPlaceholders renders one "?" per id for an IN list.
func inPlaceholders(ids []id.ID) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, v := range ids {
		marks[i] = "?"
		args[i] = v.String()
	}
	return "id IN (" + strings.Join(marks, ", ") + ")", args
}

// update applies cols to the row with id target. table is a typed nil model
// naming the table. With upsert set, row is inserted when target is missing;
// it must carry target's id, cols, and defaults for everything else. An
// empty cols is an existence check.
func (s *Store) update(ctx context.Context, table, row any, op string, target id.ID, cols []column, upsert bool) error {
	if len(cols) == 0 {
		n, err := s.sdb.NewSelect(table).Where("id = ?", target.String()).Count(ctx)
		if err != nil {
			return mapError(op, err)
		}
		if n == 0 {
			return fmt.Errorf("radius/sqlite: %s %s: %w", op, target, store.ErrNotFound)
		}
		return nil
	}

	if upsert {
		if _, err := s.sdb.NewInsert(row).OnConflict(conflictClause(cols)).Exec(ctx); err != nil {
			return mapError(op, err)
		}
		return nil
	}

	q := s.sdb.NewUpdate(table)
	for _, c := range cols {
		q = q.Set(c.name+" = ?", c.value)
	}
	res, err := q.Where("id = ?", target.String()).Exec(ctx)
	if err != nil {
		return mapError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("radius/sqlite: %s %s: %w", op, target, store.ErrNotFound)
	}
	return nil
}

func (s *Store) remove(ctx context.Context, table any, op string, target id.ID) error {
	res, err := s.sdb.NewDelete(table).Where("id = ?", target.String()).Exec(ctx)
	if err != nil {
		return mapError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("radius/sqlite: %s %s: %w", op, target, store.ErrNotFound)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Permission operations
// ──────────────────────────────────────────────────

func (s *Store) CreatePermission(ctx context.Context, p *permission.Permission) error {
	if _, err := s.sdb.NewInsert(permissionToModel(p)).Exec(ctx); err != nil {
		return mapError("create permission", err)
	}
	return nil
}

func (s *Store) GetPermission(ctx context.Context, permID id.PermissionID) (*permission.Permission, error) {
	op := "get permission " + permID.String()
	m := new(permissionModel)
	if err := s.sdb.NewSelect(m).Where("id = ?", permID.String()).Scan(ctx); err != nil {
		return nil, mapError(op, err)
	}
	p, err := permissionFromModel(m)
	if err != nil {
		return nil, corrupt(op, err)
	}
	return p, nil
}

func (s *Store) UpdatePermission(ctx context.Context, permID id.PermissionID, u *permission.Update, upsert bool) error {
	row := &permissionModel{ID: permID.String()}
	var cols []column
	if u.Name != nil {
		row.Name = *u.Name
		cols = append(cols, column{"name", *u.Name})
	}
	if u.Description != nil {
		row.Description = *u.Description
		cols = append(cols, column{"description", *u.Description})
	}
	return s.update(ctx, (*permissionModel)(nil), row, "update permission", permID, cols, upsert)
}

func (s *Store) DeletePermission(ctx context.Context, permID id.PermissionID) error {
	return s.remove(ctx, (*permissionModel)(nil), "delete permission", permID)
}

func (s *Store) ListPermissions(ctx context.Context) ([]*permission.Permission, error) {
	var models []permissionModel
	if err := s.sdb.NewSelect(&models).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, mapError("list permissions", err)
	}
	return permissionsFromModels(models)
}

func (s *Store) ListPermissionsByIDs(ctx context.Context, permIDs []id.PermissionID) ([]*permission.Permission, error) {
	if len(permIDs) == 0 {
		return []*permission.Permission{}, nil
	}
	where, args := inPlaceholders(permIDs)
	var models []permissionModel
	if err := s.sdb.NewSelect(&models).Where(where, args...).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, mapError("list permissions", err)
	}
	return permissionsFromModels(models)
}

func permissionsFromModels(models []permissionModel) ([]*permission.Permission, error) {
	result := make([]*permission.Permission, 0, len(models))
	for i := range models {
		p, err := permissionFromModel(&models[i])
		if err != nil {
			return nil, corrupt("list permissions", err)
		}
		result = append(result, p)
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Role operations
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(ctx context.Context, r *role.Role) error {
	m, err := roleToModel(r)
	if err != nil {
		return fmt.Errorf("radius/sqlite: create role: %w", err)
	}
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return mapError("create role", err)
	}
	return nil
}

func (s *Store) GetRole(ctx context.Context, roleID id.RoleID) (*role.Role, error) {
	op := "get role " + roleID.String()
	m := new(roleModel)
	if err := s.sdb.NewSelect(m).Where("id = ?", roleID.String()).Scan(ctx); err != nil {
		return nil, mapError(op, err)
	}
	r, err := roleFromModel(m)
	if err != nil {
		return nil, corrupt(op, err)
	}
	return r, nil
}

func (s *Store) UpdateRole(ctx context.Context, roleID id.RoleID, u *role.Update, upsert bool) error {
	row := &role.Role{ID: roleID}
	var cols []column
	if u.Name != nil {
		row.Name = *u.Name
		cols = append(cols, column{"name", *u.Name})
	}
	if u.Description != nil {
		row.Description = *u.Description
		cols = append(cols, column{"description", *u.Description})
	}
	if u.Permissions != nil {
		row.Permissions = *u.Permissions
		perms, err := encodeRefs(*u.Permissions)
		if err != nil {
			return fmt.Errorf("radius/sqlite: update role: %w", err)
		}
		cols = append(cols, column{"permissions", perms})
	}
	m, err := roleToModel(row)
	if err != nil {
		return fmt.Errorf("radius/sqlite: update role: %w", err)
	}
	return s.update(ctx, (*roleModel)(nil), m, "update role", roleID, cols, upsert)
}

func (s *Store) DeleteRole(ctx context.Context, roleID id.RoleID) error {
	return s.remove(ctx, (*roleModel)(nil), "delete role", roleID)
}

func (s *Store) ListRoles(ctx context.Context) ([]*role.Role, error) {
	var models []roleModel
	if err := s.sdb.NewSelect(&models).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, mapError("list roles", err)
	}
	return rolesFromModels(models)
}

func (s *Store) ListRolesByIDs(ctx context.Context, roleIDs []id.RoleID) ([]*role.Role, error) {
	if len(roleIDs) == 0 {
		return []*role.Role{}, nil
	}
	where, args := inPlaceholders(roleIDs)
	var models []roleModel
	if err := s.sdb.NewSelect(&models).Where(where, args...).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, mapError("list roles", err)
	}
	return rolesFromModels(models)
}

func rolesFromModels(models []roleModel) ([]*role.Role, error) {
	result := make([]*role.Role, 0, len(models))
	for i := range models {
		r, err := roleFromModel(&models[i])
		if err != nil {
			return nil, corrupt("list roles", err)
		}
		result = append(result, r)
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// User operations
// ──────────────────────────────────────────────────

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	m, err := userToModel(u)
	if err != nil {
		return fmt.Errorf("radius/sqlite: create user: %w", err)
	}
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return mapError("create user", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	op := "get user " + userID.String()
	m := new(userModel)
	if err := s.sdb.NewSelect(m).Where("id = ?", userID.String()).Scan(ctx); err != nil {
		return nil, mapError(op, err)
	}
	u, err := userFromModel(m)
	if err != nil {
		return nil, corrupt(op, err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, userID id.UserID, u *user.Update, upsert bool) error {
	row := &user.User{ID: userID}
	var cols []column
	if u.Name != nil {
		row.Name = *u.Name
		cols = append(cols, column{"name", *u.Name})
	}
	if u.Roles != nil {
		row.Roles = *u.Roles
		roles, err := encodeRefs(*u.Roles)
		if err != nil {
			return fmt.Errorf("radius/sqlite: update user: %w", err)
		}
		cols = append(cols, column{"roles", roles})
	}
	m, err := userToModel(row)
	if err != nil {
		return fmt.Errorf("radius/sqlite: update user: %w", err)
	}
	return s.update(ctx, (*userModel)(nil), m, "update user", userID, cols, upsert)
}

func (s *Store) DeleteUser(ctx context.Context, userID id.UserID) error {
	return s.remove(ctx, (*userModel)(nil), "delete user", userID)
}

func (s *Store) ListUsers(ctx context.Context) ([]*user.User, error) {
	var models []userModel
	if err := s.sdb.NewSelect(&models).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, mapError("list users", err)
	}
	result := make([]*user.User, 0, len(models))
	for i := range models {
		u, err := userFromModel(&models[i])
		if err != nil {
			return nil, corrupt("list users", err)
		}
		result = append(result, u)
	}
	return result, nil
}
