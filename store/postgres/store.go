// Package postgres provides a PostgreSQL implementation of the Radius
// composite store using grove ORM with Go-based migrations.
//
// Identifiers are stored as their hex text. Reference lists are TEXT[]
// columns holding the referenced ids in order.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/store"
	"github.com/xraph/radius/user"
)

// uniqueViolation is the SQLSTATE for a unique index violation.
const uniqueViolation = "23505"

// orderByID sorts by the raw bytes of the hex id.
const orderByID = `id COLLATE "C"`

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a PostgreSQL implementation of the composite Radius store.
type Store struct {
	db   *grove.DB
	pgdb *pgdriver.PgDB
}

// New creates a new PostgreSQL store.
func New(db *grove.DB) *Store {
	return &Store{
		db:   db,
		pgdb: pgdriver.Unwrap(db),
	}
}

// Connect opens a pool for dsn and checks it is reachable. timeout bounds
// connection establishment.
func Connect(ctx context.Context, dsn string, timeout time.Duration) (*Store, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	pgdb := pgdriver.New()
	if err := pgdb.Open(ctx, dsn); err != nil {
		return nil, fmt.Errorf("radius/postgres: connect: %w: %w", store.ErrUnavailable, err)
	}
	if err := pgdb.Ping(ctx); err != nil {
		_ = pgdb.Close()
		return nil, fmt.Errorf("radius/postgres: connect: %w: %w", store.ErrUnavailable, err)
	}
	db, err := grove.Open(pgdb)
	if err != nil {
		_ = pgdb.Close()
		return nil, fmt.Errorf("radius/postgres: open grove: %w", err)
	}
	return New(db), nil
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pgdb)
	if err != nil {
		return fmt.Errorf("radius/postgres: create migration executor: %w", err)
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

// mapError sorts driver errors into the store taxonomy.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("radius/postgres: %s: %w", op, store.ErrNotFound)
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return fmt.Errorf("radius/postgres: %s: %w", op, store.ErrConflict)
	default:
		return fmt.Errorf("radius/postgres: %s: %w: %w", op, store.ErrUnavailable, err)
	}
}

func corrupt(op string, err error) error {
	return fmt.Errorf("radius/postgres: %s: %w: %w", op, store.ErrUnavailable, err)
}

// update writes cols of model onto the row with id target. cols must be
// listed in the model's field order. With upsert set, a missing row is
// inserted and columns not in cols take their defaults. An empty cols is
// an existence check.
func (s *Store) update(ctx context.Context, model any, op string, target id.ID, cols []string, upsert bool) error {
	if len(cols) == 0 {
		n, err := s.pgdb.NewSelect(model).Where("id = ?", target.String()).Count(ctx)
		if err != nil {
			return mapError(op, err)
		}
		if n == 0 {
			return fmt.Errorf("radius/postgres: %s %s: %w", op, target, store.ErrNotFound)
		}
		return nil
	}

	if upsert {
		if _, err := upsertQuery(s.pgdb, model, cols).Exec(ctx); err != nil {
			return mapError(op, err)
		}
		return nil
	}

	res, err := updateQuery(s.pgdb, model, target, cols).Exec(ctx)
	if err != nil {
		return mapError(op, err)
	}
	return affected(op, target, res)
}

// upsertQuery inserts the id and cols of model, overwriting only cols when
// the id already exists.
func upsertQuery(pgdb *pgdriver.PgDB, model any, cols []string) *pgdriver.InsertQuery {
	q := pgdb.NewInsert(model).
		Column(append([]string{"id"}, cols...)...).
		OnConflict("(id) DO UPDATE")
	for _, c := range cols {
		q = q.Set(c + " = EXCLUDED." + c)
	}
	return q
}

func updateQuery(pgdb *pgdriver.PgDB, model any, target id.ID, cols []string) *pgdriver.UpdateQuery {
	return pgdb.NewUpdate(model).
		Column(cols...).
		Where("id = ?", target.String())
}

func (s *Store) remove(ctx context.Context, model any, op string, target id.ID) error {
	res, err := s.pgdb.NewDelete(model).Where("id = ?", target.String()).Exec(ctx)
	if err != nil {
		return mapError(op, err)
	}
	return affected(op, target, res)
}

type rowsResult interface {
	RowsAffected() (int64, error)
}

func affected(op string, target id.ID, res rowsResult) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("radius/postgres: %s %s: %w", op, target, store.ErrNotFound)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Permission operations
// ──────────────────────────────────────────────────

func (s *Store) CreatePermission(ctx context.Context, p *permission.Permission) error {
	if _, err := s.pgdb.NewInsert(permissionToModel(p)).Exec(ctx); err != nil {
		return mapError("create permission", err)
	}
	return nil
}

func (s *Store) GetPermission(ctx context.Context, permID id.PermissionID) (*permission.Permission, error) {
	op := "get permission " + permID.String()
	m := new(permissionModel)
	if err := s.pgdb.NewSelect(m).Where("id = ?", permID.String()).Scan(ctx); err != nil {
		return nil, mapError(op, err)
	}
	p, err := permissionFromModel(m)
	if err != nil {
		return nil, corrupt(op, err)
	}
	return p, nil
}

func (s *Store) UpdatePermission(ctx context.Context, permID id.PermissionID, u *permission.Update, upsert bool) error {
	m := &permissionModel{ID: permID.String()}
	var cols []string
	if u.Name != nil {
		m.Name = *u.Name
		cols = append(cols, "name")
	}
	if u.Description != nil {
		m.Description = *u.Description
		cols = append(cols, "description")
	}
	return s.update(ctx, m, "update permission", permID, cols, upsert)
}

func (s *Store) DeletePermission(ctx context.Context, permID id.PermissionID) error {
	return s.remove(ctx, (*permissionModel)(nil), "delete permission", permID)
}

func (s *Store) ListPermissions(ctx context.Context) ([]*permission.Permission, error) {
	var models []permissionModel
	if err := s.pgdb.NewSelect(&models).OrderExpr(orderByID).Scan(ctx); err != nil {
		return nil, mapError("list permissions", err)
	}
	return permissionsFromModels(models)
}

func (s *Store) ListPermissionsByIDs(ctx context.Context, permIDs []id.PermissionID) ([]*permission.Permission, error) {
	if len(permIDs) == 0 {
		return []*permission.Permission{}, nil
	}
	var models []permissionModel
	err := s.pgdb.NewSelect(&models).
		Where("id = ANY(?)", id.Strings(permIDs)).
		OrderExpr(orderByID).
		Scan(ctx)
	if err != nil {
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
	if _, err := s.pgdb.NewInsert(roleToModel(r)).Exec(ctx); err != nil {
		return mapError("create role", err)
	}
	return nil
}

func (s *Store) GetRole(ctx context.Context, roleID id.RoleID) (*role.Role, error) {
	op := "get role " + roleID.String()
	m := new(roleModel)
	if err := s.pgdb.NewSelect(m).Where("id = ?", roleID.String()).Scan(ctx); err != nil {
		return nil, mapError(op, err)
	}
	r, err := roleFromModel(m)
	if err != nil {
		return nil, corrupt(op, err)
	}
	return r, nil
}

func (s *Store) UpdateRole(ctx context.Context, roleID id.RoleID, u *role.Update, upsert bool) error {
	m := &roleModel{ID: roleID.String()}
	var cols []string
	if u.Name != nil {
		m.Name = *u.Name
		cols = append(cols, "name")
	}
	if u.Description != nil {
		m.Description = *u.Description
		cols = append(cols, "description")
	}
	if u.Permissions != nil {
		m.Permissions = refsToArray(*u.Permissions)
		cols = append(cols, "permissions")
	}
	return s.update(ctx, m, "update role", roleID, cols, upsert)
}

func (s *Store) DeleteRole(ctx context.Context, roleID id.RoleID) error {
	return s.remove(ctx, (*roleModel)(nil), "delete role", roleID)
}

func (s *Store) ListRoles(ctx context.Context) ([]*role.Role, error) {
	var models []roleModel
	if err := s.pgdb.NewSelect(&models).OrderExpr(orderByID).Scan(ctx); err != nil {
		return nil, mapError("list roles", err)
	}
	return rolesFromModels(models)
}

func (s *Store) ListRolesByIDs(ctx context.Context, roleIDs []id.RoleID) ([]*role.Role, error) {
	if len(roleIDs) == 0 {
		return []*role.Role{}, nil
	}
	var models []roleModel
	err := s.pgdb.NewSelect(&models).
		Where("id = ANY(?)", id.Strings(roleIDs)).
		OrderExpr(orderByID).
		Scan(ctx)
	if err != nil {
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
	if _, err := s.pgdb.NewInsert(userToModel(u)).Exec(ctx); err != nil {
		return mapError("create user", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	op := "get user " + userID.String()
	m := new(userModel)
	if err := s.pgdb.NewSelect(m).Where("id = ?", userID.String()).Scan(ctx); err != nil {
		return nil, mapError(op, err)
	}
	u, err := userFromModel(m)
	if err != nil {
		return nil, corrupt(op, err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, userID id.UserID, u *user.Update, upsert bool) error {
	m := &userModel{ID: userID.String()}
	var cols []string
	if u.Name != nil {
		m.Name = *u.Name
		cols = append(cols, "name")
	}
	if u.Roles != nil {
		m.Roles = refsToArray(*u.Roles)
		cols = append(cols, "roles")
	}
	return s.update(ctx, m, "update user", userID, cols, upsert)
}

func (s *Store) DeleteUser(ctx context.Context, userID id.UserID) error {
	return s.remove(ctx, (*userModel)(nil), "delete user", userID)
}

func (s *Store) ListUsers(ctx context.Context) ([]*user.User, error) {
	var models []userModel
	if err := s.pgdb.NewSelect(&models).OrderExpr(orderByID).Scan(ctx); err != nil {
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
