package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"

	_ "github.com/xraph/grove/drivers/sqlitedriver/sqlitemigrate" // registers the sqlite migrate executor
)

// Migrations is the grove migration group for the Radius store (SQLite).
var Migrations = migrate.NewGroup("radius")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_permissions",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS radius_permissions (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',

    CONSTRAINT radius_permissions_name_key UNIQUE (name)
)`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS radius_permissions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_roles",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS radius_roles (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    permissions TEXT NOT NULL DEFAULT '[]',

    CONSTRAINT radius_roles_name_key UNIQUE (name)
)`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS radius_roles`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_users",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS radius_users (
    id    TEXT PRIMARY KEY,
    name  TEXT NOT NULL,
    roles TEXT NOT NULL DEFAULT '[]',

    CONSTRAINT radius_users_name_key UNIQUE (name)
)`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS radius_users`)
				return err
			},
		},
	)
}
