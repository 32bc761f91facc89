package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3000 || cfg.Addr() != ":3000" {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.APIPrefix != "/api/v1" {
		t.Errorf("prefix = %q", cfg.APIPrefix)
	}
	if cfg.CORSDomain != "*" {
		t.Errorf("cors = %q", cfg.CORSDomain)
	}
	if cfg.RequestSizeBytes != 1_000_000 {
		t.Errorf("request size = %d", cfg.RequestSizeBytes)
	}
	if cfg.DBDriver != driverMongo || cfg.MongoURI() != "mongodb://localhost:27017" || cfg.DBName != "radius" {
		t.Errorf("db = %s %s %s", cfg.DBDriver, cfg.MongoURI(), cfg.DBName)
	}
	if !cfg.UpsertOnUpdate {
		t.Error("upsert should default on")
	}
	if cfg.DBTimeout != 10*time.Second || cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("timeouts = %s %s", cfg.DBTimeout, cfg.ShutdownTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("REQ_SIZE_LIMIT", "2MiB")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_URI", "mongodb://db.internal:27018")
	t.Setenv("UPSERT_ON_UPDATE", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr() != ":8081" {
		t.Errorf("addr = %q", cfg.Addr())
	}
	if cfg.RequestSizeBytes != 2<<20 {
		t.Errorf("request size = %d", cfg.RequestSizeBytes)
	}
	if cfg.DBDriver != driverPostgres {
		t.Errorf("driver = %q", cfg.DBDriver)
	}
	if cfg.MongoURI() != "mongodb://db.internal:27018" {
		t.Errorf("uri = %q", cfg.MongoURI())
	}
	if cfg.UpsertOnUpdate {
		t.Error("upsert should be off")
	}
}

func TestSQLiteDriverOpensStore(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_DSN", "file:"+filepath.Join(t.TempDir(), "radius.db"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBDriver != driverSQLite {
		t.Fatalf("driver = %q", cfg.DBDriver)
	}

	ctx := context.Background()
	s, err := openStore(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()
	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown driver", "DB_DRIVER", "cassandra"},
		{"bad size", "REQ_SIZE_LIMIT", "lots"},
		{"bad port", "PORT", "70000"},
		{"bad duration", "DB_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("%s=%q accepted", tt.key, tt.value)
			}
		})
	}
}
