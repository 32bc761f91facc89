// Command radius serves the Radius RBAC API over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/xraph/radius"
	"github.com/xraph/radius/plugin/audit"
	"github.com/xraph/radius/plugin/metrics"
	"github.com/xraph/radius/store"
	"github.com/xraph/radius/store/memory"
	"github.com/xraph/radius/store/mongo"
	"github.com/xraph/radius/store/postgres"
	"github.com/xraph/radius/store/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := NewLogger(cfg, os.Stdout)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("radius exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("close store", slog.Any("error", err))
		}
	}()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	upsert := cfg.UpsertOnUpdate
	svc, err := radius.New(
		radius.WithStore(st),
		radius.WithLogger(logger),
		radius.WithConfig(radius.Config{UpsertOnUpdate: &upsert}),
		radius.WithPlugin(metrics.New(registry)),
		radius.WithPlugin(audit.New(logger)),
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: NewRouter(RouterParams{
			Logger:   logger,
			Config:   cfg,
			Service:  svc,
			Registry: registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server",
			slog.String("addr", server.Addr),
			slog.String("driver", cfg.DBDriver),
			slog.String("prefix", cfg.APIPrefix),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		svc.Shutdown(shutdownCtx)
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// openStore connects the backend named by DB_DRIVER.
func openStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.DBDriver {
	case driverMemory:
		return memory.New(), nil
	case driverPostgres:
		return postgres.Connect(ctx, cfg.PGDSN, cfg.DBTimeout)
	case driverSQLite:
		return sqlite.Open(ctx, cfg.SQLiteDSN)
	default:
		return mongo.Connect(ctx, cfg.MongoURI(), cfg.DBName, cfg.DBTimeout)
	}
}
