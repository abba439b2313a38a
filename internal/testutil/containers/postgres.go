//go:build integration

// Package containers starts throwaway dependencies for integration tests.
package containers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/xxc-git/zero2prod/internal/db/migrations"
	"github.com/xxc-git/zero2prod/pkg/db"
)

// PostgresContainer wraps a migrated PostgreSQL instance.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	Pool      *pgxpool.Pool
	Config    db.Config
}

// NewPostgresContainer starts PostgreSQL, applies the schema migrations and
// returns a connected pool. The container is terminated when t finishes.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("newsletter"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("password"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	cfg := db.Config{
		ConnectionString: dsn,
		MigrationsTable:  "schema_migrations",
		AcquireTimeout:   2 * time.Second,
		MaxOpenConns:     4,
		RetryAttempts:    3,
		RetryInterval:    time.Second,
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool, migrations.FS, cfg.MigrationsTable, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("failed to migrate postgres: %v", err)
	}

	return &PostgresContainer{Container: container, Pool: pool, Config: cfg}
}
