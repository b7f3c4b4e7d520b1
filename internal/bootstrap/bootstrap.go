// Package bootstrap opens the durable blob store selected by configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kopimi-kafe/backend/internal/blobstore"
	"github.com/kopimi-kafe/backend/internal/config"
	"github.com/kopimi-kafe/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// OpenBlobStore connects to the store named by cfg.Blob.Driver and checks
// that it answers.
func OpenBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	switch cfg.Blob.Driver {
	case DriverRedis:
		return openRedis(ctx, cfg)
	case DriverPostgres:
		return OpenSQL(ctx, cfg, "pgx", cfg.Database.DSN, repository.Postgres)
	case DriverSQLite:
		return OpenSQL(ctx, cfg, "sqlite", cfg.Database.DSN, repository.SQLite)
	case DriverMemory:
		return blobstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Blob.Driver)
	}
}

func openRedis(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return blobstore.NewRedis(rdb, cfg.Blob.Namespace), nil
}

// OpenSQL opens a database/sql pool on dsn, pings it and makes sure the
// blobs table exists.
func OpenSQL(ctx context.Context, cfg *config.Config, driverName, dsn string, dialect repository.Dialect) (*repository.Repository, error) {
	dbpool, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s pool: %w", driverName, err)
	}

	if dialect == repository.SQLite {
		// a single connection serializes writers and keeps ":memory:" databases alive
		dbpool.SetMaxOpenConns(1)
	} else {
		dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open only builds the pool, the first connection is made here
	if err := dbpool.PingContext(pingCtx); err != nil {
		_ = dbpool.Close()
		return nil, fmt.Errorf("connect to %s: %w", driverName, err)
	}

	repo := repository.NewRepository(cfg, dbpool, dialect, cfg.Blob.Namespace)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("create blobs table: %w", err)
	}
	return repo, nil
}
