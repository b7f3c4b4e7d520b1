package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kopimi-kafe/backend/internal/blobstore"
)

var schema = map[Dialect]string{
	Postgres: `
		CREATE TABLE IF NOT EXISTS blobs (
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			data BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			version INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (namespace, key)
		)
	`,
	SQLite: `
		CREATE TABLE IF NOT EXISTS blobs (
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			data BLOB NOT NULL,
			updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			version INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (namespace, key)
		)
	`,
}

var getQuery = map[Dialect]string{
	Postgres: `SELECT data FROM blobs WHERE namespace = $1 AND key = $2`,
	SQLite:   `SELECT data FROM blobs WHERE namespace = ? AND key = ?`,
}

var setQuery = map[Dialect]string{
	Postgres: `
		INSERT INTO blobs (namespace, key, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (namespace, key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW(), version = blobs.version + 1
	`,
	SQLite: `
		INSERT INTO blobs (namespace, key, data)
		VALUES (?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE
		SET data = excluded.data, updated_at = CURRENT_TIMESTAMP, version = blobs.version + 1
	`,
}

var versionQuery = map[Dialect]string{
	Postgres: `SELECT version FROM blobs WHERE namespace = $1 AND key = $2`,
	SQLite:   `SELECT version FROM blobs WHERE namespace = ? AND key = ?`,
}

func (r *Repository) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

// EnsureSchema creates the blobs table if it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, schema[r.dialect])
	return err
}

func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var data []byte
	if err := r.dbpool.QueryRowContext(ctx, getQuery[r.dialect], r.namespace, key).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}

	return data, nil
}

func (r *Repository) Set(ctx context.Context, key string, data []byte) error {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, setQuery[r.dialect], r.namespace, key, data)
	return err
}

// Version counts how many times key has been written.
func (r *Repository) Version(ctx context.Context, key string) (int64, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var version int64
	if err := r.dbpool.QueryRowContext(ctx, versionQuery[r.dialect], r.namespace, key).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, blobstore.ErrNotFound
		}
		return 0, err
	}

	return version, nil
}
