package repository

import (
	"database/sql"

	"github.com/kopimi-kafe/backend/internal/config"
)

type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// Repository stores blobs in a SQL table, scoped to one namespace.
type Repository struct {
	cfg       *config.Config
	dbpool    *sql.DB
	dialect   Dialect
	namespace string
}

func NewRepository(cfg *config.Config, dbpool *sql.DB, dialect Dialect, namespace string) *Repository {
	return &Repository{
		cfg:       cfg,
		dbpool:    dbpool,
		dialect:   dialect,
		namespace: namespace,
	}
}

func (r *Repository) Close() error {
	return r.dbpool.Close()
}
