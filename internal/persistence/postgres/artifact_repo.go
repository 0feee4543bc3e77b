// Package postgres implements an optional Postgres-backed
// artifacts.Store for querying historical WalkForwardResult/DSR runs.
// It is never required for a single walk-forward invocation — the
// always-available default is artifacts.FileStore; Postgres is an
// external persistence backend the core's artifact interface can be
// pointed at.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ArtifactRepo stores and retrieves named artifact blobs in a
// `artifacts` table, adapted from trades_repo.go's sqlx repo-struct
// style: one timeout-scoped context per call, plain
// ExecContext/QueryRowContext/QueryContext calls (Save is an upsert),
// and errors wrapped with fmt.Errorf, including the SQLSTATE code for
// a pq error.
type ArtifactRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewArtifactRepo returns an ArtifactRepo over db, scoping every query
// to timeout.
func NewArtifactRepo(db *sqlx.DB, timeout time.Duration) *ArtifactRepo {
	return &ArtifactRepo{db: db, timeout: timeout}
}

// Schema is the DDL ArtifactRepo expects; the host runs it once
// during environment setup (this package never auto-migrates).
const Schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	name       TEXT PRIMARY KEY,
	data       BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Save upserts name's bytes, matching artifacts.Store.Save's
// semantics (the core re-persisting the same name is an overwrite,
// not a duplicate error).
func (r *ArtifactRepo) Save(name string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO artifacts (name, data) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, created_at = now()`,
		name, data)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("save artifact %s: pq error %s: %w", name, pqErr.Code, err)
		}
		return fmt.Errorf("save artifact %s: %w", name, err)
	}
	return nil
}

// Load fetches name's bytes back.
func (r *ArtifactRepo) Load(name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM artifacts WHERE name = $1`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("load artifact %s: not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("load artifact %s: %w", name, err)
	}
	return data, nil
}

// List returns every artifact name whose prefix matches.
func (r *ArtifactRepo) List(prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT name FROM artifacts WHERE name LIKE $1 ORDER BY name`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("list artifacts with prefix %s: %w", prefix, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan artifact name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
