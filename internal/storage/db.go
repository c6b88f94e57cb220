// Package storage opens the on-device SQLite database, applies migrations
// and wires up the repositories.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/ntarasova/moodlog/internal/repositories/entries"
	"github.com/ntarasova/moodlog/internal/repositories/metadata"
	"github.com/ntarasova/moodlog/internal/repositories/profiles"
	"github.com/ntarasova/moodlog/internal/storage/migrations"
)

// Repositories bundles the local-store adapters backed by one database.
type Repositories struct {
	Entries  entries.Repository
	Profiles profiles.Repository
	Metadata metadata.Repository

	db *sql.DB
}

// Close closes the underlying database handle.
func (r *Repositories) Close() error {
	return r.db.Close()
}

// RunMigrations applies all pending goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn, migrates it and returns the
// repository set.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := &Repositories{
		Entries:  entries.NewSQLiteRepository(db),
		Profiles: profiles.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
		db:       db,
	}
	return repos, nil
}
