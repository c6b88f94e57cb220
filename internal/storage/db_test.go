package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntarasova/moodlog/internal/models"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "moodlog.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer repos.Close()

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"entries", "profiles", "metadata", "goose_db_version"} {
		assert.True(t, tableExists(t, db, table), "table %s missing after migration", table)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "moodlog.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	assert.True(t, tableExists(t, db, "goose_db_version"))
}

func TestInitDatabase_RepositoriesAreWired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "moodlog.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer repos.Close()

	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	e := &models.Entry{
		SyncID:      "s1",
		UserID:      "u1",
		OccurredAt:  at,
		Mood:        models.MoodGood,
		LastUpdated: at,
		Dirty:       true,
	}
	require.NoError(t, repos.Entries.Upsert(ctx, e))
	assert.NotZero(t, e.LocalID)

	require.NoError(t, repos.Metadata.Set(ctx, "k", "v"))
	v, err := repos.Metadata.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
