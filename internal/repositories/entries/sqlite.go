package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ntarasova/moodlog/internal/common"
	"github.com/ntarasova/moodlog/internal/dbx"
	"github.com/ntarasova/moodlog/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const entryColumns = `id, sync_id, user_id, remote_key, occurred_at, mood, note, image_ref, last_updated, dirty, tombstoned, deleted_at`

// Timestamps are stored as integer unix milliseconds: the matching tolerance
// is sub-second, so second precision is not enough.
func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func scanEntry(scan func(dest ...any) error) (*models.Entry, error) {
	var (
		e          models.Entry
		occurredAt int64
		updated    int64
		deletedAt  sql.NullInt64
	)
	err := scan(&e.LocalID, &e.SyncID, &e.UserID, &e.RemoteKey, &occurredAt,
		&e.Mood, &e.Note, &e.ImageRef, &updated, &e.Dirty, &e.Tombstoned, &deletedAt)
	if err != nil {
		return nil, err
	}
	e.OccurredAt = fromMillis(occurredAt)
	e.LastUpdated = fromMillis(updated)
	if deletedAt.Valid {
		t := fromMillis(deletedAt.Int64)
		e.DeletedAt = &t
	}
	return &e, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: select entries: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scan entry: %v", common.ErrStorage, err)
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate entries: %v", common.ErrStorage, err)
	}
	return result, nil
}

// ListActive implements Repository.ListActive.
func (r *SQLiteRepository) ListActive(ctx context.Context, userID string) ([]models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = ? AND tombstoned = 0
		ORDER BY occurred_at DESC`
	return r.list(ctx, query, userID)
}

// ListAll implements Repository.ListAll.
func (r *SQLiteRepository) ListAll(ctx context.Context, userID string) ([]models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = ?`
	return r.list(ctx, query, userID)
}

// ListDirty implements Repository.ListDirty.
func (r *SQLiteRepository) ListDirty(ctx context.Context, userID string) ([]models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = ? AND dirty = 1`
	return r.list(ctx, query, userID)
}

// GetBySyncID implements Repository.GetBySyncID.
func (r *SQLiteRepository) GetBySyncID(ctx context.Context, syncID string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE sync_id = ?`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, syncID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select entry: %v", common.ErrStorage, err)
	}
	return e, nil
}

// Upsert implements Repository.Upsert.
func (r *SQLiteRepository) Upsert(ctx context.Context, e *models.Entry) error {
	var deletedAt sql.NullInt64
	if e.DeletedAt != nil {
		deletedAt = sql.NullInt64{Int64: toMillis(*e.DeletedAt), Valid: true}
	}

	if e.LocalID == 0 {
		query := `INSERT INTO entries (sync_id, user_id, remote_key, occurred_at, mood, note, image_ref, last_updated, dirty, tombstoned, deleted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, query,
			e.SyncID, e.UserID, e.RemoteKey, toMillis(e.OccurredAt), e.Mood,
			e.Note, e.ImageRef, toMillis(e.LastUpdated), e.Dirty, e.Tombstoned, deletedAt)
		if err != nil {
			return fmt.Errorf("%w: insert entry: %v", common.ErrStorage, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("%w: insert entry id: %v", common.ErrStorage, err)
		}
		e.LocalID = id
		return nil
	}

	query := `UPDATE entries SET sync_id = ?, user_id = ?, remote_key = ?, occurred_at = ?, mood = ?,
		note = ?, image_ref = ?, last_updated = ?, dirty = ?, tombstoned = ?, deleted_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		e.SyncID, e.UserID, e.RemoteKey, toMillis(e.OccurredAt), e.Mood,
		e.Note, e.ImageRef, toMillis(e.LastUpdated), e.Dirty, e.Tombstoned, deletedAt, e.LocalID)
	if err != nil {
		return fmt.Errorf("%w: update entry: %v", common.ErrStorage, err)
	}
	return nil
}

// SoftDelete implements Repository.SoftDelete.
func (r *SQLiteRepository) SoftDelete(ctx context.Context, e *models.Entry) error {
	e.Tombstone(time.Now())

	query := `UPDATE entries SET tombstoned = 1, dirty = 1, last_updated = ?, deleted_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, toMillis(e.LastUpdated), toMillis(*e.DeletedAt), e.LocalID)
	if err != nil {
		return fmt.Errorf("%w: soft delete entry: %v", common.ErrStorage, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", common.ErrStorage, err)
	}
	if ra != 1 {
		return common.ErrNotFound
	}
	return nil
}

// HardDelete implements Repository.HardDelete.
func (r *SQLiteRepository) HardDelete(ctx context.Context, e *models.Entry) error {
	query := `DELETE FROM entries WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, e.LocalID); err != nil {
		return fmt.Errorf("%w: hard delete entry: %v", common.ErrStorage, err)
	}
	return nil
}
