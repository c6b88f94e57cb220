package profiles

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

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT user_id, display_name, email, avatar_ref, fetched_at FROM profiles WHERE user_id = ?`

	var (
		p         models.Profile
		fetchedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.UserID, &p.DisplayName, &p.Email, &p.AvatarRef, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select profile: %v", common.ErrStorage, err)
	}
	p.FetchedAt = time.UnixMilli(fetchedAt).UTC()
	return &p, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, p *models.Profile) error {
	query := `INSERT INTO profiles (user_id, display_name, email, avatar_ref, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET display_name = excluded.display_name,
			email = excluded.email,
			avatar_ref = excluded.avatar_ref,
			fetched_at = excluded.fetched_at`
	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.DisplayName, p.Email, p.AvatarRef, p.FetchedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: upsert profile: %v", common.ErrStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("%w: delete profile: %v", common.ErrStorage, err)
	}
	return nil
}
