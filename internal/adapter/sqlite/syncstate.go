package sqlite

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/burnki/internal/domain"
)

const keyLastSyncCursor = "last_sync_cursor"

const getSyncStateSQL = `SELECT value FROM sync_state WHERE key = ?`

const upsertSyncStateSQL = `
INSERT INTO sync_state (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// LastSyncCursor returns the cursor of the last successful sync, or "" when
// none was recorded.
func (s *Store) LastSyncCursor(ctx context.Context) (string, error) {
	var value string
	err := sqlx.GetContext(ctx, s.q(ctx), &value, getSyncStateSQL, keyLastSyncCursor)
	if err != nil {
		mapped := mapError(err, "sync state", keyLastSyncCursor)
		if errors.Is(mapped, domain.ErrNotFound) {
			return "", nil
		}
		return "", mapped
	}
	return value, nil
}

// SaveSyncCursor records the cursor of a successful sync.
func (s *Store) SaveSyncCursor(ctx context.Context, cursor string) error {
	if _, err := s.q(ctx).ExecContext(ctx, upsertSyncStateSQL, keyLastSyncCursor, cursor, s.now()); err != nil {
		return mapError(err, "sync state", keyLastSyncCursor)
	}
	return nil
}
