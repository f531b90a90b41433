// Package syncstate persists the incremental sync cursor in PostgreSQL.
package syncstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/burnki/internal/adapter/postgres"
	"github.com/heartmarshall/burnki/internal/domain"
)

const keyLastSyncCursor = "last_sync_cursor"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo reads and writes the sync_state table.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new sync state repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// LastSyncCursor returns the cursor of the last successful sync, or "" when
// none was recorded.
func (r *Repo) LastSyncCursor(ctx context.Context) (string, error) {
	query, args, err := psql.Select("value").
		From("sync_state").
		Where(squirrel.Eq{"key": keyLastSyncCursor}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build select sync state: %w", err)
	}

	var value string
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&value)
	if err != nil {
		mapped := postgres.MapError(err, "sync state", keyLastSyncCursor)
		if errors.Is(mapped, domain.ErrNotFound) {
			return "", nil
		}
		return "", mapped
	}
	return value, nil
}

// SaveSyncCursor records the cursor of a successful sync.
func (r *Repo) SaveSyncCursor(ctx context.Context, cursor string) error {
	query, args, err := psql.Insert("sync_state").
		Columns("key", "value", "updated_at").
		Values(keyLastSyncCursor, cursor, time.Now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert sync state: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "sync state", keyLastSyncCursor)
	}
	return nil
}
