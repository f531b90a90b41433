// Package collection implements the local flashcard collection (decks, note
// types, notes and media) on PostgreSQL. Queries are built with squirrel and
// run on the transaction carried by the context when there is one.
package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/burnki/internal/adapter/postgres"
	"github.com/heartmarshall/burnki/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides collection persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New creates a new collection repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// EnsureDeck returns the deck with the given name, creating it when missing.
func (r *Repo) EnsureDeck(ctx context.Context, name string) (domain.Deck, error) {
	insert, args, err := psql.Insert("decks").
		Columns("id", "name", "created_at").
		Values(uuid.New(), name, r.now()).
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSql()
	if err != nil {
		return domain.Deck{}, fmt.Errorf("build insert deck: %w", err)
	}
	if _, err := r.q(ctx).Exec(ctx, insert, args...); err != nil {
		return domain.Deck{}, postgres.MapError(err, "deck", name)
	}

	query, args, err := psql.Select("id", "name", "created_at").
		From("decks").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return domain.Deck{}, fmt.Errorf("build select deck: %w", err)
	}

	var d domain.Deck
	if err := r.q(ctx).QueryRow(ctx, query, args...).Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
		return domain.Deck{}, postgres.MapError(err, "deck", name)
	}
	return d, nil
}
