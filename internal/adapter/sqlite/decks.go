package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/burnki/internal/domain"
)

type deckRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

const insertDeckSQL = `
INSERT INTO decks (id, name, created_at) VALUES (?, ?, ?)
ON CONFLICT (name) DO NOTHING`

const getDeckByNameSQL = `SELECT id, name, created_at FROM decks WHERE name = ?`

// EnsureDeck returns the deck with the given name, creating it when missing.
func (s *Store) EnsureDeck(ctx context.Context, name string) (domain.Deck, error) {
	q := s.q(ctx)

	if _, err := q.ExecContext(ctx, insertDeckSQL, uuid.NewString(), name, s.now()); err != nil {
		return domain.Deck{}, mapError(err, "deck", name)
	}

	var row deckRow
	if err := sqlx.GetContext(ctx, q, &row, getDeckByNameSQL, name); err != nil {
		return domain.Deck{}, mapError(err, "deck", name)
	}

	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.Deck{}, mapError(err, "deck", name)
	}
	return domain.Deck{ID: id, Name: row.Name, CreatedAt: row.CreatedAt}, nil
}
