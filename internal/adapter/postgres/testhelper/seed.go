package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/burnki/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedDeck inserts a deck with a unique name.
func SeedDeck(t *testing.T, pool *pgxpool.Pool) domain.Deck {
	t.Helper()

	deck := domain.Deck{
		ID:        uuid.New(),
		Name:      "Deck " + uniqueSuffix(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO decks (id, name, created_at) VALUES ($1, $2, $3)`,
		deck.ID, deck.Name, deck.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDeck: %v", err)
	}
	return deck
}

// SeedNoteType inserts a deck and a note type with the Burnki field list,
// both uniquely named, and returns them.
func SeedNoteType(t *testing.T, pool *pgxpool.Pool) (domain.Deck, domain.NoteType) {
	t.Helper()

	deck := SeedDeck(t, pool)
	now := time.Now().UTC().Truncate(time.Microsecond)
	nt := domain.NoteType{
		ID:            uuid.New(),
		Name:          "Burnki " + uniqueSuffix(),
		Fields:        domain.NoteFieldNames(),
		Template:      domain.NoteTemplate{Name: "Recognition", Front: "{{Characters}}", Back: "{{Meanings}}"},
		CSS:           ".card {}",
		DefaultDeckID: &deck.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	fields, err := json.Marshal(nt.Fields)
	if err != nil {
		t.Fatalf("testhelper: SeedNoteType encode fields: %v", err)
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO note_types (id, name, fields, template_name, front_template, back_template, css, default_deck_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		nt.ID, nt.Name, fields, nt.Template.Name, nt.Template.Front, nt.Template.Back, nt.CSS, nt.DefaultDeckID, nt.CreatedAt, nt.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedNoteType: %v", err)
	}
	return deck, nt
}
