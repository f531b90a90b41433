package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/burnki/internal/domain"
)

type noteRow struct {
	ID         string    `db:"id"`
	NoteTypeID string    `db:"note_type_id"`
	DeckID     string    `db:"deck_id"`
	Fields     string    `db:"fields"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

const noteColumns = `id, note_type_id, deck_id, fields, created_at, updated_at`

const findNotesByFieldSQL = `
SELECT ` + noteColumns + ` FROM notes
WHERE note_type_id = ? AND json_extract(fields, '$.' || ?) = ?
ORDER BY created_at, rowid`

const listNotesSQL = `
SELECT ` + noteColumns + ` FROM notes
WHERE note_type_id = ?
ORDER BY created_at, rowid`

const insertNoteSQL = `
INSERT INTO notes (` + noteColumns + `)
VALUES (:id, :note_type_id, :deck_id, :fields, :created_at, :updated_at)`

const updateNoteSQL = `
UPDATE notes SET deck_id = :deck_id, fields = :fields, updated_at = :updated_at
WHERE id = :id`

// FindNotesByField returns notes of the note type whose field equals value,
// oldest first.
func (s *Store) FindNotesByField(ctx context.Context, noteTypeID uuid.UUID, field, value string) ([]domain.Note, error) {
	var rows []noteRow
	if err := sqlx.SelectContext(ctx, s.q(ctx), &rows, findNotesByFieldSQL, noteTypeID.String(), field, value); err != nil {
		return nil, fmt.Errorf("find notes by %s: %w", field, err)
	}
	return toDomainNotes(rows)
}

// ListNotes returns every note of the note type, oldest first.
func (s *Store) ListNotes(ctx context.Context, noteTypeID uuid.UUID) ([]domain.Note, error) {
	var rows []noteRow
	if err := sqlx.SelectContext(ctx, s.q(ctx), &rows, listNotesSQL, noteTypeID.String()); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return toDomainNotes(rows)
}

// AddNote inserts n with a fresh id.
func (s *Store) AddNote(ctx context.Context, n domain.Note) (domain.Note, error) {
	now := s.now()
	n.ID = uuid.New()
	n.CreatedAt = now
	n.UpdatedAt = now

	row, err := toNoteRow(n)
	if err != nil {
		return domain.Note{}, err
	}
	if _, err := sqlx.NamedExecContext(ctx, s.q(ctx), insertNoteSQL, row); err != nil {
		return domain.Note{}, mapError(err, "note", n.ID.String())
	}
	return n, nil
}

// UpdateNote overwrites the fields and deck of an existing note.
func (s *Store) UpdateNote(ctx context.Context, n domain.Note) error {
	n.UpdatedAt = s.now()

	row, err := toNoteRow(n)
	if err != nil {
		return err
	}
	res, err := sqlx.NamedExecContext(ctx, s.q(ctx), updateNoteSQL, row)
	if err != nil {
		return mapError(err, "note", n.ID.String())
	}
	return requireAffected(res, "note", n.ID.String())
}

func toNoteRow(n domain.Note) (noteRow, error) {
	fields, err := json.Marshal(n.Fields)
	if err != nil {
		return noteRow{}, fmt.Errorf("encode note fields: %w", err)
	}
	return noteRow{
		ID:         n.ID.String(),
		NoteTypeID: n.NoteTypeID.String(),
		DeckID:     n.DeckID.String(),
		Fields:     string(fields),
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}, nil
}

func toDomainNotes(rows []noteRow) ([]domain.Note, error) {
	notes := make([]domain.Note, len(rows))
	for i, row := range rows {
		n, err := toDomainNote(row)
		if err != nil {
			return nil, err
		}
		notes[i] = n
	}
	return notes, nil
}

func toDomainNote(row noteRow) (domain.Note, error) {
	var (
		n   domain.Note
		err error
	)
	if n.ID, err = uuid.Parse(row.ID); err != nil {
		return domain.Note{}, fmt.Errorf("note %s: parse id: %w", row.ID, err)
	}
	if n.NoteTypeID, err = uuid.Parse(row.NoteTypeID); err != nil {
		return domain.Note{}, fmt.Errorf("note %s: parse note type id: %w", row.ID, err)
	}
	if n.DeckID, err = uuid.Parse(row.DeckID); err != nil {
		return domain.Note{}, fmt.Errorf("note %s: parse deck id: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Fields), &n.Fields); err != nil {
		return domain.Note{}, fmt.Errorf("note %s: decode fields: %w", row.ID, err)
	}
	n.CreatedAt = row.CreatedAt
	n.UpdatedAt = row.UpdatedAt
	return n, nil
}
