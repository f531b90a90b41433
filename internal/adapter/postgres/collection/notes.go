package collection

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/burnki/internal/adapter/postgres"
	"github.com/heartmarshall/burnki/internal/domain"
)

var noteColumns = []string{"id", "note_type_id", "deck_id", "fields", "created_at", "updated_at"}

// FindNotesByField returns notes of the note type whose field equals value,
// oldest first.
func (r *Repo) FindNotesByField(ctx context.Context, noteTypeID uuid.UUID, field, value string) ([]domain.Note, error) {
	return r.selectNotes(ctx, squirrel.And{
		squirrel.Eq{"note_type_id": noteTypeID},
		squirrel.Expr("fields ->> ?::text = ?", field, value),
	})
}

// ListNotes returns every note of the note type, oldest first.
func (r *Repo) ListNotes(ctx context.Context, noteTypeID uuid.UUID) ([]domain.Note, error) {
	return r.selectNotes(ctx, squirrel.Eq{"note_type_id": noteTypeID})
}

func (r *Repo) selectNotes(ctx context.Context, where squirrel.Sqlizer) ([]domain.Note, error) {
	query, args, err := psql.Select(noteColumns...).
		From("notes").
		Where(where).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select notes: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select notes: %w", err)
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// AddNote inserts n with a fresh id.
func (r *Repo) AddNote(ctx context.Context, n domain.Note) (domain.Note, error) {
	now := r.now()
	n.ID = uuid.New()
	n.CreatedAt = now
	n.UpdatedAt = now

	fields, err := json.Marshal(n.Fields)
	if err != nil {
		return domain.Note{}, fmt.Errorf("encode note fields: %w", err)
	}

	query, args, err := psql.Insert("notes").
		Columns(noteColumns...).
		Values(n.ID, n.NoteTypeID, n.DeckID, fields, n.CreatedAt, n.UpdatedAt).
		ToSql()
	if err != nil {
		return domain.Note{}, fmt.Errorf("build insert note: %w", err)
	}

	if _, err := r.q(ctx).Exec(ctx, query, args...); err != nil {
		return domain.Note{}, postgres.MapError(err, "note", n.ID.String())
	}
	return n, nil
}

// UpdateNote overwrites the fields and deck of an existing note.
func (r *Repo) UpdateNote(ctx context.Context, n domain.Note) error {
	fields, err := json.Marshal(n.Fields)
	if err != nil {
		return fmt.Errorf("encode note fields: %w", err)
	}

	query, args, err := psql.Update("notes").
		Set("deck_id", n.DeckID).
		Set("fields", fields).
		Set("updated_at", r.now()).
		Where(squirrel.Eq{"id": n.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update note: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "note", n.ID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", n.ID, domain.ErrNotFound)
	}
	return nil
}

func scanNote(rows pgx.Rows) (domain.Note, error) {
	var (
		n      domain.Note
		fields []byte
	)
	if err := rows.Scan(&n.ID, &n.NoteTypeID, &n.DeckID, &fields, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return domain.Note{}, fmt.Errorf("scan note: %w", err)
	}
	if err := json.Unmarshal(fields, &n.Fields); err != nil {
		return domain.Note{}, fmt.Errorf("note %s: decode fields: %w", n.ID, err)
	}
	return n, nil
}
