package collection

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/burnki/internal/adapter/postgres"
	"github.com/heartmarshall/burnki/internal/domain"
)

var noteTypeColumns = []string{
	"id", "name", "fields", "template_name", "front_template", "back_template",
	"css", "default_deck_id", "created_at", "updated_at",
}

// NoteTypeByName returns domain.ErrNotFound when no note type has the name.
func (r *Repo) NoteTypeByName(ctx context.Context, name string) (domain.NoteType, error) {
	query, args, err := psql.Select(noteTypeColumns...).
		From("note_types").
		Where("name = ?", name).
		ToSql()
	if err != nil {
		return domain.NoteType{}, fmt.Errorf("build select note type: %w", err)
	}

	nt, err := scanNoteType(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.NoteType{}, postgres.MapError(err, "note type", name)
	}
	return nt, nil
}

// CreateNoteType inserts nt with a fresh id.
func (r *Repo) CreateNoteType(ctx context.Context, nt domain.NoteType) (domain.NoteType, error) {
	now := r.now()
	nt.ID = uuid.New()
	nt.CreatedAt = now
	nt.UpdatedAt = now

	fields, err := json.Marshal(nt.Fields)
	if err != nil {
		return domain.NoteType{}, fmt.Errorf("encode note type fields: %w", err)
	}

	query, args, err := psql.Insert("note_types").
		Columns(noteTypeColumns...).
		Values(nt.ID, nt.Name, fields, nt.Template.Name, nt.Template.Front, nt.Template.Back,
			nt.CSS, nt.DefaultDeckID, nt.CreatedAt, nt.UpdatedAt).
		ToSql()
	if err != nil {
		return domain.NoteType{}, fmt.Errorf("build insert note type: %w", err)
	}

	if _, err := r.q(ctx).Exec(ctx, query, args...); err != nil {
		return domain.NoteType{}, postgres.MapError(err, "note type", nt.Name)
	}
	return nt, nil
}

// UpdateNoteType rewrites the schema, template, stylesheet and default deck.
func (r *Repo) UpdateNoteType(ctx context.Context, nt domain.NoteType) error {
	fields, err := json.Marshal(nt.Fields)
	if err != nil {
		return fmt.Errorf("encode note type fields: %w", err)
	}

	query, args, err := psql.Update("note_types").
		SetMap(map[string]any{
			"name":            nt.Name,
			"fields":          fields,
			"template_name":   nt.Template.Name,
			"front_template":  nt.Template.Front,
			"back_template":   nt.Template.Back,
			"css":             nt.CSS,
			"default_deck_id": nt.DefaultDeckID,
			"updated_at":      r.now(),
		}).
		Where("id = ?", nt.ID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update note type: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "note type", nt.Name)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note type %s: %w", nt.ID, domain.ErrNotFound)
	}
	return nil
}

func scanNoteType(row pgx.Row) (domain.NoteType, error) {
	var (
		nt     domain.NoteType
		fields []byte
	)
	err := row.Scan(
		&nt.ID, &nt.Name, &fields, &nt.Template.Name, &nt.Template.Front, &nt.Template.Back,
		&nt.CSS, &nt.DefaultDeckID, &nt.CreatedAt, &nt.UpdatedAt,
	)
	if err != nil {
		return domain.NoteType{}, err
	}
	if err := json.Unmarshal(fields, &nt.Fields); err != nil {
		return domain.NoteType{}, fmt.Errorf("decode note type fields: %w", err)
	}
	return nt, nil
}
