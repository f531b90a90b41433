package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/burnki/internal/domain"
)

type noteTypeRow struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Fields        string         `db:"fields"`
	TemplateName  string         `db:"template_name"`
	FrontTemplate string         `db:"front_template"`
	BackTemplate  string         `db:"back_template"`
	CSS           string         `db:"css"`
	DefaultDeckID sql.NullString `db:"default_deck_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

const noteTypeColumns = `id, name, fields, template_name, front_template, back_template, css, default_deck_id, created_at, updated_at`

const getNoteTypeByNameSQL = `SELECT ` + noteTypeColumns + ` FROM note_types WHERE name = ?`

const insertNoteTypeSQL = `
INSERT INTO note_types (` + noteTypeColumns + `)
VALUES (:id, :name, :fields, :template_name, :front_template, :back_template, :css, :default_deck_id, :created_at, :updated_at)`

const updateNoteTypeSQL = `
UPDATE note_types SET
    name = :name,
    fields = :fields,
    template_name = :template_name,
    front_template = :front_template,
    back_template = :back_template,
    css = :css,
    default_deck_id = :default_deck_id,
    updated_at = :updated_at
WHERE id = :id`

// NoteTypeByName returns domain.ErrNotFound when no note type has the name.
func (s *Store) NoteTypeByName(ctx context.Context, name string) (domain.NoteType, error) {
	var row noteTypeRow
	if err := sqlx.GetContext(ctx, s.q(ctx), &row, getNoteTypeByNameSQL, name); err != nil {
		return domain.NoteType{}, mapError(err, "note type", name)
	}
	return toDomainNoteType(row)
}

// CreateNoteType inserts nt with a fresh id.
func (s *Store) CreateNoteType(ctx context.Context, nt domain.NoteType) (domain.NoteType, error) {
	now := s.now()
	nt.ID = uuid.New()
	nt.CreatedAt = now
	nt.UpdatedAt = now

	row, err := toNoteTypeRow(nt)
	if err != nil {
		return domain.NoteType{}, err
	}
	if _, err := sqlx.NamedExecContext(ctx, s.q(ctx), insertNoteTypeSQL, row); err != nil {
		return domain.NoteType{}, mapError(err, "note type", nt.Name)
	}
	return nt, nil
}

// UpdateNoteType rewrites the schema, template, stylesheet and default deck.
func (s *Store) UpdateNoteType(ctx context.Context, nt domain.NoteType) error {
	nt.UpdatedAt = s.now()

	row, err := toNoteTypeRow(nt)
	if err != nil {
		return err
	}
	res, err := sqlx.NamedExecContext(ctx, s.q(ctx), updateNoteTypeSQL, row)
	if err != nil {
		return mapError(err, "note type", nt.Name)
	}
	return requireAffected(res, "note type", nt.ID.String())
}

func toNoteTypeRow(nt domain.NoteType) (noteTypeRow, error) {
	fields, err := json.Marshal(nt.Fields)
	if err != nil {
		return noteTypeRow{}, fmt.Errorf("encode note type fields: %w", err)
	}
	row := noteTypeRow{
		ID:            nt.ID.String(),
		Name:          nt.Name,
		Fields:        string(fields),
		TemplateName:  nt.Template.Name,
		FrontTemplate: nt.Template.Front,
		BackTemplate:  nt.Template.Back,
		CSS:           nt.CSS,
		CreatedAt:     nt.CreatedAt,
		UpdatedAt:     nt.UpdatedAt,
	}
	if nt.DefaultDeckID != nil {
		row.DefaultDeckID = sql.NullString{String: nt.DefaultDeckID.String(), Valid: true}
	}
	return row, nil
}

func toDomainNoteType(row noteTypeRow) (domain.NoteType, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.NoteType{}, fmt.Errorf("note type %s: parse id: %w", row.Name, err)
	}

	nt := domain.NoteType{
		ID:   id,
		Name: row.Name,
		Template: domain.NoteTemplate{
			Name:  row.TemplateName,
			Front: row.FrontTemplate,
			Back:  row.BackTemplate,
		},
		CSS:       row.CSS,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Fields), &nt.Fields); err != nil {
		return domain.NoteType{}, fmt.Errorf("note type %s: decode fields: %w", row.Name, err)
	}
	if row.DefaultDeckID.Valid {
		deckID, err := uuid.Parse(row.DefaultDeckID.String)
		if err != nil {
			return domain.NoteType{}, fmt.Errorf("note type %s: parse default deck: %w", row.Name, err)
		}
		nt.DefaultDeckID = &deckID
	}
	return nt, nil
}

func requireAffected(res sql.Result, entity, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: rows affected: %w", entity, key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}
	return nil
}
