package collection

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/heartmarshall/burnki/internal/adapter/postgres"
	"github.com/heartmarshall/burnki/internal/domain"
)

// WriteMedia stores data under filename, replacing an existing blob.
func (r *Repo) WriteMedia(ctx context.Context, filename string, data []byte) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	query, args, err := psql.Insert("media").
		Columns("filename", "data", "updated_at").
		Values(filename, data, r.now()).
		Suffix("ON CONFLICT (filename) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert media: %w", err)
	}

	if _, err := r.q(ctx).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "media", filename)
	}
	return nil
}

// ReadMedia returns the stored bytes of filename.
func (r *Repo) ReadMedia(ctx context.Context, filename string) ([]byte, error) {
	query, args, err := psql.Select("data").
		From("media").
		Where(squirrel.Eq{"filename": filename}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select media: %w", err)
	}

	var data []byte
	if err := r.q(ctx).QueryRow(ctx, query, args...).Scan(&data); err != nil {
		return nil, postgres.MapError(err, "media", filename)
	}
	return data, nil
}

func validateFilename(filename string) error {
	if filename == "" || filename == "." || filename == ".." || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("media %q: %w", filename, domain.NewValidationError("filename", "must be a plain file name"))
	}
	return nil
}
