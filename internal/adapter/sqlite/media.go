package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/heartmarshall/burnki/internal/domain"
)

// WriteMedia stores data as a file in the media directory, replacing any file
// of the same name. The write goes through a temp file and a rename so a
// reader never sees a partial file.
func (s *Store) WriteMedia(ctx context.Context, filename string, data []byte) error {
	path, err := s.mediaPath(filename)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.mediaDir, ".burnki-*")
	if err != nil {
		return fmt.Errorf("media %s: %w", filename, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("media %s: write: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("media %s: close: %w", filename, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("media %s: rename: %w", filename, err)
	}

	s.log.DebugContext(ctx, "media written", "filename", filename, "bytes", len(data))
	return nil
}

// ReadMedia returns the bytes of a stored media file.
func (s *Store) ReadMedia(_ context.Context, filename string) ([]byte, error) {
	path, err := s.mediaPath(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("media %s: %w", filename, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("media %s: %w", filename, err)
	}
	return data, nil
}

// mediaPath rejects names that would escape the media directory.
func (s *Store) mediaPath(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", fmt.Errorf("media %q: %w", filename, domain.NewValidationError("filename", "must be a plain file name"))
	}
	return filepath.Join(s.mediaDir, filename), nil
}
