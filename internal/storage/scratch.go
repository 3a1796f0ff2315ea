// Package storage manages the scratch directory holding uploads for the
// lifetime of a single request.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joffinkoshy/smart-meeting-assistant/internal/models"
)

// Store writes uploads into a fixed scratch directory under unique names and
// removes them when the owning request finishes.
type Store struct {
	dir string
	log zerolog.Logger
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, log zerolog.Logger) *Store {
	return &Store{dir: dir, log: log.With().Str("component", "storage").Logger()}
}

// Dir returns the scratch directory path.
func (s *Store) Dir() string { return s.dir }

// Init ensures the scratch directory exists and is writable.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create scratch dir %s: %w", s.dir, err)
	}
	return nil
}

// Save persists upload bytes under a random identifier plus the original
// extension. The file is written to a temporary name and renamed into place
// so a partial write never survives as a readable scratch file.
func (s *Store) Save(data []byte, originalName string) (*models.StoredFile, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".bin"
	}
	path := filepath.Join(s.dir, id+ext)
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, fmt.Errorf("write scratch file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("finalize scratch file: %w", err)
	}
	s.log.Debug().Str("path", path).Int("bytes", len(data)).Msg("stored upload")
	return &models.StoredFile{
		ID:           id,
		Path:         path,
		OriginalName: filepath.Base(originalName),
		CreatedAt:    time.Now(),
	}, nil
}

// Remove deletes the file at path if it exists and is a regular file. It
// reports whether a deletion happened. Failures are logged, never escalated:
// losing a scratch file must not mask the request's primary outcome.
func (s *Store) Remove(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", path).Msg("stat scratch file failed")
		}
		return false
	}
	if !info.Mode().IsRegular() {
		s.log.Warn().Str("path", path).Msg("refusing to remove non-regular file")
		return false
	}
	if err := os.Remove(path); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("remove scratch file failed")
		return false
	}
	return true
}

// Archive moves a stored file into destDir, creating it if needed, and
// returns the new path. Useful for operators that keep processed audio.
func (s *Store) Archive(path, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir %s: %w", destDir, err)
	}
	dest := filepath.Join(destDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("archive %s: %w", path, err)
	}
	return dest, nil
}
