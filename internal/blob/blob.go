// Package blob keeps rendered invoices on an afero filesystem.
package blob

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidPath = errors.New("invalid blob path")
)

type Store struct {
	fs afero.Fs
}

// New roots the store at dir on the OS filesystem.
func New(dir string) (*Store, error) {
	const op = "blob.New"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return NewWithFs(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

func NewWithFs(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// InvoicePath is {guide_id}/{date}/{tour_id}/{file}.
func InvoicePath(guideID, date, tourID, file string) string {
	return path.Join(guideID, date, tourID, file)
}

// Put writes data at p, replacing anything already there.
func (s *Store) Put(p string, data []byte) error {
	const op = "blob.Store.Put"

	clean, err := sanitize(p)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.fs.MkdirAll(path.Dir(clean), 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := afero.WriteFile(s.fs, clean, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Get(p string) ([]byte, error) {
	const op = "blob.Store.Get"

	clean, err := sanitize(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	data, err := afero.ReadFile(s.fs, clean)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}

// Delete removes p. A missing blob is not an error.
func (s *Store) Delete(p string) error {
	const op = "blob.Store.Delete"

	clean, err := sanitize(p)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.fs.Remove(clean); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func sanitize(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" || strings.Contains(p, "..") {
		return "", ErrInvalidPath
	}
	return strings.TrimPrefix(clean, "/"), nil
}
