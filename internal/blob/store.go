// Package blob stores uploaded product images on disk under generated
// names, so the database only ever holds an opaque reference.
package blob

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyFilename is returned when an upload arrives without a filename.
var ErrEmptyFilename = errors.New("uploaded file has no filename")

// ErrExtensionNotAllowed is returned when the claimed filename's extension
// is outside the configured allow-list.
var ErrExtensionNotAllowed = errors.New("image format not allowed")

// Config is passed in at construction instead of read from ambient
// globals, so tests can point the store at a temp directory.
type Config struct {
	Dir               string
	AllowedExtensions []string
}

// Store saves image blobs under Dir with uuid-generated names that keep
// the original extension.
type Store struct {
	dir     string
	allowed map[string]bool
}

func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	return &Store{dir: cfg.Dir, allowed: allowed}, nil
}

// Allowed reports whether the claimed filename carries an allow-listed
// extension. A name without any extension is never allowed.
func (s *Store) Allowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ext != "" && s.allowed[ext]
}

// Save validates the claimed filename, writes the stream under a
// uuid-generated name and returns that name for the caller to persist.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	if filename == "" {
		return "", ErrEmptyFilename
	}
	if !s.Allowed(filename) {
		return "", ErrExtensionNotAllowed
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	name := fmt.Sprintf("%s.%s", uuid.New().String(), ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Remove deletes a stored blob by its generated name. A name that is no
// longer present is not an error.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the directory blobs are stored in, for static serving.
func (s *Store) Dir() string {
	return s.dir
}
