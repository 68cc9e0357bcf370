package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// Store writes rendered pages gzip-compressed into a single directory.
type Store struct {
	dir string
}

// NewStore creates the output directory if needed and returns a Store for it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Save persists the page HTML for one key/option combination under its
// deterministic filename and returns the file path.
func (s *Store) Save(k Key, option, html string) (string, error) {
	path := filepath.Join(s.dir, Filename(k, option))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(html)); err != nil {
		zw.Close()
		f.Close()
		return "", fmt.Errorf("compressing page to %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("flushing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	return path, nil
}
