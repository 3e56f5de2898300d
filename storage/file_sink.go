package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSink saves exported documents into a directory, replacing any previous
// file of the same name. It is safe for concurrent use.
type FileSink struct {
	mu  sync.Mutex
	dir string
}

// NewFileSink creates the output directory if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("file: create output dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Path returns where a document called name is written.
func (s *FileSink) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Save writes data through a temporary file and renames it into place so a
// reader never sees a half-written export.
func (s *FileSink) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst := s.Path(name)
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("file: create temp for %q: %w", dst, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("file: write %q: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("file: close %q: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("file: rename into %q: %w", dst, err)
	}
	return nil
}
