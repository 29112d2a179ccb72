// Package media provides the opaque attachment store: save a file, get back
// a stable reference. Storage internals are deliberately hidden behind the
// FileStore interface so a cloud backend can replace the disk one.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type FileStore interface {
	Save(name string, r io.Reader) (ref string, err error)
}

// DiskStore writes attachments under a single directory, keyed by a UUID
// reference that preserves the original extension.
type DiskStore struct {
	Dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &DiskStore{Dir: dir}, nil
}

func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	ref := uuid.New().String() + filepath.Ext(name)

	f, err := os.Create(filepath.Join(s.Dir, ref))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return ref, nil
}
