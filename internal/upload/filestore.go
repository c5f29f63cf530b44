package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore persists raw upload bytes under a stored name. Implementations
// must be safe for concurrent use; names are expected to be unique so a
// store never overwrites.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
}

type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create upload directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("could not create file %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("could not write file %s: %w", name, err)
	}
	return nil
}
