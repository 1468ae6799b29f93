package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// FileBackend keeps each key in its own JSON file under a directory.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileBackend) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotExist
	}
	return data, err
}

// Write writes to a temp file then renames it over the target.
func (f *FileBackend) Write(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return err
	}

	target := f.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}
