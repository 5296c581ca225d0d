package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend persists the session document as a JSON file named after
// [StorageKey] inside a directory, the desktop analogue of browser local
// storage. Writes go through a temp file and rename so a crash never leaves
// a torn document.
type FileBackend struct {
	path string
}

// NewFileBackend stores the session under dir, creating it when missing.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileBackend{path: filepath.Join(dir, StorageKey+".json")}, nil
}

func (b *FileBackend) Load(context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *FileBackend) Save(_ context.Context, data []byte) error {
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, b.path)
}

func (b *FileBackend) Delete(context.Context) error {
	err := os.Remove(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
