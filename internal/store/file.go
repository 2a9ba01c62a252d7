package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File keeps one <id>.json document per campaign under a root directory.
// Puts write a temp file and rename it over the target, so readers never
// observe a partially written document.
type File struct {
	root string
}

func NewFile(root string) (*File, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &File{root: root}, nil
}

func (f *File) path(id string) string {
	return filepath.Join(f.root, id+".json")
}

func (f *File) Get(ctx context.Context, id string) ([]byte, error) {
	doc, err := os.ReadFile(f.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read campaign %s: %w", id, err)
	}
	return doc, nil
}

func (f *File) Put(ctx context.Context, id string, doc []byte) error {
	tmp, err := os.CreateTemp(f.root, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("write campaign %s: %w", id, err)
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write campaign %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write campaign %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), f.path(id)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("install campaign %s: %w", id, err)
	}
	return nil
}

func (f *File) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (f *File) Close() error { return nil }
