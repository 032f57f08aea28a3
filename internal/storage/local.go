package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore serves assets from a directory on disk.
type LocalStore struct {
	basePath string
}

func NewLocalStore(basePath string) (*LocalStore, error) {
	info, err := os.Stat(basePath)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(basePath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create asset directory: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat asset directory: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("asset path %s is not a directory", basePath)
	}

	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, Object{}, err
	}

	cleaned, ok := cleanName(name)
	if !ok {
		return nil, Object{}, ErrNotFound
	}

	filePath := filepath.Join(s.basePath, filepath.FromSlash(cleaned))
	f, err := os.Open(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Object{}, ErrNotFound
	}
	if err != nil {
		return nil, Object{}, fmt.Errorf("failed to open asset %s: %w", cleaned, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Object{}, fmt.Errorf("failed to stat asset %s: %w", cleaned, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, Object{}, ErrNotFound
	}

	return f, Object{
		Name:        cleaned,
		ContentType: contentTypeOf(cleaned),
		Size:        info.Size(),
	}, nil
}
