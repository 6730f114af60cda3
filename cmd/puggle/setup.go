package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/storage"
	"github.com/revelaction/puggle/storage/filesystem"
	"github.com/revelaction/puggle/storage/sqlite/zombiezen"
)

// NewDatasetRepository opens the store at path: a directory is a filesystem
// store, any other file a sqlite database. With create, a missing path is
// created, as a directory when it has no extension.
func NewDatasetRepository(p *Pool, path string, limits annotation.Limits, create bool) (storage.DatasetRepository, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && create:
		if filepath.Ext(path) == "" {
			if err := os.MkdirAll(path, 0755); err != nil {
				return nil, fmt.Errorf("failed to create store directory: %w", err)
			}
			return filesystem.NewDatasetStore(path, limits)
		}
	case err != nil:
		return nil, fmt.Errorf("repository not found: %s", path)
	case info.IsDir():
		return filesystem.NewDatasetStore(path, limits)
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewDatasetStore(pool, limits)
}
