package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/file"
	"github.com/revelaction/puggle/storage"
)

// DatasetStore keeps each dataset as a <name>.json file in the native
// format. The ID of a dataset is its name.
type DatasetStore struct {
	dir    string
	limits annotation.Limits
}

var _ storage.DatasetRepository = (*DatasetStore)(nil)

// NewDatasetStore creates a filesystem dataset store over an existing
// directory.
func NewDatasetStore(dir string, limits annotation.Limits) (*DatasetStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}
	return &DatasetStore{dir: dir, limits: limits}, nil
}

func (h *DatasetStore) List() ([]storage.DatasetInfo, error) {
	files, err := os.ReadDir(h.dir)
	if err != nil {
		return nil, err
	}

	infos := []storage.DatasetInfo{}
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != file.JSONExt {
			continue
		}

		data, err := os.ReadFile(filepath.Join(h.dir, f.Name()))
		if err != nil {
			return nil, fmt.Errorf("IO error: %w", err)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("JSON decoding error in %s: %w", f.Name(), err)
		}

		info := storage.DatasetInfo{
			ID:        strings.TrimSuffix(f.Name(), file.JSONExt),
			Documents: len(items),
		}
		info.Name = info.ID
		if fi, err := f.Info(); err == nil {
			info.Created = fi.ModTime()
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (h *DatasetStore) Read(id string) (*corpus.Dataset, error) {
	path, err := h.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	ds, err := corpus.Decode(data, h.limits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return ds, nil
}

func (h *DatasetStore) Write(name string, ds *corpus.Dataset, progress storage.Progress) (string, error) {
	path, err := h.path(name)
	if err != nil {
		return "", err
	}

	if err := ds.SaveFile(path, corpus.JSON); err != nil {
		return "", err
	}
	if progress != nil {
		progress(ds.Len(), ds.Len())
	}
	return name, nil
}

func (h *DatasetStore) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid dataset name: %q", name)
	}
	return filepath.Join(h.dir, name+file.JSONExt), nil
}

func (h *DatasetStore) Delete(id string) error {
	path, err := h.path(id)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return err
}
