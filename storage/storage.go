package storage

import (
	"errors"
	"time"

	"github.com/revelaction/puggle/corpus"
)

var ErrNotFound = errors.New("dataset not found")

// DatasetInfo is the metadata of a stored dataset. Documents are not loaded.
type DatasetInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Documents int       `json:"documents"`
	Created   time.Time `json:"created,omitempty"`
}

// Progress is called after each stored or read document. It may be nil.
type Progress func(current, total int)

// DatasetReader defines read operations for dataset storage
type DatasetReader interface {
	// List returns the metadata of all stored datasets.
	List() ([]DatasetInfo, error)

	// Read returns a dataset by ID
	Read(id string) (*corpus.Dataset, error)
}

// DatasetWriter defines write operations for dataset storage
type DatasetWriter interface {
	// Write persists a dataset under name and returns its ID
	Write(name string, ds *corpus.Dataset, progress Progress) (string, error)

	// Delete removes a dataset by ID
	Delete(id string) error
}

// DatasetRepository combines read and write operations
type DatasetRepository interface {
	DatasetReader
	DatasetWriter
}
