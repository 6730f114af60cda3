// Package corpus holds the Dataset, an ordered collection of documents, and
// the operations run over a whole collection: loading, saving, manipulation,
// sampling and sentence splitting.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/file"
)

type Dataset struct {
	Documents []*annotation.Document
}

func New() *Dataset {
	return &Dataset{Documents: []*annotation.Document{}}
}

func (ds *Dataset) Add(doc *annotation.Document) {
	ds.Documents = append(ds.Documents, doc)
}

func (ds *Dataset) Len() int {
	return len(ds.Documents)
}

// Mentions and Relations count over all annotated documents.
func (ds *Dataset) Mentions() int {
	n := 0
	for _, d := range ds.Documents {
		if d.Annotation != nil {
			n += len(d.Annotation.Mentions)
		}
	}
	return n
}

func (ds *Dataset) Relations() int {
	n := 0
	for _, d := range ds.Documents {
		if d.Annotation != nil {
			n += len(d.Annotation.Relations)
		}
	}
	return n
}

func (ds *Dataset) String() string {
	return fmt.Sprintf("Dataset containing %d documents.", ds.Len())
}

func (ds *Dataset) Summary() string {
	return fmt.Sprintf("Dataset containing %d documents, %d mentions, and %d relations.", ds.Len(), ds.Mentions(), ds.Relations())
}

// MarshalJSON writes the native format: the list of documents.
func (ds *Dataset) MarshalJSON() ([]byte, error) {
	if ds.Documents == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(ds.Documents)
}

// Decode reads a dataset in the native format, validating every annotation
// against limits.
func Decode(data []byte, limits annotation.Limits) (*Dataset, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, annotation.Errorf(annotation.ErrMalformedDocument, "%v", err)
	}
	if len(items) > limits.MaxRows {
		return nil, annotation.Errorf(annotation.ErrTooManyDocuments, "dataset must contain at most %d documents, got %d", limits.MaxRows, len(items))
	}

	ds := New()
	for i, item := range items {
		doc, err := annotation.DecodeDocument(item, limits)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		ds.Add(doc)
	}
	return ds, nil
}

// ReadFile reads a dataset saved in the native format.
func ReadFile(path string, limits annotation.Limits) (*Dataset, error) {
	if err := file.CheckExtension(path, file.JSONExt); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ds, err := Decode(data, limits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return ds, nil
}
