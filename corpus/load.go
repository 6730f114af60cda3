package corpus

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/file"
	"github.com/revelaction/puggle/format"
	"github.com/revelaction/puggle/logging"
)

// Loader builds documents from a CSV file of structured fields and a JSON
// file of annotations, row i of one matching row i of the other.
type Loader struct {
	Limits annotation.Limits
	Logger *slog.Logger
}

func NewLoader(limits annotation.Limits, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{Limits: limits, Logger: logger}
}

// Load returns a new dataset with the documents of both files. Either path
// may be empty, but not both.
func (l *Loader) Load(sdPath, annsPath string, f format.Format) (*Dataset, error) {
	ds := New()
	if err := l.LoadInto(ds, sdPath, annsPath, f); err != nil {
		return nil, err
	}
	return ds, nil
}

// LoadInto appends the documents of both files to ds. Nothing is appended
// when any document fails.
func (l *Loader) LoadInto(ds *Dataset, sdPath, annsPath string, f format.Format) error {
	if sdPath == "" && annsPath == "" {
		return fmt.Errorf("either a structured data file or an annotations file (or both) must be given to load documents")
	}
	if annsPath != "" {
		if _, err := format.ParseFormat(string(f)); err != nil {
			return err
		}
	}

	var fields []annotation.Fields
	if sdPath != "" {
		var err error
		fields, err = file.ReadFields(sdPath)
		if err != nil {
			return err
		}
		l.Logger.Debug("read structured fields", "file", sdPath, "rows", len(fields))
	}

	var anns []*annotation.Annotation
	if annsPath != "" {
		fh, err := file.OpenAnnotations(annsPath)
		if err != nil {
			return err
		}
		defer fh.Close()

		anns, err = l.LoadAnnotations(fh, filepath.Base(annsPath), f)
		if err != nil {
			return err
		}
		l.Logger.Debug("loaded annotations", "file", annsPath, "annotations", len(anns))
	}

	docs, err := Assemble(fields, anns)
	if err != nil {
		return err
	}

	if total := ds.Len() + len(docs); total > l.Limits.MaxRows {
		return annotation.Errorf(annotation.ErrTooManyDocuments, "dataset must contain at most %d documents, got %d", l.Limits.MaxRows, total)
	}

	ds.Documents = append(ds.Documents, docs...)
	l.Logger.Info("successfully loaded documents", "loaded", len(docs), "total", ds.Len())
	return nil
}

// LoadAnnotations decodes and validates a whole annotation file. The first
// failing document aborts the batch.
func (l *Loader) LoadAnnotations(r io.Reader, name string, f format.Format) ([]*annotation.Annotation, error) {
	raws, err := format.DecodeBatch(r, f, l.Logger)
	if err != nil {
		return nil, fmt.Errorf("the .json file (%s) failed to parse: %w", name, err)
	}

	if len(raws) > l.Limits.MaxRows {
		return nil, annotation.Errorf(annotation.ErrTooManyDocuments, "%s must contain at most %d documents, got %d", name, l.Limits.MaxRows, len(raws))
	}

	anns := make([]*annotation.Annotation, 0, len(raws))
	for i, raw := range raws {
		a, err := annotation.Parse(raw, l.Limits)
		if err != nil {
			return nil, fmt.Errorf("the .json file (%s) failed to parse, document %d: %w", name, i, err)
		}
		anns = append(anns, a)
	}
	return anns, nil
}

// Assemble pairs fields and annotations positionally. When only one of them
// is given, the documents carry just that part.
func Assemble(fields []annotation.Fields, anns []*annotation.Annotation) ([]*annotation.Document, error) {
	if len(fields) > 0 && len(anns) > 0 && len(fields) != len(anns) {
		return nil, annotation.Errorf(annotation.ErrDatasetLengthMismatch,
			"mismatch between the length of the structured fields (%d) and the annotations (%d)", len(fields), len(anns))
	}

	n := len(fields)
	if len(anns) > n {
		n = len(anns)
	}

	docs := make([]*annotation.Document, n)
	for i := range docs {
		doc := &annotation.Document{}
		if i < len(fields) {
			doc.Fields = fields[i]
		}
		if i < len(anns) {
			doc.Annotation = anns[i]
		}
		docs[i] = doc
	}
	return docs, nil
}
