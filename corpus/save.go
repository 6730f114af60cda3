package corpus

import (
	"io"
	"os"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/file"
	"github.com/revelaction/puggle/format"
)

type OutputFormat string

const (
	// JSON is the native format, the Document JSON form
	JSON       OutputFormat = "json"
	Spert      OutputFormat = "spert"
	Quickgraph OutputFormat = "quickgraph"
)

var OutputFormats = []OutputFormat{JSON, Spert, Quickgraph}

func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case JSON, Spert, Quickgraph:
		return OutputFormat(s), nil
	}
	return "", annotation.Errorf(annotation.ErrUnsupportedFormat, "output format must be one of %v, got %q", OutputFormats, s)
}

// Save writes the dataset to w as indented JSON in the output format of.
func (ds *Dataset) Save(w io.Writer, of OutputFormat) error {
	if _, err := ParseOutputFormat(string(of)); err != nil {
		return err
	}

	var v any
	switch of {
	case Spert:
		docs := make([]format.SpertDocument, 0, ds.Len())
		for _, d := range ds.Documents {
			docs = append(docs, format.ToSpert(d))
		}
		v = docs
	case Quickgraph:
		docs := make([]format.QuickgraphDocument, 0, ds.Len())
		for _, d := range ds.Documents {
			docs = append(docs, format.ToQuickgraph(d.Annotation))
		}
		v = docs
	default:
		v = ds
	}

	return file.EncodeJSON(w, v)
}

// SaveFile is Save to the file at path.
func (ds *Dataset) SaveFile(path string, of OutputFormat) error {
	if _, err := ParseOutputFormat(string(of)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ds.Save(f, of); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
