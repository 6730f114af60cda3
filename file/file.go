// Package file is the filesystem boundary: it checks file extensions and
// reads and writes the files datasets are loaded from and saved to.
package file

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/revelaction/puggle/annotation"
)

const (
	JSONExt = ".json"
	CSVExt  = ".csv"
)

// CheckExtension fails with ErrUnsupportedFileExtension unless path ends in
// ext.
func CheckExtension(path, ext string) error {
	if filepath.Ext(path) != ext {
		return annotation.Errorf(annotation.ErrUnsupportedFileExtension, "file must be a %s file: %s", ext, filepath.Base(path))
	}
	return nil
}

// OpenAnnotations opens an annotation file, which must be a JSON file.
func OpenAnnotations(path string) (*os.File, error) {
	if err := CheckExtension(path, JSONExt); err != nil {
		return nil, err
	}
	return os.Open(path)
}

// ReadFields reads the structured data of path, a CSV file whose first row
// names the columns. Each following row becomes the fields of one document.
func ReadFields(path string) ([]annotation.Fields, error) {
	if err := CheckExtension(path, CSVExt); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fields, err := DecodeFields(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return fields, nil
}

// DecodeFields reads CSV rows keyed by the header row. Values are kept as
// strings.
func DecodeFields(r io.Reader) ([]annotation.Fields, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return []annotation.Fields{}, nil
	}
	if err != nil {
		return nil, err
	}

	rows := []annotation.Fields{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(annotation.Fields, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = nil
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// WriteJSON writes v to path as two-space indented JSON.
func WriteJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := EncodeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteCSV writes a header and its rows to path.
func WriteCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
