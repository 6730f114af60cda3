package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/format"
)

func TestSaveFormats(t *testing.T) {
	ds := loadSmall(t)

	tests := []struct {
		of     OutputFormat
		keys   []string
		reload format.Format
	}{
		{JSON, []string{`"fields"`, `"annotations"`, `"mentions"`}, ""},
		{Spert, []string{`"entities"`, `"head"`, `"tail"`}, format.Spert},
		{Quickgraph, []string{`"original"`, `"source_id"`, `"target_id"`}, format.Quickgraph},
	}

	for _, tt := range tests {
		t.Run(string(tt.of), func(t *testing.T) {
			var buf bytes.Buffer
			if err := ds.Save(&buf, tt.of); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, k := range tt.keys {
				if !strings.Contains(buf.String(), k) {
					t.Errorf("expected %s in output", k)
				}
			}
			if !strings.HasPrefix(buf.String(), "[\n  {") {
				t.Errorf("expected two-space indentation, got %q", buf.String()[:10])
			}

			var back *Dataset
			var err error
			if tt.reload == "" {
				back, err = Decode(buf.Bytes(), annotation.DefaultLimits())
			} else {
				var anns []*annotation.Annotation
				anns, err = NewLoader(annotation.DefaultLimits(), nil).LoadAnnotations(&buf, "out.json", tt.reload)
				back = New()
				for _, a := range anns {
					back.Add(&annotation.Document{Annotation: a})
				}
			}
			if err != nil {
				t.Fatalf("reload: %v", err)
			}

			for i := range ds.Documents {
				if back.Documents[i].Annotation.String() != ds.Documents[i].Annotation.String() {
					t.Errorf("document %d changed after %s round trip", i, tt.of)
				}
			}
		})
	}
}

func TestSaveEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Save(&buf, JSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected [], got %q", buf.String())
	}
}

func TestSaveUnsupported(t *testing.T) {
	err := New().Save(&bytes.Buffer{}, OutputFormat("xml"))
	if !errors.Is(err, annotation.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := New().SaveFile(path, OutputFormat("xml")); err == nil {
		t.Fatalf("expected an error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("no file must be created for an unsupported format")
	}
}

func TestSaveSpertCarriesDocumentIndex(t *testing.T) {
	ds := loadSmall(t)
	idx := 7
	ds.Documents[0].DocumentIndex = &idx

	var buf bytes.Buffer
	if err := ds.Save(&buf, Spert); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var docs []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if docs[0]["document_index"] != float64(7) {
		t.Errorf("expected document_index 7, got %v", docs[0]["document_index"])
	}
	if _, ok := docs[1]["document_index"]; ok {
		t.Errorf("document_index must only be written when set")
	}
}

func TestReadFile(t *testing.T) {
	ds := loadSmall(t)
	path := filepath.Join(t.TempDir(), "small.json")
	if err := ds.SaveFile(path, JSON); err != nil {
		t.Fatal(err)
	}

	back, err := ReadFile(path, annotation.DefaultLimits())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if back.Summary() != ds.Summary() {
		t.Errorf("got %q, want %q", back.Summary(), ds.Summary())
	}

	if _, err := ReadFile(filepath.Join("testdata", "small.csv"), annotation.DefaultLimits()); !errors.Is(err, annotation.ErrUnsupportedFileExtension) {
		t.Errorf("expected ErrUnsupportedFileExtension, got %v", err)
	}

	limits := annotation.DefaultLimits()
	limits.MaxRows = 1
	if _, err := ReadFile(path, limits); !errors.Is(err, annotation.ErrTooManyDocuments) {
		t.Errorf("expected ErrTooManyDocuments, got %v", err)
	}
}
