package file

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/revelaction/puggle/annotation"
)

func TestCheckExtension(t *testing.T) {
	tests := []struct {
		path    string
		ext     string
		wantErr bool
	}{
		{"data/anns.json", JSONExt, false},
		{"data/anns.JSON", JSONExt, true},
		{"data/anns.txt", JSONExt, true},
		{"data/fields.csv", CSVExt, false},
		{"data/fields.csv.json", CSVExt, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := CheckExtension(tt.path, tt.ext)
			if tt.wantErr != (err != nil) {
				t.Fatalf("CheckExtension(%q, %q) = %v", tt.path, tt.ext, err)
			}
			if err != nil && !errors.Is(err, annotation.ErrUnsupportedFileExtension) {
				t.Errorf("expected ErrUnsupportedFileExtension, got %v", err)
			}
		})
	}
}

func TestReadFields(t *testing.T) {
	rows, err := ReadFields("testdata/fields.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["short_text"] != "pump leaking" || rows[0]["cost"] != "12.5" {
		t.Errorf("unexpected first row %v", rows[0])
	}
	if rows[1]["cost"] != "" {
		t.Errorf("expected empty cost, got %v", rows[1]["cost"])
	}
}

func TestDecodeFieldsShortRow(t *testing.T) {
	rows, err := DecodeFields(strings.NewReader("a,b\n1\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0]["a"] != "1" || rows[0]["b"] != nil {
		t.Errorf("unexpected row %v", rows[0])
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSON(path, []string{"a<b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "[\n  \"a<b\"\n]\n" {
		t.Errorf("unexpected output %q", data)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(path, []string{"a", "b"}, [][]string{{"1", "x,y"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "a,b\n1,\"x,y\"\n" {
		t.Errorf("unexpected output %q", data)
	}
}
