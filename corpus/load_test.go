package corpus

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/format"
)

func loadSmall(t *testing.T) *Dataset {
	t.Helper()
	ds, err := NewLoader(annotation.DefaultLimits(), nil).Load("testdata/small.csv", "testdata/small.json", format.Spert)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return ds
}

func TestLoad(t *testing.T) {
	var logs bytes.Buffer
	l := NewLoader(annotation.DefaultLimits(), slog.New(slog.NewTextHandler(&logs, nil)))

	ds, err := l.Load("testdata/small.csv", "testdata/small.json", format.Spert)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ds.Len() != 3 {
		t.Fatalf("expected 3 documents, got %d", ds.Len())
	}
	if ds.Documents[1].Fields["cost"] != "250" {
		t.Errorf("unexpected fields %v", ds.Documents[1].Fields)
	}
	if got := ds.Summary(); got != "Dataset containing 3 documents, 9 mentions, and 6 relations." {
		t.Errorf("unexpected summary %q", got)
	}
	if ds.String() != "Dataset containing 3 documents." {
		t.Errorf("unexpected string %q", ds.String())
	}
	if !strings.Contains(logs.String(), "loaded=3 total=3") {
		t.Errorf("expected load log, got %q", logs.String())
	}
}

func TestLoadIntoAppends(t *testing.T) {
	l := NewLoader(annotation.DefaultLimits(), nil)
	ds := loadSmall(t)

	if err := l.LoadInto(ds, "", "testdata/small.json", format.Spert); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 6 {
		t.Fatalf("expected 6 documents, got %d", ds.Len())
	}
	if ds.Documents[4].Fields != nil {
		t.Errorf("annotation-only documents must not carry fields")
	}
}

func TestLoadQuickgraphAnnotatorsKeepRowPairing(t *testing.T) {
	ds, err := NewLoader(annotation.DefaultLimits(), nil).Load("testdata/annotators.csv", "testdata/annotators_quickgraph.json", format.Quickgraph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		who   string
		token string
	}{
		{"zoe", "valve"},
		{"alex", "pump"},
	}
	if ds.Len() != len(tests) {
		t.Fatalf("expected %d documents, got %d", len(tests), ds.Len())
	}
	for i, tt := range tests {
		d := ds.Documents[i]
		if d.Fields["who"] != tt.who || d.Annotation.Tokens[0] != tt.token {
			t.Errorf("document %d: expected %s with %q, got %v with %v", i, tt.who, tt.token, d.Fields, d.Annotation.Tokens)
		}
	}
}

func TestLoadOnlyFields(t *testing.T) {
	ds, err := NewLoader(annotation.DefaultLimits(), nil).Load("testdata/small.csv", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 3 || ds.Documents[0].Annotation != nil {
		t.Errorf("expected 3 documents without annotation")
	}
}

func TestLoadErrors(t *testing.T) {
	small := annotation.DefaultLimits()
	small.MaxRows = 2

	tests := []struct {
		name   string
		limits annotation.Limits
		sd     string
		anns   string
		format format.Format
		want   error
	}{
		{"unsupported format", annotation.DefaultLimits(), "", "testdata/small.json", format.Format("conll"), annotation.ErrUnsupportedFormat},
		{"annotations not json", annotation.DefaultLimits(), "", "testdata/small.txt", format.Spert, annotation.ErrUnsupportedFileExtension},
		{"fields not csv", annotation.DefaultLimits(), "testdata/small.json", "", format.Spert, annotation.ErrUnsupportedFileExtension},
		{"length mismatch", annotation.DefaultLimits(), "testdata/short.csv", "testdata/small.json", format.Spert, annotation.ErrDatasetLengthMismatch},
		{"bad document aborts the batch", annotation.DefaultLimits(), "", "testdata/bad_span.json", format.Spert, annotation.ErrInvalidMentionSpan},
		{"too many documents", small, "", "testdata/small.json", format.Spert, annotation.ErrTooManyDocuments},
		{"quickgraph file in spert shape", annotation.DefaultLimits(), "", "testdata/small.json", format.Quickgraph, annotation.ErrMalformedRelation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewLoader(tt.limits, nil).Load(tt.sd, tt.anns, tt.format)
			if ds != nil {
				t.Errorf("expected no dataset")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadNoFiles(t *testing.T) {
	_, err := NewLoader(annotation.DefaultLimits(), nil).Load("", "", format.Spert)
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestLoadErrorNamesFile(t *testing.T) {
	_, err := NewLoader(annotation.DefaultLimits(), nil).Load("", "testdata/bad_span.json", format.Spert)
	if err == nil || !strings.Contains(err.Error(), "bad_span.json") || !strings.Contains(err.Error(), "document 1") {
		t.Fatalf("expected file name and document in error, got %v", err)
	}
}

func TestAssemble(t *testing.T) {
	docs, err := Assemble(nil, nil)
	if err != nil || len(docs) != 0 {
		t.Fatalf("expected no documents, got %v, %v", docs, err)
	}

	docs, err = Assemble([]annotation.Fields{{"id": "1"}}, nil)
	if err != nil || len(docs) != 1 || docs[0].Fields["id"] != "1" {
		t.Fatalf("unexpected result %v, %v", docs, err)
	}
}
