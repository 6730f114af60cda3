package graph

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/corpus"
)

type call struct {
	cypher string
	params map[string]any
}

type fakeRunner struct {
	pingErr error
	failAt  int
	calls   []call
}

func (f *fakeRunner) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeRunner) Run(ctx context.Context, cypher string, params map[string]any) error {
	f.calls = append(f.calls, call{cypher, params})
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return errors.New("constraint violated")
	}
	return nil
}

func doc(t *testing.T, fields annotation.Fields, tokens []string, mentions []annotation.RawMention, relations []annotation.RawRelation) *annotation.Document {
	t.Helper()
	a, err := annotation.Parse(annotation.RawDocument{Tokens: tokens, Mentions: mentions, Relations: relations}, annotation.DefaultLimits())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return &annotation.Document{Fields: fields, Annotation: a}
}

func numbers(t *testing.T, fields annotation.Fields) *annotation.Document {
	return doc(t, fields,
		[]string{"one", "three", "two"},
		[]annotation.RawMention{
			annotation.NewRawMention(0, 1, "number"),
			annotation.NewRawMention(1, 2, "number"),
			annotation.NewRawMention(2, 3, "number"),
		},
		[]annotation.RawRelation{
			annotation.NewRawRelation(1, 0, "bigger_than"),
			annotation.NewRawRelation(1, 2, "bigger_than"),
		})
}

func pump(t *testing.T) *annotation.Document {
	return doc(t, annotation.Fields{"id": "2"},
		[]string{"pump", "pump", "leaks"},
		[]annotation.RawMention{
			annotation.NewRawMention(0, 1, "item"),
			annotation.NewRawMention(1, 2, "item"),
			annotation.NewRawMention(2, 3, "observation"),
		},
		[]annotation.RawRelation{
			annotation.NewRawRelation(0, 1, "same_as"),
			annotation.NewRawRelation(0, 2, "has_observation"),
		})
}

func dataset(t *testing.T) *corpus.Dataset {
	ds := corpus.New()
	ds.Add(numbers(t, annotation.Fields{"id": "1", "cost": "10"}))
	ds.Add(pump(t))
	ds.Add(&annotation.Document{Fields: annotation.Fields{"id": "3", "note": nil}})
	ds.Add(numbers(t, annotation.Fields{"id": "4"}))
	return ds
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"number", "`number`"},
		{"item/seal", "`item/seal`"},
		{"a`b", "`a``b`"},
		{"x]->(y) DETACH DELETE y //", "`x]->(y) DETACH DELETE y //`"},
	}

	for _, tt := range tests {
		if got := quote(tt.input); got != tt.want {
			t.Errorf("quote(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDocumentStatements(t *testing.T) {
	stmts := DocumentStatements(0, numbers(t, annotation.Fields{"id": "1"}))
	if len(stmts) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(stmts))
	}

	if stmts[0].Cypher != mergeDocument || stmts[0].Params["doc_idx"] != 0 {
		t.Errorf("unexpected document statement %+v", stmts[0])
	}

	fields, ok := stmts[1].Params["fields"].(map[string]any)
	if !ok || fields["id"] != "1" {
		t.Errorf("unexpected fields statement %+v", stmts[1])
	}

	rel := stmts[2]
	if !strings.Contains(rel.Cypher, "MERGE (e1:Entity:`number` {name: $start})") {
		t.Errorf("missing start entity in %q", rel.Cypher)
	}
	if !strings.Contains(rel.Cypher, "MERGE (e1)-[:`bigger_than`]->(e2)") {
		t.Errorf("missing relationship in %q", rel.Cypher)
	}
	if rel.Params["start"] != "three" || rel.Params["end"] != "one" {
		t.Errorf("unexpected params %v", rel.Params)
	}
}

func TestDocumentStatementsSkipsSelfNamedRelations(t *testing.T) {
	stmts := DocumentStatements(1, pump(t))
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	if stmts[2].Params["end"] != "leaks" {
		t.Errorf("unexpected relation statement %+v", stmts[2])
	}
}

func TestDocumentStatementsWithoutAnnotation(t *testing.T) {
	stmts := DocumentStatements(2, &annotation.Document{})
	if len(stmts) != 1 {
		t.Fatalf("expected only the document node, got %d", len(stmts))
	}
}

func TestStatements(t *testing.T) {
	if got := len(Statements(dataset(t))); got != 13 {
		t.Errorf("expected 13 statements, got %d", got)
	}
}

func TestMaterialize(t *testing.T) {
	ds := dataset(t)

	tests := []struct {
		name      string
		recreate  bool
		wantCalls int
	}{
		{"append", false, 13},
		{"recreate", true, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			m := NewMaterializer(runner, nil)

			var last int
			m.Progress = func(current, total int) { last = current }

			if err := m.Materialize(context.Background(), ds, tt.recreate); err != nil {
				t.Fatalf("Materialize: %v", err)
			}

			if len(runner.calls) != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, len(runner.calls))
			}
			if tt.recreate && runner.calls[0].cypher != clearGraph {
				t.Errorf("first call = %q, want clear", runner.calls[0].cypher)
			}
			if last != ds.Len() {
				t.Errorf("progress ended at %d, want %d", last, ds.Len())
			}
		})
	}
}

func TestMaterializeUnavailable(t *testing.T) {
	runner := &fakeRunner{pingErr: errors.New("connection refused")}

	err := NewMaterializer(runner, nil).Materialize(context.Background(), dataset(t), true)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("expected no statements, got %d", len(runner.calls))
	}
}

func TestMaterializeStopsAtFirstFailure(t *testing.T) {
	runner := &fakeRunner{failAt: 5}

	err := NewMaterializer(runner, nil).Materialize(context.Background(), dataset(t), false)
	if err == nil || !strings.Contains(err.Error(), "document 1") {
		t.Fatalf("expected failure in document 1, got %v", err)
	}
	if len(runner.calls) != 5 {
		t.Errorf("expected 5 calls, got %d", len(runner.calls))
	}
}

func TestMaterializeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMaterializer(&fakeRunner{}, nil).Materialize(ctx, dataset(t), false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBuildTables(t *testing.T) {
	tables := BuildTables(dataset(t))

	if want := []string{"doc_idx", "cost", "id", "note"}; !reflect.DeepEqual(tables.DocumentHeader, want) {
		t.Errorf("header = %v, want %v", tables.DocumentHeader, want)
	}

	wantDocs := [][]string{
		{"0", "10", "1", ""},
		{"1", "", "2", ""},
		{"2", "", "3", ""},
		{"3", "", "4", ""},
	}
	if !reflect.DeepEqual(tables.Documents, wantDocs) {
		t.Errorf("documents = %v", tables.Documents)
	}

	wantEntities := [][]string{
		{"0", "number", "one"},
		{"1", "number", "three"},
		{"2", "number", "two"},
		{"3", "item", "pump"},
		{"4", "observation", "leaks"},
	}
	if !reflect.DeepEqual(tables.Entities, wantEntities) {
		t.Errorf("entities = %v", tables.Entities)
	}

	if len(tables.DocumentEntities) != 8 {
		t.Errorf("expected 8 document entities, got %v", tables.DocumentEntities)
	}

	wantRelations := [][]string{
		{"0", "1", "0", "number", "three", "number", "one", "bigger_than", "2"},
		{"1", "1", "2", "number", "three", "number", "two", "bigger_than", "2"},
		{"2", "3", "3", "item", "pump", "item", "pump", "same_as", "1"},
		{"3", "3", "4", "item", "pump", "observation", "leaks", "has_observation", "1"},
	}
	if !reflect.DeepEqual(tables.Relations, wantRelations) {
		t.Errorf("relations = %v", tables.Relations)
	}
}

func TestWriteCSVs(t *testing.T) {
	dir := t.TempDir()
	paths := CSVPaths{
		Documents:        filepath.Join(dir, "documents.csv"),
		Entities:         filepath.Join(dir, "entities.csv"),
		Relations:        filepath.Join(dir, "relations.csv"),
		DocumentEntities: filepath.Join(dir, "document_entities.csv"),
	}

	if _, err := WriteCSVs(dataset(t), paths, nil); err != nil {
		t.Fatalf("WriteCSVs: %v", err)
	}

	f, err := os.Open(paths.Relations)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 5 || !reflect.DeepEqual(records[0], RelationHeader) {
		t.Errorf("unexpected relations file %v", records)
	}
}

func TestWriteCSVsRejectsExtension(t *testing.T) {
	dir := t.TempDir()
	paths := CSVPaths{
		Documents:        filepath.Join(dir, "documents.csv"),
		Entities:         filepath.Join(dir, "entities.txt"),
		Relations:        filepath.Join(dir, "relations.csv"),
		DocumentEntities: filepath.Join(dir, "document_entities.csv"),
	}

	_, err := WriteCSVs(dataset(t), paths, nil)
	if !errors.Is(err, annotation.ErrUnsupportedFileExtension) {
		t.Fatalf("expected ErrUnsupportedFileExtension, got %v", err)
	}
	if _, err := os.Stat(paths.Documents); !os.IsNotExist(err) {
		t.Error("no file should be written")
	}
}
