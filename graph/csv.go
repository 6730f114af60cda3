package graph

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/file"
	"github.com/revelaction/puggle/logging"
)

// CSVPaths names the four files of a neo4j-admin bulk import.
type CSVPaths struct {
	Documents        string
	Entities         string
	Relations        string
	DocumentEntities string
}

var (
	EntityHeader         = []string{"entity_idx", "label", "tokens"}
	RelationHeader       = []string{"rel_idx", "e1_idx", "e2_idx", "e1_label", "e1_tokens", "e2_label", "e2_tokens", "rel_label", "frequency"}
	DocumentEntityHeader = []string{"doc_idx", "entity_idx"}
)

// Tables holds the rows of every import file. Rows are in first-seen order.
type Tables struct {
	DocumentHeader   []string
	Documents        [][]string
	Entities         [][]string
	Relations        [][]string
	DocumentEntities [][]string
}

type entityKey struct {
	label, tokens string
}

type relationKey struct {
	e1, e2 int
	label  string
}

// BuildTables computes the import rows of ds. Entities are distinct
// (label, text) pairs; relations are distinct (e1, e2, type) triples counted
// by frequency. The document header is doc_idx followed by the sorted union
// of all field names.
func BuildTables(ds *corpus.Dataset) Tables {
	var t Tables

	names := fieldNames(ds)
	t.DocumentHeader = append([]string{"doc_idx"}, names...)

	entities := map[entityKey]int{}
	docEntities := map[[2]int]bool{}
	relations := map[relationKey]int{}
	var freq []int

	entityIdx := func(m *annotation.Mention) int {
		k := entityKey{m.Label, strings.Join(m.Tokens, " ")}
		idx, ok := entities[k]
		if !ok {
			idx = len(entities)
			entities[k] = idx
			t.Entities = append(t.Entities, []string{strconv.Itoa(idx), k.label, k.tokens})
		}
		return idx
	}

	for i, doc := range ds.Documents {
		row := []string{strconv.Itoa(i)}
		for _, name := range names {
			row = append(row, fieldValue(doc.Fields[name]))
		}
		t.Documents = append(t.Documents, row)

		if doc.Annotation == nil {
			continue
		}

		for _, m := range doc.Annotation.Mentions {
			k := [2]int{i, entityIdx(m)}
			if !docEntities[k] {
				docEntities[k] = true
				t.DocumentEntities = append(t.DocumentEntities, []string{strconv.Itoa(k[0]), strconv.Itoa(k[1])})
			}
		}

		for _, rel := range doc.Annotation.Relations {
			k := relationKey{entityIdx(rel.Start), entityIdx(rel.End), rel.Label}
			idx, ok := relations[k]
			if !ok {
				idx = len(t.Relations)
				relations[k] = idx
				t.Relations = append(t.Relations, []string{
					strconv.Itoa(idx),
					strconv.Itoa(k.e1),
					strconv.Itoa(k.e2),
					rel.Start.Label,
					strings.Join(rel.Start.Tokens, " "),
					rel.End.Label,
					strings.Join(rel.End.Tokens, " "),
					rel.Label,
				})
				freq = append(freq, 0)
			}
			freq[idx]++
		}
	}

	for i := range t.Relations {
		t.Relations[i] = append(t.Relations[i], strconv.Itoa(freq[i]))
	}

	return t
}

func fieldNames(ds *corpus.Dataset) []string {
	seen := map[string]bool{}
	var names []string
	for _, doc := range ds.Documents {
		for name := range doc.Fields {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func fieldValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// WriteCSVs writes the import tables of ds to paths.
func WriteCSVs(ds *corpus.Dataset, paths CSVPaths, logger *slog.Logger) (Tables, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	t := BuildTables(ds)

	files := []struct {
		name   string
		path   string
		header []string
		rows   [][]string
	}{
		{"documents", paths.Documents, t.DocumentHeader, t.Documents},
		{"entities", paths.Entities, EntityHeader, t.Entities},
		{"relations", paths.Relations, RelationHeader, t.Relations},
		{"document entities", paths.DocumentEntities, DocumentEntityHeader, t.DocumentEntities},
	}

	for _, f := range files {
		if err := file.CheckExtension(f.path, file.CSVExt); err != nil {
			return Tables{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	for _, f := range files {
		if err := file.WriteCSV(f.path, f.header, f.rows); err != nil {
			return Tables{}, fmt.Errorf("%s: %w", f.name, err)
		}
		logger.Info("saved csv", "kind", f.name, "rows", len(f.rows), "path", f.path)
	}

	return t, nil
}
