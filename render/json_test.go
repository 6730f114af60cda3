package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/stat"
)

func numbers(t *testing.T) *annotation.Document {
	t.Helper()
	a, err := annotation.Parse(annotation.RawDocument{
		Tokens: []string{"one", "three", "two"},
		Mentions: []annotation.RawMention{
			annotation.NewRawMention(0, 1, "number"),
			annotation.NewRawMention(1, 2, "number"),
		},
		Relations: []annotation.RawRelation{annotation.NewRawRelation(1, 0, "bigger_than")},
	}, annotation.DefaultLimits())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return &annotation.Document{Fields: annotation.Fields{"id": "1"}, Annotation: a}
}

func TestJSONRendererFieldsEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	r.Fields(nil)

	var results []stat.FieldInfo
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if results == nil || len(results) != 0 {
		t.Fatalf("expected an empty list, got %v", results)
	}
}

func TestJSONRendererDocument(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	r.Document(5, numbers(t))

	var result struct {
		Index    int `json:"index"`
		Document struct {
			Fields      map[string]string `json:"fields"`
			Annotations struct {
				Tokens    []string `json:"tokens"`
				Relations []struct {
					Start int    `json:"start"`
					End   int    `json:"end"`
					Type  string `json:"type"`
				} `json:"relations"`
			} `json:"annotations"`
		} `json:"document"`
	}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if result.Index != 5 {
		t.Errorf("expected index 5, got %d", result.Index)
	}

	if result.Document.Fields["id"] != "1" {
		t.Errorf("expected field id '1', got %q", result.Document.Fields["id"])
	}

	if len(result.Document.Annotations.Relations) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(result.Document.Annotations.Relations))
	}

	rel := result.Document.Annotations.Relations[0]
	if rel.Start != 1 || rel.End != 0 || rel.Type != "bigger_than" {
		t.Errorf("unexpected relation %+v", rel)
	}
}

func TestJSONRendererSplitReport(t *testing.T) {
	var buf bytes.Buffer
	NewJSONRenderer(&buf).SplitReport(corpus.SplitReport{Documents: 2, Sentences: 3, RemovedRelations: 1, RemovedPerDocument: map[int]int{1: 1}, AverageRemovedPerDocument: 0.5})

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if result["removed_relations"] != float64(1) || result["average_removed_per_document"] != 0.5 {
		t.Errorf("unexpected report %v", result)
	}
}
