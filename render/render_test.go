package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/stat"
)

func TestTextRendererDocument(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)
	r.Document(0, numbers(t))

	want := "0 id=1\n" +
		"0 one three two\n" +
		"    0 one [number]\n" +
		"    1 three [number]\n" +
		"    1 -[bigger_than]-> 0  (three)-[bigger_than]->(one)\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTextRendererMentionsFormat(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)
	r.Format = "mentions"
	r.Document(0, &annotation.Document{Annotation: numbers(t).Annotation})

	if strings.Contains(buf.String(), "one three two") {
		t.Errorf("text must not be rendered in mentions format: %q", buf.String())
	}
}

func TestTextRendererColor(t *testing.T) {
	r := &TextRenderer{HasColor: true}
	s := r.AnnotatedString(numbers(t).Annotation)

	if !strings.Contains(s, Yellow256+"one"+Off) {
		t.Errorf("expected first label color around the mention, got %q", s)
	}
	if !strings.HasSuffix(s, " two") {
		t.Errorf("tokens outside mentions are not colored, got %q", s)
	}
}

func TestTextRendererStats(t *testing.T) {
	ds := corpus.New()
	ds.Add(numbers(t))

	var buf bytes.Buffer
	NewTextRenderer(&buf).Stats(stat.Dataset(ds))

	for _, want := range []string{"tokens/document:  3.00", "mentions:         2", "entity labels:", "     2 number", "relation labels:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}
}

func TestTextRendererSplitReport(t *testing.T) {
	var buf bytes.Buffer
	NewTextRenderer(&buf).SplitReport(corpus.SplitReport{Documents: 3, Sentences: 5, RemovedRelations: 3, RemovedPerDocument: map[int]int{2: 1, 0: 2}, AverageRemovedPerDocument: 1})

	out := buf.String()
	if !strings.Contains(out, "removed relations:  3 (1.00 per document)") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.Index(out, "document 0: 2") > strings.Index(out, "document 2: 1") {
		t.Errorf("documents must be listed in order: %q", out)
	}
}
