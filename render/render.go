package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/stat"
)

const Defaultformat = "all"

var (
	Red       = "\033[1;31m"
	Green     = "\033[1;32m"
	Yellow    = "\033[0;33m"
	Purple    = "\033[1;34m"
	Teal      = "\033[1;36m"
	Gray      = "\033[0;37m"
	Off       = "\033[0m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
)

// labelColors cycle over entity labels in order of appearance
var labelColors = []string{Yellow256, Green256, Teal, Purple, Red, Green}

func SupportedFormats() []string {
	return []string{"all", "mentions"}
}

// Renderer writes documents, statistics and reports.
type Renderer interface {
	Document(idx int, doc *annotation.Document)
	Dataset(ds *corpus.Dataset)
	Stats(s stat.Stats)
	SplitReport(rep corpus.SplitReport)
	Fields(infos []stat.FieldInfo)
}

type TextRenderer struct {
	W io.Writer

	HasColor bool

	// Format determines how the annotated text is shown
	//
	// all: the whole text, mention tokens highlighted, followed by mentions and relations
	// mentions: only the mentions and relations
	Format string

	colors map[string]string
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{W: w, Format: Defaultformat, colors: map[string]string{}}
}

func (r *TextRenderer) Document(idx int, doc *annotation.Document) {
	prefix := fmt.Sprintf("%s%d%s ", r.color(Grey256), idx, r.off())
	if doc.DocumentIndex != nil {
		prefix += fmt.Sprintf("%s(from %d)%s ", r.color(Gray), *doc.DocumentIndex, r.off())
	}

	if len(doc.Fields) > 0 {
		fmt.Fprintf(r.W, "%s%s\n", prefix, r.fields(doc.Fields))
	}

	a := doc.Annotation
	if a == nil {
		fmt.Fprintf(r.W, "%s-\n", prefix)
		return
	}

	if r.Format != "mentions" {
		fmt.Fprintf(r.W, "%s%s\n", prefix, r.AnnotatedString(a))
	}

	for _, m := range a.Mentions {
		fmt.Fprintf(r.W, "    %d %s [%s%s%s]\n", m.ID, strings.Join(m.Tokens, " "), r.labelColor(m.Label), m.Label, r.off())
	}
	for _, rel := range a.Relations {
		fmt.Fprintf(r.W, "    %d -[%s]-> %d  %s\n", rel.Start.ID, rel.Label, rel.End.ID, rel)
	}
}

func (r *TextRenderer) Dataset(ds *corpus.Dataset) {
	for i, d := range ds.Documents {
		r.Document(i, d)
	}
}

// AnnotatedString returns the tokens of a joined by spaces, each token
// covered by a mention colored by the label of the first such mention.
func (r *TextRenderer) AnnotatedString(a *annotation.Annotation) string {
	covering := make([]*annotation.Mention, len(a.Tokens))
	for _, m := range a.Mentions {
		for i := m.Start; i < m.End; i++ {
			if covering[i] == nil {
				covering[i] = m
			}
		}
	}

	var str strings.Builder
	for i, t := range a.Tokens {
		if i > 0 {
			str.WriteString(" ")
		}
		if m := covering[i]; m != nil && r.HasColor {
			str.WriteString(r.labelColor(m.Label) + t + Off)
			continue
		}
		str.WriteString(t)
	}
	return str.String()
}

func (r *TextRenderer) Stats(s stat.Stats) {
	fmt.Fprintf(r.W, "documents:        %d (%d annotated)\n", s.Documents, s.AnnotatedDocuments)
	fmt.Fprintf(r.W, "tokens:           %d (%d unique)\n", s.Tokens, s.UniqueTokens)
	fmt.Fprintf(r.W, "tokens/document:  %.2f\n", s.TokensPerDocumentMean)
	fmt.Fprintf(r.W, "mentions:         %d\n", s.Mentions)
	fmt.Fprintf(r.W, "relations:        %d\n", s.Relations)

	r.labelCounts("entity labels", s.EntityLabels)
	r.labelCounts("entity labels (documents)", s.EntityLabelsByDocument)
	r.labelCounts("relation labels", s.RelationLabels)
}

func (r *TextRenderer) labelCounts(title string, lc stat.LabelCounts) {
	if len(lc) == 0 {
		return
	}
	fmt.Fprintf(r.W, "\n%s:\n", title)
	for _, c := range lc {
		fmt.Fprintf(r.W, "    %6d %s%s%s\n", c.Count, r.labelColor(c.Label), c.Label, r.off())
	}
}

func (r *TextRenderer) SplitReport(rep corpus.SplitReport) {
	fmt.Fprintf(r.W, "documents:          %d\n", rep.Documents)
	fmt.Fprintf(r.W, "sentences:          %d\n", rep.Sentences)
	fmt.Fprintf(r.W, "removed relations:  %d (%.2f per document)\n", rep.RemovedRelations, rep.AverageRemovedPerDocument)

	idxs := make([]int, 0, len(rep.RemovedPerDocument))
	for i := range rep.RemovedPerDocument {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	for _, i := range idxs {
		fmt.Fprintf(r.W, "    document %d: %d\n", i, rep.RemovedPerDocument[i])
	}
}

func (r *TextRenderer) Fields(infos []stat.FieldInfo) {
	for _, f := range infos {
		fmt.Fprintf(r.W, "%s%s%s %s (%d)", r.color(Yellow), f.Name, r.off(), f.Kind, f.Distinct)
		if len(f.Values) > 0 {
			fmt.Fprintf(r.W, ": %s", strings.Join(f.Values, ", "))
		}
		fmt.Fprintln(r.W)
	}
}

func (r *TextRenderer) fields(f annotation.Fields) string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, f[k]))
	}
	return strings.Join(parts, " ")
}

func (r *TextRenderer) labelColor(label string) string {
	if !r.HasColor {
		return ""
	}
	if r.colors == nil {
		r.colors = map[string]string{}
	}
	c, ok := r.colors[label]
	if !ok {
		c = labelColors[len(r.colors)%len(labelColors)]
		r.colors[label] = c
	}
	return c
}

func (r *TextRenderer) color(c string) string {
	if !r.HasColor {
		return ""
	}
	return c
}

func (r *TextRenderer) off() string {
	return r.color(Off)
}

// compile-time interface check
var _ Renderer = (*TextRenderer)(nil)
