// Package sentence splits annotated documents into sentence documents on a
// delimiter token.
package sentence

import (
	"fmt"

	"github.com/revelaction/puggle/annotation"
)

const DefaultDelimiter = "."

type Splitter struct {
	Delimiter string
	Limits    annotation.Limits
}

func New(delimiter string, limits annotation.Limits) *Splitter {
	return &Splitter{Delimiter: delimiter, Limits: limits}
}

// Result holds the sentence documents, in token order, and the relations of
// the source document that crossed a sentence boundary.
type Result struct {
	Documents []*annotation.Document
	Removed   []*annotation.Relation
}

type span struct {
	start, end int
}

// Split cuts the document after every delimiter token and at its last token.
// The delimiter is not part of any sentence. Consecutive delimiters produce
// sentences without tokens, which are kept.
func (s *Splitter) Split(doc *annotation.Document) (Result, error) {
	res := Result{Documents: []*annotation.Document{}, Removed: []*annotation.Relation{}}

	a := doc.Annotation
	if a == nil {
		return res, nil
	}

	kept := map[*annotation.Relation]bool{}
	for _, sp := range s.spans(a.Tokens) {
		sa, err := s.rebuild(a, sp, kept)
		if err != nil {
			return Result{}, fmt.Errorf("sentence [%d, %d): %w", sp.start, sp.end, err)
		}
		res.Documents = append(res.Documents, &annotation.Document{
			Fields:     copyFields(doc.Fields),
			Annotation: sa,
		})
	}

	for _, r := range a.Relations {
		if !kept[r] {
			res.Removed = append(res.Removed, r)
		}
	}

	return res, nil
}

func (s *Splitter) spans(tokens []string) []span {
	var spans []span
	start := 0
	for i, tok := range tokens {
		switch {
		case tok == s.Delimiter:
			spans = append(spans, span{start, i})
			start = i + 1
		case i == len(tokens)-1:
			spans = append(spans, span{start, i + 1})
		}
	}
	return spans
}

// rebuild parses the sentence in sp as a new annotation. Relations whose
// endpoints both fall in the sentence are recorded in kept.
func (s *Splitter) rebuild(a *annotation.Annotation, sp span, kept map[*annotation.Relation]bool) (*annotation.Annotation, error) {
	raw := annotation.RawDocument{
		Tokens:    append([]string{}, a.Tokens[sp.start:sp.end]...),
		Mentions:  []annotation.RawMention{},
		Relations: []annotation.RawRelation{},
	}

	local := map[*annotation.Mention]int{}
	for _, m := range a.Mentions {
		if m.Start < sp.start || m.End > sp.end {
			continue
		}
		local[m] = len(raw.Mentions)
		raw.Mentions = append(raw.Mentions, annotation.NewRawMention(m.Start-sp.start, m.End-sp.start, m.Label))
	}

	for _, r := range a.Relations {
		start, ok := local[r.Start]
		if !ok {
			continue
		}
		end, ok := local[r.End]
		if !ok {
			continue
		}
		kept[r] = true
		raw.Relations = append(raw.Relations, annotation.NewRawRelation(start, end, r.Label))
	}

	return annotation.Parse(raw, s.Limits)
}

func copyFields(f annotation.Fields) annotation.Fields {
	if f == nil {
		return nil
	}
	c := make(annotation.Fields, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}
