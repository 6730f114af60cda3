package stat

import (
	"sort"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/corpus"
)

type Handler struct {
	stats Stats

	tokens map[string]bool

	entities   *counter
	byDocument *counter
	relations  *counter
}

type Stats struct {
	Documents             int     `json:"documents"`
	AnnotatedDocuments    int     `json:"annotated_documents"`
	Tokens                int     `json:"tokens"`
	UniqueTokens          int     `json:"unique_tokens"`
	Mentions              int     `json:"mentions"`
	Relations             int     `json:"relations"`
	TokensPerDocumentMean float64 `json:"tokens_per_document_mean"`

	// Label frequencies. EntityLabelsByDocument counts the documents a
	// label appears in.
	EntityLabels           LabelCounts `json:"entity_labels"`
	EntityLabelsByDocument LabelCounts `json:"entity_labels_by_document"`
	RelationLabels         LabelCounts `json:"relation_labels"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LabelCounts is sorted by count, highest first. Equal counts keep the order
// in which the labels were first seen.
type LabelCounts []LabelCount

func (h *Handler) Get() Stats {
	s := h.stats
	s.UniqueTokens = len(h.tokens)
	if s.AnnotatedDocuments > 0 {
		s.TokensPerDocumentMean = float64(s.Tokens) / float64(s.AnnotatedDocuments)
	}
	s.EntityLabels = h.entities.sorted()
	s.EntityLabelsByDocument = h.byDocument.sorted()
	s.RelationLabels = h.relations.sorted()
	return s
}

func NewHandler() *Handler {
	return &Handler{
		tokens:     map[string]bool{},
		entities:   newCounter(),
		byDocument: newCounter(),
		relations:  newCounter(),
	}
}

func (h *Handler) Aggregate(doc *annotation.Document) {
	h.stats.Documents++

	a := doc.Annotation
	if a == nil {
		return
	}
	h.stats.AnnotatedDocuments++
	h.stats.Tokens += len(a.Tokens)
	h.stats.Mentions += len(a.Mentions)
	h.stats.Relations += len(a.Relations)

	for _, t := range a.Tokens {
		h.tokens[t] = true
	}

	seen := map[string]bool{}
	for _, m := range a.Mentions {
		h.entities.add(m.Label)
		if !seen[m.Label] {
			h.byDocument.add(m.Label)
			seen[m.Label] = true
		}
	}
	for _, r := range a.Relations {
		h.relations.add(r.Label)
	}
}

// Dataset aggregates every document of ds.
func Dataset(ds *corpus.Dataset) Stats {
	h := NewHandler()
	for _, d := range ds.Documents {
		h.Aggregate(d)
	}
	return h.Get()
}

type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) sorted() LabelCounts {
	lc := make(LabelCounts, 0, len(c.order))
	for _, l := range c.order {
		lc = append(lc, LabelCount{Label: l, Count: c.counts[l]})
	}
	sort.SliceStable(lc, func(i, j int) bool { return lc[i].Count > lc[j].Count })
	return lc
}
