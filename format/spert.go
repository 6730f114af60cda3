package format

import (
	"github.com/revelaction/puggle/annotation"
)

type SpertEntity struct {
	Start *int    `json:"start"`
	End   *int    `json:"end"`
	Type  *string `json:"type"`
}

type SpertRelation struct {
	Head *int    `json:"head"`
	Tail *int    `json:"tail"`
	Type *string `json:"type"`
}

type SpertDocument struct {
	Tokens    []string        `json:"tokens"`
	Entities  []SpertEntity   `json:"entities"`
	Relations []SpertRelation `json:"relations"`

	// set on sentence documents
	DocumentIndex *int `json:"document_index,omitempty"`
}

// NormalizeSpert renames type to label on entities and head/tail to
// start/end on relations. Absent entity or relation lists become empty.
func NormalizeSpert(sd SpertDocument) annotation.RawDocument {
	raw := annotation.RawDocument{
		Tokens:    sd.Tokens,
		Entities:  make([]annotation.RawMention, 0, len(sd.Entities)),
		Relations: make([]annotation.RawRelation, 0, len(sd.Relations)),
	}

	for _, e := range sd.Entities {
		m := annotation.RawMention{Start: e.Start, End: e.End}
		if e.Type != nil {
			m.Label = annotation.SingleLabel(*e.Type)
		}
		raw.Entities = append(raw.Entities, m)
	}

	for _, r := range sd.Relations {
		raw.Relations = append(raw.Relations, annotation.RawRelation{Start: r.Head, End: r.Tail, Type: r.Type})
	}

	return raw
}

// ToSpert is the inverse of NormalizeSpert for a parsed document. A document
// without annotation is written with empty lists.
func ToSpert(doc *annotation.Document) SpertDocument {
	sd := SpertDocument{
		Tokens:        []string{},
		Entities:      []SpertEntity{},
		Relations:     []SpertRelation{},
		DocumentIndex: doc.DocumentIndex,
	}

	a := doc.Annotation
	if a == nil {
		return sd
	}

	sd.Tokens = a.Tokens
	for _, m := range a.Mentions {
		sd.Entities = append(sd.Entities, SpertEntity{Start: intp(m.Start), End: intp(m.End), Type: strp(m.Label)})
	}
	for _, r := range a.Relations {
		sd.Relations = append(sd.Relations, SpertRelation{Head: intp(r.Start.ID), Tail: intp(r.End.ID), Type: strp(r.Label)})
	}
	return sd
}

func intp(i int) *int       { return &i }
func strp(s string) *string { return &s }
