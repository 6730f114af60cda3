package annotation

import (
	"encoding/json"
)

// RawDocument is the canonical, not yet validated, form of one annotated
// document:
//
//	{
//	  "tokens": ["one", "three", "two"],
//	  "mentions": [{"start": 0, "end": 1, "label": "number"}, ...],
//	  "relations": [{"start": 1, "end": 0, "type": "bigger_than"}, ...]
//	}
//
// Spans are 0-based and half-open. A nil slice means the key was absent,
// which Parse rejects. Mentions may also be given under "entities".
type RawDocument struct {
	Tokens    []string      `json:"tokens"`
	Mentions  []RawMention  `json:"mentions,omitempty"`
	Entities  []RawMention  `json:"entities,omitempty"`
	Relations []RawRelation `json:"relations"`
}

// MentionList returns the mentions under whichever key is present, nil when
// neither is.
func (d RawDocument) MentionList() []RawMention {
	if d.Mentions != nil {
		return d.Mentions
	}
	return d.Entities
}

// Flatten rewrites every legacy multi-label mention into the canonical single
// label form, keeping its first label. A mention with an empty label list is
// left without a label.
func (d *RawDocument) Flatten() {
	for _, list := range [][]RawMention{d.Mentions, d.Entities} {
		for i := range list {
			list[i].Label = flatten(list[i].Label)
		}
	}
}

// LabelPayload is the label carried by a raw mention: either a SingleLabel
// (canonical) or a MultiLabel (legacy).
type LabelPayload interface {
	isLabelPayload()
}

type SingleLabel string

// MultiLabel is the legacy representation where a mention carried a list of
// labels and the first one was the effective label.
type MultiLabel []string

func (SingleLabel) isLabelPayload() {}
func (MultiLabel) isLabelPayload()  {}

func flatten(p LabelPayload) LabelPayload {
	ml, ok := p.(MultiLabel)
	if !ok {
		return p
	}
	if len(ml) == 0 {
		return nil
	}
	return SingleLabel(ml[0])
}

type RawMention struct {
	Start *int
	End   *int
	Label LabelPayload
}

func NewRawMention(start, end int, label string) RawMention {
	return RawMention{Start: &start, End: &end, Label: SingleLabel(label)}
}

type rawMentionJSON struct {
	Start  *int     `json:"start"`
	End    *int     `json:"end"`
	Label  *string  `json:"label,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

func (m *RawMention) UnmarshalJSON(data []byte) error {
	var aux rawMentionJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	m.Start = aux.Start
	m.End = aux.End
	m.Label = nil
	switch {
	case aux.Label != nil:
		m.Label = SingleLabel(*aux.Label)
	case aux.Labels != nil:
		m.Label = MultiLabel(aux.Labels)
	}
	return nil
}

func (m RawMention) MarshalJSON() ([]byte, error) {
	aux := rawMentionJSON{Start: m.Start, End: m.End}
	switch l := m.Label.(type) {
	case SingleLabel:
		s := string(l)
		aux.Label = &s
	case MultiLabel:
		aux.Labels = []string(l)
	}
	return json.Marshal(aux)
}

// RawRelation references mentions by their position in the mention list of
// the same document.
type RawRelation struct {
	Start *int    `json:"start"`
	End   *int    `json:"end"`
	Type  *string `json:"type"`
}

func NewRawRelation(start, end int, typ string) RawRelation {
	return RawRelation{Start: &start, End: &end, Type: &typ}
}

// MarshalJSON always writes mentions under the "mentions" key.
func (d RawDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Tokens    []string      `json:"tokens"`
		Mentions  []RawMention  `json:"mentions"`
		Relations []RawRelation `json:"relations"`
	}{d.Tokens, d.MentionList(), d.Relations})
}
