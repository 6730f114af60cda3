package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/revelaction/puggle/annotation"
)

type QuickgraphEntity struct {
	ID    *string `json:"id"`
	Start *int    `json:"start"`
	// inclusive
	End   *int    `json:"end"`
	Label *string `json:"label"`
}

type QuickgraphRelation struct {
	ID       *string `json:"id,omitempty"`
	SourceID *string `json:"source_id"`
	TargetID *string `json:"target_id"`
	Label    *string `json:"label"`
}

type QuickgraphDocument struct {
	Original  string               `json:"original,omitempty"`
	Tokens    []string             `json:"tokens"`
	Entities  []QuickgraphEntity   `json:"entities"`
	Relations []QuickgraphRelation `json:"relations"`

	// false marks a document the annotator has not finished
	Saved *bool `json:"saved,omitempty"`
}

// NormalizeQuickgraph gives each entity its positional index, makes the end
// exclusive and resolves relation ids to those indices.
func NormalizeQuickgraph(qd QuickgraphDocument) (annotation.RawDocument, error) {
	raw := annotation.RawDocument{
		Tokens:    qd.Tokens,
		Entities:  make([]annotation.RawMention, 0, len(qd.Entities)),
		Relations: make([]annotation.RawRelation, 0, len(qd.Relations)),
	}

	idx := map[string]int{}
	for i, e := range qd.Entities {
		if e.ID != nil {
			idx[*e.ID] = i
		}

		m := annotation.RawMention{Start: e.Start}
		if e.End != nil {
			m.End = intp(*e.End + 1)
		}
		if e.Label != nil {
			m.Label = annotation.SingleLabel(*e.Label)
		}
		raw.Entities = append(raw.Entities, m)
	}

	for i, r := range qd.Relations {
		if r.SourceID == nil || r.TargetID == nil || r.Label == nil {
			return annotation.RawDocument{}, annotation.Errorf(annotation.ErrMalformedRelation, "relation %d must have source_id, target_id, label", i)
		}

		start, ok := idx[*r.SourceID]
		if !ok {
			return annotation.RawDocument{}, annotation.Errorf(annotation.ErrDanglingMentionReference, "relation %d references unknown entity id %q", i, *r.SourceID)
		}
		end, ok := idx[*r.TargetID]
		if !ok {
			return annotation.RawDocument{}, annotation.Errorf(annotation.ErrDanglingMentionReference, "relation %d references unknown entity id %q", i, *r.TargetID)
		}

		raw.Relations = append(raw.Relations, annotation.NewRawRelation(start, end, *r.Label))
	}

	return raw, nil
}

// DecodeQuickgraphBatch reads either a list of documents or an object mapping
// annotator names to lists. Annotators are concatenated in file order, so
// documents keep their position relative to the structured fields rows.
// Documents with "saved": false are dropped.
func DecodeQuickgraphBatch(data []byte, logger *slog.Logger) ([]QuickgraphDocument, error) {
	var docs []QuickgraphDocument

	if isObject(data) {
		names, lists, err := decodeAnnotators(data)
		if err != nil {
			return nil, malformed(err)
		}

		if len(names) > 1 && logger != nil {
			logger.Warn("loading multiple annotators' annotations, this may result in duplicate nodes", "annotators", names)
		}

		for _, l := range lists {
			docs = append(docs, l...)
		}
	} else {
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, malformed(err)
		}
	}

	saved := docs[:0]
	for _, d := range docs {
		if d.Saved != nil && !*d.Saved {
			continue
		}
		saved = append(saved, d)
	}
	return saved, nil
}

// decodeAnnotators walks the annotator object key by key. A map would lose
// the order of the keys.
func decodeAnnotators(data []byte) ([]string, [][]QuickgraphDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}

	var (
		names []string
		lists [][]QuickgraphDocument
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected annotator key %v", tok)
		}

		var l []QuickgraphDocument
		if err := dec.Decode(&l); err != nil {
			return nil, nil, fmt.Errorf("annotator %q: %w", name, err)
		}
		names = append(names, name)
		lists = append(lists, l)
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return names, lists, nil
}

// ToQuickgraph is the inverse of NormalizeQuickgraph. Entity ids are the
// 1-based mention positions.
func ToQuickgraph(a *annotation.Annotation) QuickgraphDocument {
	qd := QuickgraphDocument{
		Tokens:    []string{},
		Entities:  []QuickgraphEntity{},
		Relations: []QuickgraphRelation{},
	}
	if a == nil {
		return qd
	}

	qd.Original = strings.Join(a.Tokens, " ")
	qd.Tokens = a.Tokens
	for i, m := range a.Mentions {
		qd.Entities = append(qd.Entities, QuickgraphEntity{
			ID:    strp(strconv.Itoa(i + 1)),
			Start: intp(m.Start),
			End:   intp(m.End - 1),
			Label: strp(m.Label),
		})
	}
	for _, r := range a.Relations {
		qd.Relations = append(qd.Relations, QuickgraphRelation{
			SourceID: strp(strconv.Itoa(r.Start.ID + 1)),
			TargetID: strp(strconv.Itoa(r.End.ID + 1)),
			Label:    strp(r.Label),
		})
	}
	return qd
}
