package annotation

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Annotation is the validated annotation of one document: its tokens, the
// de-duplicated mentions over them and the relations between those mentions.
type Annotation struct {
	Tokens    []string
	Mentions  []*Mention
	Relations []*Relation
}

// Parse validates a raw document and builds its Annotation. Checks run in a
// fixed order and the first violation is returned; no partial Annotation is
// ever built.
func Parse(raw RawDocument, limits Limits) (*Annotation, error) {
	rawMentions := raw.MentionList()
	if raw.Tokens == nil {
		return nil, Errorf(ErrMalformedDocument, "document must contain tokens, mentions and relations")
	}
	if rawMentions == nil {
		return nil, Errorf(ErrMalformedDocument, "document has neither a 'mentions' nor an 'entities' key")
	}
	if raw.Relations == nil {
		return nil, Errorf(ErrMalformedDocument, "document must contain tokens, mentions and relations")
	}

	long := ""
	for _, t := range raw.Tokens {
		if utf8.RuneCountInString(t) > limits.MaxWordLength {
			long = t
		}
	}
	if long != "" {
		return nil, Errorf(ErrTokenTooLong, "word must be at most %d characters long: %s", limits.MaxWordLength, long)
	}

	if len(raw.Tokens) > limits.MaxSentLength {
		return nil, Errorf(ErrSentenceTooLong, "sentence must contain at most %d words, got %d", limits.MaxSentLength, len(raw.Tokens))
	}

	a := &Annotation{
		Tokens:    raw.Tokens,
		Mentions:  []*Mention{},
		Relations: []*Relation{},
	}

	lookup, err := a.parseMentions(rawMentions)
	if err != nil {
		return nil, err
	}

	if err := a.parseRelations(raw.Relations, lookup); err != nil {
		return nil, err
	}

	return a, nil
}

// parseMentions returns, for every input position, the surviving mention.
// Duplicates (same start, end and label) resolve to the first occurrence.
func (a *Annotation) parseMentions(raws []RawMention) ([]*Mention, error) {
	seen := map[mentionKey]*Mention{}
	lookup := make([]*Mention, len(raws))

	for i, rm := range raws {
		if rm.Start == nil || rm.End == nil || rm.Label == nil {
			return nil, Errorf(ErrMalformedMention, "mention %d must have start, end, label", i)
		}

		label, ok := rm.Label.(SingleLabel)
		if !ok {
			return nil, Errorf(ErrMalformedMention, "mention %d carries a multi-label payload, flatten the document first", i)
		}

		start, end := *rm.Start, *rm.End
		if start == end {
			return nil, Errorf(ErrInvalidMentionSpan, "mention %d has an empty span (start: %d, end: %d)", i, start, end)
		}
		if start < 0 || end > len(a.Tokens) || start > end {
			return nil, Errorf(ErrInvalidMentionSpan, "mention %d span (start: %d, end: %d) is outside %d tokens", i, start, end, len(a.Tokens))
		}

		m := &Mention{
			Start:  start,
			End:    end,
			Tokens: a.Tokens[start:end],
			Label:  string(label),
		}

		if prev, dup := seen[m.key()]; dup {
			lookup[i] = prev
			continue
		}

		m.ID = len(a.Mentions)
		seen[m.key()] = m
		a.Mentions = append(a.Mentions, m)
		lookup[i] = m
	}

	return lookup, nil
}

func (a *Annotation) parseRelations(raws []RawRelation, lookup []*Mention) error {
	for i, rr := range raws {
		if rr.Start == nil || rr.End == nil || rr.Type == nil {
			return Errorf(ErrMalformedRelation, "relation %d must have start, end, type", i)
		}

		start, end := *rr.Start, *rr.End
		if start == end {
			return Errorf(ErrInvalidRelation, "relation %d starts and ends at mention %d", i, start)
		}
		if start < 0 || start >= len(lookup) || end < 0 || end >= len(lookup) {
			return Errorf(ErrDanglingMentionReference, "the mention corresponding to the relation with start: %d and end: %d was not found", start, end)
		}

		r, err := NewRelation(lookup[start], lookup[end], *rr.Type)
		if err != nil {
			return err
		}
		a.Relations = append(a.Relations, r)
	}

	return nil
}

// Reindex reassigns mention ids to their list positions. Call it after
// removing mentions.
func (a *Annotation) Reindex() {
	for i, m := range a.Mentions {
		m.ID = i
	}
}

// Raw returns the canonical raw form. Parsing it again yields an equivalent
// Annotation.
func (a *Annotation) Raw() RawDocument {
	raw := RawDocument{
		Tokens:    append([]string{}, a.Tokens...),
		Mentions:  make([]RawMention, 0, len(a.Mentions)),
		Relations: make([]RawRelation, 0, len(a.Relations)),
	}
	for _, m := range a.Mentions {
		raw.Mentions = append(raw.Mentions, NewRawMention(m.Start, m.End, m.Label))
	}
	for _, r := range a.Relations {
		raw.Relations = append(raw.Relations, NewRawRelation(r.Start.ID, r.End.ID, r.Label))
	}
	return raw
}

type mentionJSON struct {
	Start  int      `json:"start"`
	End    int      `json:"end"`
	Tokens []string `json:"tokens"`
	Label  string   `json:"label"`
}

type relationJSON struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
}

type annotationJSON struct {
	Tokens    []string       `json:"tokens"`
	Mentions  []mentionJSON  `json:"mentions"`
	Relations []relationJSON `json:"relations"`
}

func (a *Annotation) MarshalJSON() ([]byte, error) {
	aux := annotationJSON{
		Tokens:    a.Tokens,
		Mentions:  make([]mentionJSON, 0, len(a.Mentions)),
		Relations: make([]relationJSON, 0, len(a.Relations)),
	}
	if aux.Tokens == nil {
		aux.Tokens = []string{}
	}
	for _, m := range a.Mentions {
		aux.Mentions = append(aux.Mentions, mentionJSON{Start: m.Start, End: m.End, Tokens: m.Tokens, Label: m.Label})
	}
	for _, r := range a.Relations {
		aux.Relations = append(aux.Relations, relationJSON{Start: r.Start.ID, End: r.End.ID, Type: r.Label})
	}
	return json.Marshal(aux)
}

func (a *Annotation) String() string {
	mentions := "-"
	if len(a.Mentions) > 0 {
		parts := make([]string, len(a.Mentions))
		for i, m := range a.Mentions {
			parts[i] = m.String()
		}
		mentions = strings.Join(parts, "\n  ")
	}

	relations := "-"
	if len(a.Relations) > 0 {
		parts := make([]string, len(a.Relations))
		for i, r := range a.Relations {
			parts[i] = r.String()
		}
		relations = strings.Join(parts, "\n  ")
	}

	return fmt.Sprintf("Tokens: %s\nMentions:  \n  %s\nRelations: \n  %s\n", strings.Join(a.Tokens, " "), mentions, relations)
}

func (a *Annotation) Clone() *Annotation {
	c := &Annotation{
		Tokens:    append([]string{}, a.Tokens...),
		Mentions:  make([]*Mention, len(a.Mentions)),
		Relations: make([]*Relation, len(a.Relations)),
	}
	byOld := make(map[*Mention]*Mention, len(a.Mentions))
	for i, m := range a.Mentions {
		nm := *m
		nm.Tokens = c.Tokens[m.Start:m.End]
		c.Mentions[i] = &nm
		byOld[m] = &nm
	}
	for i, r := range a.Relations {
		c.Relations[i] = &Relation{Start: byOld[r.Start], End: byOld[r.End], Label: r.Label}
	}
	return c
}

// Dedupe merges mentions that became equal (same span and label) after a
// relabelling. Relations are moved to the surviving mention and those that
// end up connecting a mention to itself are dropped. Mention ids are
// reindexed. It returns the number of mentions merged.
func (a *Annotation) Dedupe() int {
	seen := map[mentionKey]*Mention{}
	survivor := map[*Mention]*Mention{}
	kept := a.Mentions[:0]
	for _, m := range a.Mentions {
		if prev, dup := seen[m.key()]; dup {
			survivor[m] = prev
			continue
		}
		seen[m.key()] = m
		survivor[m] = m
		kept = append(kept, m)
	}
	merged := len(a.Mentions) - len(kept)
	a.Mentions = kept

	relations := a.Relations[:0]
	for _, r := range a.Relations {
		r.Start, r.End = survivor[r.Start], survivor[r.End]
		if r.Start == r.End {
			continue
		}
		relations = append(relations, r)
	}
	a.Relations = relations

	a.Reindex()
	return merged
}
