package annotation

import (
	"fmt"
	"strings"
)

// Mention is a labelled span of tokens. Start is inclusive, End exclusive.
type Mention struct {
	Start  int
	End    int
	Tokens []string
	Label  string

	// position in the mention list of its Annotation
	ID int
}

func (m *Mention) String() string {
	return fmt.Sprintf("(%s [%s]) (start: %d, end: %d)", strings.Join(m.Tokens, " "), m.Label, m.Start, m.End)
}

type mentionKey struct {
	start, end int
	label      string
}

func (m *Mention) key() mentionKey {
	return mentionKey{start: m.Start, end: m.End, label: m.Label}
}

// Relation is a directed, labelled edge between two distinct mentions of the
// same Annotation.
type Relation struct {
	Start *Mention
	End   *Mention
	Label string
}

// NewRelation fails when both endpoints are the same mention.
func NewRelation(start, end *Mention, label string) (*Relation, error) {
	if start == end {
		return nil, Errorf(ErrInvalidRelation, "relation %q starts and ends at the same mention %s", label, start)
	}
	return &Relation{Start: start, End: end, Label: label}, nil
}

func (r *Relation) String() string {
	return fmt.Sprintf("(%s)-[%s]->(%s)", strings.Join(r.Start.Tokens, " "), r.Label, strings.Join(r.End.Tokens, " "))
}
