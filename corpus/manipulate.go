package corpus

import (
	"strings"

	"github.com/revelaction/puggle/annotation"
)

// The manipulation methods modify the dataset's annotations in place.
// Documents shared with another dataset (see the samplers) see the change
// too; Clone the dataset first to keep the original.

// DropEntityClass removes the mentions labelled label and every relation
// touching one of them. It returns the number of mentions removed.
func (ds *Dataset) DropEntityClass(label string) int {
	removed := 0
	ds.each(func(a *annotation.Annotation) {
		dropped := map[*annotation.Mention]bool{}
		mentions := a.Mentions[:0]
		for _, m := range a.Mentions {
			if m.Label == label {
				dropped[m] = true
				continue
			}
			mentions = append(mentions, m)
		}
		if len(dropped) == 0 {
			return
		}
		removed += len(dropped)
		a.Mentions = mentions

		relations := a.Relations[:0]
		for _, r := range a.Relations {
			if dropped[r.Start] || dropped[r.End] {
				continue
			}
			relations = append(relations, r)
		}
		a.Relations = relations
		a.Reindex()
	})
	return removed
}

// DropRelationClass removes the relations labelled label. It returns the
// number removed.
func (ds *Dataset) DropRelationClass(label string) int {
	removed := 0
	ds.each(func(a *annotation.Annotation) {
		relations := a.Relations[:0]
		for _, r := range a.Relations {
			if r.Label == label {
				removed++
				continue
			}
			relations = append(relations, r)
		}
		a.Relations = relations
	})
	return removed
}

// ConvertEntityClass relabels mentions from one class to another. Mentions
// that become duplicates are merged.
func (ds *Dataset) ConvertEntityClass(from, to string) int {
	return ds.relabelMentions(func(label string) string {
		if label == from {
			return to
		}
		return label
	})
}

func (ds *Dataset) ConvertRelationClass(from, to string) int {
	return ds.relabelRelations(func(label string) string {
		if label == from {
			return to
		}
		return label
	})
}

// FlattenEntityClasses collapses hierarchical labels such as
// "item/mechanical/pump" into their root class "item".
func (ds *Dataset) FlattenEntityClasses() int {
	return ds.relabelMentions(Root)
}

func (ds *Dataset) FlattenRelationClasses() int {
	return ds.relabelRelations(Root)
}

// Root returns the top class of a "/" separated label.
func Root(label string) string {
	root, _, _ := strings.Cut(label, "/")
	return root
}

func (ds *Dataset) relabelMentions(fn func(string) string) int {
	changed := 0
	ds.each(func(a *annotation.Annotation) {
		n := 0
		for _, m := range a.Mentions {
			if l := fn(m.Label); l != m.Label {
				m.Label = l
				n++
			}
		}
		if n > 0 {
			changed += n
			a.Dedupe()
		}
	})
	return changed
}

func (ds *Dataset) relabelRelations(fn func(string) string) int {
	changed := 0
	ds.each(func(a *annotation.Annotation) {
		for _, r := range a.Relations {
			if l := fn(r.Label); l != r.Label {
				r.Label = l
				changed++
			}
		}
	})
	return changed
}

func (ds *Dataset) each(fn func(a *annotation.Annotation)) {
	for _, d := range ds.Documents {
		if d.Annotation != nil {
			fn(d.Annotation)
		}
	}
}

// Clone deep copies every document.
func (ds *Dataset) Clone() *Dataset {
	c := &Dataset{Documents: make([]*annotation.Document, len(ds.Documents))}
	for i, d := range ds.Documents {
		c.Documents[i] = d.Clone()
	}
	return c
}
