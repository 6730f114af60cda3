package stat

import (
	"fmt"
	"sort"

	"github.com/revelaction/puggle/corpus"
)

// FieldKind tells how a structured field can be used, for instance as a
// filter over the graph.
type FieldKind string

const (
	Categorical FieldKind = "categorical"
	Free        FieldKind = "free"
)

type FieldInfo struct {
	Name     string    `json:"name"`
	Kind     FieldKind `json:"kind"`
	Distinct int       `json:"distinct"`

	// only for categorical fields, sorted
	Values []string `json:"values,omitempty"`
}

// FieldCategories classifies every structured field of ds. A field with at
// most maxCategories distinct values is categorical. Fields are returned by
// name.
func FieldCategories(ds *corpus.Dataset, maxCategories int) []FieldInfo {
	values := map[string]map[string]bool{}
	for _, d := range ds.Documents {
		for k, v := range d.Fields {
			if values[k] == nil {
				values[k] = map[string]bool{}
			}
			if v == nil {
				continue
			}
			values[k][fmt.Sprint(v)] = true
		}
	}

	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)

	infos := make([]FieldInfo, 0, len(names))
	for _, name := range names {
		info := FieldInfo{Name: name, Kind: Free, Distinct: len(values[name])}
		if info.Distinct <= maxCategories {
			info.Kind = Categorical
			for v := range values[name] {
				info.Values = append(info.Values, v)
			}
			sort.Strings(info.Values)
		}
		infos = append(infos, info)
	}
	return infos
}
