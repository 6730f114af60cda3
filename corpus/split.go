package corpus

import (
	"fmt"

	"github.com/revelaction/puggle/sentence"
)

// SplitReport describes the relations lost by splitting documents into
// sentences.
type SplitReport struct {
	Documents        int `json:"documents"`
	Sentences        int `json:"sentences"`
	RemovedRelations int `json:"removed_relations"`

	// removed relations by source document index, only documents that lost
	// relations
	RemovedPerDocument map[int]int `json:"removed_per_document"`

	AverageRemovedPerDocument float64 `json:"average_removed_per_document"`
}

// SplitSentences returns a new dataset made of the sentences of every
// document. Each sentence's DocumentIndex is the position of its source
// document in ds.
func (ds *Dataset) SplitSentences(s *sentence.Splitter) (*Dataset, SplitReport, error) {
	out := New()
	report := SplitReport{Documents: ds.Len(), RemovedPerDocument: map[int]int{}}

	for i, doc := range ds.Documents {
		res, err := s.Split(doc)
		if err != nil {
			return nil, SplitReport{}, fmt.Errorf("document %d: %w", i, err)
		}

		for _, sd := range res.Documents {
			idx := i
			sd.DocumentIndex = &idx
			out.Add(sd)
		}

		if n := len(res.Removed); n > 0 {
			report.RemovedPerDocument[i] = n
			report.RemovedRelations += n
		}
	}

	report.Sentences = out.Len()
	if report.Documents > 0 {
		report.AverageRemovedPerDocument = float64(report.RemovedRelations) / float64(report.Documents)
	}

	return out, report, nil
}
