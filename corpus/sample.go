package corpus

import (
	"fmt"
	"math/rand"

	"github.com/revelaction/puggle/annotation"
)

// The samplers return new datasets sharing their documents with ds.

// RandomSample picks n distinct documents uniformly at random.
func (ds *Dataset) RandomSample(r *rand.Rand, n int) (*Dataset, error) {
	if n < 0 || n > ds.Len() {
		return nil, fmt.Errorf("sample size %d must be between 0 and %d", n, ds.Len())
	}

	out := New()
	for _, i := range r.Perm(ds.Len())[:n] {
		out.Add(ds.Documents[i])
	}
	return out, nil
}

// RandomSplit shuffles the documents into 80% train, 10% dev and 10% test.
func (ds *Dataset) RandomSplit(r *rand.Rand) (train, dev, test *Dataset) {
	train, dev, test = New(), New(), New()

	n := ds.Len()
	trainEnd := int(float64(n) * 0.8)
	devEnd := int(float64(n) * 0.9)

	for pos, i := range r.Perm(n) {
		doc := ds.Documents[i]
		switch {
		case pos < trainEnd:
			train.Add(doc)
		case pos < devEnd:
			dev.Add(doc)
		default:
			test.Add(doc)
		}
	}
	return train, dev, test
}

// SmartSample builds samples candidate sets of n documents and returns the
// most diverse one. Each set starts from a random document and grows
// greedily with the document whose tokens, entity labels and relation labels
// are least present in the set so far.
func (ds *Dataset) SmartSample(r *rand.Rand, n, samples int) (*Dataset, error) {
	if n < 1 || n > ds.Len() {
		return nil, fmt.Errorf("sample size %d must be between 1 and %d", n, ds.Len())
	}
	if samples < 1 {
		return nil, fmt.Errorf("number of samples must be positive, got %d", samples)
	}

	profiles := make([]*profile, ds.Len())
	for i, d := range ds.Documents {
		profiles[i] = newProfile(d)
	}

	var best []int
	bestQuality := -1.0
	for s := 0; s < samples; s++ {
		set := []int{r.Intn(ds.Len())}
		in := map[int]bool{set[0]: true}

		for len(set) < n {
			group := make([]*profile, len(set))
			for k, i := range set {
				group[k] = profiles[i]
			}

			pick, pickScore := -1, -1.0
			for i, p := range profiles {
				if in[i] {
					continue
				}
				if score := p.score(group); score > pickScore {
					pick, pickScore = i, score
				}
			}
			set = append(set, pick)
			in[pick] = true
		}

		quality := 0.0
		for _, i := range set {
			quality += profiles[i].score(profiles)
		}
		quality /= float64(len(set))

		if quality > bestQuality {
			best, bestQuality = set, quality
		}
	}

	out := New()
	for _, i := range best {
		out.Add(ds.Documents[i])
	}
	return out, nil
}

// profile holds what the novelty score looks at in a document.
type profile struct {
	tokens    []string
	entities  []string
	relations []string

	tokenSet    map[string]bool
	entitySet   map[string]bool
	relationSet map[string]bool
}

func newProfile(d *annotation.Document) *profile {
	p := &profile{tokenSet: map[string]bool{}, entitySet: map[string]bool{}, relationSet: map[string]bool{}}
	a := d.Annotation
	if a == nil {
		return p
	}

	p.tokens = a.Tokens
	for _, t := range a.Tokens {
		p.tokenSet[t] = true
	}
	for _, m := range a.Mentions {
		p.entities = append(p.entities, m.Label)
		p.entitySet[m.Label] = true
	}
	for _, r := range a.Relations {
		p.relations = append(p.relations, r.Label)
		p.relationSet[r.Label] = true
	}
	return p
}

// score is the mean of the token, entity and relation novelty of p with
// respect to group. Higher is more novel.
func (p *profile) score(group []*profile) float64 {
	tokens := novelty(p.tokens, group, func(o *profile) map[string]bool { return o.tokenSet })
	entities := novelty(p.entities, group, func(o *profile) map[string]bool { return o.entitySet })
	relations := novelty(p.relations, group, func(o *profile) map[string]bool { return o.relationSet })
	return (tokens + entities + relations) / 3
}

// novelty is 1 minus the mean, over items, of the fraction of the group
// containing the item. An empty item list scores 0.
func novelty(items []string, group []*profile, set func(*profile) map[string]bool) float64 {
	if len(items) == 0 || len(group) == 0 {
		return 0
	}

	total := 0.0
	for _, item := range items {
		freq := 0
		for _, o := range group {
			if set(o)[item] {
				freq++
			}
		}
		total += float64(freq) / float64(len(group))
	}
	return 1 - total/float64(len(items))
}
