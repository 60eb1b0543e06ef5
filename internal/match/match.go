// Package match finds existing entities that overlap a proposed change in
// domain, data, and shape.
package match

import (
	"sort"
	"strings"

	"github.com/phobologic/repoadvisor/internal/catalog"
	"github.com/phobologic/repoadvisor/internal/model"
)

// MaxCandidates caps the returned candidate list.
const MaxCandidates = 5

const (
	domainBoost = 2.0
	kindPenalty = 0.5
)

// Candidate pairs an existing entity with its overlap score against a
// proposal. Scores above 1.0 are possible when the domain boost applies.
type Candidate struct {
	Entity  model.Entity
	Overlap float64
}

// FindCandidates returns up to MaxCandidates entities ordered by descending
// overlap, ties broken by lexicographic ID. An empty result is valid and
// signals that creating new code is likely the right branch.
func FindCandidates(cat *catalog.Catalog, proposal model.ChangeProposal) []Candidate {
	want := nameSet(proposal.Fields)

	var candidates []Candidate
	for i := range cat.Entities {
		e := &cat.Entities[i]

		have := make(map[string]struct{}, len(e.Fields))
		for _, f := range e.Fields {
			have[strings.ToLower(f.Name)] = struct{}{}
		}

		score := jaccard(want, have)
		if score == 0 {
			continue
		}
		if proposal.TargetDomain != "" && strings.EqualFold(e.Domain, proposal.TargetDomain) {
			score *= domainBoost
		}
		if proposal.Kind != "" && e.Kind != proposal.Kind {
			score *= kindPenalty
		}

		candidates = append(candidates, Candidate{Entity: *e, Overlap: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Overlap != candidates[j].Overlap {
			return candidates[i].Overlap > candidates[j].Overlap
		}
		return candidates[i].Entity.ID < candidates[j].Entity.ID
	})

	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
