package decision

import "github.com/phobologic/repoadvisor/internal/model"

// Polarity selects which weight column applies: Extend when the decision
// tree reached CanExtend, Create otherwise.
type Polarity int

const (
	PolarityExtend Polarity = iota
	PolarityCreate
)

func (p Polarity) String() string {
	if p == PolarityExtend {
		return "extend"
	}
	return "create"
}

// Criterion is one row of the fixed scoring table.
type Criterion struct {
	Key    string
	Extend int
	Create int
}

// Criteria is the fixed scoring table, in rationale order.
var Criteria = []Criterion{
	{"similar-data-structure", 3, -3},
	{"existing-index-covers", 2, -2},
	{"related-read-operation", 3, -3},
	{"display-element-exists", 2, -2},
	{"small-extension", 3, -3},
	{"circular-dependency", -5, 5},
	{"different-domain", -3, 3},
	{"many-owning-teams", -2, 2},
	{"fragile-existing-code", -2, 2},
	{"different-caching", -2, 2},
}

// Decision thresholds, in extend-oriented space.
const (
	extendThreshold = 5
	createThreshold = -5
)

// Score sums the weighted criteria of a proposal under the given polarity.
// Every criterion is recorded in the rationale in table order; a criterion
// that does not apply contributes zero. The middle band between the
// thresholds is never auto-decided: it always yields Reconsider.
func Score(proposal model.ChangeProposal, polarity Polarity) model.Recommendation {
	raw := 0
	rationale := make([]model.Contribution, 0, len(Criteria))

	for _, c := range Criteria {
		applies := proposal.Criteria[c.Key]
		weight := c.Extend
		if polarity == PolarityCreate {
			weight = c.Create
		}
		contribution := 0
		if applies {
			contribution = weight
			raw += weight
		}
		rationale = append(rationale, model.Contribution{
			Criterion:    c.Key,
			Applies:      applies,
			Contribution: contribution,
		})
	}

	// Weights are polarity-oriented, so a Create-branch score flips sign
	// before thresholding in extend-oriented space.
	effective := raw
	if polarity == PolarityCreate {
		effective = -raw
	}

	var action model.Action
	switch {
	case effective >= extendThreshold:
		action = model.Extend
	case effective <= createThreshold:
		action = model.CreateNew
	default:
		action = model.Reconsider
	}

	return model.Recommendation{
		Action:    action,
		Score:     raw,
		Rationale: rationale,
	}
}
