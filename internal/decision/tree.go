// Package decision implements the extend-or-create engine: a fixed-order
// decision tree feeding a weighted complexity scorer. Both are pure
// functions over an explicit proposal value; nothing here mutates the
// catalog or persists state between proposals.
package decision

import (
	"strings"

	"github.com/phobologic/repoadvisor/internal/advisorerr"
	"github.com/phobologic/repoadvisor/internal/match"
	"github.com/phobologic/repoadvisor/internal/model"
)

// Decision tree terminals.
const (
	TerminalUseAsIs     = "can-use-as-is"
	TerminalCanExtend   = "can-extend"
	TerminalReusable    = "reusable-elsewhere"
	TerminalFallthrough = "fallthrough"
)

const (
	useAsIsOverlap   = 0.9
	canExtendOverlap = 0.4
	reusableMinSites = 2
)

// Decide runs the decision tree over a proposal and its matcher candidates,
// invoking the complexity scorer only when no terminal short-circuits.
// States are visited in fixed order with no backtracking:
//
//  1. CanUseAsIs: top overlap ≥ 0.9 with an exact kind match.
//  2. CanExtend: top overlap in [0.4, 0.9) and extending is estimated
//     cheaper than writing from scratch → scorer, Extend polarity.
//  3. ReusableElsewhere: at least 2 other call sites would consume the
//     same new abstraction.
//  4. Otherwise → scorer, Create polarity.
func Decide(proposal model.ChangeProposal, candidates []match.Candidate) (model.Recommendation, error) {
	if err := Validate(proposal); err != nil {
		return model.Recommendation{}, err
	}

	if len(candidates) > 0 {
		top := candidates[0]

		if top.Overlap >= useAsIsOverlap && top.Entity.Kind == proposal.Kind {
			return model.Recommendation{
				Action:   model.UseExisting,
				Terminal: TerminalUseAsIs,
			}, nil
		}

		if top.Overlap >= canExtendOverlap && top.Overlap < useAsIsOverlap &&
			proposal.EstimatedExtendLines < proposal.EstimatedNaiveLines {
			rec := Score(proposal, PolarityExtend)
			rec.Terminal = TerminalCanExtend
			return rec, nil
		}
	}

	if proposal.OtherCallSites >= reusableMinSites {
		return model.Recommendation{
			Action:   model.CreateNew,
			Terminal: TerminalReusable,
		}, nil
	}

	rec := Score(proposal, PolarityCreate)
	rec.Terminal = TerminalFallthrough
	return rec, nil
}

// Validate checks the proposal's required fields.
func Validate(proposal model.ChangeProposal) error {
	if strings.TrimSpace(proposal.Description) == "" {
		return advisorerr.New(advisorerr.InvalidProposal, "description is required")
	}
	for key := range proposal.Criteria {
		if !knownCriterion(key) {
			return advisorerr.New(advisorerr.InvalidProposal, "unknown criterion "+key)
		}
	}
	return nil
}

func knownCriterion(key string) bool {
	for _, c := range Criteria {
		if c.Key == key {
			return true
		}
	}
	return false
}
