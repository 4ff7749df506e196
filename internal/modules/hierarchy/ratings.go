package hierarchy

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// resolvedRating is the rating attributed to a counterparty after
// inheritance: either its own best direct rating, or the best rating of
// an ancestor.
type resolvedRating struct {
	CQS        ctypes.CQS
	IsExternal bool
	Agency     string
}

// betterRating reports whether a candidate rating should replace the
// current best under the "prefer external, tighter CQS" rule. A
// not-yet-set current always loses.
func betterRating(hasCurrent bool, current resolvedRating, candidateExternal bool, candidateCQS ctypes.CQS) bool {
	if !hasCurrent {
		return true
	}
	if candidateExternal != current.IsExternal {
		return candidateExternal
	}
	return candidateCQS < current.CQS
}

// bestDirectRatings picks, per counterparty, the single best rating among
// its own direct ratings by the external-then-tightest-CQS rule. Internal
// PDs are carried through for exact-match (non-inherited) use.
func bestDirectRatings(ratings []bundle.Rating) map[string]resolvedRating {
	best := make(map[string]resolvedRating, len(ratings))
	hasBest := make(map[string]bool, len(ratings))
	for _, r := range ratings {
		external := r.RatingType == ctypes.RatingExternal
		if betterRating(hasBest[r.CounterpartyRef], best[r.CounterpartyRef], external, r.CQS) {
			best[r.CounterpartyRef] = resolvedRating{CQS: r.CQS, IsExternal: external, Agency: r.Agency}
			hasBest[r.CounterpartyRef] = true
		}
	}
	return best
}

// internalPDs picks, per counterparty, the PD of its own best internal
// rating (tightest CQS wins). Kept separate from bestDirectRatings so an
// external rating winning the CQS/agency slot never discards the
// counterparty's modelled PD, which the IRB calculators need regardless.
func internalPDs(ratings []bundle.Rating) map[string]*float64 {
	bestCQS := make(map[string]ctypes.CQS, len(ratings))
	out := make(map[string]*float64, len(ratings))
	for _, r := range ratings {
		if r.RatingType != ctypes.RatingInternal || r.PD == nil {
			continue
		}
		if current, ok := bestCQS[r.CounterpartyRef]; ok && current <= r.CQS {
			continue
		}
		bestCQS[r.CounterpartyRef] = r.CQS
		out[r.CounterpartyRef] = r.PD
	}
	return out
}

// inheritRatings returns, for every counterparty, the rating to use after
// inheritance: its own best direct rating if present, else the best
// external rating found walking up parentOf from it, else the zero value
// (unrated). Internal PDs are never inherited: only the
// CQS/agency of an ancestor's external rating propagates.
func inheritRatings(counterpartyRefs []string, direct map[string]resolvedRating, parentOf map[string]string, maxDepth int) map[string]resolvedRating {
	out := make(map[string]resolvedRating, len(counterpartyRefs))
	for _, ref := range counterpartyRefs {
		if r, ok := direct[ref]; ok {
			out[ref] = r
			continue
		}
		var best resolvedRating
		hasBest := false
		current := ref
		visited := map[string]bool{ref: true}
		for depth := 0; depth < maxDepth; depth++ {
			parent, ok := parentOf[current]
			if !ok || visited[parent] {
				break
			}
			visited[parent] = true
			if r, ok := direct[parent]; ok && r.IsExternal {
				if betterRating(hasBest, best, true, r.CQS) {
					best = resolvedRating{CQS: r.CQS, IsExternal: true, Agency: r.Agency}
					hasBest = true
				}
			}
			current = parent
		}
		out[ref] = best
	}
	return out
}
