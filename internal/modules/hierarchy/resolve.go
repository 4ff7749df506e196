// Package hierarchy resolves the organisation hierarchy, inherits ratings
// across it, unifies loans/facilities/contingents into a single exposures
// table, and computes lending-group totals for the retail threshold test.
// It is the second pipeline stage, run once per bundle
// after FX conversion.
package hierarchy

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// Resolve is the hierarchy resolver stage. It returns the unified
// exposures table — with hierarchy and rating-inheritance columns
// populated — ready for classifier.Classify, plus any accumulated
// non-fatal errors.
func Resolve(raw bundle.RawDataBundle, maxDepth int) ([]bundle.Exposure, ctypes.Errors) {
	ultimateParent, cycleErrs := resolveUltimateParents(raw.OrgMappings, maxDepth)

	parentOf := make(map[string]string, len(raw.OrgMappings))
	for _, m := range raw.OrgMappings {
		parentOf[m.ChildCounterpartyRef] = m.ParentCounterpartyRef
	}

	direct := bestDirectRatings(raw.Ratings)
	pds := internalPDs(raw.Ratings)

	counterpartyRefs := make([]string, 0, len(raw.Counterparties))
	for _, c := range raw.Counterparties {
		counterpartyRefs = append(counterpartyRefs, c.CounterpartyReference)
	}
	inherited := inheritRatings(counterpartyRefs, direct, parentOf, maxDepth)

	exposures := unifyExposures(raw)
	exposures = resolveParentFacilities(exposures, raw.FacilityMappings)

	rootOf, totals := lendingGroupTotals(exposures, raw.LendingMappings)

	out := make([]bundle.Exposure, len(exposures))
	for i, e := range exposures {
		if parent, ok := ultimateParent[e.CounterpartyRef]; ok {
			e.UltimateParentRef = parent
		} else {
			e.UltimateParentRef = e.CounterpartyRef
		}

		rating, ok := inherited[e.CounterpartyRef]
		if !ok {
			// A counterparty missing from the counterparty table still
			// inherits along the organisation hierarchy.
			rating = inheritRatings([]string{e.CounterpartyRef}, direct, parentOf, maxDepth)[e.CounterpartyRef]
		}
		e.InheritedCQS = rating.CQS
		e.InheritedRatingExternal = rating.IsExternal
		e.InheritedAgency = rating.Agency
		e.InternalPD = pds[e.CounterpartyRef]

		root := groupRootFor(e.CounterpartyRef, rootOf)
		e.LendingGroupRoot = root
		e.LendingGroupTotal = totals[root]

		out[i] = e
	}

	return out, cycleErrs
}
