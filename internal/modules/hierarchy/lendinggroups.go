package hierarchy

import "github.com/aristath/rwa-engine/internal/bundle"

// lendingGroupTotals computes, for each lending-group root, the sum of
// drawn + nominal amount across every exposure belonging to a
// counterparty mapped into that group. Counterparties not present in
// lendingMappings form their own
// singleton group keyed by their own reference.
func lendingGroupTotals(exposures []bundle.Exposure, lendingMappings []bundle.LendingMapping) (rootOf map[string]string, totals map[string]float64) {
	rootOf = make(map[string]string, len(lendingMappings))
	for _, m := range lendingMappings {
		rootOf[m.CounterpartyReference] = m.LendingGroupRoot
	}

	exposureByCounterparty := make(map[string]float64)
	for _, e := range exposures {
		exposureByCounterparty[e.CounterpartyRef] += e.DrawnAmount + e.NominalAmount
	}

	totals = make(map[string]float64, len(exposureByCounterparty))
	for cpty, total := range exposureByCounterparty {
		root, ok := rootOf[cpty]
		if !ok {
			root = cpty
		}
		totals[root] += total
	}
	return rootOf, totals
}

// groupRootFor returns the lending-group root for a counterparty,
// defaulting to the counterparty's own reference when it belongs to no
// explicit lending mapping.
func groupRootFor(counterpartyRef string, rootOf map[string]string) string {
	if root, ok := rootOf[counterpartyRef]; ok {
		return root
	}
	return counterpartyRef
}
