package hierarchy

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// resolveUltimateParents computes, for every counterparty appearing as a
// child in orgMappings, its ultimate parent by walking the mapping chain
// to a fixed point or maxDepth, whichever comes first. A cycle
// encountered mid-walk is broken at the point
// of detection (the counterparty that would re-visit an ancestor keeps
// its last-known parent) and reported as a non-fatal hierarchy error.
func resolveUltimateParents(orgMappings []bundle.OrgMapping, maxDepth int) (map[string]string, ctypes.Errors) {
	parentOf := make(map[string]string, len(orgMappings))
	for _, m := range orgMappings {
		parentOf[m.ChildCounterpartyRef] = m.ParentCounterpartyRef
	}

	ultimate := make(map[string]string, len(parentOf))
	var errs ctypes.Errors

	for child := range parentOf {
		current := child
		visited := map[string]bool{child: true}
		depth := 0
		for depth < maxDepth {
			next, ok := parentOf[current]
			if !ok {
				break
			}
			if visited[next] {
				errs = errs.Add(ctypes.New(
					"HIERARCHY_CYCLE",
					"cycle detected in organisation hierarchy; breaking at "+next,
					ctypes.SeverityError,
					ctypes.CategoryHierarchy,
				).WithCounterparty(child))
				break
			}
			visited[next] = true
			current = next
			depth++
		}
		ultimate[child] = current
	}
	return ultimate, errs
}
