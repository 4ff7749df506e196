package pipeline

import (
	"sort"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// streamingGroupSize is the target number of exposures per row group under
// the streaming strategy. Groups never split a counterparty: the CRM
// waterfall and the supporting-factor tiers aggregate per counterparty and
// per facility, and a facility's children always share one counterparty,
// so whole-counterparty groups preserve the in-memory semantics exactly.
const streamingGroupSize = 4096

// streamingMemoryThreshold is the available-memory floor below which
// AutoCollectMode prefers the streaming strategy.
const streamingMemoryThreshold = 1 << 30 // 1 GiB

// AutoCollectMode picks a collection strategy from the machine's available
// memory: in-memory when there is headroom, streaming under pressure.
// Callers that know their deployment better
// pass an explicit mode to the config factories instead.
func AutoCollectMode() ctypes.CollectMode {
	vm, err := mem.VirtualMemory()
	if err != nil || vm.Available >= streamingMemoryThreshold {
		return ctypes.CollectModeInMemory
	}
	return ctypes.CollectModeStreaming
}

// rowGroups partitions the classified exposures for the CRM-and-calculator
// phase. In-memory mode yields a single group; streaming mode yields
// whole-counterparty batches near streamingGroupSize, trading some
// throughput for a bounded working set.
func rowGroups(exposures []bundle.Exposure, mode ctypes.CollectMode) [][]bundle.Exposure {
	if len(exposures) == 0 {
		return nil
	}
	if mode != ctypes.CollectModeStreaming {
		return [][]bundle.Exposure{exposures}
	}

	byCounterparty := map[string][]bundle.Exposure{}
	order := make([]string, 0)
	for _, e := range exposures {
		if _, seen := byCounterparty[e.CounterpartyRef]; !seen {
			order = append(order, e.CounterpartyRef)
		}
		byCounterparty[e.CounterpartyRef] = append(byCounterparty[e.CounterpartyRef], e)
	}
	sort.Strings(order) // deterministic group composition across runs

	var groups [][]bundle.Exposure
	var current []bundle.Exposure
	for _, ref := range order {
		current = append(current, byCounterparty[ref]...)
		if len(current) >= streamingGroupSize {
			groups = append(groups, current)
			current = nil
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
