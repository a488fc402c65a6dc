package rank

import (
	"cmp"
	"slices"

	"rpcrank/internal/entity"
)

// Sort orders one chain's results best-first. Archive-capable endpoints
// sort before the rest; ties break on widest tolerated range, then lowest
// latency. The sort is stable, so rows with equal keys keep their
// configuration order and re-ranking already-ranked rows is a no-op.
func Sort(results []entity.ProbeResult) {
	slices.SortStableFunc(results, func(a, b entity.ProbeResult) int {
		return cmp.Or(
			cmp.Compare(btoi(a.Archive), btoi(b.Archive)),
			cmp.Compare(b.MaxRange, a.MaxRange),
			cmp.Compare(a.LatencyMs, b.LatencyMs),
		)
	})
}

// Apply ranks every chain's rows in place.
func Apply(set entity.ResultSet) {
	for _, results := range set {
		Sort(results)
	}
}

// btoi inverts the archive flag into a sortable key where capable sorts
// first.
func btoi(b bool) int {
	if b {
		return 0
	}
	return 1
}
