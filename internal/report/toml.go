package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"rpcrank/internal/chains"
	"rpcrank/internal/entity"
	"rpcrank/internal/rank"
)

// GenerateTOML renders the ranked endpoint lists as the config.toml text
// consumed by the downstream sync engine. Sections appear in ascending
// chain-ID order and list only reachable endpoints, best first; a reachable
// endpoint without archive history still serves recent reads, so it stays
// in the list. Each chain's slice is sorted in place.
func GenerateTOML(set entity.ResultSet, now time.Time) string {
	var b strings.Builder
	b.WriteString("# ERC-8004 events sync configuration.\n")
	b.WriteString("# RPC endpoints per chain, ordered by priority (best first).\n")
	b.WriteString("# The sync engine tries each in order; on failure it falls back.\n")
	fmt.Fprintf(&b, "# Ranked by rpcrank at %s\n\n", now.UTC().Format("2006-01-02 15:04 UTC"))

	for _, id := range slices.Sorted(maps.Keys(set)) {
		results := set[id]
		rank.Sort(results)

		name := ""
		if meta, ok := chains.Lookup(id); ok {
			name = meta.Name
		}
		fmt.Fprintf(&b, "[chains.%d]  # %s\nrpcs = [\n", id, name)
		for _, r := range results {
			if r.Reachable {
				fmt.Fprintf(&b, "    %q,\n", r.URL)
			}
		}
		b.WriteString("]\n\n")
	}
	return b.String()
}
