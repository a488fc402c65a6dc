package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"rpcrank/internal/chains"
	"rpcrank/internal/entity"
	"rpcrank/internal/rank"
)

const ruleWidth = 90

// Glyph returns the status marker for a result row: unreachable,
// reachable-but-pruned, or fully capable.
func Glyph(r entity.ProbeResult) string {
	switch {
	case !r.Reachable:
		return "✗"
	case !r.Archive:
		return "△"
	default:
		return "✓"
	}
}

// WriteTable renders one chain's results as an operator table, best-first.
// The input slice is sorted in place.
func WriteTable(w io.Writer, chainID uint64, meta chains.Meta, results []entity.ProbeResult) {
	rank.Sort(results)

	rule := strings.Repeat("─", ruleWidth)
	fmt.Fprintf(w, "\n%s\n  %s (chain %d) — %d endpoints\n%s\n",
		rule, meta.Name, chainID, len(results), rule)
	fmt.Fprintf(w, " %2s  %s  %6s  %7s  %9s  %s\n", "#", " ", "Ping", "Archive", "MaxRange", "URL")

	for i, r := range results {
		lat := "  —"
		if r.LatencyMs > 0 {
			lat = fmt.Sprintf("%4.0fms", r.LatencyMs)
		}
		arc := " NO"
		if r.Archive {
			arc = "YES"
		}
		rng := "    —"
		if r.MaxRange > 0 {
			rng = fmt.Sprintf("%7s", fmtInt(r.MaxRange))
		}
		fmt.Fprintf(w, " %2d  %s  %6s  %7s  %9s  %s\n", i+1, Glyph(r), lat, arc, rng, trimScheme(r.URL))
	}
}

// trimScheme drops the transport prefix so long URLs fit the table.
func trimScheme(url string) string {
	for _, scheme := range []string{"https://", "http://", "wss://", "ws://"} {
		if rest, ok := strings.CutPrefix(url, scheme); ok {
			return rest
		}
	}
	return url
}

// fmtInt renders n with thousands separators.
func fmtInt(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
