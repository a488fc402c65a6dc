package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rpcrank/internal/config"
	"rpcrank/internal/entity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.CacheConfig{TTL: time.Minute, CleanupInterval: 0}
	return NewStore(cfg, zaptest.NewLogger(t))
}

func ethRows() []entity.ProbeResult {
	return []entity.ProbeResult{
		{URL: "https://eth-dead.example", Error: "endpoint unreachable: dial", ErrKind: entity.ErrorTransport},
		{URL: "https://eth-slow.example", Reachable: true, LatencyMs: 210, Archive: true, LogCount: 2, MaxRange: 5_000},
		{URL: "https://eth-fast.example", Reachable: true, LatencyMs: 40, Archive: true, LogCount: 2, MaxRange: 50_000},
	}
}

func TestPutRanksRows(t *testing.T) {
	store := newTestStore(t)
	rows := ethRows()
	store.Put(1, rows)

	got, err := store.Results(1)
	require.NoError(t, err)
	require.Equal(t, "https://eth-fast.example", got[0].URL)
	require.Equal(t, "https://eth-slow.example", got[1].URL)
	require.Equal(t, "https://eth-dead.example", got[2].URL)

	// The caller's slice is not reordered.
	require.Equal(t, "https://eth-dead.example", rows[0].URL)
}

func TestResultsUnknownChain(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Results(424_242)
	require.ErrorIs(t, err, entity.ErrUnknownChain)
}

func TestResultsBeforeFirstSweep(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Results(1)
	require.ErrorIs(t, err, entity.ErrNotReady)
}

func TestResultsAfterExpiry(t *testing.T) {
	cfg := config.CacheConfig{TTL: 20 * time.Millisecond, CleanupInterval: 0}
	store := NewStore(cfg, zaptest.NewLogger(t))
	store.Put(1, ethRows())

	time.Sleep(80 * time.Millisecond)

	_, err := store.Results(1)
	require.ErrorIs(t, err, entity.ErrNotReady)
}

func TestRankedURLsSkipsDeadEndpoints(t *testing.T) {
	store := newTestStore(t)
	store.Put(1, ethRows())

	urls, err := store.RankedURLs(1)
	require.NoError(t, err)
	require.Equal(t, []string{"https://eth-fast.example", "https://eth-slow.example"}, urls)
}

func TestSummariesAscendingWithCounts(t *testing.T) {
	store := newTestStore(t)
	store.Put(8453, []entity.ProbeResult{
		{URL: "https://base.example", Reachable: true, LatencyMs: 80},
	})
	store.Put(1, ethRows())

	sums, err := store.Summaries()
	require.NoError(t, err)
	require.Len(t, sums, 2)

	require.Equal(t, uint64(1), sums[0].ChainID)
	require.Equal(t, "Ethereum", sums[0].Name)
	require.Equal(t, 3, sums[0].Endpoints)
	require.Equal(t, 2, sums[0].Reachable)
	require.Equal(t, 2, sums[0].Archive)
	require.Equal(t, "https://eth-fast.example", sums[0].BestURL)

	require.Equal(t, uint64(8453), sums[1].ChainID)
	require.Equal(t, "Base", sums[1].Name)
	require.Equal(t, 0, sums[1].Archive)
	require.Equal(t, "https://base.example", sums[1].BestURL)
}

func TestSummariesAllDeadChainHasNoBestURL(t *testing.T) {
	store := newTestStore(t)
	store.Put(10, []entity.ProbeResult{
		{URL: "https://op-dead.example", Error: "request timed out", ErrKind: entity.ErrorTransport},
	})

	sums, err := store.Summaries()
	require.NoError(t, err)
	require.Len(t, sums, 1)
	require.Empty(t, sums[0].BestURL)
	require.Equal(t, 0, sums[0].Reachable)
}

func TestSummariesCoverDirectoryChainsOnly(t *testing.T) {
	// Put does not gate on the directory; the summary walk does.
	store := newTestStore(t)
	store.Put(1, ethRows())
	store.Put(424_242, ethRows())

	sums, err := store.Summaries()
	require.NoError(t, err)
	require.Len(t, sums, 1)
	require.Equal(t, uint64(1), sums[0].ChainID)
}

func TestSummariesBeforeFirstSweep(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Summaries()
	require.ErrorIs(t, err, entity.ErrNotReady)
}
