package server

import (
	"encoding/json"
	"testing"

	"github.com/fasthttp/router"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap/zaptest"

	"rpcrank/internal/entity"
)

func newTestRouter(t *testing.T, store *Store) *router.Router {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return NewRouter(NewHandler(store, logger), logger)
}

func serveGET(t *testing.T, r *router.Router, path string) *fasthttp.RequestCtx {
	t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI("http://test" + path)

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	r.Handler(ctx)
	return ctx
}

func TestGetChains(t *testing.T) {
	store := newTestStore(t)
	store.Put(8453, []entity.ProbeResult{{URL: "https://base.example", Reachable: true, LatencyMs: 70}})
	store.Put(1, ethRows())
	r := newTestRouter(t, store)

	ctx := serveGET(t, r, "/chains")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var sums []ChainSummary
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &sums))
	require.Len(t, sums, 2)
	require.Equal(t, uint64(1), sums[0].ChainID)
	require.Equal(t, uint64(8453), sums[1].ChainID)
}

func TestGetChainsBeforeFirstSweep(t *testing.T) {
	r := newTestRouter(t, newTestStore(t))

	ctx := serveGET(t, r, "/chains")
	require.Equal(t, fasthttp.StatusServiceUnavailable, ctx.Response.StatusCode())
}

func TestGetChainRPCs(t *testing.T) {
	store := newTestStore(t)
	store.Put(1, ethRows())
	r := newTestRouter(t, store)

	ctx := serveGET(t, r, "/chains/1/rpcs")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var urls []string
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &urls))
	require.Equal(t, []string{"https://eth-fast.example", "https://eth-slow.example"}, urls)
}

func TestGetChainRPCsUnknownChain(t *testing.T) {
	store := newTestStore(t)
	store.Put(1, ethRows())
	r := newTestRouter(t, store)

	ctx := serveGET(t, r, "/chains/424242/rpcs")
	require.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestGetChainResults(t *testing.T) {
	store := newTestStore(t)
	store.Put(1, ethRows())
	r := newTestRouter(t, store)

	ctx := serveGET(t, r, "/chains/1/results")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var rows []entity.ProbeResult
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &rows))
	require.Len(t, rows, 3)
	require.Equal(t, "https://eth-fast.example", rows[0].URL)
	require.True(t, rows[0].Archive)
}

func TestGetChainResultsBeforeFirstSweep(t *testing.T) {
	r := newTestRouter(t, newTestStore(t))

	ctx := serveGET(t, r, "/chains/1/results")
	require.Equal(t, fasthttp.StatusServiceUnavailable, ctx.Response.StatusCode())
}

func TestNonNumericChainIDDoesNotMatch(t *testing.T) {
	r := newTestRouter(t, newTestStore(t))

	ctx := serveGET(t, r, "/chains/mainnet/rpcs")
	require.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, newTestStore(t))

	ctx := serveGET(t, r, "/health")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	require.Equal(t, "OK", string(ctx.Response.Body()))
}
