package probe

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"rpcrank/internal/chains"
	"rpcrank/internal/config"
	"rpcrank/internal/entity"
	"rpcrank/internal/rpc"
)

// DefaultArchiveWindow is the span above the deploy block scanned by the
// archive stage. The registry is known to have activity inside this window
// on every supported chain.
const DefaultArchiveWindow = 100

// DefaultRangeSteps is the ascending ladder of eth_getLogs span widths tried
// by the max-range stage. The coarse steps bound the stage at five calls per
// endpoint.
var DefaultRangeSteps = []int{500, 2_000, 5_000, 10_000, 50_000}

// Compile-time check
var _ EndpointProber = (*Prober)(nil)

// Prober runs the three-stage endpoint check: ping, archive capability at
// the registry deploy block, then the tolerated eth_getLogs span width.
type Prober struct {
	client *rpc.Client
	window uint64
	steps  []int
	logger *zap.Logger
}

// NewProber creates a prober issuing calls through the given client.
// Zero-valued window and step settings fall back to the defaults.
func NewProber(client *rpc.Client, cfg config.ProbeConfig, logger *zap.Logger) *Prober {
	window := cfg.ArchiveWindow
	if window == 0 {
		window = DefaultArchiveWindow
	}
	steps := cfg.RangeSteps
	if len(steps) == 0 {
		steps = DefaultRangeSteps
	}
	return &Prober{
		client: client,
		window: window,
		steps:  steps,
		logger: logger.Named("Prober"),
	}
}

// Probe checks one endpoint against the registry deploy block of its chain.
// Failures never propagate as errors; they are recorded on the returned
// result, so a bad endpoint can never abort sibling probes.
func (p *Prober) Probe(ctx context.Context, url string, deployBlock uint64) entity.ProbeResult {
	res := p.check(ctx, url, deployBlock)
	p.logger.Debug("endpoint probed",
		zap.String("url", url),
		zap.Bool("reachable", res.Reachable),
		zap.Bool("archive", res.Archive),
		zap.Int("maxRange", res.MaxRange),
		zap.Float64("latencyMs", res.LatencyMs),
		zap.String("error", res.Error))
	return res
}

func (p *Prober) check(ctx context.Context, url string, deployBlock uint64) entity.ProbeResult {
	ok, ms, errMsg, kind := p.ping(ctx, url)
	if !ok {
		res := entity.ProbeResult{URL: url}
		res.SetError(kind, errMsg)
		return res
	}

	archive, logCount, errMsg, kind := p.archive(ctx, url, deployBlock)
	if !archive {
		res := entity.ProbeResult{URL: url, Reachable: true, LatencyMs: ms}
		res.SetError(kind, errMsg)
		return res
	}

	return entity.ProbeResult{
		URL:       url,
		Reachable: true,
		LatencyMs: ms,
		Archive:   true,
		LogCount:  logCount,
		MaxRange:  p.maxRange(ctx, url, deployBlock),
	}
}

// ping measures base responsiveness with eth_blockNumber. Latency is only
// meaningful when the call succeeds.
func (p *Prober) ping(ctx context.Context, url string) (bool, float64, string, entity.ErrorKind) {
	resp, elapsed, err := p.client.Call(ctx, url, "eth_blockNumber", nil)
	if err != nil {
		return false, 0, err.Error(), entity.ErrorTransport
	}
	if resp.Error != nil {
		return false, 0, resp.Error.Message, entity.ErrorProtocol
	}
	return true, float64(elapsed.Milliseconds()), "", entity.ErrorNone
}

// archive asks for registry logs in the window right above the deploy
// block. An empty answer is treated as silent pruning: the window is known
// to contain events, so a capable node cannot legitimately return nothing.
func (p *Prober) archive(ctx context.Context, url string, deployBlock uint64) (bool, int, string, entity.ErrorKind) {
	resp, _, err := p.client.Call(ctx, url, "eth_getLogs",
		rpc.LogFilter(chains.IdentityRegistry, deployBlock, deployBlock+p.window))
	if err != nil {
		return false, 0, err.Error(), entity.ErrorTransport
	}
	if resp.Error != nil {
		return false, 0, resp.Error.Message, entity.ErrorProtocol
	}

	var logs []json.RawMessage
	if err := json.Unmarshal(resp.Result, &logs); err != nil {
		return false, 0, "invalid result", entity.ErrorTransport
	}
	if len(logs) == 0 {
		return false, 0, "0 logs at deploy block (silent drop)", entity.ErrorHeuristic
	}
	return true, len(logs), "", entity.ErrorNone
}

// maxRange walks the width ladder in ascending order and stops at the first
// failure; the result is the last width that succeeded. No binary search is
// attempted between steps.
func (p *Prober) maxRange(ctx context.Context, url string, deployBlock uint64) int {
	best := 0
	for _, width := range p.steps {
		resp, _, err := p.client.Call(ctx, url, "eth_getLogs",
			rpc.LogFilter(chains.IdentityRegistry, deployBlock, deployBlock+uint64(width)))
		if err != nil || resp.Error != nil {
			break
		}
		best = width
	}
	return best
}
