package probe

import (
	"context"
	"errors"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"rpcrank/internal/chains"
	"rpcrank/internal/config"
	"rpcrank/internal/entity"
)

// EndpointProber probes one endpoint and reports its capabilities.
type EndpointProber interface {
	Probe(ctx context.Context, url string, deployBlock uint64) entity.ProbeResult
}

// Orchestrator fans probers out across every endpoint of every selected
// chain and collects the finished per-chain result slices.
type Orchestrator struct {
	prober EndpointProber
	pool   pond.Pool
	logger *zap.Logger
}

// NewOrchestrator creates an orchestrator running endpoint probes on a
// shared pool. cfg.MaxConcurrent caps in-flight probes; zero or less means
// no cap.
func NewOrchestrator(prober EndpointProber, cfg config.ProbeConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		prober: prober,
		pool:   pond.NewPool(cfg.MaxConcurrent),
		logger: logger.Named("Orchestrator"),
	}
}

// Run probes every endpoint of every selected chain and returns the grouped
// results. A non-empty filter restricts probing to the listed chain IDs;
// chains absent from the directory are skipped with a diagnostic, never an
// error. Each chain's slice keeps configuration order; ranking happens
// downstream. Run returns only after every chain has been joined.
func (o *Orchestrator) Run(ctx context.Context, endpoints map[uint64][]string, filter map[uint64]bool) entity.ResultSet {
	collected := xsync.NewMap[uint64, []entity.ProbeResult]()
	var wg sync.WaitGroup

	for id, urls := range endpoints {
		if len(filter) > 0 && !filter[id] {
			continue
		}
		meta, ok := chains.Lookup(id)
		if !ok {
			o.logger.Warn("unknown chain, skipping", zap.Uint64("chainId", id))
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			o.logger.Info("probing chain",
				zap.Uint64("chainId", id), zap.String("name", meta.Name), zap.Int("endpoints", len(urls)))

			results := make([]entity.ProbeResult, len(urls))
			group := o.pool.NewGroupContext(ctx)
			for i, url := range urls {
				// Rows keep their URL even when a cancelled group never
				// runs the task.
				results[i] = entity.ProbeResult{URL: url}
				group.Submit(func() {
					results[i] = o.prober.Probe(ctx, url, meta.DeployBlock)
				})
			}
			if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
				o.logger.Warn("probe group ended early", zap.Uint64("chainId", id), zap.Error(err))
			}

			archive := 0
			for _, r := range results {
				if r.Archive {
					archive++
				}
			}
			o.logger.Info("chain probed",
				zap.Uint64("chainId", id), zap.String("name", meta.Name),
				zap.Int("archiveCapable", archive), zap.Int("endpoints", len(urls)))

			collected.Store(id, results)
		}()
	}
	wg.Wait()

	set := make(entity.ResultSet, collected.Size())
	collected.Range(func(id uint64, results []entity.ProbeResult) bool {
		set[id] = results
		return true
	})
	return set
}
