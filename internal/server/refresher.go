package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rpcrank/internal/probe"
)

// Refresher periodically re-probes the configured endpoints and publishes
// each finished sweep to the store.
type Refresher struct {
	orch      *probe.Orchestrator
	store     *Store
	endpoints map[uint64][]string
	interval  time.Duration
	logger    *zap.Logger
}

func NewRefresher(
	orch *probe.Orchestrator,
	store *Store,
	endpoints map[uint64][]string,
	interval time.Duration,
	logger *zap.Logger,
) *Refresher {
	return &Refresher{
		orch:      orch,
		store:     store,
		endpoints: endpoints,
		interval:  interval,
		logger:    logger.Named("Refresher"),
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.Sweep(ctx)

	if r.interval <= 0 {
		r.logger.Info("Periodic refresh disabled (interval <= 0)")
		return
	}

	r.logger.Info("Starting periodic refresh", zap.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Refresher stopping")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep probes every configured chain and stores the ranked outcome.
// A sweep cut short by cancellation is discarded, so expired entries are
// never replaced with partial rows.
func (r *Refresher) Sweep(ctx context.Context) {
	started := time.Now()
	set := r.orch.Run(ctx, r.endpoints, nil)
	if ctx.Err() != nil {
		r.logger.Warn("Sweep cancelled, discarding results", zap.Error(ctx.Err()))
		return
	}

	for chainID, rows := range set {
		r.store.Put(chainID, rows)
	}
	r.logger.Info("Sweep complete",
		zap.Int("chains", len(set)),
		zap.Duration("elapsed", time.Since(started)))
}
