package server

import (
	"fmt"
	"slices"
	"strconv"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"rpcrank/internal/chains"
	"rpcrank/internal/config"
	"rpcrank/internal/entity"
	"rpcrank/internal/rank"
)

// Compile-time check
var _ ResultSource = (*Store)(nil)

const chainKeyPrefix = "chain_results_"

// ChainSummary is one row of the chain listing endpoint.
type ChainSummary struct {
	ChainID   uint64 `json:"chainId"`
	Name      string `json:"name"`
	Endpoints int    `json:"endpoints"`
	Reachable int    `json:"reachable"`
	Archive   int    `json:"archive"`
	BestURL   string `json:"bestUrl,omitempty"`
}

// Store keeps the latest probe results per chain. Entries expire on the
// configured TTL, so a stalled refresher surfaces as "not ready" instead
// of stale data.
type Store struct {
	cache  *cache.Cache
	logger *zap.Logger
}

func NewStore(cfg config.CacheConfig, logger *zap.Logger) *Store {
	c := cache.New(cfg.TTL, cfg.CleanupInterval)
	logger.Info("Initialized result store",
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanupInterval", cfg.CleanupInterval))

	return &Store{
		cache:  c,
		logger: logger.Named("ResultStore"),
	}
}

// Put records the outcome of one chain sweep. The rows are ranked here, so
// every reader sees the same order.
func (s *Store) Put(chainID uint64, results []entity.ProbeResult) {
	rows := slices.Clone(results)
	rank.Sort(rows)

	key := chainKey(chainID)
	s.cache.SetDefault(key, rows)
	s.logger.Debug("Cache set", zap.String("key", key), zap.Int("endpoints", len(rows)))
}

// Results returns the ranked rows of one chain. entity.ErrUnknownChain is
// returned for IDs outside the directory, entity.ErrNotReady before the
// first sweep lands (or after the entry expired).
func (s *Store) Results(chainID uint64) ([]entity.ProbeResult, error) {
	if _, ok := chains.Lookup(chainID); !ok {
		return nil, entity.ErrUnknownChain
	}

	key := chainKey(chainID)
	x, found := s.cache.Get(key)
	if !found {
		s.logger.Debug("Cache miss", zap.String("key", key))
		return nil, entity.ErrNotReady
	}
	rows, ok := x.([]entity.ProbeResult)
	if !ok {
		s.logger.Warn("Cache data type mismatch for key", zap.String("key", key), zap.Any("type", fmt.Sprintf("%T", x)))
		return nil, entity.ErrNotReady
	}
	return rows, nil
}

// RankedURLs returns the reachable endpoints of one chain, best first.
func (s *Store) RankedURLs(chainID uint64) ([]string, error) {
	rows, err := s.Results(chainID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Reachable {
			urls = append(urls, r.URL)
		}
	}
	return urls, nil
}

// Summaries returns one row per swept chain, ascending by chain ID. Chains
// without a cached sweep are skipped, as are entries outside the directory.
func (s *Store) Summaries() ([]ChainSummary, error) {
	ids := chains.IDs()

	summaries := make([]ChainSummary, 0, len(ids))
	for _, id := range ids {
		key := chainKey(id)
		x, found := s.cache.Get(key)
		if !found {
			continue
		}
		rows, ok := x.([]entity.ProbeResult)
		if !ok {
			s.logger.Warn("Cache data type mismatch for key", zap.String("key", key), zap.Any("type", fmt.Sprintf("%T", x)))
			continue
		}
		summaries = append(summaries, summarize(id, rows))
	}
	if len(summaries) == 0 {
		return nil, entity.ErrNotReady
	}
	return summaries, nil
}

func summarize(chainID uint64, rows []entity.ProbeResult) ChainSummary {
	sum := ChainSummary{ChainID: chainID, Endpoints: len(rows)}
	if meta, ok := chains.Lookup(chainID); ok {
		sum.Name = meta.Name
	}
	for _, r := range rows {
		if r.Reachable {
			sum.Reachable++
		}
		if r.Archive {
			sum.Archive++
		}
		// Rows are ranked, so the first reachable one is the best pick.
		if sum.BestURL == "" && r.Reachable {
			sum.BestURL = r.URL
		}
	}
	return sum
}

func chainKey(chainID uint64) string {
	return chainKeyPrefix + strconv.FormatUint(chainID, 10)
}
