package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rpcrank/internal/chains"
	"rpcrank/internal/endpoints"
	"rpcrank/internal/probe"
	"rpcrank/internal/rank"
	"rpcrank/internal/report"
	"rpcrank/internal/rpc"
)

var (
	flagChains string
	flagWrite  bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe every configured endpoint and print the ranking",
	Long: `check probes each endpoint three ways (ping, archive depth, widest
eth_getLogs window), prints a ranked table per chain and the regenerated
config.toml. Pass --write to overwrite the artifact in place.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&flagChains, "chains", "", "comma-separated chain IDs to probe (default: all)")
	checkCmd.Flags().BoolVar(&flagWrite, "write", false, "overwrite the endpoint artifact with the ranked lists")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()

	repo := endpoints.NewRepository(lg)
	path := resolveArtifact(cfg, repo)
	eps, err := repo.Load(path)
	if err != nil {
		lg.Fatal("Failed to load endpoint artifact", zap.Error(err))
	}

	total := 0
	for _, urls := range eps {
		total += len(urls)
	}
	fmt.Printf("RPC health check — %d endpoints across %d chains\n", total, len(eps))

	client := rpc.NewClient(cfg.Probe.Timeout, lg)
	prober := probe.NewProber(client, cfg.Probe, lg)
	orch := probe.NewOrchestrator(prober, cfg.Probe, lg)

	set := orch.Run(cmd.Context(), eps, parseChainFilter(flagChains))
	rank.Apply(set)

	for _, chainID := range slices.Sorted(maps.Keys(set)) {
		meta, _ := chains.Lookup(chainID)
		report.WriteTable(os.Stdout, chainID, meta, set[chainID])
	}

	rule := strings.Repeat("─", 90)
	text := report.GenerateTOML(set, time.Now())
	fmt.Printf("\n%s\n  RECOMMENDED %s\n%s\n\n%s", rule, endpoints.File, rule, text)

	if flagWrite {
		if err := repo.Save(path, text); err != nil {
			lg.Fatal("Failed to write endpoint artifact", zap.Error(err))
		}
		fmt.Printf("  Written to %s\n", path)
	} else {
		fmt.Printf("  Pass --write to overwrite %s automatically.\n", path)
	}
	return nil
}

// parseChainFilter parses the --chains flag. Invalid and zero entries are
// dropped; an empty result means every chain is probed.
func parseChainFilter(s string) map[uint64]bool {
	if s == "" {
		return nil
	}
	filter := map[uint64]bool{}
	for _, part := range strings.Split(s, ",") {
		id, _ := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if id > 0 {
			filter[id] = true
		}
	}
	return filter
}
