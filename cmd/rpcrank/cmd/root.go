package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rpcrank/internal/config"
	"rpcrank/internal/endpoints"
	"rpcrank/internal/logger"
)

var (
	flagArtifact    string
	flagLogLevel    string
	flagLogEncoding string
	flagLogDir      string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rpcrank",
	Short: "Probe, rank and publish JSON-RPC endpoints",
	Long: `rpcrank probes the JSON-RPC endpoints listed in config.toml, measures
ping latency, archive depth and the widest usable eth_getLogs window, and
ranks each chain's endpoints from most to least capable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagArtifact, "config", "", "endpoint artifact path (default: walk up for config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override logger.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogEncoding, "log-encoding", "", "override logger.encoding (console, json)")
	rootCmd.PersistentFlags().StringVar(&flagLogDir, "log-dir", "", "write a rotating JSON log file under this directory")
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, nil, err
	}
	if flagLogLevel != "" {
		cfg.Logger.Level = flagLogLevel
	}
	if flagLogEncoding != "" {
		cfg.Logger.Encoding = flagLogEncoding
	}
	if flagLogDir != "" {
		cfg.Logger.Dir = flagLogDir
	}

	lg, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, lg, nil
}

// resolveArtifact returns the endpoint artifact path. The command-line
// override wins over the configured path; with neither set it falls back to
// walk-up discovery.
func resolveArtifact(cfg *config.Config, repo *endpoints.Repository) string {
	if flagArtifact != "" {
		return flagArtifact
	}
	if cfg.Endpoints.File != "" {
		return cfg.Endpoints.File
	}
	return repo.Find(endpoints.File)
}
