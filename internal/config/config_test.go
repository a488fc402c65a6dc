package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 20*time.Second, cfg.Probe.Timeout)
	require.Equal(t, uint64(100), cfg.Probe.ArchiveWindow)
	require.Equal(t, []int{500, 2_000, 5_000, 10_000, 50_000}, cfg.Probe.RangeSteps)
	require.Equal(t, 0, cfg.Probe.MaxConcurrent)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 15*time.Minute, cfg.Server.CheckInterval)
	require.Equal(t, "info", cfg.Logger.Level)
	require.Equal(t, "console", cfg.Logger.Encoding)
	require.Empty(t, cfg.Logger.Dir)
	require.Empty(t, cfg.Endpoints.File)
	require.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	require.Equal(t, time.Hour, cfg.Cache.CleanupInterval)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RPCRANK_LOGGER_LEVEL", "debug")
	t.Setenv("RPCRANK_PROBE_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Logger.Level)
	require.Equal(t, 5*time.Second, cfg.Probe.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := `
probe:
  max_concurrent: 8
server:
  addr: ":9090"
endpoints:
  file: "custom.toml"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rpcrank.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, 8, cfg.Probe.MaxConcurrent)
	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, "custom.toml", cfg.Endpoints.File)
	// Keys the file does not mention keep their defaults.
	require.Equal(t, 20*time.Second, cfg.Probe.Timeout)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	bad := "probe:\n  timeout: [unclosed\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rpcrank.yaml"), []byte(bad), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}
