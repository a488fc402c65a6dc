package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Probe     ProbeConfig     `mapstructure:"probe"`
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Endpoints EndpointsConfig `mapstructure:"endpoints"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// ProbeConfig holds settings for the endpoint probing process.
type ProbeConfig struct {
	// Timeout bounds each individual RPC call.
	Timeout time.Duration `mapstructure:"timeout"`
	// ArchiveWindow is the block span of the archive-depth query.
	ArchiveWindow uint64 `mapstructure:"archive_window"`
	// RangeSteps are the widths tried by the range ladder, ascending.
	RangeSteps []int `mapstructure:"range_steps"`
	// MaxConcurrent caps in-flight probes; zero or less means no cap.
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// ServerConfig holds HTTP server configuration for serve mode.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
	// Dir, when set, adds a rotating JSON log file under this directory.
	Dir string `mapstructure:"dir"`
}

// EndpointsConfig points at the endpoint artifact to probe.
type EndpointsConfig struct {
	File string `mapstructure:"file"`
}

// CacheConfig holds settings for the serve-mode result cache.
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("probe.timeout", "20s")
	v.SetDefault("probe.archive_window", 100)
	v.SetDefault("probe.range_steps", []int{500, 2_000, 5_000, 10_000, 50_000})
	v.SetDefault("probe.max_concurrent", 0)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.check_interval", "15m")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.dir", "")
	v.SetDefault("endpoints.file", "")
	v.SetDefault("cache.ttl", "30m")
	v.SetDefault("cache.cleanup_interval", "1h")

	v.SetConfigName("rpcrank")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// Running on defaults and env vars alone is fine; anything other
		// than a missing file is a real problem.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("RPCRANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
