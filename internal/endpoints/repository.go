package endpoints

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// File is the default name of the endpoint configuration artifact.
const File = "config.toml"

// Config mirrors the TOML layout of the artifact: one [chains.<id>] section
// per chain, each holding a priority-ordered endpoint list.
type Config struct {
	Chains map[string]ChainConfig `toml:"chains"`
}

// ChainConfig holds the candidate endpoints of one chain.
type ChainConfig struct {
	RPCs []string `toml:"rpcs"`
}

// Repository reads and writes the endpoint configuration artifact shared
// with the downstream sync engine.
type Repository struct {
	logger *zap.Logger
}

// NewRepository creates a repository for the endpoint artifact.
func NewRepository(logger *zap.Logger) *Repository {
	return &Repository{logger: logger.Named("EndpointRepo")}
}

// Find walks from the working directory toward the filesystem root looking
// for name. When nothing is found the bare name is returned, so the caller
// fails with a readable open error.
func (r *Repository) Find(name string) string {
	dir, err := os.Getwd()
	if err != nil {
		return name
	}
	for {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return name
		}
		dir = parent
	}
}

// Load reads the artifact and returns endpoint lists keyed by numeric chain
// ID. Section keys that do not parse as positive integers are dropped with
// a diagnostic; a read or parse failure is returned to the caller and is
// expected to end the run.
func (r *Repository) Load(path string) (map[uint64][]string, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	out := make(map[uint64][]string, len(cfg.Chains))
	for key, cc := range cfg.Chains {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil || id == 0 {
			r.logger.Warn("ignoring malformed chain section", zap.String("key", key))
			continue
		}
		out[id] = cc.RPCs
	}

	r.logger.Debug("endpoint artifact loaded", zap.String("path", path), zap.Int("chains", len(out)))
	return out, nil
}

// Save overwrites the artifact with the generated text.
func (r *Repository) Save(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	r.logger.Info("endpoint artifact written", zap.String("path", path), zap.Int("bytes", len(text)))
	return nil
}
