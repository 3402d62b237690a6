package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// Load reads and parses the TOML config file at path, validates it, and
// returns the result. A missing file is not an error — DefaultConfig() is
// returned, with "~" in its paths expanded, so the CLI works with zero
// setup beyond `seasync login`.
func Load(path string, logger *slog.Logger) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debug("no config file found, using defaults", "path", path)
		cfg.Sync.LocalSyncPath = ExpandHome(cfg.Sync.LocalSyncPath)
		cfg.Sync.DatabasePath = ExpandHome(cfg.Sync.DatabasePath)

		return cfg, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("config file %s: unknown keys: %v", path, undec)
	}

	cfg.Sync.LocalSyncPath = ExpandHome(cfg.Sync.LocalSyncPath)
	cfg.Sync.DatabasePath = ExpandHome(cfg.Sync.DatabasePath)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	logger.Debug("config file parsed successfully", "path", path)

	return cfg, nil
}
