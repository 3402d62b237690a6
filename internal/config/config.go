// Package config loads and validates SeaSync's configuration: the
// file-level settings enumerated in spec.md §6, plus the server and
// logging sections that drive the CLI and Remote Client.
package config

import "time"

// Config is the fully-decoded configuration file, always starting from
// DefaultConfig() so unset TOML keys retain their layer-0 defaults.
type Config struct {
	Sync    SyncConfig    `toml:"sync"`
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
}

// SyncConfig holds the options named in spec.md §6's configuration table.
type SyncConfig struct {
	LocalSyncPath             string `toml:"local_sync_path"`
	SyncIntervalSeconds       int    `toml:"sync_interval_seconds"`
	ConflictStrategy          string `toml:"conflict_strategy"`
	FileChangeDebounceSeconds float64 `toml:"file_change_debounce_seconds"`
	MaxConcurrentTransfers    int    `toml:"max_concurrent_transfers"`
	DatabasePath              string `toml:"database_path"`
}

// ServerConfig holds the [server] section: a server base URL and a
// default library name. Both are decoded and shown by `config show`, but
// no command reads them: `login` takes the server from
// its --server flag, and sync covers every visible library.
type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	DefaultLibrary string `toml:"default_library"`
}

// LoggingConfig controls the slog handler built in the CLI entrypoint.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json
}

// SyncInterval returns the configured periodic cadence as a time.Duration.
func (c *SyncConfig) SyncInterval() time.Duration {
	return time.Duration(c.SyncIntervalSeconds) * time.Second
}

// DebounceWindow returns the configured watcher quiet-time window.
func (c *SyncConfig) DebounceWindow() time.Duration {
	return time.Duration(c.FileChangeDebounceSeconds * float64(time.Second))
}
