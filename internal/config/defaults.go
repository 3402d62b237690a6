package config

// Default values for configuration options, matching the defaults named in
// spec.md §6 except local_sync_path, which defaults to "~/Seafile" (see
// DESIGN.md). These are the "layer 0" of the override chain: a config file
// only needs to mention the keys it wants to change.
const (
	defaultLocalSyncPath             = "~/Seafile"
	defaultSyncIntervalSeconds       = 300
	defaultConflictStrategy          = "last_modified_wins"
	defaultFileChangeDebounceSeconds = 2.0
	defaultMaxConcurrentTransfers    = 4
	defaultDatabasePathSuffix        = "sync_state.sqlite"

	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// DefaultConfig returns a Config populated with every default value. It is
// the starting point both for TOML decoding (so unset fields retain
// defaults) and for the zero-config CLI invocation.
func DefaultConfig() *Config {
	return &Config{
		Sync: SyncConfig{
			LocalSyncPath:             defaultLocalSyncPath,
			SyncIntervalSeconds:       defaultSyncIntervalSeconds,
			ConflictStrategy:          defaultConflictStrategy,
			FileChangeDebounceSeconds: defaultFileChangeDebounceSeconds,
			MaxConcurrentTransfers:    defaultMaxConcurrentTransfers,
			DatabasePath:              defaultDatabasePath(),
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// defaultDatabasePath joins the platform data directory with the state
// database filename. Returns a relative fallback if the data dir cannot be
// determined (e.g. no $HOME), matching the teacher's paths.go pattern of
// degrading gracefully rather than erroring at default-construction time.
func defaultDatabasePath() string {
	dir := DefaultDataDir()
	if dir == "" {
		return defaultDatabasePathSuffix
	}

	return dir + "/" + defaultDatabasePathSuffix
}
