package config

import (
	"errors"
	"fmt"
)

// Validation range constants.
const (
	minSyncIntervalSeconds = 10
	minDebounceSeconds     = 0.1
	maxDebounceSeconds     = 300.0
	minConcurrentTransfers = 1
	maxConcurrentTransfers = 64
)

// validConflictStrategies enumerates the strategies this core understands.
// spec.md §1 names last_modified_wins as the only implemented strategy.
var validConflictStrategies = map[string]bool{
	"last_modified_wins": true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true,
}

// Validate checks all configuration values and returns every error found
// joined together, so a user sees a complete report in one pass rather than
// fixing issues one at a time.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateSync(&cfg.Sync)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	return errors.Join(errs...)
}

func validateSync(s *SyncConfig) []error {
	var errs []error

	if s.LocalSyncPath == "" {
		errs = append(errs, errors.New("sync.local_sync_path: must not be empty"))
	}

	if s.SyncIntervalSeconds < minSyncIntervalSeconds {
		errs = append(errs, fmt.Errorf(
			"sync.sync_interval_seconds: must be >= %d, got %d", minSyncIntervalSeconds, s.SyncIntervalSeconds))
	}

	if !validConflictStrategies[s.ConflictStrategy] {
		errs = append(errs, fmt.Errorf(
			"sync.conflict_strategy: unsupported value %q (only last_modified_wins is implemented)",
			s.ConflictStrategy))
	}

	if s.FileChangeDebounceSeconds < minDebounceSeconds || s.FileChangeDebounceSeconds > maxDebounceSeconds {
		errs = append(errs, fmt.Errorf(
			"sync.file_change_debounce_seconds: must be in [%.1f, %.1f], got %.2f",
			minDebounceSeconds, maxDebounceSeconds, s.FileChangeDebounceSeconds))
	}

	if s.MaxConcurrentTransfers < minConcurrentTransfers || s.MaxConcurrentTransfers > maxConcurrentTransfers {
		errs = append(errs, fmt.Errorf(
			"sync.max_concurrent_transfers: must be in [%d, %d], got %d",
			minConcurrentTransfers, maxConcurrentTransfers, s.MaxConcurrentTransfers))
	}

	if s.DatabasePath == "" {
		errs = append(errs, errors.New("sync.database_path: must not be empty"))
	}

	return errs
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	if !validLogLevels[l.Level] {
		errs = append(errs, fmt.Errorf("logging.level: unsupported value %q", l.Level))
	}

	if !validLogFormats[l.Format] {
		errs = append(errs, fmt.Errorf("logging.format: unsupported value %q", l.Format))
	}

	return errs
}
