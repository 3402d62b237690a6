package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvdcodez/SeaSync/internal/config"
)

func resetVerbosityFlags() {
	flagVerbose, flagDebug, flagQuiet = false, false, false
}

func TestBuildLoggerDefaultsToConfigLevel(t *testing.T) {
	defer resetVerbosityFlags()
	resetVerbosityFlags()

	cfg := config.DefaultConfig()
	cfg.Logging.Level = "error"

	logger := buildLogger(cfg)
	assert.False(t, logger.Enabled(nil, slog.LevelWarn))
	assert.True(t, logger.Enabled(nil, slog.LevelError))
}

func TestBuildLoggerNilConfigDefaultsToWarn(t *testing.T) {
	defer resetVerbosityFlags()
	resetVerbosityFlags()

	logger := buildLogger(nil)
	assert.True(t, logger.Enabled(nil, slog.LevelWarn))
	assert.False(t, logger.Enabled(nil, slog.LevelInfo))
}

func TestBuildLoggerVerboseFlagOverridesConfig(t *testing.T) {
	defer resetVerbosityFlags()
	resetVerbosityFlags()
	flagVerbose = true

	cfg := config.DefaultConfig()
	cfg.Logging.Level = "error"

	logger := buildLogger(cfg)
	assert.True(t, logger.Enabled(nil, slog.LevelInfo))
}

func TestBuildLoggerQuietFlagWins(t *testing.T) {
	defer resetVerbosityFlags()
	resetVerbosityFlags()
	flagQuiet = true

	cfg := config.DefaultConfig()
	cfg.Logging.Level = "debug"

	logger := buildLogger(cfg)
	assert.False(t, logger.Enabled(nil, slog.LevelWarn))
	assert.True(t, logger.Enabled(nil, slog.LevelError))
}
