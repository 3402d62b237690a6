package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Platform identifiers.
const (
	platformLinux  = "linux"
	platformDarwin = "darwin"
)

// appName is the application directory name used across all platforms.
const appName = "SeaSync"

// configFileName is the default config file name within DefaultConfigDir.
const configFileName = "config.toml"

// DefaultConfigDir returns the platform-specific directory for the config
// file. On Linux, respects XDG_CONFIG_HOME (default ~/.config/SeaSync). On
// macOS, uses ~/Library/Application Support/SeaSync per Apple convention.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch runtime.GOOS {
	case platformLinux:
		return linuxXDGDir(home, "XDG_CONFIG_HOME", ".config")
	case platformDarwin:
		return filepath.Join(home, "Library", "Application Support", appName)
	default:
		return filepath.Join(home, ".config", appName)
	}
}

// DefaultConfigPath returns the full path to the default config file.
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return configFileName
	}

	return filepath.Join(dir, configFileName)
}

// DefaultDataDir returns the platform-specific directory for application
// data: the state database and the file-backed secret store fallback.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch runtime.GOOS {
	case platformLinux:
		return linuxXDGDir(home, "XDG_DATA_HOME", ".local/share")
	case platformDarwin:
		return filepath.Join(home, "Library", "Application Support", appName)
	default:
		return filepath.Join(home, ".local", "share", appName)
	}
}

// linuxXDGDir resolves an XDG base-directory variable, falling back to
// home/fallbackRel/appName when the variable is unset.
func linuxXDGDir(home, envVar, fallbackRel string) string {
	if xdg := os.Getenv(envVar); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	return filepath.Join(home, fallbackRel, appName)
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
// The local sync path in the config file is the one setting a user is
// likely to write with a literal "~".
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}

	return path
}
