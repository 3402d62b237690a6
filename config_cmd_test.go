package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/dvdcodez/SeaSync/internal/config"
)

func cmdWithCLIContext(t *testing.T) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cc := &CLIContext{Cfg: config.DefaultConfig(), Logger: logger}
	cmd.SetContext(context.WithValue(context.Background(), cliContextKey{}, cc))

	return cmd
}

func TestRunConfigValidateAcceptsValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[sync]
local_sync_path = "/tmp/seafile"
sync_interval_seconds = 60
conflict_strategy = "last_modified_wins"
file_change_debounce_seconds = 2.0
max_concurrent_transfers = 4
database_path = "/tmp/seasync.db"
`), 0o644))

	cmd := cmdWithCLIContext(t)
	err := runConfigValidate(cmd, []string{path})
	require.NoError(t, err)
}

func TestRunConfigValidateRejectsBadInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[sync]
local_sync_path = "/tmp/seafile"
sync_interval_seconds = 1
conflict_strategy = "last_modified_wins"
file_change_debounce_seconds = 2.0
max_concurrent_transfers = 4
database_path = "/tmp/seasync.db"
`), 0o644))

	cmd := cmdWithCLIContext(t)
	err := runConfigValidate(cmd, []string{path})
	require.Error(t, err)
}
