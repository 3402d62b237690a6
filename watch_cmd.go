package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dvdcodez/SeaSync/internal/sync"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the sync engine continuously in the foreground",
		Long: `Run the trigger loop until interrupted: a periodic timer, the filesystem
watcher, and a single-flight sync orchestrator all converge on one
consumer. This is what a systemd unit or launchd job execs.`,
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	orch, cleanup, err := buildOrchestrator(cc, false)
	if err != nil {
		return err
	}
	defer cleanup()

	watcher := sync.NewWatcher(cc.Cfg.Sync.LocalSyncPath, cc.Cfg.Sync.DebounceWindow(), cc.Logger)
	loop := sync.NewTriggerLoop(orch, watcher, cc.Cfg.Sync.SyncInterval(), cc.Logger)

	ctx := shutdownContext(cmd.Context(), cc.Logger)

	cc.Statusf("Watching %s (interval %s)...\n", cc.Cfg.Sync.LocalSyncPath, cc.Cfg.Sync.SyncInterval())

	if err := loop.Run(ctx); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	cc.Statusf("Stopped.\n")

	return nil
}
