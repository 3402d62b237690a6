package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvdcodez/SeaSync/internal/sync"
)

func newSyncCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a single sync cycle and exit",
		Long: `Run one sync cycle against every visible library and exit.

Use --dry-run to compute and print the planned actions without executing
them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute actions without executing them")

	return cmd
}

func runSync(cmd *cobra.Command, dryRun bool) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	orch, cleanup, err := buildOrchestrator(cc, dryRun)
	if err != nil {
		return err
	}
	defer cleanup()

	cc.Statusf("Starting sync cycle...\n")

	cycleErr := orch.RunCycle(ctx)
	status := orch.Status()

	if flagJSON {
		if jsonErr := printSyncJSON(status); jsonErr != nil {
			return jsonErr
		}
	} else {
		printSyncText(status)
	}

	if cycleErr != nil && !errors.Is(cycleErr, sync.ErrSyncInProgress) {
		return fmt.Errorf("sync failed: %w", cycleErr)
	}

	if len(status.Errors) > 0 {
		return fmt.Errorf("sync completed with %d errors", len(status.Errors))
	}

	return nil
}

func printSyncJSON(status sync.Status) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if err := enc.Encode(status); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	return nil
}

func printSyncText(status sync.Status) {
	if len(status.Errors) == 0 {
		fmt.Println(colorize(colorGreen, "Sync complete."))
	} else {
		fmt.Println(colorize(colorYellow, fmt.Sprintf("Sync completed with %d errors.", len(status.Errors))))
	}

	for _, lib := range status.Libraries {
		fmt.Printf("  %s\n", lib.Name)
	}

	for _, e := range status.Errors {
		fmt.Printf("  error: %s: %s\n", e.LibraryName, e.Message)
	}
}
