package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvdcodez/SeaSync/internal/sync"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the observable state of the last sync cycle",
		Long: `Run one sync cycle and print the resulting observable status: phase,
progress, last sync time, per-library summary, and any pending errors.

status does not read state from a running "seasync watch" process — each
invocation runs its own cycle against the same state database.`,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	orch, cleanup, err := buildOrchestrator(cc, false)
	if err != nil {
		return err
	}
	defer cleanup()

	_ = orch.RunCycle(ctx)
	status := orch.Status()

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(status)
	}

	printStatusText(status)

	return nil
}

func printStatusText(status sync.Status) {
	fmt.Printf("Phase:         %s\n", statusPhaseColor(status.Phase))
	fmt.Printf("Progress:      %.0f%%\n", status.Progress*100)
	fmt.Printf("Last sync:     %s\n", formatTime(status.LastSyncTime))
	fmt.Printf("Libraries:     %d\n", len(status.Libraries))

	for _, lib := range status.Libraries {
		access := "rw"
		if lib.ReadOnly {
			access = "r"
		}

		fmt.Printf("  %-30s %s\n", lib.Name, access)
	}

	fmt.Printf("Conflicts:     %d (always zero under last-modified-wins)\n", status.Conflicts)

	printPhantomRisk(status.Reports)

	if len(status.Errors) == 0 {
		return
	}

	fmt.Printf("Errors:        %d\n", len(status.Errors))

	for _, e := range status.Errors {
		fmt.Printf("  %s: %s\n", e.LibraryName, e.Message)
	}
}

// printPhantomRisk surfaces the known baseline-write anomaly (spec.md §9):
// the baseline a cycle just saved reflects the remote listing taken before
// execution, so any action that failed leaves a row that may look like a
// phantom delete or create next cycle until it succeeds.
func printPhantomRisk(reports []sync.LibraryCycleReport) {
	for _, r := range reports {
		if len(r.PhantomRiskPaths) == 0 {
			continue
		}

		fmt.Printf("  %s: %d items may reappear as phantom deletes next cycle\n",
			r.LibraryName, len(r.PhantomRiskPaths))
	}
}

func statusPhaseColor(p sync.Phase) string {
	switch p {
	case sync.PhaseIdle:
		return colorize(colorGreen, string(p))
	case sync.PhaseError:
		return colorize(colorRed, string(p))
	default:
		return colorize(colorYellow, string(p))
	}
}
