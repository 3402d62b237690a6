package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dvdcodez/SeaSync/internal/secretstore"
	"github.com/dvdcodez/SeaSync/internal/seafile"
	"github.com/dvdcodez/SeaSync/internal/syncstate"
)

// Orchestrator is the Sync Orchestrator (C6). It owns the single-flight
// guard and drives one cycle: list libraries, then for each, scan, read
// baseline, reconcile, execute, and persist a new baseline derived from
// the remote listing observed at the start of that library's step.
type Orchestrator struct {
	client      *seafile.Client
	store       *syncstate.Store
	secrets     secretstore.Store
	scanner     *Scanner
	reconciler  *Reconciler
	executor    *Executor
	syncRoot    string
	logger      *slog.Logger
	status      *statusBoard
	syncing     atomic.Bool
	nowFunc     func() time.Time
	dryRun      bool
}

// NewOrchestrator wires the Sync Orchestrator's dependencies. syncRoot is
// the configured local_sync_path; each library gets a subdirectory under
// it named after the library.
func NewOrchestrator(
	client *seafile.Client,
	store *syncstate.Store,
	secrets secretstore.Store,
	syncRoot string,
	dryRun bool,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		client:     client,
		store:      store,
		secrets:    secrets,
		scanner:    NewScanner(logger),
		reconciler: NewReconciler(),
		executor:   NewExecutor(client, logger),
		syncRoot:   syncRoot,
		logger:     logger,
		status:     newStatusBoard(),
		nowFunc:    time.Now,
		dryRun:     dryRun,
	}
}

// Status returns a snapshot of the orchestrator's observable state.
func (o *Orchestrator) Status() Status {
	return o.status.Snapshot()
}

// RunCycle runs one sync cycle. It returns ErrSyncInProgress without doing
// any work if a cycle is already running — the single-flight guard. A
// whole-cycle failure (listing libraries, or writing a library's
// baseline) sets the observable status to error and is returned; every
// other per-library and per-action failure is captured as a SyncError
// record and does not stop the cycle or the other libraries.
func (o *Orchestrator) RunCycle(ctx context.Context) error {
	if !o.syncing.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer o.syncing.Store(false)

	o.status.clearErrors()
	o.status.clearReports()
	o.status.setPhase(PhaseSyncing)
	o.status.setCurrentOperation("listing libraries")

	libs, err := o.client.ListLibraries(ctx)
	if err != nil {
		o.status.setPhase(PhaseError)
		o.status.appendErrors([]SyncError{{
			Message:   fmt.Sprintf("listing libraries: %v", err),
			Timestamp: o.nowFunc(),
		}})

		return fmt.Errorf("sync: listing libraries: %w", err)
	}

	libStatuses := make([]LibraryStatus, len(libs))
	for i, l := range libs {
		libStatuses[i] = LibraryStatus{ID: l.ID, Name: l.Name, ReadOnly: l.ReadOnly()}
	}

	o.status.setLibraries(libStatuses)

	for i, lib := range libs {
		o.status.setProgress(float64(i) / float64(len(libs)))
		o.status.setCurrentOperation(fmt.Sprintf("syncing %s", lib.Name))

		if err := o.syncLibrary(ctx, lib); err != nil {
			o.status.setPhase(PhaseError)
			return err
		}
	}

	if count, err := o.store.ConflictCount(ctx); err == nil {
		o.status.setConflictCount(count)
	}

	o.status.setProgress(1)
	o.status.setCurrentOperation("")
	o.status.setLastSyncTime(o.nowFunc())
	o.status.setPhase(PhaseIdle)

	return nil
}

// syncLibrary runs one library's step of the cycle. Only a state-store
// write failure is fatal here (returned); every other failure is recorded
// as a SyncError and the library is skipped or partially completed.
func (o *Orchestrator) syncLibrary(ctx context.Context, lib seafile.Library) error {
	if lib.Encrypted {
		unlocked, err := o.unlockLibrary(ctx, lib)
		if !unlocked {
			o.status.appendErrors([]SyncError{{
				Message:     err.Error(),
				Timestamp:   o.nowFunc(),
				LibraryName: lib.Name,
			}})

			return nil
		}
	}

	localRoot := filepath.Join(o.syncRoot, lib.Name)
	if err := os.MkdirAll(localRoot, 0o755); err != nil {
		o.status.appendErrors([]SyncError{{
			Message:     fmt.Sprintf("creating local root: %v", err),
			Timestamp:   o.nowFunc(),
			LibraryName: lib.Name,
		}})

		return nil
	}

	remoteEntries, err := o.client.RecursiveList(ctx, lib.ID)
	if err != nil {
		o.status.appendErrors([]SyncError{{
			Message:     fmt.Sprintf("listing remote tree: %v", err),
			Timestamp:   o.nowFunc(),
			LibraryName: lib.Name,
		}})

		return nil
	}

	localEntries, err := o.scanner.Scan(localRoot)
	if err != nil {
		o.status.appendErrors([]SyncError{{
			Message:     fmt.Sprintf("scanning local tree: %v", err),
			Timestamp:   o.nowFunc(),
			LibraryName: lib.Name,
		}})

		return nil
	}

	state, err := o.store.GetState(ctx, lib.ID)
	if err != nil {
		// spec: read failures during get_state degrade to "absent baseline".
		state = nil
	}

	var baseline []syncstate.SyncedFile
	if state != nil {
		baseline = state.Files
	}

	plan := o.reconciler.Reconcile(lib.ID, remoteEntries, localEntries, baseline, lib.ReadOnly())

	if o.dryRun {
		o.logger.Info("sync: dry run, actions not executed",
			slog.String("library", lib.Name),
			slog.Int("actions", len(plan.Actions)),
		)

		for _, a := range plan.Actions {
			o.logger.Info("sync: dry run, planned action",
				slog.String("library", lib.Name),
				slog.String("kind", a.Kind.String()),
				slog.String("path", actionPath(a)),
			)
		}

		return nil
	}

	errs := o.executor.Execute(ctx, lib.ID, lib.Name, localRoot, plan)
	o.status.appendErrors(errs)

	newState := &syncstate.SyncState{
		LibraryID:    lib.ID,
		LastSyncTime: o.nowFunc().Unix(),
		Files:        remoteFilesFromEntries(lib.ID, remoteEntries),
	}

	if err := o.store.SaveState(ctx, newState); err != nil {
		return fmt.Errorf("sync: saving baseline for %s: %w", lib.Name, err)
	}

	o.status.appendReport(LibraryCycleReport{
		LibraryName:      lib.Name,
		BaselineFiles:    len(newState.Files),
		PhantomRiskPaths: phantomRiskPaths(errs),
	})

	return nil
}

// phantomRiskPaths extracts the file paths of actions that failed during
// execution. The baseline just persisted still reflects the pre-execution
// remote listing (spec.md §9's documented anomaly), so each of these paths
// may have a baseline row that no longer matches local disk — it will look
// like a phantom delete or a phantom create on the next cycle until the
// action succeeds.
func phantomRiskPaths(errs []SyncError) []string {
	if len(errs) == 0 {
		return nil
	}

	paths := make([]string, 0, len(errs))

	for _, e := range errs {
		if e.FilePath != "" {
			paths = append(paths, e.FilePath)
		}
	}

	return paths
}

// unlockLibrary looks up the library's password in the secret store and
// submits it. It returns false with a descriptive error when no password
// is on file or the server rejects it.
func (o *Orchestrator) unlockLibrary(ctx context.Context, lib seafile.Library) (bool, error) {
	pwd, ok, err := o.secrets.Get(secretstore.LibraryKey(lib.ID))
	if err != nil || !ok || len(pwd) == 0 {
		return false, &EncryptedLibraryNeedsPasswordError{LibraryName: lib.Name}
	}

	if err := o.client.SetLibraryPassword(ctx, lib.ID, string(pwd)); err != nil {
		if errors.Is(err, seafile.ErrIncorrectPassword) {
			return false, &EncryptedLibraryNeedsPasswordError{LibraryName: lib.Name, WrongPassword: true}
		}

		return false, fmt.Errorf("unlocking library %q: %w", lib.Name, err)
	}

	return true, nil
}

func remoteFilesFromEntries(libraryID string, entries []seafile.RemoteEntry) []syncstate.SyncedFile {
	files := make([]syncstate.SyncedFile, 0, len(entries))

	for _, e := range entries {
		files = append(files, syncstate.SyncedFile{
			LibraryID: libraryID,
			Path:      e.Path,
			ObjectID:  e.ObjectID,
			Mtime:     e.Mtime,
			Size:      e.Size,
			IsDir:     e.IsDir,
		})
	}

	return files
}
