package sync

import (
	"errors"
	"fmt"
	"time"
)

// ErrSyncInProgress is returned by RunCycle when a cycle is already
// running; the single-flight rejection is silent at the UI layer (spec's
// propagation policy), but callers that want to know still can.
var ErrSyncInProgress = errors.New("sync: cycle already in progress")

// EncryptedLibraryNeedsPasswordError means a library is encrypted and no
// password (or the wrong one) is available in the secret store. The
// library is skipped for the remainder of the cycle; it is not a
// whole-cycle failure. WrongPassword distinguishes the two causes: false
// means no password was on file in the secret store at all, true means
// one was on file but the server rejected it (400) — a UI needs to know
// which, since the first calls for an initial prompt and the second for
// telling the user their cached password no longer works.
type EncryptedLibraryNeedsPasswordError struct {
	LibraryName   string
	WrongPassword bool
}

func (e *EncryptedLibraryNeedsPasswordError) Error() string {
	if e.WrongPassword {
		return fmt.Sprintf("sync: library %q's cached password was rejected by the server", e.LibraryName)
	}

	return fmt.Sprintf("sync: library %q is encrypted and needs a password", e.LibraryName)
}

// SyncError is one per-action failure captured during a cycle. It is
// appended to the orchestrator's observable error list; it does not stop
// the cycle.
type SyncError struct {
	Message     string
	Timestamp   time.Time
	LibraryName string
	FilePath    string
}
