// Package sync implements the sync engine: three-way reconciliation
// between a remote library tree, a local directory tree, and the last
// persisted baseline, plus the action planning, execution, and triggering
// that drive a sync cycle.
package sync

import "github.com/dvdcodez/SeaSync/internal/seafile"

// LocalEntry describes one path found during a local filesystem scan.
type LocalEntry struct {
	Path  string // "/" + path relative to the library's local root
	Mtime int64  // seconds since epoch, floor
	IsDir bool
}

// ActionKind tags the variant carried by a SyncAction.
type ActionKind int

const (
	ActionDownload ActionKind = iota
	ActionUpload
	ActionDeleteLocal
	ActionDeleteRemote
	ActionCreateDirectory
	// ActionConflict is reserved for a future conflict-resolution strategy.
	// The reconciler never emits it: last-modified-wins resolves every case.
	ActionConflict
)

func (k ActionKind) String() string {
	switch k {
	case ActionDownload:
		return "download"
	case ActionUpload:
		return "upload"
	case ActionDeleteLocal:
		return "delete_local"
	case ActionDeleteRemote:
		return "delete_remote"
	case ActionCreateDirectory:
		return "create_directory"
	case ActionConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// SyncAction is one step of an action plan. RemotePath and LocalPath are
// both set relative to a single library; most action kinds only need one
// of the two, but both are carried so the executor never has to re-derive
// one from the other.
type SyncAction struct {
	Kind       ActionKind
	RemotePath string
	LocalPath  string
	// IsDir records whether the baseline or remote listing marked this
	// path as a directory, needed by DeleteRemote to pick file-vs-dir
	// delete endpoints and by DeleteLocal to remove a whole subtree.
	IsDir bool
	// Size and Mtime are carried through from the remote entry for
	// Download/CreateDirectory actions so the executor does not need to
	// re-consult the remote listing.
	Size  int64
	Mtime int64
}

// ActionPlan is the ordered output of the reconciler for one library.
type ActionPlan struct {
	LibraryID string
	Actions   []SyncAction
}

// remoteIndex is a path-keyed view over a RecursiveList result, built once
// per cycle and consulted throughout reconciliation.
type remoteIndex map[string]seafile.RemoteEntry
