package sync

import (
	"sort"
	"strings"

	"github.com/dvdcodez/SeaSync/internal/seafile"
	"github.com/dvdcodez/SeaSync/internal/syncstate"
)

// Reconciler is a pure function over three tree snapshots. It holds no
// state of its own; the Orchestrator constructs its inputs fresh every
// cycle.
type Reconciler struct{}

// NewReconciler creates a Reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Reconcile computes the ordered action plan for one library from its
// remote listing, local scan, and last persisted baseline. readOnly
// suppresses every outbound mutation (Upload, DeleteRemote) for libraries
// whose permission is "r".
func (r *Reconciler) Reconcile(
	libraryID string,
	remoteEntries []seafile.RemoteEntry,
	localEntries map[string]LocalEntry,
	baseline []syncstate.SyncedFile,
	readOnly bool,
) ActionPlan {
	remote := make(remoteIndex, len(remoteEntries))
	for _, e := range remoteEntries {
		remote[e.Path] = e
	}

	var (
		createDirs    []SyncAction
		downloads     []SyncAction
		uploads       []SyncAction
		deleteRemotes []SyncAction
		deleteLocals  []SyncAction
	)

	// 1. Descend remote, emit downloads/mkdirs (spec order preserved for
	// determinism; directory creations are re-sorted by depth below,
	// downloads keep listing order).
	for _, e := range remoteEntries {
		local, existsLocally := localEntries[e.Path]

		if e.IsDir {
			if !existsLocally {
				createDirs = append(createDirs, SyncAction{
					Kind:      ActionCreateDirectory,
					LocalPath: e.Path,
					IsDir:     true,
					Mtime:     e.Mtime,
				})
			}

			continue
		}

		if !existsLocally || local.Mtime < e.Mtime {
			downloads = append(downloads, SyncAction{
				Kind:       ActionDownload,
				RemotePath: e.Path,
				LocalPath:  e.Path,
				Size:       e.Size,
				Mtime:      e.Mtime,
			})
		}
	}

	// 2. Walk local, emit uploads.
	if !readOnly {
		paths := make([]string, 0, len(localEntries))
		for p := range localEntries {
			paths = append(paths, p)
		}

		sort.Strings(paths)

		for _, p := range paths {
			local := localEntries[p]
			if local.IsDir {
				continue
			}

			remoteEntry, inRemote := remote[p]

			switch {
			case !inRemote:
				uploads = append(uploads, SyncAction{
					Kind:       ActionUpload,
					LocalPath:  p,
					RemotePath: p,
					Mtime:      local.Mtime,
				})
			case !remoteEntry.IsDir && local.Mtime > remoteEntry.Mtime:
				uploads = append(uploads, SyncAction{
					Kind:       ActionUpload,
					LocalPath:  p,
					RemotePath: p,
					Mtime:      local.Mtime,
				})
			}
		}
	}

	// 3. Deletion detection via baseline.
	for _, b := range baseline {
		_, inRemote := remote[b.Path]
		_, inLocal := localEntries[b.Path]

		switch {
		case !inRemote && inLocal:
			deleteLocals = append(deleteLocals, SyncAction{
				Kind:      ActionDeleteLocal,
				LocalPath: b.Path,
				IsDir:     b.IsDir,
			})
		case !inLocal && inRemote:
			if readOnly {
				continue
			}

			deleteRemotes = append(deleteRemotes, SyncAction{
				Kind:       ActionDeleteRemote,
				RemotePath: b.Path,
				IsDir:      b.IsDir,
			})
		}
	}

	sortByDepth(createDirs, true)
	sortByDepth(uploads, false)
	sortByDepth(deleteRemotes, false)
	sortByDepth(deleteLocals, false)

	actions := make([]SyncAction, 0, len(createDirs)+len(downloads)+len(uploads)+len(deleteRemotes)+len(deleteLocals))
	actions = append(actions, createDirs...)
	actions = append(actions, downloads...)
	actions = append(actions, uploads...)
	actions = append(actions, deleteRemotes...)
	actions = append(actions, deleteLocals...)

	return ActionPlan{LibraryID: libraryID, Actions: actions}
}

// sortByDepth orders actions by path depth, ascending when ascending is true
// (shallow first, for directory creation) or descending otherwise
// (children before parents, for deletion and bottom-up upload ordering).
// Ties break on path for determinism.
func sortByDepth(actions []SyncAction, ascending bool) {
	sort.SliceStable(actions, func(i, j int) bool {
		pi, pj := actionPath(actions[i]), actionPath(actions[j])
		di, dj := pathDepth(pi), pathDepth(pj)

		if di != dj {
			if ascending {
				return di < dj
			}

			return di > dj
		}

		return pi < pj
	})
}

func actionPath(a SyncAction) string {
	if a.LocalPath != "" {
		return a.LocalPath
	}

	return a.RemotePath
}

func pathDepth(path string) int {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return 0
	}

	return strings.Count(trimmed, "/") + 1
}
