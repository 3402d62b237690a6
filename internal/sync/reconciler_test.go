package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvdcodez/SeaSync/internal/seafile"
	"github.com/dvdcodez/SeaSync/internal/syncstate"
)

func kindsOf(actions []SyncAction) []ActionKind {
	kinds := make([]ActionKind, len(actions))
	for i, a := range actions {
		kinds[i] = a.Kind
	}

	return kinds
}

func TestReconcileFirstRunDownloadsEverything(t *testing.T) {
	remote := []seafile.RemoteEntry{
		{Path: "/docs", IsDir: true},
		{Path: "/docs/a.txt", ObjectID: "x", Mtime: 100, Size: 5},
	}

	plan := NewReconciler().Reconcile("lib1", remote, map[string]LocalEntry{}, nil, false)

	require.Len(t, plan.Actions, 2)
	assert.Equal(t, ActionCreateDirectory, plan.Actions[0].Kind)
	assert.Equal(t, "/docs", plan.Actions[0].LocalPath)
	assert.Equal(t, ActionDownload, plan.Actions[1].Kind)
	assert.Equal(t, "/docs/a.txt", plan.Actions[1].RemotePath)
}

func TestReconcileFirstRunUploadsLocalOnly(t *testing.T) {
	local := map[string]LocalEntry{
		"/l.txt": {Path: "/l.txt", Mtime: 210},
	}

	plan := NewReconciler().Reconcile("lib1", nil, local, nil, false)

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionUpload, plan.Actions[0].Kind)
	assert.Equal(t, "/l.txt", plan.Actions[0].LocalPath)
}

func TestReconcileEmptyLibraryProducesNoActions(t *testing.T) {
	plan := NewReconciler().Reconcile("lib1", nil, map[string]LocalEntry{}, nil, false)
	assert.Empty(t, plan.Actions)
}

func TestReconcileRemoteNewerTriggersDownload(t *testing.T) {
	remote := []seafile.RemoteEntry{{Path: "/a.txt", ObjectID: "y", Mtime: 150, Size: 10}}
	local := map[string]LocalEntry{"/a.txt": {Path: "/a.txt", Mtime: 100}}

	plan := NewReconciler().Reconcile("lib1", remote, local, nil, false)

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionDownload, plan.Actions[0].Kind)
}

func TestReconcileLocalNewerTriggersUpload(t *testing.T) {
	remote := []seafile.RemoteEntry{{Path: "/a.txt", ObjectID: "x", Mtime: 100, Size: 5}}
	local := map[string]LocalEntry{"/a.txt": {Path: "/a.txt", Mtime: 150}}

	plan := NewReconciler().Reconcile("lib1", remote, local, nil, false)

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionUpload, plan.Actions[0].Kind)
}

func TestReconcileEqualMtimeIsNoOp(t *testing.T) {
	remote := []seafile.RemoteEntry{{Path: "/a.txt", ObjectID: "x", Mtime: 100, Size: 5}}
	local := map[string]LocalEntry{"/a.txt": {Path: "/a.txt", Mtime: 100}}

	plan := NewReconciler().Reconcile("lib1", remote, local, nil, false)

	assert.Empty(t, plan.Actions)
}

func TestReconcileServerDeletionPropagatesLocalDelete(t *testing.T) {
	local := map[string]LocalEntry{"/a.txt": {Path: "/a.txt", Mtime: 100}}
	baseline := []syncstate.SyncedFile{{LibraryID: "lib1", Path: "/a.txt", ObjectID: "x", Mtime: 100, Size: 5}}

	plan := NewReconciler().Reconcile("lib1", nil, local, baseline, false)

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionDeleteLocal, plan.Actions[0].Kind)
	assert.Equal(t, "/a.txt", plan.Actions[0].LocalPath)
}

func TestReconcileLocalDeletionPropagatesRemoteDelete(t *testing.T) {
	remote := []seafile.RemoteEntry{{Path: "/a.txt", ObjectID: "x", Mtime: 100, Size: 5}}
	baseline := []syncstate.SyncedFile{{LibraryID: "lib1", Path: "/a.txt", ObjectID: "x", Mtime: 100, Size: 5}}

	plan := NewReconciler().Reconcile("lib1", remote, map[string]LocalEntry{}, baseline, false)

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionDeleteRemote, plan.Actions[0].Kind)
	assert.Equal(t, "/a.txt", plan.Actions[0].RemotePath)
}

func TestReconcileGoneFromBothSidesIsNoOp(t *testing.T) {
	baseline := []syncstate.SyncedFile{{LibraryID: "lib1", Path: "/a.txt", ObjectID: "x", Mtime: 100, Size: 5}}

	plan := NewReconciler().Reconcile("lib1", nil, map[string]LocalEntry{}, baseline, false)

	assert.Empty(t, plan.Actions)
}

func TestReconcileReadOnlySuppressesOutboundMutations(t *testing.T) {
	remote := []seafile.RemoteEntry{{Path: "/a.txt", ObjectID: "x", Mtime: 100, Size: 5}}
	local := map[string]LocalEntry{"/b.txt": {Path: "/b.txt", Mtime: 210}}
	baseline := []syncstate.SyncedFile{{LibraryID: "lib1", Path: "/a.txt", ObjectID: "x", Mtime: 100, Size: 5}}

	// /a.txt deleted locally (would be DeleteRemote), /b.txt new locally
	// (would be Upload) — both suppressed for a read-only library.
	plan := NewReconciler().Reconcile("lib1", remote, local, baseline, true)

	for _, a := range plan.Actions {
		assert.NotEqual(t, ActionUpload, a.Kind)
		assert.NotEqual(t, ActionDeleteRemote, a.Kind)
	}
}

func TestReconcileActionOrdering(t *testing.T) {
	remote := []seafile.RemoteEntry{
		{Path: "/dir", IsDir: true},
		{Path: "/dir/new.txt", ObjectID: "n", Mtime: 100, Size: 1},
		{Path: "/stale.txt", ObjectID: "s", Mtime: 50, Size: 1},
	}
	local := map[string]LocalEntry{
		"/upload.txt": {Path: "/upload.txt", Mtime: 300},
		"/removed.txt": {Path: "/removed.txt", Mtime: 100},
	}
	baseline := []syncstate.SyncedFile{
		{LibraryID: "lib1", Path: "/stale.txt", ObjectID: "s", Mtime: 50, Size: 1},
		{LibraryID: "lib1", Path: "/removed.txt", ObjectID: "r", Mtime: 100, Size: 1},
	}

	plan := NewReconciler().Reconcile("lib1", remote, local, baseline, false)

	kinds := kindsOf(plan.Actions)

	lastCreateDir, firstDownload, firstUpload, firstDeleteRemote, firstDeleteLocal := -1, -1, -1, -1, -1
	for i, k := range kinds {
		switch k {
		case ActionCreateDirectory:
			lastCreateDir = i
		case ActionDownload:
			if firstDownload == -1 {
				firstDownload = i
			}
		case ActionUpload:
			if firstUpload == -1 {
				firstUpload = i
			}
		case ActionDeleteRemote:
			if firstDeleteRemote == -1 {
				firstDeleteRemote = i
			}
		case ActionDeleteLocal:
			if firstDeleteLocal == -1 {
				firstDeleteLocal = i
			}
		}
	}

	require.NotEqual(t, -1, lastCreateDir)
	require.NotEqual(t, -1, firstDownload)
	require.NotEqual(t, -1, firstUpload)
	require.NotEqual(t, -1, firstDeleteRemote)

	assert.Less(t, lastCreateDir, firstDownload)
	assert.Less(t, firstDownload, firstUpload)
	assert.Less(t, firstUpload, firstDeleteRemote)
	assert.Less(t, firstDeleteRemote, firstDeleteLocal)
}
