// Package syncstate implements the State Store (C1): the durable baseline
// of library_id/path to file descriptor that the reconciler uses to detect
// deletions across cycles.
package syncstate

// SyncedFile is a single baseline row: the last observed remote descriptor
// for one path within one library.
type SyncedFile struct {
	LibraryID  string
	Path       string
	ObjectID   string
	Mtime      int64
	Size       int64
	IsDir      bool
}

// SyncState is a library's full persisted baseline: the timestamp of its
// last successful cycle plus every SyncedFile row observed in that cycle.
type SyncState struct {
	LibraryID    string
	LastSyncTime int64
	Files        []SyncedFile
}
