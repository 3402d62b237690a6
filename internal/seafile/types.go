// Package seafile implements the Remote Client contract (spec.md §4.3):
// the HTTP operations the sync engine depends on against a
// Seafile-compatible REST server.
package seafile

// Library is a top-level remote container (repository) owned the
// authenticated user, as returned by GET /api2/repos/.
type Library struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Encrypted  bool   `json:"encrypted"`
	Permission string `json:"permission"` // "r" or "rw"
	Size       int64  `json:"size"`
	Mtime      int64  `json:"mtime"`
}

// ReadOnly reports whether the library's permission forbids outbound
// mutations (spec.md §4.4 "read-only libraries").
func (l Library) ReadOnly() bool {
	return l.Permission == "r"
}

// dirEntry is the wire shape of one child returned by
// GET /api2/repos/{id}/dir/?p={path}. The server returns a bare JSON array,
// no envelope (spec.md §6).
type dirEntry struct {
	ID    string `json:"id"`
	Type  string `json:"type"` // "dir" or "file"
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	Mtime int64  `json:"mtime"`
}

// RemoteEntry is a single node under a library's directory tree, with a
// full absolute path filled in during the recursive descent (spec.md §3).
type RemoteEntry struct {
	Path     string // absolute, POSIX-style, starts with "/"
	ObjectID string // server-assigned content identifier
	Mtime    int64  // seconds since epoch
	Size     int64  // 0 for directories
	IsDir    bool
}
