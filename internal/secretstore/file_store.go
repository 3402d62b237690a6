package secretstore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// filePerms restricts secret files to owner-only read/write, matching the
// teacher's tokenfile.FilePerms convention.
const filePerms = 0o600

// dirPerms is used when creating the secrets directory.
const dirPerms = 0o700

// FileStore persists secrets as individual files under a directory, one
// file per key, named by the base64url encoding of the key. Values are
// written as given, without encoding or encryption. Used when no OS
// keyring is reachable.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// lazily on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: filepath.Join(dir, "secrets")}
}

// keyPath maps a logical secret key to a filesystem path. Keys are
// base64url-encoded so library ids containing ':' or '/' never escape the
// secrets directory.
func (f *FileStore) keyPath(key string) string {
	name := base64.URLEncoding.EncodeToString([]byte(key))
	return filepath.Join(f.dir, name)
}

// Get implements Store.
func (f *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.keyPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("secretstore: reading %s: %w", key, err)
	}

	return data, true, nil
}

// Put implements Store.
func (f *FileStore) Put(key string, value []byte) error {
	if err := os.MkdirAll(f.dir, dirPerms); err != nil {
		return fmt.Errorf("secretstore: creating secrets dir: %w", err)
	}

	if err := os.WriteFile(f.keyPath(key), value, filePerms); err != nil {
		return fmt.Errorf("secretstore: writing %s: %w", key, err)
	}

	return nil
}

// Delete implements Store. Deleting a missing key is not an error.
func (f *FileStore) Delete(key string) error {
	err := os.Remove(f.keyPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("secretstore: deleting %s: %w", key, err)
	}

	return nil
}
