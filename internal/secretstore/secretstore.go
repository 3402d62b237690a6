// Package secretstore provides a keyed secret store for the account bearer
// token and per-library encrypted-library passwords. It is a leaf package:
// no component outside the CLI entrypoint and the sync orchestrator depends
// on which backend is active.
package secretstore

import "encoding/json"

// Account is the persisted identity for one server connection: the base
// URL, the username used at login, and the opaque bearer token returned by
// the server (data-model.md / spec.md §3).
type Account struct {
	ServerURL string `json:"server_url"`
	Username  string `json:"username"`
	Token     string `json:"token"`
}

// accountKey is the fixed secret-store key for the single Account entry.
// A future multi-account federation would key this by account id; spec.md
// §1 explicitly excludes that from scope.
const accountKey = "account"

// libraryKeyPrefix namespaces per-library password entries.
const libraryKeyPrefix = "library:"

// Store is a keyed secret store. Absent entries return (nil, false, nil) —
// never an error — per spec.md §6 ("absent entries return null, never
// error").
type Store interface {
	// Get returns the raw secret bytes stored under key, or ok=false if
	// nothing is stored there.
	Get(key string) (value []byte, ok bool, err error)
	// Put stores value under key, overwriting any existing entry.
	Put(key string, value []byte) error
	// Delete removes the entry for key. Deleting a missing key is not an
	// error.
	Delete(key string) error
}

// LibraryKey returns the secret-store key for a library's encrypted
// password, given its remote library id.
func LibraryKey(libraryID string) string {
	return libraryKeyPrefix + libraryID
}

// SaveAccount serializes and stores the Account under the fixed account key.
func SaveAccount(s Store, acct *Account) error {
	data, err := json.Marshal(acct)
	if err != nil {
		return err
	}

	return s.Put(accountKey, data)
}

// LoadAccount returns the persisted Account, or nil if none has been saved.
func LoadAccount(s Store) (*Account, error) {
	data, ok, err := s.Get(accountKey)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, nil //nolint:nilnil // absent entry is not an error
	}

	var acct Account
	if err := json.Unmarshal(data, &acct); err != nil {
		return nil, err
	}

	return &acct, nil
}

// DeleteAccount removes the persisted Account. Missing is not an error.
func DeleteAccount(s Store) error {
	return s.Delete(accountKey)
}

// SaveLibraryPassword stores the plaintext password for an encrypted
// library, keyed by its remote library id.
func SaveLibraryPassword(s Store, libraryID, password string) error {
	return s.Put(LibraryKey(libraryID), []byte(password))
}

// LoadLibraryPassword returns the stored password for libraryID, or
// ok=false if none is on file.
func LoadLibraryPassword(s Store, libraryID string) (password string, ok bool, err error) {
	data, ok, err := s.Get(LibraryKey(libraryID))
	if err != nil || !ok {
		return "", ok, err
	}

	return string(data), true, nil
}

// DeleteLibraryPassword removes a stored library password, if any.
func DeleteLibraryPassword(s Store, libraryID string) error {
	return s.Delete(LibraryKey(libraryID))
}
