package secretstore

import (
	"errors"
	"log/slog"

	"github.com/zalando/go-keyring"
)

// keyringService is the service name under which all SeaSync secrets are
// namespaced in the OS keyring (Keychain, Secret Service, Credential
// Manager).
const keyringService = "seasync"

// KeyringStore stores secrets in the OS-native credential store via
// zalando/go-keyring. It is the default backend; NewDefault falls back to
// FileStore when no keyring daemon is reachable (headless Linux, CI).
type KeyringStore struct {
	logger *slog.Logger
}

// NewKeyringStore creates a KeyringStore. Callers should probe it with a
// round-trip write/read/delete (see NewDefault) before relying on it, since
// go-keyring only fails at call time, not at construction.
func NewKeyringStore(logger *slog.Logger) *KeyringStore {
	return &KeyringStore{logger: logger}
}

// Get implements Store.
func (k *KeyringStore) Get(key string) ([]byte, bool, error) {
	v, err := keyring.Get(keyringService, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return []byte(v), true, nil
}

// Put implements Store.
func (k *KeyringStore) Put(key string, value []byte) error {
	return keyring.Set(keyringService, key, string(value))
}

// Delete implements Store.
func (k *KeyringStore) Delete(key string) error {
	err := keyring.Delete(keyringService, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}

	return err
}

// probeKey is written and deleted once at startup to verify a working
// keyring daemon is reachable before trusting it with real secrets.
const probeKey = "seasync-probe"

// NewDefault returns a KeyringStore if the OS keyring is reachable, or a
// FileStore rooted at dataDir otherwise. The probe mirrors the teacher's
// pattern of failing fast and falling back rather than surfacing a
// mid-cycle secret-store error (spec.md §7: "secret-store op failure is
// surfaced; non-fatal if readable fallback exists").
func NewDefault(dataDir string, logger *slog.Logger) Store {
	ks := NewKeyringStore(logger)

	if err := ks.Put(probeKey, []byte("ok")); err != nil {
		logger.Warn("os keyring unavailable, falling back to file-backed secret store",
			slog.String("error", err.Error()))

		return NewFileStore(dataDir)
	}

	_ = ks.Delete(probeKey)

	return ks
}
