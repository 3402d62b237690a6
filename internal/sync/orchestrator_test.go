package sync

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvdcodez/SeaSync/internal/secretstore"
	"github.com/dvdcodez/SeaSync/internal/seafile"
	"github.com/dvdcodez/SeaSync/internal/syncstate"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator(t *testing.T, handler http.HandlerFunc) (*Orchestrator, string) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := seafile.NewClient(srv.URL, seafile.StaticToken("t"), nil)
	t.Cleanup(func() { _ = client.Close() })

	store, err := syncstate.Open(filepath.Join(t.TempDir(), "state.db"), testLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	secrets := secretstore.NewMemoryStore()
	syncRoot := t.TempDir()

	return NewOrchestrator(client, store, secrets, syncRoot, false, testLogger(t)), syncRoot
}

func TestRunCycleFirstTimeDownloadsAndWritesBaseline(t *testing.T) {
	o, syncRoot := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api2/repos/":
			_ = json.NewEncoder(w).Encode([]seafile.Library{{ID: "lib1", Name: "Docs", Permission: "rw"}})
		case r.URL.Path == "/api2/repos/lib1/dir/":
			p := r.URL.Query().Get("p")
			if p == "/" {
				_ = json.NewEncoder(w).Encode([]map[string]any{
					{"name": "a.txt", "type": "file", "size": 5, "mtime": 1000},
				})
			} else {
				_ = json.NewEncoder(w).Encode([]map[string]any{})
			}
		case r.URL.Path == "/api2/repos/lib1/file/":
			_, _ = w.Write([]byte(`"` + "/content" + `"`))
		case r.URL.Path == "/content":
			_, _ = w.Write([]byte("hello"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	err := o.RunCycle(context.Background())
	require.NoError(t, err)

	status := o.Status()
	assert.Equal(t, PhaseIdle, status.Phase)
	assert.Empty(t, status.Errors)

	data, statErr := os.ReadFile(filepath.Join(syncRoot, "Docs", "a.txt"))
	require.NoError(t, statErr)
	assert.Equal(t, "hello", string(data))
}

func TestRunCycleSingleFlightRejectsOverlap(t *testing.T) {
	o, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	o.syncing.Store(true)
	defer o.syncing.Store(false)

	err := o.RunCycle(context.Background())
	require.ErrorIs(t, err, ErrSyncInProgress)
}

func TestRunCycleListLibrariesFailureSetsErrorStatus(t *testing.T) {
	o, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := o.RunCycle(context.Background())
	require.Error(t, err)
	assert.Equal(t, PhaseError, o.Status().Phase)
}

func TestRunCycleEncryptedLibraryWithoutPasswordSkipsLibrary(t *testing.T) {
	o, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api2/repos/" {
			_ = json.NewEncoder(w).Encode([]seafile.Library{{ID: "lib1", Name: "Secret", Encrypted: true, Permission: "rw"}})
			return
		}

		w.WriteHeader(http.StatusNotFound)
	})

	err := o.RunCycle(context.Background())
	require.NoError(t, err)

	status := o.Status()
	require.Len(t, status.Errors, 1)
	assert.Equal(t, "Secret", status.Errors[0].LibraryName)
	assert.Contains(t, status.Errors[0].Message, "needs a password")
}

func TestRunCycleEncryptedLibraryWrongPasswordIsDistinguished(t *testing.T) {
	o, syncRoot := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api2/repos/":
			_ = json.NewEncoder(w).Encode([]seafile.Library{{ID: "lib1", Name: "Secret", Encrypted: true, Permission: "rw"}})
		case r.URL.Path == "/api2/repos/lib1/" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	_ = syncRoot

	require.NoError(t, o.secrets.Put(secretstore.LibraryKey("lib1"), []byte("stale-password")))

	err := o.RunCycle(context.Background())
	require.NoError(t, err)

	status := o.Status()
	require.Len(t, status.Errors, 1)
	assert.Contains(t, status.Errors[0].Message, "rejected by the server")
}

func TestRunCycleDryRunDoesNotWriteBaseline(t *testing.T) {
	o, syncRoot := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api2/repos/":
			_ = json.NewEncoder(w).Encode([]seafile.Library{{ID: "lib1", Name: "Docs", Permission: "rw"}})
		case r.URL.Path == "/api2/repos/lib1/dir/":
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"name": "a.txt", "type": "file", "size": 5, "mtime": 1000},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	o.dryRun = true
	_ = syncRoot

	err := o.RunCycle(context.Background())
	require.NoError(t, err)

	state, stateErr := o.store.GetState(context.Background(), "lib1")
	require.NoError(t, stateErr)
	assert.Nil(t, state)
	assert.Empty(t, o.Status().Reports)
}

func TestRunCycleReportsPhantomRiskForFailedAction(t *testing.T) {
	o, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api2/repos/":
			_ = json.NewEncoder(w).Encode([]seafile.Library{{ID: "lib1", Name: "Docs", Permission: "rw"}})
		case r.URL.Path == "/api2/repos/lib1/dir/":
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"name": "a.txt", "type": "file", "size": 5, "mtime": 1000},
			})
		case r.URL.Path == "/api2/repos/lib1/file/":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	err := o.RunCycle(context.Background())
	require.NoError(t, err)

	status := o.Status()
	require.Len(t, status.Reports, 1)
	assert.Equal(t, "Docs", status.Reports[0].LibraryName)
	assert.NotEmpty(t, status.Reports[0].PhantomRiskPaths)
}

func TestRunCycleReportsConflictCount(t *testing.T) {
	o, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api2/repos/" {
			_ = json.NewEncoder(w).Encode([]seafile.Library{})
			return
		}

		w.WriteHeader(http.StatusNotFound)
	})

	err := o.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, o.Status().Conflicts)
}
