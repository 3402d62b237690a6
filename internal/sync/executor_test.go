package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvdcodez/SeaSync/internal/seafile"
)

func newTestExecutor(t *testing.T, handler http.HandlerFunc) *Executor {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := seafile.NewClient(srv.URL, seafile.StaticToken("t"), nil)
	t.Cleanup(func() { _ = client.Close() })

	return NewExecutor(client, nil)
}

func TestExecuteCreateDirectory(t *testing.T) {
	e := NewExecutor(seafile.NewClient("http://unused", seafile.StaticToken("t"), nil), nil)
	root := t.TempDir()

	plan := ActionPlan{Actions: []SyncAction{{Kind: ActionCreateDirectory, LocalPath: "/docs/sub"}}}

	errs := e.Execute(context.Background(), "lib1", "Docs", root, plan)
	assert.Empty(t, errs)

	info, err := os.Stat(filepath.Join(root, "docs", "sub"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExecuteDownloadWritesFileAtomically(t *testing.T) {
	e := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api2/repos/lib1/file/":
			_, _ = w.Write([]byte(`"` + downloadContentURL(t) + `"`))
		default:
			_, _ = w.Write([]byte("hello world"))
		}
	})

	root := t.TempDir()
	plan := ActionPlan{Actions: []SyncAction{{Kind: ActionDownload, RemotePath: "/a.txt", LocalPath: "/a.txt", Mtime: 1000}}}

	errs := e.Execute(context.Background(), "lib1", "Docs", root, plan)
	assert.Empty(t, errs)

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	_, statErr := os.Stat(filepath.Join(root, "a.txt.partial"))
	assert.True(t, os.IsNotExist(statErr), "partial file should not remain after successful download")
}

// downloadContentURL is a placeholder kept deliberately simple: the test
// server above treats any non-link path as the file body, and the relative
// link resolves against the client's base URL, so the link value itself
// doesn't need to be a real second server.
func downloadContentURL(t *testing.T) string {
	t.Helper()
	return "/content"
}

func TestExecuteDeleteLocalMissingFileIsNotAnError(t *testing.T) {
	e := NewExecutor(seafile.NewClient("http://unused", seafile.StaticToken("t"), nil), nil)
	root := t.TempDir()

	plan := ActionPlan{Actions: []SyncAction{{Kind: ActionDeleteLocal, LocalPath: "/missing.txt"}}}

	errs := e.Execute(context.Background(), "lib1", "Docs", root, plan)
	assert.Empty(t, errs)
}

func TestExecuteDeleteLocalRemovesExistingFile(t *testing.T) {
	e := NewExecutor(seafile.NewClient("http://unused", seafile.StaticToken("t"), nil), nil)
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	plan := ActionPlan{Actions: []SyncAction{{Kind: ActionDeleteLocal, LocalPath: "/a.txt"}}}

	errs := e.Execute(context.Background(), "lib1", "Docs", root, plan)
	assert.Empty(t, errs)

	_, err := os.Stat(filepath.Join(root, "a.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExecuteUploadFailureIsCapturedNotFatal(t *testing.T) {
	e := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("data"), 0o644))

	plan := ActionPlan{Actions: []SyncAction{
		{Kind: ActionUpload, LocalPath: "/a.txt", RemotePath: "/a.txt"},
		{Kind: ActionCreateDirectory, LocalPath: "/ok"},
	}}

	errs := e.Execute(context.Background(), "lib1", "Docs", root, plan)
	require.Len(t, errs, 1)
	assert.Equal(t, "Docs", errs[0].LibraryName)

	// The second action still ran despite the first failing.
	_, statErr := os.Stat(filepath.Join(root, "ok"))
	assert.NoError(t, statErr)
}
