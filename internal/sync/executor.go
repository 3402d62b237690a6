package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dvdcodez/SeaSync/internal/seafile"
)

// Executor is the Action Executor (C5): it runs one SyncAction at a time
// against the Remote Client and the local filesystem. A single action's
// failure is captured and does not stop the remaining actions in the plan.
type Executor struct {
	client *seafile.Client
	logger *slog.Logger
}

// NewExecutor creates an Executor bound to client.
func NewExecutor(client *seafile.Client, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{client: client, logger: logger}
}

// Execute runs every action in plan against localRoot, in order, returning
// one SyncError per failed action. libraryName is carried on each error
// record for display.
func (e *Executor) Execute(ctx context.Context, libraryID, libraryName, localRoot string, plan ActionPlan) []SyncError {
	var errs []SyncError

	for _, action := range plan.Actions {
		if err := e.executeOne(ctx, libraryID, localRoot, action); err != nil {
			e.logger.Warn("sync: action failed",
				slog.String("library", libraryName),
				slog.String("kind", action.Kind.String()),
				slog.String("error", err.Error()),
			)

			errs = append(errs, SyncError{
				Message:     err.Error(),
				Timestamp:   time.Now(),
				LibraryName: libraryName,
				FilePath:    actionPath(action),
			})
		}
	}

	return errs
}

func (e *Executor) executeOne(ctx context.Context, libraryID, localRoot string, action SyncAction) error {
	switch action.Kind {
	case ActionCreateDirectory:
		return e.executeCreateDirectory(localRoot, action)
	case ActionDownload:
		return e.executeDownload(ctx, libraryID, localRoot, action)
	case ActionUpload:
		return e.executeUpload(ctx, libraryID, localRoot, action)
	case ActionDeleteRemote:
		return e.executeDeleteRemote(ctx, libraryID, action)
	case ActionDeleteLocal:
		return e.executeDeleteLocal(localRoot, action)
	default:
		return fmt.Errorf("sync: unsupported action kind %v", action.Kind)
	}
}

func (e *Executor) executeCreateDirectory(localRoot string, action SyncAction) error {
	full := filepath.Join(localRoot, filepath.FromSlash(action.LocalPath))

	if err := os.MkdirAll(full, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", action.LocalPath, err)
	}

	return nil
}

// executeDownload fetches the pre-authenticated link, streams the body to
// a temporary ".partial" sibling, sets its mtime to the remote's, and
// atomically renames it over the target.
func (e *Executor) executeDownload(ctx context.Context, libraryID, localRoot string, action SyncAction) error {
	link, err := e.client.DownloadLink(ctx, libraryID, action.RemotePath)
	if err != nil {
		return fmt.Errorf("obtaining download link for %s: %w", action.RemotePath, err)
	}

	target := filepath.Join(localRoot, filepath.FromSlash(action.LocalPath))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", action.LocalPath, err)
	}

	partial := target + ".partial"

	f, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("creating %s: %w", partial, err)
	}

	_, copyErr := e.client.Download(ctx, link, f)
	closeErr := f.Close()

	if copyErr != nil {
		os.Remove(partial)
		return fmt.Errorf("downloading %s: %w", action.RemotePath, copyErr)
	}

	if closeErr != nil {
		os.Remove(partial)
		return fmt.Errorf("closing %s: %w", partial, closeErr)
	}

	if action.Mtime > 0 {
		mtime := time.Unix(action.Mtime, 0)
		if err := os.Chtimes(partial, mtime, mtime); err != nil {
			e.logger.Warn("sync: failed to set mtime", slog.String("path", action.LocalPath), slog.String("error", err.Error()))
		}
	}

	if err := os.Rename(partial, target); err != nil {
		return fmt.Errorf("renaming %s into place: %w", action.LocalPath, err)
	}

	return nil
}

// executeUpload obtains an upload URL for the file's remote parent
// directory, lazily creating the remote parent chain when the server
// reports it missing, then POSTs the file content.
func (e *Executor) executeUpload(ctx context.Context, libraryID, localRoot string, action SyncAction) error {
	full := filepath.Join(localRoot, filepath.FromSlash(action.LocalPath))

	f, err := os.Open(full)
	if err != nil {
		return fmt.Errorf("opening %s: %w", action.LocalPath, err)
	}
	defer f.Close()

	parentDir := path.Dir(action.RemotePath)
	filename := path.Base(action.RemotePath)

	uploadURL, err := e.client.UploadLink(ctx, libraryID, parentDir)
	if errors.Is(err, seafile.ErrNotFound) {
		if mkErr := e.createRemoteParentChain(ctx, libraryID, parentDir); mkErr != nil {
			return fmt.Errorf("creating remote parent chain for %s: %w", action.RemotePath, mkErr)
		}

		uploadURL, err = e.client.UploadLink(ctx, libraryID, parentDir)
	}

	if err != nil {
		return fmt.Errorf("obtaining upload link for %s: %w", parentDir, err)
	}

	if err := e.client.Upload(ctx, uploadURL, parentDir, filename, f); err != nil {
		return fmt.Errorf("uploading %s: %w", action.LocalPath, err)
	}

	return nil
}

// createRemoteParentChain creates dir and every ancestor of it, root
// first. A Mkdir failure on any segment, "already exists" included, is
// logged and ignored; the function always returns nil.
func (e *Executor) createRemoteParentChain(ctx context.Context, libraryID, dir string) error {
	if dir == "/" || dir == "." {
		return nil
	}

	segments := strings.Split(strings.Trim(dir, "/"), "/")
	cur := ""

	for _, seg := range segments {
		cur += "/" + seg

		if err := e.client.Mkdir(ctx, libraryID, cur); err != nil {
			e.logger.Debug("sync: mkdir during parent chain creation", slog.String("path", cur), slog.String("error", err.Error()))
		}
	}

	return nil
}

func (e *Executor) executeDeleteRemote(ctx context.Context, libraryID string, action SyncAction) error {
	var err error

	if action.IsDir {
		err = e.client.DeleteDir(ctx, libraryID, action.RemotePath)
	} else {
		err = e.client.DeleteFile(ctx, libraryID, action.RemotePath)
	}

	if err != nil && !errors.Is(err, seafile.ErrNotFound) {
		return fmt.Errorf("deleting remote %s: %w", action.RemotePath, err)
	}

	return nil
}

// executeDeleteLocal best-effort removes the local path; a missing file
// is not an error.
func (e *Executor) executeDeleteLocal(localRoot string, action SyncAction) error {
	full := filepath.Join(localRoot, filepath.FromSlash(action.LocalPath))

	var err error
	if action.IsDir {
		err = os.RemoveAll(full)
	} else {
		err = os.Remove(full)
	}

	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting local %s: %w", action.LocalPath, err)
	}

	return nil
}
