package syncstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	// Pure-Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const (
	sqlGetLastSyncTime = `SELECT last_sync_time FROM sync_state WHERE library_id = ?`

	sqlListFiles = `SELECT library_id, path, object_id, mtime, size, is_directory
		FROM synced_files WHERE library_id = ?`

	sqlGetFile = `SELECT library_id, path, object_id, mtime, size, is_directory
		FROM synced_files WHERE library_id = ? AND path = ?`

	sqlUpsertSyncTime = `INSERT INTO sync_state (library_id, last_sync_time)
		VALUES (?, ?)
		ON CONFLICT(library_id) DO UPDATE SET last_sync_time = excluded.last_sync_time`

	sqlDeleteFilesForLibrary = `DELETE FROM synced_files WHERE library_id = ?`

	sqlInsertFile = `INSERT INTO synced_files
		(library_id, path, object_id, mtime, size, is_directory)
		VALUES (?, ?, ?, ?, ?, ?)`

	sqlDeleteAllSyncState   = `DELETE FROM sync_state`
	sqlDeleteAllSyncedFiles = `DELETE FROM synced_files`

	sqlCountConflicts = `SELECT COUNT(*) FROM conflicts`
)

// Store is the State Store (C1). It is the sole writer to the sync
// database: every connection in the pool shares the same DSN pragmas, and
// the pool is capped to one open connection so writes never interleave.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens the SQLite database at dbPath, runs pending migrations, and
// returns a ready-to-use Store. The database uses WAL mode for read
// concurrency with the orchestrator's status reporting, while the
// single-connection pool keeps the store itself a sole writer.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)"+
			"&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)",
		dbPath,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("syncstate: opening database %s: %w", dbPath, err)
	}

	db.SetMaxOpenConns(1)

	if err := runMigrations(context.Background(), db, logger); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("state store opened", slog.String("db_path", dbPath))

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetState returns the last persisted state for libraryID, or (nil, nil)
// if the library has never been synced successfully. A library with a
// persisted last_sync_time but zero baseline rows is treated as never
// synced — the timestamp alone is not sufficient evidence of a completed
// cycle under this store's semantics.
func (s *Store) GetState(ctx context.Context, libraryID string) (*SyncState, error) {
	files, err := s.listFiles(ctx, libraryID)
	if err != nil {
		return nil, nil //nolint:nilerr // spec: read failures degrade to absent baseline
	}

	if len(files) == 0 {
		return nil, nil
	}

	var lastSync int64

	row := s.db.QueryRowContext(ctx, sqlGetLastSyncTime, libraryID)
	if err := row.Scan(&lastSync); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilerr // spec: read failures degrade to absent baseline
	}

	return &SyncState{LibraryID: libraryID, LastSyncTime: lastSync, Files: files}, nil
}

func (s *Store) listFiles(ctx context.Context, libraryID string) ([]SyncedFile, error) {
	rows, err := s.db.QueryContext(ctx, sqlListFiles, libraryID)
	if err != nil {
		return nil, fmt.Errorf("syncstate: listing files for %s: %w", libraryID, err)
	}
	defer rows.Close()

	var files []SyncedFile

	for rows.Next() {
		var f SyncedFile
		var isDir int

		if err := rows.Scan(&f.LibraryID, &f.Path, &f.ObjectID, &f.Mtime, &f.Size, &isDir); err != nil {
			return nil, fmt.Errorf("syncstate: scanning file row: %w", err)
		}

		f.IsDir = isDir != 0
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("syncstate: iterating file rows: %w", err)
	}

	return files, nil
}

// GetFile is a point lookup of a single baseline row.
func (s *Store) GetFile(ctx context.Context, libraryID, path string) (*SyncedFile, error) {
	var f SyncedFile
	var isDir int

	row := s.db.QueryRowContext(ctx, sqlGetFile, libraryID, path)
	err := row.Scan(&f.LibraryID, &f.Path, &f.ObjectID, &f.Mtime, &f.Size, &isDir)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("syncstate: getting file %s/%s: %w", libraryID, path, err)
	}

	f.IsDir = isDir != 0

	return &f, nil
}

// SaveState atomically replaces the persisted timestamp and full baseline
// row set for state.LibraryID: upsert the timestamp, delete every existing
// row for the library, then bulk-insert the new rows, all within one
// transaction. Any I/O failure here is fatal to the current cycle.
func (s *Store) SaveState(ctx context.Context, state *SyncState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("syncstate: beginning save transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.ExecContext(ctx, sqlUpsertSyncTime, state.LibraryID, state.LastSyncTime); err != nil {
		return fmt.Errorf("syncstate: upserting sync time for %s: %w", state.LibraryID, err)
	}

	if _, err := tx.ExecContext(ctx, sqlDeleteFilesForLibrary, state.LibraryID); err != nil {
		return fmt.Errorf("syncstate: clearing baseline for %s: %w", state.LibraryID, err)
	}

	for _, f := range state.Files {
		isDir := 0
		if f.IsDir {
			isDir = 1
		}

		_, err := tx.ExecContext(ctx, sqlInsertFile, state.LibraryID, f.Path, f.ObjectID, f.Mtime, f.Size, isDir)
		if err != nil {
			return fmt.Errorf("syncstate: inserting baseline row %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("syncstate: committing save for %s: %w", state.LibraryID, err)
	}

	s.logger.Debug("baseline saved",
		slog.String("library_id", state.LibraryID),
		slog.Int("files", len(state.Files)),
	)

	return nil
}

// ConflictCount returns the number of rows in the conflict ledger,
// whatever their resolution. It is always zero under last-modified-wins —
// the reconciler never emits the Conflict action variant that would write
// to this table — but the table exists for a future conflict-resolution
// strategy, and status reporting surfaces the count rather than hiding it.
func (s *Store) ConflictCount(ctx context.Context) (int, error) {
	var count int

	row := s.db.QueryRowContext(ctx, sqlCountConflicts)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("syncstate: counting conflicts: %w", err)
	}

	return count, nil
}

// DeleteAll wipes every persisted sync_state and synced_files row. The
// CLI's `logout --purge` does not call it; it removes the database file
// instead.
func (s *Store) DeleteAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("syncstate: beginning delete-all transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.ExecContext(ctx, sqlDeleteAllSyncedFiles); err != nil {
		return fmt.Errorf("syncstate: clearing synced_files: %w", err)
	}

	if _, err := tx.ExecContext(ctx, sqlDeleteAllSyncState); err != nil {
		return fmt.Errorf("syncstate: clearing sync_state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("syncstate: committing delete-all: %w", err)
	}

	return nil
}
