package sync

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Scanner walks a library's local root and reports every path it finds,
// relative to that root.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a Scanner.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scanner{logger: logger}
}

// Scan walks root and returns every visible entry keyed by its path
// relative to root ("/" + relative path, POSIX separators, leading slash
// always present). A root that does not exist returns an empty map, not
// an error — the orchestrator is responsible for creating it before
// scanning. Hidden entries (any path segment starting with ".") are
// excluded. Symlinks are followed for their target's mtime but are never
// recursed into as directories, even when they point at one.
func (s *Scanner) Scan(root string) (map[string]LocalEntry, error) {
	out := make(map[string]LocalEntry)

	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}

		return nil, fmt.Errorf("sync: stat sync root %s: %w", root, err)
	}

	walkErr := filepath.WalkDir(root, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("scanner: walk error", "path", fullPath, "error", err)
			return nil
		}

		if fullPath == root {
			return nil
		}

		rel, err := filepath.Rel(root, fullPath)
		if err != nil {
			return fmt.Errorf("sync: relativizing %s: %w", fullPath, err)
		}

		relPath := "/" + norm.NFC.String(filepath.ToSlash(rel))

		if hasHiddenSegment(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		isDir := d.IsDir()

		info, err := d.Info()
		if err != nil {
			s.logger.Warn("scanner: cannot stat entry, skipping", "path", relPath, "error", err)
			return nil
		}

		// Symlinks are treated as files: reported with the target's mtime,
		// never walked into as a directory.
		if info.Mode()&os.ModeSymlink != 0 {
			target, statErr := os.Stat(fullPath)
			if statErr != nil {
				s.logger.Warn("scanner: broken symlink, skipping", "path", relPath, "error", statErr)
				return nil
			}

			info = target
			isDir = false
		}

		out[relPath] = LocalEntry{
			Path:  relPath,
			Mtime: info.ModTime().Unix(),
			IsDir: isDir,
		}

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("sync: scanning %s: %w", root, walkErr)
	}

	return out, nil
}

// hasHiddenSegment reports whether any "/"-separated segment of path
// begins with a dot.
func hasHiddenSegment(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, ".") && seg != "" {
			return true
		}
	}

	return false
}
