package seafile

import (
	"context"
	"fmt"
	"net/http"
)

// listDirectory lists the immediate children of path within libraryID
// (spec.md §4.3 "List directory"). The server returns a bare JSON array.
func (c *Client) listDirectory(ctx context.Context, libraryID, path string) ([]dirEntry, error) {
	r, err := c.request(ctx, false)
	if err != nil {
		return nil, err
	}

	var entries []dirEntry

	resp, err := r.
		SetQueryParam("p", path).
		SetResult(&entries).
		Get(fmt.Sprintf("/api2/repos/%s/dir/", libraryID))
	if err != nil {
		return nil, fmt.Errorf("seafile: list directory %s: %w", path, err)
	}

	if resp.IsError() {
		return nil, classifyStatus("list-directory", resp.StatusCode(), resp.String())
	}

	return entries, nil
}

// RecursiveList walks libraryID's entire tree depth-first, emitting every
// node with its full absolute path. Each directory's children are listed
// in one call (breadth per directory) and emitted in the server's
// returned order; a child directory is recursed into immediately after
// being emitted, before its siblings — the classic preorder DFS described
// in spec.md §4.3, which keeps emission order stable and deterministic.
func (c *Client) RecursiveList(ctx context.Context, libraryID string) ([]RemoteEntry, error) {
	var out []RemoteEntry

	var walk func(path string) error
	walk = func(path string) error {
		children, err := c.listDirectory(ctx, libraryID, path)
		if err != nil {
			return err
		}

		for _, child := range children {
			full := joinRemotePath(path, child.Name)
			isDir := child.Type == "dir"

			entry := RemoteEntry{
				Path:  full,
				Mtime: child.Mtime,
				IsDir: isDir,
			}

			if !isDir {
				entry.ObjectID = child.ID
				entry.Size = child.Size
			}

			out = append(out, entry)

			if isDir {
				if err := walk(full); err != nil {
					return err
				}
			}
		}

		return nil
	}

	if err := walk("/"); err != nil {
		return nil, err
	}

	return out, nil
}

// joinRemotePath appends name to an absolute POSIX-style parent path.
func joinRemotePath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}

	return parent + "/" + name
}

// Mkdir creates a directory at path within libraryID (spec.md §4.3
// "Mkdir"). The server returns 200 or 201 on success.
func (c *Client) Mkdir(ctx context.Context, libraryID, path string) error {
	r, err := c.request(ctx, false)
	if err != nil {
		return err
	}

	resp, err := r.
		SetQueryParam("p", path).
		SetFormData(map[string]string{"operation": "mkdir"}).
		Post(fmt.Sprintf("/api2/repos/%s/dir/", libraryID))
	if err != nil {
		return fmt.Errorf("seafile: mkdir %s: %w", path, err)
	}

	if resp.IsError() && resp.StatusCode() != http.StatusCreated {
		return classifyStatus("mkdir", resp.StatusCode(), resp.String())
	}

	return nil
}

// DeleteFile removes the file at path within libraryID.
func (c *Client) DeleteFile(ctx context.Context, libraryID, path string) error {
	return c.delete(ctx, fmt.Sprintf("/api2/repos/%s/file/", libraryID), path)
}

// DeleteDir removes the directory at path within libraryID.
func (c *Client) DeleteDir(ctx context.Context, libraryID, path string) error {
	return c.delete(ctx, fmt.Sprintf("/api2/repos/%s/dir/", libraryID), path)
}

func (c *Client) delete(ctx context.Context, endpoint, path string) error {
	r, err := c.request(ctx, false)
	if err != nil {
		return err
	}

	resp, err := r.SetQueryParam("p", path).Delete(endpoint)
	if err != nil {
		return fmt.Errorf("seafile: delete %s: %w", path, err)
	}

	if resp.IsError() {
		return classifyStatus("delete", resp.StatusCode(), resp.String())
	}

	return nil
}
