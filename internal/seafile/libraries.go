package seafile

import (
	"context"
	"fmt"
)

const pathRepos = "/api2/repos/"

// ListLibraries returns every library visible to the authenticated user
// (spec.md §4.3 "List libraries"). The server returns a bare JSON array.
func (c *Client) ListLibraries(ctx context.Context) ([]Library, error) {
	r, err := c.request(ctx, false)
	if err != nil {
		return nil, err
	}

	var libs []Library

	resp, err := r.SetResult(&libs).Get(pathRepos)
	if err != nil {
		return nil, fmt.Errorf("seafile: list libraries: %w", err)
	}

	if resp.IsError() {
		return nil, classifyStatus("list-libraries", resp.StatusCode(), resp.String())
	}

	return libs, nil
}

// SetLibraryPassword unlocks an encrypted library for the remainder of the
// session by submitting its password (spec.md §4.3 "Set library
// password"). A 400 response means the password was wrong
// (ErrIncorrectPassword).
func (c *Client) SetLibraryPassword(ctx context.Context, libraryID, password string) error {
	r, err := c.request(ctx, false)
	if err != nil {
		return err
	}

	resp, err := r.
		SetFormData(map[string]string{"password": password}).
		Post(fmt.Sprintf("/api2/repos/%s/", libraryID))
	if err != nil {
		return fmt.Errorf("seafile: set library password: %w", err)
	}

	if resp.IsError() {
		return classifyStatus("set-library-password", resp.StatusCode(), resp.String())
	}

	return nil
}
