package seafile

import (
	"context"
	"fmt"
	"io"
)

// DownloadLink obtains a pre-authenticated URL for downloading path within
// libraryID (spec.md §4.3 "Download link"). The response body is a
// JSON-encoded string, unwrapped here.
func (c *Client) DownloadLink(ctx context.Context, libraryID, path string) (string, error) {
	r, err := c.request(ctx, false)
	if err != nil {
		return "", err
	}

	resp, err := r.
		SetQueryParam("p", path).
		SetQueryParam("reuse", "1").
		Get(fmt.Sprintf("/api2/repos/%s/file/", libraryID))
	if err != nil {
		return "", fmt.Errorf("seafile: download link %s: %w", path, err)
	}

	if resp.IsError() {
		return "", classifyStatus("download-link", resp.StatusCode(), resp.String())
	}

	return unwrapQuotedString(resp.String()), nil
}

// Download streams the content at url (obtained from DownloadLink) to w,
// returning the number of bytes written (spec.md §4.3 "Download"). url is
// normally a fully-qualified link, used as is; a relative url is resolved
// against the client's base URL. No auth header is attached.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return 0, fmt.Errorf("seafile: download: %w", err)
	}

	body := resp.Body
	defer body.Close()

	if resp.IsError() {
		data, _ := io.ReadAll(body)
		return 0, classifyStatus("download", resp.StatusCode(), string(data))
	}

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("seafile: download: copying body: %w", err)
	}

	return n, nil
}

// UploadLink obtains a pre-authenticated URL for uploading into parentDir
// within libraryID (spec.md §4.3 "Upload link").
func (c *Client) UploadLink(ctx context.Context, libraryID, parentDir string) (string, error) {
	r, err := c.request(ctx, false)
	if err != nil {
		return "", err
	}

	resp, err := r.
		SetQueryParam("p", parentDir).
		Get(fmt.Sprintf("/api2/repos/%s/upload-link/", libraryID))
	if err != nil {
		return "", fmt.Errorf("seafile: upload link %s: %w", parentDir, err)
	}

	if resp.IsError() {
		return "", classifyStatus("upload-link", resp.StatusCode(), resp.String())
	}

	return unwrapQuotedString(resp.String()), nil
}

// Upload posts the contents of r as filename into parentDir at
// uploadURL (obtained from UploadLink), replacing any existing file of
// the same name (spec.md §4.3 "Upload"). A 443 response means the
// library's quota was exceeded (ErrQuotaExceeded).
func (c *Client) Upload(ctx context.Context, uploadURL, parentDir, filename string, r io.Reader) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"parent_dir": parentDir,
			"replace":    "1",
		}).
		SetFileReader("file", filename, r).
		Post(uploadURL)
	if err != nil {
		return fmt.Errorf("seafile: upload %s: %w", filename, err)
	}

	if resp.IsError() {
		return classifyStatus("upload", resp.StatusCode(), resp.String())
	}

	return nil
}
