package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/middlemost/radio"
)

// Ensure client implements interface.
var _ radio.FileService = &Client{}

// Client lists and fetches audio files from a remote radio server.
type Client struct {
	URL        url.URL
	HTTPClient *http.Client
}

// NewClient returns a new instance of Client.
func NewClient() *Client {
	return &Client{HTTPClient: http.DefaultClient}
}

// ListFiles returns the file names served by the remote /api/tracks endpoint.
func (c *Client) ListFiles(ctx context.Context) ([]string, error) {
	resp, err := c.get(ctx, "/api/tracks")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list files: unexpected status: %d", resp.StatusCode)
	}

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return names, nil
}

// FindFileByName fetches a file from the remote /music endpoint.
// The returned reader streams the response body and must be closed.
func (c *Client) FindFileByName(ctx context.Context, name string) (*radio.File, io.ReadCloser, error) {
	if name == "" {
		return nil, nil, radio.ErrFilenameRequired
	} else if !radio.IsValidFilename(name) {
		return nil, nil, radio.ErrInvalidFilename
	}

	resp, err := c.get(ctx, "/music/"+url.PathEscape(name))
	if err != nil {
		return nil, nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, nil, radio.ErrFileNotFound
	default:
		resp.Body.Close()
		return nil, nil, fmt.Errorf("fetch file: unexpected status: name=%q status=%d", name, resp.StatusCode)
	}

	f := &radio.File{Name: name, Size: resp.ContentLength}
	if f.Size < 0 {
		f.Size, _ = strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	}
	return f, resp.Body, nil
}

// get performs a GET request against a path on the remote server.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	target := strings.TrimSuffix(c.URL.String(), "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	return c.HTTPClient.Do(req)
}
