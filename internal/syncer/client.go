package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pushp314/releasenotes-backend/internal/models"
)

const userAgent = "releasenotes-sync/1.0"

// TransportError means the remote instance could not be reached or did not
// answer with a 2xx status. Anything else (bad JSON, database errors) is
// reported as a plain error.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteNote is a note as the remote API serves it, releases as ids
type RemoteNote struct {
	models.Note
	Releases []uint `json:"releases"`
}

// Client reads releases and notes from another instance's REST API
type Client struct {
	BaseURL  string
	APIToken string
	HTTP     *http.Client
}

// NewClient sends through http.DefaultTransport with the given timeout
func NewClient(baseURL, apiToken string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIToken: apiToken,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) FetchReleases(ctx context.Context, modifiedAfter *time.Time) ([]models.Release, error) {
	var out []models.Release
	if err := c.get(ctx, "releases", modifiedAfter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchNotes(ctx context.Context, modifiedAfter *time.Time) ([]RemoteNote, error) {
	var out []RemoteNote
	if err := c.get(ctx, "notes", modifiedAfter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, resource string, modifiedAfter *time.Time, dest interface{}) error {
	endpoint := c.BaseURL + "/" + resource + "/"
	if modifiedAfter != nil {
		q := url.Values{}
		q.Set("modified_after", modifiedAfter.UTC().Format(time.RFC3339Nano))
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.APIToken != "" {
		req.Header.Set("Authorization", "Token "+c.APIToken)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &TransportError{URL: endpoint, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{URL: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s: %w", resource, err)
	}
	return nil
}
