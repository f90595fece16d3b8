package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mpellerin/reel/internal/queue"
)

// Client is an HTTP catalog client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// trackRecord is the catalog's wire representation of a track.
type trackRecord struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Album  string `json:"album,omitempty"`
	Src    string `json:"src"`
	Cover  string `json:"cover,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Fetch returns the tracks for the given ids, or the full catalog when ids
// is empty.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]queue.Track, error) {
	reqURL := c.baseURL + "/tracks"
	if len(ids) > 0 {
		params := url.Values{}
		params.Set("ids", strings.Join(ids, ","))
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrUnavailable, resp.Status)
	}

	var records []trackRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	if len(records) == 0 {
		return nil, ErrEmpty
	}

	tracks := make([]queue.Track, len(records))
	for i, r := range records {
		tracks[i] = queue.Track{
			ID:     r.ID,
			Title:  r.Title,
			Artist: r.Author,
			Album:  r.Album,
			Src:    r.Src,
			Cover:  r.Cover,
			Type:   r.Type,
		}
	}
	return tracks, nil
}

// Verify Client implements Catalog at compile time.
var _ Catalog = (*Client)(nil)
