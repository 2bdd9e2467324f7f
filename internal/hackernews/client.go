package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Hacker News API client.
// Docs: https://github.com/HackerNews/API
//
// Every method downgrades network, status and decoding failures to an
// absent result. A missed item is picked up again by the next sweep if
// it is still inside the live id window; there are no retries here.
type Client struct {
	baseAPI string
	client  *http.Client
}

// NewClient creates a new Hacker News client. baseAPI should be something like
// "https://hacker-news.firebaseio.com/v0". If empty, it defaults to the v0 endpoint.
func NewClient(baseAPI string) *Client {
	if strings.TrimSpace(baseAPI) == "" {
		baseAPI = "https://hacker-news.firebaseio.com/v0"
	}
	return &Client{
		baseAPI: strings.TrimRight(baseAPI, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Item mirrors the subset of HN item fields we care about.
type Item struct {
	ID          int    `json:"id"`
	Type        string `json:"type"` // story, job, ask, show, poll, etc.
	By          string `json:"by"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Text        string `json:"text"`
	Time        int64  `json:"time"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Deleted     bool   `json:"deleted"`
	Dead        bool   `json:"dead"`
}

// CreatedAt is the item's HN submission time.
func (it *Item) CreatedAt() time.Time {
	return time.Unix(it.Time, 0).UTC()
}

// User mirrors the HN user profile fields we care about.
type User struct {
	ID      string `json:"id"`
	Karma   int    `json:"karma"`
	Created int64  `json:"created"`
}

// JoinedAt is the account's HN creation time.
func (u *User) JoinedAt() time.Time {
	return time.Unix(u.Created, 0).UTC()
}

// StoryIDs fetches a ranked id list such as "new", "top" or "best",
// newest-first, truncated to limit. Returns nil on any failure.
func (c *Client) StoryIDs(ctx context.Context, category string, limit int) []int {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = "new"
	}
	endpoint := fmt.Sprintf("%s/%s.json", c.baseAPI, url.PathEscape(category+"stories"))
	var ids []int
	if !c.getJSON(ctx, endpoint, &ids) {
		return nil
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// Item fetches a single HN item. Returns nil if the item is missing,
// deleted on the HN side, or the fetch failed.
func (c *Client) Item(ctx context.Context, id int) *Item {
	endpoint := fmt.Sprintf("%s/item/%d.json", c.baseAPI, id)
	var it *Item
	if !c.getJSON(ctx, endpoint, &it) {
		return nil
	}
	// The API returns literal null for deleted/unknown ids.
	if it == nil || it.ID == 0 {
		return nil
	}
	return it
}

// User fetches a user profile by name. Returns nil on absence or failure.
func (c *Client) User(ctx context.Context, name string) *User {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	endpoint := fmt.Sprintf("%s/user/%s.json", c.baseAPI, url.PathEscape(name))
	var u *User
	if !c.getJSON(ctx, endpoint, &u) {
		return nil
	}
	if u == nil || u.ID == "" {
		return nil
	}
	return u
}

// getJSON performs a GET and decodes the body into out. It reports
// false on any failure so callers can treat the result as absent.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		slog.Warn("hackernews: build request", "url", endpoint, "error", err)
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		slog.Warn("hackernews: request failed", "url", endpoint, "error", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("hackernews: unexpected status", "url", endpoint, "status", resp.StatusCode)
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Warn("hackernews: decode failed", "url", endpoint, "error", err)
		return false
	}
	return true
}
