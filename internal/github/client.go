// Package github rates linked repositories as the code-host reputation
// signal for the analyzer. The score is best-effort: any API failure
// rates the repository 0 rather than disturbing the sweep.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"resty.dev/v3"
)

const defaultBaseAPI = "https://api.github.com"

// Client fetches repository metadata. An optional redis cache keeps
// scores warm across sweeps so repeatedly linked repositories don't
// hammer the API.
type Client struct {
	baseAPI  string
	client   *resty.Client
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewClient builds a GitHub client. token may be empty (unauthenticated
// rate limits apply); cache may be nil.
func NewClient(baseAPI, token string, cache *redis.Client, cacheTTL time.Duration) *Client {
	if strings.TrimSpace(baseAPI) == "" {
		baseAPI = defaultBaseAPI
	}
	if cacheTTL <= 0 {
		cacheTTL = 6 * time.Hour
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseAPI, "/")).
		SetTimeout(5*time.Second).
		SetHeader("Accept", "application/vnd.github+json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{baseAPI: baseAPI, client: c, cache: cache, cacheTTL: cacheTTL}
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.client.Close()
}

type repoInfo struct {
	StargazersCount int       `json:"stargazers_count"`
	UpdatedAt       time.Time `json:"updated_at"`
	Description     string    `json:"description"`
	OpenIssuesCount int       `json:"open_issues_count"`
	License         *struct {
		Key string `json:"key"`
	} `json:"license"`
}

// RateRepo scores the repository a post links to, in [0,1].
// Stars, recent activity, a description, a license, language diversity
// and open-issue activity each contribute a band. Returns 0 when the
// URL is not a repository link or on any failure.
func (c *Client) RateRepo(ctx context.Context, rawURL string) float64 {
	owner, repo, ok := splitRepoPath(rawURL)
	if !ok {
		return 0
	}

	cacheKey := fmt.Sprintf("github:repo:%s/%s", owner, repo)
	if c.cache != nil {
		if v, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
			if score, err := strconv.ParseFloat(v, 64); err == nil {
				return score
			}
		}
	}

	score := c.rate(ctx, owner, repo)

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, strconv.FormatFloat(score, 'f', -1, 64), c.cacheTTL).Err(); err != nil {
			slog.Debug("github: cache write failed", "key", cacheKey, "error", err)
		}
	}
	return score
}

func (c *Client) rate(ctx context.Context, owner, repo string) float64 {
	var info repoInfo
	resp, err := c.client.R().
		WithContext(ctx).
		SetResult(&info).
		Get(fmt.Sprintf("/repos/%s/%s", owner, repo))
	if err != nil || resp.IsError() {
		slog.Debug("github: repo lookup failed", "owner", owner, "repo", repo, "error", err)
		return 0
	}

	var score float64

	if info.StargazersCount > 0 {
		starScore := float64(info.StargazersCount) / 100 * 0.1
		if starScore > 0.3 {
			starScore = 0.3
		}
		score += starScore
	}

	if !info.UpdatedAt.IsZero() {
		days := time.Since(info.UpdatedAt).Hours() / 24
		switch {
		case days < 30:
			score += 0.2
		case days < 90:
			score += 0.1
		}
	}

	if info.Description != "" {
		score += 0.1
	}
	if info.License != nil {
		score += 0.1
	}
	if info.OpenIssuesCount > 0 {
		score += 0.1
	}

	var languages map[string]int64
	resp, err = c.client.R().
		WithContext(ctx).
		SetResult(&languages).
		Get(fmt.Sprintf("/repos/%s/%s/languages", owner, repo))
	if err == nil && !resp.IsError() && len(languages) > 1 {
		score += 0.1
	}

	if score > 1 {
		score = 1
	}
	return score
}

// splitRepoPath extracts owner/repo from a github.com URL.
func splitRepoPath(rawURL string) (owner, repo string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.Contains(strings.ToLower(u.Host), "github.com") {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
