// Package github implements the pull request lookup capability against
// the GitHub REST API. The client caches results in SQLite so repeated
// runs over the same range do not re-search the API, and it backs off
// for the rest of a run once GitHub reports rate limiting.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ariel-frischer/relnotes/internal/cache"
)

const defaultBaseURL = "https://api.github.com"

// Client is a GitHub API client with optional caching. It is safe for
// concurrent use by the classification fan-out.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	store      *cache.Cache
	log        *zap.SugaredLogger

	mu          sync.Mutex
	rateLimited bool
	resetTime   time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a GitHub API client. token may be empty for
// unauthenticated requests (tighter rate limits). store may be nil to
// disable caching. logger may be nil.
func NewClient(token string, store *cache.Cache, logger *zap.SugaredLogger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
		store:      store,
		log:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse is the subset of the issue search payload we read.
// A result is a pull request when the pull_request field is present.
type searchResponse struct {
	Items []struct {
		Number      int              `json:"number"`
		PullRequest *json.RawMessage `json:"pull_request"`
	} `json:"items"`
}

// pullResponse is the subset of the pull request payload we read.
type pullResponse struct {
	Body string `json:"body"`
}

// SearchPRBySHA finds the pull request whose history contains the given
// commit, using the issue search query "repo:{owner}/{repo} sha:{sha}".
// found is false when nothing matched or the first matching result is a
// plain issue.
func (c *Client) SearchPRBySHA(ctx context.Context, owner, repo, sha string) (int, bool, error) {
	if c.store != nil {
		number, isPR, found, err := c.store.SHASearch(owner, repo, sha)
		if err != nil {
			c.log.Debugw("sha search cache read failed", "sha", sha, "error", err)
		} else if found {
			return number, isPR && number > 0, nil
		}
	}

	query := url.QueryEscape(fmt.Sprintf("repo:%s/%s sha:%s", owner, repo, sha))
	endpoint := fmt.Sprintf("%s/search/issues?q=%s", c.baseURL, query)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return 0, false, err
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, false, err
	}

	number, isPR := 0, false
	for _, item := range result.Items {
		if item.PullRequest != nil {
			number, isPR = item.Number, true
			break
		}
	}

	if c.store != nil {
		if err := c.store.StoreSHASearch(owner, repo, sha, number, isPR); err != nil {
			c.log.Debugw("sha search cache write failed", "sha", sha, "error", err)
		}
	}
	return number, isPR, nil
}

// PullRequestBody fetches the description text of a pull request.
// found is false when the pull request does not exist or has no body.
func (c *Client) PullRequestBody(ctx context.Context, owner, repo string, number int) (string, bool, error) {
	if c.store != nil {
		body, found, err := c.store.PRBody(owner, repo, number)
		if err != nil {
			c.log.Debugw("pr body cache read failed", "pr", number, "error", err)
		} else if found {
			return body, body != "", nil
		}
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, number)

	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return "", false, err
	}

	var pull pullResponse
	if err := json.Unmarshal(raw, &pull); err != nil {
		return "", false, err
	}

	if c.store != nil {
		if err := c.store.StorePRBody(owner, repo, number, pull.Body); err != nil {
			c.log.Debugw("pr body cache write failed", "pr", number, "error", err)
		}
	}
	return pull.Body, pull.Body != "", nil
}

// get performs an authenticated GET and returns the response body.
// Rate limit responses put the client into a backoff that fails fast
// until GitHub's advertised reset time.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	c.mu.Lock()
	if c.rateLimited && time.Now().Before(c.resetTime) {
		reset := c.resetTime
		c.mu.Unlock()
		return nil, fmt.Errorf("rate limited until %s", reset.Format(time.RFC3339))
	}
	c.rateLimited = false
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return nil, c.recordRateLimit(resp)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// recordRateLimit parses the X-RateLimit-Reset header and arms the
// fail-fast backoff.
func (c *Client) recordRateLimit(resp *http.Response) error {
	resetHeader := resp.Header.Get("X-RateLimit-Reset")
	if resetHeader != "" {
		if reset, err := strconv.ParseInt(resetHeader, 10, 64); err == nil {
			resetTime := time.Unix(reset, 0)
			c.mu.Lock()
			c.rateLimited = true
			c.resetTime = resetTime
			c.mu.Unlock()
			c.log.Debugw("github rate limited", "reset", resetTime)
			return fmt.Errorf("rate limited until %s", resetTime.Format(time.RFC3339))
		}
	}
	return fmt.Errorf("rate limited by GitHub API")
}
