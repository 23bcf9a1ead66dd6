// Package github lists the published tags of a manual's source repository.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// tagsPerPage is the largest page size the tags endpoint accepts.
	tagsPerPage = 100

	// listingBurst is how many pages may be requested back to back, so a
	// full tag listing is not throttled page by page.
	listingBurst = 10
)

// Options configures a Client.
type Options struct {
	// Token authenticates requests when non-empty.
	Token string
	// BaseURL overrides the API endpoint (tests, GitHub Enterprise).
	BaseURL string
	// RequestsPerHour throttles calls; zero disables throttling.
	RequestsPerHour int
	// HTTPClient is used for unauthenticated requests when set.
	HTTPClient *http.Client
}

// Client wraps the go-github client with a proactive rate limiter.
type Client struct {
	gh      *gh.Client
	limiter *rate.Limiter
}

// NewClient creates a tag-listing client.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = DefaultTimeout
	}

	client := gh.NewClient(httpClient)
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parsing github base url: %w", err)
		}
		client.BaseURL = u
	}

	limit, burst := rate.Inf, 1
	if opts.RequestsPerHour > 0 {
		limit = rate.Limit(float64(opts.RequestsPerHour) / time.Hour.Seconds())
		burst = min(opts.RequestsPerHour, listingBurst)
	}

	return &Client{
		gh:      client,
		limiter: rate.NewLimiter(limit, burst),
	}, nil
}

// ListTags returns every tag name of owner/repo in the order the API reports them.
func (c *Client) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	var names []string
	opts := &gh.ListOptions{PerPage: tagsPerPage}

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		tags, resp, err := c.gh.Repositories.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return nil, wrapError(err, "list tags")
		}

		for _, t := range tags {
			names = append(names, t.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return names, nil
}

// wrapError adds operation context and flags rate limiting explicitly.
func wrapError(err error, op string) error {
	if _, ok := err.(*gh.RateLimitError); ok {
		return fmt.Errorf("%s: github rate limit exceeded: %w", op, err)
	}
	if _, ok := err.(*gh.AbuseRateLimitError); ok {
		return fmt.Errorf("%s: github secondary rate limit: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
