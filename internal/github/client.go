// Package github files release-tracking issues through the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/temurin-build/pipeline-tools/internal/httpclient"
	"github.com/temurin-build/pipeline-tools/internal/model"
)

const defaultAPIURL = "https://api.github.com"

// Client creates issues in one repository.
type Client struct {
	http  *httpclient.Client
	owner string
	repo  string
}

// Option configures the Client.
type Option func(*options)

type options struct {
	apiURL  string
	timeout time.Duration
}

// WithAPIURL points the client at a different API endpoint (GitHub
// Enterprise, or a test server).
func WithAPIURL(u string) Option {
	return func(o *options) { o.apiURL = u }
}

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// NewClient creates a client for owner/repo authenticated with a personal
// access token.
func NewClient(owner, repo, token string, opts ...Option) *Client {
	o := options{apiURL: defaultAPIURL, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		http: httpclient.New(o.apiURL,
			httpclient.WithTokenAuth(token),
			httpclient.WithTimeout(o.timeout),
		),
		owner: owner,
		repo:  repo,
	}
}

type issueRequest struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels,omitempty"`
}

// CreateIssue files a new issue and returns the created issue's number,
// title, and URL.
func (c *Client) CreateIssue(ctx context.Context, title, body string, labels []string) (*model.Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues", c.owner, c.repo)

	slog.Info("creating GitHub issue", "repo", c.owner+"/"+c.repo, "title", title)

	var issue model.Issue
	req := issueRequest{Title: title, Body: body, Labels: labels}
	if err := c.http.PostJSON(ctx, path, req, &issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	slog.Info("created issue", "number", issue.Number, "url", issue.HTMLURL)
	return &issue, nil
}
