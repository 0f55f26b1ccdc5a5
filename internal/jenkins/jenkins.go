// Package jenkins fetches console logs for pipeline runs from a Jenkins
// server.
package jenkins

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/temurin-build/pipeline-tools/internal/httpclient"
)

const defaultTimeout = 60 * time.Second

// Client talks to one Jenkins server.
type Client struct {
	http *httpclient.Client
}

// Option configures the Client.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout overrides the default 60s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New creates a client for the Jenkins server at baseURL, authenticating
// with the given username and API token.
func New(baseURL, username, token string, opts ...Option) *Client {
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{
		http: httpclient.New(baseURL,
			httpclient.WithBasicAuth(username, token),
			httpclient.WithTimeout(o.timeout),
		),
	}
}

// ConsoleText retrieves the plain-text console log for one run of the named
// pipeline. Pipeline names may contain folder segments ("build-scripts/
// release-openjdk21-pipeline"); each segment is URL-encoded individually.
func (c *Client) ConsoleText(ctx context.Context, pipeline string, run int) (string, error) {
	path := consolePath(pipeline, run)

	text, err := c.http.GetText(ctx, path, nil)
	if err != nil {
		var apiErr *httpclient.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusUnauthorized:
				return "", fmt.Errorf("authentication failed: check your username and API token")
			case http.StatusNotFound:
				return "", fmt.Errorf("pipeline run not found: check that pipeline %q and run number %d are correct", pipeline, run)
			}
		}
		return "", fmt.Errorf("retrieve console log: %w", err)
	}
	return text, nil
}

// consolePath builds the consoleText URL path for a pipeline run.
func consolePath(pipeline string, run int) string {
	parts := strings.Split(pipeline, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return fmt.Sprintf("/job/%s/%d/consoleText", strings.Join(parts, "/"), run)
}
