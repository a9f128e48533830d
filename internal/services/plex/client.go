package plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"seasonsweep/internal/inventory"
	"seasonsweep/internal/logging"
	"seasonsweep/internal/services"
)

const serviceName = "plex"

// Client reads library state from one Plex server.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ inventory.WatchTracker = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout on a copy of the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		clone := *c.httpClient
		clone.Timeout = d
		c.httpClient = &clone
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Plex client for the server at baseURL.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, serviceName, "new client", "token required", nil)
	}
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Host == "" {
		return nil, services.Wrap(services.ErrConfiguration, serviceName, "new client", "valid base url required", nil)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	client := &Client{
		baseURL: parsed,
		token:   token,
		httpClient: &http.Client{
			Timeout:       30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name identifies the tracker in logs and reports.
func (c *Client) Name() string { return serviceName }

// getXML fetches path (relative to the base URL or absolute from the server
// root) and decodes the MediaContainer into dst.
func (c *Client) getXML(ctx context.Context, operation, path string, dst any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return services.Wrap(services.ErrExternal, serviceName, operation, "invalid path "+path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.ResolveReference(ref).String(), nil)
	if err != nil {
		return fmt.Errorf("build plex %s request: %w", operation, err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", services.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.ClassifyTransport(serviceName, operation, err)
	}
	defer resp.Body.Close()
	if err := services.CheckResponse(resp, serviceName, operation); err != nil {
		return err
	}
	if err := xml.NewDecoder(resp.Body).Decode(dst); err != nil {
		return services.Wrap(services.ErrExternal, serviceName, operation, "decode response", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

