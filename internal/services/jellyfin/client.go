package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"seasonsweep/internal/inventory"
	"seasonsweep/internal/logging"
	"seasonsweep/internal/services"
)

const serviceName = "jellyfin"

// Client reads one user's library state.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	user       string
	httpClient *http.Client
	logger     *slog.Logger

	mu     sync.Mutex
	userID string
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

// New creates a client. user is the Jellyfin user name whose watch state is
// read; it is resolved to an ID on first use.
func New(baseURL, apiKey, user string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, serviceName, "new client", "api key required", nil)
	}
	if strings.TrimSpace(user) == "" {
		return nil, services.Wrap(services.ErrConfiguration, serviceName, "new client", "user required", nil)
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
		apiKey:  apiKey,
		user:    user,
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

func (c *Client) getJSON(ctx context.Context, operation, path string, query url.Values, dst any) error {
	ref := &url.URL{Path: path}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.ResolveReference(ref).String(), nil)
	if err != nil {
		return fmt.Errorf("build jellyfin %s request: %w", operation, err)
	}
	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", services.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.ClassifyTransport(serviceName, operation, err)
	}
	defer resp.Body.Close()
	if err := services.CheckResponse(resp, serviceName, operation); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return services.Wrap(services.ErrExternal, serviceName, operation, "decode response", err)
	}
	return nil
}

type user struct {
	Name string `json:"Name"`
	ID   string `json:"Id"`
}

// UserID resolves the configured user name. The result is cached.
func (c *Client) UserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID != "" {
		return c.userID, nil
	}
	var users []user
	if err := c.getJSON(ctx, "list users", "Users", nil, &users); err != nil {
		return "", err
	}
	for _, u := range users {
		if u.Name == c.user {
			c.userID = u.ID
			return u.ID, nil
		}
	}
	return "", services.Wrap(services.ErrConfiguration, serviceName, "resolve user", fmt.Sprintf("user %q not found", c.user), nil)
}

type seasonItem struct {
	Name       string `json:"Name"`
	SeriesName string `json:"SeriesName"`
	ID         string `json:"Id"`
	UserData   struct {
		UnplayedItemCount int `json:"UnplayedItemCount"`
	} `json:"UserData"`
}

type itemsResponse struct {
	Items []seasonItem `json:"Items"`
}

// AllTVSeasons lists every season visible to the user.
func (c *Client) AllTVSeasons(ctx context.Context) ([]inventory.WatchedSeason, error) {
	userID, err := c.UserID(ctx)
	if err != nil {
		return nil, err
	}
	query := url.Values{
		"Recursive":        []string{"true"},
		"IncludeItemTypes": []string{"Season"},
		"Fields":           []string{"UserData"},
	}
	var resp itemsResponse
	if err := c.getJSON(ctx, "list seasons", "Users/"+url.PathEscape(userID)+"/Items", query, &resp); err != nil {
		return nil, err
	}
	out := make([]inventory.WatchedSeason, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, inventory.WatchedSeason{
			SeriesTitle:  item.SeriesName,
			SeasonLabel:  item.Name,
			FullyWatched: item.UserData.UnplayedItemCount == 0,
		})
	}
	c.logger.Debug("jellyfin seasons listed", logging.Int("seasons", len(out)))
	return out, nil
}
