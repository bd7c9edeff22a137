// Package source talks to the upstream users API (dummyjson-compatible) and the mock
// login endpoint. Every call is a single request: no retries, no caching.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/BradenHooton/userdir/internal/models"
)

// maxBodyBytes bounds upstream responses
const maxBodyBytes = 8 << 20

// Config configures a Client
type Config struct {
	BaseURL    string
	LoginURL   string
	FetchLimit int
	Timeout    time.Duration
}

// Client is the users API adapter
type Client struct {
	httpClient *http.Client
	baseURL    string
	loginURL   string
	fetchLimit int
	logger     *slog.Logger
}

// NewClient creates a users API client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		loginURL:   cfg.LoginURL,
		fetchLimit: cfg.FetchLimit,
		logger:     logger,
	}
}

// usersPage is the body of GET /users
type usersPage struct {
	Users []models.UserRecord `json:"users"`
	Total int                 `json:"total"`
	Skip  int                 `json:"skip"`
	Limit int                 `json:"limit"`
}

// ListUsers fetches the full working set of users in one request
func (c *Client) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	url := c.baseURL + "/users?limit=" + strconv.Itoa(c.fetchLimit)

	var page usersPage
	if err := c.getJSON(ctx, url, &page); err != nil {
		return nil, err
	}

	if err := checkUniqueIDs(page.Users); err != nil {
		return nil, fmt.Errorf("invalid users response: %v: %w", err, models.ErrSourceUnavailable)
	}

	if page.Users == nil {
		page.Users = []models.UserRecord{}
	}

	c.logger.Info("users fetched",
		slog.Int("count", len(page.Users)),
		slog.Int("total", page.Total),
	)
	return page.Users, nil
}

// GetUser fetches the detail record of one user
func (c *Client) GetUser(ctx context.Context, id int) (*models.UserDetail, error) {
	url := c.baseURL + "/users/" + strconv.Itoa(id)

	var user models.UserDetail
	if err := c.getJSON(ctx, url, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %v: %w", req.URL.Path, err, models.ErrSourceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s: %w", resp.StatusCode, req.URL.Path, models.ErrSourceUnavailable)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %v: %w", req.URL.Path, err, models.ErrSourceUnavailable)
	}
	return nil
}

func checkUniqueIDs(users []models.UserRecord) error {
	seen := make(map[int]struct{}, len(users))
	for _, u := range users {
		if u.ID <= 0 {
			return fmt.Errorf("user id %d is not positive", u.ID)
		}
		if _, ok := seen[u.ID]; ok {
			return fmt.Errorf("duplicate user id %d", u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	return nil
}
