// Package client talks to the kafe API and can serve as a store.Backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/hours"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError is a response with success=false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// Login starts an admin session. The session cookie is kept by the client.
func (c *Client) Login(ctx context.Context, password string) error {
	return c.call(ctx, http.MethodPost, "/admin/login", map[string]string{"password": password}, nil)
}

// Fetch reads the whole snapshot from GET /api/database.
func (c *Client) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/database", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch snapshot: unexpected status %d", resp.StatusCode)
	}

	snapshot := &domain.Snapshot{}
	if err := json.NewDecoder(resp.Body).Decode(snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

// Save replaces the whole snapshot through POST /api/database. It needs an
// admin session.
func (c *Client) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	err := c.call(ctx, http.MethodPost, "/api/database", snapshot, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return fmt.Errorf("save snapshot: %w (log in with --password)", err)
	}
	return err
}

// Status reads GET /status. ok is false when the shop has no operating hours
// configured.
func (c *Client) Status(ctx context.Context) (status hours.Status, ok bool, err error) {
	var resp struct {
		hours.Status
		Configured bool `json:"configured"`
	}
	if err = c.call(ctx, http.MethodGet, "/status", nil, &resp); err != nil {
		return hours.Status{}, false, err
	}
	return resp.Status, resp.Configured, nil
}
