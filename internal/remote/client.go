// Package remote implements store.Store against the hosted task service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/ironfocus/internal/model"
	"github.com/existflow/ironfocus/internal/store"
)

// Client talks to an ironfocus-server instance
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ store.Store = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the service at baseURL. An empty apiKey
// sends no Authorization header.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListActive returns active tasks, newest first
func (c *Client) ListActive(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks?active=true", nil, &tasks); err != nil {
		return nil, fmt.Errorf("failed to list active tasks: %w", err)
	}
	return tasks, nil
}

// ListCompleted returns at most limit completed tasks
func (c *Client) ListCompleted(ctx context.Context, limit int) ([]model.Task, error) {
	if limit <= 0 {
		limit = store.CompletedLimit
	}

	var tasks []model.Task
	path := "/api/v1/tasks?active=false&limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask inserts an active task
func (c *Client) CreateTask(ctx context.Context, name string) (model.Task, error) {
	if strings.TrimSpace(name) == "" {
		return model.Task{}, store.ErrEmptyName
	}

	var task model.Task
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", body, &task); err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// CompleteTask marks a task completed
func (c *Client) CompleteTask(ctx context.Context, id string) error {
	body := map[string]bool{"is_active": false}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+url.PathEscape(id), body, nil); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	return nil
}

// FindTask resolves a full id or unique prefix
func (c *Client) FindTask(ctx context.Context, idOrPrefix string) (model.Task, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return model.Task{}, store.ErrNotFound
	}

	var task model.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+url.PathEscape(idOrPrefix), nil, &task); err != nil {
		return model.Task{}, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Close releases idle connections
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StatusError is a non-2xx answer the client has no sentinel for
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return store.ErrNotFound
	case http.StatusBadRequest:
		if msg == store.ErrEmptyName.Error() {
			return store.ErrEmptyName
		}
	case http.StatusConflict:
		if msg == store.ErrAmbiguous.Error() {
			return store.ErrAmbiguous
		}
		return store.ErrAlreadyCompleted
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
