// Package client is a Go client for the rosterd HTTP API. It also carries the
// interactive pieces the browser app provides: a registration form controller
// and a polling list watcher.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/registry"
)

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (status %d): %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to the rosterd user API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateUser registers a new user.
func (c *Client) CreateUser(ctx context.Context, req *registry.CreateUserRequest) (*registry.User, error) {
	user := &registry.User{}
	if err := c.do(ctx, http.MethodPost, "/api/users", req, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers fetches all users, newest first.
func (c *Client) ListUsers(ctx context.Context) ([]*registry.User, error) {
	users := make([]*registry.User, 0)
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies a partial payload to the user with the given id.
func (c *Client) UpdateUser(ctx context.Context, id uuid.UUID, req *registry.UpdateUserRequest) (*registry.User, error) {
	user := &registry.User{}
	if err := c.do(ctx, http.MethodPut, "/api/users/"+id.String(), req, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user with the given id.
func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+id.String(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
		Detail  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Detail = body.Detail
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
