// Package api is the HTTP query layer: the non-streaming calls the client
// makes against the server (session CRUD, provider catalog, health). It
// performs no retries; failures are reported to the caller, and no
// optimistic state is written anywhere before the server confirms.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opencode-ai/opencode-client/pkg/types"
)

// ErrUnhealthy marks a failed health probe. Callers can test for it with
// errors.Is without caring whether the probe failed at the transport or got a
// non-200 response.
var ErrUnhealthy = errors.New("server unhealthy")

// Error is a decoded server error response.
// Wire format: {"error": {"code": "...", "message": "..."}}
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error %s (%d): %s", e.Code, e.Status, e.Message)
}

// Provider describes one provider and its models from the catalog.
type Provider struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Models []Model `json:"models"`
}

// Model is one entry in a provider's model list.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client is a thin JSON client for the server's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Health probes the server. Any failure is reported wrapped in ErrUnhealthy;
// a decoded server *Error stays in the chain.
func (c *Client) Health(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

// ListSessions fetches the sessions for a project.
func (c *Client) ListSessions(ctx context.Context, projectID string) ([]types.Session, error) {
	var sessions []types.Session
	path := "/session?projectID=" + url.QueryEscape(projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CreateSession creates a session in a project.
func (c *Client) CreateSession(ctx context.Context, projectID, title string) (*types.Session, error) {
	body := map[string]string{"projectID": projectID, "title": title}
	var session types.Session
	if err := c.do(ctx, http.MethodPost, "/session", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession deletes a session by id.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/session/"+url.PathEscape(sessionID), nil, nil)
}

// ListProviders fetches the provider/model catalog.
func (c *Client) ListProviders(ctx context.Context) ([]Provider, error) {
	var providers []Provider
	if err := c.do(ctx, http.MethodGet, "/provider", nil, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// do performs one JSON request. A non-2xx response is decoded into *Error
// when the body carries the server error shape.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var wrapper struct {
		Error Error `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err == nil && wrapper.Error.Code != "" {
		wrapper.Error.Status = resp.StatusCode
		return &wrapper.Error
	}
	return &Error{Code: "UNKNOWN", Message: resp.Status, Status: resp.StatusCode}
}
