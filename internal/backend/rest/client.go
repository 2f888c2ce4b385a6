// Package rest implements gateway.Gateway against an HTTP task store that
// exposes one endpoint per operation.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"taskdeck/internal/config"
	"taskdeck/internal/gateway"
	"taskdeck/internal/task"
)

const (
	// RequestIDHeader carries a per-call correlation ID.
	RequestIDHeader = "X-Request-Id"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20

	idPlaceholder = "{id}"
)

// Client implements gateway.Gateway over HTTP.
type Client struct {
	http      *http.Client
	endpoints config.Endpoints
	timeout   time.Duration
}

// New creates a client from configuration. When a token is configured every
// request carries it as a bearer credential.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	ep, err := cfg.ResolvedEndpoints()
	if err != nil {
		return nil, err
	}
	if err := validateEndpoints(ep); err != nil {
		return nil, err
	}

	httpClient := http.DefaultClient
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	c := NewWithHTTPClient(httpClient, ep)
	c.timeout = cfg.Timeout
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, ep config.Endpoints) *Client {
	return &Client{http: httpClient, endpoints: ep, timeout: config.DefaultTimeout}
}

func validateEndpoints(ep config.Endpoints) error {
	for _, raw := range []string{ep.List, ep.Create, ep.Update, ep.Status, ep.Delete, ep.Get} {
		u, err := url.Parse(strings.ReplaceAll(raw, idPlaceholder, "x"))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid endpoint url: %s", raw)
		}
	}
	return nil
}

// taskURL expands an endpoint template for one task.
func taskURL(tmpl, id string) string {
	escaped := url.PathEscape(id)
	if strings.Contains(tmpl, idPlaceholder) {
		return strings.ReplaceAll(tmpl, idPlaceholder, escaped)
	}
	return strings.TrimRight(tmpl, "/") + "/" + escaped
}

// List implements gateway.Gateway.
func (c *Client) List(ctx context.Context) ([]task.Task, error) {
	body, err := c.do(ctx, gateway.OpList, "", http.MethodGet, c.endpoints.List, nil)
	if err != nil {
		return nil, err
	}
	tasks, err := decodeItems(body)
	if err != nil {
		return nil, gateway.Network(gateway.OpList, "", fmt.Errorf("malformed response: %w", err))
	}
	return tasks, nil
}

// Create implements gateway.Gateway.
func (c *Client) Create(ctx context.Context, t task.Task) (task.Task, error) {
	status := t.Status
	if status == "" {
		status = task.StatusEmpty
	}
	body, err := c.do(ctx, gateway.OpCreate, "", http.MethodPost, c.endpoints.Create, createBody{
		Title:   t.Title,
		Summary: t.Summary,
		Status:  string(status),
	})
	if err != nil {
		return task.Task{}, err
	}
	created, err := decodeItem(body)
	if err != nil {
		return task.Task{}, gateway.Network(gateway.OpCreate, "", fmt.Errorf("malformed response: %w", err))
	}
	return created, nil
}

// Update implements gateway.Gateway.
func (c *Client) Update(ctx context.Context, id string, d task.Draft) (task.Task, error) {
	body, err := c.do(ctx, gateway.OpUpdate, id, http.MethodPut, taskURL(c.endpoints.Update, id), updateBody{
		Title:   d.Title,
		Summary: d.Summary,
	})
	if err != nil {
		return task.Task{}, err
	}
	updated, err := decodeItem(body)
	if err != nil {
		return task.Task{}, gateway.Network(gateway.OpUpdate, id, fmt.Errorf("malformed response: %w", err))
	}
	return updated, nil
}

// UpdateStatus implements gateway.Gateway.
func (c *Client) UpdateStatus(ctx context.Context, id string, status task.Status) error {
	_, err := c.do(ctx, gateway.OpUpdateStatus, id, http.MethodPut, taskURL(c.endpoints.Status, id), statusBody{
		Status: string(status),
	})
	return err
}

// Delete implements gateway.Gateway.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, gateway.OpDelete, id, http.MethodDelete, taskURL(c.endpoints.Delete, id), nil)
	return err
}

// Get implements gateway.Gateway.
func (c *Client) Get(ctx context.Context, id string) (task.Task, error) {
	body, err := c.do(ctx, gateway.OpGet, id, http.MethodGet, taskURL(c.endpoints.Get, id), nil)
	if err != nil {
		return task.Task{}, err
	}
	rec, err := decodeItem(body)
	if err != nil {
		return task.Task{}, gateway.Network(gateway.OpGet, id, fmt.Errorf("malformed response: %w", err))
	}
	return rec, nil
}

// do performs one request and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, op, target, method, rawURL string, payload any) ([]byte, error) {
	ctx, cancel := gateway.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, gateway.Network(op, target, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, gateway.Network(op, target, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, gateway.Network(op, target, wrapError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, gateway.Network(op, target, wrapError(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var reason error
		if msg := errorMessage(body); msg != "" {
			reason = errors.New(msg)
		}
		return nil, gateway.Rejection(op, target, resp.StatusCode, reason)
	}
	return body, nil
}

// wrapError turns transport errors into user-friendly messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return err
}
