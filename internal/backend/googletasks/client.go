// Package googletasks implements the gateway.Gateway interface using Google Tasks API.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskdeck/internal/config"
	"taskdeck/internal/gateway"
	"taskdeck/internal/task"
)

const (
	// PageSize is the number of tasks per page.
	PageSize = 100

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Client implements gateway.Gateway using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	// Token source refreshes on demand
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, listID: cfg.Google.List, timeout: cfg.Timeout}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, listID string) (*Client, error) {
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listID: listID, timeout: config.DefaultTimeout}, nil
}

func fromAPI(t *tasks.Task) task.Task {
	status := task.StatusEmpty
	if t.Status == statusCompleted {
		status = task.StatusCompleted
	}
	// Google Tasks has no creation time; updated is the only timestamp.
	return task.Task{
		ID:        t.Id,
		Title:     t.Title,
		Summary:   t.Notes,
		Status:    status,
		UpdatedAt: t.Updated,
	}
}

func toAPIStatus(s task.Status) string {
	if s == task.StatusCompleted {
		return statusCompleted
	}
	return statusNeedsAction
}

// List implements gateway.Gateway. Completed and hidden tasks are included.
func (c *Client) List(ctx context.Context) ([]task.Task, error) {
	ctx, cancel := gateway.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := []task.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(gateway.OpList, "", err)
	}
	return result, nil
}

// Create implements gateway.Gateway.
func (c *Client) Create(ctx context.Context, t task.Task) (task.Task, error) {
	ctx, cancel := gateway.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title:  t.Title,
		Notes:  t.Summary,
		Status: toAPIStatus(t.Status),
	}).Context(ctx).Do()
	if err != nil {
		return task.Task{}, wrapError(gateway.OpCreate, "", err)
	}
	return fromAPI(created), nil
}

// Update implements gateway.Gateway.
func (c *Client) Update(ctx context.Context, id string, d task.Draft) (task.Task, error) {
	ctx, cancel := gateway.WithTimeout(ctx, c.timeout)
	defer cancel()

	patch := &tasks.Task{Title: d.Title, Notes: d.Summary}
	// An empty summary must clear the notes rather than be omitted.
	patch.ForceSendFields = []string{"Notes"}
	updated, err := c.svc.Tasks.Patch(c.listID, id, patch).Context(ctx).Do()
	if err != nil {
		return task.Task{}, wrapError(gateway.OpUpdate, id, err)
	}
	return fromAPI(updated), nil
}

// UpdateStatus implements gateway.Gateway.
func (c *Client) UpdateStatus(ctx context.Context, id string, status task.Status) error {
	ctx, cancel := gateway.WithTimeout(ctx, c.timeout)
	defer cancel()

	patch := &tasks.Task{Status: toAPIStatus(status)}
	if status != task.StatusCompleted {
		patch.NullFields = []string{"Completed"}
	}
	if _, err := c.svc.Tasks.Patch(c.listID, id, patch).Context(ctx).Do(); err != nil {
		return wrapError(gateway.OpUpdateStatus, id, err)
	}
	return nil
}

// Delete implements gateway.Gateway.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, cancel := gateway.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(gateway.OpDelete, id, err)
	}
	return nil
}

// Get implements gateway.Gateway.
func (c *Client) Get(ctx context.Context, id string) (task.Task, error) {
	ctx, cancel := gateway.WithTimeout(ctx, c.timeout)
	defer cancel()

	t, err := c.svc.Tasks.Get(c.listID, id).Context(ctx).Do()
	if err != nil {
		return task.Task{}, wrapError(gateway.OpGet, id, err)
	}
	return fromAPI(t), nil
}

// wrapError classifies API errors into the gateway taxonomy with
// user-friendly messages.
func wrapError(op, target string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		var reason error
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			reason = fmt.Errorf("token expired or revoked (run: taskdeck login)")
		case http.StatusNotFound:
			reason = fmt.Errorf("not found")
		default:
			reason = apiErr
		}
		return gateway.Rejection(op, target, apiErr.Code, reason)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return gateway.Network(op, target, fmt.Errorf("request timed out"))
	}
	return gateway.Network(op, target, err)
}
