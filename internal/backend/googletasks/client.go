// Package googletasks publishes local tasks to Google Tasks.
// It implements service.Remote.
package googletasks

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/view"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Remote using the Google Tasks API.
type Client struct {
	svc *tasks.Service
	log *log.Logger
}

var _ service.Remote = (*Client)(nil)

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	oc, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	tok, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	// Refreshes the access token as needed.
	httpClient := oauth2.NewClient(ctx, oc.TokenSource(ctx, tok))

	c, err := NewWithHTTPClient(ctx, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if logger != nil {
		c.log = logger
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, log: logging.Discard()}, nil
}

// EnsureList returns the task list titled title, creating it if needed.
func (c *Client) EnsureList(ctx context.Context, title string) (service.TaskList, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return service.TaskList{}, fmt.Errorf("list name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var matches []service.TaskList
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.EqualFold(strings.TrimSpace(list.Title), title) {
				matches = append(matches, service.TaskList{ID: list.Id, Title: list.Title})
			}
		}
		return nil
	})
	if err != nil {
		return service.TaskList{}, wrapError(err)
	}

	switch len(matches) {
	case 0:
	case 1:
		return matches[0], nil
	default:
		return service.TaskList{}, fmt.Errorf("ambiguous list name: %s", title)
	}

	created, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: title}).Context(ctx).Do()
	if err != nil {
		return service.TaskList{}, wrapError(err)
	}
	c.log.Debug("created task list", "id", created.Id, "title", created.Title)
	return service.TaskList{ID: created.Id, Title: created.Title}, nil
}

// PushTask creates task in the given list.
func (c *Client) PushTask(ctx context.Context, listID string, task service.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Insert(listID, toRemote(task)).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	c.log.Debug("pushed task", "list", listID, "id", task.ID)
	return nil
}

// toRemote maps a local task onto the API shape. Due dates the API
// cannot represent are kept in the notes instead.
func toRemote(task service.Task) *tasks.Task {
	rt := &tasks.Task{
		Title:  task.Text,
		Status: statusNeedsAction,
	}
	if task.Completed {
		rt.Status = statusCompleted
	}

	var notes []string
	if task.Category != "" {
		notes = append(notes, "Category: "+task.Category)
	}
	if task.DueDate != "" {
		if due, ok := view.ParseDate(task.DueDate); ok {
			// The API stores only the date part.
			y, m, d := due.Date()
			rt.Due = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
		} else {
			notes = append(notes, "Due: "+task.DueDate)
		}
	}
	rt.Notes = strings.Join(notes, "\n")
	return rt
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: todo login)")
	}

	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}

	return err
}
