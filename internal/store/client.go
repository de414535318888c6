// Package store is a thin CRUD client for the remote to-do collection.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// Defaults for the hosted mock collection.
const (
	DefaultBaseURL    = "https://677a9e66671ca030683469a3.mockapi.io/todo"
	DefaultCollection = "createTodo"
	DefaultTimeout    = 10 * time.Second
)

// Client talks to one collection. It is safe for concurrent use.
type Client struct {
	base       *url.URL
	collection string
	http       *http.Client
	timeout    time.Duration
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCollection sets the resource name under the base URL.
func WithCollection(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.collection = strings.Trim(name, "/")
		}
	}
}

// WithTimeout bounds each request. Zero disables the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient returns a client for baseURL. An empty baseURL uses the hosted
// default.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:       u,
		collection: DefaultCollection,
		http:       http.DefaultClient,
		timeout:    DefaultTimeout,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches every task in the collection. Records that fail to decode
// are logged and skipped so one bad record cannot hide the rest.
func (c *Client) List(ctx context.Context) ([]*task.Task, error) {
	var raw []json.RawMessage
	if err := c.do(ctx, OpList, http.MethodGet, "", nil, &raw, http.StatusOK); err != nil {
		return nil, err
	}

	tasks := make([]*task.Task, 0, len(raw))
	for i, r := range raw {
		var t task.Task
		if err := json.Unmarshal(r, &t); err != nil {
			c.log.WarnContext(ctx, "skipping malformed task record", "index", i, "error", err)
			continue
		}
		tasks = append(tasks, &t)
	}
	return tasks, nil
}

// Create posts a new task. Any id on t is not sent; the store assigns one.
func (c *Client) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	body := *t
	body.ID = ""
	var created task.Task
	if err := c.do(ctx, OpCreate, http.MethodPost, "", &body, &created, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the task with the given id.
func (c *Client) Update(ctx context.Context, id task.ID, t *task.Task) (*task.Task, error) {
	body := *t
	body.ID = id
	var updated task.Task
	if err := c.do(ctx, OpUpdate, http.MethodPut, id.String(), &body, &updated, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the task with the given id. The UI calls this "complete".
func (c *Client) Delete(ctx context.Context, id task.ID) error {
	return c.do(ctx, OpDelete, http.MethodDelete, id.String(), nil, nil, http.StatusOK, http.StatusNoContent)
}

func (c *Client) endpoint(id string) string {
	u := *c.base
	u.Path = u.Path + "/" + url.PathEscape(c.collection)
	if id != "" {
		u.Path += "/" + url.PathEscape(id)
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, op Op, method, id string, in, out any, ok ...int) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	target := c.endpoint(id)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "store request failed", "op", op, "url", target, "error", err)
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	c.log.DebugContext(ctx, "store request",
		"op", op, "method", method, "url", target,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if !statusIn(resp.StatusCode, ok) {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.WarnContext(ctx, "store rejected request",
			"op", op, "status", resp.StatusCode, "body", string(snippet))
		return &Error{Op: op, Status: resp.StatusCode, Err: errUnexpectedStatus}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func statusIn(code int, ok []int) bool {
	for _, s := range ok {
		if code == s {
			return true
		}
	}
	return false
}
