package atuin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/tomatitito/atuin-bar/pkg/history"
	"github.com/tomatitito/atuin-bar/pkg/logging"
)

// DefaultBinary is looked up on PATH when no explicit path is configured.
const DefaultBinary = "atuin"

// DefaultLimit is passed to atuin when the caller does not set one.
const DefaultLimit = 50

// waitDelay bounds how long a cancelled search may keep its output pipes open.
const waitDelay = time.Second

// ErrNotInstalled is returned when the atuin binary cannot be executed.
var ErrNotInstalled = errors.New("atuin is not installed or not executable")

// Searcher runs a history search and returns atuin's raw output.
type Searcher interface {
	Search(ctx context.Context, query string, filters *SearchFilters) (string, error)
}

// Client runs the atuin CLI.
type Client struct {
	binary string
	limit  int
	logger logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBinary sets the atuin executable. Empty keeps the default.
func WithBinary(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.binary = path
		}
	}
}

// WithLimit sets the maximum number of entries atuin returns. Values below 1
// keep the default.
func WithLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		binary: DefaultBinary,
		limit:  DefaultLimit,
		logger: logging.NewDisabledLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "atuin")
	return c
}

// Binary returns the executable the client runs.
func (c *Client) Binary() string {
	return c.binary
}

// Args builds the argument list for one search. The query is always last.
func (c *Client) Args(query string, filters *SearchFilters) []string {
	args := []string{
		"search",
		"--search-mode", "prefix",
		"--limit", strconv.Itoa(c.limit),
		"--format", history.Format,
	}
	args = append(args, filters.args()...)
	return append(args, query)
}

// Search runs atuin and returns its stdout unchanged.
func (c *Client) Search(ctx context.Context, query string, filters *SearchFilters) (string, error) {
	args := c.Args(query, filters)
	c.logger.Debug("running search", "binary", c.binary, "args", args)

	return c.run(ctx, args...)
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("atuin command cancelled: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = exitErr.Error()
		}
		return "", fmt.Errorf("atuin command failed: %s", message)
	}
	return "", fmt.Errorf("%w: failed to execute %s: %v", ErrNotInstalled, c.binary, err)
}
