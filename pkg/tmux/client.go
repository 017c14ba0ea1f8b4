// Package tmux wraps the tmux CLI: session queries, capture of a live
// session's layout, and the kill, switch and attach operations used by restore.
package tmux

import (
	"context"
	"os/exec"
	"strings"

	"github.com/grovetools/tmuxession/command"
	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/logging"
	"github.com/sirupsen/logrus"
)

// DefaultBinary is the tmux executable looked up on PATH.
const DefaultBinary = "tmux"

// Options selects the tmux server a Client talks to.
type Options struct {
	// Binary overrides the tmux executable.
	Binary string
	// Socket names a dedicated server (tmux -L).
	Socket string
}

type Client struct {
	builder *command.SafeBuilder
	binary  string
	socket  string // Socket name for dedicated tmux server (uses -L flag)
	logger  *logrus.Entry
}

// NewClient creates a client backed by the real executor.
func NewClient(opts Options) (*Client, error) {
	return NewClientWithBuilder(opts, command.NewSafeBuilder())
}

// NewClientWithBuilder creates a client whose commands are created by builder.
// It fails with TMUX_NOT_FOUND when the binary cannot be resolved.
func NewClientWithBuilder(opts Options, builder *command.SafeBuilder) (*Client, error) {
	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	if err := builder.Validate("binary", binary); err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	if opts.Socket != "" {
		if err := builder.Validate("socketName", opts.Socket); err != nil {
			return nil, errors.ConfigInvalid(err.Error())
		}
	}
	if _, err := builder.Executor().LookPath(binary); err != nil {
		return nil, errors.TmuxNotFound(binary, err)
	}

	return &Client{
		builder: builder,
		binary:  binary,
		socket:  opts.Socket,
		logger:  logging.NewLogger("tmux"),
	}, nil
}

// Socket returns the socket name this client uses, or empty string for default.
func (c *Client) Socket() string {
	return c.socket
}

// CommandPrefix returns the tmux invocation as it should appear in a
// generated script, so restored sessions land on the same server.
func (c *Client) CommandPrefix() string {
	if c.socket == "" {
		return c.binary
	}
	return c.binary + " -L " + c.socket
}

// argv prepends the socket flag when a dedicated server is in use.
func (c *Client) argv(args ...string) []string {
	if c.socket == "" {
		return args
	}
	return append([]string{"-L", c.socket}, args...)
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd, err := c.builder.Build(ctx, c.binary, c.argv(args...)...)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to build tmux command")
	}

	c.logger.WithField("cmd", cmd.String()).Debug("Running tmux")
	output, err := cmd.Exec().CombinedOutput()
	if err != nil {
		if _, ok := err.(*exec.Error); ok {
			return "", errors.TmuxNotFound(c.binary, err)
		}
		return string(output), errors.CommandFailed(cmd.String(), string(output), err)
	}

	return string(output), nil
}

// isNoServer reports whether err came from tmux finding no server to talk to.
func isNoServer(err error) bool {
	sessErr, ok := errors.As(err)
	if !ok {
		return false
	}
	output := sessErr.Detail("output")
	if strings.Contains(output, "no server running") || strings.Contains(output, "no sessions") {
		return true
	}
	// A missing socket means no server. Any other connect failure, such as
	// permission denied, is an environment problem.
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "error connecting to") && strings.Contains(line, "(No such file or directory)") {
			return true
		}
	}
	return false
}
