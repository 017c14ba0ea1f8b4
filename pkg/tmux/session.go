package tmux

import (
	"context"
	"os"
	"strings"

	"github.com/grovetools/tmuxession/errors"
)

// IsInsideTmux reports whether the current process runs inside a tmux client.
func IsInsideTmux() bool {
	return os.Getenv("TMUX") != "" || os.Getenv("TMUX_PANE") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}

// ListSessions returns the names of all live sessions. A missing server
// means no sessions.
func (c *Client) ListSessions(ctx context.Context) ([]string, error) {
	output, err := c.run(ctx, "list-sessions", "-F", "#{session_name}")
	if err != nil {
		if isNoServer(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var sessions []string
	for _, line := range strings.Split(output, "\n") {
		if name := strings.TrimRight(line, "\r"); name != "" {
			sessions = append(sessions, name)
		}
	}
	return sessions, nil
}

// SessionExists reports whether a live session is named exactly sessionName.
func (c *Client) SessionExists(ctx context.Context, sessionName string) (bool, error) {
	sessions, err := c.ListSessions(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range sessions {
		if s == sessionName {
			return true, nil
		}
	}
	return false, nil
}

// GetCurrentSession returns the session of the client this process runs in.
func (c *Client) GetCurrentSession(ctx context.Context) (string, error) {
	if !IsInsideTmux() {
		return "", errors.NotInsideTmux("current-session")
	}
	output, err := c.run(ctx, "display-message", "-p", "#{session_name}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// IsCurrentSession reports whether this process is attached to sessionName.
// Outside tmux it is always false.
func (c *Client) IsCurrentSession(ctx context.Context, sessionName string) (bool, error) {
	if !IsInsideTmux() {
		return false, nil
	}
	current, err := c.GetCurrentSession(ctx)
	if err != nil {
		return false, err
	}
	return current == sessionName, nil
}

// CurrentPanePath returns the working directory of the active pane.
func (c *Client) CurrentPanePath(ctx context.Context) (string, error) {
	if !IsInsideTmux() {
		return "", errors.NotInsideTmux("current-pane-path")
	}
	output, err := c.run(ctx, "display-message", "-p", "#{pane_current_path}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// KillSession destroys the session named exactly sessionName.
func (c *Client) KillSession(ctx context.Context, sessionName string) error {
	_, err := c.run(ctx, "kill-session", "-t", "="+sessionName)
	return err
}

// SwitchClientToSession switches the client to the specified session.
// It uses an exact match for the session name to avoid ambiguity.
func (c *Client) SwitchClientToSession(ctx context.Context, sessionName string) error {
	_, err := c.run(ctx, "switch-client", "-t", "="+sessionName)
	return err
}
