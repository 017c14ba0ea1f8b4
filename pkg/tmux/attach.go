package tmux

import (
	"context"
	"os"

	"github.com/grovetools/tmuxession/errors"
	"golang.org/x/sys/unix"
)

// execFunc replaces the current process image. Swapped out in tests.
var execFunc = unix.Exec

// SwitchOrAttach brings the user to sessionName: inside tmux the current
// client switches to it, outside tmux this process becomes
// "tmux attach-session" and only returns on failure.
func (c *Client) SwitchOrAttach(ctx context.Context, sessionName string) error {
	if IsInsideTmux() {
		return c.SwitchClientToSession(ctx, sessionName)
	}
	return c.Attach(sessionName)
}

// Attach execs tmux attach-session in place of the current process.
func (c *Client) Attach(sessionName string) error {
	path, err := c.builder.Executor().LookPath(c.binary)
	if err != nil {
		return errors.TmuxNotFound(c.binary, err)
	}

	argv := append([]string{c.binary}, c.argv("attach-session", "-t", "="+sessionName)...)
	c.logger.WithField("argv", argv).Debug("Attaching")
	if err := execFunc(path, argv, os.Environ()); err != nil {
		return errors.Wrap(err, errors.ErrCodeCommandFailed, "failed to attach to session").
			WithDetail("session", sessionName)
	}
	return nil
}
