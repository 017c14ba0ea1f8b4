package config

import (
	"fmt"
	"strings"

	"github.com/grovetools/tmuxession/command"
	"github.com/grovetools/tmuxession/errors"
)

// Validate checks values that the schema cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Shell) == "" {
		return errors.ConfigInvalid("shell cannot be empty")
	}
	if strings.ContainsAny(c.Shell, " \t") {
		return errors.ConfigInvalid(fmt.Sprintf("shell must be a program name or path, got %q", c.Shell)).
			WithDetail("field", "shell")
	}

	builder := command.NewSafeBuilder()
	if err := builder.Validate("binary", c.Tmux.Binary); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid tmux.binary").
			WithDetail("field", "tmux.binary")
	}
	if c.Tmux.Socket != "" {
		if err := builder.Validate("socketName", c.Tmux.Socket); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid tmux.socket").
				WithDetail("field", "tmux.socket")
		}
	}

	for i, pattern := range c.Capture.IgnoreCommands {
		if strings.TrimSpace(pattern) == "" {
			return errors.ConfigInvalid(fmt.Sprintf("capture.ignore_commands[%d] is empty", i)).
				WithDetail("field", "capture.ignore_commands")
		}
	}

	return nil
}
