package tmux

import (
	"context"
	"os"
	"os/exec"

	"github.com/grovetools/tmuxession/errors"
)

// DefaultShell runs restore scripts when none is configured.
const DefaultShell = "sh"

// ScriptRunner executes restore scripts as "<shell> -c <text>" with the
// terminal passed through, so tmux errors reach the user directly.
type ScriptRunner struct {
	Shell string
	exec  interface {
		CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
	}
}

// NewScriptRunner creates a runner that invokes shell through the client's executor.
func (c *Client) NewScriptRunner(shell string) *ScriptRunner {
	if shell == "" {
		shell = DefaultShell
	}
	return &ScriptRunner{Shell: shell, exec: c.builder.Executor()}
}

// RunScript executes text and fails with COMMAND_FAILED on a non-zero exit.
func (r *ScriptRunner) RunScript(ctx context.Context, text string) error {
	cmd := r.exec.CommandContext(ctx, r.Shell, "-c", text)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.CommandFailed(r.Shell+" -c <script>", "", err)
	}
	return nil
}
