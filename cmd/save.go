package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/pkg/paths"
	"github.com/grovetools/tmuxession/pkg/process"
	"github.com/grovetools/tmuxession/pkg/session"
	"github.com/grovetools/tmuxession/pkg/tmux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewSaveCmd creates the `save` command.
func NewSaveCmd() *cobra.Command {
	var scriptPath, name string

	cmd := &cobra.Command{
		Use:     "save",
		Aliases: []string{"s"},
		Short:   "Save the current tmux session",
		Long: `Capture the windows, panes, layouts and running commands of the current
tmux session and write a shell script that recreates it. The script is stored
for the current pane's directory unless --script is given.

Examples:
  # Save the current session for this directory
  tmuxession save

  # Save under a different session name to an explicit file
  tmuxession save --name work --script ~/work.sh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd, scriptPath, name)
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "Write the script to this path instead of the store")
	cmd.Flags().StringVar(&name, "name", "", "Session name recorded in the script (default: current session)")
	return cmd
}

func runSave(cmd *cobra.Command, scriptPath, name string) error {
	if !tmux.IsInsideTmux() {
		return errors.NotInsideTmux("save")
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	current, err := client.GetCurrentSession(ctx)
	if err != nil {
		return err
	}
	if name == "" {
		name = current
	}
	if err := session.ValidateName(name); err != nil {
		return errors.InvalidSessionName(name, err.Error())
	}

	inspector := process.NewInspector(a.builder, a.cfg.Capture.IgnoreCommands)
	captured, err := client.CaptureSession(ctx, current, inspector)
	if err != nil {
		return err
	}
	captured.Name = name
	if err := captured.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "captured session is inconsistent").
			WithDetail("session", current)
	}

	generator := &session.Generator{TmuxCommand: client.CommandPrefix()}
	text := generator.Generate(captured)

	var path string
	if scriptPath != "" {
		path, err = writeScript(scriptPath, text)
	} else {
		var dir string
		if dir, err = a.contextDir(ctx); err != nil {
			return err
		}
		path, err = a.store.Write(dir, text)
	}
	if err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"session": name,
		"windows": len(captured.Windows),
		"path":    path,
	}).Info("Saved session")

	a.pretty.Success(fmt.Sprintf("Tmux session `%s` saved successfully.", name))
	a.pretty.Path("Script for restoring the session saved under", path)
	return nil
}

func writeScript(path, text string) (string, error) {
	abs, err := paths.Expand(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid script path").
			WithDetail("path", path)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to create script directory").
			WithDetail("path", abs)
	}
	if err := os.WriteFile(abs, []byte(text), 0644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to write session script").
			WithDetail("path", abs)
	}
	return abs, nil
}
