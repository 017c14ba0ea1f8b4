package cmd

import (
	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/pkg/paths"
	"github.com/spf13/cobra"
)

// NewRestoreCmd creates the `restore` command.
func NewRestoreCmd() *cobra.Command {
	var scriptPath string

	cmd := &cobra.Command{
		Use:     "restore",
		Aliases: []string{"r"},
		Short:   "Restore the tmux session saved for this directory",
		Long: `Replay the script saved for the current directory and attach to the
restored session. If a session with the same name is already running you are
asked to attach to it, kill it, rename the restored session, or quit.

Examples:
  # Restore the session saved for this directory
  tmuxession restore

  # Restore from an explicit script
  tmuxession restore --script ~/work.sh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, scriptPath)
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "Restore from this script instead of the store")
	return cmd
}

func runRestore(cmd *cobra.Command, scriptPath string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	var text, path string
	if scriptPath != "" {
		if path, err = paths.Expand(scriptPath); err != nil {
			path = scriptPath
		}
		text, err = a.store.Read(path)
	} else {
		dir, dirErr := a.contextDir(cmd.Context())
		if dirErr != nil {
			return dirErr
		}
		text, path, err = a.store.ReadFor(dir)
	}
	if err != nil {
		if errors.Is(err, errors.ErrCodeScriptNotFound) && scriptPath == "" {
			a.pretty.WarnPretty("Could not find a saved session for the current directory.")
		}
		return err
	}

	return a.restoreScript(cmd.Context(), text, path)
}
