package cmd

import (
	"os"
	"strings"

	"github.com/grovetools/tmuxession/errors"
	"github.com/spf13/cobra"
)

// NewEditCmd creates the `edit` command.
func NewEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "edit",
		Aliases: []string{"e"},
		Short:   "Edit the script saved for this directory",
		Long: `Open the script saved for the current directory in the configured editor
(editor in tmuxession.yml, then $EDITOR, then vi).`,
		Args: cobra.NoArgs,
		RunE: runEdit,
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	dir, err := a.contextDir(cmd.Context())
	if err != nil {
		return err
	}
	path := a.store.PathFor(dir)
	if _, err := os.Stat(path); err != nil {
		return errors.ScriptNotFound(path, err)
	}

	editor := strings.Fields(a.cfg.Editor)
	if len(editor) == 0 {
		return errors.ConfigInvalid("editor is empty")
	}

	a.logger.WithField("path", path).Debugf("Opening script in %s", editor[0])
	c := a.builder.Executor().CommandContext(cmd.Context(), editor[0], append(editor[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return errors.CommandFailed(a.cfg.Editor, "", err)
	}
	return nil
}
