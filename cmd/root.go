// Package cmd implements the tmuxession subcommands.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/tmuxession/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the tmuxession command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"tmuxession",
		"Save and restore tmux sessions",
	)
	root.Long = `Save the layout of a tmux session as a shell script keyed by the directory
you are working in, and restore it later, resolving clashes with sessions
that are already running.

Examples:
  # Inside tmux: save the current session
  tmuxession save

  # Later, from the same directory
  tmuxession restore`

	root.AddCommand(
		NewSaveCmd(),
		NewRestoreCmd(),
		NewEditCmd(),
		NewListCmd(),
		NewLogsCmd(),
		NewConfigCmd(),
		NewPathsCmd(),
		cli.NewVersionCommand("tmuxession"),
	)
	cli.ApplyStyledHelpRecursive(root)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	handler := cli.NewErrorHandler(verbose)
	handler.Out = root.ErrOrStderr()
	return handler.Handle(err)
}

// Main is the entry point used by cmd/tmuxession.
func Main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
