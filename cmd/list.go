package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovetools/tmuxession/cli"
	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/pkg/session"
	"github.com/grovetools/tmuxession/pkg/store"
	"github.com/grovetools/tmuxession/tui/menu"
	"github.com/spf13/cobra"
)

// listKeys are assigned to saved sessions in order. QuitKey and the j/k
// navigation keys are never among them.
var listKeys = []rune("123456789abcdefghilmnoprstuvwxyz")

// NewListCmd creates the `list` command.
func NewListCmd() *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "List saved sessions and pick one to restore",
		Long: `Show every saved session with the directory it was saved from, then
restore the one you pick. With --json the list is printed instead.

Examples:
  # Pick a saved session to restore
  tmuxession list

  # Only sessions saved under ~/src
  tmuxession list --filter '/home/me/src/**'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, filters)
		},
	}

	cmd.Flags().StringSliceVar(&filters, "filter", nil, "Only list directories or session names matching these patterns")
	return cmd
}

func runList(cmd *cobra.Command, filters []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	entries, err := a.store.List(filters...)
	if err != nil {
		return err
	}

	if cli.GetOptions(cmd).JSONOutput {
		if entries == nil {
			entries = []store.Entry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(entries) == 0 {
		if len(filters) > 0 {
			return errors.New(errors.ErrCodeNoSavedSessions,
				fmt.Sprintf("no saved sessions match %s", strings.Join(filters, ", ")))
		}
		a.pretty.InfoPretty("No saved tmuxession sessions found.")
		a.pretty.InfoPretty("Try running `tmuxession save` inside a session to save it first.")
		return nil
	}

	if len(entries) > len(listKeys) {
		a.pretty.WarnPretty(fmt.Sprintf("Showing the first %d of %d saved sessions; narrow the list with --filter.",
			len(listKeys), len(entries)))
		entries = entries[:len(listKeys)]
	}

	options := listOptions(entries)
	choice, err := newInteraction().Present("Select a session to restore:", options)
	if err != nil {
		return err
	}
	if choice == menu.QuitKey {
		return nil
	}

	selected, ok := entryForKey(entries, choice)
	if !ok {
		return errors.New(errors.ErrCodeInternal, fmt.Sprintf("unexpected menu choice %q", choice))
	}
	text, err := a.store.Read(selected.Path)
	if err != nil {
		return err
	}
	return a.restoreScript(cmd.Context(), text, selected.Path)
}

// listOptions labels entries "[k] session: dir" and appends the quit option.
func listOptions(entries []store.Entry) []session.UserOption {
	options := make([]session.UserOption, 0, len(entries)+1)
	for i, e := range entries {
		key := listKeys[i]
		options = append(options, session.UserOption{
			Label: fmt.Sprintf("[%c] %s", key, e.Label()),
			Key:   key,
		})
	}
	return append(options, session.UserOption{Label: "[q] Quit", Key: menu.QuitKey})
}

func entryForKey(entries []store.Entry, key rune) (store.Entry, bool) {
	for i, k := range listKeys {
		if k == key && i < len(entries) {
			return entries[i], true
		}
	}
	return store.Entry{}, false
}
