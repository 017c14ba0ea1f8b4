package cmd

import (
	"context"
	"os"

	"github.com/grovetools/tmuxession/cli"
	"github.com/grovetools/tmuxession/command"
	"github.com/grovetools/tmuxession/config"
	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/logging"
	"github.com/grovetools/tmuxession/pkg/restore"
	"github.com/grovetools/tmuxession/pkg/store"
	"github.com/grovetools/tmuxession/pkg/tmux"
	"github.com/grovetools/tmuxession/tui"
	"github.com/grovetools/tmuxession/tui/menu"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// interaction is what restore needs from the terminal.
type interaction interface {
	restore.Presenter
	restore.Prompter
}

// Replaced in tests.
var (
	newBuilder     = command.NewSafeBuilder
	newInteraction = func() interaction { return menu.NewPresenter() }
)

// app carries the collaborators shared by the session subcommands.
type app struct {
	cfg     *config.Config
	builder *command.SafeBuilder
	store   *store.Store
	pretty  *logging.PrettyLogger
	logger  *logrus.Entry
}

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	tui.InitializeTUI(cfg.Theme)

	st, err := store.Default()
	if err != nil {
		return nil, err
	}

	logger := cli.GetLogger(cmd)
	logger.WithFields(logrus.Fields{
		"config": cfg.Source(),
		"store":  st.Dir(),
		"socket": cfg.Tmux.Socket,
	}).Debug("Loaded configuration")

	return &app{
		cfg:     cfg,
		builder: newBuilder(),
		store:   st,
		pretty:  logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()),
		logger:  logger,
	}, nil
}

func (a *app) client() (*tmux.Client, error) {
	return tmux.NewClientWithBuilder(tmux.Options{
		Binary: a.cfg.Tmux.Binary,
		Socket: a.cfg.Tmux.Socket,
	}, a.builder)
}

// contextDir is the directory whose script save, restore and edit operate
// on: the current pane's directory inside tmux, the working directory outside.
func (a *app) contextDir(ctx context.Context) (string, error) {
	if tmux.IsInsideTmux() {
		client, err := a.client()
		if err != nil {
			return "", err
		}
		dir, err := client.CurrentPanePath(ctx)
		if err != nil {
			return "", err
		}
		if dir != "" {
			return dir, nil
		}
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to get current directory")
	}
	return dir, nil
}

// restoreScript runs the conflict-resolving restore of text.
func (a *app) restoreScript(ctx context.Context, text, source string) error {
	client, err := a.client()
	if err != nil {
		return err
	}

	term := newInteraction()
	restorer := restore.NewRestorer(client, term, term, client.NewScriptRunner(a.cfg.Shell), client, a.pretty)
	result, err := restorer.Restore(ctx, text, source)
	if err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"session":  result.Name,
		"state":    result.State.String(),
		"executed": result.Executed,
		"script":   source,
	}).Debug("Restore finished")
	return nil
}
