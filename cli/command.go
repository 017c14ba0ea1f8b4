package cli

import (
	"github.com/grovetools/tmuxession/config"
	"github.com/grovetools/tmuxession/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds the persistent flags shared by every subcommand.
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a root command carrying the standard flags.
// Its PersistentPreRunE points config loading at --config and raises log
// verbosity before any subcommand runs.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ApplyOptions(GetOptions(cmd))
			return nil
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to tmuxession.yml config file")

	return cmd
}

// ApplyOptions routes the standard flags to the config and logging packages.
func ApplyOptions(opts CommandOptions) {
	config.SetPath(opts.ConfigFile)

	var o logging.Overrides
	if opts.Verbose {
		o.Level = logrus.DebugLevel.String()
	}
	if opts.JSONOutput {
		o.Preset = "json"
	}
	logging.SetOverrides(o)
}

// GetLogger returns the logger for a command, named after its path.
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	return logging.NewLogger("cli." + cmd.Name())
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}
