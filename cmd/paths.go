package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/tmuxession/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput lists the directories tmuxession reads and writes.
type PathsOutput struct {
	ConfigDir string `json:"config_dir"`
	DataDir   string `json:"data_dir"`
	StateDir  string `json:"state_dir"`
	LogDir    string `json:"log_dir"`
}

func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the directories used by tmuxession",
		Long: `Print the XDG directories used by tmuxession as JSON.

- config_dir: tmuxession.yml or tmuxession.toml
- data_dir: saved session scripts
- state_dir: runtime state
- log_dir: log files (when logging.file.enabled is set)

Set TMUXESSION_HOME to keep all of them under a single directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := PathsOutput{
				ConfigDir: paths.ConfigDir(),
				DataDir:   paths.DataDir(),
				StateDir:  paths.StateDir(),
				LogDir:    paths.LogDir(),
			}

			jsonData, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}
}
