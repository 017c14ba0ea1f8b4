package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Default values applied by SetDefaults.
const (
	DefaultShell      = "sh"
	DefaultEditor     = "vi"
	DefaultTmuxBinary = "tmux"
)

// DefaultIgnoreCommands keeps our own invocation out of captured panes.
var DefaultIgnoreCommands = []string{"tmuxession"}

// Config is the top-level tmuxession.yml structure.
type Config struct {
	// Shell runs restore scripts as "<shell> -c <script>".
	Shell string `yaml:"shell,omitempty" toml:"shell,omitempty" mapstructure:"shell" json:"shell,omitempty"`

	// Editor opens saved scripts for the edit command.
	Editor string `yaml:"editor,omitempty" toml:"editor,omitempty" mapstructure:"editor" json:"editor,omitempty"`

	// Theme names the color palette of menus and output.
	Theme string `yaml:"theme,omitempty" toml:"theme,omitempty" mapstructure:"theme" json:"theme,omitempty"`

	Tmux    TmuxConfig    `yaml:"tmux,omitempty" toml:"tmux,omitempty" mapstructure:"tmux" json:"tmux,omitempty"`
	Capture CaptureConfig `yaml:"capture,omitempty" toml:"capture,omitempty" mapstructure:"capture" json:"capture,omitempty"`

	// Extensions captures all other top-level keys, such as "logging".
	Extensions map[string]interface{} `yaml:",inline" toml:"-" mapstructure:",remain" json:"-"`

	// source is the file the configuration was read from, empty for defaults.
	source string
}

// TmuxConfig selects the tmux server.
type TmuxConfig struct {
	Binary string `yaml:"binary,omitempty" toml:"binary,omitempty" mapstructure:"binary" json:"binary,omitempty"`
	Socket string `yaml:"socket,omitempty" toml:"socket,omitempty" mapstructure:"socket" json:"socket,omitempty"`
}

// CaptureConfig tunes how running commands are captured.
type CaptureConfig struct {
	// IgnoreCommands are substrings; a pane's child process whose command
	// line contains one of them is not recorded.
	IgnoreCommands []string `yaml:"ignore_commands,omitempty" toml:"ignore_commands,omitempty" mapstructure:"ignore_commands" json:"ignore_commands,omitempty"`
}

// SetDefaults fills in unset fields.
func (c *Config) SetDefaults() {
	if c.Shell == "" {
		c.Shell = DefaultShell
	}
	if c.Editor == "" {
		c.Editor = defaultEditor()
	}
	if c.Tmux.Binary == "" {
		c.Tmux.Binary = DefaultTmuxBinary
	}
	if c.Capture.IgnoreCommands == nil {
		c.Capture.IgnoreCommands = append([]string(nil), DefaultIgnoreCommands...)
	}
}

// Source returns the path the configuration was loaded from, or "" when
// only defaults apply.
func (c *Config) Source() string {
	return c.source
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded tmuxession.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	// Decode with `yaml` tags so extension structs need a single set of tags.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
