// Package paths provides XDG-compliant path resolution for tmuxession.
//
// Resolution order:
// 1. TMUXESSION_HOME (portable root) → $TMUXESSION_HOME/{config,data,state}
// 2. XDG env vars → $XDG_*_HOME/tmuxession
// 3. Platform defaults → ~/.config/tmuxession, ~/.local/share/tmuxession, etc.
package paths

import (
	"os"
	"path/filepath"
)

const appName = "tmuxession"

// HomeEnv is the environment variable that relocates every directory.
const HomeEnv = "TMUXESSION_HOME"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getDataHome returns the base data home directory.
func getDataHome() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Join(home, "data")
	}
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return xdgDataHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "share")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// scoped joins the application name onto a base directory. With
// TMUXESSION_HOME set the base is already private to the application.
func scoped(base string) string {
	if base == "" {
		return ""
	}
	if os.Getenv(HomeEnv) != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// ConfigDir returns the configuration directory.
// Used for tmuxession.yml / tmuxession.toml.
func ConfigDir() string {
	return scoped(getConfigHome())
}

// DataDir returns the data directory.
// Saved session scripts live here.
func DataDir() string {
	return scoped(getDataHome())
}

// StateDir returns the state directory.
// Used for logs.
func StateDir() string {
	return scoped(getStateHome())
}

// LogDir returns the directory log files are written to.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// EnsureDirs creates all tmuxession directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		DataDir(),
		StateDir(),
		LogDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
