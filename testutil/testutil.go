package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireTmux skips the test if tmux is not available
func RequireTmux(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("tmux not available")
	}
}

// IsolateHome points TMUXESSION_HOME at a fresh temporary directory and clears
// the tmux environment markers so tests behave as if run outside tmux.
// Returns the home directory.
func IsolateHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("TMUXESSION_HOME", home)
	t.Setenv("TMUX", "")
	t.Setenv("TMUX_PANE", "")
	t.Setenv("TERM_PROGRAM", "")
	os.Unsetenv("TMUX")
	os.Unsetenv("TMUX_PANE")
	os.Unsetenv("TERM_PROGRAM")
	return home
}

// WriteScript writes a session script into dir and returns its path.
func WriteScript(t *testing.T, dir, fileName, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, fileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "failed to write script %s", path)
	return path
}

// RandomString generates a random string of the specified length
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}
