package session

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// instructions returns the non-blank, non-comment lines of a script.
func instructions(script string) []string {
	var out []string
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func linesContaining(script, needle string) []string {
	var out []string
	for _, line := range instructions(script) {
		if strings.Contains(line, needle) {
			out = append(out, line)
		}
	}
	return out
}

func singlePaneSession() *Session {
	return &Session{
		Name: "dev",
		Windows: []Window{{
			Index:  "0",
			Name:   "main",
			Active: true,
			Panes: []Pane{{
				Index:      "0",
				WorkingDir: "/home/u",
				Active:     true,
				Commands:   []string{"bash"},
			}},
		}},
	}
}

func TestGenerate_SinglePane(t *testing.T) {
	script := Generate(singlePaneSession())

	assert.True(t, strings.HasPrefix(script, "#!/bin/sh\n"))
	assert.Equal(t, []string{
		"set -e",
		"set -u",
		"session_name=dev",
		`tmux new-session -d -s "$session_name"`,
		`tmux new-window -t "$session_name":0 -k -n main -c /home/u bash`,
		`tmux select-window -t "$session_name":0`,
		`tmux select-pane -t "$session_name":0.0`,
	}, instructions(script))

	assert.Empty(t, linesContaining(script, "split-window"))
	assert.Empty(t, linesContaining(script, "resize-pane"))
	assert.Empty(t, linesContaining(script, "send-keys"))
}

func TestGenerate_ZoomedActivePane(t *testing.T) {
	s := &Session{
		Name: "dev",
		Windows: []Window{{
			Index:  "0",
			Name:   "main",
			Layout: "b25f,80x24,0,0{40x24,0,0,1,39x24,41,0,2}",
			Active: true,
			Zoomed: true,
			Panes: []Pane{
				{Index: "0", WorkingDir: "/home/u", Commands: []string{"bash"}},
				{Index: "1", WorkingDir: "/home/u/src", Active: true, Commands: []string{"bash"}},
			},
		}},
	}

	script := Generate(s)
	lines := instructions(script)

	assert.Equal(t, []string{`tmux split-window -t "$session_name":0 -c /home/u/src bash`}, linesContaining(script, "split-window"))
	assert.Equal(t, []string{`tmux resize-pane -t "$session_name":0.1 -Z`}, linesContaining(script, "resize-pane"))
	assert.Equal(t, `tmux select-pane -t "$session_name":0.1`, lines[len(lines)-1])
	assert.Len(t, linesContaining(script, "select-pane"), 1)
	assert.Equal(t, []string{`tmux select-layout -t "$session_name":0 'b25f,80x24,0,0{40x24,0,0,1,39x24,41,0,2}'`},
		linesContaining(script, "select-layout"))

	zoomAt := strings.Index(script, "resize-pane")
	windowAt := strings.Index(script, "select-window")
	paneAt := strings.LastIndex(script, "select-pane")
	layoutAt := strings.Index(script, "select-layout")
	assert.Less(t, layoutAt, zoomAt, "layout is restored before zooming")
	assert.Less(t, zoomAt, windowAt, "zoom happens before the final selection")
	assert.Less(t, windowAt, paneAt, "active pane is selected last")
}

func TestGenerate_FocusOrdering(t *testing.T) {
	s := &Session{
		Name: "work",
		Windows: []Window{
			{
				Index:  "1",
				Name:   "editor",
				Layout: "even-horizontal",
				Active: true,
				Panes: []Pane{
					{Index: "1", WorkingDir: "/srv", Active: true, Commands: []string{"zsh"}},
				},
			},
			{
				Index:  "2",
				Name:   "logs",
				Layout: "even-vertical",
				Panes: []Pane{
					{Index: "1", WorkingDir: "/var/log", Commands: []string{"zsh"}},
					{Index: "2", WorkingDir: "/var/log", Active: true, Commands: []string{"zsh", "tail -f syslog"}},
				},
			},
		},
	}

	lines := instructions(Generate(s))
	assert.Equal(t, []string{
		"set -e",
		"set -u",
		"session_name=work",
		`tmux new-session -d -s "$session_name"`,
		`tmux new-window -t "$session_name":1 -k -n editor -c /srv zsh`,
		`tmux select-layout -t "$session_name":1 even-horizontal`,
		`tmux new-window -t "$session_name":2 -k -n logs -c /var/log zsh`,
		`tmux split-window -t "$session_name":2 -c /var/log zsh`,
		`tmux send-keys -t "$session_name":2.2 'tail -f syslog' C-m`,
		`tmux select-pane -t "$session_name":2.2`,
		`tmux select-layout -t "$session_name":2 even-vertical`,
		`tmux select-window -t "$session_name":1`,
		`tmux select-pane -t "$session_name":1.1`,
	}, lines)
}

func TestGenerate_ZoomedInactiveWindow(t *testing.T) {
	s := singlePaneSession()
	s.Windows = append(s.Windows, Window{
		Index:  "1",
		Name:   "build",
		Zoomed: true,
		Panes: []Pane{
			{Index: "0", WorkingDir: "/tmp", Commands: []string{"bash"}},
			{Index: "1", WorkingDir: "/tmp", Active: true, Commands: []string{"bash"}},
		},
	})

	script := Generate(s)
	assert.Empty(t, linesContaining(script, "resize-pane"), "only the active window's zoom is restored")
	lines := instructions(script)
	assert.Equal(t, `tmux select-pane -t "$session_name":0.0`, lines[len(lines)-1])
}

func TestGenerate_SendKeysPreservesOrder(t *testing.T) {
	s := singlePaneSession()
	s.Windows[0].Panes[0].Commands = []string{"bash", "cd src", "make watch"}

	assert.Equal(t, []string{
		`tmux send-keys -t "$session_name":0.0 'cd src' C-m`,
		`tmux send-keys -t "$session_name":0.0 'make watch' C-m`,
	}, linesContaining(Generate(s), "send-keys"))
}

func TestGenerate_Deterministic(t *testing.T) {
	s := singlePaneSession()
	s.Windows[0].Panes[0].Commands = []string{"bash", "htop"}
	s.Windows[0].Zoomed = true

	first := Generate(s)
	second := Generate(s)
	assert.Equal(t, first, second)

	clone := *s
	clone.Windows = append([]Window(nil), s.Windows...)
	assert.Equal(t, first, Generate(&clone))
}

func TestGenerate_CustomTmuxCommand(t *testing.T) {
	g := &Generator{TmuxCommand: "tmux -L sandbox"}
	for _, line := range instructions(g.Generate(singlePaneSession())) {
		if strings.HasPrefix(line, "set ") || strings.HasPrefix(line, "session_name=") {
			continue
		}
		assert.True(t, strings.HasPrefix(line, "tmux -L sandbox "), "line %q", line)
	}
}

func TestGenerate_IdentityRoundTrip(t *testing.T) {
	for _, name := range []string{"dev", "my-project", "a_b", "X1", "über"} {
		s := singlePaneSession()
		s.Name = name
		assert.Equal(t, name, ExtractIdentity(Generate(s)))
	}
}

func TestGenerate_NameNeverInlined(t *testing.T) {
	s := singlePaneSession()
	s.Name = "uniquename"
	script := Generate(s)
	assert.Equal(t, 1, strings.Count(script, "uniquename"), "the name only appears on the identity line")
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"bash", "bash"},
		{"/home/u", "/home/u"},
		{"", "''"},
		{"/home/u/my proj", "'/home/u/my proj'"},
		{"echo $HOME", "'echo $HOME'"},
		{"it's", `'it'"'"'s'`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, shellQuote(tt.input))
		})
	}
}

func TestShellQuote_RoundTripThroughShell(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	for _, input := range []string{"vim 'a b'.txt", `say "hi" && exit`, "a\tb", "$(whoami)"} {
		out, err := exec.Command("sh", "-c", "printf '%s' "+shellQuote(input)).Output()
		require.NoError(t, err)
		assert.Equal(t, input, string(out))
	}
}

func TestGenerate_WindowNameStaysInComments(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	fakeTmux := filepath.Join(dir, "tmux")
	require.NoError(t, os.WriteFile(fakeTmux, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	marker := filepath.Join(dir, "marker")

	s := singlePaneSession()
	s.Windows[0].Name = "main\ntouch " + marker

	script := (&Generator{TmuxCommand: fakeTmux}).Generate(s)
	for _, line := range strings.Split(script, "\n") {
		if strings.Contains(line, "touch") {
			assert.True(t, strings.HasPrefix(line, "#") || strings.Contains(line, "'"), "line %q", line)
		}
	}

	out, err := exec.Command("sh", "-c", script).CombinedOutput()
	require.NoError(t, err, string(out))
	_, err = os.Stat(marker)
	assert.True(t, os.IsNotExist(err), "window name must not run as a command")
}

func TestCommentSafe(t *testing.T) {
	assert.Equal(t, "main", commentSafe("main"))
	assert.Equal(t, `a\nb`, commentSafe("a\nb"))
	assert.Equal(t, `a\rb\tc`, commentSafe("a\rb\tc"))
	assert.NotContains(t, commentSafe("x\u2028y\n"), "\n")
}
