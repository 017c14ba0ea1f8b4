package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/tmuxession/command"
	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/pkg/session"
	"github.com/grovetools/tmuxession/pkg/store"
	"github.com/grovetools/tmuxession/testutil"
	"github.com/grovetools/tmuxession/tui/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectDir = "/home/dev/proj"

const savedScript = `#!/bin/sh

session_name=work
tmux new-session -d -s "$session_name" -n editor -c /home/dev/proj
`

// fakeInteraction answers menus and prompts from queues.
type fakeInteraction struct {
	keys   []rune
	names  []string
	titles []string
}

func (f *fakeInteraction) Present(title string, options []session.UserOption) (rune, error) {
	f.titles = append(f.titles, title)
	if err := session.ValidateOptions(options); err != nil {
		return 0, err
	}
	if len(f.keys) == 0 {
		return 0, errors.Cancelled("menu closed")
	}
	k := f.keys[0]
	f.keys = f.keys[1:]
	return k, nil
}

func (f *fakeInteraction) Prompt(label string, validate func(string) error) (string, error) {
	for len(f.names) > 0 {
		name := f.names[0]
		f.names = f.names[1:]
		if validate(name) == nil {
			return name, nil
		}
	}
	return "", errors.Cancelled("prompt closed")
}

// setup isolates the environment and routes every subprocess through fake.
func setup(t *testing.T, fake *testutil.FakeExecutor, term *fakeInteraction) {
	t.Helper()
	testutil.IsolateHome(t)
	for _, name := range []string{"TMUXESSION_SHELL", "TMUXESSION_EDITOR", "TMUXESSION_TMUX_SOCKET", "TMUXESSION_TMUX_BINARY"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Setenv("SHELL", "zsh")

	origBuilder, origInteraction := newBuilder, newInteraction
	newBuilder = func() *command.SafeBuilder { return command.NewSafeBuilderWithExecutor(fake) }
	newInteraction = func() interaction { return term }
	t.Cleanup(func() {
		newBuilder, newInteraction = origBuilder, origInteraction
	})
}

// insideTmux simulates a client attached to current with its pane in projectDir.
func insideTmux(t *testing.T, fake *testutil.FakeExecutor, current string) {
	t.Helper()
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
	t.Setenv("TMUX_PANE", "%1")
	fake.On("tmux display-message -p #{pane_current_path}", testutil.Response{Stdout: projectDir + "\n"})
	fake.On("tmux display-message -p #{session_name}", testutil.Response{Stdout: current + "\n"})
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func storeFile(t *testing.T, dir string) string {
	t.Helper()
	st, err := store.Default()
	require.NoError(t, err)
	return st.PathFor(dir)
}

func TestSaveOutsideTmux(t *testing.T) {
	setup(t, testutil.NewFakeExecutor(), &fakeInteraction{})

	_, err := run(t, "save")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotInsideTmux))
}

func TestSave(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	setup(t, fake, &fakeInteraction{})
	insideTmux(t, fake, "work")
	fake.On("tmux list-windows -t =work", testutil.Response{Stdout: "1:editor:b25d,80x24,0,0,1:1:0\n"}).
		On("tmux list-panes -t =work:1", testutil.Response{Stdout: "0:" + projectDir + ":999999:1\n"}).
		On("ps --ppid 999999", testutil.Response{ExitCode: 1}).
		On("ps -p 999999", testutil.Response{Stdout: "-zsh\n"})

	out, err := run(t, "save")
	require.NoError(t, err)
	assert.Contains(t, out, "Tmux session `work` saved successfully.")

	path := storeFile(t, projectDir)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Equal(t, "work", session.ExtractIdentity(text))
	assert.Contains(t, text, "-n editor")
	assert.Contains(t, text, "zsh")
}

func TestSaveWithNameAndScript(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	setup(t, fake, &fakeInteraction{})
	insideTmux(t, fake, "current")
	fake.On("tmux list-windows -t =current", testutil.Response{Stdout: "0:main:b25d,80x24,0,0,1:1:0\n"}).
		On("tmux list-panes -t =current:0", testutil.Response{Stdout: "0:/tmp:999999:1\n"}).
		On("ps --ppid 999999", testutil.Response{ExitCode: 1}).
		On("ps -p 999999", testutil.Response{Stdout: "bash\n"})

	target := filepath.Join(t.TempDir(), "nested", "renamed.sh")
	_, err := run(t, "save", "--name", "renamed", "--script", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "renamed", session.ExtractIdentity(string(data)))

	_, err = os.Stat(storeFile(t, projectDir))
	assert.True(t, os.IsNotExist(err), "--script bypasses the store")
}

func TestSaveRejectsBadName(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	setup(t, fake, &fakeInteraction{})
	insideTmux(t, fake, "current")

	_, err := run(t, "save", "--name", "two words")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSessionName))
}

func TestRestoreNoConflict(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	setup(t, fake, &fakeInteraction{})
	insideTmux(t, fake, "current")
	fake.On("tmux list-sessions", testutil.Response{Stdout: "current\n"}).
		On("sh -c").
		On("tmux switch-client -t =work")

	testutil.WriteScript(t, filepath.Dir(storeFile(t, projectDir)), filepath.Base(storeFile(t, projectDir)), savedScript)

	out, err := run(t, "restore")
	require.NoError(t, err)
	assert.Contains(t, out, `Restoring tmux session "work"...`)

	lines := fake.CallLines()
	assert.Contains(t, lines, "sh -c "+strings.TrimSpace(savedScript))
	assert.Contains(t, lines, "tmux switch-client -t =work")
}

func TestRestoreConflictRename(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	term := &fakeInteraction{keys: []rune{'R'}, names: []string{"work", "work2"}}
	setup(t, fake, term)
	insideTmux(t, fake, "current")
	fake.On("tmux list-sessions", testutil.Response{Stdout: "current\nwork\n"}).
		On("sh -c").
		On("tmux switch-client -t =work2")

	script := testutil.WriteScript(t, t.TempDir(), "work.sh", savedScript)
	_, err := run(t, "restore", "--script", script)
	require.NoError(t, err)

	require.Len(t, term.titles, 1)
	assert.Contains(t, term.titles[0], `"work" already exists`)

	var executed string
	for _, line := range fake.CallLines() {
		if strings.HasPrefix(line, "sh -c ") {
			executed = strings.TrimPrefix(line, "sh -c ")
		}
	}
	assert.Equal(t, "work2", session.ExtractIdentity(executed))
	assert.Contains(t, fake.CallLines(), "tmux switch-client -t =work2")
}

func TestRestoreQuitExitsCleanly(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	setup(t, fake, &fakeInteraction{keys: []rune{'q'}})
	insideTmux(t, fake, "current")
	fake.On("tmux list-sessions", testutil.Response{Stdout: "work\n"})

	script := testutil.WriteScript(t, t.TempDir(), "work.sh", savedScript)
	out, err := run(t, "restore", "--script", script)
	require.NoError(t, err)
	assert.Contains(t, out, "Exiting without restoring the session.")
	for _, line := range fake.CallLines() {
		assert.False(t, strings.HasPrefix(line, "sh -c"), "script must not run")
	}
}

func TestRestoreMissingScript(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	setup(t, fake, &fakeInteraction{})
	insideTmux(t, fake, "current")

	_, err := run(t, "restore")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeScriptNotFound))
}

func TestListEmpty(t *testing.T) {
	setup(t, testutil.NewFakeExecutor(), &fakeInteraction{})

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved tmuxession sessions found.")

	_, err = run(t, "list", "--filter", "/nowhere/**")
	assert.True(t, errors.Is(err, errors.ErrCodeNoSavedSessions))
}

func TestListJSON(t *testing.T) {
	setup(t, testutil.NewFakeExecutor(), &fakeInteraction{})
	st, err := store.Default()
	require.NoError(t, err)
	_, err = st.Write(projectDir, savedScript)
	require.NoError(t, err)

	out, err := run(t, "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"dir": "/home/dev/proj"`)
	assert.Contains(t, out, `"session": "work"`)
}

func TestListSelectRestores(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	setup(t, fake, &fakeInteraction{keys: []rune{'1'}})
	insideTmux(t, fake, "current")
	fake.On("tmux list-sessions", testutil.Response{Stdout: "current\n"}).
		On("sh -c").
		On("tmux switch-client -t =work")

	st, err := store.Default()
	require.NoError(t, err)
	_, err = st.Write(projectDir, savedScript)
	require.NoError(t, err)

	_, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, fake.CallLines(), "tmux switch-client -t =work")
}

func TestListOptions(t *testing.T) {
	entries := make([]store.Entry, 12)
	for i := range entries {
		entries[i] = store.Entry{Dir: "/d", Session: "s"}
	}
	options := listOptions(entries)
	require.Len(t, options, 13)
	assert.Equal(t, '1', options[0].Key)
	assert.Equal(t, "[1] s: /d", options[0].Label)
	assert.Equal(t, 'a', options[9].Key)
	assert.Equal(t, 'q', options[12].Key)
	assert.NoError(t, session.ValidateOptions(listOptions(make([]store.Entry, len(listKeys)))))

	e, ok := entryForKey(entries, 'b')
	assert.True(t, ok)
	assert.Equal(t, entries[10], e)
	_, ok = entryForKey(entries, 'z')
	assert.False(t, ok)
}

func TestEdit(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	setup(t, fake, &fakeInteraction{})
	insideTmux(t, fake, "current")
	t.Setenv("TMUXESSION_EDITOR", "myedit")
	fake.On("myedit")

	_, err := run(t, "edit")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeScriptNotFound))

	path := storeFile(t, projectDir)
	testutil.WriteScript(t, filepath.Dir(path), filepath.Base(path), savedScript)

	_, err = run(t, "edit")
	require.NoError(t, err)
	assert.Contains(t, fake.CallLines(), "myedit "+path)
}

func TestConfigAndPaths(t *testing.T) {
	setup(t, testutil.NewFakeExecutor(), &fakeInteraction{})
	t.Setenv("TMUXESSION_SHELL", "bash")

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Source: defaults")
	assert.Contains(t, out, "shell: bash")

	out, err = run(t, "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"ignore_commands"`)

	out, err = run(t, "paths")
	require.NoError(t, err)
	assert.Contains(t, out, `"data_dir"`)
	assert.Contains(t, out, `"log_dir"`)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tmuxession "))
}

func TestExecuteExitCodes(t *testing.T) {
	setup(t, testutil.NewFakeExecutor(), &fakeInteraction{})

	assert.Equal(t, 0, Execute(context.Background(), []string{"paths"}))
	assert.Equal(t, 1, Execute(context.Background(), []string{"save"}))
	assert.Equal(t, 1, Execute(context.Background(), []string{"--config", "/does/not/exist.yml", "list"}))
}

func TestLogsTail(t *testing.T) {
	var got []string
	path := testutil.WriteScript(t, t.TempDir(), "tmuxession-2024-01-01.log", "one\ntwo\nthree\npartial")
	offset, err := printTail(path, 2, func(line string) { got = append(got, line) })
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "three"}, got)
	assert.Equal(t, int64(len("one\ntwo\nthree\n")), offset)

	var buf bytes.Buffer
	printLogText(&buf, `{"time":"2024-01-01T10:00:00Z","level":"info","msg":"Saved session","component":"cli.save","session":"work"}`)
	assert.Contains(t, buf.String(), "10:00:00")
	assert.Contains(t, buf.String(), "Saved session")
	assert.Contains(t, buf.String(), "work")

	buf.Reset()
	printLogJSON(&buf, "plain line")
	assert.Contains(t, buf.String(), `"raw_line":"plain line"`)
}

func TestListMenuNavigationKeys(t *testing.T) {
	for _, r := range "jkq" {
		assert.NotContains(t, listKeys, r)
	}

	entries := make([]store.Entry, 20)
	for i := range entries {
		entries[i] = store.Entry{Dir: fmt.Sprintf("/d/%d", i), Session: "s"}
	}

	var model tea.Model = menu.New("pick", listOptions(entries))
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})

	m := model.(menu.Model)
	assert.False(t, m.Done(), "navigation keys never pick an entry")
	assert.Equal(t, 1, m.Cursor())
}
