package tmux

import (
	"context"
	"fmt"
	"testing"

	"github.com/grovetools/tmuxession/pkg/session"
	"github.com/grovetools/tmuxession/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInspector map[int][]string

func (s stubInspector) PaneCommands(_ context.Context, pid int) ([]string, error) {
	commands, ok := s[pid]
	if !ok {
		return nil, fmt.Errorf("unknown pid %d", pid)
	}
	return commands, nil
}

func TestParseWindowLine(t *testing.T) {
	tests := []struct {
		line    string
		want    session.Window
		wantErr bool
	}{
		{
			line: "1:main:b25f,80x24,0,0:1:0",
			want: session.Window{Index: "1", Name: "main", Layout: "b25f,80x24,0,0", Active: true},
		},
		{
			line: "3:db: prod:c1a2,80x24,0,0{40x24,0,0,1,39x24,41,0,2}:0:1",
			want: session.Window{Index: "3", Name: "db: prod", Layout: "c1a2,80x24,0,0{40x24,0,0,1,39x24,41,0,2}", Zoomed: true},
		},
		{
			line: "2::abcd,80x24,0,0:0:0",
			want: session.Window{Index: "2", Name: "", Layout: "abcd,80x24,0,0"},
		},
		{line: "x:main:layout:1:0", wantErr: true},
		{line: "1:main:1", wantErr: true},
		{line: "garbage", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseWindowLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePaneLine(t *testing.T) {
	got, err := parsePaneLine("0:/srv/a:b:4242:1")
	require.NoError(t, err)
	assert.Equal(t, "0", got.Index)
	assert.Equal(t, "/srv/a:b", got.WorkingDir)
	assert.True(t, got.Active)
	assert.Equal(t, 4242, got.PID)

	_, err = parsePaneLine("0:/srv:notapid:1")
	assert.Error(t, err)
	_, err = parsePaneLine("0:/srv")
	assert.Error(t, err)
}

func TestCaptureSession(t *testing.T) {
	fake := testutil.NewFakeExecutor().
		On("tmux list-windows -t =dev", testutil.Response{Stdout: "1:editor:aaaa,80x24,0,0:1:0\n2:logs:bbbb,80x24,0,0:0:1\n"}).
		On("tmux list-panes -t =dev:1", testutil.Response{Stdout: "1:/home/u/proj:100:1\n"}).
		On("tmux list-panes -t =dev:2", testutil.Response{Stdout: "1:/var/log:200:0\n2:/var/log:300:1\n"})
	client := newTestClient(t, fake, Options{})

	inspector := stubInspector{
		100: {"zsh", "vim main.go"},
		200: {"zsh"},
		300: {"bash", "tail -f syslog"},
	}

	captured, err := client.CaptureSession(context.Background(), "dev", inspector)
	require.NoError(t, err)
	require.NoError(t, captured.Validate())

	assert.Equal(t, "dev", captured.Name)
	require.Len(t, captured.Windows, 2)

	editor := captured.Windows[0]
	assert.Equal(t, "editor", editor.Name)
	assert.True(t, editor.Active)
	require.Len(t, editor.Panes, 1)
	assert.Equal(t, session.Pane{Index: "1", WorkingDir: "/home/u/proj", Active: true, Commands: []string{"zsh", "vim main.go"}}, editor.Panes[0])

	logs := captured.Windows[1]
	assert.True(t, logs.Zoomed)
	require.Len(t, logs.Panes, 2)
	assert.Equal(t, []string{"zsh"}, logs.Panes[0].Commands)
	assert.Equal(t, []string{"bash", "tail -f syslog"}, logs.Panes[1].Commands)
	assert.True(t, logs.Panes[1].Active)
}

func TestCaptureSession_EmptyShellFallsBack(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")
	fake := testutil.NewFakeExecutor().
		On("tmux list-windows", testutil.Response{Stdout: "0:w:aaaa,80x24,0,0:1:0\n"}).
		On("tmux list-panes", testutil.Response{Stdout: "0:/tmp:100:1\n"})

	captured, err := newTestClient(t, fake, Options{}).CaptureSession(context.Background(), "dev", stubInspector{100: {""}})
	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/zsh"}, captured.Windows[0].Panes[0].Commands)
}

func TestCaptureSession_InspectorError(t *testing.T) {
	fake := testutil.NewFakeExecutor().
		On("tmux list-windows", testutil.Response{Stdout: "0:w:aaaa,80x24,0,0:1:0\n"}).
		On("tmux list-panes", testutil.Response{Stdout: "0:/tmp:999:1\n"})

	_, err := newTestClient(t, fake, Options{}).CaptureSession(context.Background(), "dev", stubInspector{})
	assert.Error(t, err)
}
