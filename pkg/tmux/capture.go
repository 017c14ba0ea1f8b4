package tmux

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/pkg/session"
	"github.com/sirupsen/logrus"
)

const (
	windowFormat = "#{window_index}:#{window_name}:#{window_layout}:#{window_active}:#{window_zoomed_flag}"
	paneFormat   = "#{pane_index}:#{pane_current_path}:#{pane_pid}:#{pane_active}"
)

// PaneInspector discovers what is running in a pane from its shell's PID.
type PaneInspector interface {
	PaneCommands(ctx context.Context, pid int) ([]string, error)
}

// paneInfo is one parsed list-panes line.
type paneInfo struct {
	session.Pane
	PID int
}

// CaptureSession reads the live layout of sessionName: its windows in index
// order, each window's panes, and the commands running in them.
func (c *Client) CaptureSession(ctx context.Context, sessionName string, inspector PaneInspector) (*session.Session, error) {
	windows, err := c.ListWindows(ctx, sessionName)
	if err != nil {
		return nil, err
	}

	captured := &session.Session{Name: sessionName, Windows: windows}
	for wi := range captured.Windows {
		w := &captured.Windows[wi]
		panes, err := c.ListPanes(ctx, sessionName, w.Index)
		if err != nil {
			return nil, err
		}
		for _, p := range panes {
			commands, err := inspector.PaneCommands(ctx, p.PID)
			if err != nil {
				return nil, err
			}
			if len(commands) == 0 || commands[0] == "" {
				commands = append([]string{fallbackShell()}, commands[min(1, len(commands)):]...)
			}
			p.Commands = commands
			w.Panes = append(w.Panes, p.Pane)
		}
		c.logger.WithFields(logrus.Fields{
			"window": w.Index,
			"name":   w.Name,
			"panes":  len(w.Panes),
		}).Debug("Captured window")
	}

	return captured, nil
}

// ListWindows returns the windows of sessionName without their panes.
func (c *Client) ListWindows(ctx context.Context, sessionName string) ([]session.Window, error) {
	output, err := c.run(ctx, "list-windows", "-t", "="+sessionName, "-F", windowFormat)
	if err != nil {
		return nil, err
	}

	var windows []session.Window
	for _, line := range splitLines(output) {
		w, err := parseWindowLine(line)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCommandFailed, "unexpected list-windows output").
				WithDetail("line", line)
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// ListPanes returns the panes of one window together with their shell PIDs.
func (c *Client) ListPanes(ctx context.Context, sessionName, windowIndex string) ([]paneInfo, error) {
	target := fmt.Sprintf("=%s:%s", sessionName, windowIndex)
	output, err := c.run(ctx, "list-panes", "-t", target, "-F", paneFormat)
	if err != nil {
		return nil, err
	}

	var panes []paneInfo
	for _, line := range splitLines(output) {
		p, err := parsePaneLine(line)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCommandFailed, "unexpected list-panes output").
				WithDetail("line", line)
		}
		panes = append(panes, p)
	}
	return panes, nil
}

// parseWindowLine splits a windowFormat line. The index is taken from the
// front and the remaining fixed fields from the back, so the name may contain colons.
func parseWindowLine(line string) (session.Window, error) {
	index, rest, ok := strings.Cut(line, ":")
	if !ok {
		return session.Window{}, fmt.Errorf("missing fields")
	}
	fields := strings.Split(rest, ":")
	if len(fields) < 4 {
		return session.Window{}, fmt.Errorf("expected 5 fields, got %d", len(fields)+1)
	}
	if _, err := strconv.Atoi(index); err != nil {
		return session.Window{}, fmt.Errorf("invalid window index %q", index)
	}

	n := len(fields)
	return session.Window{
		Index:  index,
		Name:   strings.Join(fields[:n-3], ":"),
		Layout: fields[n-3],
		Active: fields[n-2] == "1",
		Zoomed: fields[n-1] == "1",
	}, nil
}

// parsePaneLine splits a paneFormat line, keeping colons inside the path.
func parsePaneLine(line string) (paneInfo, error) {
	index, rest, ok := strings.Cut(line, ":")
	if !ok {
		return paneInfo{}, fmt.Errorf("missing fields")
	}
	fields := strings.Split(rest, ":")
	if len(fields) < 3 {
		return paneInfo{}, fmt.Errorf("expected 4 fields, got %d", len(fields)+1)
	}
	if _, err := strconv.Atoi(index); err != nil {
		return paneInfo{}, fmt.Errorf("invalid pane index %q", index)
	}

	n := len(fields)
	pid, err := strconv.Atoi(fields[n-2])
	if err != nil {
		return paneInfo{}, fmt.Errorf("invalid pane pid %q", fields[n-2])
	}
	return paneInfo{
		Pane: session.Pane{
			Index:      index,
			WorkingDir: strings.Join(fields[:n-2], ":"),
			Active:     fields[n-1] == "1",
		},
		PID: pid,
	}, nil
}

func splitLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func fallbackShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "sh"
}
