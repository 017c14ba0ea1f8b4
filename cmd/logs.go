package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tmuxession/cli"
	"github.com/grovetools/tmuxession/logging"
	"github.com/grovetools/tmuxession/pkg/paths"
	"github.com/grovetools/tmuxession/tui/theme"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	var follow bool
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the tmuxession log file",
		Long: `Print the most recent log file. Logs are only written when logging.file.enabled
is set in tmuxession.yml.

Examples:
  # Follow the log while running tmuxession elsewhere
  tmuxession logs -f

  # Last 50 lines as JSON
  tmuxession logs --tail 50 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(cmd, follow, lines)
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVar(&lines, "tail", -1, "Number of lines to show from the end of the log (default: all)")
	return cmd
}

func runLogs(cmd *cobra.Command, follow bool, lines int) error {
	logCfg := logging.LoadConfig()
	path := logging.FilePath(logCfg)
	dir := paths.LogDir()
	if path != "" {
		dir = filepath.Dir(path)
	}

	latest, err := logging.FindLatestLogFile(dir)
	if err != nil {
		if !logCfg.File.Enabled {
			fmt.Fprintln(cmd.ErrOrStderr(), theme.DefaultTheme.Muted.Render(
				"File logging is disabled. Set logging.file.enabled: true in tmuxession.yml."))
		}
		return err
	}

	jsonOutput := cli.GetOptions(cmd).JSONOutput
	emit := func(line string) {
		if jsonOutput {
			printLogJSON(cmd.OutOrStdout(), line)
		} else {
			printLogText(cmd.OutOrStdout(), line)
		}
	}

	offset, err := printTail(latest, lines, emit)
	if err != nil || !follow {
		return err
	}

	t, err := tail.TailFile(latest, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: offset, Whence: io.SeekStart},
		Logger:   stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return fmt.Errorf("failed to follow %s: %w", latest, err)
	}
	defer t.Cleanup()

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				return line.Err
			}
			emit(line.Text)
		}
	}
}

// printTail prints the last n lines of path (all when n < 0) and returns the
// offset at which following should resume.
func printTail(path string, n int, emit func(string)) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var all []string
	var offset int64
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if strings.HasSuffix(line, "\n") {
			offset += int64(len(line))
			all = append(all, strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}

	start := 0
	if n >= 0 && n < len(all) {
		start = len(all) - n
	}
	for _, line := range all[start:] {
		if line != "" {
			emit(line)
		}
	}
	return offset, nil
}

// printLogJSON re-emits a JSON log line, wrapping plain text lines.
func printLogJSON(w io.Writer, line string) {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(line), &logMap); err != nil {
		logMap = map[string]interface{}{"raw_line": line}
	}
	data, _ := json.Marshal(logMap)
	fmt.Fprintln(w, string(data))
}

// printLogText pretty-prints JSON log lines and passes text lines through.
func printLogText(w io.Writer, line string) {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(line), &logMap); err != nil {
		fmt.Fprintln(w, line)
		return
	}

	t := theme.DefaultTheme
	ts, _ := logMap["time"].(string)
	level, _ := logMap["level"].(string)
	msg, _ := logMap["msg"].(string)
	component, _ := logMap["component"].(string)

	timeStr := ts
	if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		timeStr = parsed.Format("15:04:05")
	}

	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = t.Error
	case "warning":
		levelStyle = t.Warning
	case "info":
		levelStyle = t.Info
	default:
		levelStyle = t.Muted
	}

	var keys []string
	for k := range logMap {
		if k != "time" && k != "level" && k != "msg" && k != "component" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", t.Muted.Render(k), logMap[k]))
	}

	out := fmt.Sprintf("%s [%s] [%s] %s", timeStr, levelStyle.Render(strings.ToUpper(level)),
		t.Highlight.Render(component), msg)
	if len(fields) > 0 {
		out += " " + strings.Join(fields, " ")
	}
	fmt.Fprintln(w, out)
}
