package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/tmuxession/config"
	"github.com/grovetools/tmuxession/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// FilePrefix names the dated log files written to paths.LogDir.
const FilePrefix = "tmuxession"

var (
	loggers   = make(map[string]*logrus.Entry)
	files     = make(map[string]*os.File)
	overrides Overrides
	loggersMu sync.Mutex
)

// Overrides are set from command-line flags and win over config and environment.
type Overrides struct {
	Level  string
	Preset string
}

// SetOverrides applies o to every logger, including ones already created.
func SetOverrides(o Overrides) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	overrides = o
	for component, entry := range loggers {
		configure(entry.Logger, component)
	}
}

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	configure(logger, component)

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// LoadConfig reads the logging section of the active configuration. A missing
// or unreadable configuration yields the zero Config.
func LoadConfig() Config {
	var logCfg Config
	cfg, err := config.LoadDefault()
	if err != nil {
		return logCfg
	}
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		logrus.Warnf("Failed to parse 'logging' config: %v", err)
	}
	return logCfg
}

// FilePath returns the file the logs are written to, or "" when the file
// sink is disabled.
func FilePath(logCfg Config) string {
	if !logCfg.File.Enabled {
		return ""
	}
	if logCfg.File.Path != "" {
		if expanded, err := paths.Expand(logCfg.File.Path); err == nil {
			return expanded
		}
		return logCfg.File.Path
	}
	return filepath.Join(paths.LogDir(), fmt.Sprintf("%s-%s.log", FilePrefix, time.Now().Format("2006-01-02")))
}

// configure must be called with loggersMu held.
func configure(logger *logrus.Logger, component string) {
	logCfg := LoadConfig()

	levelStr := "info"
	switch {
	case overrides.Level != "":
		levelStr = overrides.Level
	case os.Getenv("TMUXESSION_LOG_LEVEL") != "":
		levelStr = os.Getenv("TMUXESSION_LOG_LEVEL")
	case logCfg.Level != "":
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetReportCaller(os.Getenv("TMUXESSION_LOG_CALLER") == "true" || logCfg.ReportCaller)

	format := logCfg.Format
	if overrides.Preset != "" {
		format.Preset = overrides.Preset
	}
	logger.SetFormatter(formatterFor(format))

	var writers []io.Writer

	if path := FilePath(logCfg); path != "" {
		if file, err := openLogFile(path); err == nil {
			writers = append(writers, file)
		} else {
			fmt.Fprintf(GetGlobalOutput(), "tmuxession: %s logger: %v\n", component, err)
		}
	}

	if shouldLogToStderr(format.StructuredToStderr, level) {
		writers = append(writers, GetGlobalOutput())
	}

	switch len(writers) {
	case 0:
		// Interactive terminal with no file sink: keep menus clean.
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
}

// shouldLogToStderr resolves the structured_to_stderr mode. "auto" logs to
// stderr when debugging or when stderr is not an interactive terminal.
func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	isDebug := os.Getenv("TMUXESSION_DEBUG") == "1" || level >= logrus.DebugLevel
	isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return isDebug || !isInteractive
}

// openLogFile opens path for appending, sharing one handle per path.
func openLogFile(path string) (*os.File, error) {
	if file, ok := files[path]; ok {
		return file, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	files[path] = file
	return file, nil
}

// FindLatestLogFile finds the most recently modified non-empty file in a directory.
// Prefers files with content over empty files.
func FindLatestLogFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	var latest, latestNonEmpty os.FileInfo
	var latestPath, latestNonEmptyPath string

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == nil || info.ModTime().After(latest.ModTime()) {
			latest = info
			latestPath = filepath.Join(dir, entry.Name())
		}
		if info.Size() > 0 && (latestNonEmpty == nil || info.ModTime().After(latestNonEmpty.ModTime())) {
			latestNonEmpty = info
			latestNonEmptyPath = filepath.Join(dir, entry.Name())
		}
	}

	if latestNonEmpty != nil {
		return latestNonEmptyPath, nil
	}
	if latest == nil {
		return "", fmt.Errorf("no log files found in %s", dir)
	}
	return latestPath, nil
}
