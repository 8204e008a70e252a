// Package logging builds the hclog loggers shared by egfpatch components.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvLogLevel overrides the default log level when no flag is given.
	EnvLogLevel = "EGFPATCH_LOG_LEVEL"
	// EnvJSONLog switches output to JSON when set to "1".
	EnvJSONLog = "EGFPATCH_JSON_LOG"
	// EnvLogPath appends log output to a file instead of stderr.
	EnvLogPath = "EGFPATCH_LOG_PATH"

	DefaultLevel = "info"
	linePrefix   = "🖼  "
)

// Settings is a resolved logger configuration.
type Settings struct {
	Level  string
	Source string
	JSON   bool
}

// ResolveSettings picks the log level from the CLI value, then the
// environment, then the default. A level of the form "json" or "json:debug"
// selects JSON output.
func ResolveSettings(cliLevel string) Settings {
	s := Settings{Level: DefaultLevel, Source: "default"}
	switch {
	case cliLevel != "":
		s.Level, s.Source = cliLevel, "CLI --log-level"
	case os.Getenv(EnvLogLevel) != "":
		s.Level, s.Source = os.Getenv(EnvLogLevel), EnvLogLevel
	}

	if strings.HasPrefix(s.Level, "json") {
		s.JSON = true
		if _, lvl, ok := strings.Cut(s.Level, ":"); ok && lvl != "" {
			s.Level = lvl
		} else {
			s.Level = DefaultLevel
		}
	}
	if os.Getenv(EnvJSONLog) == "1" {
		s.JSON = true
	}
	return s
}

var (
	logFileMu sync.Mutex
	logFile   *os.File
)

// openLogOutput returns the file at path opened for appending, shared by
// every logger of the process. When the file cannot be opened a warning is
// written to warn and stderr is returned instead.
func openLogOutput(path string, warn io.Writer) io.Writer {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if logFile != nil && logFile.Name() == path {
		return logFile
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(warn, "%swarning: cannot open %s=%s, logging to stderr: %v\n", linePrefix, EnvLogPath, path, err)
		return os.Stderr
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile = file
	return file
}

// Close closes the EGFPATCH_LOG_PATH file, if one was opened. Loggers created
// before Close must not be used afterwards.
func Close() error {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// NewLogger creates a logger named name.
//
// Parameters:
//   - name: logger name shown in every line
//   - s: resolved settings, see ResolveSettings
//   - output: destination; nil selects EGFPATCH_LOG_PATH when set, otherwise
//     stderr. A log file that cannot be opened is reported on stderr.
//
// Text output carries the egfpatch line prefix; JSON output does not.
func NewLogger(name string, s Settings, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
		if logPath := os.Getenv(EnvLogPath); logPath != "" {
			output = openLogOutput(logPath, os.Stderr)
		}
	}

	if !s.JSON {
		output = NewPrefixWriter(linePrefix, output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(s.Level),
		JSONFormat: s.JSON,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}
