package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"

	"github.com/studyloop/lecturecast/internal/config"
)

var (
	logFile   string
	logWriter io.Writer = io.Discard
)

func getLogFilePath() (string, error) {
	path, err := gap.NewScope(gap.User, config.AppName).DataPath(config.AppName + ".log")
	if err != nil {
		return "", fmt.Errorf("could not find data directory: %w", err)
	}
	return path, nil
}

// setupLog points the default logger at the log file. Console output would
// corrupt the TUI, so nothing is written to stderr until a command asks
// for it.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	path := logFile
	if path == "" {
		var err error
		path, err = getLogFilePath()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec
		// log disabled
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		// log disabled
		return func() error { return nil }, nil
	}

	log.SetDefault(log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.InfoLevel,
	}))
	logFile = path
	logWriter = f
	return f.Close, nil
}

// applyLogLevel sets the default logger's level from the config, with
// --debug taking precedence.
func applyLogLevel(level string) {
	if debug {
		level = "debug"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warn("Unknown log level", "level", level)
		return
	}
	log.SetLevel(lvl)
}

// logToStderr mirrors the default logger to stderr for non-interactive
// runs.
func logToStderr() {
	log.SetOutput(io.MultiWriter(logWriter, os.Stderr))
}
