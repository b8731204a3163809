// Package logging holds the file logger used while the terminal browser owns
// the screen. Anything written to stdout or stderr during that time would
// corrupt the UI, so the TUI and everything it calls log here instead.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// Logger is the global logger instance. Nil until Init succeeds.
	Logger *log.Logger

	logFile       *os.File
	previousOut   io.Writer
	previousFlags int
)

// Init opens (or creates) the log file at path and points both Logger and the
// standard library logger at it.
func Init(path string) error {
	if path == "" {
		return fmt.Errorf("log path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	Logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.DebugLevel,
	})

	previousOut = stdlog.Writer()
	previousFlags = stdlog.Flags()
	stdlog.SetOutput(f)

	Logger.Info("Bookshelf browser started", "log", path)
	return nil
}

// Close restores the standard logger and closes the log file.
func Close() {
	if Logger != nil {
		Logger.Info("Bookshelf browser shutting down")
	}
	if previousOut != nil {
		stdlog.SetOutput(previousOut)
		stdlog.SetFlags(previousFlags)
		previousOut = nil
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	Logger = nil
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// WithPrefix returns a logger with a prefix, or nil before Init.
func WithPrefix(prefix string) *log.Logger {
	if Logger != nil {
		return Logger.WithPrefix(prefix)
	}
	return nil
}
