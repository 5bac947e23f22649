// Package logging configures the zerolog logger shared by the CLI and the updater.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

var logFilePathFunc = LogFilePath

// Options controls logger construction.
type Options struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// Verbose forces debug level and adds caller information.
	Verbose bool
	// NoColor disables ANSI colors on the console writer.
	NoColor bool
	// File also appends JSON events to LogFilePath.
	File bool
}

// Setup returns a logger writing human-readable lines to console.
// The returned closer releases the log file, if one was opened.
func Setup(console io.Writer, opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen, NoColor: opts.NoColor}}
	var closer io.Closer = nopCloser{}
	var fileErr error
	logFile := ""
	if opts.File {
		logFile = logFilePathFunc()
		file, err := openLogFile(logFile)
		if err == nil {
			writers = append(writers, file)
			closer = file
		}
		fileErr = err
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).Level(level).With().Timestamp()
	if opts.Verbose {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()
	if fileErr != nil {
		logger.Warn().Err(fileErr).Str("path", logFile).Msg("Failed to create log file, logging to console only")
	}
	return logger, closer, nil
}

// Component returns logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// LogFilePath returns the log file under the XDG state home.
func LogFilePath() string {
	return filepath.Join(xdg.StateHome, "toolsync", "toolsync.log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
