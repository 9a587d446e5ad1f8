// Package runlog sets up per-run logging: a timestamped log file combined
// with console output, owned by an explicit Log object instead of mutated
// global logger state.
package runlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// timestampLayout matches the artifact naming scheme: YYYYMMDD_HHMMSS.
const timestampLayout = "20060102_150405"

// Log owns one run's log file and the loggers writing to it. Obtain with
// Open; release with Close. Opening a second Log leaves the first intact
// until it is closed, after which only the newer file receives output.
type Log struct {
	path    string
	file    *os.File
	console io.Writer
	logger  *slog.Logger
}

// Open creates dir if needed and opens a log file named
// "<prefix>_<YYYYMMDD_HHMMSS>.log" inside it. Log records at INFO and above
// go to both the file and stderr.
func Open(dir, prefix string) (*Log, error) {
	return OpenConsole(dir, prefix, os.Stderr)
}

// OpenConsole is Open with an explicit console sink.
func OpenConsole(dir, prefix string, console io.Writer) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("runlog: create log dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.log", prefix, time.Now().Format(timestampLayout))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("runlog: open log file: %w", err)
	}

	handler := slog.NewTextHandler(io.MultiWriter(console, file), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return &Log{
		path:    path,
		file:    file,
		console: console,
		logger:  slog.New(handler),
	}, nil
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Logger returns the INFO-level logger writing to file and console.
func (l *Log) Logger() *slog.Logger {
	return l.logger
}

// Debug returns a named DEBUG-level logger. Debug records go to the file
// only; the console stays at INFO.
func (l *Log) Debug(name string) *slog.Logger {
	handler := slog.NewTextHandler(l.file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	return slog.New(handler).With("logger", name)
}

// Close releases the log file. Records logged after Close are dropped from
// the file; nothing further is written.
func (l *Log) Close() error {
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("runlog: close log file: %w", err)
	}
	return nil
}
