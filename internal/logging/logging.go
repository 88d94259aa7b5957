// ABOUTME: Process-wide printf-style logger backed by zerolog.
// ABOUTME: Console and optional append-only file sink, level configured at startup.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

// Config controls where log lines go.
type Config struct {
	Level   string // trace, debug, info, warn, error (default info)
	File    string // append to this file when set
	Console bool   // human-readable lines on stderr
}

var (
	mu     sync.RWMutex
	logger = newConsole(os.Stderr, zerolog.InfoLevel)
	file   *os.File
)

// Init replaces the process logger. The previous log file, if any, is closed.
func Init(cfg Config) error {
	level := ParseLevel(cfg.Level)

	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, consoleWriter(os.Stderr))
	}

	var f *os.File
	if path := strings.TrimSpace(cfg.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
	}

	var next zerolog.Logger
	switch len(writers) {
	case 0:
		next = zerolog.Nop()
	case 1:
		next = zerolog.New(writers[0]).Level(level).With().Timestamp().Logger()
	default:
		next = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	}

	mu.Lock()
	prev := file
	logger = next
	file = f
	mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	return nil
}

// SetOutput sends JSON log lines to w. Intended for tests and embedding.
func SetOutput(w io.Writer, level string) {
	mu.Lock()
	logger = zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
	mu.Unlock()
}

// Close flushes and closes the log file, if one is open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	logger = newConsole(os.Stderr, zerolog.InfoLevel)
	return err
}

// ParseLevel maps a config string to a zerolog level. Unknown or empty
// strings map to info.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel
	}
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func Debug(format string, args ...interface{}) { write(zerolog.DebugLevel, format, args...) }
func Info(format string, args ...interface{})  { write(zerolog.InfoLevel, format, args...) }
func Warn(format string, args ...interface{})  { write(zerolog.WarnLevel, format, args...) }
func Error(format string, args ...interface{}) { write(zerolog.ErrorLevel, format, args...) }

func write(level zerolog.Level, format string, args ...interface{}) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.WithLevel(level).Msgf(format, args...)
}

func newConsole(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(consoleWriter(w)).Level(level).With().Timestamp().Logger()
}

func consoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat, NoColor: true}
}
