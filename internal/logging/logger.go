// Package logging provides a small leveled logger on top of the standard log package.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// Level defines the logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the Level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string level to Level. Unknown values map to LevelInfo.
func ParseLevel(levelStr string) Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Fields are key/value pairs appended to a log line.
type Fields map[string]any

// Logger writes leveled, single-line log records.
type Logger struct {
	logger *log.Logger
	level  Level
}

// New creates a Logger writing to os.Stderr.
func New(level Level) *Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer, level Level) *Logger {
	return &Logger{
		logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		level:  level,
	}
}

// Discard returns a Logger that drops everything. Used in tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard, LevelError+1)
}

func (l *Logger) log(level Level, msg string, err error, fields Fields) {
	if l == nil || level < l.level {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", level, msg)

	if err != nil {
		fmt.Fprintf(&sb, " | error: %v", err)
	}

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		// sorted for stable output
		sort.Strings(keys)

		sb.WriteString(" |")
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, fields[k])
		}
	}

	l.logger.Println(sanitize(sb.String()))
}

// sanitize strips CR/LF so user-supplied values cannot forge log lines.
func sanitize(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// Debug logs a message at Debug level.
func (l *Logger) Debug(msg string, fields Fields) {
	l.log(LevelDebug, msg, nil, fields)
}

// Info logs a message at Info level.
func (l *Logger) Info(msg string, fields Fields) {
	l.log(LevelInfo, msg, nil, fields)
}

// Warn logs a message at Warn level, with an optional error.
func (l *Logger) Warn(err error, msg string, fields Fields) {
	l.log(LevelWarn, msg, err, fields)
}

// Error logs an error message at Error level.
func (l *Logger) Error(err error, msg string, fields Fields) {
	l.log(LevelError, msg, err, fields)
}
