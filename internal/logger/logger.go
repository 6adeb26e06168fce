// Package logger provides levelled logging for xw-tune.
//
// Messages are written as single lines of the form
//
//	2006-01-02 15:04:05 [LEVEL] prefix message
//
// to stderr by default. The CLI raises or lowers the level from the
// --debug and --log-level flags or from the settings file.
//
// Example usage:
//
//	logger.Info("Loaded %d fine-tune model(s)", n)
//	logger.Debug("Selection for %s: %v", family, sel)
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message
type Level int

const (
	// DebugLevel is for plan construction and config loading details
	DebugLevel Level = iota

	// InfoLevel is for normal progress messages
	InfoLevel

	// WarnLevel is for suspicious but accepted input
	WarnLevel

	// ErrorLevel is for failures reported to the user
	ErrorLevel

	// FatalLevel terminates the process after writing the message
	FatalLevel
)

// String returns the upper-case name of the level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Logger writes levelled messages to an io.Writer.
//
// Thread Safety: All methods are safe for concurrent use.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	prefix string

	// exit is swapped out in tests so Fatal does not kill the test binary
	exit func(int)
}

var std = New(os.Stderr, "")

// New creates a Logger at InfoLevel.
//
// Parameters:
//   - out: Destination for log lines
//   - prefix: Text inserted between the level tag and the message
//
// Returns:
//   - A pointer to the new Logger
func New(out io.Writer, prefix string) *Logger {
	return &Logger{
		out:    out,
		level:  InfoLevel,
		prefix: prefix,
		exit:   os.Exit,
	}
}

// SetLevel sets the minimum level that is written
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current minimum level
func (l *Logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput redirects log lines to w
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// SetDebug lowers the level to DebugLevel when enable is true and
// restores InfoLevel otherwise.
func (l *Logger) SetDebug(enable bool) {
	if enable {
		l.SetLevel(DebugLevel)
		return
	}
	l.SetLevel(InfoLevel)
}

// Output formats and writes one message at the given level.
func (l *Logger) Output(level Level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	line := fmt.Sprintf("%s [%s] %s%s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		level,
		l.prefix,
		fmt.Sprintf(format, v...))
	_, _ = io.WriteString(l.out, line)

	if level == FatalLevel {
		l.exit(1)
	}
}

// Debug logs at DebugLevel
func (l *Logger) Debug(format string, v ...interface{}) { l.Output(DebugLevel, format, v...) }

// Info logs at InfoLevel
func (l *Logger) Info(format string, v ...interface{}) { l.Output(InfoLevel, format, v...) }

// Warn logs at WarnLevel
func (l *Logger) Warn(format string, v ...interface{}) { l.Output(WarnLevel, format, v...) }

// Error logs at ErrorLevel
func (l *Logger) Error(format string, v ...interface{}) { l.Output(ErrorLevel, format, v...) }

// Fatal logs at FatalLevel and exits with status 1.
func (l *Logger) Fatal(format string, v ...interface{}) { l.Output(FatalLevel, format, v...) }

// Global logger functions that use the default logger

// Default returns the package-level logger
func Default() *Logger { return std }

// SetLevel sets the level for the global logger
func SetLevel(level Level) { std.SetLevel(level) }

// SetOutput redirects the global logger
func SetOutput(w io.Writer) { std.SetOutput(w) }

// SetDebug enables or disables debug mode for the global logger
func SetDebug(enable bool) { std.SetDebug(enable) }

// Debug logs a debug message using the global logger
func Debug(format string, v ...interface{}) { std.Output(DebugLevel, format, v...) }

// Info logs an informational message using the global logger
func Info(format string, v ...interface{}) { std.Output(InfoLevel, format, v...) }

// Warn logs a warning message using the global logger
func Warn(format string, v ...interface{}) { std.Output(WarnLevel, format, v...) }

// Error logs an error message using the global logger
func Error(format string, v ...interface{}) { std.Output(ErrorLevel, format, v...) }

// Fatal logs a fatal error message and terminates the program
func Fatal(format string, v ...interface{}) { std.Output(FatalLevel, format, v...) }

// ParseLevel converts a level name to a Level.
//
// Supported values: "debug", "info", "warn", "warning", "error", "fatal".
// The second return value is false for anything else, in which case
// InfoLevel is returned.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, true
	case "info":
		return InfoLevel, true
	case "warn", "warning":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	case "fatal":
		return FatalLevel, true
	default:
		return InfoLevel, false
	}
}
