// Package logger provides the console logger used while checking files.
//
// Output is prefixed with [HH:MM:SS] timestamps, filtered by log level, and
// thread-safe so parallel file workers can share one logger. Color is
// enabled only when writing to a TTY.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelDebug int = iota
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger logs progress to a writer with timestamps and level
// filtering.
type ConsoleLogger struct {
	writer   io.Writer
	level    int
	mutex    sync.Mutex
	useColor bool
}

// NewConsoleLogger creates a ConsoleLogger writing to the provided writer.
// If writer is nil, messages are discarded. Valid levels: debug, info, warn,
// error (case-insensitive); empty or invalid levels default to info.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:   writer,
		level:    parseLevel(logLevel),
		useColor: isTerminal(writer),
	}
}

// isTerminal reports whether the writer is a TTY that supports color.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// Debugf logs at debug level.
func (l *ConsoleLogger) Debugf(format string, args ...interface{}) {
	l.logf(levelDebug, nil, format, args...)
}

// Infof logs at info level.
func (l *ConsoleLogger) Infof(format string, args ...interface{}) {
	l.logf(levelInfo, nil, format, args...)
}

// Warnf logs at warn level, colored yellow on TTYs.
func (l *ConsoleLogger) Warnf(format string, args ...interface{}) {
	l.logf(levelWarn, color.New(color.FgYellow), format, args...)
}

// Errorf logs at error level, colored red on TTYs.
func (l *ConsoleLogger) Errorf(format string, args ...interface{}) {
	l.logf(levelError, color.New(color.FgRed), format, args...)
}

// Successf logs at info level, colored green on TTYs.
func (l *ConsoleLogger) Successf(format string, args ...interface{}) {
	l.logf(levelInfo, color.New(color.FgGreen), format, args...)
}

// Raw writes text without timestamp or level filtering, for preformatted
// output such as diffs.
func (l *ConsoleLogger) Raw(text string) {
	if l.writer == nil || text == "" {
		return
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	fmt.Fprintln(l.writer, text)
}

func (l *ConsoleLogger) logf(level int, c *color.Color, format string, args ...interface{}) {
	if l.writer == nil || level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if l.useColor && c != nil {
		msg = c.Sprint(msg)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	fmt.Fprintf(l.writer, "[%s] %s\n", time.Now().Format("15:04:05"), msg)
}
