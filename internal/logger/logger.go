package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger interface defines the logging methods
type Logger interface {
	Info(format string, args ...any)
	Debug(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	SetOutput(out io.Writer)
	SetErrorOutput(out io.Writer)
	SetVerbose(enabled bool)
	SetQuiet(enabled bool)
	IsVerbose() bool
	IsQuiet() bool
}

// ConsoleLogger implements the Logger interface
type ConsoleLogger struct {
	output      io.Writer
	errOut      io.Writer
	verboseMode bool
	quietMode   bool
	isTTY       bool
	mu          sync.Mutex
}

var (
	instance Logger
	once     sync.Once
)

// GetLogger returns the singleton instance
func GetLogger() Logger {
	once.Do(func() {
		instance = &ConsoleLogger{
			output: os.Stdout,
			errOut: os.Stderr,
			isTTY:  isTerminal(os.Stdout),
		}
	})
	return instance
}

// isTerminal reports whether w is an interactive terminal; colors and icons
// are only used there.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetOutput redirects informational messages, e.g. to stderr when the CSV
// itself goes to stdout.
func SetOutput(out io.Writer) {
	GetLogger().SetOutput(out)
}

// SetLogFile sends every message to a size-rotated file instead of the
// console. The returned closer flushes and closes the file.
func SetLogFile(path string, maxSizeMB int) io.Closer {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		Compress:   true,
	}
	l := GetLogger()
	l.SetOutput(lj)
	l.SetErrorOutput(lj)
	return lj
}

// SetVerbose enables or disables verbose mode globally
func SetVerbose(verbose bool) {
	GetLogger().SetVerbose(verbose)
}

func IsVerbose() bool {
	return GetLogger().IsVerbose()
}

func SetQuiet(quiet bool) {
	GetLogger().SetQuiet(quiet)
}

func IsQuiet() bool {
	return GetLogger().IsQuiet()
}

// Global helper functions for convenience
func Info(format string, args ...any)    { GetLogger().Info(format, args...) }
func Debug(format string, args ...any)   { GetLogger().Debug(format, args...) }
func Success(format string, args ...any) { GetLogger().Success(format, args...) }
func Warn(format string, args ...any)    { GetLogger().Warn(format, args...) }
func Error(format string, args ...any)   { GetLogger().Error(format, args...) }

// -------------------- Implementation --------------------

func (l *ConsoleLogger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = out
	l.isTTY = isTerminal(out)
}

func (l *ConsoleLogger) SetErrorOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errOut = out
}

func (l *ConsoleLogger) SetVerbose(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verboseMode = enabled
}

func (l *ConsoleLogger) IsVerbose() bool {
	return l.verboseMode
}

func (l *ConsoleLogger) SetQuiet(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quietMode = enabled
}

func (l *ConsoleLogger) IsQuiet() bool {
	return l.quietMode
}

func (l *ConsoleLogger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05.000")
}

func (l *ConsoleLogger) log(out io.Writer, prefix, color, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if l.isTTY {
		fmt.Fprintf(out, "%s%s %s%s\n", color, prefix, msg, resetColor)
	} else {
		fmt.Fprintf(out, "%s %s\n", prefix, msg)
	}

}

const (
	blueColor   = "\033[34m"
	greenColor  = "\033[32m"
	yellowColor = "\033[33m"
	redColor    = "\033[31m"
	grayColor   = "\033[90m"
	resetColor  = "\033[0m"
)

func (l *ConsoleLogger) Info(format string, args ...any) {
	if l.quietMode {
		return
	}
	icon := "ℹ️"
	if !l.isTTY {
		icon = "INFO"
	}
	l.log(l.output, icon, blueColor, format, args...)
}

func (l *ConsoleLogger) Debug(format string, args ...any) {
	if !l.verboseMode {
		return
	}

	icon := "🔍"
	if !l.isTTY {
		icon = "DEBUG"
	}

	l.log(l.output, fmt.Sprintf("[%s] %s", l.timestamp(), icon), grayColor, format, args...)
}

func (l *ConsoleLogger) Success(format string, args ...any) {
	if l.quietMode {
		return
	}
	icon := "✓"
	if !l.isTTY {
		icon = "SUCCESS"
	}
	l.log(l.output, icon, greenColor, format, args...)
}

func (l *ConsoleLogger) Warn(format string, args ...any) {
	if l.quietMode {
		return
	}
	icon := "⚠"
	if !l.isTTY {
		icon = "WARN"
	}
	l.log(l.output, icon, yellowColor, format, args...)
}

func (l *ConsoleLogger) Error(format string, args ...any) {
	icon := "✗"
	if !l.isTTY {
		icon = "ERROR"
	}
	l.log(l.errOut, icon, redColor, format, args...)
}
