package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/types"
)

// Level represents a logging level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel converts a config string to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// Logger writes levelled lines tagged with the calling file
type Logger struct {
	out   *log.Logger
	level Level
	now   func() time.Time
}

// NewLogger creates a logger writing to stdout
func NewLogger(level Level) *Logger {
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo creates a logger writing to w
func NewLoggerTo(w io.Writer, level Level) *Logger {
	return &Logger{out: log.New(w, "", 0), level: level, now: time.Now}
}

// Level returns the minimum level that is written
func (l *Logger) Level() Level {
	return l.level
}

// Enabled reports whether messages at level are written
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

// logf skips its own frame and the exported method's to find the caller
func (l *Logger) logf(level Level, format string, v ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	caller := "???"
	if _, file, line, ok := runtime.Caller(2); ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	l.out.Printf("%s %-5s %s %s",
		l.now().Format("2006-01-02 15:04:05.000"), level, caller, fmt.Sprintf(format, v...))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) { l.logf(DEBUG, format, v...) }

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) { l.logf(INFO, format, v...) }

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) { l.logf(WARN, format, v...) }

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) { l.logf(ERROR, format, v...) }

// LogError logs err on one line. Requests the tracker rejected (bad amounts,
// unknown commands, undo on an empty log, no session) are DEBUG; storage and
// internal failures are ERROR. Anything that is not a TrackerError is ERROR.
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}

	var te *types.TrackerError
	if !types.As(err, &te) {
		l.logf(ERROR, "unexpected error: %v", err)
		return
	}

	line := fmt.Sprintf("code=%s msg=%q", te.Code, te.Message)
	if te.Err != nil {
		line += fmt.Sprintf(" cause=%q", te.Err.Error())
	}
	if te.Code.Rejected() {
		l.logf(DEBUG, "rejected %s", line)
		return
	}
	l.logf(ERROR, "failed %s", line)
}

// Default logger instance
var Default = NewLogger(INFO)

// Discard drops everything
var Discard = NewLoggerTo(io.Discard, ERROR+1)
