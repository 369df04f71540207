// ABOUTME: Logger implementation backed by sirupsen/logrus
// ABOUTME: Provides structured logging with level and formatter selection

package standard

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// StandardLogger implements the Logger interface using logrus
type StandardLogger struct {
	entry *logrus.Entry
}

// Options configures a StandardLogger
type Options struct {
	// Level is debug, info, warn or error; unknown values mean info
	Level string

	// Format is "json" or "text"
	Format string

	// Output defaults to stderr
	Output io.Writer

	// File, when set and Output is nil, receives logs through a rotating writer
	File string
}

// NewStandardLogger creates an info-level text logger writing to stderr
func NewStandardLogger() *StandardLogger {
	return NewLogger(Options{})
}

// NewLogger creates a logger from options
func NewLogger(opts Options) *StandardLogger {
	l := logrus.New()

	if opts.Output != nil {
		l.SetOutput(opts.Output)
	} else if opts.File != "" {
		l.SetOutput(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	} else {
		l.SetOutput(os.Stderr)
	}

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(opts.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &StandardLogger{entry: logrus.NewEntry(l)}
}

// NewQuietLogger discards everything below error level
func NewQuietLogger() *StandardLogger {
	return NewLogger(Options{Level: "error", Output: io.Discard})
}

// With returns a logger that adds fields to every message
func (l *StandardLogger) With(fields map[string]interface{}) *StandardLogger {
	return &StandardLogger{entry: l.entry.WithFields(fields)}
}

// Debug logs a debug message
func (l *StandardLogger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

// Info logs an info message
func (l *StandardLogger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

// Warn logs a warning message
func (l *StandardLogger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

// Error logs an error message
func (l *StandardLogger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Error(msg)
}
