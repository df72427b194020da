package logging

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// Logger is the structured logger used across the worker. Arguments after
// the message are alternating key/value pairs.
type Logger struct {
	hclog.Logger
}

// NewLogger creates a new named Logger writing to stdout.
func NewLogger(name string) *Logger {
	return &Logger{
		Logger: hclog.New(&hclog.LoggerOptions{
			Name:   name,
			Level:  hclog.Info,
			Output: os.Stdout,
		}),
	}
}

// Named returns a sub-logger with the given name appended.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name)}
}

// With returns a sub-logger with the given key/value pairs attached to
// every line.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}
