package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// DocumentParsed logs a completed markdown-to-document conversion
func (l *Logger) DocumentParsed(file string, blocks int, duration time.Duration) {
	l.Info("document parsed",
		"file", file,
		"blocks", blocks,
		"duration", duration.Round(time.Microsecond))
}

// DocumentSerialized logs a completed document-to-markdown conversion
func (l *Logger) DocumentSerialized(file string, bytes int, duration time.Duration) {
	l.Info("document serialized",
		"file", file,
		"bytes", bytes,
		"duration", duration.Round(time.Microsecond))
}

// RoundTripMismatch logs a stability failure: re-running the pipeline over
// its own output changed the text
func (l *Logger) RoundTripMismatch(file string) {
	l.Error("round trip unstable",
		"file", file)
}

// Normalized logs that a file's text changed on its first pipeline pass
func (l *Logger) Normalized(file string) {
	l.Info("document normalized",
		"file", file)
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// DiagramEncodeFailed logs a diagram encoding failure
func (l *Logger) DiagramEncodeFailed(file string, err error) {
	l.Error("diagram encoding failed",
		"file", file,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(server, pattern string) {
	l.Debug("config loaded",
		"diagram_server", server,
		"image_pattern", pattern)
}
