package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger writes structured JSON records tagged with the service name and host.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a logger writing debug and above to stdout
func New(service string) *Logger {
	return NewWithWriter(service, os.Stdout, "debug")
}

// NewWithWriter creates a logger writing records at or above level to w
func NewWithWriter(service string, w io.Writer, level string) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// ParseLevel maps a config level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GenerateRequestID returns a new random request identifier
func GenerateRequestID() string {
	return uuid.NewString()
}

// Info logs an informational event
func (l *Logger) Info(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, action, message, requestID, nil, fields)
}

// Debug logs a debug event
func (l *Logger) Debug(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, action, message, requestID, nil, fields)
}

// Warn logs a recoverable problem
func (l *Logger) Warn(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelWarn, action, message, requestID, nil, fields)
}

// Error logs at error level. err may be nil for failures that carry no error value.
func (l *Logger) Error(action, message, requestID string, err error, fields map[string]interface{}) {
	l.log(slog.LevelError, action, message, requestID, err, fields)
}

func (l *Logger) log(level slog.Level, action, message, requestID string, err error, fields map[string]interface{}) {
	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}

	if len(fields) > 0 {
		group := make([]any, 0, len(fields))
		for k, v := range fields {
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("fields", group...))
	}

	if err != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("msg", err.Error()),
		))
	}

	l.handler.LogAttrs(context.Background(), level, message, attrs...)
}
