package observability

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
)

// package-wide structured logger, key/value pairs to stderr.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
})

func Logger() *log.Logger {
	return logger
}

// Configure sets the global log level ("debug", "info", "warn", "error").
func Configure(level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *log.Logger {
	return logger.With(kv...)
}

// WithRequestID stores a request_id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// LoggerFromContext adds request_id if present.
func LoggerFromContext(ctx context.Context) *log.Logger {
	reqID, _ := ctx.Value(ctxKeyRequestID).(string)
	if reqID == "" {
		return logger
	}
	return logger.With("request_id", reqID)
}
