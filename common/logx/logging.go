package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-logr/logr"
)

// ContextKey is a custom type to avoid context collision.
type ContextKey string

const (
	CorrelationContextKey = ContextKey("cid") // CorrelationContextKey is the name of the context key used to store the correlationID.
	EcoSystemLoggingKey   = "eco"             // EcoSystemLoggingKey is the name of the logging key used to store the current ecosystem.
	SubsystemLoggingKey   = "sub"             // SubsystemLoggingKey is the name of the logging key used to store the current subsystem.
	CorrelationLoggingKey = "cid"             // CorrelationLoggingKey is the name of the logging key used to store the correlation id.
	AreaLoggingKey        = "loc"             // AreaLoggingKey is the name of the logging key used to store the functional area.
)

// Output is where the default handlers write.  Logs go to stderr so that command output on stdout stays parseable.
var Output io.Writer = os.Stderr

// Err will output error message to the log and return the error with additional attributes.
func Err(ctx context.Context, message string, err error, atts ...any) error {
	l, err2 := logr.FromContext(ctx)
	if err2 != nil {
		l = logr.FromSlogHandler(FromContext(ctx).Handler())
	}
	if l.Enabled() {
		l.Error(err, message, atts...)
	}
	if len(atts) == 0 {
		return fmt.Errorf("%s: %w", message, err)
	}
	return fmt.Errorf("%s %s : %w", message, fmt.Sprint(atts...), err)
}

// Level converts a configured level name into a slog level.  Debug logging also reports the source position.
func Level(name string) (lev slog.Level, addSource bool) {
	switch name {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, false
	case "warn":
		return slog.LevelWarn, false
	default:
		return slog.LevelError, false
	}
}

// NewHandler constructs a slog handler of the named kind.  "json" selects structured output, anything else is text.
func NewHandler(handler string, w io.Writer, level slog.Level, addSource bool) slog.Handler {
	o := &slog.HandlerOptions{
		AddSource:   addSource,
		Level:       level,
		ReplaceAttr: nil,
	}
	switch handler {
	case "json":
		return slog.NewJSONHandler(w, o)
	default:
		return slog.NewTextHandler(w, o)
	}
}

// SetDefault installs the process wide logger.
func SetDefault(handler string, level slog.Level, addSource bool, ecosystem string) {
	h := NewHandler(handler, Output, level, addSource)
	slog.SetDefault(slog.New(h).With(slog.String(EcoSystemLoggingKey, ecosystem)))
}

type contextLoggerKey string

var ctxLogKey contextLoggerKey = "__log"

// ContextWith obtains a new logger with an area parameter.  Typically it should be used when obtaining a logger within a programmatic boundary.
func ContextWith(ctx context.Context, area string) (context.Context, *slog.Logger) {
	logger := FromContext(ctx).With(AreaLoggingKey, area)
	return NewContext(ctx, logger), logger
}

// NewContext creates a new context with the specified logger.
// A logr view of the same handler is stored alongside it for Err.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, ctxLogKey, logger)
	return logr.NewContext(ctx, logr.FromSlogHandler(logger.Handler()))
}

// FromContext obtains a logger from the context or takes the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	var cl *slog.Logger
	l := ctx.Value(ctxLogKey)
	if l == nil {
		cl = slog.Default()
	} else {
		cl = l.(*slog.Logger)
	}
	return cl
}

// LoggingEntrypoint returns a new logger and a context containing the logger for use when a new unit of work arrives.
func LoggingEntrypoint(ctx context.Context, subsystem string, correlationId string) (context.Context, *slog.Logger) {
	logger := FromContext(ctx).With(slog.String(SubsystemLoggingKey, subsystem), slog.String(CorrelationLoggingKey, correlationId))
	ctx = NewContext(ctx, logger)
	ctx = context.WithValue(ctx, CorrelationContextKey, correlationId)
	return ctx, logger
}

// CorrelationID returns the correlation ID stored by LoggingEntrypoint, if any.
func CorrelationID(ctx context.Context) string {
	if v, ok := ctx.Value(CorrelationContextKey).(string); ok {
		return v
	}
	return ""
}
