package telemetry

import (
	"context"
	"fmt"

	"gitlab.com/shar-workflow/iflowscan/common/logx"
	"gitlab.com/shar-workflow/iflowscan/server/errors/keys"
	"go.opentelemetry.io/otel/trace"
)

// TraceparentHeader is the W3C trace context header name.
const TraceparentHeader = "traceparent"

// GetTraceparentTraceAndSpan returns a trace and span from a W3C traceparent.
// Both are empty when the traceparent is too short.
func GetTraceparentTraceAndSpan(traceparent string) (string, string) {
	if len(traceparent) < 55 {
		return "", ""
	}
	return traceparent[3:35], traceparent[36:52]
}

// TraceIDFromTraceparent parses the trace ID of a W3C traceparent.
func TraceIDFromTraceparent(traceparent string) (trace.TraceID, error) {
	if len(traceparent) < 55 {
		return trace.TraceID{}, fmt.Errorf("traceparent %q is too short", traceparent)
	}
	traceID, err := trace.TraceIDFromHex(traceparent[3:35])
	if err != nil {
		return trace.TraceID{}, fmt.Errorf("trace id from hex: %w", err)
	}
	return traceID, nil
}

// WithCallerTrace adds the trace and span IDs of a caller's traceparent to the context logger.
// A missing or malformed traceparent leaves ctx unchanged.
func WithCallerTrace(ctx context.Context, traceparent string) context.Context {
	if traceparent == "" {
		return ctx
	}
	if _, err := TraceIDFromTraceparent(traceparent); err != nil {
		logx.FromContext(ctx).Debug("ignoring caller traceparent", "error", err)
		return ctx
	}
	tid, sid := GetTraceparentTraceAndSpan(traceparent)
	return logx.NewContext(ctx, logx.FromContext(ctx).With(keys.TraceID, tid, keys.SpanID, sid))
}
