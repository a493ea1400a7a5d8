package batch

import (
	"gitlab.com/shar-workflow/iflowscan/common/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Runner.
type Option interface {
	configure(r *Runner)
}

// WithConcurrency sets how many artifacts are processed at once.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithConcurrency(n int) concurrency { //nolint
	return concurrency{val: n}
}

type concurrency struct {
	val int
}

func (o concurrency) configure(r *Runner) {
	r.concurrency = o.val
}

// WithExtractWorkers sets how many call activities of one artifact are extracted at once.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithExtractWorkers(n int) extractWorkers { //nolint
	return extractWorkers{val: n}
}

type extractWorkers struct {
	val int
}

func (o extractWorkers) configure(r *Runner) {
	r.extractWorkers = o.val
}

// WithTracerProvider traces batches with the given provider instead of the global one.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTracerProvider(tp trace.TracerProvider) tracerProvider { //nolint
	return tracerProvider{val: tp}
}

type tracerProvider struct {
	val trace.TracerProvider
}

func (o tracerProvider) configure(r *Runner) {
	r.tracer = telemetry.Tracer(o.val)
}
