package client

import (
	"time"

	"gitlab.com/shar-workflow/iflowscan/common/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// WithToken presents a bearer token on every API call.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithToken(token string) bearerToken { //nolint
	return bearerToken{val: token}
}

type bearerToken struct {
	val string
}

func (o bearerToken) configure(client *Client) {
	client.token = o.val
}

// WithTimeout sets how long an API call waits for a reply.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTimeout(d time.Duration) timeout { //nolint
	return timeout{val: d}
}

type timeout struct {
	val time.Duration
}

func (o timeout) configure(client *Client) {
	if o.val > 0 {
		client.timeout = o.val
	}
}

// WithTracerProvider traces API calls with the given provider instead of the global one.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTracerProvider(tp trace.TracerProvider) tracerProvider { //nolint
	return tracerProvider{val: tp}
}

type tracerProvider struct {
	val trace.TracerProvider
}

func (o tracerProvider) configure(client *Client) {
	client.tr = telemetry.Tracer(o.val)
}
