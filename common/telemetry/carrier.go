package telemetry

import (
	"context"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/propagation"
)

// NatsMsgCarrier adapts NATS message headers to a propagation.TextMapCarrier.
type NatsMsgCarrier struct {
	msg *nats.Msg
}

// NewNatsMsgCarrier creates a carrier over the headers of msg.
func NewNatsMsgCarrier(msg *nats.Msg) *NatsMsgCarrier {
	return &NatsMsgCarrier{
		msg: msg,
	}
}

// Get returns the header value for key.
func (c *NatsMsgCarrier) Get(key string) string {
	return c.msg.Header.Get(key)
}

// Set stores a header value, creating the header map if needed.
func (c *NatsMsgCarrier) Set(key string, value string) {
	if c.msg.Header == nil {
		c.msg.Header = nats.Header{}
	}
	c.msg.Header.Set(key, value)
}

// Keys lists the header keys.
func (c *NatsMsgCarrier) Keys() []string {
	ret := make([]string, 0, len(c.msg.Header))
	for k := range c.msg.Header {
		ret = append(ret, k)
	}
	return ret
}

// CtxToNatsMsg writes the W3C traceparent of ctx into the message headers.
func CtxToNatsMsg(ctx context.Context, msg *nats.Msg) {
	propagation.TraceContext{}.Inject(ctx, NewNatsMsgCarrier(msg))
}

// NatsMsgToCtx returns ctx carrying the remote span context found in the message headers, if any.
func NatsMsgToCtx(ctx context.Context, msg *nats.Msg) context.Context {
	return propagation.TraceContext{}.Extract(ctx, NewNatsMsgCarrier(msg))
}
