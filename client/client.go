package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/segmentio/ksuid"
	"gitlab.com/shar-workflow/iflowscan/common/logx"
	"gitlab.com/shar-workflow/iflowscan/common/telemetry"
	"gitlab.com/shar-workflow/iflowscan/model"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
	"gitlab.com/shar-workflow/iflowscan/server/messages"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
)

// DefaultTimeout is how long a call waits for the server to reply.
// Extraction downloads every artifact before replying, so it is generous.
const DefaultTimeout = 60 * time.Second

// Client calls the iflowscan API over NATS.
type Client struct {
	con     *nats.Conn
	token   string
	timeout time.Duration
	tr      trace.Tracer
}

// ConfigurationOption represents a configuration function for the iflowscan client.
type ConfigurationOption interface {
	configure(client *Client)
}

// New creates a new iflowscan client.  Dial must be called before any API call.
func New(option ...ConfigurationOption) *Client {
	c := &Client{
		timeout: DefaultTimeout,
	}
	for _, i := range option {
		i.configure(c)
	}
	if c.tr == nil {
		c.tr = telemetry.Tracer(nil)
	}
	return c
}

// Dial connects to the NATS server hosting the iflowscan API.
func (c *Client) Dial(ctx context.Context, natsURL string, opts ...nats.Option) error {
	n, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return logx.Err(ctx, "connect to NATS", err, "url", natsURL)
	}
	c.con = n
	return nil
}

// Close drains the client connection.
func (c *Client) Close() error {
	if c.con == nil {
		return nil
	}
	if err := c.con.Drain(); err != nil {
		return fmt.Errorf("drain NATS connection: %w", err)
	}
	return nil
}

// Extract asks the server to extract the headers of iflows and append them to its report.
func (c *Client) Extract(ctx context.Context, iflows ...string) (*model.ExtractResponse, error) {
	req := &model.ExtractRequest{Iflows: iflows}
	res := &model.ExtractResponse{}
	if err := c.call(ctx, messages.APIExtract, req, res); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return res, nil
}

func (c *Client) call(ctx context.Context, subject string, command any, ret any) error {
	if c.con == nil {
		return fmt.Errorf("call %s: not connected", subject)
	}
	ctx, span := c.tr.Start(ctx, subject, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	b, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", subject, err)
	}
	msg := nats.NewMsg(subject)
	msg.Data = b
	telemetry.CtxToNatsMsg(ctx, msg)
	if c.token != "" {
		msg.Header.Set(messages.AuthHeader, "Bearer "+c.token)
	}
	msg.Header.Set(messages.CorrelationHeader, ksuid.New().String())

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.con.RequestMsgWithContext(ctx, msg)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			err = errors2.ErrServerOffline
		}
		return fmt.Errorf("API call: %w", err)
	}
	if code := res.Header.Get(messages.APIErrorHeader); code != "" {
		return apiError(res)
	}
	if err := json.Unmarshal(res.Data, ret); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", subject, err)
	}
	return nil
}

func apiError(res *nats.Msg) error {
	e := &model.APIError{}
	if err := json.Unmarshal(res.Data, e); err != nil {
		return &errors2.APIError{Code: codes.Unknown, Message: string(res.Data)}
	}
	ae := &errors2.APIError{Code: codes.Code(e.Code), Message: e.Error} //nolint:gosec
	if ae.Message == "" {
		ae.Message = strconv.Itoa(e.Code)
	}
	return ae
}
