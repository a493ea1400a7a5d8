package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"
	"gitlab.com/shar-workflow/iflowscan/common/ctxkey"
	"gitlab.com/shar-workflow/iflowscan/common/logx"
	"gitlab.com/shar-workflow/iflowscan/common/telemetry"
	"gitlab.com/shar-workflow/iflowscan/internal/report"
	"gitlab.com/shar-workflow/iflowscan/model"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
	"gitlab.com/shar-workflow/iflowscan/server/messages"
	"gitlab.com/shar-workflow/iflowscan/server/server/option"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
)

// BatchRunner extracts a batch of artifacts.
type BatchRunner interface {
	Run(ctx context.Context, ids []string) *model.BatchResult
}

// ReportWriter appends extraction results to a report file.
type ReportWriter func(path string, results []*model.ArtifactResult) (int, error)

// Endpoints provides API endpoints for iflowscan
type Endpoints struct {
	runner        BatchRunner
	outputFile    string
	writeReport   ReportWriter
	reportMx      sync.Mutex
	panicRecovery bool
	auth          *Auth
	metrics       *Metrics
	gatherer      prometheus.Gatherer
	subs          *sync.Map
	shutdownOnce  sync.Once
	tr            trace.Tracer
}

// New creates a new instance of the iflowscan API
func New(runner BatchRunner, options *option.ServerOptions, reg *prometheus.Registry) (*Endpoints, error) {
	m, err := NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register api metrics: %w", err)
	}
	return &Endpoints{
		runner:        runner,
		outputFile:    options.OutputFile,
		writeReport:   report.WriteWorkbook,
		panicRecovery: options.PanicRecovery,
		auth:          NewAuth(options.APISecret),
		metrics:       m,
		gatherer:      reg,
		subs:          &sync.Map{},
		tr:            telemetry.Tracer(nil),
	}, nil
}

// WithReportWriter replaces the workbook writer.
func (s *Endpoints) WithReportWriter(w ReportWriter) *Endpoints {
	s.writeReport = w
	return s
}

// Shutdown drains the API subscriptions
func (s *Endpoints) Shutdown() {
	slog.Info("stopping iflowscan api listener")
	s.shutdownOnce.Do(func() {
		s.subs.Range(func(key, _ any) bool {
			sub := key.(*nats.Subscription)
			if err := sub.Drain(); err != nil {
				slog.Error("drain subscription for "+sub.Subject, "error", err)
				return false
			}
			return true
		})
		slog.Info("iflowscan api listener stopped")
	})
}

// Listen starts serving the API over NATS request/reply
func (s *Endpoints) Listen(nc *nats.Conn) error {
	if err := listen(nc, s, messages.APIExtract, s.extract); err != nil {
		return fmt.Errorf("APIExtract: %w", err)
	}
	slog.Info("iflowscan api listener started")
	return nil
}

// extract runs a batch and appends its successes to the report workbook.
func (s *Endpoints) extract(ctx context.Context, req *model.ExtractRequest) (*model.ExtractResponse, error) {
	ids := make([]string, 0, len(req.Iflows))
	for _, i := range req.Iflows {
		if i = strings.TrimSpace(i); i != "" {
			ids = append(ids, i)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("extract: %w", errors2.ErrNoIflows)
	}
	logx.FromContext(ctx).Info("extract requested", "iflows", len(ids), "user", User(ctx))

	res := s.runner.Run(ctx, ids)
	s.metrics.batch(res)

	ret := &model.ExtractResponse{
		Status:  "completed",
		RunID:   res.RunID,
		Summary: res.Summary(),
		Failed:  res.Failed,
	}
	if len(res.Succeeded) > 0 && s.outputFile != "" {
		s.reportMx.Lock()
		_, err := s.writeReport(s.outputFile, res.Succeeded)
		s.reportMx.Unlock()
		if err != nil {
			return nil, fmt.Errorf("extract: write report: %w", err)
		}
		ret.File = s.outputFile
	}
	return ret, nil
}

func listen[T any, U any](con *nats.Conn, s *Endpoints, subject string, fn func(ctx context.Context, req *T) (*U, error)) error {
	sub, err := con.QueueSubscribe(subject, messages.APIQueueGroup, func(msg *nats.Msg) {
		cid := msg.Header.Get(messages.CorrelationHeader)
		if cid == "" {
			cid = ksuid.New().String()
		}
		ctx, _ := logx.LoggingEntrypoint(context.Background(), "server", cid)
		ctx = telemetry.NatsMsgToCtx(ctx, msg)
		ctx = telemetry.WithCallerTrace(ctx, msg.Header.Get(telemetry.TraceparentHeader))
		ctx, span := s.tr.Start(ctx, subject, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		if err := callAPI(ctx, s, msg, fn); err != nil {
			s.metrics.request("nats", "error")
			logx.FromContext(ctx).Error("API call for "+subject+" failed", "error", err)
			return
		}
		s.metrics.request("nats", "ok")
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	s.subs.Store(sub, struct{}{})
	return nil
}

func callAPI[T any, U any](ctx context.Context, s *Endpoints, msg *nats.Msg, fn func(ctx context.Context, req *T) (*U, error)) (reterr error) {
	if s.panicRecovery {
		defer func() {
			if r := recover(); r != nil {
				recoverAPIpanic(msg, r)
				reterr = fmt.Errorf("recovered from panic: %v", r)
			}
		}()
	}
	ctx, err := s.auth.authenticate(ctx, msg.Header.Get(messages.AuthHeader))
	if err != nil {
		errorResponse(msg, codes.Unauthenticated, err.Error())
		return err
	}
	ctx = context.WithValue(ctx, ctxkey.APIFunc, msg.Subject)
	container := new(T)
	if err := json.Unmarshal(msg.Data, container); err != nil {
		errorResponse(msg, codes.InvalidArgument, err.Error())
		return fmt.Errorf("unmarshal message data during callAPI: %w", err)
	}
	resMsg, err := fn(ctx, container)
	if err != nil {
		errorResponse(msg, errorCode(err), err.Error())
		return fmt.Errorf("API call: %w", err)
	}
	res, err := json.Marshal(resMsg)
	if err != nil {
		errorResponse(msg, codes.Internal, err.Error())
		return fmt.Errorf("marshal API response: %w", err)
	}
	if err := msg.Respond(res); err != nil {
		return fmt.Errorf("API response: %w", err)
	}
	return nil
}

func errorCode(err error) codes.Code {
	switch {
	case errors.Is(err, errors2.ErrNoIflows):
		return codes.InvalidArgument
	case errors.Is(err, errors2.ErrApiAuthNFail):
		return codes.Unauthenticated
	default:
		return codes.Internal
	}
}

func recoverAPIpanic(msg *nats.Msg, r any) {
	buf := make([]byte, 16384)
	n := runtime.Stack(buf, false)
	stack := buf[:n]
	slog.Error("recovered from API panic", "panic", r, "stack", string(bytes.TrimSpace(stack)))
	errorResponse(msg, codes.Internal, r)
}

func errorResponse(m *nats.Msg, code codes.Code, msg any) {
	resp := nats.NewMsg(m.Reply)
	resp.Header.Set(messages.APIErrorHeader, code.String())
	resp.Data = apiError(code, msg)
	if err := m.RespondMsg(resp); err != nil {
		slog.Error("send error response: "+string(resp.Data), "error", err)
	}
}

func apiError(code codes.Code, msg any) []byte {
	b, err := json.Marshal(model.APIError{Code: int(code), Error: fmt.Sprintf("%+v", msg)})
	if err != nil {
		return []byte(fmt.Sprintf(`{"code":%d}`, code))
	}
	return b
}
