package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/shar-workflow/iflowscan/model"
	"gitlab.com/shar-workflow/iflowscan/server/messages"
	"gitlab.com/shar-workflow/iflowscan/server/server/option"
	"google.golang.org/grpc/codes"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, ids []string) *model.BatchResult {
	args := m.Called(ctx, ids)
	return args.Get(0).(*model.BatchResult)
}

type reportSpy struct {
	mx    sync.Mutex
	paths []string
	rows  int
	err   error
}

func (r *reportSpy) write(path string, results []*model.ArtifactResult) (int, error) {
	r.mx.Lock()
	defer r.mx.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.paths = append(r.paths, path)
	for _, a := range results {
		r.rows += len(a.Records)
	}
	return r.rows, nil
}

func batchResult() *model.BatchResult {
	return &model.BatchResult{
		RunID: "run-1",
		Succeeded: []*model.ArtifactResult{{
			IflowName:      "Orders",
			DecodeFailures: 1,
			Records: []model.ResolvedHeaderRecord{
				{CallActivityID: "CA1", HeaderName: "Host", ResolvedFrom: model.ResolvedFromMap},
				{CallActivityID: "CA1", HeaderName: "Flag", ResolvedFrom: model.ResolvedFromDirect},
			},
		}},
		Failed: []model.ArtifactFailure{{Iflow: "WRONG_NAME", Error: "HTTP 404 - artifact not found"}},
	}
}

func newEndpoints(t *testing.T, secret string) (*Endpoints, *mockRunner, *reportSpy) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	runner := &mockRunner{}
	spy := &reportSpy{}
	e, err := New(runner, &option.ServerOptions{
		PanicRecovery: true,
		OutputFile:    "output/CPI_Headers_Extract.xlsx",
		APISecret:     secret,
	}, prometheus.NewRegistry())
	require.NoError(t, err)
	e.WithReportWriter(spy.write)
	return e, runner, spy
}

func doJSON(t *testing.T, h http.Handler, method string, path string, body string, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	e, _, _ := newEndpoints(t, "")
	w := doJSON(t, e.Router(), http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHTTPExtract(t *testing.T) {
	e, runner, spy := newEndpoints(t, "")
	runner.On("Run", mock.Anything, []string{"Orders", "WRONG_NAME"}).Return(batchResult())

	w := doJSON(t, e.Router(), http.MethodPost, "/extract", `{"iflows":["Orders"," ","WRONG_NAME"]}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := &model.ExtractResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), res))
	assert.Equal(t, "completed", res.Status)
	assert.Equal(t, "output/CPI_Headers_Extract.xlsx", res.File)
	assert.Equal(t, model.BatchSummary{Total: 2, Processed: 1, Failed: 1}, res.Summary)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "WRONG_NAME", res.Failed[0].Iflow)
	assert.Equal(t, []string{"output/CPI_Headers_Extract.xlsx"}, spy.paths)
	runner.AssertExpectations(t)

	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.requests.WithLabelValues("http", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.artifacts.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.headers.WithLabelValues("fromMap")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.decodeFailures))

	m := doJSON(t, e.Router(), http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "iflowscan_artifacts_total")
}

func TestHTTPExtractAllFailedSkipsReport(t *testing.T) {
	e, runner, spy := newEndpoints(t, "")
	runner.On("Run", mock.Anything, []string{"Bad"}).Return(&model.BatchResult{RunID: "r", Failed: []model.ArtifactFailure{{Iflow: "Bad", Error: "boom"}}})
	w := doJSON(t, e.Router(), http.MethodPost, "/extract", `{"iflows":["Bad"]}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := &model.ExtractResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), res))
	assert.Empty(t, res.File)
	assert.Empty(t, spy.paths)
}

func TestHTTPExtractEmpty(t *testing.T) {
	e, runner, _ := newEndpoints(t, "")
	for _, body := range []string{`{"iflows":[]}`, `{}`, `{"iflows":["  "]}`, `not json`} {
		w := doJSON(t, e.Router(), http.MethodPost, "/extract", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestHTTPExtractReportFailure(t *testing.T) {
	e, runner, spy := newEndpoints(t, "")
	spy.err = errors.New("disk full")
	runner.On("Run", mock.Anything, []string{"Orders"}).Return(batchResult())
	w := doJSON(t, e.Router(), http.MethodPost, "/extract", `{"iflows":["Orders"]}`, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "disk full")
}

func TestHTTPExtractAuth(t *testing.T) {
	e, runner, _ := newEndpoints(t, "s3cret")
	runner.On("Run", mock.Anything, []string{"Orders"}).Return(batchResult())

	w := doJSON(t, e.Router(), http.MethodPost, "/extract", `{"iflows":["Orders"]}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	bad, err := IssueToken("other", "mallory", time.Minute)
	require.NoError(t, err)
	w = doJSON(t, e.Router(), http.MethodPost, "/extract", `{"iflows":["Orders"]}`, bad)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := IssueToken("s3cret", "alice", -time.Minute)
	require.NoError(t, err)
	w = doJSON(t, e.Router(), http.MethodPost, "/extract", `{"iflows":["Orders"]}`, expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	good, err := IssueToken("s3cret", "alice", time.Minute)
	require.NoError(t, err)
	w = doJSON(t, e.Router(), http.MethodPost, "/extract", `{"iflows":["Orders"]}`, good)
	assert.Equal(t, http.StatusOK, w.Code)
	runner.AssertNumberOfCalls(t, "Run", 1)
	ctx := runner.Calls[0].Arguments.Get(0).(context.Context)
	assert.Equal(t, "alice", User(ctx))

	h := doJSON(t, e.Router(), http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, h.Code, "health is public")
}

func startNats(t *testing.T) *nats.Conn {
	t.Helper()
	srv, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1})
	require.NoError(t, err)
	go srv.Start()
	require.True(t, srv.ReadyForConnections(5*time.Second))
	t.Cleanup(srv.Shutdown)
	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

func natsRequest(t *testing.T, nc *nats.Conn, body string, token string) *nats.Msg {
	t.Helper()
	msg := nats.NewMsg(messages.APIExtract)
	msg.Data = []byte(body)
	if token != "" {
		msg.Header.Set(messages.AuthHeader, "Bearer "+token)
	}
	res, err := nc.RequestMsg(msg, 5*time.Second)
	require.NoError(t, err)
	return res
}

func TestNatsExtract(t *testing.T) {
	nc := startNats(t)
	e, runner, _ := newEndpoints(t, "s3cret")
	runner.On("Run", mock.Anything, []string{"Orders"}).Return(batchResult())
	require.NoError(t, e.Listen(nc))
	defer e.Shutdown()

	tok, err := IssueToken("s3cret", "svc", time.Minute)
	require.NoError(t, err)
	res := natsRequest(t, nc, `{"iflows":["Orders"]}`, tok)
	assert.Empty(t, res.Header.Get(messages.APIErrorHeader))
	out := &model.ExtractResponse{}
	require.NoError(t, json.Unmarshal(res.Data, out))
	assert.Equal(t, "completed", out.Status)
	assert.Equal(t, 1, out.Summary.Processed)

	unauth := natsRequest(t, nc, `{"iflows":["Orders"]}`, "")
	assert.Equal(t, codes.Unauthenticated.String(), unauth.Header.Get(messages.APIErrorHeader))

	empty := natsRequest(t, nc, `{"iflows":[]}`, tok)
	assert.Equal(t, codes.InvalidArgument.String(), empty.Header.Get(messages.APIErrorHeader))
	apiErr := &model.APIError{}
	require.NoError(t, json.Unmarshal(empty.Data, apiErr))
	assert.Equal(t, int(codes.InvalidArgument), apiErr.Code)

	garbage := natsRequest(t, nc, `{`, tok)
	assert.Equal(t, codes.InvalidArgument.String(), garbage.Header.Get(messages.APIErrorHeader))

	runner.AssertNumberOfCalls(t, "Run", 1)
}

func TestNatsPanicRecovery(t *testing.T) {
	nc := startNats(t)
	e, runner, _ := newEndpoints(t, "")
	runner.On("Run", mock.Anything, []string{"Boom"}).Run(func(mock.Arguments) { panic("kaboom") }).Return(batchResult())
	require.NoError(t, e.Listen(nc))
	defer e.Shutdown()

	res := natsRequest(t, nc, `{"iflows":["Boom"]}`, "")
	assert.Equal(t, codes.Internal.String(), res.Header.Get(messages.APIErrorHeader))
	assert.True(t, bytes.Contains(res.Data, []byte("kaboom")))
}
