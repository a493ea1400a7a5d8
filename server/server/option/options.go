package option

import (
	"log/slog"

	"github.com/nats-io/nats.go"
	"gitlab.com/shar-workflow/iflowscan/internal/batch"
)

// ServerOptions contains settings that control various aspects of iflowscan server operation and behaviour
type ServerOptions struct {
	PanicRecovery        bool
	Concurrency          int
	HealthServiceEnabled bool
	HTTPPort             int
	GrpcPort             int
	NatsUrl              string
	NatsConnOptions      []nats.Option
	APISecret            string
	OutputFile           string
	Source               batch.Source
	JaegerURL            string
	ShowSplash           bool
}

// Option represents an iflowscan server option
type Option interface {
	Configure(serverOptions *ServerOptions)
}

// PanicRecovery enables or disables recovery from panics in API handlers.
// This is on by default, and disabling it is not recommended for production use.
func PanicRecovery(enabled bool) panicOption { //nolint
	return panicOption{value: enabled}
}

type panicOption struct{ value bool }

func (o panicOption) Configure(serverOptions *ServerOptions) {
	serverOptions.PanicRecovery = o.value
}

// Concurrency specifies the number of artifacts extracted at once.
func Concurrency(n int) concurrencyOption { //nolint
	return concurrencyOption{value: n}
}

type concurrencyOption struct{ value int }

func (o concurrencyOption) Configure(serverOptions *ServerOptions) {
	serverOptions.Concurrency = o.value
}

// WithAPISecret requires API callers to present a bearer token signed with secret.
func WithAPISecret(secret string) apiSecretOption { //nolint
	return apiSecretOption{value: secret}
}

type apiSecretOption struct{ value string }

func (o apiSecretOption) Configure(serverOptions *ServerOptions) {
	if o.value != "" {
		slog.Warn("AuthN set")
	}
	serverOptions.APISecret = o.value
}

// WithNoHealthServer disables the gRPC health endpoint.
func WithNoHealthServer() noHealthServerOption { //nolint
	return noHealthServerOption{}
}

type noHealthServerOption struct{}

func (o noHealthServerOption) Configure(serverOptions *ServerOptions) {
	serverOptions.HealthServiceEnabled = false
}

// NatsUrl specifies the nats URL to connect to.  An empty URL disables the NATS API.
func NatsUrl(url string) natsUrlOption { //nolint
	return natsUrlOption{value: url}
}

type natsUrlOption struct{ value string }

func (o natsUrlOption) Configure(serverOptions *ServerOptions) {
	serverOptions.NatsUrl = o.value
}

// WithNatsConnOptions passes options to the NATS connection.
func WithNatsConnOptions(opts ...nats.Option) natsConnOption { //nolint
	return natsConnOption{value: opts}
}

type natsConnOption struct{ value []nats.Option }

func (o natsConnOption) Configure(serverOptions *ServerOptions) {
	serverOptions.NatsConnOptions = append(serverOptions.NatsConnOptions, o.value...)
}

// GrpcPort specifies the port healthcheck is listening on
func GrpcPort(port int) grpcPortOption { //nolint
	return grpcPortOption{value: port}
}

type grpcPortOption struct{ value int }

func (o grpcPortOption) Configure(serverOptions *ServerOptions) {
	serverOptions.GrpcPort = o.value
}

// HTTPPort specifies the port the HTTP API is listening on
func HTTPPort(port int) httpPortOption { //nolint
	return httpPortOption{value: port}
}

type httpPortOption struct{ value int }

func (o httpPortOption) Configure(serverOptions *ServerOptions) {
	serverOptions.HTTPPort = o.value
}

// OutputFile sets the workbook that extract requests append to.
func OutputFile(path string) outputFileOption { //nolint
	return outputFileOption{value: path}
}

type outputFileOption struct{ value string }

func (o outputFileOption) Configure(serverOptions *ServerOptions) {
	serverOptions.OutputFile = o.value
}

// WithSource sets where extract requests fetch artifacts from.
func WithSource(src batch.Source) sourceOption { //nolint
	return sourceOption{value: src}
}

type sourceOption struct{ value batch.Source }

func (o sourceOption) Configure(serverOptions *ServerOptions) {
	serverOptions.Source = o.value
}

// WithTelemetryEndpoint exports traces to a jaeger collector.
func WithTelemetryEndpoint(endpoint string) telemetryEndpointOption { //nolint
	return telemetryEndpointOption{endpoint: endpoint}
}

type telemetryEndpointOption struct {
	endpoint string
}

func (o telemetryEndpointOption) Configure(serverOptions *ServerOptions) {
	serverOptions.JaegerURL = o.endpoint
}

// WithShowSplash specifies whether to print the server configuration on startup.
func WithShowSplash() showSplashOption {
	return showSplashOption{showSplash: true}
}

type showSplashOption struct {
	showSplash bool
}

func (o showSplashOption) Configure(serverOptions *ServerOptions) {
	serverOptions.ShowSplash = o.showSplash
}
