package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/pterm/pterm"
	"gitlab.com/shar-workflow/iflowscan/common/telemetry"
	version2 "gitlab.com/shar-workflow/iflowscan/common/version"
	"gitlab.com/shar-workflow/iflowscan/internal/batch"
	"gitlab.com/shar-workflow/iflowscan/server/api"
	"gitlab.com/shar-workflow/iflowscan/server/server/option"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpcHealth "google.golang.org/grpc/health/grpc_health_v1"
)

// Server hosts the iflowscan API over HTTP and, when configured, NATS.
type Server struct {
	sig               chan os.Signal
	options           *option.ServerOptions
	healthService     *health.Server
	grpcServer        *gogrpc.Server
	httpServer        *http.Server
	api               *api.Endpoints
	conn              *nats.Conn
	registry          *prometheus.Registry
	shutdownTelemetry telemetry.ShutdownFn
	Version           *version.Version
	addrMx            sync.RWMutex
	httpAddr          net.Addr
	grpcAddr          net.Addr
	shutdownOnce      sync.Once
}

// New creates a new iflowscan server.
func New(options ...option.Option) *Server {
	opts := &option.ServerOptions{
		PanicRecovery:        true,
		HealthServiceEnabled: true,
		Concurrency:          4,
		HTTPPort:             3000,
		GrpcPort:             50001,
	}
	for _, i := range options {
		i.Configure(opts)
	}
	if opts.Source == nil {
		slog.Warn("No artifact source set, reading zip files from the working directory")
		opts.Source = batch.ZipFileSource{Dir: "."}
	}
	s := &Server{
		sig:           make(chan os.Signal, 10),
		options:       opts,
		healthService: health.NewServer(),
		Version:       version2.Build(),
	}
	s.healthService.SetServingStatus("", grpcHealth.HealthCheckResponse_NOT_SERVING)
	if s.options.ShowSplash {
		s.Details()
	}
	return s
}

// The following variables are set by -ldflags at build time.
var (
	CommitHash string
	BuildDate  string
)

// Details prints the configuration of the server to stdout.
func (s *Server) Details() {
	data := pterm.TableData{
		{"IFLOWSCAN SERVER CONFIGURATION", "VALUE"},
		{"Version", version2.Version},
		{"Build Time", BuildDate},
		{"Commit SHA", CommitHash},
		{"Nats URL", s.options.NatsUrl},
		{"Nats Client Version", nats.Version},
		{"HTTP Port", strconv.Itoa(s.options.HTTPPort)},
		{"Grpc Port", strconv.Itoa(s.options.GrpcPort)},
		{"Health Service", strconv.FormatBool(s.options.HealthServiceEnabled)},
		{"Concurrency", strconv.Itoa(s.options.Concurrency)},
		{"Panic Recovery", strconv.FormatBool(s.options.PanicRecovery)},
		{"Authentication", strconv.FormatBool(s.options.APISecret != "")},
		{"Output File", s.options.OutputFile},
		{"Telemetry Endpoint", s.options.JaegerURL},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render(); err != nil {
		slog.Error("render server details", "error", err)
	}
}

// Listen serves the API until ctx is cancelled, a termination signal arrives, or a listener fails.
func (s *Server) Listen(ctx context.Context) error {
	shutdownTelemetry, err := telemetry.SetUp(ctx, s.options.JaegerURL, "iflowscan")
	if err != nil {
		return fmt.Errorf("set up telemetry: %w", err)
	}
	s.shutdownTelemetry = shutdownTelemetry

	errs := make(chan error, 2)
	signal.Notify(s.sig, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(s.sig)

	if s.options.HealthServiceEnabled {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.options.GrpcPort))
		if err != nil {
			return fmt.Errorf("listen on grpc port %d: %w", s.options.GrpcPort, err)
		}
		s.setAddr(&s.grpcAddr, lis.Addr())
		s.grpcServer = gogrpc.NewServer()
		grpcHealth.RegisterHealthServer(s.grpcServer, s.healthService)
		go func() {
			if err := s.grpcServer.Serve(lis); err != nil {
				errs <- fmt.Errorf("grpc health: %w", err)
			}
		}()
		slog.Info("iflowscan grpc health started", "addr", lis.Addr().String())
	}

	s.registry = prometheus.NewRegistry()
	s.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	runner := batch.NewRunner(s.options.Source, batch.WithConcurrency(s.options.Concurrency))
	a, err := api.New(runner, s.options, s.registry)
	if err != nil {
		return fmt.Errorf("create api: %w", err)
	}
	s.api = a

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.options.HTTPPort))
	if err != nil {
		return fmt.Errorf("listen on http port %d: %w", s.options.HTTPPort, err)
	}
	s.setAddr(&s.httpAddr, lis.Addr())
	s.httpServer = &http.Server{
		Handler:           s.api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("http api: %w", err)
		}
	}()
	slog.Info("iflowscan http api started", "addr", lis.Addr().String())

	if s.options.NatsUrl != "" {
		nc, err := nats.Connect(s.options.NatsUrl, s.options.NatsConnOptions...)
		if err != nil {
			s.Shutdown()
			return fmt.Errorf("connect to NATS: %w", err)
		}
		s.conn = nc
		if err := s.api.Listen(nc); err != nil {
			s.Shutdown()
			return fmt.Errorf("listen on NATS: %w", err)
		}
	}
	s.healthService.SetServingStatus("", grpcHealth.HealthCheckResponse_SERVING)

	select {
	case err := <-errs:
		slog.Error("fatal error", "error", err)
		s.Shutdown()
		return err
	case <-s.sig:
	case <-ctx.Done():
	}
	s.Shutdown()
	return nil
}

// Shutdown stops the listeners and flushes telemetry.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.healthService.Shutdown()
		if s.api != nil {
			s.api.Shutdown()
		}
		if s.conn != nil {
			if err := s.conn.Drain(); err != nil {
				slog.Error("drain NATS connection", "error", err)
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(ctx); err != nil {
				slog.Error("stop http api", "error", err)
			}
			slog.Info("iflowscan http api stopped")
		}
		if s.grpcServer != nil {
			s.grpcServer.GracefulStop()
			slog.Info("iflowscan grpc health stopped")
		}
		if s.shutdownTelemetry != nil {
			if err := s.shutdownTelemetry(ctx); err != nil {
				slog.Error("flush telemetry", "error", err)
			}
		}
	})
}

// Ready returns true if the server is servicing API calls.
func (s *Server) Ready() bool {
	res, err := s.healthService.Check(context.Background(), &grpcHealth.HealthCheckRequest{})
	if err != nil {
		return false
	}
	return res.Status == grpcHealth.HealthCheckResponse_SERVING
}

// HTTPAddr returns the address the HTTP API is listening on, or an empty string before Listen.
func (s *Server) HTTPAddr() string {
	return s.addr(&s.httpAddr)
}

// GetEndPoint returns the address of the gRPC health endpoint, or an empty string if it is not running.
func (s *Server) GetEndPoint() string {
	return s.addr(&s.grpcAddr)
}

func (s *Server) setAddr(dst *net.Addr, a net.Addr) {
	s.addrMx.Lock()
	defer s.addrMx.Unlock()
	*dst = a
}

func (s *Server) addr(src *net.Addr) string {
	s.addrMx.RLock()
	defer s.addrMx.RUnlock()
	if *src == nil {
		return ""
	}
	return (*src).String()
}
