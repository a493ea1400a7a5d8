package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	iflowsvr "gitlab.com/shar-workflow/iflowscan/server/server"
	"gitlab.com/shar-workflow/iflowscan/server/server/option"
)

// Server is a locally hosted server whose lifecycle the caller controls.
type Server interface {
	Shutdown()
}

// NatsServer is a wrapper around the nats lib server so that its lifecycle can be controlled
// alongside an in process iflowscan server.
type NatsServer struct {
	nsvr *server.Server
}

// Listen starts an in process nats server.  A port of -1 picks a free port.
func (n *NatsServer) Listen(natsHost string, natsPort int) error {
	nsvr, err := server.NewServer(&server.Options{
		Host:   natsHost,
		Port:   natsPort,
		NoSigs: true,
	})
	if err != nil {
		return fmt.Errorf("create a new nats server instance: %w", err)
	}
	go nsvr.Start()
	if !nsvr.ReadyForConnections(5 * time.Second) {
		nsvr.Shutdown()
		return fmt.Errorf("start nats server on %s:%d: not ready", natsHost, natsPort)
	}
	slog.Info("NATS started", "url", nsvr.ClientURL())
	n.nsvr = nsvr
	return nil
}

// ClientURL is the URL clients use to connect to the nats server.
func (n *NatsServer) ClientURL() string {
	return n.nsvr.ClientURL()
}

// Shutdown stops an in process nats server.
func (n *NatsServer) Shutdown() {
	n.nsvr.Shutdown()
	n.nsvr.WaitForShutdown()
}

// IflowscanServer is an iflowscan server running in this process.
type IflowscanServer struct {
	*iflowsvr.Server
	cancel context.CancelFunc
	done   chan error
}

// Shutdown stops the server and waits for its listeners to close.
func (s *IflowscanServer) Shutdown() {
	s.cancel()
	if err := <-s.done; err != nil {
		slog.Error("iflowscan server stopped", "error", err)
	}
}

// GetServers starts a nats server and an iflowscan server connected to it.
// The iflowscan server is configured by opts, with its NATS URL pointing at the new nats server.
func GetServers(natsHost string, natsPort int, opts ...option.Option) (*IflowscanServer, *NatsServer, error) {
	nsvr := &NatsServer{}
	if err := nsvr.Listen(natsHost, natsPort); err != nil {
		return nil, nil, err
	}
	ssvr, err := inProcessServer(nsvr.ClientURL(), opts...)
	if err != nil {
		nsvr.Shutdown()
		return nil, nil, err
	}
	slog.Info("Setup completed")
	return ssvr, nsvr, nil
}

func inProcessServer(natsURL string, opts ...option.Option) (*IflowscanServer, error) {
	opts = append(opts, option.NatsUrl(natsURL))
	ctx, cancel := context.WithCancel(context.Background())
	ssvr := &IflowscanServer{
		Server: iflowsvr.New(opts...),
		cancel: cancel,
		done:   make(chan error, 1),
	}
	go func() {
		ssvr.done <- ssvr.Listen(ctx)
	}()
	deadline := time.After(10 * time.Second)
	for !ssvr.Ready() {
		select {
		case err := <-ssvr.done:
			cancel()
			return nil, fmt.Errorf("start iflowscan server: %w", err)
		case <-deadline:
			ssvr.Shutdown()
			return nil, fmt.Errorf("start iflowscan server: not ready")
		case <-time.After(100 * time.Millisecond):
			slog.Info("waiting for iflowscan")
		}
	}
	return ssvr, nil
}
