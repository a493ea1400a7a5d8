package all

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gitlab.com/shar-workflow/iflowscan/cli/flag"
	"gitlab.com/shar-workflow/iflowscan/server/commands"
	"gitlab.com/shar-workflow/iflowscan/server/config"
	"gitlab.com/shar-workflow/iflowscan/server/server/option"
	"gitlab.com/shar-workflow/iflowscan/zen/server"
)

var sig = make(chan os.Signal, 1)

// Cmd is the cobra command object
var Cmd = &cobra.Command{
	Use:   "all",
	Short: "Starts an iflowscan server together with an in process NATS server",
	Long:  ``,
	RunE:  run,
	Args:  cobra.NoArgs,
}

func run(cmd *cobra.Command, args []string) error {
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sig)

	cfg, err := config.GetEnvironment()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	opts, err := commands.Options(cmd.Context(), cfg, flag.Value.Dir)
	if err != nil {
		return fmt.Errorf("server options: %w", err)
	}
	opts = append(opts, option.WithShowSplash())

	ssvr, nsvr, err := server.GetServers(flag.Value.NatsHost, flag.Value.NatsPort, opts...)
	if err != nil {
		return fmt.Errorf("start servers: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "NATS listening on", nsvr.ClientURL())

	select {
	case <-sig:
	case <-cmd.Context().Done():
	}
	ssvr.Shutdown()
	nsvr.Shutdown()
	return nil
}

func init() {
	Cmd.Flags().StringVar(&flag.Value.NatsHost, flag.NatsHost, "127.0.0.1", "sets the host the NATS server listens on")
	Cmd.Flags().IntVar(&flag.Value.NatsPort, flag.NatsPort, 4222, "sets the port the NATS server listens on")
}
