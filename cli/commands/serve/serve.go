package serve

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/shar-workflow/iflowscan/cli/commands/serve/all"
	"gitlab.com/shar-workflow/iflowscan/cli/flag"
	"gitlab.com/shar-workflow/iflowscan/server/commands"
	"gitlab.com/shar-workflow/iflowscan/server/config"
	"gitlab.com/shar-workflow/iflowscan/server/server"
	"gitlab.com/shar-workflow/iflowscan/server/server/option"
)

// Cmd is the cobra command object
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts an iflowscan server serving the HTTP, NATS and gRPC health endpoints",
	Long:  ``,
	RunE:  run,
	Args:  cobra.NoArgs,
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetEnvironment()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	opts, err := Options(cmd, cfg)
	if err != nil {
		return err
	}
	svr := server.New(append(opts, option.WithShowSplash())...)
	if err := svr.Listen(cmd.Context()); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Options builds the server options from settings and the serve flags.
func Options(cmd *cobra.Command, cfg *config.Settings) ([]option.Option, error) {
	opts, err := commands.Options(cmd.Context(), cfg, flag.Value.Dir)
	if err != nil {
		return nil, fmt.Errorf("server options: %w", err)
	}
	if cmd.Flags().Changed(flag.Concurrency) {
		opts = append(opts, option.Concurrency(flag.Value.Concurrency))
	}
	return opts, nil
}

func init() {
	Cmd.AddCommand(all.Cmd)
	Cmd.PersistentFlags().StringVar(&flag.Value.Dir, flag.Dir, ".", "the directory zip artifacts are read from when the tenant is not configured")
}
