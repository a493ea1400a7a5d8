package request

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"gitlab.com/shar-workflow/iflowscan/cli/flag"
	"gitlab.com/shar-workflow/iflowscan/cli/output"
	"gitlab.com/shar-workflow/iflowscan/client"
)

// Cmd is the cobra command object
var Cmd = &cobra.Command{
	Use:   "request <iflowId>...",
	Short: "Asks a running iflowscan server to extract integration flows over NATS",
	Long:  ``,
	RunE:  run,
	Args:  cobra.MinimumNArgs(1),
}

func run(cmd *cobra.Command, args []string) error {
	if err := cmd.ValidateArgs(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	ctx := cmd.Context()
	cl := client.New(client.WithToken(flag.Value.Token))
	if err := cl.Dial(ctx, flag.Value.Server); err != nil {
		return fmt.Errorf("dialling server: %w", err)
	}
	defer cl.Close() //nolint:errcheck
	res, err := cl.Extract(ctx, args...)
	if err != nil {
		return fmt.Errorf("request extract: %w", err)
	}
	output.Current.OutputResponse(res)
	return nil
}

func init() {
	Cmd.Flags().StringVarP(&flag.Value.Server, flag.Server, flag.ServerShort, nats.DefaultURL, "sets the address of a NATS server")
	Cmd.Flags().StringVar(&flag.Value.Token, flag.Token, "", "a bearer token for the iflowscan API, see 'iflowscan token'")
}
