package token

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/shar-workflow/iflowscan/cli/flag"
	"gitlab.com/shar-workflow/iflowscan/cli/output"
	"gitlab.com/shar-workflow/iflowscan/server/api"
	"gitlab.com/shar-workflow/iflowscan/server/config"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

// Cmd is the cobra command object
var Cmd = &cobra.Command{
	Use:   "token",
	Short: "Issues a bearer token for the iflowscan API signed with IFLOWSCAN_API_SECRET",
	Long:  ``,
	RunE:  run,
	Args:  cobra.NoArgs,
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetEnvironment()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if cfg.APISecret == "" {
		return fmt.Errorf("IFLOWSCAN_API_SECRET: %w", errors2.ErrMissingSetting)
	}
	tok, err := api.IssueToken(cfg.APISecret, flag.Value.Subject, flag.Value.TTL)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	if _, err := fmt.Fprintln(output.Stream, tok); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func init() {
	Cmd.Flags().StringVar(&flag.Value.Subject, flag.Subject, "iflowscan-cli", "the caller named by the token")
	Cmd.Flags().DurationVar(&flag.Value.TTL, flag.TTL, 24*time.Hour, "how long the token is valid for")
}
