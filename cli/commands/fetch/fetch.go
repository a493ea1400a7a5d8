package fetch

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/shar-workflow/iflowscan/cli/commands/common"
	"gitlab.com/shar-workflow/iflowscan/cli/flag"
	"gitlab.com/shar-workflow/iflowscan/client/cpi"
	"gitlab.com/shar-workflow/iflowscan/internal/batch"
	"gitlab.com/shar-workflow/iflowscan/server/config"
)

// Cmd is the cobra command object
var Cmd = &cobra.Command{
	Use:   "fetch <iflowId>...",
	Short: "Downloads integration flows from the tenant and extracts their headers",
	Long: `Downloads design time artifacts using the CPI_* environment settings.
The iFlows are taken from the arguments, or from a TOML manifest:

	version = "active"
	output = "output/headers.xlsx"
	iflows = ["Orders_Inbound", "Invoices_Outbound"]`,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetEnvironment()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := cfg.ValidateRemote(); err != nil {
		return fmt.Errorf("remote settings: %w", err)
	}
	ids := args
	ver := cfg.ArtifactVersion
	out := cfg.OutputFile
	if flag.Value.Manifest != "" {
		m, err := batch.LoadManifest(flag.Value.Manifest)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		ids = append(ids, m.Iflows...)
		if m.Version != "" {
			ver = m.Version
		}
		if m.Output != "" {
			out = m.Output
		}
	}
	if flag.Value.ArtifactVersion != "" {
		ver = flag.Value.ArtifactVersion
	}
	if flag.Value.Xlsx != "" {
		out = flag.Value.Xlsx
	}

	ctx := cmd.Context()
	c, err := cpi.New(ctx, cpi.Credentials{
		BaseURL:      cfg.APIBaseURL,
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}, cpi.WithVersion(ver))
	if err != nil {
		return fmt.Errorf("create cpi client: %w", err)
	}
	return common.RunBatch(ctx, c, ids, out)
}

func init() {
	Cmd.Flags().StringVarP(&flag.Value.Manifest, flag.Manifest, flag.ManifestShort, "", "reads the iFlows to fetch from a TOML manifest")
	Cmd.Flags().StringVar(&flag.Value.ArtifactVersion, flag.ArtifactVersion, "", "the design time artifact version, 'active' or a semantic version")
	Cmd.Flags().StringVar(&flag.Value.Xlsx, flag.Xlsx, "", "the excel workbook to append to, defaults to IFLOWSCAN_OUTPUT_FILE")
}
