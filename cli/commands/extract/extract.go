package extract

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/shar-workflow/iflowscan/cli/commands/common"
	"gitlab.com/shar-workflow/iflowscan/cli/flag"
	"gitlab.com/shar-workflow/iflowscan/internal/batch"
)

// Cmd is the cobra command object
var Cmd = &cobra.Command{
	Use:   "extract <zip>...",
	Short: "Extracts the headers of exported integration flow archives",
	Long:  ``,
	RunE:  run,
	Args:  cobra.MinimumNArgs(1),
}

func run(cmd *cobra.Command, args []string) error {
	if err := cmd.ValidateArgs(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return common.RunBatch(cmd.Context(), batch.ZipFileSource{AllowPaths: true}, args, flag.Value.Xlsx)
}

func init() {
	Cmd.Flags().StringVar(&flag.Value.Xlsx, flag.Xlsx, "", "appends the extracted headers to an excel workbook")
}
