package inspect

import (
	"bytes"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gitlab.com/shar-workflow/iflowscan/cli/output"
	"gitlab.com/shar-workflow/iflowscan/client/parser"
	"gitlab.com/shar-workflow/iflowscan/common/valueparsing"
	"gitlab.com/shar-workflow/iflowscan/internal/artifact"
)

// Cmd is the cobra command object
var Cmd = &cobra.Command{
	Use:   "inspect <zip>",
	Short: "Dumps the parsed document and parameters of an integration flow archive",
	Long:  ``,
	RunE:  run,
	Args:  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func run(cmd *cobra.Command, args []string) error {
	if err := cmd.ValidateArgs(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	a, err := artifact.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	defs, err := parser.Parse(cmd.Context(), a.FlowFile, bytes.NewReader(a.Flow))
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	dumper.Fdump(output.Stream, defs)
	params := valueparsing.ParseProperties(a.Parameters)
	if _, err := fmt.Fprintf(output.Stream, "%d parameters\n", params.Len()); err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	for _, k := range params.Keys() {
		v, _ := params.Lookup(k)
		if _, err := fmt.Fprintf(output.Stream, "  %s = %q\n", k, v); err != nil {
			return fmt.Errorf("inspect: %w", err)
		}
	}
	return nil
}
