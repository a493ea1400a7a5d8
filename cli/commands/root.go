package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/shar-workflow/iflowscan/cli/commands/extract"
	"gitlab.com/shar-workflow/iflowscan/cli/commands/fetch"
	"gitlab.com/shar-workflow/iflowscan/cli/commands/inspect"
	"gitlab.com/shar-workflow/iflowscan/cli/commands/request"
	"gitlab.com/shar-workflow/iflowscan/cli/commands/serve"
	"gitlab.com/shar-workflow/iflowscan/cli/commands/token"
	"gitlab.com/shar-workflow/iflowscan/cli/flag"
	"gitlab.com/shar-workflow/iflowscan/cli/output"
	"gitlab.com/shar-workflow/iflowscan/common/logx"
	"gitlab.com/shar-workflow/iflowscan/common/version"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "iflowscan",
	Short:         "Extracts and resolves the message headers of SAP CPI integration flows",
	Long:          ``,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		lev, addSource := logx.Level(flag.Value.LogLevel)
		logx.SetDefault("text", lev, addSource, "iflowscan-cli")
		if flag.Value.Json {
			output.Current = &output.Json{}
		} else {
			output.Current = &output.Text{}
		}
	},
}

// Execute adds all child commands to the root command and sets flag appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(extract.Cmd)
	RootCmd.AddCommand(fetch.Cmd)
	RootCmd.AddCommand(inspect.Cmd)
	RootCmd.AddCommand(request.Cmd)
	RootCmd.AddCommand(serve.Cmd)
	RootCmd.AddCommand(token.Cmd)
	RootCmd.PersistentFlags().StringVarP(&flag.Value.LogLevel, flag.LogLevel, flag.LogLevelShort, "error", "sets the logging level for the CLI")
	RootCmd.PersistentFlags().BoolVarP(&flag.Value.Json, flag.JsonOutput, flag.JsonOutputShort, false, "sets the CLI output to json")
	RootCmd.PersistentFlags().StringVarP(&flag.Value.Where, flag.Where, flag.WhereShort, "", `only print records matching an expression, e.g. 'resolvedFrom == "unresolved"'`)
	RootCmd.PersistentFlags().IntVarP(&flag.Value.Concurrency, flag.Concurrency, flag.ConcurrencyShort, 4, "sets how many artifacts are processed at once")
}
