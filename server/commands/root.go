package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/shar-workflow/iflowscan/client/cpi"
	"gitlab.com/shar-workflow/iflowscan/common/logx"
	"gitlab.com/shar-workflow/iflowscan/internal/batch"
	"gitlab.com/shar-workflow/iflowscan/server/config"
	"gitlab.com/shar-workflow/iflowscan/server/server"
	"gitlab.com/shar-workflow/iflowscan/server/server/option"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "iflowscan-server",
	Short: "iflowscan server",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.GetEnvironment()
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		lev, addSource := logx.Level(cfg.LogLevel)
		logx.SetDefault(cfg.LogHandler, lev, addSource, "iflowscan")
		opts, err := Options(cmd.Context(), cfg, ".")
		if err != nil {
			return err
		}
		svr := server.New(append(opts, option.WithShowSplash())...)
		if err := svr.Listen(cmd.Context()); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

// Options converts settings into server options.
// Artifacts are downloaded from the tenant when the remote settings are complete,
// otherwise they are read from zip files in dir.
func Options(ctx context.Context, cfg *config.Settings, dir string) ([]option.Option, error) {
	src, err := Source(ctx, cfg, dir)
	if err != nil {
		return nil, err
	}
	return []option.Option{
		option.Concurrency(cfg.Concurrency),
		option.HTTPPort(cfg.HTTPPort),
		option.GrpcPort(cfg.GRPCPort),
		option.NatsUrl(cfg.NatsURL),
		option.OutputFile(cfg.OutputFile),
		option.WithAPISecret(cfg.APISecret),
		option.WithTelemetryEndpoint(cfg.JaegerURL),
		option.WithSource(src),
	}, nil
}

// Source selects the artifact source for the settings.
func Source(ctx context.Context, cfg *config.Settings, dir string) (batch.Source, error) {
	if err := cfg.ValidateRemote(); err != nil {
		slog.Warn("remote settings incomplete, reading zip files", "dir", dir, "reason", err.Error())
		return batch.ZipFileSource{Dir: dir}, nil
	}
	c, err := cpi.New(ctx, cpi.Credentials{
		BaseURL:      cfg.APIBaseURL,
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}, cpi.WithVersion(cfg.ArtifactVersion))
	if err != nil {
		return nil, fmt.Errorf("create cpi client: %w", err)
	}
	return c, nil
}

// Execute adds all child commands to the root command and sets flag appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
