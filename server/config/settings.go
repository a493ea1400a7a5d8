package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

// Settings is the settings provider for iflowscan.
type Settings struct {
	APIBaseURL      string `env:"CPI_API_BASE_URL"`
	ClientID        string `env:"CPI_CLIENT_ID"`
	ClientSecret    string `env:"CPI_CLIENT_SECRET"`
	TokenURL        string `env:"CPI_TOKEN_URL"`
	ArtifactVersion string `env:"CPI_ARTIFACT_VERSION" envDefault:"active"`
	LogLevel        string `env:"IFLOWSCAN_LOG_LEVEL" envDefault:"info"`
	LogHandler      string `env:"IFLOWSCAN_LOG_HANDLER" envDefault:"text"`
	HTTPPort        int    `env:"IFLOWSCAN_HTTP_PORT" envDefault:"3000"`
	GRPCPort        int    `env:"IFLOWSCAN_GRPC_PORT" envDefault:"50001"`
	NatsURL         string `env:"IFLOWSCAN_NATS_URL"`
	OutputFile      string `env:"IFLOWSCAN_OUTPUT_FILE" envDefault:"output/CPI_Headers_Extract.xlsx"`
	Concurrency     int    `env:"IFLOWSCAN_CONCURRENCY" envDefault:"4"`
	APISecret       string `env:"IFLOWSCAN_API_SECRET"`
	JaegerURL       string `env:"JAEGER_URL"`
}

// GetEnvironment pulls the active settings into a settings struct.
func GetEnvironment() (*Settings, error) {
	cfg := &Settings{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment settings: %w", err)
	}
	return cfg, nil
}

// ValidateRemote checks the settings needed to download artifacts from the tenant.
func (s *Settings) ValidateRemote() error {
	for _, i := range []struct{ name, value string }{
		{"CPI_API_BASE_URL", s.APIBaseURL},
		{"CPI_CLIENT_ID", s.ClientID},
		{"CPI_CLIENT_SECRET", s.ClientSecret},
		{"CPI_TOKEN_URL", s.TokenURL},
	} {
		if i.value == "" {
			return fmt.Errorf("%s: %w", i.name, errors2.ErrMissingSetting)
		}
	}
	return nil
}
