package batch

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

// Manifest lists the artifacts of a batch.
//
//	version = "active"
//	output = "output/headers.xlsx"
//	iflows = ["Orders_Inbound", "Invoices_Outbound"]
type Manifest struct {
	Version string   `toml:"version"`
	Output  string   `toml:"output"`
	Iflows  []string `toml:"iflows"`
}

// LoadManifest reads a TOML batch manifest.
func LoadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(b)
}

// ParseManifest decodes a TOML batch manifest.  A manifest must name at least one iFlow.
func ParseManifest(b []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := toml.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if len(m.Iflows) == 0 {
		return nil, fmt.Errorf("decode manifest: %w", errors2.ErrNoIflows)
	}
	return m, nil
}
