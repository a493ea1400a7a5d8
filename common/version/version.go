package version

import (
	"fmt"
	"strings"

	version2 "github.com/hashicorp/go-version"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

// Active selects the currently deployed design time artifact.
const Active = "active"

// Version is the build version of iflowscan.  It is replaced at link time.
var Version = "v0.1.0-dev"

// Build returns the parsed build version, or nil if the build version is not semantic.
func Build() *version2.Version {
	v, err := version2.NewVersion(Version)
	if err != nil {
		return nil
	}
	return v
}

// ArtifactVersion validates and normalises a design time artifact version.
// It accepts the literal "active" in any case, or a semantic version such as 1.0.3.
func ArtifactVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, Active) {
		return Active, nil
	}
	if _, err := version2.NewSemver(v); err != nil {
		return "", fmt.Errorf("artifact version %q: %w", v, errors2.ErrBadVersion)
	}
	return v, nil
}
