package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

func TestArtifactVersion(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{
		"":       Active,
		"active": Active,
		"ACTIVE": Active,
		"1.0.3":  "1.0.3",
		" 2.1.0": "2.1.0",
	} {
		got, err := ArtifactVersion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestArtifactVersionInvalid(t *testing.T) {
	t.Parallel()
	_, err := ArtifactVersion("latest")
	assert.ErrorIs(t, err, errors2.ErrBadVersion)
}

func TestBuild(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, Build())
}
