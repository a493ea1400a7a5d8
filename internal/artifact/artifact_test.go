package artifact

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

func buildZip(t *testing.T, files map[string]string, order ...string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	t.Parallel()
	files := map[string]string{
		"META-INF/MANIFEST.MF": "Manifest-Version: 1.0",
		"src/main/resources/parameters.prop":                            "HOST=example.com\n",
		"src/main/resources/scenarioflows/integrationflow/Orders.iflw": "<definitions/>",
	}
	b := buildZip(t, files, "META-INF/MANIFEST.MF", "src/main/resources/parameters.prop", "src/main/resources/scenarioflows/integrationflow/Orders.iflw")
	a, err := Load(b, "Orders")
	require.NoError(t, err)
	assert.Equal(t, "Orders", a.Name)
	assert.Equal(t, "Orders.iflw", a.FlowFile)
	assert.Equal(t, "HOST=example.com\n", a.Parameters)
	assert.Equal(t, []byte("<definitions/>"), a.Flow)
}

func TestLoadBackslashesAndLastMatch(t *testing.T) {
	t.Parallel()
	files := map[string]string{
		`src\main\resources\scenarioflows\integrationflow\First.iflw`: "first",
		`src\main\resources\scenarioflows\integrationflow\Second.iflw`: "second",
		`src\main\resources\parameters.prop`:                           "A=1",
	}
	b := buildZip(t, files,
		`src\main\resources\scenarioflows\integrationflow\First.iflw`,
		`src\main\resources\scenarioflows\integrationflow\Second.iflw`,
		`src\main\resources\parameters.prop`)
	a, err := Load(b, "win")
	require.NoError(t, err)
	assert.Equal(t, "Second.iflw", a.FlowFile)
	assert.Equal(t, []byte("second"), a.Flow)
	assert.Equal(t, "A=1", a.Parameters)
}

func TestLoadEmpty(t *testing.T) {
	t.Parallel()
	_, err := Load(nil, "empty")
	assert.ErrorIs(t, err, errors2.ErrEmptyArchive)
}

func TestLoadNotZip(t *testing.T) {
	t.Parallel()
	_, err := Load([]byte("definitely not a zip"), "junk")
	assert.ErrorContains(t, err, "open artifact archive junk")
}

func TestLoadMissingParameters(t *testing.T) {
	t.Parallel()
	files := map[string]string{"src/main/resources/scenarioflows/integrationflow/X.iflw": "x"}
	b := buildZip(t, files, "src/main/resources/scenarioflows/integrationflow/X.iflw")
	_, err := Load(b, "x")
	assert.ErrorIs(t, err, errors2.ErrArtifactFileMissing)
	assert.ErrorContains(t, err, ParametersPath)
}

func TestLoadMissingFlow(t *testing.T) {
	t.Parallel()
	files := map[string]string{
		"src/main/resources/parameters.prop": "",
		"src/main/resources/Other.iflw":      "misplaced",
	}
	b := buildZip(t, files, "src/main/resources/parameters.prop", "src/main/resources/Other.iflw")
	_, err := Load(b, "x")
	assert.ErrorIs(t, err, errors2.ErrArtifactFileMissing)
	assert.ErrorContains(t, err, FlowDirectory)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	files := map[string]string{
		"src/main/resources/parameters.prop":                          "",
		"src/main/resources/scenarioflows/integrationflow/Flow.iflw": "<definitions/>",
	}
	b := buildZip(t, files, "src/main/resources/parameters.prop", "src/main/resources/scenarioflows/integrationflow/Flow.iflw")
	path := filepath.Join(t.TempDir(), "My_Flow.zip")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	a, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "My_Flow", a.Name)
	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.zip"))
	assert.Error(t, err)
}
