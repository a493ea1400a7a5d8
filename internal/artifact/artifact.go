package artifact

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

const (
	// ParametersPath is the archive location of the externalised parameter file.
	ParametersPath = "src/main/resources/parameters.prop"
	// FlowDirectory is the archive directory holding the integration flow document.
	FlowDirectory = "src/main/resources/scenarioflows/integrationflow/"
	// FlowExtension is the file extension of an integration flow document.
	FlowExtension = ".iflw"
)

// Artifact holds the two files of an integration flow archive that extraction needs.
type Artifact struct {
	// Name identifies the artifact, usually the iFlow ID or archive file name.
	Name string
	// FlowFile is the base name of the integration flow document.
	FlowFile string
	// Flow is the raw integration flow document.
	Flow []byte
	// Parameters is the raw parameters.prop text.
	Parameters string
}

// LoadFile reads an artifact archive from disk.
func LoadFile(path string) (*Artifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact archive %s: %w", path, err)
	}
	return Load(b, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// Load locates the parameter file and the integration flow document in a zipped artifact.
// Entry names are compared with forward slashes.  When several entries match, the last one wins.
func Load(b []byte, name string) (*Artifact, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("load artifact %s: %w", name, errors2.ErrEmptyArchive)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open artifact archive %s: %w", name, err)
	}
	var paramEntry, flowEntry *zip.File
	for _, f := range zr.File {
		p := strings.ReplaceAll(f.Name, `\`, "/")
		switch {
		case strings.HasSuffix(p, ParametersPath):
			paramEntry = f
		case strings.Contains(p, FlowDirectory) && strings.HasSuffix(p, FlowExtension):
			flowEntry = f
		}
	}
	if paramEntry == nil {
		return nil, fmt.Errorf("load artifact %s: %s: %w", name, ParametersPath, errors2.ErrArtifactFileMissing)
	}
	if flowEntry == nil {
		return nil, fmt.Errorf("load artifact %s: %s*%s: %w", name, FlowDirectory, FlowExtension, errors2.ErrArtifactFileMissing)
	}
	params, err := readEntry(paramEntry)
	if err != nil {
		return nil, fmt.Errorf("load artifact %s: %w", name, err)
	}
	flow, err := readEntry(flowEntry)
	if err != nil {
		return nil, fmt.Errorf("load artifact %s: %w", name, err)
	}
	return &Artifact{
		Name:       name,
		FlowFile:   filepath.Base(strings.ReplaceAll(flowEntry.Name, `\`, "/")),
		Flow:       flow,
		Parameters: string(params),
	}, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read archive entry %s: %w", f.Name, err)
	}
	return b, nil
}
