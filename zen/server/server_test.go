package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/shar-workflow/iflowscan/internal/artifact"
	"gitlab.com/shar-workflow/iflowscan/model"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
	"gitlab.com/shar-workflow/iflowscan/server/messages"
	"gitlab.com/shar-workflow/iflowscan/server/server/option"
)

type multiSource struct{}

func (multiSource) Fetch(_ context.Context, iflowID string) (*artifact.Artifact, error) {
	if iflowID != "Multi" {
		return nil, fmt.Errorf("no artifact %s: %w", iflowID, errors2.ErrArtifactFileMissing)
	}
	b, err := os.ReadFile(filepath.Join("../../testdata", "headers-multi-process.iflw"))
	if err != nil {
		return nil, err
	}
	return &artifact.Artifact{Name: "Multi", FlowFile: "Multi.iflw", Flow: b}, nil
}

func TestGetServers(t *testing.T) {
	out := filepath.Join(t.TempDir(), "headers.xlsx")
	ssvr, nsvr, err := GetServers("127.0.0.1", -1,
		option.HTTPPort(0),
		option.WithNoHealthServer(),
		option.WithSource(multiSource{}),
		option.OutputFile(out),
	)
	require.NoError(t, err)
	defer nsvr.Shutdown()
	defer ssvr.Shutdown()
	assert.True(t, ssvr.Ready())

	nc, err := nats.Connect(nsvr.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	msg, err := nc.Request(messages.APIExtract, []byte(`{"iflows":["Multi"]}`), 10*time.Second)
	require.NoError(t, err)
	require.Empty(t, msg.Header.Get(messages.APIErrorHeader), string(msg.Data))
	res := &model.ExtractResponse{}
	require.NoError(t, json.Unmarshal(msg.Data, res))
	assert.Equal(t, "completed", res.Status)
	assert.Equal(t, model.BatchSummary{Total: 1, Processed: 1}, res.Summary)
	assert.FileExists(t, out)
}
