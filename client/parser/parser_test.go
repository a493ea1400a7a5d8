package parser

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/shar-workflow/iflowscan/model"
)

func TestParseIflow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, err := os.ReadFile("../../testdata/headers-simple.iflw")
	require.NoError(t, err)
	defs, err := Parse(ctx, "headers-simple", bytes.NewBuffer(b))
	require.NoError(t, err)

	assert.Equal(t, "Definitions_1", defs.ID)
	require.Len(t, defs.Processes, 1)
	pr := defs.Processes[0]
	assert.Equal(t, "Process_1", pr.ID)

	require.Len(t, pr.CallActivities, 3)
	ca1 := pr.CallActivities[0]
	assert.Equal(t, "CallActivity_1", ca1.DisplayID())
	assert.Equal(t, "Set Headers", ca1.DisplayName())
	require.Len(t, ca1.ExtensionElements, 1)
	require.Len(t, ca1.ExtensionElements[0].Properties, 3)
	assert.Equal(t, "componentVersion", ca1.ExtensionElements[0].Properties[0].Key)
	ht := ca1.PropertiesWithKey(model.PropertyHeaderTable)
	require.Len(t, ht, 1)
	assert.True(t, strings.HasPrefix(ht[0], "<row><cell id='Action'>Create</cell>"), "value should be unescaped once by the xml reader")

	assert.Empty(t, pr.CallActivities[1].PropertiesWithKey(model.PropertyHeaderTable))

	anonymous := pr.CallActivities[2]
	assert.Nil(t, anonymous.ID)
	assert.Nil(t, anonymous.Name)
	assert.Equal(t, model.DefaultCallActivityID, anonymous.DisplayID())

	require.Len(t, pr.SubProcesses, 1)
	sub := pr.SubProcesses[0]
	assert.Equal(t, "SubProcess_1", sub.ID)
	require.Len(t, sub.CallActivities, 3)
	assert.Equal(t, "CallActivity_3", sub.CallActivities[0].DisplayID())
	assert.True(t, strings.HasPrefix(sub.CallActivities[0].PropertiesWithKey(model.PropertyHeaderTable)[0], "&lt;row&gt;"), "double escaped value keeps one level of escaping")
	assert.Equal(t, []string{""}, sub.CallActivities[1].PropertiesWithKey(model.PropertyHeaderTable))
}

func TestParseUnprefixedDocument(t *testing.T) {
	t.Parallel()
	b, err := os.ReadFile("../../testdata/headers-multi-process.iflw")
	require.NoError(t, err)
	defs, err := Parse(context.Background(), "multi", bytes.NewBuffer(b))
	require.NoError(t, err)
	require.Len(t, defs.Processes, 2)
	assert.Equal(t, "A_Direct", defs.Processes[0].CallActivities[0].DisplayID())
	assert.Equal(t, "A_Nested", defs.Processes[0].SubProcesses[0].CallActivities[0].DisplayID())
	assert.Equal(t, "B_Direct", defs.Processes[1].CallActivities[0].DisplayID())
}

func TestParseNoProcess(t *testing.T) {
	t.Parallel()
	b, err := os.ReadFile("../../testdata/bad/no-process.iflw")
	require.NoError(t, err)
	defs, err := Parse(context.Background(), "no-process", bytes.NewBuffer(b))
	require.NoError(t, err)
	assert.Empty(t, defs.Processes)
}

func TestParseWrongRoot(t *testing.T) {
	t.Parallel()
	defs, err := Parse(context.Background(), "wrong-root", strings.NewReader(`<project><process id="P"/></project>`))
	require.NoError(t, err)
	assert.Empty(t, defs.Processes)
}

func TestParseInvalidXML(t *testing.T) {
	t.Parallel()
	b, err := os.ReadFile("../../testdata/bad/not-xml.iflw")
	require.NoError(t, err)
	_, err = Parse(context.Background(), "not-xml", bytes.NewBuffer(b))
	assert.ErrorContains(t, err, "parse integration flow not-xml")
}
