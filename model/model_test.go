package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/shar-workflow/iflowscan/model"
)

func TestCallActivityDefaults(t *testing.T) {
	t.Parallel()
	ca := &model.CallActivity{}
	assert.Equal(t, model.DefaultCallActivityID, ca.DisplayID())
	assert.Equal(t, model.DefaultCallActivityName, ca.DisplayName())

	ca = &model.CallActivity{ID: model.Ptr(""), Name: model.Ptr("Set Headers")}
	assert.Equal(t, "", ca.DisplayID(), "an empty id attribute is still an id")
	assert.Equal(t, "Set Headers", ca.DisplayName())
}

func TestPropertiesWithKey(t *testing.T) {
	t.Parallel()
	ca := &model.CallActivity{
		ExtensionElements: []*model.ExtensionElements{
			{Properties: []*model.Property{
				{Key: "componentVersion", Value: "1.0"},
				{Key: model.PropertyHeaderTable, Value: "first"},
			}},
			{Properties: []*model.Property{
				{Key: model.PropertyHeaderTable, Value: "second"},
			}},
		},
	}
	assert.Equal(t, []string{"first", "second"}, ca.PropertiesWithKey(model.PropertyHeaderTable))
	assert.Nil(t, ca.PropertiesWithKey("missing"))
}

func TestParameterMapIsACopy(t *testing.T) {
	t.Parallel()
	src := map[string]string{"HOST": "example.com", "EMPTY": ""}
	p := model.NewParameterMap(src)
	src["HOST"] = "changed"

	v, ok := p.Lookup("HOST")
	assert.True(t, ok)
	assert.Equal(t, "example.com", v)

	v, ok = p.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = p.Lookup("MISSING")
	assert.False(t, ok)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []string{"EMPTY", "HOST"}, p.Keys())
}

func TestResolvedFromJSON(t *testing.T) {
	t.Parallel()
	rec := model.ResolvedHeaderRecord{HeaderName: "H1", ResolvedFrom: model.ResolvedFromUnresolved}
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"resolvedFrom":"unresolved"`)

	var back model.ResolvedHeaderRecord
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, rec, back)

	var rf model.ResolvedFrom
	assert.Error(t, json.Unmarshal([]byte(`"parameters.prop"`), &rf))
}

func TestSummarizeExcludesSentinel(t *testing.T) {
	t.Parallel()
	recs := []model.ResolvedHeaderRecord{
		{HeaderName: "A", ResolvedFrom: model.ResolvedFromDirect},
		{HeaderName: "B", ResolvedFrom: model.ResolvedFromMap, IsPlaceholder: true},
		{HeaderName: "C", ResolvedFrom: model.ResolvedFromUnresolved, IsPlaceholder: true},
		model.SentinelRecord("CA5", "Empty"),
	}
	assert.Equal(t, model.Summary{Total: 3, Direct: 1, FromMap: 1, Unresolved: 1, EmptyTables: 1}, model.Summarize(recs))
}

func TestBatchSummary(t *testing.T) {
	t.Parallel()
	b := &model.BatchResult{
		Succeeded: []*model.ArtifactResult{{IflowName: "a"}, {IflowName: "b"}},
		Failed:    []model.ArtifactFailure{{Iflow: "c", Error: "HTTP 404"}},
	}
	assert.Equal(t, model.BatchSummary{Total: 3, Processed: 2, Failed: 1}, b.Summary())
}
