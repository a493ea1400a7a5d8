package expression

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/shar-workflow/iflowscan/model"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

var eng = &ExprEngine{}

func TestPositive(t *testing.T) {
	ctx := context.Background()
	vrs := make(map[string]interface{})
	res, err := Eval[bool](ctx, eng, "97 == 97", vrs)
	assert.NoError(t, err)
	assert.Equal(t, true, res)
}

func TestVariable(t *testing.T) {
	ctx := context.Background()
	vrs := make(map[string]interface{})
	vrs["a"] = 4.5
	res, err := Eval[bool](ctx, eng, "=a == 4.5", vrs)
	assert.NoError(t, err)
	assert.Equal(t, true, res)
}

func TestWrongType(t *testing.T) {
	ctx := context.Background()
	_, err := Eval[bool](ctx, eng, `"text"`, map[string]interface{}{})
	assert.Error(t, err)
}

func TestGetVariables(t *testing.T) {
	ctx := context.Background()
	vars, err := GetVariables(ctx, eng, `=headerName == "X" && rawValue != ""`)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Variable{{Name: "headerName"}, {Name: "rawValue"}}, vars)
}

func TestRecordFilter(t *testing.T) {
	ctx := context.Background()
	recs := []model.ResolvedHeaderRecord{
		{CallActivityID: "CA1", HeaderName: "A", ResolvedFrom: model.ResolvedFromDirect},
		{CallActivityID: "CA1", HeaderName: "B", ResolvedFrom: model.ResolvedFromUnresolved, IsPlaceholder: true},
		{CallActivityID: "CA2", HeaderName: "C", ResolvedFrom: model.ResolvedFromMap, IsPlaceholder: true},
	}
	f, err := NewRecordFilter(`resolvedFrom == "unresolved" || callActivityId == "CA2"`)
	require.NoError(t, err)
	got, err := f.Apply(ctx, "Orders", recs)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].HeaderName)
	assert.Equal(t, "C", got[1].HeaderName)

	byIflow, err := NewRecordFilter(`iflow startsWith "Ord"`)
	require.NoError(t, err)
	ok, err := byIflow.Match(ctx, "Orders", recs[0])
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecordFilterEmpty(t *testing.T) {
	f, err := NewRecordFilter("")
	require.NoError(t, err)
	recs := []model.ResolvedHeaderRecord{{HeaderName: "A"}}
	got, err := f.Apply(context.Background(), "x", recs)
	require.NoError(t, err)
	assert.Equal(t, recs, got)
}

func TestRecordFilterInvalid(t *testing.T) {
	_, err := NewRecordFilter(`headerName +`)
	assert.ErrorIs(t, err, errors2.ErrBadFilter)
	_, err = NewRecordFilter(`headerName`)
	assert.ErrorIs(t, err, errors2.ErrBadFilter)
	_, err = NewRecordFilter(`unknownField == 1`)
	assert.ErrorIs(t, err, errors2.ErrBadFilter)
}

func TestRecordFilterUnknownField(t *testing.T) {
	_, err := NewRecordFilter(`headerName == "A" && owner == "me"`)
	require.ErrorIs(t, err, errors2.ErrBadFilter)
	assert.Contains(t, err.Error(), `unknown field "owner"`)
}

func TestRecordFilterLeadingEquals(t *testing.T) {
	f, err := NewRecordFilter(`=isPlaceholder`)
	require.NoError(t, err)
	ok, err := f.Match(context.Background(), "x", model.ResolvedHeaderRecord{IsPlaceholder: true})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.Match(context.Background(), "x", model.ResolvedHeaderRecord{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngineReusesPrograms(t *testing.T) {
	ctx := context.Background()
	e := &ExprEngine{}
	for _, v := range []float64{1, 2} {
		res, err := Eval[float64](ctx, e, "a * 2", map[string]interface{}{"a": v})
		require.NoError(t, err)
		assert.Equal(t, v*2, res)
	}
	_, ok := e.programs.Load("a * 2")
	assert.True(t, ok)
}
