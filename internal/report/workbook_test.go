package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gitlab.com/shar-workflow/iflowscan/model"
)

func sampleResults() []*model.ArtifactResult {
	return []*model.ArtifactResult{
		{
			IflowName: "Orders",
			FileName:  "Orders.iflw",
			Records: []model.ResolvedHeaderRecord{
				{CallActivityID: "CA1", CallActivityName: "Set", HeaderName: "Host", RawValue: "{{HOST}}", ResolvedValue: "example.com", IsPlaceholder: true, ResolvedFrom: model.ResolvedFromMap},
				{CallActivityID: "CA1", CallActivityName: "Set", HeaderName: "Flag", RawValue: "true", ResolvedValue: "true", ResolvedFrom: model.ResolvedFromDirect},
				model.SentinelRecord("CA2", "Empty"),
			},
		},
		{
			IflowName: "Invoices",
			Records: []model.ResolvedHeaderRecord{
				{CallActivityID: "CA9", CallActivityName: "Err", HeaderName: "Code", RawValue: "{{CODE}}", ResolvedValue: "{{CODE}}", IsPlaceholder: true, ResolvedFrom: model.ResolvedFromUnresolved},
			},
		},
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestWriteWorkbook(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "output", "headers.xlsx")
	n, err := WriteWorkbook(path, sampleResults())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows := readRows(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"iFlow Name", "CallActivity Name", "CallActivity ID", "Header Name", "Resolved Value", "Raw Value", "Source"}, rows[0])
	assert.Equal(t, []string{"Orders", "Set", "CA1", "Host", "example.com", "{{HOST}}", "parameters.prop"}, rows[1])
	assert.Equal(t, []string{"Orders", "Set", "CA1", "Flag", "true", "true", "direct"}, rows[2])
	assert.Equal(t, []string{"Invoices", "Err", "CA9", "Code", NotFoundValue, "{{CODE}}", "NOT_FOUND"}, rows[3])

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	cell, err := f.GetCellValue(SheetName, "G1")
	require.NoError(t, err)
	assert.Equal(t, "Source", cell)
}

func TestWriteWorkbookAppends(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "headers.xlsx")
	_, err := WriteWorkbook(path, sampleResults())
	require.NoError(t, err)
	n, err := WriteWorkbook(path, sampleResults()[1:])
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows := readRows(t, path)
	require.Len(t, rows, 5)
	assert.Equal(t, "Invoices", rows[4][0])
}

func TestWriteWorkbookRecreatesSheet(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "headers.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "notes"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := WriteWorkbook(path, sampleResults())
	require.NoError(t, err)
	rows := readRows(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, "iFlow Name", rows[0][0])

	f, err = excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.ElementsMatch(t, []string{"Sheet1", SheetName}, f.GetSheetList())
}

func TestWriteWorkbookOnlySentinels(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "headers.xlsx")
	n, err := WriteWorkbook(path, []*model.ArtifactResult{{IflowName: "X", Records: []model.ResolvedHeaderRecord{model.SentinelRecord("CA", "c")}}})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, readRows(t, path), 1)
}

func TestSourceLabel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "direct", SourceLabel(model.ResolvedFromDirect))
	assert.Equal(t, "parameters.prop", SourceLabel(model.ResolvedFromMap))
	assert.Equal(t, "NOT_FOUND", SourceLabel(model.ResolvedFromUnresolved))
}
