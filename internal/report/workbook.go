package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"gitlab.com/shar-workflow/iflowscan/model"
)

// SheetName is the worksheet that receives header rows.
const SheetName = "Headers"

// NotFoundValue replaces the resolved value of an unresolved placeholder.
const NotFoundValue = "(NOT FOUND)"

const (
	colourHeader     = "1F3864"
	colourHeaderFont = "FFFFFF"
	colourDirect     = "E2EFDA"
	colourFromMap    = "FFF2CC"
	colourUnresolved = "FFC7CE"
	colourBorder     = "B8CCE4"
)

type column struct {
	title string
	width float64
}

var columns = []column{
	{"iFlow Name", 48},
	{"CallActivity Name", 28},
	{"CallActivity ID", 22},
	{"Header Name", 28},
	{"Resolved Value", 36},
	{"Raw Value", 40},
	{"Source", 20},
}

// SourceLabel is the Source column text for a provenance.
func SourceLabel(r model.ResolvedFrom) string {
	switch r {
	case model.ResolvedFromMap:
		return "parameters.prop"
	case model.ResolvedFromUnresolved:
		return "NOT_FOUND"
	default:
		return "direct"
	}
}

// WriteWorkbook appends the header records of every artifact to the Headers sheet of the workbook at path.
// A missing file is created along with its directory, and a missing sheet is recreated.
// Empty header table markers are not written.  It returns the number of rows appended.
func WriteWorkbook(path string, results []*model.ArtifactResult) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create report directory: %w", err)
	}
	f, err := openOrCreate(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w, err := newSheetWriter(f)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, res := range results {
		for _, rec := range res.Records {
			if rec.IsSentinel() {
				continue
			}
			if err := w.append(res.IflowName, rec); err != nil {
				return n, err
			}
			n++
		}
	}
	if err := w.finish(); err != nil {
		return n, err
	}
	if err := f.SaveAs(path); err != nil {
		return n, fmt.Errorf("save report %s: %w", path, err)
	}
	return n, nil
}

func openOrCreate(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open report %s: %w", path, err)
	}
	f = excelize.NewFile()
	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("create report sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}
	return f, nil
}

type sheetWriter struct {
	f      *excelize.File
	row    int
	styles map[model.ResolvedFrom]int
}

func newSheetWriter(f *excelize.File) (*sheetWriter, error) {
	w := &sheetWriter{f: f, styles: make(map[model.ResolvedFrom]int)}
	idx, err := f.GetSheetIndex(SheetName)
	if err != nil {
		return nil, fmt.Errorf("find report sheet: %w", err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(SheetName); err != nil {
			return nil, fmt.Errorf("recreate report sheet: %w", err)
		}
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("read report sheet: %w", err)
	}
	if len(rows) == 0 {
		if err := w.writeHeader(); err != nil {
			return nil, err
		}
		w.row = 1
	} else {
		w.row = len(rows)
	}
	for rf, colour := range map[model.ResolvedFrom]string{
		model.ResolvedFromDirect:     colourDirect,
		model.ResolvedFromMap:        colourFromMap,
		model.ResolvedFromUnresolved: colourUnresolved,
	} {
		id, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Family: "Calibri", Size: 10},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colour}},
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
			Border:    border(),
		})
		if err != nil {
			return nil, fmt.Errorf("create row style: %w", err)
		}
		w.styles[rf] = id
	}
	return w, nil
}

func (w *sheetWriter) writeHeader() error {
	titles := make([]interface{}, len(columns))
	for i, c := range columns {
		titles[i] = c.title
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := w.f.SetColWidth(SheetName, name, name, c.width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	if err := w.f.SetSheetRow(SheetName, "A1", &titles); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	style, err := w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: "Calibri", Size: 11, Color: colourHeaderFont},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colourHeader}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border(),
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := w.f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("style report header: %w", err)
	}
	if err := w.f.SetRowHeight(SheetName, 1, 28); err != nil {
		return fmt.Errorf("set header height: %w", err)
	}
	if err := w.f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze report header: %w", err)
	}
	return nil
}

func (w *sheetWriter) append(iflow string, rec model.ResolvedHeaderRecord) error {
	w.row++
	resolved := rec.ResolvedValue
	if rec.ResolvedFrom == model.ResolvedFromUnresolved {
		resolved = NotFoundValue
	}
	vals := []interface{}{
		iflow,
		rec.CallActivityName,
		rec.CallActivityID,
		rec.HeaderName,
		resolved,
		rec.RawValue,
		SourceLabel(rec.ResolvedFrom),
	}
	first, _ := excelize.CoordinatesToCellName(1, w.row)
	last, _ := excelize.CoordinatesToCellName(len(columns), w.row)
	if err := w.f.SetSheetRow(SheetName, first, &vals); err != nil {
		return fmt.Errorf("write report row %d: %w", w.row, err)
	}
	if err := w.f.SetCellStyle(SheetName, first, last, w.styles[rec.ResolvedFrom]); err != nil {
		return fmt.Errorf("style report row %d: %w", w.row, err)
	}
	if err := w.f.SetRowHeight(SheetName, w.row, 20); err != nil {
		return fmt.Errorf("set row height: %w", err)
	}
	return nil
}

func (w *sheetWriter) finish() error {
	last, _ := excelize.CoordinatesToCellName(len(columns), w.row)
	if err := w.f.AutoFilter(SheetName, "A1:"+last, []excelize.AutoFilterOptions{}); err != nil {
		return fmt.Errorf("set report filter: %w", err)
	}
	return nil
}

func border() []excelize.Border {
	ret := make([]excelize.Border, 0, 4)
	for _, side := range []string{"left", "top", "right", "bottom"} {
		ret = append(ret, excelize.Border{Type: side, Color: colourBorder, Style: 1})
	}
	return ret
}
