package output

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"gitlab.com/shar-workflow/iflowscan/model"
)

// EmptyTableText stands in for the rows of an empty header table.
const EmptyTableText = "(no header rows defined)"

// Text contains the output methods for console responses
type Text struct {
}

// OutputArtifact prints the header records of an artifact grouped by call activity.
func (c *Text) OutputArtifact(res *model.ArtifactResult) {
	rule := strings.Repeat("═", 72)
	c.println(rule)
	c.println(pterm.Bold.Sprint(pterm.Cyan("  iFlow : " + res.IflowName)))
	if res.FileName != "" {
		c.println(pterm.Gray("  File  : " + res.FileName))
	}
	c.println(rule)

	for _, g := range groupByCallActivity(res.Records) {
		c.println("")
		c.println(fmt.Sprintf("  %s %s  %s", pterm.Bold.Sprint("CallActivity:"), pterm.Cyan(g.name), pterm.Gray("("+g.id+")")))
		data := pterm.TableData{{"Header Name", "Value", "Source"}}
		empty := false
		for _, r := range g.records {
			if r.IsSentinel() {
				empty = true
				continue
			}
			data = append(data, []string{r.HeaderName, displayValue(r), sourceText(r.ResolvedFrom)})
		}
		if len(data) > 1 {
			tbl, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				panic(err)
			}
			c.println(tbl)
		}
		if empty {
			c.println("  " + pterm.Gray(EmptyTableText))
		}
	}

	s := model.Summarize(res.Records)
	c.println("")
	c.println(pterm.Bold.Sprint("  Summary"))
	c.println(fmt.Sprintf("     Total headers    : %d", s.Total))
	c.println(fmt.Sprintf("     Direct values    : %s", pterm.Green(s.Direct)))
	c.println(fmt.Sprintf("     From prop file   : %s", pterm.Yellow(s.FromMap)))
	c.println(fmt.Sprintf("     Not found        : %s", pterm.Red(s.Unresolved)))
	if s.EmptyTables > 0 {
		c.println(fmt.Sprintf("     Empty tables     : %d", s.EmptyTables))
	}
	if res.DecodeFailures > 0 {
		c.println(fmt.Sprintf("     Unreadable tables: %s", pterm.Red(res.DecodeFailures)))
	}
}

// OutputBatch prints the batch totals and any failures.
func (c *Text) OutputBatch(res *model.BatchResult, reportFile string) {
	c.outputTotals(res.RunID, res.Summary(), res.Failed, reportFile)
}

// OutputResponse prints the totals reported by a server.
func (c *Text) OutputResponse(res *model.ExtractResponse) {
	c.outputTotals(res.RunID, res.Summary, res.Failed, res.File)
}

func (c *Text) outputTotals(runID string, s model.BatchSummary, failed []model.ArtifactFailure, reportFile string) {
	c.println("")
	c.println(pterm.Bold.Sprint("  Batch " + runID))
	c.println(fmt.Sprintf("     Total     : %d", s.Total))
	c.println(fmt.Sprintf("     Processed : %s", pterm.Green(s.Processed)))
	c.println(fmt.Sprintf("     Failed    : %s", pterm.Red(s.Failed)))
	for _, f := range failed {
		c.println(fmt.Sprintf("       %s %s", pterm.Red("✗ "+f.Iflow), pterm.Gray(f.Error)))
	}
	if reportFile != "" {
		c.println(fmt.Sprintf("     Report    : %s", reportFile))
	}
}

func (c *Text) println(s string) {
	if _, err := fmt.Fprintln(Stream, s); err != nil {
		panic(err)
	}
}

func displayValue(r model.ResolvedHeaderRecord) string {
	switch r.ResolvedFrom {
	case model.ResolvedFromUnresolved:
		return pterm.Red(r.RawValue)
	case model.ResolvedFromMap:
		if r.ResolvedValue == "" {
			return pterm.Gray("<empty>")
		}
		return pterm.Green(r.ResolvedValue)
	default:
		return pterm.Green(r.ResolvedValue)
	}
}

func sourceText(r model.ResolvedFrom) string {
	switch r {
	case model.ResolvedFromMap:
		return pterm.Yellow("parameters.prop")
	case model.ResolvedFromUnresolved:
		return pterm.Red("NOT FOUND in parameters.prop")
	default:
		return pterm.Gray("direct value")
	}
}

type callActivityGroup struct {
	id      string
	name    string
	records []model.ResolvedHeaderRecord
}

// groupByCallActivity groups records by call activity ID in order of first appearance.
func groupByCallActivity(records []model.ResolvedHeaderRecord) []*callActivityGroup {
	var ret []*callActivityGroup
	idx := make(map[string]*callActivityGroup)
	for _, r := range records {
		g, ok := idx[r.CallActivityID]
		if !ok {
			g = &callActivityGroup{id: r.CallActivityID, name: r.CallActivityName}
			idx[r.CallActivityID] = g
			ret = append(ret, g)
		}
		g.records = append(g.records, r)
	}
	return ret
}
