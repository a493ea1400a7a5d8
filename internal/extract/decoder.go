package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"gitlab.com/shar-workflow/iflowscan/common/logx"
	"gitlab.com/shar-workflow/iflowscan/model"
)

const (
	cellName     = "Name"
	cellValue    = "Value"
	cellAction   = "Action"
	cellType     = "Type"
	cellDataType = "Datatype"
	cellDefault  = "Default"
)

// markupEntities recovers markup that was stored as escaped text.
// Each entity is replaced across the whole value before the next, so &amp;quot; ends up as a quote.
var markupEntities = [][2]string{
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&amp;", "&"},
	{"&quot;", `"`},
	{"&apos;", "'"},
}

func unescapeMarkup(s string) string {
	for _, e := range markupEntities {
		s = strings.ReplaceAll(s, e[0], e[1])
	}
	return s
}

// DecodeHeaderTable decodes the raw value of a headerTable property into its rows.
// Blank input yields no rows.  Markup that cannot be parsed is logged as a warning and also yields no rows.
func DecodeHeaderTable(ctx context.Context, raw string) []model.HeaderRow {
	rows, _ := decode(ctx, raw)
	return rows
}

// decode reports whether non-blank markup failed to parse alongside the decoded rows.
func decode(ctx context.Context, raw string) ([]model.HeaderRow, bool) {
	rows, err := parseRows(raw)
	if err != nil {
		logx.FromContext(ctx).Warn("could not parse header table", "error", err)
		return nil, true
	}
	return rows, false
}

func parseRows(raw string) ([]model.HeaderRow, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	// The fragment is a list of sibling rows, so it needs a synthetic root.
	doc, err := xmlquery.Parse(strings.NewReader("<table>" + unescapeMarkup(trimmed) + "</table>"))
	if err != nil {
		return nil, fmt.Errorf("parse header table markup: %w", err)
	}
	table := firstElement(doc, "table")
	if table == nil {
		return nil, nil
	}
	var rows []model.HeaderRow
	for _, row := range childElements(table, "row") {
		cells := make(map[string]string)
		for _, cell := range childElements(row, "cell") {
			cells[cell.SelectAttr("id")] = strings.TrimSpace(cell.InnerText())
		}
		name, ok := cells[cellName]
		if !ok {
			continue
		}
		rows = append(rows, model.HeaderRow{
			Name:     name,
			Value:    cells[cellValue],
			Action:   cells[cellAction],
			Type:     cells[cellType],
			DataType: cells[cellDataType],
			Default:  cells[cellDefault],
		})
	}
	return rows, nil
}

func childElements(n *xmlquery.Node, local string) []*xmlquery.Node {
	var ret []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			ret = append(ret, c)
		}
	}
	return ret
}

func firstElement(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}
