package parser

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"gitlab.com/shar-workflow/iflowscan/common/logx"
	"gitlab.com/shar-workflow/iflowscan/model"
)

// Parse reads an integration flow document and builds its process tree.
// Elements are matched by local name, so any namespace prefix is accepted.
// A document without a definitions root produces an empty Definitions.
func Parse(ctx context.Context, name string, rdr io.Reader) (*model.Definitions, error) {
	doc, err := xmlquery.Parse(rdr)
	if err != nil {
		return nil, fmt.Errorf("parse integration flow %s: %w", name, err)
	}
	defs := &model.Definitions{}
	root := firstChild(doc, "definitions")
	if root == nil {
		logx.FromContext(ctx).Debug("document has no definitions root", "name", name)
		return defs, nil
	}
	defs.ID = root.SelectAttr("id")
	for _, pr := range children(root, "process") {
		defs.Processes = append(defs.Processes, parseProcess(pr))
	}
	return defs, nil
}

func parseProcess(n *xmlquery.Node) *model.Process {
	p := &model.Process{
		ID:   n.SelectAttr("id"),
		Name: n.SelectAttr("name"),
	}
	for _, ca := range children(n, "callActivity") {
		p.CallActivities = append(p.CallActivities, parseCallActivity(ca))
	}
	for _, sp := range children(n, "subProcess") {
		sub := &model.SubProcess{
			ID:   sp.SelectAttr("id"),
			Name: sp.SelectAttr("name"),
		}
		for _, ca := range children(sp, "callActivity") {
			sub.CallActivities = append(sub.CallActivities, parseCallActivity(ca))
		}
		p.SubProcesses = append(p.SubProcesses, sub)
	}
	return p
}

func parseCallActivity(n *xmlquery.Node) *model.CallActivity {
	ca := &model.CallActivity{
		ID:   optionalAttr(n, "id"),
		Name: optionalAttr(n, "name"),
	}
	for _, ext := range children(n, "extensionElements") {
		ee := &model.ExtensionElements{}
		for _, prop := range children(ext, "property") {
			ee.Properties = append(ee.Properties, parseProperty(prop))
		}
		ca.ExtensionElements = append(ca.ExtensionElements, ee)
	}
	return ca
}

func parseProperty(n *xmlquery.Node) *model.Property {
	p := &model.Property{}
	if k := firstChild(n, "key"); k != nil {
		p.Key = strings.TrimSpace(k.InnerText())
	}
	if v := firstChild(n, "value"); v != nil {
		p.Value = v.InnerText()
	}
	return p
}

// optionalAttr distinguishes a missing attribute from an empty one.
func optionalAttr(n *xmlquery.Node, name string) *string {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			v := a.Value
			return &v
		}
	}
	return nil
}

func children(n *xmlquery.Node, local string) []*xmlquery.Node {
	var ret []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			ret = append(ret, c)
		}
	}
	return ret
}

func firstChild(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}
