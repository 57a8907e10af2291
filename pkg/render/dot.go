package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// ToDOT converts a workflow to Graphviz DOT format. Connection topology is
// preserved; canvas positions are not, since Graphviz computes its own
// layout. Group membership maps to DOT clusters.
func ToDOT(wf workflow.Workflow) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	grouped := make(map[string]bool)
	for i, g := range wf.Groups {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		if g.Label != "" {
			fmt.Fprintf(&buf, "    label=%q;\n", g.Label)
		}
		buf.WriteString("    style=dashed;\n")
		for _, id := range g.NodeIDs {
			if n, ok := findNode(wf, id); ok {
				fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
				grouped[id] = true
			}
		}
		buf.WriteString("  }\n")
	}

	for _, n := range wf.Nodes {
		if grouped[n.ID] {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, c := range wf.Connections {
		fmt.Fprintf(&buf, "  %q -> %q;\n", c.From, c.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func findNode(wf workflow.Workflow, id string) (workflow.Node, bool) {
	for _, n := range wf.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return workflow.Node{}, false
}

func nodeAttrs(n workflow.Node) []string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := kindFills[n.Kind]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	return attrs
}

// DOTToSVG renders DOT source to SVG using the Graphviz layout engine.
func DOTToSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
