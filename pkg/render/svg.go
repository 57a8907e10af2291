package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// Fill colors per node kind; unknown kinds fall back to the default.
var kindFills = map[string]string{
	"text":  "#e8f0fe",
	"image": "#fce8e6",
	"video": "#e6f4ea",
	"audio": "#fef7e0",
}

const defaultFill = "#ffffff"

// SVG renders a workflow document as a standalone SVG image. Groups are
// drawn behind their member nodes, connections behind node rectangles.
func SVG(wf workflow.Workflow, opts ...Option) []byte {
	o := newOptions(opts...)
	f := contentFrame(wf, o.padding)
	nodes := nodeByID(wf)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.origin.X, f.origin.Y, f.width, f.height, f.width, f.height)
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#fafafa"/>`+"\n",
		f.origin.X, f.origin.Y, f.width, f.height)

	for _, g := range wf.Groups {
		renderGroup(&buf, g)
	}
	for _, c := range wf.Connections {
		renderConnection(&buf, c, nodes)
	}
	for _, n := range wf.Nodes {
		renderNode(&buf, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGroup(buf *bytes.Buffer, g workflow.Group) {
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#f1f3f4" stroke="#dadce0" stroke-dasharray="6,3" rx="8"/>`+"\n",
		g.Position.X, g.Position.Y, g.Size.Width, g.Size.Height)
	if g.Label != "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="12" fill="#5f6368">%s</text>`+"\n",
			g.Position.X+8, g.Position.Y+16, html.EscapeString(g.Label))
	}
}

func renderConnection(buf *bytes.Buffer, c workflow.Connection, nodes map[string]workflow.Node) {
	from, okFrom := nodes[c.From]
	to, okTo := nodes[c.To]
	if !okFrom || !okTo {
		return
	}
	p1, p2 := center(from), center(to)
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#80868b" stroke-width="1.5"/>`+"\n",
		p1.X, p1.Y, p2.X, p2.Y)
}

func renderNode(buf *bytes.Buffer, n workflow.Node) {
	b := nodeBounds(n)
	fill, ok := kindFills[n.Kind]
	if !ok {
		fill = defaultFill
	}
	fmt.Fprintf(buf, `  <rect id="node-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#5f6368" rx="6"/>`+"\n",
		html.EscapeString(n.ID), b.X, b.Y, b.Width, b.Height, fill)

	label := n.Label
	if label == "" {
		label = n.ID
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="13" fill="#202124">%s</text>`+"\n",
		b.CenterX(), b.CenterY()+4, html.EscapeString(label))
}
