package render

import (
	"github.com/flowboardhq/flowboard/pkg/canvas"
	"github.com/flowboardhq/flowboard/pkg/geometry"
	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// Options configures SVG and PNG rendering.
type Options struct {
	padding float64
	scale   float64
}

// Option configures a renderer.
type Option func(*Options)

// WithPadding sets the margin, in world units, around the content bounds.
// The default is 40.
func WithPadding(p float64) Option {
	return func(o *Options) { o.padding = p }
}

// WithScale sets the raster scale factor for PNG output. A scale of 2
// produces a 2x resolution image suitable for high-DPI displays. SVG output
// ignores it. The default is 1.
func WithScale(s float64) Option {
	return func(o *Options) { o.scale = s }
}

func newOptions(opts ...Option) Options {
	o := Options{padding: 40, scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// frame is the computed drawing area: content bounds expanded by padding,
// in world units.
type frame struct {
	origin geometry.Point
	width  float64
	height float64
}

// nodeBounds returns the effective rectangle of a serialized node, applying
// the same defaulting and clamping the canvas uses.
func nodeBounds(n workflow.Node) geometry.Rect {
	cn := canvas.Node{Position: n.Position, Width: n.Width, Height: n.Height}
	return cn.Bounds()
}

// contentFrame computes the drawing area covering all nodes and groups.
// Empty documents get a small fixed frame so exports never degenerate.
func contentFrame(wf workflow.Workflow, padding float64) frame {
	if len(wf.Nodes) == 0 && len(wf.Groups) == 0 {
		return frame{width: 2 * padding, height: 2 * padding}
	}

	first := true
	var minX, minY, maxX, maxY float64
	extend := func(r geometry.Rect) {
		if first {
			minX, minY, maxX, maxY = r.X, r.Y, r.Right(), r.Bottom()
			first = false
			return
		}
		minX = min(minX, r.X)
		minY = min(minY, r.Y)
		maxX = max(maxX, r.Right())
		maxY = max(maxY, r.Bottom())
	}

	for _, n := range wf.Nodes {
		extend(nodeBounds(n))
	}
	for _, g := range wf.Groups {
		extend(geometry.Rect{X: g.Position.X, Y: g.Position.Y, Width: g.Size.Width, Height: g.Size.Height})
	}

	return frame{
		origin: geometry.Point{X: minX - padding, Y: minY - padding},
		width:  maxX - minX + 2*padding,
		height: maxY - minY + 2*padding,
	}
}

// center returns the midpoint of a node's effective bounds, used as the
// connection anchor.
func center(n workflow.Node) geometry.Point {
	b := nodeBounds(n)
	return geometry.Point{X: b.CenterX(), Y: b.CenterY()}
}

// nodeByID builds the lookup used when resolving connection endpoints.
func nodeByID(wf workflow.Workflow) map[string]workflow.Node {
	m := make(map[string]workflow.Node, len(wf.Nodes))
	for _, n := range wf.Nodes {
		m[n.ID] = n
	}
	return m
}
