package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// PNG renders a workflow document as a raster image. The canvas background
// is white; groups, connections and nodes draw in the same order as SVG
// output.
func PNG(wf workflow.Workflow, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	if o.scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v", o.scale)
	}
	f := contentFrame(wf, o.padding)
	nodes := nodeByID(wf)

	width := int(math.Ceil(f.width * o.scale))
	height := int(math.Ceil(f.height * o.scale))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("degenerate image dimensions %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.Scale(o.scale, o.scale)
	dc.Translate(-f.origin.X, -f.origin.Y)
	dc.SetColor(color.White)
	dc.Clear()

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    13,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	for _, g := range wf.Groups {
		drawGroup(dc, g)
	}
	for _, c := range wf.Connections {
		drawConnection(dc, c, nodes)
	}
	for _, n := range wf.Nodes {
		drawNode(dc, n)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawGroup(dc *gg.Context, g workflow.Group) {
	dc.SetRGB255(0xf1, 0xf3, 0xf4)
	dc.DrawRoundedRectangle(g.Position.X, g.Position.Y, g.Size.Width, g.Size.Height, 8)
	dc.Fill()
	dc.SetRGB255(0xda, 0xdc, 0xe0)
	dc.SetLineWidth(1)
	dc.SetDash(6, 3)
	dc.DrawRoundedRectangle(g.Position.X, g.Position.Y, g.Size.Width, g.Size.Height, 8)
	dc.Stroke()
	dc.SetDash()

	if g.Label != "" {
		dc.SetRGB255(0x5f, 0x63, 0x68)
		dc.DrawString(g.Label, g.Position.X+8, g.Position.Y+16)
	}
}

func drawConnection(dc *gg.Context, c workflow.Connection, nodes map[string]workflow.Node) {
	from, okFrom := nodes[c.From]
	to, okTo := nodes[c.To]
	if !okFrom || !okTo {
		return
	}
	p1, p2 := center(from), center(to)

	dc.SetRGB255(0x80, 0x86, 0x8b)
	dc.SetLineWidth(1.5)
	dc.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
	dc.Stroke()

	drawArrowhead(dc, p1.X, p1.Y, p2.X, p2.Y)
}

// drawArrowhead fills a small triangle at the target end of a connection.
func drawArrowhead(dc *gg.Context, fromX, fromY, toX, toY float64) {
	dx := toX - fromX
	dy := toY - fromY
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const size = 8.0
	const spread = 0.5

	dc.MoveTo(toX, toY)
	dc.LineTo(toX-size*dx+size*dy*spread, toY-size*dy-size*dx*spread)
	dc.LineTo(toX-size*dx-size*dy*spread, toY-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.Fill()
}

func drawNode(dc *gg.Context, n workflow.Node) {
	b := nodeBounds(n)

	r, g, bl := kindRGB(n.Kind)
	dc.SetRGB255(r, g, bl)
	dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, 6)
	dc.Fill()
	dc.SetRGB255(0x5f, 0x63, 0x68)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, 6)
	dc.Stroke()

	label := n.Label
	if label == "" {
		label = n.ID
	}
	dc.SetRGB255(0x20, 0x21, 0x24)
	dc.DrawStringAnchored(label, b.CenterX(), b.CenterY(), 0.5, 0.5)
}

// kindRGB maps a node kind to its fill color, mirroring the SVG palette.
func kindRGB(kind string) (r, g, b int) {
	switch kind {
	case "text":
		return 0xe8, 0xf0, 0xfe
	case "image":
		return 0xfc, 0xe8, 0xe6
	case "video":
		return 0xe6, 0xf4, 0xea
	case "audio":
		return 0xfe, 0xf7, 0xe0
	default:
		return 0xff, 0xff, 0xff
	}
}
