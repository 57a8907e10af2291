package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/flowboardhq/flowboard/pkg/canvas"
	"github.com/flowboardhq/flowboard/pkg/geometry"
)

// Border rune sets for node boxes.
var (
	plainBorder    = [6]rune{'┌', '─', '┐', '│', '└', '┘'}
	selectedBorder = [6]rune{'╔', '═', '╗', '║', '╚', '╝'}
)

// View renders the canvas as a character grid plus a one-line status bar.
// Draw order matches the web renderer: groups, connections, nodes, snap
// guides, marquee.
func (m *editorModel) View() string {
	if m.width == 0 || m.height < 2 {
		return "loading..."
	}

	g := newGrid(m.width, m.height-1)
	v := m.cv.Viewport()

	for _, grp := range m.cv.Groups() {
		m.drawGroup(g, v, grp)
	}
	for _, conn := range m.cv.Connections() {
		m.drawConnection(g, v, conn)
	}
	for _, n := range m.cv.Nodes() {
		m.drawNode(g, v, n)
	}
	for _, line := range m.cv.SnapLines() {
		m.drawSnapLine(g, v, line)
	}
	if box := m.cv.SelectionBox(); box != nil {
		m.drawWorldRect(g, v, *box, '░')
	}

	return g.String() + "\n" + m.statusBar()
}

func (m *editorModel) statusBar() string {
	mark := " "
	if m.dirty {
		mark = statusDirtyMark
	}
	name := m.name
	if name == "" {
		name = m.id
	}
	left := fmt.Sprintf(" %s%s  zoom %d%%  %d nodes  %d selected", name, mark,
		int(math.Round(m.cv.Viewport().Zoom()*100)), m.cv.NodeCount(), len(m.cv.SelectedNodes()))
	right := m.status + " "

	pad := m.width - len([]rune(left)) - len([]rune(right))
	if pad < 1 {
		pad = 1
	}
	return statusBarStyle.Render(left + strings.Repeat(" ", pad) + right)
}

// =============================================================================
// Character Grid
// =============================================================================

// grid is a fixed-size rune buffer the renderer draws into.
type grid struct {
	cells  [][]rune
	width  int
	height int
}

func newGrid(width, height int) *grid {
	cells := make([][]rune, height)
	for y := range cells {
		row := make([]rune, width)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
	}
	return &grid{cells: cells, width: width, height: height}
}

func (g *grid) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[y][x] = r
}

func (g *grid) String() string {
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

// =============================================================================
// Element Drawing
// =============================================================================

// toCell converts a world point to grid coordinates through the viewport.
func toCell(v *canvas.Viewport, p geometry.Point) (int, int) {
	s := v.WorldToScreen(p)
	return int(math.Round(s.X / cellPxX)), int(math.Round(s.Y / cellPxY))
}

func (m *editorModel) drawNode(g *grid, v *canvas.Viewport, n *canvas.Node) {
	b := n.Bounds()
	x0, y0 := toCell(v, geometry.Point{X: b.X, Y: b.Y})
	x1, y1 := toCell(v, geometry.Point{X: b.Right(), Y: b.Bottom()})
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	border := plainBorder
	if n.Selected {
		border = selectedBorder
	}
	drawBox(g, x0, y0, x1, y1, border)

	// Clear the interior so connections never show through a node.
	for y := y0 + 1; y < y1; y++ {
		for x := x0 + 1; x < x1; x++ {
			g.set(x, y, ' ')
		}
	}

	label := n.Label
	if label == "" {
		label = n.ID
	}
	if room := x1 - x0 - 1; room > 0 && len([]rune(label)) > room {
		label = string([]rune(label)[:room])
	}
	ly := (y0 + y1) / 2
	lx := (x0+x1)/2 - len([]rune(label))/2
	for i, r := range label {
		if lx+i > x0 && lx+i < x1 {
			g.set(lx+i, ly, r)
		}
	}
}

func (m *editorModel) drawGroup(g *grid, v *canvas.Viewport, grp *canvas.Group) {
	b := grp.Bounds()
	x0, y0 := toCell(v, geometry.Point{X: b.X, Y: b.Y})
	x1, y1 := toCell(v, geometry.Point{X: b.Right(), Y: b.Bottom()})

	for x := x0; x <= x1; x += 2 {
		g.set(x, y0, '╌')
		g.set(x, y1, '╌')
	}
	for y := y0; y <= y1; y += 2 {
		g.set(x0, y, '╎')
		g.set(x1, y, '╎')
	}
	for i, r := range grp.Label {
		g.set(x0+2+i, y0, r)
	}
}

func (m *editorModel) drawConnection(g *grid, v *canvas.Viewport, conn *canvas.Connection) {
	from, okFrom := m.cv.Node(conn.From)
	to, okTo := m.cv.Node(conn.To)
	if !okFrom || !okTo {
		return
	}

	fb, tb := from.Bounds(), to.Bounds()
	x0, y0 := toCell(v, geometry.Point{X: fb.CenterX(), Y: fb.CenterY()})
	x1, y1 := toCell(v, geometry.Point{X: tb.CenterX(), Y: tb.CenterY()})

	r := '·'
	if conn.Selected {
		r = '●'
	}
	drawLine(g, x0, y0, x1, y1, r)
}

func (m *editorModel) drawSnapLine(g *grid, v *canvas.Viewport, line canvas.SnapLine) {
	x0, y0 := toCell(v, line.From)
	x1, y1 := toCell(v, line.To)
	if line.Orientation == canvas.Vertical {
		for y := min(y0, y1); y <= max(y0, y1); y++ {
			g.set(x0, y, '┆')
		}
		return
	}
	for x := min(x0, x1); x <= max(x0, x1); x++ {
		g.set(x, y0, '┄')
	}
}

func (m *editorModel) drawWorldRect(g *grid, v *canvas.Viewport, r geometry.Rect, ch rune) {
	x0, y0 := toCell(v, geometry.Point{X: r.X, Y: r.Y})
	x1, y1 := toCell(v, geometry.Point{X: r.Right(), Y: r.Bottom()})
	for x := x0; x <= x1; x++ {
		g.set(x, y0, ch)
		g.set(x, y1, ch)
	}
	for y := y0; y <= y1; y++ {
		g.set(x0, y, ch)
		g.set(x1, y, ch)
	}
}

func drawBox(g *grid, x0, y0, x1, y1 int, border [6]rune) {
	g.set(x0, y0, border[0])
	g.set(x1, y0, border[2])
	g.set(x0, y1, border[4])
	g.set(x1, y1, border[5])
	for x := x0 + 1; x < x1; x++ {
		g.set(x, y0, border[1])
		g.set(x, y1, border[1])
	}
	for y := y0 + 1; y < y1; y++ {
		g.set(x0, y, border[3])
		g.set(x1, y, border[3])
	}
}

// drawLine rasterizes a straight segment with Bresenham stepping.
func drawLine(g *grid, x0, y0, x1, y1 int, r rune) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		g.set(x0, y0, r)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
