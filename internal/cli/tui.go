package cli

import (
	"context"
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowboardhq/flowboard/pkg/canvas"
	"github.com/flowboardhq/flowboard/pkg/geometry"
	"github.com/flowboardhq/flowboard/pkg/history"
	"github.com/flowboardhq/flowboard/pkg/store"
	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// World pixels represented by one terminal cell at zoom 1. Cells are about
// twice as tall as wide, so the vertical factor is doubled to keep node
// proportions roughly square on screen.
const (
	cellPxX = 10.0
	cellPxY = 20.0

	// wheelDelta is the synthetic scroll amount per wheel tick, matching
	// typical browser wheel deltas so ctrl+wheel zoom steps feel familiar.
	wheelDelta = 120.0

	// panStep is the viewport pan per keypress, in screen pixels.
	panStep = 40.0

	// zoomStep is the zoom change per +/- keypress.
	zoomStep = 0.1
)

// Status bar styles.
var (
	statusBarStyle  = lipgloss.NewStyle().Reverse(true)
	statusDirtyMark = lipgloss.NewStyle().Bold(true).Render("*")
)

// =============================================================================
// editorModel - Interactive Canvas Editor
// =============================================================================

// editorModel is the bubbletea model for the canvas editor. It owns the
// canvas, the undo history and the store handle; all gesture handling is
// delegated to the canvas controllers.
type editorModel struct {
	cv   *canvas.Canvas
	hist *history.Stack[workflow.Workflow]
	st   store.Store

	id   string
	name string

	width  int
	height int

	// additive records whether the current marquee started with shift held,
	// since the release event does not reliably carry modifiers.
	additive bool

	dirty   bool
	status  string
	saveErr error
}

// newEditorModel builds an editor over the given document.
func newEditorModel(wf workflow.Workflow, st store.Store, cfg CanvasConfig) (*editorModel, error) {
	m := &editorModel{
		st:     st,
		id:     wf.ID,
		name:   wf.Name,
		hist:   history.New[workflow.Workflow](cfg.HistoryLimit),
		status: "ready",
	}

	cv, err := workflow.Apply(wf,
		canvas.WithCheckpoint(m.checkpoint),
		canvas.WithSnap(cfg.Snap),
	)
	if err != nil {
		return nil, err
	}
	m.cv = cv
	return m, nil
}

// checkpoint pushes the current document onto the undo stack. Invoked by
// the canvas on the first geometry-changing frame of a drag, and directly
// by structural edits (add, delete, connect, group).
func (m *editorModel) checkpoint() {
	m.hist.Checkpoint(m.snapshot())
	m.dirty = true
}

func (m *editorModel) snapshot() workflow.Workflow {
	return workflow.FromCanvas(m.cv, m.id, m.name)
}

// restore replaces the canvas with the given snapshot, keeping the current
// viewport so undo never jumps the camera.
func (m *editorModel) restore(wf workflow.Workflow) {
	v := m.cv.Viewport()
	cv, err := workflow.Apply(wf,
		canvas.WithCheckpoint(m.checkpoint),
		canvas.WithViewport(v.Pan(), v.Zoom()),
	)
	if err != nil {
		m.status = "restore failed: " + err.Error()
		return
	}
	m.cv = cv
	m.dirty = true
}

func (m *editorModel) Init() tea.Cmd {
	return nil
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		m.updateMouse(msg)
	}
	return m, nil
}

func (m *editorModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.cv.Viewport()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "ctrl+s":
		m.save()

	case "ctrl+z":
		if snap, ok := m.hist.Undo(m.snapshot()); ok {
			m.restore(snap)
			m.status = "undo"
		} else {
			m.status = "nothing to undo"
		}

	case "ctrl+y":
		if snap, ok := m.hist.Redo(m.snapshot()); ok {
			m.restore(snap)
			m.status = "redo"
		} else {
			m.status = "nothing to redo"
		}

	case "esc":
		m.cv.EndDrag()
		m.cv.DeselectAll()

	case "up", "k":
		v.PanBy(geometry.Point{Y: panStep})
	case "down", "j":
		v.PanBy(geometry.Point{Y: -panStep})
	case "left", "h":
		v.PanBy(geometry.Point{X: panStep})
	case "right", "l":
		v.PanBy(geometry.Point{X: -panStep})

	case "+", "=":
		v.ZoomAround(zoomStep, m.viewCenter())
	case "-", "_":
		v.ZoomAround(-zoomStep, m.viewCenter())

	case "n":
		m.addNode()

	case "c":
		m.connectSelection()

	case "g":
		m.groupSelection()

	case "x", "delete", "backspace":
		m.deleteSelection()
	}
	return m, nil
}

func (m *editorModel) updateMouse(msg tea.MouseMsg) {
	pointer := geometry.Point{X: float64(msg.X) * cellPxX, Y: float64(msg.Y) * cellPxY}
	v := m.cv.Viewport()

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.Action != tea.MouseActionPress {
			return
		}
		delta := wheelDelta
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -wheelDelta
		}
		if msg.Ctrl {
			v.Wheel(canvas.WheelEvent{Pointer: pointer, DeltaY: delta, Accel: true})
		} else {
			// Plain wheel scrolls the canvas vertically.
			v.PanBy(geometry.Point{Y: -delta})
		}
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.press(pointer, msg.Shift)
		}
	case tea.MouseActionMotion:
		if m.cv.Dragging() {
			m.cv.DragMove(pointer)
		} else if m.cv.SelectionBox() != nil {
			m.cv.UpdateMarquee(v.ScreenToWorld(pointer))
		}
	case tea.MouseActionRelease:
		if m.cv.Dragging() {
			m.cv.EndDrag()
		} else if m.cv.SelectionBox() != nil {
			m.cv.EndMarquee(m.additive)
		}
	}
}

// press routes a left press: grab a node, grab a group, or start a marquee
// on empty canvas.
func (m *editorModel) press(pointer geometry.Point, shift bool) {
	world := m.cv.Viewport().ScreenToWorld(pointer)

	if id, ok := m.nodeAt(world); ok {
		m.cv.SelectNode(id, shift)
		m.cv.StartNodeDrag(id, pointer)
		return
	}
	if id, ok := m.connectionAt(pointer); ok {
		m.cv.SelectConnection(id, shift)
		return
	}
	if id, ok := m.groupAt(world); ok {
		m.cv.SelectGroup(id, shift)
		m.cv.StartGroupDrag(id, pointer)
		return
	}

	m.additive = shift
	m.cv.BeginMarquee(world)
}

// nodeAt returns the last node (in ID order) whose bounds contain the world
// point, so consistent ordering decides between overlapping nodes.
func (m *editorModel) nodeAt(world geometry.Point) (string, bool) {
	id, found := "", false
	for _, n := range m.cv.Nodes() {
		if n.Bounds().Contains(world) {
			id, found = n.ID, true
		}
	}
	return id, found
}

// connectionAt returns the connection whose rendered segment passes within
// half a cell of the screen-space pointer, preferring the closest one.
func (m *editorModel) connectionAt(pointer geometry.Point) (string, bool) {
	const threshold = cellPxY / 2
	v := m.cv.Viewport()

	id, best := "", math.Inf(1)
	for _, conn := range m.cv.Connections() {
		from, okFrom := m.cv.Node(conn.From)
		to, okTo := m.cv.Node(conn.To)
		if !okFrom || !okTo {
			continue
		}
		fb, tb := from.Bounds(), to.Bounds()
		a := v.WorldToScreen(geometry.Point{X: fb.CenterX(), Y: fb.CenterY()})
		b := v.WorldToScreen(geometry.Point{X: tb.CenterX(), Y: tb.CenterY()})
		if d := segmentDistance(pointer, a, b); d <= threshold && d < best {
			id, best = conn.ID, d
		}
	}
	return id, id != ""
}

// segmentDistance returns the distance from p to the segment ab.
func segmentDistance(p, a, b geometry.Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		d := p.Sub(a)
		return math.Hypot(d.X, d.Y)
	}
	ap := p.Sub(a)
	t := geometry.Clamp((ap.X*ab.X+ap.Y*ab.Y)/lenSq, 0, 1)
	closest := geometry.Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
	d := p.Sub(closest)
	return math.Hypot(d.X, d.Y)
}

func (m *editorModel) groupAt(world geometry.Point) (string, bool) {
	id, found := "", false
	for _, g := range m.cv.Groups() {
		if g.Bounds().Contains(world) {
			id, found = g.ID, true
		}
	}
	return id, found
}

// viewCenter returns the screen-space center of the canvas area.
func (m *editorModel) viewCenter() geometry.Point {
	return geometry.Point{
		X: float64(m.width) * cellPxX / 2,
		Y: float64(m.height-1) * cellPxY / 2,
	}
}

func (m *editorModel) addNode() {
	m.checkpoint()
	world := m.cv.Viewport().ScreenToWorld(m.viewCenter())
	id, err := m.cv.AddNode(canvas.Node{
		Label:    fmt.Sprintf("node %d", m.cv.NodeCount()+1),
		Position: world,
	})
	if err != nil {
		m.status = err.Error()
		return
	}
	m.cv.SelectNode(id, false)
	m.status = "added " + id[:8]
}

func (m *editorModel) connectSelection() {
	sel := m.cv.SelectedNodes()
	if len(sel) != 2 {
		m.status = "select exactly two nodes to connect"
		return
	}
	m.checkpoint()
	if _, err := m.cv.Connect(sel[0], sel[1]); err != nil {
		m.status = err.Error()
		return
	}
	m.dirty = true
	m.status = "connected"
}

func (m *editorModel) groupSelection() {
	sel := m.cv.SelectedNodes()
	if len(sel) < 2 {
		m.status = "select at least two nodes to group"
		return
	}
	m.checkpoint()

	// Group bounds cover the members with a margin.
	first := true
	var minX, minY, maxX, maxY float64
	for _, id := range sel {
		n, ok := m.cv.Node(id)
		if !ok {
			continue
		}
		b := n.Bounds()
		if first {
			minX, minY, maxX, maxY = b.X, b.Y, b.Right(), b.Bottom()
			first = false
			continue
		}
		minX = math.Min(minX, b.X)
		minY = math.Min(minY, b.Y)
		maxX = math.Max(maxX, b.Right())
		maxY = math.Max(maxY, b.Bottom())
	}

	const margin = 20.0
	m.cv.AddGroup(canvas.Group{
		Position: geometry.Point{X: minX - margin, Y: minY - margin},
		Size:     geometry.Size{Width: maxX - minX + 2*margin, Height: maxY - minY + 2*margin},
		NodeIDs:  sel,
	})
	m.dirty = true
	m.status = fmt.Sprintf("grouped %d nodes", len(sel))
}

func (m *editorModel) deleteSelection() {
	nodes := m.cv.SelectedNodes()
	groups := m.cv.SelectedGroups()
	var conns []string
	for _, conn := range m.cv.Connections() {
		if conn.Selected {
			conns = append(conns, conn.ID)
		}
	}
	if len(nodes) == 0 && len(groups) == 0 && len(conns) == 0 {
		m.status = "nothing selected"
		return
	}
	m.checkpoint()
	for _, id := range conns {
		m.cv.Disconnect(id)
	}
	for _, id := range nodes {
		m.cv.RemoveNode(id)
	}
	for _, id := range groups {
		m.cv.RemoveGroup(id)
	}
	m.dirty = true
	m.status = fmt.Sprintf("deleted %d nodes, %d groups, %d connections", len(nodes), len(groups), len(conns))
}

func (m *editorModel) save() {
	wf := m.snapshot()
	if err := m.st.Put(context.Background(), wf); err != nil {
		m.saveErr = err
		m.status = "save failed: " + err.Error()
		return
	}
	m.saveErr = nil
	m.dirty = false
	m.status = "saved " + m.id
}
