package canvas

import (
	"math"
	"testing"

	"github.com/flowboardhq/flowboard/pkg/geometry"
	"github.com/flowboardhq/flowboard/pkg/observability"
)

func TestNodeDragMovesNode(t *testing.T) {
	c := buildCanvas(t)

	// Grab node a 10,10 inside it and drag the pointer by (50, 25).
	c.StartNodeDrag("a", geometry.Point{X: 10, Y: 10})
	c.DragMove(geometry.Point{X: 60, Y: 35})
	c.EndDrag()

	n, _ := c.Node("a")
	if n.Position != (geometry.Point{X: 50, Y: 25}) {
		t.Errorf("position = %v, want {50 25}", n.Position)
	}
}

func TestNodeDragRespectsZoom(t *testing.T) {
	c := buildCanvas(t, WithViewport(geometry.Point{X: 40, Y: -10}, 2.0))

	// At zoom 2 a 100-pixel pointer move is a 50-unit world move.
	start := c.Viewport().WorldToScreen(geometry.Point{X: 0, Y: 0})
	c.StartNodeDrag("a", start)
	c.DragMove(geometry.Point{X: start.X + 100, Y: start.Y})
	c.EndDrag()

	n, _ := c.Node("a")
	if math.Abs(n.Position.X-50) > 1e-9 || math.Abs(n.Position.Y) > 1e-9 {
		t.Errorf("position = %v, want {50 0}", n.Position)
	}
}

func TestLazyCheckpoint(t *testing.T) {
	var checkpoints int
	c := buildCanvas(t, WithCheckpoint(func() { checkpoints++ }))

	// Click without movement: no checkpoint.
	c.StartNodeDrag("a", geometry.Point{X: 10, Y: 10})
	c.EndDrag()
	if checkpoints != 0 {
		t.Fatalf("checkpoints after no-op click = %d, want 0", checkpoints)
	}

	// One drag with many moves: exactly one checkpoint.
	c.StartNodeDrag("a", geometry.Point{X: 10, Y: 10})
	for i := 1; i <= 20; i++ {
		c.DragMove(geometry.Point{X: 10 + float64(i), Y: 10})
	}
	c.EndDrag()
	if checkpoints != 1 {
		t.Errorf("checkpoints after moving drag = %d, want 1", checkpoints)
	}

	// A stationary move (pointer back at the grab point, no geometry
	// change) does not checkpoint.
	checkpoints = 0
	c.StartNodeDrag("b", geometry.Point{X: 310, Y: 10})
	c.DragMove(geometry.Point{X: 310, Y: 10})
	c.EndDrag()
	if checkpoints != 0 {
		t.Errorf("checkpoints after stationary move = %d, want 0", checkpoints)
	}
}

type checkpointCountingHooks struct {
	observability.NoopCanvasHooks
	checkpoints int
}

func (h *checkpointCountingHooks) OnCheckpoint() { h.checkpoints++ }

func TestCheckpointReportsToHooks(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	hooks := &checkpointCountingHooks{}
	observability.SetCanvasHooks(hooks)

	c := buildCanvas(t)
	c.StartNodeDrag("a", geometry.Point{X: 10, Y: 10})
	for i := 1; i <= 5; i++ {
		c.DragMove(geometry.Point{X: 10 + float64(i), Y: 10})
	}
	c.EndDrag()
	if hooks.checkpoints != 1 {
		t.Errorf("hook checkpoints after node drag = %d, want 1", hooks.checkpoints)
	}

	c.AddGroup(Group{ID: "g1", Position: geometry.Point{X: 0, Y: 0}, Size: geometry.Size{Width: 200, Height: 200}, NodeIDs: []string{"a"}})
	c.StartGroupDrag("g1", geometry.Point{X: 50, Y: 50})
	c.DragMove(geometry.Point{X: 80, Y: 50})
	c.EndDrag()
	if hooks.checkpoints != 2 {
		t.Errorf("hook checkpoints after group drag = %d, want 2", hooks.checkpoints)
	}
}

func TestGroupDragLazyCheckpoint(t *testing.T) {
	var checkpoints int
	c := buildCanvas(t, WithCheckpoint(func() { checkpoints++ }))
	c.AddGroup(Group{ID: "g1", Position: geometry.Point{X: -20, Y: -20}, Size: geometry.Size{Width: 200, Height: 200}, NodeIDs: []string{"a"}})

	c.StartGroupDrag("g1", geometry.Point{X: 0, Y: 0})
	c.EndDrag()
	if checkpoints != 0 {
		t.Fatalf("checkpoints after no-op group click = %d, want 0", checkpoints)
	}

	c.StartGroupDrag("g1", geometry.Point{X: 0, Y: 0})
	c.DragMove(geometry.Point{X: 5, Y: 5})
	c.DragMove(geometry.Point{X: 9, Y: 2})
	c.EndDrag()
	if checkpoints != 1 {
		t.Errorf("checkpoints after moving group drag = %d, want 1", checkpoints)
	}
}

func TestGroupDragDeltaInvariance(t *testing.T) {
	c := buildCanvas(t)
	c.AddGroup(Group{
		ID:       "g1",
		Position: geometry.Point{X: -20, Y: -20},
		Size:     geometry.Size{Width: 450, Height: 450},
		NodeIDs:  []string{"a", "b", "c"},
	})

	initial := map[string]geometry.Point{}
	for _, id := range []string{"a", "b", "c"} {
		n, _ := c.Node(id)
		initial[id] = n.Position
	}

	// Drag in 100 irregular increments converging on the final pointer.
	start := geometry.Point{X: 0, Y: 0}
	final := geometry.Point{X: 333.33, Y: -218.7}
	c.StartGroupDrag("g1", start)
	for i := 1; i <= 100; i++ {
		f := float64(i) / 100
		wobble := math.Sin(float64(i)) * 17 * (1 - f)
		c.DragMove(geometry.Point{
			X: start.X + (final.X-start.X)*f + wobble,
			Y: start.Y + (final.Y-start.Y)*f - wobble,
		})
	}
	c.DragMove(final)
	c.EndDrag()

	// Every member moved by exactly the group's total displacement, with no
	// compounding error from the intermediate frames.
	g, _ := c.Group("g1")
	delta := g.Position.Sub(geometry.Point{X: -20, Y: -20})
	for _, id := range []string{"a", "b", "c"} {
		n, _ := c.Node(id)
		want := initial[id].Add(delta)
		if n.Position != want {
			t.Errorf("node %s position = %v, want exactly %v", id, n.Position, want)
		}
	}

	// And the delta matches a single direct computation from the pointer.
	wantDelta := final.Sub(start)
	if math.Abs(delta.X-wantDelta.X) > 1e-9 || math.Abs(delta.Y-wantDelta.Y) > 1e-9 {
		t.Errorf("group delta = %v, want %v", delta, wantDelta)
	}
}

func TestGroupDragSkipsNonMembers(t *testing.T) {
	c := buildCanvas(t)
	c.AddGroup(Group{ID: "g1", Position: geometry.Point{X: -20, Y: -20}, Size: geometry.Size{Width: 200, Height: 200}, NodeIDs: []string{"a"}})

	c.StartGroupDrag("g1", geometry.Point{X: 0, Y: 0})
	c.DragMove(geometry.Point{X: 40, Y: 40})
	c.EndDrag()

	b, _ := c.Node("b")
	if b.Position != (geometry.Point{X: 300, Y: 0}) {
		t.Errorf("non-member moved to %v", b.Position)
	}
}

func TestSnapRightEdgeScenario(t *testing.T) {
	// Node a at (0,0) 100x100, node b at (108,0) 100x100, zoom 1. Dragging a
	// toward x=106 puts its left edge within the 8px threshold of b's left
	// edge at 108, so a snaps to x=108 with a vertical guide at that x.
	c := New()
	c.AddNode(Node{ID: "a", Position: geometry.Point{X: 0, Y: 0}, Width: 100, Height: 100})
	c.AddNode(Node{ID: "b", Position: geometry.Point{X: 108, Y: 0}, Width: 100, Height: 100})

	c.StartNodeDrag("a", geometry.Point{X: 0, Y: 0})
	c.DragMove(geometry.Point{X: 106, Y: 0})

	a, _ := c.Node("a")
	if a.Position.X != 108 {
		t.Errorf("snapped x = %v, want 108", a.Position.X)
	}

	var vertical []SnapLine
	for _, l := range c.SnapLines() {
		if l.Orientation == Vertical {
			vertical = append(vertical, l)
		}
	}
	if len(vertical) != 1 {
		t.Fatalf("vertical snap lines = %d, want 1", len(vertical))
	}
	if vertical[0].From.X != 108 || vertical[0].To.X != 108 {
		t.Errorf("vertical guide at x=%v, want 108", vertical[0].From.X)
	}

	c.EndDrag()
	if len(c.SnapLines()) != 0 {
		t.Error("snap lines must be cleared on drag end")
	}
}

func TestSnapThresholdScalesWithZoom(t *testing.T) {
	// The snap threshold is 8 screen pixels divided by zoom, so a fixed
	// 5-world-unit misalignment is 10 screen px at zoom 2 (no snap) but
	// 2.5 screen px at zoom 0.5 (snap).
	build := func(zoom float64) *Canvas {
		c := New(WithViewport(geometry.Point{}, zoom))
		c.AddNode(Node{ID: "a", Position: geometry.Point{X: 0, Y: 0}, Width: 100, Height: 100})
		c.AddNode(Node{ID: "b", Position: geometry.Point{X: 400, Y: 205}, Width: 100, Height: 100})
		return c
	}

	// Candidate top y=200 vs b's top y=205: 5 world units apart.
	dragTo := func(c *Canvas) geometry.Point {
		start := c.Viewport().WorldToScreen(geometry.Point{X: 0, Y: 0})
		c.StartNodeDrag("a", start)
		c.DragMove(c.Viewport().WorldToScreen(geometry.Point{X: 0, Y: 200}))
		n, _ := c.Node("a")
		c.EndDrag()
		return n.Position
	}

	if pos := dragTo(build(2.0)); pos.Y != 200 {
		t.Errorf("zoom 2.0: y = %v, want 200 (no snap)", pos.Y)
	}
	if pos := dragTo(build(0.5)); pos.Y != 205 {
		t.Errorf("zoom 0.5: y = %v, want 205 (snap)", pos.Y)
	}
}

func TestSnapIgnoresSelectedNodes(t *testing.T) {
	c := New()
	c.AddNode(Node{ID: "a", Position: geometry.Point{X: 0, Y: 0}, Width: 100, Height: 100})
	c.AddNode(Node{ID: "b", Position: geometry.Point{X: 108, Y: 0}, Width: 100, Height: 100})
	c.SelectNode("b", false)
	c.SelectNode("a", true)

	c.StartNodeDrag("a", geometry.Point{X: 0, Y: 0})
	c.DragMove(geometry.Point{X: 106, Y: 0})
	c.EndDrag()

	a, _ := c.Node("a")
	if a.Position.X != 106 {
		t.Errorf("x = %v, want 106 (selected neighbors do not snap)", a.Position.X)
	}
}

func TestSnapOncePerAxis(t *testing.T) {
	// Two unselected neighbors both within threshold; only the first match
	// per axis applies.
	c := New()
	c.AddNode(Node{ID: "a", Position: geometry.Point{X: 0, Y: 0}, Width: 100, Height: 100})
	c.AddNode(Node{ID: "b", Position: geometry.Point{X: 104, Y: 300}, Width: 100, Height: 100})
	c.AddNode(Node{ID: "c", Position: geometry.Point{X: 107, Y: 300}, Width: 100, Height: 100})

	c.StartNodeDrag("a", geometry.Point{X: 0, Y: 0})
	c.DragMove(geometry.Point{X: 100, Y: 0})
	defer c.EndDrag()

	a, _ := c.Node("a")
	if a.Position.X != 104 {
		t.Errorf("x = %v, want 104 (first match wins)", a.Position.X)
	}

	var vertical int
	for _, l := range c.SnapLines() {
		if l.Orientation == Vertical {
			vertical++
		}
	}
	if vertical != 1 {
		t.Errorf("vertical guides = %d, want 1", vertical)
	}
}

func TestDragSessionExclusivity(t *testing.T) {
	c := buildCanvas(t)
	c.AddGroup(Group{ID: "g1", Position: geometry.Point{X: -20, Y: -20}, Size: geometry.Size{Width: 200, Height: 200}, NodeIDs: []string{"a"}})

	c.StartNodeDrag("a", geometry.Point{X: 0, Y: 0})
	// A second pointer-down while a session is active is ignored.
	c.StartGroupDrag("g1", geometry.Point{X: 0, Y: 0})
	c.DragMove(geometry.Point{X: 30, Y: 0})
	c.EndDrag()

	g, _ := c.Group("g1")
	if g.Position != (geometry.Point{X: -20, Y: -20}) {
		t.Errorf("group moved by ignored session: %v", g.Position)
	}
	a, _ := c.Node("a")
	if a.Position.X != 30 {
		t.Errorf("node drag lost: x = %v, want 30", a.Position.X)
	}
}

func TestDragStaleIDIsNoOp(t *testing.T) {
	var checkpoints int
	c := buildCanvas(t, WithCheckpoint(func() { checkpoints++ }))

	c.StartNodeDrag("ghost", geometry.Point{})
	if c.Dragging() {
		t.Error("stale node ID started a session")
	}

	// Node deleted mid-session: moves are dropped silently.
	c.StartNodeDrag("a", geometry.Point{X: 0, Y: 0})
	c.RemoveNode("a")
	c.DragMove(geometry.Point{X: 50, Y: 50})
	c.EndDrag()
	if checkpoints != 0 {
		t.Errorf("checkpoints for dropped moves = %d, want 0", checkpoints)
	}
}

func TestDragNaNPointerIgnored(t *testing.T) {
	c := buildCanvas(t)
	c.StartNodeDrag("a", geometry.Point{X: 0, Y: 0})
	c.DragMove(geometry.Point{X: math.NaN(), Y: 10})
	c.EndDrag()

	a, _ := c.Node("a")
	if a.Position != (geometry.Point{}) {
		t.Errorf("NaN pointer moved node to %v", a.Position)
	}
}

func TestSnapDisabled(t *testing.T) {
	c := New(WithSnap(false))
	c.AddNode(Node{ID: "a", Position: geometry.Point{X: 0, Y: 0}, Width: 100, Height: 100})
	c.AddNode(Node{ID: "b", Position: geometry.Point{X: 108, Y: 0}, Width: 100, Height: 100})

	c.StartNodeDrag("b", geometry.Point{X: 108, Y: 0})
	c.DragMove(geometry.Point{X: 106, Y: 0})

	b, _ := c.Node("b")
	if b.Position.X != 106 {
		t.Errorf("position snapped to %v with snapping disabled", b.Position.X)
	}
	if len(c.SnapLines()) != 0 {
		t.Errorf("snap guides emitted with snapping disabled: %d", len(c.SnapLines()))
	}
}
