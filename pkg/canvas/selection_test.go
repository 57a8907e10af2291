package canvas

import (
	"slices"
	"testing"

	"github.com/flowboardhq/flowboard/pkg/geometry"
)

// buildCanvas creates a canvas with nodes at fixed positions for selection
// and drag tests. Node IDs are "a", "b", "c" so sorted iteration is stable.
func buildCanvas(t *testing.T, opts ...Option) *Canvas {
	t.Helper()
	c := New(opts...)
	nodes := []Node{
		{ID: "a", Position: geometry.Point{X: 0, Y: 0}, Width: 100, Height: 100},
		{ID: "b", Position: geometry.Point{X: 300, Y: 0}, Width: 100, Height: 100},
		{ID: "c", Position: geometry.Point{X: 0, Y: 300}, Width: 100, Height: 100},
	}
	for _, n := range nodes {
		if _, err := c.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	return c
}

func TestMarqueeMembership(t *testing.T) {
	c := buildCanvas(t)

	c.BeginMarquee(geometry.Point{X: -10, Y: -10})
	c.UpdateMarquee(geometry.Point{X: 150, Y: 150})
	if box := c.SelectionBox(); box == nil {
		t.Fatal("marquee box missing while gesture active")
	}
	c.EndMarquee(false)

	if got := c.SelectedNodes(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("selected = %v, want [a]", got)
	}
	if c.SelectionBox() != nil {
		t.Error("marquee box must be cleared after EndMarquee")
	}
}

func TestMarqueeBoundarySemantics(t *testing.T) {
	c := buildCanvas(t)

	// Box ends exactly at node a's left edge (x=0): shared boundary, zero
	// overlap area, not selected.
	c.BeginMarquee(geometry.Point{X: -50, Y: -50})
	c.UpdateMarquee(geometry.Point{X: 0, Y: 50})
	c.EndMarquee(false)
	if got := c.SelectedNodes(); len(got) != 0 {
		t.Errorf("edge-touching marquee selected %v, want none", got)
	}

	// One unit of overlap selects.
	c.BeginMarquee(geometry.Point{X: -50, Y: -50})
	c.UpdateMarquee(geometry.Point{X: 1, Y: 50})
	c.EndMarquee(false)
	if got := c.SelectedNodes(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("1-unit overlap selected %v, want [a]", got)
	}
}

func TestMarqueeZeroAreaIsNoChange(t *testing.T) {
	c := buildCanvas(t)
	c.SelectNode("b", false)

	c.BeginMarquee(geometry.Point{X: 50, Y: 50})
	c.EndMarquee(false)

	if got := c.SelectedNodes(); !slices.Equal(got, []string{"b"}) {
		t.Errorf("zero-area marquee changed selection to %v", got)
	}
}

func TestMarqueeAdditive(t *testing.T) {
	c := buildCanvas(t)
	c.SelectNode("b", false)

	c.BeginMarquee(geometry.Point{X: -10, Y: -10})
	c.UpdateMarquee(geometry.Point{X: 150, Y: 150})
	c.EndMarquee(true)

	if got := c.SelectedNodes(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("additive marquee selected %v, want [a b]", got)
	}

	// Non-additive replaces.
	c.BeginMarquee(geometry.Point{X: 250, Y: -10})
	c.UpdateMarquee(geometry.Point{X: 450, Y: 150})
	c.EndMarquee(false)
	if got := c.SelectedNodes(); !slices.Equal(got, []string{"b"}) {
		t.Errorf("replacing marquee selected %v, want [b]", got)
	}
}

func TestMarqueeInvertedDrag(t *testing.T) {
	c := buildCanvas(t)

	// Dragging up-left from below node a still spans it.
	c.BeginMarquee(geometry.Point{X: 150, Y: 150})
	c.UpdateMarquee(geometry.Point{X: -10, Y: -10})
	c.EndMarquee(false)
	if got := c.SelectedNodes(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("inverted marquee selected %v, want [a]", got)
	}
}

func TestMarqueeMissingBoundsExcluded(t *testing.T) {
	// Bounds resolver that pretends node "a" is virtualized away.
	c := buildCanvas(t, WithBounds(func(id string) (geometry.Rect, bool) {
		if id == "a" {
			return geometry.Rect{}, false
		}
		return geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}, true
	}))

	c.BeginMarquee(geometry.Point{X: -1000, Y: -1000})
	c.UpdateMarquee(geometry.Point{X: 1000, Y: 1000})
	c.EndMarquee(false)

	if got := c.SelectedNodes(); slices.Contains(got, "a") {
		t.Errorf("node without rendered bounds selected: %v", got)
	}
}

func TestMarqueeSelectsGroups(t *testing.T) {
	c := buildCanvas(t)
	c.AddGroup(Group{ID: "g1", Position: geometry.Point{X: 280, Y: -20}, Size: geometry.Size{Width: 200, Height: 200}, NodeIDs: []string{"b"}})

	c.BeginMarquee(geometry.Point{X: 250, Y: -30})
	c.UpdateMarquee(geometry.Point{X: 500, Y: 250})
	c.EndMarquee(false)

	if got := c.SelectedGroups(); !slices.Equal(got, []string{"g1"}) {
		t.Errorf("selected groups = %v, want [g1]", got)
	}
}

func TestUpdateMarqueeWhileIdle(t *testing.T) {
	c := buildCanvas(t)
	c.UpdateMarquee(geometry.Point{X: 10, Y: 10})
	if c.SelectionBox() != nil {
		t.Error("Update while idle must not create a box")
	}
	c.EndMarquee(false) // must not panic or change selection
	if got := c.SelectedNodes(); len(got) != 0 {
		t.Errorf("idle EndMarquee changed selection: %v", got)
	}
}

func TestClickSelection(t *testing.T) {
	c := buildCanvas(t)
	c.AddGroup(Group{ID: "g1", Position: geometry.Point{X: 280, Y: -20}, Size: geometry.Size{Width: 200, Height: 200}})

	c.SelectNode("a", false)
	if got := c.SelectedNodes(); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("selected = %v, want [a]", got)
	}
	if c.ActiveNode() != "a" {
		t.Errorf("active node = %q, want a", c.ActiveNode())
	}

	// Multi toggles only the target.
	c.SelectNode("b", true)
	if got := c.SelectedNodes(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("selected = %v, want [a b]", got)
	}
	c.SelectNode("b", true)
	if got := c.SelectedNodes(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("selected after toggle-off = %v, want [a]", got)
	}

	// Selecting a group non-multi deselects all nodes (cross-category
	// exclusivity), and vice versa.
	c.SelectGroup("g1", false)
	if got := c.SelectedNodes(); len(got) != 0 {
		t.Errorf("nodes still selected after group click: %v", got)
	}
	if got := c.SelectedGroups(); !slices.Equal(got, []string{"g1"}) {
		t.Errorf("selected groups = %v, want [g1]", got)
	}
	c.SelectNode("c", false)
	if got := c.SelectedGroups(); len(got) != 0 {
		t.Errorf("groups still selected after node click: %v", got)
	}
}

func TestConnectionSelectionExclusivity(t *testing.T) {
	c := buildCanvas(t)
	connID, err := c.Connect("a", "b")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	c.SelectConnection(connID, false)
	conns := c.Connections()
	if len(conns) != 1 || !conns[0].Selected {
		t.Fatal("connection not selected")
	}

	// A non-multi node click clears the pending connection selection.
	c.SelectNode("a", false)
	if c.Connections()[0].Selected {
		t.Error("connection selection survived a node click")
	}
}

func TestDeselectAll(t *testing.T) {
	c := buildCanvas(t)
	c.SelectNode("a", false)
	c.SelectNode("b", true)

	c.DeselectAll()
	if got := c.SelectedNodes(); len(got) != 0 {
		t.Errorf("selected after DeselectAll: %v", got)
	}
	if c.ActiveNode() != "" {
		t.Errorf("active node after DeselectAll: %q", c.ActiveNode())
	}
}

func TestStaleSelectionIsNoOp(t *testing.T) {
	c := buildCanvas(t)
	c.SelectNode("a", false)

	c.SelectNode("ghost", false)
	c.SelectGroup("ghost", false)
	c.SelectConnection("ghost", false)

	if got := c.SelectedNodes(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("stale select changed selection: %v", got)
	}
}
