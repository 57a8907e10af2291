package canvas

import "github.com/flowboardhq/flowboard/pkg/geometry"

// selectionState is the marquee state machine: idle or marquee-active.
// Keeping it an explicit enum (rather than a nullable box) makes a second
// concurrent marquee unrepresentable.
type selectionState int

const (
	selectionIdle selectionState = iota
	selectionMarquee
)

// Selector owns the transient marquee gesture and applies click selection.
// It holds no references into the node/group collections; every operation
// receives the canvas so membership is always computed against the latest
// authoritative state.
type Selector struct {
	state  selectionState
	anchor geometry.Point
	box    geometry.Rect // world space, valid while state == selectionMarquee
}

// Start transitions idle → marquee-active, anchoring the marquee at a
// world-space point with an initial zero-size box. Ignored while a marquee
// is already active.
func (s *Selector) Start(world geometry.Point) {
	if s.state != selectionIdle {
		return
	}
	s.state = selectionMarquee
	s.anchor = world
	s.box = geometry.Rect{X: world.X, Y: world.Y}
}

// Update recomputes the marquee as the axis-aligned rectangle spanning the
// anchor and the current world point. No-op while idle.
func (s *Selector) Update(world geometry.Point) {
	if s.state != selectionMarquee {
		return
	}
	s.box = geometry.FromCorners(s.anchor, world)
}

// Box returns the active marquee rectangle, or nil while idle.
func (s *Selector) Box() *geometry.Rect {
	if s.state != selectionMarquee {
		return nil
	}
	box := s.box
	return &box
}

// Active reports whether a marquee gesture is in progress.
func (s *Selector) Active() bool { return s.state == selectionMarquee }

// End transitions back to idle and applies the marquee membership. A node or
// group is a member when its rendered bounds overlap the box with positive
// area (open-interval intersection, so exactly touching the box edge does
// not select). Elements whose bounds cannot be resolved are excluded for
// this gesture. A zero-area box changes no selection. When additive is true
// the previous selection is kept and unioned with the membership; otherwise
// it is replaced. The box is cleared unconditionally.
func (s *Selector) End(c *Canvas, additive bool) {
	if s.state != selectionMarquee {
		return
	}
	box := s.box
	s.state = selectionIdle
	s.box = geometry.Rect{}

	if box.Empty() {
		return
	}

	for id, n := range c.nodes {
		hit := false
		if bounds, ok := c.bounds(id); ok {
			hit = box.Intersects(bounds)
		}
		if additive {
			n.Selected = n.Selected || hit
		} else {
			n.Selected = hit
		}
	}
	for id, g := range c.groups {
		hit := false
		if bounds, ok := c.bounds(id); ok {
			hit = box.Intersects(bounds)
		}
		if additive {
			g.Selected = g.Selected || hit
		} else {
			g.Selected = hit
		}
	}
}

// SelectNode applies click-selection to a node. Without multi, every other
// node, group and connection is deselected first (single-selection
// exclusivity across categories) and the node becomes selected and active.
// With multi, only the node's own flag is toggled. Stale IDs are a silent
// no-op.
func (s *Selector) SelectNode(c *Canvas, id string, multi bool) {
	n, ok := c.nodes[id]
	if !ok {
		return
	}
	if multi {
		n.Selected = !n.Selected
	} else {
		s.clearAll(c)
		n.Selected = true
	}
	c.activeNodeID = id
}

// SelectGroup applies click-selection to a group, with the same multi
// semantics as SelectNode. Stale IDs are a silent no-op.
func (s *Selector) SelectGroup(c *Canvas, id string, multi bool) {
	g, ok := c.groups[id]
	if !ok {
		return
	}
	if multi {
		g.Selected = !g.Selected
	} else {
		s.clearAll(c)
		g.Selected = true
	}
}

// SelectConnection applies click-selection to a connection, with the same
// multi semantics as SelectNode. Stale IDs are a silent no-op.
func (s *Selector) SelectConnection(c *Canvas, id string, multi bool) {
	conn, ok := c.connections[id]
	if !ok {
		return
	}
	if multi {
		conn.Selected = !conn.Selected
	} else {
		s.clearAll(c)
		conn.Selected = true
	}
}

// DeselectAll clears every node/group/connection selection flag and the
// active-node marker.
func (s *Selector) DeselectAll(c *Canvas) {
	s.clearAll(c)
	c.activeNodeID = ""
}

func (s *Selector) clearAll(c *Canvas) {
	for _, n := range c.nodes {
		n.Selected = false
	}
	for _, g := range c.groups {
		g.Selected = false
	}
	for _, conn := range c.connections {
		conn.Selected = false
	}
}
