package canvas

import (
	"math"

	"github.com/flowboardhq/flowboard/pkg/geometry"
	"github.com/flowboardhq/flowboard/pkg/observability"
)

// dragSession is the tagged union of active drag gestures. Exactly one
// session (or none) exists at a time; the two session kinds are mutually
// exclusive by construction, so a second pointer-down while a session is
// active cannot corrupt gesture state.
type dragSession interface {
	isDragSession()
}

// nodeDragSession drags a single node. The offset is recorded in screen
// space (pointer minus the node's projected position) so every frame can
// recover the intended world position from the latest pointer without
// accumulating drift.
type nodeDragSession struct {
	nodeID string
	offset geometry.Point // screen space
	moved  bool
}

func (*nodeDragSession) isDragSession() {}

// groupDragSession drags a group and all member nodes. Member positions are
// snapshotted once at gesture start; every frame recomputes them as
// snapshot + totalDelta (never previousFrame + increment), so the members
// move by one consistent delta with no compounding rounding error.
type groupDragSession struct {
	groupID string
	offset  geometry.Point            // world space: pointer minus group position
	initial geometry.Point            // group position at gesture start
	members map[string]geometry.Point // node ID -> world position at gesture start
	moved   bool
}

func (*groupDragSession) isDragSession() {}

// Dragger owns the transient drag session and the snap guides of the
// current frame. Like the Selector it holds no long-lived references into
// the collections; each operation receives the canvas.
type Dragger struct {
	session   dragSession
	snapLines []SnapLine
}

// Active reports whether a drag session is in progress.
func (d *Dragger) Active() bool { return d.session != nil }

// SnapLines returns the alignment guides computed by the last Move frame.
func (d *Dragger) SnapLines() []SnapLine { return d.snapLines }

// StartNode begins a single-node drag session from a screen-space pointer.
// Returns false (and does nothing) when a session is already active or the
// node no longer exists.
func (d *Dragger) StartNode(c *Canvas, id string, pointer geometry.Point) bool {
	if d.session != nil {
		return false
	}
	n, ok := c.nodes[id]
	if !ok {
		return false
	}
	d.session = &nodeDragSession{
		nodeID: id,
		offset: pointer.Sub(c.viewport.WorldToScreen(n.Position)),
	}
	return true
}

// StartGroup begins a group drag session from a screen-space pointer,
// snapshotting the initial world position of every member node. Returns
// false when a session is already active or the group no longer exists.
func (d *Dragger) StartGroup(c *Canvas, id string, pointer geometry.Point) bool {
	if d.session != nil {
		return false
	}
	g, ok := c.groups[id]
	if !ok {
		return false
	}
	members := make(map[string]geometry.Point, len(g.NodeIDs))
	for _, m := range g.NodeIDs {
		if n, ok := c.nodes[m]; ok {
			members[m] = n.Position
		}
	}
	d.session = &groupDragSession{
		groupID: id,
		offset:  c.viewport.ScreenToWorld(pointer).Sub(g.Position),
		initial: g.Position,
		members: members,
	}
	return true
}

// Move advances the active session to a new screen-space pointer position.
// The history checkpoint fires exactly once per session, on the first frame
// that actually changes geometry; a click that never moves the pointer
// creates no undo entry. Stale IDs drop the move silently.
func (d *Dragger) Move(c *Canvas, pointer geometry.Point) {
	if !pointer.IsFinite() {
		return
	}
	switch s := d.session.(type) {
	case *nodeDragSession:
		d.moveNode(c, s, pointer)
	case *groupDragSession:
		d.moveGroup(c, s, pointer)
	}
}

// End completes the session, unconditionally clearing snap guides so no
// transient visual state leaks into idle. Returns true when a session was
// actually ended.
func (d *Dragger) End() bool {
	if d.session == nil {
		return false
	}
	d.session = nil
	d.snapLines = nil
	return true
}

func (d *Dragger) moveNode(c *Canvas, s *nodeDragSession, pointer geometry.Point) {
	n, ok := c.nodes[s.nodeID]
	if !ok {
		return
	}

	candidate := c.viewport.ScreenToWorld(pointer.Sub(s.offset))
	if !c.snapDisabled {
		var lines []SnapLine
		candidate, lines = d.snapCandidate(c, n, candidate)
		d.snapLines = lines
	}

	if candidate == n.Position {
		return
	}
	if !s.moved {
		s.moved = true
		observability.Canvas().OnCheckpoint()
		c.checkpoint()
	}
	n.Position = candidate
}

func (d *Dragger) moveGroup(c *Canvas, s *groupDragSession, pointer geometry.Point) {
	g, ok := c.groups[s.groupID]
	if !ok {
		return
	}

	newPos := c.viewport.ScreenToWorld(pointer).Sub(s.offset)
	if newPos == g.Position {
		return
	}
	totalDelta := newPos.Sub(s.initial)
	if !s.moved {
		s.moved = true
		observability.Canvas().OnCheckpoint()
		c.checkpoint()
	}

	g.Position = newPos
	for id, initial := range s.members {
		if n, ok := c.nodes[id]; ok {
			n.Position = initial.Add(totalDelta)
		}
	}
}

// snapCandidate applies snap-to-neighbor alignment to a candidate node
// position. The dragged node's left/center/right x and top/center/bottom y
// coordinates are compared against the same six reference coordinates of
// every other unselected node; a pair within the zoom-adjusted threshold
// (SnapThreshold screen pixels divided by zoom, keeping the visual distance
// constant) shifts the candidate by the exact residual so the coordinates
// become equal. At most one snap applies per axis per frame; the first match
// wins and the axes are independent. A guide line spanning the overlap
// region of both nodes, extended by SnapLineMargin, is emitted per snap.
func (d *Dragger) snapCandidate(c *Canvas, n *Node, candidate geometry.Point) (geometry.Point, []SnapLine) {
	w, h := n.EffectiveSize()
	threshold := SnapThreshold / c.viewport.Zoom()

	var lines []SnapLine
	snappedX, snappedY := false, false

	// Sorted iteration keeps "first match wins" deterministic.
	for _, other := range c.Nodes() {
		if other.ID == n.ID || other.Selected {
			continue
		}
		ob := other.Bounds()

		if !snappedX {
			candXs := [3]float64{candidate.X, candidate.X + w/2, candidate.X + w}
			otherXs := [3]float64{ob.X, ob.CenterX(), ob.Right()}
		xscan:
			for _, cx := range candXs {
				for _, ox := range otherXs {
					if math.Abs(ox-cx) <= threshold {
						candidate.X += ox - cx
						snappedX = true
						top := math.Min(candidate.Y, ob.Y) - SnapLineMargin
						bottom := math.Max(candidate.Y+h, ob.Bottom()) + SnapLineMargin
						lines = append(lines, SnapLine{
							Orientation: Vertical,
							From:        geometry.Point{X: ox, Y: top},
							To:          geometry.Point{X: ox, Y: bottom},
						})
						break xscan
					}
				}
			}
		}

		if !snappedY {
			candYs := [3]float64{candidate.Y, candidate.Y + h/2, candidate.Y + h}
			otherYs := [3]float64{ob.Y, ob.CenterY(), ob.Bottom()}
		yscan:
			for _, cy := range candYs {
				for _, oy := range otherYs {
					if math.Abs(oy-cy) <= threshold {
						candidate.Y += oy - cy
						snappedY = true
						left := math.Min(candidate.X, ob.X) - SnapLineMargin
						right := math.Max(candidate.X+w, ob.Right()) + SnapLineMargin
						lines = append(lines, SnapLine{
							Orientation: Horizontal,
							From:        geometry.Point{X: left, Y: oy},
							To:          geometry.Point{X: right, Y: oy},
						})
						break yscan
					}
				}
			}
		}

		if snappedX && snappedY {
			break
		}
	}

	return candidate, lines
}
