package canvas

import (
	"github.com/google/uuid"

	"github.com/flowboardhq/flowboard/pkg/geometry"
)

// Default and limit dimensions for nodes, in world units. A node created
// without explicit dimensions renders at the default size; explicit
// dimensions are clamped into the min/max range.
const (
	DefaultNodeWidth  = 200.0
	DefaultNodeHeight = 120.0
	MinNodeWidth      = 80.0
	MinNodeHeight     = 60.0
	MaxNodeWidth      = 800.0
	MaxNodeHeight     = 600.0
)

// Zoom limits and wheel sensitivity.
const (
	MinZoom = 0.2
	MaxZoom = 2.0

	// WheelZoomFactor scales a wheel delta into a zoom delta. The sign is
	// inverted at the call site so that wheel-up zooms in.
	WheelZoomFactor = 0.001
)

// Snap tuning. SnapThreshold is in screen pixels; the drag controller
// divides it by the current zoom so the visual snap distance stays constant
// across zoom levels. SnapLineMargin extends guide lines past the bounds of
// the two aligned nodes for visibility.
const (
	SnapThreshold  = 8.0
	SnapLineMargin = 20.0
)

// Node is a single workflow unit placed on the canvas. Position is the
// top-left corner in world space. Width and Height of zero mean "use the
// defaults". Nodes are exclusively owned by the Canvas node collection;
// controllers request mutations through the Canvas and never hold
// long-lived pointers.
type Node struct {
	ID       string         // unique, stable identifier
	Kind     string         // generation unit kind, e.g. "text" or "image"
	Label    string         // display label
	Position geometry.Point // world space, top-left
	Width    float64        // 0 = DefaultNodeWidth
	Height   float64        // 0 = DefaultNodeHeight
	Selected bool
	GroupID  string // back-reference to containing group, never ownership
	Meta     map[string]any
}

// Bounds returns the node's world-space bounding rectangle using effective
// (defaulted, clamped) dimensions.
func (n *Node) Bounds() geometry.Rect {
	w, h := n.EffectiveSize()
	return geometry.Rect{X: n.Position.X, Y: n.Position.Y, Width: w, Height: h}
}

// EffectiveSize returns the node's rendered dimensions: defaults when unset,
// clamped into the allowed range otherwise.
func (n *Node) EffectiveSize() (w, h float64) {
	w, h = n.Width, n.Height
	if w == 0 {
		w = DefaultNodeWidth
	}
	if h == 0 {
		h = DefaultNodeHeight
	}
	w = geometry.Clamp(w, MinNodeWidth, MaxNodeWidth)
	h = geometry.Clamp(h, MinNodeHeight, MaxNodeHeight)
	return w, h
}

// Group is a named region containing member nodes. NodeIDs records
// membership only; deleting a group clears the members' GroupID
// back-references but never deletes the nodes themselves.
type Group struct {
	ID       string
	Label    string
	Position geometry.Point // world space, top-left of the bounding area
	Size     geometry.Size
	NodeIDs  []string
	Selected bool
}

// Bounds returns the group's world-space bounding rectangle.
func (g *Group) Bounds() geometry.Rect {
	return geometry.Rect{X: g.Position.X, Y: g.Position.Y, Width: g.Size.Width, Height: g.Size.Height}
}

// Contains reports whether the group currently lists id as a member.
func (g *Group) Contains(id string) bool {
	for _, m := range g.NodeIDs {
		if m == id {
			return true
		}
	}
	return false
}

// Connection is a directed edge between two nodes. Both endpoints must
// reference existing nodes; a connection with a dangling endpoint is invalid,
// is never rendered, and is eligible for pruning.
type Connection struct {
	ID       string
	From     string // source node ID
	To       string // target node ID
	Selected bool
}

// Orientation distinguishes vertical from horizontal snap guides.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// String returns "vertical" or "horizontal".
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// SnapLine is a transient alignment guide emitted during a single-node drag
// when an edge or center coordinate aligns with a neighboring node. It exists
// only while the drag session is active and is cleared on drag end.
type SnapLine struct {
	Orientation Orientation
	From        geometry.Point
	To          geometry.Point
}

// BoundsFunc resolves an element ID to its current rendered world-space
// bounding rectangle. It abstracts the render tree so marquee hit-testing is
// testable without one; returning ok=false excludes the element from the
// current gesture (e.g. virtualized away).
type BoundsFunc func(id string) (geometry.Rect, bool)

// newID returns a fresh unique identifier for nodes, groups and connections.
func newID() string { return uuid.NewString() }
