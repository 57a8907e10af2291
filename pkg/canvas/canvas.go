// Package canvas implements the interactive workflow canvas engine.
//
// The canvas is a node-based editing surface: workflow nodes placed on an
// infinite 2-D plane, connected into a directed pipeline, grouped, and
// manipulated through pan/zoom, marquee selection and drag gestures.
//
// # Architecture
//
// Canvas is the composition root. It exclusively owns the authoritative
// node/group/connection collections and mediates between three controllers:
//
//   - Viewport: pan offset and zoom factor, cursor-anchored zooming
//   - Selector: marquee and click selection
//   - Dragger: node/group drag sessions with snap-to-neighbor guides
//
// The controllers hold only transient gesture state and never talk to each
// other; every frame of a gesture recomputes against the latest authoritative
// collections. All operations are synchronous and the whole engine is driven
// by a single event loop, so Canvas is not safe for concurrent use without
// external synchronization (same contract as a UI thread).
//
// # Error handling
//
// Gesture operations never fail: stale IDs, degenerate geometry and
// out-of-range zoom requests are expected races between input and state and
// resolve to silent no-ops. Structural mutations (AddNode, Connect, ...)
// return sentinel errors for genuine misuse.
package canvas

import (
	"errors"
	"slices"

	"github.com/flowboardhq/flowboard/pkg/geometry"
	"github.com/flowboardhq/flowboard/pkg/observability"
)

var (
	// ErrInvalidNodeID is returned by [Canvas.AddNode] when the node ID is
	// already in use. Generated IDs never collide; this guards explicit IDs.
	ErrInvalidNodeID = errors.New("duplicate or invalid node ID")

	// ErrUnknownNode is returned by [Canvas.Connect] when an endpoint does
	// not reference an existing node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownGroup is returned by [Canvas.AddToGroup] when the group does
	// not exist.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrInvalidConnectionID is returned by [Canvas.AddConnection] when the
	// connection ID is already in use. Generated IDs never collide; this
	// guards explicit IDs.
	ErrInvalidConnectionID = errors.New("duplicate or invalid connection ID")
)

// Canvas owns the authoritative workflow collections and the three gesture
// controllers. Use New to create a usable instance.
type Canvas struct {
	nodes       map[string]*Node
	groups      map[string]*Group
	connections map[string]*Connection

	viewport *Viewport
	selector *Selector
	dragger  *Dragger

	// activeNodeID marks the most-recently-interacted node.
	activeNodeID string

	// bounds resolves rendered element bounds for marquee hit-testing.
	// Defaults to the authoritative world-space geometry.
	bounds BoundsFunc

	// checkpoint pushes an undo snapshot; supplied by the history subsystem.
	checkpoint func()

	// snapDisabled turns off snap-to-neighbor alignment during drags.
	snapDisabled bool
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithCheckpoint sets the history-checkpoint callback invoked by drag
// gestures on first confirmed movement. The default is a no-op.
func WithCheckpoint(fn func()) Option {
	return func(c *Canvas) {
		if fn != nil {
			c.checkpoint = fn
		}
	}
}

// WithBounds overrides how rendered element bounds are resolved during
// marquee selection. The default derives bounds from the authoritative
// node/group geometry.
func WithBounds(fn BoundsFunc) Option {
	return func(c *Canvas) {
		if fn != nil {
			c.bounds = fn
		}
	}
}

// WithSnap enables or disables snap-to-neighbor alignment during node
// drags. Enabled by default.
func WithSnap(enabled bool) Option {
	return func(c *Canvas) {
		c.snapDisabled = !enabled
	}
}

// WithViewport sets the initial pan and zoom. Zoom is clamped to the
// allowed range.
func WithViewport(pan geometry.Point, zoom float64) Option {
	return func(c *Canvas) {
		c.viewport.pan = pan
		c.viewport.zoom = geometry.Clamp(zoom, MinZoom, MaxZoom)
	}
}

// New creates an empty canvas.
func New(opts ...Option) *Canvas {
	c := &Canvas{
		nodes:       make(map[string]*Node),
		groups:      make(map[string]*Group),
		connections: make(map[string]*Connection),
		viewport:    newViewport(),
		selector:    &Selector{},
		dragger:     &Dragger{},
		checkpoint:  func() {},
	}
	c.bounds = c.authoritativeBounds
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// authoritativeBounds is the default BoundsFunc: world-space bounds computed
// from the node/group collections themselves.
func (c *Canvas) authoritativeBounds(id string) (geometry.Rect, bool) {
	if n, ok := c.nodes[id]; ok {
		return n.Bounds(), true
	}
	if g, ok := c.groups[id]; ok {
		return g.Bounds(), true
	}
	return geometry.Rect{}, false
}

// Viewport returns the viewport controller.
func (c *Canvas) Viewport() *Viewport { return c.viewport }

// =============================================================================
// Node collection
// =============================================================================

// AddNode adds a node to the canvas and returns its ID. An empty ID is
// replaced with a generated one; an ID already in use is rejected with
// ErrInvalidNodeID. Explicit dimensions are kept as provided and clamped
// lazily by EffectiveSize.
func (c *Canvas) AddNode(n Node) (string, error) {
	if n.ID == "" {
		n.ID = newID()
	}
	if _, exists := c.nodes[n.ID]; exists {
		return "", ErrInvalidNodeID
	}
	node := &n
	c.nodes[node.ID] = node
	return node.ID, nil
}

// RemoveNode deletes a node, detaches it from its group and prunes the
// connections that referenced it. Removing an unknown ID is a no-op.
func (c *Canvas) RemoveNode(id string) {
	n, ok := c.nodes[id]
	if !ok {
		return
	}
	if n.GroupID != "" {
		if g, ok := c.groups[n.GroupID]; ok {
			g.NodeIDs = slices.DeleteFunc(g.NodeIDs, func(m string) bool { return m == id })
		}
	}
	delete(c.nodes, id)
	if c.activeNodeID == id {
		c.activeNodeID = ""
	}
	for cid, conn := range c.connections {
		if conn.From == id || conn.To == id {
			delete(c.connections, cid)
		}
	}
}

// Node returns the node with the given ID and true, or nil and false.
// The pointer refers to the actual node, so mutations affect the canvas.
func (c *Canvas) Node(id string) (*Node, bool) {
	n, ok := c.nodes[id]
	return n, ok
}

// Nodes returns all nodes sorted by ID for deterministic iteration.
func (c *Canvas) Nodes() []*Node {
	nodes := make([]*Node, 0, len(c.nodes))
	for _, n := range c.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return nodes
}

// NodeCount returns the number of nodes.
func (c *Canvas) NodeCount() int { return len(c.nodes) }

// MoveNode sets a node's world position. Unknown IDs are ignored.
func (c *Canvas) MoveNode(id string, pos geometry.Point) {
	if n, ok := c.nodes[id]; ok {
		n.Position = pos
	}
}

// ResizeNode sets a node's dimensions, clamped into the allowed range.
// Unknown IDs are ignored.
func (c *Canvas) ResizeNode(id string, w, h float64) {
	if n, ok := c.nodes[id]; ok {
		n.Width = geometry.Clamp(w, MinNodeWidth, MaxNodeWidth)
		n.Height = geometry.Clamp(h, MinNodeHeight, MaxNodeHeight)
	}
}

// ActiveNode returns the ID of the most-recently-interacted node, or "".
func (c *Canvas) ActiveNode() string { return c.activeNodeID }

// =============================================================================
// Group collection
// =============================================================================

// AddGroup adds a group and returns its ID. Member IDs that do not reference
// existing nodes are dropped; members get their GroupID back-reference set.
func (c *Canvas) AddGroup(g Group) string {
	if g.ID == "" {
		g.ID = newID()
	}
	members := g.NodeIDs[:0:0]
	for _, id := range g.NodeIDs {
		if n, ok := c.nodes[id]; ok {
			n.GroupID = g.ID
			members = append(members, id)
		}
	}
	g.NodeIDs = members
	group := &g
	c.groups[group.ID] = group
	return group.ID
}

// RemoveGroup deletes a group and clears the GroupID back-reference of its
// members. Member nodes are never deleted. Unknown IDs are a no-op.
func (c *Canvas) RemoveGroup(id string) {
	g, ok := c.groups[id]
	if !ok {
		return
	}
	for _, m := range g.NodeIDs {
		if n, ok := c.nodes[m]; ok && n.GroupID == id {
			n.GroupID = ""
		}
	}
	delete(c.groups, id)
}

// AddToGroup adds a node to an existing group, moving it out of its previous
// group if needed. Returns ErrUnknownGroup or ErrUnknownNode on a stale ID.
func (c *Canvas) AddToGroup(groupID, nodeID string) error {
	g, ok := c.groups[groupID]
	if !ok {
		return ErrUnknownGroup
	}
	n, ok := c.nodes[nodeID]
	if !ok {
		return ErrUnknownNode
	}
	if n.GroupID != "" && n.GroupID != groupID {
		if prev, ok := c.groups[n.GroupID]; ok {
			prev.NodeIDs = slices.DeleteFunc(prev.NodeIDs, func(m string) bool { return m == nodeID })
		}
	}
	if !g.Contains(nodeID) {
		g.NodeIDs = append(g.NodeIDs, nodeID)
	}
	n.GroupID = groupID
	return nil
}

// Group returns the group with the given ID and true, or nil and false.
func (c *Canvas) Group(id string) (*Group, bool) {
	g, ok := c.groups[id]
	return g, ok
}

// Groups returns all groups sorted by ID for deterministic iteration.
func (c *Canvas) Groups() []*Group {
	groups := make([]*Group, 0, len(c.groups))
	for _, g := range c.groups {
		groups = append(groups, g)
	}
	slices.SortFunc(groups, func(a, b *Group) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return groups
}

// GroupCount returns the number of groups.
func (c *Canvas) GroupCount() int { return len(c.groups) }

// =============================================================================
// Connection collection
// =============================================================================

// Connect adds a directed connection between two existing nodes and returns
// its generated ID. Returns ErrUnknownNode if either endpoint is missing.
func (c *Canvas) Connect(from, to string) (string, error) {
	return c.AddConnection(Connection{From: from, To: to})
}

// AddConnection adds a connection to the canvas and returns its ID. An empty
// ID is replaced with a generated one; an ID already in use is rejected with
// ErrInvalidConnectionID. Loading a document must keep the IDs it was saved
// with, so explicit IDs survive unchanged.
func (c *Canvas) AddConnection(conn Connection) (string, error) {
	if _, ok := c.nodes[conn.From]; !ok {
		return "", ErrUnknownNode
	}
	if _, ok := c.nodes[conn.To]; !ok {
		return "", ErrUnknownNode
	}
	if conn.ID == "" {
		conn.ID = newID()
	}
	if _, exists := c.connections[conn.ID]; exists {
		return "", ErrInvalidConnectionID
	}
	added := &conn
	c.connections[added.ID] = added
	return added.ID, nil
}

// Disconnect removes a connection. Unknown IDs are a no-op.
func (c *Canvas) Disconnect(id string) {
	delete(c.connections, id)
}

// Connections returns all valid connections sorted by ID. Connections with a
// dangling endpoint are skipped; they are not renderable.
func (c *Canvas) Connections() []*Connection {
	conns := make([]*Connection, 0, len(c.connections))
	for _, conn := range c.connections {
		if !c.connectionValid(conn) {
			continue
		}
		conns = append(conns, conn)
	}
	slices.SortFunc(conns, func(a, b *Connection) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return conns
}

// PruneConnections removes connections with dangling endpoints and returns
// how many were removed.
func (c *Canvas) PruneConnections() int {
	removed := 0
	for id, conn := range c.connections {
		if !c.connectionValid(conn) {
			delete(c.connections, id)
			removed++
		}
	}
	return removed
}

func (c *Canvas) connectionValid(conn *Connection) bool {
	_, okFrom := c.nodes[conn.From]
	_, okTo := c.nodes[conn.To]
	return okFrom && okTo
}

// =============================================================================
// Gesture mediation
//
// Pointer and keyboard handlers call these; the Canvas forwards to the
// controllers with the latest authoritative collections so controllers never
// observe stale state.
// =============================================================================

// BeginMarquee starts a marquee selection at a world-space anchor.
// Ignored while another marquee is active.
func (c *Canvas) BeginMarquee(world geometry.Point) {
	c.selector.Start(world)
	observability.Canvas().OnGestureStart("marquee")
}

// UpdateMarquee extends the active marquee to the given world point.
// No-op while idle.
func (c *Canvas) UpdateMarquee(world geometry.Point) {
	c.selector.Update(world)
}

// EndMarquee completes the marquee gesture and applies the resulting
// selection. When additive is true the previous selection is kept and
// unioned with the marquee membership.
func (c *Canvas) EndMarquee(additive bool) {
	c.selector.End(c, additive)
	observability.Canvas().OnGestureEnd("marquee")
}

// SelectionBox returns the active marquee rectangle in world space, or nil
// when no marquee gesture is in progress.
func (c *Canvas) SelectionBox() *geometry.Rect { return c.selector.Box() }

// SelectNode applies click-selection to a node. See [Selector.SelectNode].
func (c *Canvas) SelectNode(id string, multi bool) { c.selector.SelectNode(c, id, multi) }

// SelectGroup applies click-selection to a group. See [Selector.SelectGroup].
func (c *Canvas) SelectGroup(id string, multi bool) { c.selector.SelectGroup(c, id, multi) }

// SelectConnection applies click-selection to a connection.
func (c *Canvas) SelectConnection(id string, multi bool) { c.selector.SelectConnection(c, id, multi) }

// DeselectAll clears every selection flag and the active-node marker.
func (c *Canvas) DeselectAll() { c.selector.DeselectAll(c) }

// SelectedNodes returns the IDs of all selected nodes, sorted.
func (c *Canvas) SelectedNodes() []string {
	var ids []string
	for id, n := range c.nodes {
		if n.Selected {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// SelectedGroups returns the IDs of all selected groups, sorted.
func (c *Canvas) SelectedGroups() []string {
	var ids []string
	for id, g := range c.groups {
		if g.Selected {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// StartNodeDrag begins dragging a single node from a screen-space pointer
// position. Ignored when a drag session is already active or the ID is stale.
func (c *Canvas) StartNodeDrag(id string, pointer geometry.Point) {
	if c.dragger.StartNode(c, id, pointer) {
		c.activeNodeID = id
		observability.Canvas().OnGestureStart("node-drag")
	}
}

// StartGroupDrag begins dragging a group and all of its member nodes.
// Ignored when a drag session is already active or the ID is stale.
func (c *Canvas) StartGroupDrag(id string, pointer geometry.Point) {
	if c.dragger.StartGroup(c, id, pointer) {
		observability.Canvas().OnGestureStart("group-drag")
	}
}

// DragMove advances the active drag session to a new screen-space pointer
// position, applying snap alignment for single-node drags. No-op while idle.
func (c *Canvas) DragMove(pointer geometry.Point) {
	c.dragger.Move(c, pointer)
}

// EndDrag completes the active drag session, clearing transient snap guides.
// Safe to call while idle.
func (c *Canvas) EndDrag() {
	if c.dragger.End() {
		observability.Canvas().OnGestureEnd("drag")
	}
}

// Dragging reports whether a drag session is active.
func (c *Canvas) Dragging() bool { return c.dragger.Active() }

// SnapLines returns the alignment guides of the active drag frame.
// Empty outside an active single-node drag.
func (c *Canvas) SnapLines() []SnapLine { return c.dragger.SnapLines() }
