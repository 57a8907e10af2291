package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flowboardhq/flowboard/pkg/canvas"
	"github.com/flowboardhq/flowboard/pkg/geometry"
)

// =============================================================================
// Workflow - Canonical Document Format
// =============================================================================

// Workflow is the canonical serialization format for a canvas document.
// Used for API responses, storage, history snapshots, and export.
//
// The format is designed for round-trip fidelity: a canvas converted with
// FromCanvas and restored with Apply reproduces identical geometry. Viewport
// state (pan/zoom) is deliberately not part of the document; it is session
// state, not workflow content.
type Workflow struct {
	ID          string       `json:"id" bson:"_id"`
	Name        string       `json:"name,omitempty" bson:"name,omitempty"`
	Nodes       []Node       `json:"nodes" bson:"nodes"`
	Groups      []Group      `json:"groups,omitempty" bson:"groups,omitempty"`
	Connections []Connection `json:"connections" bson:"connections"`
	CreatedAt   time.Time    `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Node is the serialized form of a canvas node.
type Node struct {
	ID       string         `json:"id" bson:"id"`
	Kind     string         `json:"kind,omitempty" bson:"kind,omitempty"`
	Label    string         `json:"label,omitempty" bson:"label,omitempty"`
	Position geometry.Point `json:"position" bson:"position"`
	Width    float64        `json:"width,omitempty" bson:"width,omitempty"`
	Height   float64        `json:"height,omitempty" bson:"height,omitempty"`
	GroupID  string         `json:"group_id,omitempty" bson:"group_id,omitempty"`
	Meta     map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Group is the serialized form of a canvas group.
type Group struct {
	ID       string         `json:"id" bson:"id"`
	Label    string         `json:"label,omitempty" bson:"label,omitempty"`
	Position geometry.Point `json:"position" bson:"position"`
	Size     geometry.Size  `json:"size" bson:"size"`
	NodeIDs  []string       `json:"node_ids,omitempty" bson:"node_ids,omitempty"`
}

// Connection is the serialized form of a directed edge between two nodes.
type Connection struct {
	ID   string `json:"id" bson:"id"`
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// NewID returns a fresh workflow identifier.
func NewID() string { return uuid.NewString() }

// =============================================================================
// Canvas ↔ Workflow Conversion
// =============================================================================

// FromCanvas snapshots a canvas into a workflow document. Nodes, groups and
// connections are emitted sorted by ID for deterministic output; invalid
// (dangling) connections are skipped.
func FromCanvas(c *canvas.Canvas, id, name string) Workflow {
	wf := Workflow{ID: id, Name: name}

	for _, n := range c.Nodes() {
		wf.Nodes = append(wf.Nodes, Node{
			ID:       n.ID,
			Kind:     n.Kind,
			Label:    n.Label,
			Position: n.Position,
			Width:    n.Width,
			Height:   n.Height,
			GroupID:  n.GroupID,
			Meta:     copyMeta(n.Meta),
		})
	}
	for _, g := range c.Groups() {
		group := Group{
			ID:       g.ID,
			Label:    g.Label,
			Position: g.Position,
			Size:     g.Size,
		}
		group.NodeIDs = append(group.NodeIDs, g.NodeIDs...)
		wf.Groups = append(wf.Groups, group)
	}
	for _, conn := range c.Connections() {
		wf.Connections = append(wf.Connections, Connection{ID: conn.ID, From: conn.From, To: conn.To})
	}

	return wf
}

// Apply rebuilds a canvas from the document: a fresh canvas configured by
// opts, populated with the document's nodes, groups and connections.
// Returns an error when the document fails validation.
func Apply(wf Workflow, opts ...canvas.Option) (*canvas.Canvas, error) {
	if err := wf.Validate(); err != nil {
		return nil, err
	}

	c := canvas.New(opts...)
	for _, n := range wf.Nodes {
		if _, err := c.AddNode(canvas.Node{
			ID:       n.ID,
			Kind:     n.Kind,
			Label:    n.Label,
			Position: n.Position,
			Width:    n.Width,
			Height:   n.Height,
			Meta:     copyMeta(n.Meta),
		}); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, g := range wf.Groups {
		c.AddGroup(canvas.Group{
			ID:       g.ID,
			Label:    g.Label,
			Position: g.Position,
			Size:     g.Size,
			NodeIDs:  append([]string(nil), g.NodeIDs...),
		})
	}
	for _, conn := range wf.Connections {
		if _, err := c.AddConnection(canvas.Connection{
			ID:   conn.ID,
			From: conn.From,
			To:   conn.To,
		}); err != nil {
			return nil, fmt.Errorf("add connection %s: %w", conn.ID, err)
		}
	}

	return c, nil
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
