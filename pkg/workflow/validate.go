package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for document validation. Wrap with fmt.Errorf and check
// with errors.Is.
var (
	// ErrMissingID indicates a node, group or connection without an ID.
	ErrMissingID = errors.New("missing id")
	// ErrDuplicateID indicates two elements of the same kind sharing an ID.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrDanglingConnection indicates a connection endpoint that names no node.
	ErrDanglingConnection = errors.New("dangling connection")
	// ErrUnknownMember indicates a group member that names no node.
	ErrUnknownMember = errors.New("unknown group member")
)

// Validate checks structural integrity of the document: every element has a
// unique ID, every connection endpoint and group member resolves to a node.
// Geometry is not validated here; node sizes are clamped on load instead.
func (wf Workflow) Validate() error {
	nodes := make(map[string]bool, len(wf.Nodes))
	for _, n := range wf.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node: %w", ErrMissingID)
		}
		if nodes[n.ID] {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateID)
		}
		nodes[n.ID] = true
	}

	groups := make(map[string]bool, len(wf.Groups))
	for _, g := range wf.Groups {
		if g.ID == "" {
			return fmt.Errorf("group: %w", ErrMissingID)
		}
		if groups[g.ID] {
			return fmt.Errorf("group %s: %w", g.ID, ErrDuplicateID)
		}
		groups[g.ID] = true
		for _, member := range g.NodeIDs {
			if !nodes[member] {
				return fmt.Errorf("group %s member %s: %w", g.ID, member, ErrUnknownMember)
			}
		}
	}

	conns := make(map[string]bool, len(wf.Connections))
	for _, c := range wf.Connections {
		if c.ID == "" {
			return fmt.Errorf("connection: %w", ErrMissingID)
		}
		if conns[c.ID] {
			return fmt.Errorf("connection %s: %w", c.ID, ErrDuplicateID)
		}
		conns[c.ID] = true
		if !nodes[c.From] {
			return fmt.Errorf("connection %s from %s: %w", c.ID, c.From, ErrDanglingConnection)
		}
		if !nodes[c.To] {
			return fmt.Errorf("connection %s to %s: %w", c.ID, c.To, ErrDanglingConnection)
		}
	}

	return nil
}
