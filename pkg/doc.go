// Package pkg provides the core libraries for FlowBoard workflow canvases.
//
// # Overview
//
// FlowBoard edits node-based workflow canvases: nodes and groups laid out on
// an infinite zoomable plane, connected by directed edges. The pkg directory
// is organized into these areas:
//
//  1. [geometry] - Points, rects, and intersection primitives
//  2. [canvas] - The interactive engine (viewport, selection, drag, snap)
//  3. [workflow] - The serialized document format and validation
//  4. [history] - Undo/redo snapshot stacks
//  5. [store] - Persistence backends (memory, file, redis, mongo)
//  6. [render] - SVG, PNG, and DOT export
//  7. [errors] - Structured error codes shared across layers
//  8. [observability] - Pluggable instrumentation hooks
//
// # Architecture
//
// The typical data flow through FlowBoard:
//
//	JSON document / HTTP request
//	         ↓
//	    [workflow] package (decode + validate)
//	         ↓
//	    [canvas] package (interactive editing state)
//	         ↓
//	    [workflow] package (snapshot back to a document)
//	         ↓
//	    [store] / [render] (persist or export)
//
// # Quick Start
//
// Load a document, move a node, and save it back:
//
//	import (
//	    "github.com/flowboardhq/flowboard/pkg/geometry"
//	    "github.com/flowboardhq/flowboard/pkg/workflow"
//	)
//
//	wf, err := workflow.ReadFile("quickstart.json")
//	if err != nil {
//	    return err
//	}
//	cv, err := workflow.Apply(wf)
//	if err != nil {
//	    return err
//	}
//	cv.SelectNode("fetch", false)
//	cv.StartNodeDrag("fetch", geometry.Point{X: 120, Y: 80})
//	cv.DragMove(geometry.Point{X: 200, Y: 80})
//	cv.EndDrag()
//	return workflow.WriteFile(workflow.FromCanvas(cv, wf.ID, wf.Name), "quickstart.json")
package pkg
