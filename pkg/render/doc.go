// Package render provides visual export of workflow documents.
//
// # Overview
//
// This package transforms workflow documents into visual outputs:
//
//   - SVG: scalable vector output, the primary export format
//   - PNG: raster output drawn with a 2D graphics context
//   - DOT: Graphviz source for topology-oriented tooling
//
// All renderers consume a [workflow.Workflow] directly, so exports work on
// stored documents without an interactive session.
//
// # SVG Output
//
//	svg := render.SVG(wf, render.WithPadding(40))
//
// # PNG Output
//
//	png, err := render.PNG(wf, render.WithScale(2)) // 2x for high-DPI
//
// # DOT Output
//
// [ToDOT] emits Graphviz source preserving connection topology; [DOTToSVG]
// runs the Graphviz layout engine for an automatic arrangement that ignores
// canvas positions.
//
//	dot := render.ToDOT(wf)
//	svg, err := render.DOTToSVG(dot)
package render
