// Package nodelink renders curriculum maps as directed node-link diagrams.
//
// # Overview
//
// This package produces graph visualizations using Graphviz, where program
// outcomes, performance indicators, courses, and course details appear as
// typed nodes connected by arrows. Relation edges are colored by their
// proficiency level, matching the palette used across table views.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include outcome texts and full names
//   - IncludeDetails: When true, course detail nodes are drawn
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses left-to-right layout (rankdir=LR) so outcomes,
// courses, and details form columns in reading order.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering;
// no external Graphviz installation is required.
package nodelink
