// Package render provides visualization rendering for curriculum maps.
//
// # Overview
//
// The [nodelink] subpackage renders the curriculum graph as a directed
// node-link diagram using Graphviz. Nodes are typed (outcome, indicator,
// course, detail) and relation edges carry their proficiency level as both
// a color and a label.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// The [nodelink.LevelColor] palette is shared with the HTTP API so server
// responses and rendered artifacts agree on level colors.
//
// [nodelink]: github.com/minhlq/curmap/pkg/render/nodelink
package render
