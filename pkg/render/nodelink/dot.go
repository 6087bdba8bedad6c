package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes outcome text, course full names, and detail text
	// in node labels. When false, only the short label is shown.
	Detailed bool

	// IncludeDetails adds course detail nodes to the diagram.
	// Without them the diagram shows only outcomes, indicators, and courses.
	IncludeDetails bool
}

// levelColors maps proficiency levels to edge colors.
var levelColors = map[dataset.Level]string{
	dataset.LevelIntroduce: "#60A5FA",
	dataset.LevelReinforce: "#34D399",
	dataset.LevelMaster:    "#FBBF24",
	dataset.LevelAssess:    "#EF4444",
}

const defaultColor = "#94A3B8"

// LevelColor returns the display color for a proficiency level.
// Unknown levels get a neutral grey.
func LevelColor(level dataset.Level) string {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return defaultColor
}

// ToDOT converts a curriculum graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Outcomes appear as filled boxes, indicators as notes, courses as rounded
// boxes, and details as plain ellipses. Relation edges are colored by their
// proficiency level.
func ToDOT(g graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		if n.Kind == graph.KindDetail && !opts.IncludeDetails {
			continue
		}
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if e.Kind == graph.EdgeDetail && !opts.IncludeDetails {
			continue
		}
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}

	var parts []string
	if n.FullName != "" && n.FullName != label {
		parts = append(parts, n.FullName)
	}
	if n.Text != "" {
		parts = append(parts, n.Text)
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n graph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Kind {
	case graph.KindOutcome:
		attrs = append(attrs, "style=\"filled\"", "fillcolor=\"#EDE9FE\"")
	case graph.KindIndicator:
		attrs = append(attrs, "shape=note", "style=\"filled\"", "fillcolor=\"#F1F5F9\"")
	case graph.KindDetail:
		attrs = append(attrs, "shape=ellipse", "style=\"filled\"", "fillcolor=\"#F8FAFC\"", "fontsize=11")
	}
	return attrs
}

func edgeAttrs(e graph.Edge) []string {
	switch e.Kind {
	case graph.EdgeRelation:
		return []string{
			fmt.Sprintf("color=%q", LevelColor(e.Level)),
			fmt.Sprintf("label=%q", string(e.Level)),
			fmt.Sprintf("fontcolor=%q", LevelColor(e.Level)),
			"penwidth=1.6",
		}
	case graph.EdgeDetail:
		return []string{fmt.Sprintf("color=%q", defaultColor), "style=dashed", "arrowhead=none"}
	case graph.EdgeLink:
		return []string{fmt.Sprintf("color=%q", defaultColor), "style=dotted"}
	}
	return nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(dot string, format graphviz.Format, buf *bytes.Buffer) error {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
