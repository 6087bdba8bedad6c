package pipeline

import (
	"encoding/json"

	"github.com/minhlq/curmap/pkg/errors"
	"github.com/minhlq/curmap/pkg/graph"
	"github.com/minhlq/curmap/pkg/render/nodelink"
)

// RenderGraph renders the graph in every requested format. SVG and PNG go
// through Graphviz; DOT returns the intermediate source; JSON is the
// serialized graph itself.
func RenderGraph(g graph.Graph, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	var dot string
	needsDOT := false
	for _, f := range opts.Formats {
		if f != FormatJSON {
			needsDOT = true
		}
	}
	if needsDOT {
		dot = nodelink.ToDOT(g, nodelink.Options{
			Detailed:       opts.Detailed,
			IncludeDetails: opts.IncludeDetails,
		})
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(dot)
		case FormatSVG:
			svg, err := nodelink.RenderSVG(dot)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
			}
			artifacts[format] = svg
		case FormatPNG:
			png, err := nodelink.RenderPNG(dot)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render png")
			}
			artifacts[format] = png
		case FormatJSON:
			data, err := json.MarshalIndent(g, "", "  ")
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal graph")
			}
			artifacts[format] = data
		}
	}
	return artifacts, nil
}
