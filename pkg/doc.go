// Package pkg provides the core libraries for curmap curriculum mapping.
//
// # Overview
//
// Curmap turns exported curriculum CSV tables into a relational dataset,
// derives analysis views from it, and renders the outcome-course map. The
// pkg directory is organized into these areas:
//
//  1. [dataset] - The owned aggregate: entity registries, typed relations,
//     and the edit log with undo
//  2. [analysis] - Graph projection and centrality measures
//  3. [views] - Presentation-ready read models (pivot, matrix, flow)
//  4. [graph] - Serialization: graph JSON and the CSV round-trip
//  5. [render] - Node-link diagrams via Graphviz
//  6. [pipeline] - Orchestration (load → analyze → render) with caching
//  7. [suggest] - Remote suggestion service client with local fallback
//  8. [cache], [store] - File/Redis caching and snapshot persistence
//
// # Architecture
//
// The typical data flow through curmap:
//
//	CSV tables (PLO, PI, COURSE, CLO, relations)
//	         ↓
//	    [dataset] package (normalize rows, resolve references)
//	         ↓
//	    [analysis] + [views] packages (centrality, pivot, matrix, flow)
//	         ↓
//	    [render/nodelink] package (DOT → SVG/PNG)
//	         ↓
//	    SVG/PNG/DOT/JSON output
//
// # Quick Start
//
// Load a curriculum and render it:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Dir:     "data/fall2026",
//	    Formats: []string{"svg"},
//	})
//
// [dataset]: https://pkg.go.dev/github.com/minhlq/curmap/pkg/dataset
// [analysis]: https://pkg.go.dev/github.com/minhlq/curmap/pkg/analysis
// [views]: https://pkg.go.dev/github.com/minhlq/curmap/pkg/views
// [graph]: https://pkg.go.dev/github.com/minhlq/curmap/pkg/graph
// [render]: https://pkg.go.dev/github.com/minhlq/curmap/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/minhlq/curmap/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/minhlq/curmap/pkg/pipeline
// [suggest]: https://pkg.go.dev/github.com/minhlq/curmap/pkg/suggest
// [cache]: https://pkg.go.dev/github.com/minhlq/curmap/pkg/cache
// [store]: https://pkg.go.dev/github.com/minhlq/curmap/pkg/store
package pkg
