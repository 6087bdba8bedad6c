package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/minhlq/curmap/pkg/cache"
	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/errors"
	"github.com/minhlq/curmap/pkg/graph"
	"github.com/minhlq/curmap/pkg/observability"
	"github.com/minhlq/curmap/pkg/views"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	ds, rep, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Dataset = ds
	result.Report = rep
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.LoadHit = loadHit

	result.Graph = graph.FromDataset(ds)
	if data, err := json.Marshal(result.Graph); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	r.Logger.Info("dataset built",
		"outcomes", rep.Outcomes,
		"courses", rep.Courses,
		"relations", rep.Relations,
		"duration", result.Stats.LoadTime)

	// Stage 2: Analyze
	analyzeStart := time.Now()
	observability.Dataset().OnAnalysisStart(ctx, len(result.Graph.Nodes))
	result.Views = views.Recompute(ds)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	observability.Dataset().OnAnalysisComplete(ctx, len(result.Graph.Nodes), result.Stats.AnalyzeTime, nil)

	r.Logger.Info("views computed",
		"scores", len(result.Views.Centrality),
		"duration", result.Stats.AnalyzeTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Dataset().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Graph, result.GraphHash, opts)
	observability.Dataset().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo builds the dataset with caching and returns cache hit
// info. On a cache hit the stored graph is converted back to source rows and
// rebuilt, so edit operations work identically on both paths.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*dataset.Dataset, dataset.LoadReport, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, dataset.LoadReport{}, false, err
	}
	r.applyLogger(&opts)

	name := opts.Dir
	if name == "" {
		name = opts.Files.Relations
	}
	observability.Dataset().OnLoadStart(ctx, name)
	start := time.Now()

	src, srcHash, err := ReadSources(opts.Files)
	if err != nil {
		observability.Dataset().OnLoadComplete(ctx, name, 0, 0, time.Since(start), err)
		return nil, dataset.LoadReport{}, false, err
	}
	cacheKey := r.Keyer.DatasetKey(srcHash, opts.DatasetKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := graph.Unmarshal(data); err == nil {
				ds := dataset.New(opts.Logger)
				rep := ds.Load(graph.ToSources(g), opts.BuildOptions())
				observability.Dataset().OnLoadComplete(ctx, name, rep.Relations, skipped(rep), time.Since(start), nil)
				return ds, rep, true, nil
			}
		}
	}

	ds := dataset.New(opts.Logger)
	rep := ds.Load(src, opts.BuildOptions())

	if data, err := graph.Marshal(ds); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDataset)
	}

	observability.Dataset().OnLoadComplete(ctx, name, rep.Relations, skipped(rep), time.Since(start), nil)
	return ds, rep, false, nil
}

// Load is a convenience wrapper that discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*dataset.Dataset, dataset.LoadReport, error) {
	ds, rep, _, err := r.LoadWithCacheInfo(ctx, opts)
	return ds, rep, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g graph.Graph, graphHash string, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.RenderKey(graphHash, opts.RenderKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := RenderGraph(g, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.RenderKey(graphHash, opts.RenderKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g graph.Graph, graphHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, graphHash, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func skipped(rep dataset.LoadReport) int {
	return rep.RelationSkips.Skipped + rep.DetailSkips.Skipped + rep.LinkSkips.Skipped
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
