// Package pipeline provides the core curriculum-mapping pipeline.
//
// This package implements the complete load → build → analyze → render
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read CSV sources and build the in-memory dataset
//  2. Analyze: Compute derived views and centrality scores
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Dir:     "./curriculum",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/minhlq/curmap/pkg/cache"
	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/errors"
	"github.com/minhlq/curmap/pkg/graph"
	"github.com/minhlq/curmap/pkg/views"
)

// Conventional source filenames looked up when Options.Dir is set.
const (
	FileOutcomes   = "plo.csv"
	FileIndicators = "pi.csv"
	FileCourses    = "courses.csv"
	FileDetails    = "clo.csv"
	FileRelations  = "plo_course.csv"
	FileLinks      = "plo_pi.csv"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Sources names the CSV files of one load. Only Outcomes, Courses, and
// Relations are required; the rest are optional tables.
type Sources struct {
	Outcomes   string `json:"outcomes"`
	Indicators string `json:"indicators,omitempty"`
	Courses    string `json:"courses"`
	Details    string `json:"details,omitempty"`
	Relations  string `json:"relations"`
	Links      string `json:"links,omitempty"`
}

// Options contains all configuration for the curriculum pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Dir resolves the conventional filenames; Files takes
	// precedence for any path it sets explicitly.
	Dir               string  `json:"dir,omitempty"`
	Files             Sources `json:"files,omitempty"`
	AllowPlaceholders bool    `json:"allow_placeholders,omitempty"`
	Refresh           bool    `json:"refresh,omitempty"`

	// Analyze options
	IncludeDetails bool `json:"include_details,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the built in-memory curriculum map.
	Dataset *dataset.Dataset

	// Report carries load counts and skip diagnostics.
	Report dataset.LoadReport

	// Graph is the serialized form of the dataset.
	Graph graph.Graph

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// Views contains the derived tables and centrality scores.
	Views *views.Model

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LoadTime    time.Duration
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the built dataset came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage and resolves
// Dir-relative defaults into o.Files.
func (o *Options) ValidateForLoad() error {
	o.resolveFiles()
	if o.Files.Outcomes == "" || o.Files.Courses == "" || o.Files.Relations == "" {
		return errors.New(errors.ErrCodeInvalidConfig,
			"outcomes, courses, and relations sources are required (set dir or files)")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// BuildOptions returns the dataset build policy for this run.
func (o *Options) BuildOptions() dataset.BuildOptions {
	return dataset.BuildOptions{AllowPlaceholders: o.AllowPlaceholders}
}

// DatasetKeyOpts returns cache key options for the built dataset.
func (o *Options) DatasetKeyOpts() cache.DatasetKeyOpts {
	return cache.DatasetKeyOpts{AllowPlaceholders: o.AllowPlaceholders}
}

// RenderKeyOpts returns cache key options for one rendered artifact.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{Format: format, Detail: o.IncludeDetails}
}
