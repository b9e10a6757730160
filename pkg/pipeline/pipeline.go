// Package pipeline provides the core load → layout → render pipeline.
//
// This package implements the complete pipeline that the CLI and the HTTP
// API share. Centralizing it keeps caching, defaults and validation
// identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read family records from a file, SQLite, MongoDB or the request
//  2. Layout: build the relationship graph and compute box positions
//  3. Render: generate output in various formats (SVG, PNG, PDF, JSON, text, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "family.yaml",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	recs, err := pipeline.Load(ctx, opts)
//	l, err := runner.Layout(ctx, recs, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeprint/pkg/cache"
	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/layout"
	"github.com/matzehuels/treeprint/pkg/render/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeTree

// DefaultStyle is the default visual style.
const DefaultStyle = graph.StyleClassic

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatText = "txt"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatText: true,
	FormatDOT:  true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	graph.StyleClassic: true,
	graph.StyleSimple:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeTree:     true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Exactly one source is used, in this order of
	// precedence: Records, SQLite, MongoURI, Source.
	Records         *family.Records `json:"records,omitempty"`
	Source          string          `json:"-"` // JSON, YAML or TOML file
	SQLite          string          `json:"-"`
	SQLitePrefix    string          `json:"-"`
	MongoURI        string          `json:"-"`
	MongoDatabase   string          `json:"-"`
	MongoCollection string          `json:"-"`
	Family          string          `json:"family,omitempty"` // MongoDB document name
	Refresh         bool            `json:"refresh,omitempty"`

	// Layout options
	VizType  string        `json:"viz_type,omitempty"`
	Layout   layout.Config `json:"layout"`
	Detailed bool          `json:"detailed,omitempty"` // nodelink labels with ids and dates

	// Render options
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	PanZoom bool     `json:"pan_zoom,omitempty"`
	Scale   int      `json:"scale,omitempty"`
	Color   bool     `json:"-"` // ANSI colours in text output

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Records are the loaded family records.
	Records family.Records

	// RecordsHash is the content hash of the records.
	RecordsHash string

	// Layout contains the positioned nodes and connectors.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Persons    int
	Spouses    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, txt, dot)", format)
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

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %s)", style, strings.Join(styles.Names(), ", "))
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: tree, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a record source is configured.
func (o *Options) ValidateForLoad() error {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	switch {
	case o.Records != nil, o.SQLite != "", o.Source != "":
		return nil
	case o.MongoURI != "":
		if o.Family == "" {
			return errors.New(errors.ErrCodeInvalidInput, "family name is required for a MongoDB source")
		}
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "a record source is required (file, sqlite or mongo)")
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	o.Layout = o.Layout.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if o.IsNodelink() {
		if o.Style == "" {
			o.Style = DefaultStyle
		}
		if err := ValidateStyle(o.Style); err != nil {
			return err
		}
	}
	return o.Layout.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 1 || o.Scale > 8 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be between 1 and 8, got %d", o.Scale)
	}
	return ValidateStyle(o.Style)
}

// IsTree returns true if this is a tree visualization.
func (o *Options) IsTree() bool {
	return o.VizType == "" || o.VizType == graph.VizTypeTree
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// SourceName describes the record source for logs and hooks.
func (o *Options) SourceName() string {
	switch {
	case o.Records != nil:
		return "inline"
	case o.SQLite != "":
		return "sqlite:" + o.SQLite
	case o.MongoURI != "":
		return "mongo:" + o.Family
	}
	return o.Source
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		VizType:           o.VizType,
		BoxWidth:          o.Layout.BoxWidth,
		BoxHeight:         o.Layout.BoxHeight,
		SiblingSpacing:    o.Layout.SiblingSpacing,
		GenerationSpacing: o.Layout.GenerationSpacing,
		SpouseSpacing:     o.Layout.SpouseSpacing,
		OriginX:           o.Layout.OriginX,
		OriginDepth:       o.Layout.OriginDepth,
	}
	if o.IsNodelink() {
		k.Style = o.Style
		k.Detailed = o.Detailed
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:       format,
		Style:        o.Style,
		CornerRadius: o.Layout.CornerRadius,
	}
	switch format {
	case FormatSVG:
		k.PanZoom = o.PanZoom
	case FormatPNG:
		k.Scale = o.Scale
	}
	return k
}
