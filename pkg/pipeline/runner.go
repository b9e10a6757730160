package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeprint/pkg/cache"
	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	recs, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Records = recs
	result.RecordsHash = RecordsHash(recs)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Persons = len(recs.Persons)
	result.Stats.Spouses = len(recs.Relationships)

	r.Logger.Info("loaded records",
		"source", opts.SourceName(),
		"persons", result.Stats.Persons,
		"relationships", result.Stats.Spouses,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, recs, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(l.Nodes),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads records and reports the stage to the pipeline hooks.
func (r *Runner) Load(ctx context.Context, opts Options) (family.Records, error) {
	hooks := observability.Pipeline()
	src := opts.SourceName()
	hooks.OnLoadStart(ctx, src)

	start := time.Now()
	recs, err := Load(ctx, opts)
	hooks.OnLoadComplete(ctx, src, len(recs.Persons), time.Since(start), err)
	return recs, err
}

// RecordsHash returns the content hash of recs.
func RecordsHash(recs family.Records) string {
	data, _ := json.Marshal(recs)
	return cache.Hash(data)
}

// LayoutWithCacheInfo generates a layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, recs family.Records, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(RecordsHash(recs), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalLayout(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			opts.Logger.Debug("discarding unreadable cached layout", "error", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, len(recs.Persons))
	start := time.Now()
	l, err := GenerateLayout(recs, opts)
	hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		r.set(ctx, "layout", cacheKey, data, cache.TTLLayout)
	}
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, recs family.Records, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, recs, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts = applyLayoutMetadata(opts, l)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFromLayout(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, "artifact", key, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// set stores data and logs, but does not return, cache failures.
func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
