package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tiletex/pkg/cache"
	"github.com/matzehuels/tiletex/pkg/observability"
	"github.com/matzehuels/tiletex/pkg/prng"
	"github.com/matzehuels/tiletex/pkg/sink"
	"github.com/matzehuels/tiletex/pkg/tilemap"
)

const keyTypeArtifact = "artifact"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached artifacts. Zero uses cache.TTLArtifact.
	TTL time.Duration
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

// Execute runs the complete decode → build → render pipeline.
//
// Runs with an explicit seed are looked up in and written to the cache.
// Auto-seeded runs always compute and report the seed they drew.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Formats:   opts.Formats,
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID[:8])

	src := prng.New(opts.SeedChoice())
	result.Seed = src.Seed()
	meta := sink.RunMeta{Seed: result.Seed, Blending: opts.Strength(), Steps: opts.Table()}
	result.CacheInfo.Cacheable = !opts.SeedChoice().IsAuto()

	logger.Debug("starting run",
		"seed", result.Seed,
		"auto_seed", !result.CacheInfo.Cacheable,
		"blending", opts.Blending,
		"steps", opts.Table().Len())

	var sourceHash string
	if result.CacheInfo.Cacheable {
		h, err := SourceHash(opts)
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		sourceHash = h
		if !opts.Refresh {
			if artifacts, ok := r.lookup(ctx, sourceHash, opts, result.Seed); ok {
				result.Artifacts = artifacts
				result.CacheInfo.Hit = true
				logger.Info("served from cache", "formats", opts.Formats)
				return result, nil
			}
		}
	}

	// Stage 1: Decode
	hooks := observability.Pipeline()
	decodeStart := time.Now()
	hooks.OnDecodeStart(ctx, opts.Image)
	field, err := Decode(ctx, opts)
	result.Stats.DecodeTime = time.Since(decodeStart)
	if err != nil {
		hooks.OnDecodeComplete(ctx, opts.Image, 0, 0, result.Stats.DecodeTime, err)
		return nil, fmt.Errorf("decode: %w", err)
	}
	hooks.OnDecodeComplete(ctx, opts.Image, field.Width(), field.Height(), result.Stats.DecodeTime, nil)
	result.Stats.Width = field.Width()
	result.Stats.Height = field.Height()

	logger.Info("decoded image",
		"width", field.Width(),
		"height", field.Height(),
		"duration", result.Stats.DecodeTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Build
	buildStart := time.Now()
	hooks.OnBuildStart(ctx, field.Width(), field.Height())
	m, err := tilemap.Build(field, opts.Table(), opts.Strength(), src)
	result.Stats.BuildTime = time.Since(buildStart)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, result.Stats.BuildTime, err)
		return nil, fmt.Errorf("build: %w", err)
	}
	hooks.OnBuildComplete(ctx, m.Index.Len(), result.Stats.BuildTime, nil)
	result.Map = m
	result.Stats.Tiles = m.Index.Len()

	logger.Info("built tile map",
		"tiles", m.Index.Len(),
		"duration", result.Stats.BuildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(m, meta, opts.Formats)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	if result.CacheInfo.Cacheable {
		r.store(ctx, sourceHash, opts, result.Seed, artifacts)
	}
	return result, nil
}

// lookup returns cached artifacts when every requested format is present.
func (r *Runner) lookup(ctx context.Context, sourceHash string, opts Options, seed uint64) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format, seed))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, keyTypeArtifact)
			return nil, false
		}
		hooks.OnCacheHit(ctx, keyTypeArtifact)
		artifacts[format] = data
	}
	return artifacts, true
}

// store writes artifacts to the cache. Failures are logged, not returned:
// the run itself succeeded.
func (r *Runner) store(ctx context.Context, sourceHash string, opts Options, seed uint64, artifacts map[string][]byte) {
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLArtifact
	}
	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format, seed))
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
