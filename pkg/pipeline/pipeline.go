// Package pipeline runs the complete image → tile map → artifact transform.
//
// The CLI and tests share this package so that validation, defaults, caching
// and stage logging behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: load the source image and convert it to an intensity field
//  2. Build: blend each pixel and resolve it to a tile name via the step table
//  3. Render: serialize the tile map as Lua and/or JSON
//
// Every input is validated before the first stage starts, so a run that
// fails never produces partial output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Image:    "island.png",
//	    Steps:    []string{"water:0..89", "sand:90..119", "grass:120..255"},
//	    Blending: 20,
//	    Seed:     1337,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	lua := result.Artifacts["lua"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tiletex/pkg/blend"
	"github.com/matzehuels/tiletex/pkg/cache"
	"github.com/matzehuels/tiletex/pkg/imageio"
	"github.com/matzehuels/tiletex/pkg/prng"
	"github.com/matzehuels/tiletex/pkg/steps"
	"github.com/matzehuels/tiletex/pkg/tilemap"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

// Format constants for output formats.
const (
	FormatLua  = "lua"
	FormatJSON = "json"
)

// DefaultFormat is written when no format is requested.
const DefaultFormat = FormatLua

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatLua:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: lua, json)", format)
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

// Options contains all configuration for a texture run.
type Options struct {
	// Image is the source image path. Ignored when Field is set.
	Image string `json:"image,omitempty"`

	// Field is a pre-decoded intensity field, for callers that already hold
	// pixel data.
	Field *tilemap.Field `json:"-"`

	// Steps are "name:low..high" tokens. A token may hold several
	// whitespace-separated ranges.
	Steps []string `json:"steps"`

	// Blending is the noise strength in [0,100]; 0 disables blending.
	Blending int `json:"blending,omitempty"`

	// Seed seeds the noise source; 0 picks one at random and reports it in
	// Result.Seed.
	Seed uint64 `json:"seed,omitempty"`

	Formats []string     `json:"formats,omitempty"`
	Resize  imageio.Size `json:"resize,omitempty"`

	// Refresh bypasses cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	table     *steps.Table
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// Seed is the seed the run actually used. Passing it back as
	// Options.Seed reproduces the run.
	Seed uint64

	// Map is the built tile map. It is nil when every artifact was served
	// from cache.
	Map *tilemap.Map

	// Formats lists the artifact formats in request order.
	Formats []string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Width      int
	Height     int
	Tiles      int
	DecodeTime time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo describes how the run interacted with the cache.
type CacheInfo struct {
	Cacheable bool // explicit seed; auto-seeded runs are never cached
	Hit       bool // every artifact came from cache
}

// ValidateAndSetDefaults checks every input and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Image == "" && o.Field == nil {
		return errs.New(errs.ErrCodeInvalidParameter, "image is required")
	}

	table, err := steps.ParseAll(o.Steps)
	if err != nil {
		return err
	}
	o.table = table

	if err := blend.Strength(o.Blending).Validate(); err != nil {
		return err
	}

	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		formats = append(formats, strings.ToLower(strings.TrimSpace(f)))
	}
	if len(formats) == 0 {
		formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(formats); err != nil {
		return err
	}
	o.Formats = dedupe(formats)

	if o.Resize.Width < 0 || o.Resize.Height < 0 {
		return errs.New(errs.ErrCodeInvalidParameter, "resize %dx%d has a negative dimension", o.Resize.Width, o.Resize.Height)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Table returns the validated step table, or nil before validation.
func (o *Options) Table() *steps.Table {
	return o.table
}

// SeedChoice returns the seed selection for the noise source.
func (o *Options) SeedChoice() prng.Seed {
	return prng.Explicit(o.Seed)
}

// Strength returns the blending strength.
func (o *Options) Strength() blend.Strength {
	return blend.Strength(o.Blending)
}

// ArtifactKeyOpts returns cache key options for one artifact.
// The table's canonical tokens are used so equivalent step lists share
// entries.
func (o *Options) ArtifactKeyOpts(format string, seed uint64) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:   format,
		Blending: o.Blending,
		Seed:     seed,
		Width:    o.Resize.Width,
		Height:   o.Resize.Height,
	}
	if o.table != nil {
		opts.Steps = o.table.Tokens()
	}
	return opts
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
