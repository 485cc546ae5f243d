// Package config loads texture presets from TOML files.
//
// A preset records everything needed to regenerate an artifact, so it can be
// committed next to the scenario that uses it:
//
//	image    = "maps/island.png"
//	output   = "scenario/texture.lua"
//	steps    = ["water:0..89", "sand:90..119", "grass:120..255"]
//	blending = 20
//	seed     = 1337
//	formats  = ["lua"]
//
//	[resize]
//	width = 512
//
//	[cache]
//	redis = "localhost:6379"
//	ttl   = "72h"
//
// Command-line flags override preset values.
package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

// Config is a texture preset.
type Config struct {
	Image    string   `toml:"image"`
	Output   string   `toml:"output"`
	Steps    []string `toml:"steps"`
	Blending int      `toml:"blending"`
	Seed     uint64   `toml:"seed"`
	Formats  []string `toml:"formats"`
	Resize   Resize   `toml:"resize"`
	Cache    Cache    `toml:"cache"`
}

// Resize is the optional resample target; zero keeps the source size.
type Resize struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`    // file cache directory; empty uses the XDG default
	Redis    string `toml:"redis"`  // host:port; when set, Redis replaces the file cache
	Prefix   string `toml:"prefix"` // key prefix for shared backends
	TTL      string `toml:"ttl"`    // entry lifetime, e.g. "72h"; empty keeps the default
}

// Lifetime parses TTL. It returns 0 when TTL is unset.
func (c Cache) Lifetime() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidConfig, err, "cache.ttl %q", c.TTL)
	}
	if d <= 0 {
		return 0, errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must be positive, got %s", c.TTL)
	}
	return d, nil
}

// Load reads a preset from path. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes a preset from TOML text.
func Parse(data string) (Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}
