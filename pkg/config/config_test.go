package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

const preset = `
image    = "island.png"
output   = "texture.lua"
steps    = ["water:0..89", "sand:90..119", "grass:120..255"]
blending = 20
seed     = 1337
formats  = ["lua", "json"]

[resize]
width = 512

[cache]
redis  = "localhost:6379"
prefix = "tiletex:"
ttl    = "72h"
`

func TestParse(t *testing.T) {
	cfg, err := Parse(preset)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Image != "island.png" || cfg.Output != "texture.lua" {
		t.Errorf("paths = %q, %q", cfg.Image, cfg.Output)
	}
	if !slices.Equal(cfg.Steps, []string{"water:0..89", "sand:90..119", "grass:120..255"}) {
		t.Errorf("Steps = %v", cfg.Steps)
	}
	if cfg.Blending != 20 {
		t.Errorf("Blending = %d, want 20", cfg.Blending)
	}
	if cfg.Seed != 1337 {
		t.Errorf("Seed = %d, want 1337", cfg.Seed)
	}
	if !slices.Equal(cfg.Formats, []string{"lua", "json"}) {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	if cfg.Resize != (Resize{Width: 512}) {
		t.Errorf("Resize = %+v", cfg.Resize)
	}
	if cfg.Cache.Redis != "localhost:6379" || cfg.Cache.Prefix != "tiletex:" || cfg.Cache.Disabled {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestCacheLifetime(t *testing.T) {
	tests := []struct {
		ttl     string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"72h", 72 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"soon", 0, true},
		{"-1h", 0, true},
	}
	for _, tt := range tests {
		got, err := Cache{TTL: tt.ttl}.Lifetime()
		if (err != nil) != tt.wantErr {
			t.Errorf("Lifetime(%q) error = %v, wantErr %v", tt.ttl, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Lifetime(%q) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse("")
	if err != nil {
		t.Fatalf("Parse(\"\") error = %v", err)
	}
	if cfg.Image != "" || cfg.Seed != 0 || len(cfg.Steps) != 0 {
		t.Errorf("empty preset should decode to zero Config, got %+v", cfg)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown key", "blend = 20"},
		{"unknown nested key", "[cache]\nexpiry = 5"},
		{"wrong type", "blending = \"high\""},
		{"syntax", "steps = ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.src); !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiletex.toml")
	if err := os.WriteFile(path, []byte(preset), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Seed != 1337 {
		t.Errorf("Seed = %d, want 1337", cfg.Seed)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
