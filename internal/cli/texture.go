package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tiletex/pkg/config"
	"github.com/matzehuels/tiletex/pkg/imageio"
	"github.com/matzehuels/tiletex/pkg/pipeline"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

// textureOpts holds the command-line flags for the texture command.
type textureOpts struct {
	image       string   // source image path
	output      string   // output file (or base path when several formats are written)
	steps       []string // step tokens, "name:low..high"
	blending    int      // noise strength 0..100
	seed        uint64   // 0 picks a random seed
	formats     string   // comma-separated output formats
	resize      string   // WxH resample target; either side may be empty
	configPath  string   // optional TOML preset
	noCache     bool     // disable the artifact cache
	refresh     bool     // ignore cached artifacts
	redis       string   // Redis address for a shared cache
	cacheDir    string   // file cache directory override
	cachePrefix string   // key prefix for shared caches
	cacheTTL    time.Duration
}

// textureCommand creates the texture command.
func (c *CLI) textureCommand() *cobra.Command {
	opts := textureOpts{formats: pipeline.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "texture",
		Short: "Convert a grayscale image into a tile map",
		Long: `Convert a grayscale image into a tile map.

Each pixel's intensity (0 black .. 255 white) is resolved to a tile name through
the step table. The steps must cover 0..255 without gaps or overlaps:

  tiletex texture -i island.png -o texture.lua \
      -s "water:0..89 sand:90..119 grass:120..255" -b 20 -x 1337

With --blending, each intensity is shifted by up to ±strength% of 255 before
lookup, which dithers the borders between terrains. The run is reproducible
from its seed; without --seed one is chosen and printed.

Arguments after the flags are read as further steps, so the first line of a
Lua artifact can be run again as written:

  tiletex texture -i island.png --seed 7 --blending 0 --steps a:0..99 b:100..255`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.steps = append(opts.steps, args...)
			if opts.configPath != "" {
				cfg, err := config.Load(opts.configPath)
				if err != nil {
					return err
				}
				changed := func(name string) bool {
					return cmd.Flags().Changed(name) || (name == "steps" && len(args) > 0)
				}
				if err := applyConfig(changed, cfg, &opts); err != nil {
					return err
				}
			}
			return c.runTexture(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.image, "image", "i", "", "source image (png, jpeg, gif, bmp, tiff, webp)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: image name with the format extension)")
	cmd.Flags().StringArrayVarP(&opts.steps, "steps", "s", nil, "step ranges as name:low..high (repeatable, space-separated)")
	cmd.Flags().IntVarP(&opts.blending, "blending", "b", 0, "blending strength 0..100")
	cmd.Flags().Uint64VarP(&opts.seed, "seed", "x", 0, "random seed (0 picks one)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "output formats: lua, json (comma-separated)")
	cmd.Flags().StringVar(&opts.resize, "resize", "", "resample the image to WxH first (e.g. 512x512, 512x)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML preset; flags override its values")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "use a Redis cache at host:port")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "file cache directory")

	return cmd
}

func (c *CLI) runTexture(cmd *cobra.Command, opts textureOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if opts.image == "" {
		return errs.New(errs.ErrCodeInvalidParameter, "image is required (--image)")
	}
	size, err := parseResize(opts.resize)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cacheSettings{
		disabled: opts.noCache,
		dir:      opts.cacheDir,
		redis:    opts.redis,
		prefix:   opts.cachePrefix,
		ttl:      opts.cacheTTL,
	})
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Image:    opts.image,
		Steps:    opts.steps,
		Blending: opts.blending,
		Seed:     opts.seed,
		Formats:  parseFormats(opts.formats),
		Resize:   size,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	paths := outputPaths(opts.output, opts.image, result.Formats)
	if err := writeArtifacts(result.Artifacts, paths); err != nil {
		return err
	}
	prog.done("Texture complete")

	if result.Map != nil {
		printSuccess("Built %dx%d tile map", result.Stats.Width, result.Stats.Height)
	} else {
		printSuccess("Tile map ready")
	}
	for _, f := range result.Formats {
		printFile(paths[f])
	}
	printStats(result.Stats.Tiles, result.CacheInfo.Hit)
	printKeyValue("seed", strconv.FormatUint(result.Seed, 10))
	if opts.seed == 0 {
		printNextStep("Reproduce with", fmt.Sprintf("--seed %d", result.Seed))
	}
	return nil
}

// applyConfig fills every option whose flag was not set explicitly from cfg.
func applyConfig(changed func(string) bool, cfg config.Config, o *textureOpts) error {
	if !changed("image") && cfg.Image != "" {
		o.image = cfg.Image
	}
	if !changed("output") && cfg.Output != "" {
		o.output = cfg.Output
	}
	if !changed("steps") && len(cfg.Steps) > 0 {
		o.steps = cfg.Steps
	}
	if !changed("blending") {
		o.blending = cfg.Blending
	}
	if !changed("seed") && cfg.Seed != 0 {
		o.seed = cfg.Seed
	}
	if !changed("format") && len(cfg.Formats) > 0 {
		o.formats = strings.Join(cfg.Formats, ",")
	}
	if !changed("resize") && (cfg.Resize.Width != 0 || cfg.Resize.Height != 0) {
		o.resize = formatResize(cfg.Resize.Width, cfg.Resize.Height)
	}
	if !changed("no-cache") && cfg.Cache.Disabled {
		o.noCache = true
	}
	if !changed("redis") && cfg.Cache.Redis != "" {
		o.redis = cfg.Cache.Redis
	}
	if !changed("cache-dir") && cfg.Cache.Dir != "" {
		o.cacheDir = cfg.Cache.Dir
	}
	o.cachePrefix = cfg.Cache.Prefix
	ttl, err := cfg.Cache.Lifetime()
	if err != nil {
		return err
	}
	o.cacheTTL = ttl
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	return strings.Split(s, ",")
}

// parseResize parses "WxH". Either side may be empty to keep the aspect ratio.
func parseResize(s string) (imageio.Size, error) {
	if s == "" {
		return imageio.Size{}, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return imageio.Size{}, errs.New(errs.ErrCodeInvalidParameter, "resize %q: want WxH", s)
	}
	var size imageio.Size
	var err error
	if size.Width, err = parseDim(w); err != nil {
		return imageio.Size{}, errs.Wrap(errs.ErrCodeInvalidParameter, err, "resize %q", s)
	}
	if size.Height, err = parseDim(h); err != nil {
		return imageio.Size{}, errs.Wrap(errs.ErrCodeInvalidParameter, err, "resize %q", s)
	}
	if size.IsZero() {
		return imageio.Size{}, errs.New(errs.ErrCodeInvalidParameter, "resize %q: need at least one dimension", s)
	}
	return size, nil
}

func parseDim(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative dimension %d", n)
	}
	return n, nil
}

func formatResize(w, h int) string {
	dim := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}
	return dim(w) + "x" + dim(h)
}

// outputPaths maps each format to its destination. A single format is written
// to output as given; several share output's base name with per-format
// extensions. Without output the image path supplies the base name.
func outputPaths(output, image string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = image
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes every artifact. It runs only after the whole pipeline
// succeeded, so a failed run leaves no partial files behind.
func writeArtifacts(artifacts map[string][]byte, paths map[string]string) error {
	for format, data := range artifacts {
		path, ok := paths[format]
		if !ok {
			continue
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
