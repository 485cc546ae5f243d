// Package pkg provides the core libraries for tiletex.
//
// # Overview
//
// tiletex turns a grayscale image into a tile map for a game scenario. Each
// pixel's intensity is optionally perturbed by seeded noise, then resolved to
// a tile name through a table of intensity ranges. The pkg directory is
// organized into three areas:
//
//  1. Domain: [steps], [prng], [blend], [tilemap], [sink]
//  2. Infrastructure: [imageio], [cache], [config], [observability], [errors]
//  3. Orchestration: [pipeline]
//
// # Architecture
//
// The typical data flow:
//
//	grayscale image
//	       ↓
//	  [imageio] (decode, optional resize, luminance)
//	       ↓
//	  [tilemap] (blend with [prng] noise, resolve via [steps], dedup index)
//	       ↓
//	  [sink] (Lua module, JSON)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/tiletex/pkg/blend"
//	    "github.com/matzehuels/tiletex/pkg/imageio"
//	    "github.com/matzehuels/tiletex/pkg/prng"
//	    "github.com/matzehuels/tiletex/pkg/sink"
//	    "github.com/matzehuels/tiletex/pkg/steps"
//	    "github.com/matzehuels/tiletex/pkg/tilemap"
//	)
//
//	table, _ := steps.ParseAll([]string{"water:0..89 sand:90..119 grass:120..255"})
//	field, _ := imageio.Load("island.png", imageio.Options{})
//	src := prng.New(prng.Explicit(1337))
//	m, _ := tilemap.Build(field, table, blend.Strength(20), src)
//	lua := sink.RenderLua(m, sink.RunMeta{Seed: src.Seed(), Blending: 20, Steps: table})
//
// Most callers use [pipeline.Runner] instead, which adds validation, caching
// and logging around the same steps.
//
// [steps]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/steps
// [prng]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/prng
// [blend]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/blend
// [tilemap]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/tilemap
// [sink]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/sink
// [imageio]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/imageio
// [cache]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/tiletex/pkg/pipeline#Runner
package pkg
