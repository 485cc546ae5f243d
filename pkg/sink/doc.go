// Package sink serializes built tile maps.
//
// [RenderLua] produces the artifact a scenario loads at runtime: a Lua module
// with the grid dimensions, an index-to-tile-name table and the grid itself,
// preceded by a comment echoing the run parameters. [RenderJSON] writes the
// same data as JSON for tooling. Both formats contain only integers and
// strings.
//
// [ReadLua] parses a module written by [RenderLua] back into a [Decoded] map,
// which is what "tiletex inspect" uses to summarize existing artifacts.
//
// A scenario looks up the tile for world position (x, y) as
//
//	local row = mod.grid[(y % mod.height) + 1]
//	local tile = mod.map[row[(x % mod.width) + 1]]
package sink

import (
	"github.com/matzehuels/tiletex/pkg/blend"
	"github.com/matzehuels/tiletex/pkg/steps"
)

// RunMeta describes the parameters that produced a map.
// It is informational; readers of the artifact do not depend on it.
type RunMeta struct {
	Seed     uint64         // effective seed
	Blending blend.Strength // blending strength
	Steps    *steps.Table   // step table as provided
}
