package tilemap

import (
	"github.com/matzehuels/tiletex/pkg/blend"
	"github.com/matzehuels/tiletex/pkg/prng"
	"github.com/matzehuels/tiletex/pkg/steps"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

// Build maps every intensity in f to a tile index.
//
// Inputs are checked before any pixel is processed; once they pass, Build
// cannot fail. For each pixel in row-major order it computes
// t.Resolve(blend.Apply(px, s, src)) and interns the tile name. src is
// advanced by exactly one draw per pixel when s > 0 and not at all when
// s == 0.
func Build(f *Field, t *steps.Table, s blend.Strength, src *prng.Source) (*Map, error) {
	switch {
	case f == nil:
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "no intensity field")
	case t == nil:
		return nil, errs.New(errs.ErrCodeInvalidParameter, "no step table")
	case src == nil && s != blend.Off:
		return nil, errs.New(errs.ErrCodeInvalidParameter, "blending strength %d needs a random source", int(s))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	grid := newGrid(f.width, f.height)
	index := NewIndex()
	for _, px := range f.pix {
		name := t.Resolve(blend.Apply(px, s, src))
		grid.cells = append(grid.cells, index.Intern(name))
	}
	return &Map{Grid: grid, Index: index}, nil
}
