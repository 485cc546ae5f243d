// Package blend softens hard edges between tile buckets.
//
// Before an intensity is resolved to a tile it is nudged by a random delta
// whose width grows with the blending strength. Pixels near a bucket boundary
// then land on either side of it at random, which breaks up the sharp,
// grid-aligned seams a pure threshold produces. Draws are independent per
// pixel; there is no spatial filtering.
//
// Strength 0 is an exact pass-through and consumes no random draws.
// Strength 100 perturbs by up to ±255, which makes every pixel effectively
// random.
package blend

import (
	"github.com/matzehuels/tiletex/pkg/prng"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

// Strength is the blending strength in percent.
type Strength int

const (
	// Off disables blending.
	Off Strength = 0
	// Max turns every pixel into noise.
	Max Strength = 100
)

const maxDelta = 255

// Validate rejects strengths outside [0,100].
func (s Strength) Validate() error {
	if s < Off || s > Max {
		return errs.New(errs.ErrCodeInvalidParameter, "blending strength %d not in 0..%d", int(s), int(Max))
	}
	return nil
}

// Magnitude returns the largest absolute delta applied at strength s.
// It scales linearly from 0 at Off to 255 at Max, rounding down.
func Magnitude(s Strength) int {
	return int(s) * maxDelta / int(Max)
}

// Apply perturbs v by a delta drawn uniformly from [-m, m], where m is
// Magnitude(s), and clamps the result to [0,255].
//
// It draws exactly one value from src when s > 0 and none when s == 0.
// s must already be valid.
func Apply(v uint8, s Strength, src *prng.Source) uint8 {
	m := Magnitude(s)
	if m == 0 {
		return v
	}
	return clamp(int(v) + src.IntRange(-m, m))
}

func clamp(v int) uint8 {
	return uint8(max(0, min(v, maxDelta)))
}
