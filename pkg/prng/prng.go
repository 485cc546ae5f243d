// Package prng provides the seeded pseudorandom source behind blending.
//
// The generator is PCG from math/rand/v2, seeded the same way the rest of the
// codebase seeds its layout jitter. Bounded integers are derived from the raw
// 64-bit PCG output by this package rather than by rand.Rand, so a given seed
// yields the same sequence on every platform and every Go release.
//
// A [Seed] is either [Explicit] or [Auto]. Auto seeds are drawn from the
// runtime's entropy source when the [Source] is created and reported back by
// [Source.Seed], so any run can be reproduced later.
package prng

import (
	"math/bits"
	"math/rand/v2"
	"strconv"
)

// streamSalt derives PCG's second state word from the seed.
const streamSalt = 0xdeadbeef

// Seed selects how a [Source] is initialized.
type Seed struct {
	value uint64
	auto  bool
}

// Explicit returns a seed that is used verbatim.
// Zero is reserved as the "pick one for me" sentinel, so Explicit(0) behaves like [Auto].
func Explicit(v uint64) Seed {
	if v == 0 {
		return Auto()
	}
	return Seed{value: v}
}

// Auto returns a seed that asks the source to generate a fresh non-zero seed.
func Auto() Seed {
	return Seed{auto: true}
}

// FromValue maps the command-line convention (0 = auto) onto a Seed.
func FromValue(v uint64) Seed {
	return Explicit(v)
}

// IsAuto reports whether the seed will be generated at construction.
func (s Seed) IsAuto() bool { return s.auto }

// Value returns the explicit seed, or 0 for an auto seed.
func (s Seed) Value() uint64 { return s.value }

// String returns the seed value, or "auto".
func (s Seed) String() string {
	if s.auto {
		return "auto"
	}
	return strconv.FormatUint(s.value, 10)
}

// Source is a deterministic generator. It is not safe for concurrent use;
// one run owns one Source.
type Source struct {
	seed uint64
	pcg  *rand.PCG
}

// New creates a Source. Auto seeds are resolved here.
func New(seed Seed) *Source {
	v := seed.value
	if seed.auto {
		v = generate()
	}
	return &Source{
		seed: v,
		pcg:  rand.NewPCG(v, v^streamSalt),
	}
}

// generate draws a non-zero seed from the runtime-seeded global generator.
func generate() uint64 {
	for {
		if v := rand.Uint64(); v != 0 {
			return v
		}
	}
}

// Seed returns the effective seed. It is never zero.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Uint64 returns the next raw 64-bit value.
func (s *Source) Uint64() uint64 {
	return s.pcg.Uint64()
}

// Uint64N returns a uniform value in [0, n). It panics if n == 0.
//
// Lemire's multiply-shift with rejection: the high word of x*n is uniform
// once products whose low word falls below 2^64 mod n are discarded.
func (s *Source) Uint64N(n uint64) uint64 {
	if n == 0 {
		panic("prng: Uint64N with n == 0")
	}
	hi, lo := bits.Mul64(s.pcg.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(s.pcg.Uint64(), n)
		}
	}
	return hi
}

// IntRange returns a uniform integer in [lo, hi]. It panics if lo > hi.
func (s *Source) IntRange(lo, hi int) int {
	if lo > hi {
		panic("prng: IntRange with lo > hi")
	}
	span := uint64(hi-lo) + 1
	return lo + int(s.Uint64N(span))
}
