// Package rand wraps a deterministic math/rand source the way the teacher
// repo's ntru.RNG wrapped one for its sampler tests: a single small type
// that every higher layer (simd, tableau, rare, sim) takes by pointer
// instead of reaching for the global math/rand functions directly, so a
// caller can seed and reuse one source across a whole simulation.
package rand

import "math/rand"

// RNG wraps a deterministic *rand.Rand.
type RNG struct {
	r *rand.Rand
}

// New creates an RNG seeded deterministically.
func New(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// FromSource adapts an existing *rand.Rand.
func FromSource(r *rand.Rand) *RNG {
	return &RNG{r: r}
}

// Uint64 returns a uniformly random 64-bit word.
func (g *RNG) Uint64() uint64 { return g.r.Uint64() }

// Intn returns a random int in [0,n).
func (g *RNG) Intn(n int) int { return g.r.Intn(n) }

// Float64 returns a random float64 in [0,1).
func (g *RNG) Float64() float64 { return g.r.Float64() }

// Bit returns a single uniformly random bit.
func (g *RNG) Bit() uint8 { return uint8(g.r.Uint64() & 1) }

// Bool returns a uniformly random bool.
func (g *RNG) Bool() bool { return g.Bit() != 0 }
