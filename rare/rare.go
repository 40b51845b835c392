// Package rare implements the rare-event sampling primitives spec.md 4.K
// asks for: a geometric-gap iterator for sparse Bernoulli(p) hits over a
// bounded index range, and a batch biased-bit-fill routine with the same
// branchy probability-range strategy as the reference implementation.
// Grounded directly on probability_util.cc.
package rare

import (
	"math"

	"stabsim/errs"
	"stabsim/rand"
)

// Iterator yields the indices of Bernoulli(p) "hits" over [0, N) in
// increasing order, without ever materializing the dense bit sequence:
// gaps between hits are drawn from a geometric distribution.
type Iterator struct {
	p             float64
	isOne         bool
	nextCandidate uint64
}

// NewIterator builds an Iterator for hit-probability p (0 <= p <= 1).
func NewIterator(p float64) (*Iterator, error) {
	if !(p >= 0 && p <= 1) {
		return nil, errs.Validation("rare: invalid probability %v", p)
	}
	return &Iterator{p: p, isOne: p == 1}, nil
}

// Next draws the next hit index, advancing internal state.
func (it *Iterator) Next(rng *rand.RNG) uint64 {
	var gap uint64
	if !it.isOne {
		gap = geometric(it.p, rng)
	}
	result := it.nextCandidate + gap
	it.nextCandidate = result + 1
	return result
}

// geometric draws from Geometric(p): the number of failures before the
// first success, each trial independently a success with probability p.
// p <= 0 returns math.MaxUint64 (an effectively infinite gap); ForSamples
// also returns before drawing anything when probability == 0.
func geometric(p float64, rng *rand.RNG) uint64 {
	if p <= 0 {
		return math.MaxUint64
	}
	u := rng.Float64()
	if u >= 1 {
		u = 1 - 1e-12
	}
	v := math.Log1p(-u) / math.Log1p(-p)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return uint64(v)
}

// ForSamples calls body(s) for every hit index s in [0, attempts) of a
// Bernoulli(probability) process, in increasing order.
func ForSamples(probability float64, attempts uint64, rng *rand.RNG, body func(s uint64)) error {
	it, err := NewIterator(probability)
	if err != nil {
		return err
	}
	if probability == 0 {
		return nil
	}
	for {
		s := it.Next(rng)
		if s >= attempts {
			return nil
		}
		body(s)
	}
}

// SampleHitIndices returns every hit index in [0, attempts) as a slice.
func SampleHitIndices(probability float64, attempts uint64, rng *rand.RNG) ([]uint64, error) {
	var out []uint64
	err := ForSamples(probability, attempts, rng, func(s uint64) { out = append(out, s) })
	return out, err
}

// BiasedRandomizeBits fills dst (a slice of uint64 words) so that each
// bit is independently 1 with probability p, per spec 4.K / the
// reference biased_randomize_bits: p>0.5 recurses on 1-p and complements;
// p==0.5 copies raw RNG words; p<0.02 zeroes the buffer and marks
// individual bits via the geometric-gap iterator; otherwise each bit is
// generated by an up-to-8-coin-flip tree selecting a bit of the
// truncated binary expansion of p, with a correction pass absorbing the
// truncation error.
func BiasedRandomizeBits(p float64, dst []uint64, rng *rand.RNG) {
	switch {
	case p > 0.5:
		BiasedRandomizeBits(1-p, dst, rng)
		for i := range dst {
			dst[i] ^= math.MaxUint64
		}
	case p == 0.5:
		for i := range dst {
			dst[i] = rng.Uint64()
		}
	case p < 0.02:
		for i := range dst {
			dst[i] = 0
		}
		n := uint64(len(dst)) * 64
		_ = ForSamples(p, n, rng, func(s uint64) {
			dst[s>>6] |= uint64(1) << (s & 63)
		})
	default:
		const coinFlips = 8
		const buckets = float64(int(1) << coinFlips)
		raised := p * buckets
		raisedFloor := math.Floor(raised)
		raisedLeftover := raised - raisedFloor
		pTruncated := raisedFloor / buckets
		pLeftover := raisedLeftover / buckets
		topBits := uint64(raisedFloor)

		for i := range dst {
			alive := rng.Uint64()
			var result uint64
			kBit := coinFlips - 1
			for kBit > 0 {
				kBit--
				shoot := rng.Uint64()
				var mask uint64
				if (topBits>>uint(kBit))&1 != 0 {
					mask = math.MaxUint64
				}
				result ^= shoot & alive & mask
				alive &^= shoot
			}
			dst[i] = result
		}

		n := uint64(len(dst)) * 64
		denom := 1 - pTruncated
		if denom > 0 {
			_ = ForSamples(pLeftover/denom, n, rng, func(s uint64) {
				dst[s>>6] |= uint64(1) << (s & 63)
			})
		}
	}
}
