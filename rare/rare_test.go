package rare

import (
	"testing"

	"stabsim/rand"
)

func TestIteratorPZeroYieldsNothing(t *testing.T) {
	rng := rand.New(1)
	var count int
	ForSamples(0, 1000, rng, func(uint64) { count++ })
	if count != 0 {
		t.Fatalf("p=0 should yield no hits, got %d", count)
	}
}

func TestIteratorPOneYieldsEverything(t *testing.T) {
	rng := rand.New(2)
	var got []uint64
	ForSamples(1, 5, rng, func(s uint64) { got = append(got, s) })
	want := []uint64{0, 1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d hits, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("hit %d: want %d got %d", i, want[i], got[i])
		}
	}
}

func TestIteratorIsIncreasing(t *testing.T) {
	rng := rand.New(3)
	var last uint64
	first := true
	ForSamples(0.1, 2000, rng, func(s uint64) {
		if !first && s <= last {
			t.Fatalf("hit indices must be strictly increasing: %d then %d", last, s)
		}
		last = s
		first = false
	})
}

func TestBiasedRandomizeBitsExtremes(t *testing.T) {
	rng := rand.New(4)
	dst := make([]uint64, 4)

	BiasedRandomizeBits(0, dst, rng)
	for _, w := range dst {
		if w != 0 {
			t.Fatalf("p=0 should yield all-zero words, got %x", w)
		}
	}

	BiasedRandomizeBits(1, dst, rng)
	for _, w := range dst {
		if w != ^uint64(0) {
			t.Fatalf("p=1 should yield all-one words, got %x", w)
		}
	}
}

func TestBiasedRandomizeBitsApproximatesProbability(t *testing.T) {
	rng := rand.New(5)
	dst := make([]uint64, 200) // 12800 bits
	BiasedRandomizeBits(0.1, dst, rng)
	total := 0
	for _, w := range dst {
		for i := 0; i < 64; i++ {
			if (w>>uint(i))&1 != 0 {
				total++
			}
		}
	}
	n := len(dst) * 64
	frac := float64(total) / float64(n)
	if frac < 0.05 || frac > 0.15 {
		t.Fatalf("expected roughly 10%% of bits set, got %.3f", frac)
	}
}
