package simd

import "stabsim/rand"

func numWordsFor(numBits int) int {
	if numBits <= 0 {
		return 0
	}
	return (numBits + WordBits - 1) / WordBits
}

// BitsRef is a non-owning view over a contiguous run of Words, exposing
// them as a bit-vector of length numBits (numBits <= len(words)*WordBits).
// The referent must outlive the view; BitsRef never allocates.
type BitsRef struct {
	numBits int
	words   []Word
}

// RefOf wraps an existing word slice as a BitsRef of the given bit length.
func RefOf(numBits int, words []Word) BitsRef {
	return BitsRef{numBits: numBits, words: words}
}

// Len returns the logical number of bits (not the padded word count).
func (b *BitsRef) Len() int { return b.numBits }

// NumWords returns the number of Words backing this view.
func (b *BitsRef) NumWords() int { return len(b.words) }

// Words exposes the backing words directly, for callers (e.g. BitTable)
// that need word-granular access.
func (b *BitsRef) Words() []Word { return b.words }

// Get returns bit i (0 <= i < Len()) as 0 or 1.
func (b *BitsRef) Get(i int) uint8 {
	return b.words[i/WordBits].Bit(i % WordBits)
}

// Set assigns bit i to v (0 or 1).
func (b *BitsRef) Set(i int, v uint8) {
	w := i / WordBits
	b.words[w] = b.words[w].WithBit(i%WordBits, v)
}

// Clear zeroes every word, including the padding.
func (b *BitsRef) Clear() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// clearPaddingTail zeroes bits >= numBits within the last word so they
// read as zero without requiring every op to mask on every access.
func (b *BitsRef) clearPaddingTail() {
	if b.numBits%WordBits == 0 {
		return
	}
	last := b.numBits / WordBits
	keep := uint(b.numBits % WordBits)
	mask := Word((uint64(1) << keep) - 1)
	b.words[last] &= mask
}

// XorInto computes dst ^= other, word by word. Both views must have the
// same NumWords.
func (b BitsRef) XorInto(other BitsRef) {
	for i := range b.words {
		b.words[i] ^= other.words[i]
	}
}

// AndInto computes dst &= other, word by word.
func (b *BitsRef) AndInto(other BitsRef) {
	for i := range b.words {
		b.words[i] &= other.words[i]
	}
}

// OrInto computes dst |= other, word by word.
func (b *BitsRef) OrInto(other BitsRef) {
	for i := range b.words {
		b.words[i] |= other.words[i]
	}
}

// Intersects returns whether any word of b ANDs nonzero with other.
func (b *BitsRef) Intersects(other BitsRef) bool {
	for i := range b.words {
		if b.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

// Popcnt sums popcounts across all padded words. Padding bits beyond
// numBits are required to be kept zero by every mutator, so this is safe
// to call without re-masking.
func (b *BitsRef) Popcnt() int {
	n := 0
	for _, w := range b.words {
		n += w.PopCount()
	}
	return n
}

// IsZero reports whether every bit (including padding, which is always
// kept zero) is clear.
func (b *BitsRef) IsZero() bool {
	for _, w := range b.words {
		if !w.IsZero() {
			return false
		}
	}
	return true
}

// CopyFrom overwrites b's words with other's. Both must have equal NumWords.
func (b *BitsRef) CopyFrom(other BitsRef) {
	copy(b.words, other.words)
}

// Swap exchanges the contents of b and other word-for-word.
func (b *BitsRef) Swap(other BitsRef) {
	for i := range b.words {
		b.words[i], other.words[i] = other.words[i], b.words[i]
	}
}

// TruncatedOverwriteFrom copies the first n bits of other into b,
// word-granular for whole words and bit-granular for the trailing
// partial word, per spec 4.B.
func (b *BitsRef) TruncatedOverwriteFrom(other BitsRef, n int) {
	full := n / WordBits
	copy(b.words[:full], other.words[:full])
	for i := full * WordBits; i < n; i++ {
		b.Set(i, other.Get(i))
	}
}

// Randomize fills the first n bits with an unbiased random value; bits
// beyond n, up to the padded buffer, are left unspecified (but never
// written beyond the allocation).
func (b BitsRef) Randomize(n int, rng *rand.RNG) {
	full := n / WordBits
	for i := 0; i < full; i++ {
		b.words[i] = Word(rng.Uint64())
	}
	rem := n % WordBits
	if rem != 0 {
		mask := Word((uint64(1) << uint(rem)) - 1)
		b.words[full] = (b.words[full] &^ mask) | (Word(rng.Uint64()) & mask)
	}
}

// Bits is an owning, padded bit-vector of fixed logical length numBits,
// physically padded up to a multiple of WordBits.
type Bits struct {
	BitsRef
}

// NewBits allocates a zeroed Bits of the given logical length.
func NewBits(numBits int) *Bits {
	return &Bits{BitsRef{numBits: numBits, words: make([]Word, numWordsFor(numBits))}}
}

// FromBits builds a Bits from explicit 0/1 values.
func FromBits(values []uint8) *Bits {
	b := NewBits(len(values))
	for i, v := range values {
		b.Set(i, v)
	}
	return b
}

// Clone returns an independent deep copy.
func (b *Bits) Clone() *Bits {
	out := NewBits(b.numBits)
	copy(out.words, b.words)
	return out
}
