// Package pauli implements PauliString / PauliStringRef: a signed tensor
// product of single-qubit Paulis encoded as two bit-vectors, per spec
// 3.4/4.D.
package pauli

import (
	"fmt"
	"strings"

	"stabsim/errs"
	"stabsim/rand"
	"stabsim/simd"
)

// Sign is a single addressable bit within a simd.Bits-backed vector, used
// as the sign bit of a PauliStringRef. Unlike a *bool, it stays valid as
// a handle into shared storage (e.g. one bit of a Tableau half's Signs
// vector), so mutating it through Flip/Set writes straight back to that
// storage with no separate commit step.
type Sign struct {
	ref simd.BitsRef
	idx int
}

// NewSign wraps bit idx of ref as a Sign handle.
func NewSign(ref simd.BitsRef, idx int) Sign { return Sign{ref: ref, idx: idx} }

// Get reports whether the sign is "-".
func (s Sign) Get() bool { return s.ref.Get(s.idx) != 0 }

// Set assigns the sign.
func (s Sign) Set(v bool) {
	if v {
		s.ref.Set(s.idx, 1)
	} else {
		s.ref.Set(s.idx, 0)
	}
}

// Flip toggles the sign.
func (s Sign) Flip() { s.Set(!s.Get()) }

// PauliStringRef is a non-owning view over xs/zs bit-vectors plus a sign
// bit, the same "owning struct + borrowing ref" split as simd.Bits/BitsRef.
type PauliStringRef struct {
	Sign Sign
	Xs   simd.BitsRef
	Zs   simd.BitsRef
}

// NumQubits returns the number of Pauli factors.
func (p PauliStringRef) NumQubits() int { return p.Xs.Len() }

// Get returns the Pauli at qubit j as one of 'I','X','Y','Z'.
func (p PauliStringRef) Get(j int) byte {
	x, z := p.Xs.Get(j), p.Zs.Get(j)
	switch {
	case x == 0 && z == 0:
		return 'I'
	case x == 1 && z == 0:
		return 'X'
	case x == 0 && z == 1:
		return 'Z'
	default:
		return 'Y'
	}
}

// SetPauli assigns the Pauli at qubit j from one of 'I','X','Y','Z'.
func (p PauliStringRef) SetPauli(j int, c byte) error {
	var x, z uint8
	switch c {
	case 'I':
	case 'X':
		x = 1
	case 'Z':
		z = 1
	case 'Y':
		x, z = 1, 1
	default:
		return errs.Parse("pauli: invalid symbol %q", c)
	}
	p.Xs.Set(j, x)
	p.Zs.Set(j, z)
	return nil
}

// String renders the canonical "+XYZ_" / "-XX" text form.
func (p PauliStringRef) String() string {
	var sb strings.Builder
	if p.Sign.Get() {
		sb.WriteByte('-')
	} else {
		sb.WriteByte('+')
	}
	for j := 0; j < p.NumQubits(); j++ {
		c := p.Get(j)
		if c == 'I' {
			c = '_'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// CommutesWith reports whether p commutes with q (both same length):
// XOR-accumulate (x1&z2)^(x2&z1) across all words; commutes iff the total
// popcount is even, per spec 4.D.
func (p PauliStringRef) CommutesWith(q PauliStringRef) bool {
	total := 0
	px, pz, qx, qz := p.Xs.Words(), p.Zs.Words(), q.Xs.Words(), q.Zs.Words()
	for i := range px {
		acc := (px[i] & qz[i]) ^ (qx[i] & pz[i])
		total += acc.PopCount()
	}
	return total%2 == 0
}

// InplaceRightMultiplyBy computes p <- p * q and returns the accumulated
// i-phase exponent e (mod 4) of p_before * q relative to the unsigned
// product carrying p_before's sign, per spec 4.D. Because bit 1 of e is
// folded into p's sign, p_before * q = i^(e&1) * p_after. cnt1/cnt2 are bit-sliced mod-4 counters (one lane per qubit
// in the current word) that get XOR-accumulated across every word of the
// vector before being reduced by popcount; this mirrors the reference
// implementation's carry-save trick exactly; re-deriving it differently
// risks getting the cross-lane carry wrong. Bit 1 of e is folded into
// p's sign automatically; a caller expecting a pure +-1 product should
// assert e&1 == 0 (TimesPauli does this).
func (p PauliStringRef) InplaceRightMultiplyBy(q PauliStringRef) int {
	var cnt1, cnt2 simd.Word
	px, pz, qx, qz := p.Xs.Words(), p.Zs.Words(), q.Xs.Words(), q.Zs.Words()
	for i := range px {
		oldX1, oldZ1 := px[i], pz[i]
		px[i] ^= qx[i]
		pz[i] ^= qz[i]
		x1z2 := oldX1 & qz[i]
		anti := (qx[i] & oldZ1) ^ x1z2
		cnt2 ^= (cnt1 ^ px[i] ^ pz[i] ^ x1z2) & anti
		cnt1 ^= anti
	}
	phase := cnt1.PopCount() ^ (cnt2.PopCount() << 1)
	if q.Sign.Get() {
		phase ^= 2
	}
	phase &= 3
	if phase&2 != 0 {
		p.Sign.Flip()
	}
	return phase
}

// TimesPauli multiplies p by q in place, asserting the product is a pure
// signed Pauli (no leftover i factor). Returns an error if that assertion
// fails (callers composing two operators that don't commute to a real
// Pauli product should not use this entry point).
func TimesPauli(p, q PauliStringRef) error {
	e := p.InplaceRightMultiplyBy(q)
	if e&1 != 0 {
		return errs.Invariant("pauli: product has residual imaginary phase")
	}
	return nil
}

// Gather writes, into a freshly allocated PauliString, the sub-string of
// p restricted to the given qubit indices, in order.
func Gather(p PauliStringRef, indices []int) *PauliString {
	out := NewIdentity(len(indices))
	out.Sign = p.Sign.Get()
	ref := out.Ref()
	for i, q := range indices {
		ref.SetPauli(i, p.Get(q))
	}
	return out
}

// Scatter writes p's Paulis into dst at the given qubit indices.
func Scatter(p PauliStringRef, dst PauliStringRef, indices []int) {
	if p.Sign.Get() {
		dst.Sign.Flip()
	}
	for i, q := range indices {
		dst.SetPauli(q, p.Get(i))
	}
}

// PauliString is the owning counterpart of PauliStringRef.
type PauliString struct {
	NumQubits  int
	Sign       bool
	xs, zs     *simd.Bits
	signBacking *simd.Bits
}

// NewIdentity returns the identity Pauli string of the given length.
func NewIdentity(n int) *PauliString {
	return &PauliString{NumQubits: n, xs: simd.NewBits(n), zs: simd.NewBits(n), signBacking: simd.NewBits(1)}
}

// Parse builds a PauliString from text like "+XYZ_" or "-XX".
func Parse(text string) (*PauliString, error) {
	if text == "" {
		return nil, errs.Parse("pauli: empty string")
	}
	sign := false
	body := text
	switch text[0] {
	case '+':
		body = text[1:]
	case '-':
		sign = true
		body = text[1:]
	}
	out := NewIdentity(len(body))
	out.Sign = sign
	ref := out.Ref()
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '_' {
			c = 'I'
		}
		if err := ref.SetPauli(i, c); err != nil {
			return nil, fmt.Errorf("pauli.Parse(%q): %w", text, err)
		}
	}
	return out, nil
}

// Random samples a uniformly random Pauli string of length n (each
// symbol independently one of I/X/Y/Z, sign uniformly random).
func Random(n int, rng *rand.RNG) *PauliString {
	out := NewIdentity(n)
	out.xs.Randomize(n, rng)
	out.zs.Randomize(n, rng)
	out.Sign = rng.Bool()
	return out
}

// Ref returns a PauliStringRef view over p. The returned Sign handle
// writes through to p.Sign via a 1-bit backing vector kept in sync by
// syncSignOut/syncSignIn around each call; see Ref's implementation.
func (p *PauliString) Ref() PauliStringRef {
	p.signBacking.Set(0, b2u8(p.Sign))
	return pauliRefWithCallback(p)
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// pauliRefWithCallback builds the ref and arranges for p.Sign to mirror
// the 1-bit backing vector after any mutation, by using the backing
// vector as the single source of truth for the lifetime of the ref and
// syncing p.Sign back in every method that reads it afterward (String,
// Clone, and direct field access all go through p.Sign, so we resync
// immediately; there is no persistent aliasing hazard because
// PauliStringRef's Sign is a real handle into p.signBacking, not a copy).
func pauliRefWithCallback(p *PauliString) PauliStringRef {
	ref := PauliStringRef{Sign: NewSign(p.signBacking.BitsRef, 0), Xs: p.xs.BitsRef, Zs: p.zs.BitsRef}
	return ref
}

// String renders the canonical text form.
func (p *PauliString) String() string {
	p.signBacking.Set(0, b2u8(p.Sign))
	s := p.Ref().String()
	p.Sign = p.signBacking.Get(0) != 0
	return s
}

// Clone returns an independent deep copy.
func (p *PauliString) Clone() *PauliString {
	out := NewIdentity(p.NumQubits)
	out.Sign = p.Sign
	out.xs.CopyFrom(p.xs.BitsRef)
	out.zs.CopyFrom(p.zs.BitsRef)
	return out
}
