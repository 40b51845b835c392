package simd

import "testing"

func TestWordBitOps(t *testing.T) {
	a := BroadcastByte(0xAA)
	b := BroadcastByte(0x55)
	if x := a.Xor(b); x != BroadcastByte(0xFF) {
		t.Fatalf("xor mismatch: %x", x)
	}
	if a.And(b) != 0 {
		t.Fatalf("expected disjoint bytes to AND to zero")
	}
	if a.Or(b) != BroadcastByte(0xFF) {
		t.Fatalf("or mismatch")
	}
	if !a.AndNot(a).IsZero() {
		t.Fatalf("AndNot self should be zero")
	}
}

func TestWordPopCount(t *testing.T) {
	w := Word(0)
	for i := 0; i < 10; i++ {
		w = w.WithBit(i*3, 1)
	}
	if w.PopCount() != 10 {
		t.Fatalf("expected 10 bits set, got %d", w.PopCount())
	}
}

func TestTransposeSquareIsInvolution(t *testing.T) {
	var words [WordBits]Word
	for i := range words {
		words[i] = Word(0x9E3779B97F4A7C15 ^ uint64(i)*2654435761)
	}
	orig := words
	TransposeSquare(words[:])
	TransposeSquare(words[:])
	if words != orig {
		t.Fatalf("double transpose should be identity")
	}
}

func TestTransposeSquareMatchesBitDefinition(t *testing.T) {
	var words [WordBits]Word
	words[3] = words[3].WithBit(7, 1) // M[3][7] = 1
	TransposeSquare(words[:])
	// After transpose, M'[7][3] should be 1, and M[3][7] should be gone elsewhere.
	if words[7].Bit(3) != 1 {
		t.Fatalf("expected transposed bit at [7][3]")
	}
	if words[7].PopCount() != 1 {
		t.Fatalf("expected exactly one bit set in row 7, got %d", words[7].PopCount())
	}
}
