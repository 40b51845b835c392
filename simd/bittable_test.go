package simd

import (
	"stabsim/rand"
	"testing"
)

func TestBitTableTransposeInvolution(t *testing.T) {
	n := 130 // not a multiple of WordBits, exercises padding
	tbl := NewBitTable(n, n)
	rng := rand.New(1)
	for i := 0; i < n; i++ {
		tbl.Row(i).Randomize(n, rng)
	}
	tt := tbl.Transposed()
	ttt := tt.Transposed()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if tbl.Get(i, j) != ttt.Get(i, j) {
				t.Fatalf("transpose not involutive at (%d,%d)", i, j)
			}
		}
	}
}

func TestBitTableTransposeSquareInPlace(t *testing.T) {
	n := 192
	tbl := NewBitTable(n, n)
	rng := rand.New(2)
	for i := 0; i < n; i++ {
		tbl.Row(i).Randomize(n, rng)
	}
	ref := tbl.Transposed()
	tbl.TransposeSquareInPlace()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if tbl.Get(i, j) != ref.Get(i, j) {
				t.Fatalf("in-place transpose mismatch at (%d,%d)", i, j)
			}
		}
	}
}

func TestIdentityMul(t *testing.T) {
	n := 70
	id := Identity(n)
	m := NewBitTable(n, n)
	rng := rand.New(3)
	for i := 0; i < n; i++ {
		m.Row(i).Randomize(n, rng)
	}
	prod := Mul(id, m)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if prod.Get(i, j) != m.Get(i, j) {
				t.Fatalf("identity*m mismatch at (%d,%d)", i, j)
			}
		}
	}
}

func TestInvertLowerTriangular(t *testing.T) {
	n := 40
	m := NewBitTable(n, n)
	rng := rand.New(4)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
		for j := 0; j < i; j++ {
			m.Set(i, j, uint8(rng.Intn(2)))
		}
	}
	inv, ok := m.InvertLowerTriangular()
	if !ok {
		t.Fatalf("expected invertible lower-triangular matrix")
	}
	prod := Mul(m, inv)
	id := Identity(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if prod.Get(i, j) != id.Get(i, j) {
				t.Fatalf("m*inv != identity at (%d,%d)", i, j)
			}
		}
	}
}
