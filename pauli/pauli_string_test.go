package pauli

import (
	"stabsim/rand"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []string{"+XYZ_", "-XX", "+IIII", "-Y"} {
		p, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := p.String(); got != s {
			t.Fatalf("round trip mismatch: %q -> %q", s, got)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("+XQ"); err == nil {
		t.Fatalf("expected error for invalid symbol")
	}
}

func TestXAnticommutesWithZ(t *testing.T) {
	x, _ := Parse("+X")
	z, _ := Parse("+Z")
	if x.Ref().CommutesWith(z.Ref()) {
		t.Fatalf("X and Z should anticommute")
	}
}

func TestIdenticalPaulisCommute(t *testing.T) {
	rng := rand.New(5)
	a := Random(20, rng)
	if !a.Ref().CommutesWith(a.Ref()) {
		t.Fatalf("any operator commutes with itself")
	}
}

func TestMultiplyXTimesZIsMinusIY(t *testing.T) {
	x, _ := Parse("+X")
	z, _ := Parse("+Z")
	e := x.Ref().InplaceRightMultiplyBy(z.Ref())
	// X*Z = -iY
	if x.String() != "-Y" {
		t.Fatalf("expected -Y, got %s (phase=%d)", x.String(), e)
	}
	if e != 3 { // i^3 = -i
		t.Fatalf("expected i-phase exponent 3, got %d", e)
	}
}

func TestMultiplyByIdentityIsNoop(t *testing.T) {
	rng := rand.New(6)
	a := Random(30, rng)
	before := a.String()
	id := NewIdentity(30)
	e := a.Ref().InplaceRightMultiplyBy(id.Ref())
	if e != 0 {
		t.Fatalf("multiplying by identity should have zero phase, got %d", e)
	}
	if a.String() != before {
		t.Fatalf("multiplying by identity should not change the string")
	}
}
