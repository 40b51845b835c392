package tableau

import (
	"testing"

	"stabsim/rand"
)

func TestIdentitySatisfiesInvariants(t *testing.T) {
	tab := NewIdentity(5)
	if !tab.SatisfiesInvariants() {
		t.Fatalf("identity tableau must satisfy invariants")
	}
}

func TestPrependGatesPreserveInvariants(t *testing.T) {
	tab := NewIdentity(4)
	tab.PrependH_XZ(0)
	tab.PrependSQRT_Z(1)
	tab.PrependZCX(0, 1)
	tab.PrependSWAP(2, 3)
	tab.PrependZCZ(1, 2)
	tab.PrependH_XY(3)
	if !tab.SatisfiesInvariants() {
		t.Fatalf("prepend gate sequence broke invariants")
	}
}

func TestHXZHXZIsIdentity(t *testing.T) {
	tab := NewIdentity(3)
	tab.PrependH_XZ(1)
	tab.PrependH_XZ(1)
	id := NewIdentity(3)
	for q := 0; q < 3; q++ {
		if tab.XImage(q).String() != id.XImage(q).String() {
			t.Fatalf("H*H should be identity on qubit %d", q)
		}
		if tab.ZImage(q).String() != id.ZImage(q).String() {
			t.Fatalf("H*H should be identity on qubit %d", q)
		}
	}
}

func TestAppendGatesPreserveInvariantsUnderTransposedRaii(t *testing.T) {
	tab := NewIdentity(4)
	func() {
		r := tab.EnterTransposed()
		defer r.Close()
		r.AppendH_XZ(0)
		r.AppendS(1)
		r.AppendZCX(0, 1)
		r.AppendSWAP(2, 3)
		r.AppendZCZ(1, 2)
	}()
	if !tab.SatisfiesInvariants() {
		t.Fatalf("append gate sequence broke invariants")
	}
}

func TestComposeWithIdentityIsNoop(t *testing.T) {
	tab := NewIdentity(3)
	tab.PrependH_XZ(0)
	tab.PrependZCX(1, 2)
	id := NewIdentity(3)
	composed, err := Compose(id, tab)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	for q := 0; q < 3; q++ {
		if composed.XImage(q).String() != tab.XImage(q).String() {
			t.Fatalf("compose with identity changed X image at %d", q)
		}
	}
}

func TestInverseRoundTrips(t *testing.T) {
	tab := NewIdentity(3)
	tab.PrependH_XZ(0)
	tab.PrependSQRT_Z(1)
	tab.PrependZCX(0, 1)
	tab.PrependZCZ(1, 2)

	inv := tab.Inverse()
	roundTrip, err := Compose(tab, inv)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	id := NewIdentity(3)
	for q := 0; q < 3; q++ {
		if roundTrip.XImage(q).String() != id.XImage(q).String() {
			t.Fatalf("t composed with its inverse should be identity, X image at %d: got %s", q, roundTrip.XImage(q).String())
		}
		if roundTrip.ZImage(q).String() != id.ZImage(q).String() {
			t.Fatalf("t composed with its inverse should be identity, Z image at %d: got %s", q, roundTrip.ZImage(q).String())
		}
	}
}

func TestRandomCliffordSatisfiesInvariants(t *testing.T) {
	rng := rand.New(42)
	for trial := 0; trial < 5; trial++ {
		tab := RandomClifford(6, rng)
		if !tab.SatisfiesInvariants() {
			t.Fatalf("random Clifford tableau failed invariants on trial %d", trial)
		}
	}
}
