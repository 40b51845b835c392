package gate

import (
	"testing"

	"stabsim/tableau"
)

func TestLookupCanonicalAndAlias(t *testing.T) {
	d, err := Lookup("cnot")
	if err != nil {
		t.Fatalf("Lookup(cnot): %v", err)
	}
	if d.Name != "CNOT" {
		t.Fatalf("expected canonical name CNOT, got %s", d.Name)
	}
	alias, err := Lookup("zcx")
	if err != nil {
		t.Fatalf("Lookup(zcx): %v", err)
	}
	if alias != d {
		t.Fatalf("alias ZCX should resolve to the same Data as CNOT")
	}
}

func TestLookupUnknownGateErrors(t *testing.T) {
	if _, err := Lookup("NOT_A_GATE"); err == nil {
		t.Fatalf("expected error for unknown gate")
	}
}

func TestHPrependIsUnitaryAndKeepsInvariants(t *testing.T) {
	d, err := Lookup("H")
	if err != nil {
		t.Fatalf("Lookup(H): %v", err)
	}
	if !d.Is(FlagUnitary) {
		t.Fatalf("H must be flagged unitary")
	}
	tab := tableau.NewIdentity(2)
	if err := d.Prepend(tab, []int{0}); err != nil {
		t.Fatalf("H.Prepend: %v", err)
	}
	if !tab.SatisfiesInvariants() {
		t.Fatalf("H prepend broke invariants")
	}
}

func TestCNOTRequiresEvenTargets(t *testing.T) {
	d, _ := Lookup("CNOT")
	tab := tableau.NewIdentity(3)
	if err := d.Prepend(tab, []int{0, 1, 2}); err == nil {
		t.Fatalf("expected error for odd target count on a two-qubit gate")
	}
}

func TestNoiseGateFlags(t *testing.T) {
	d, err := Lookup("X_ERROR")
	if err != nil {
		t.Fatalf("Lookup(X_ERROR): %v", err)
	}
	if !d.Is(FlagNoise | FlagArgsAreDisjointProbabilities) {
		t.Fatalf("X_ERROR must be flagged noise+disjoint-probabilities")
	}
}
