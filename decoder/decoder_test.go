package decoder

import (
	"testing"

	"stabsim/dem"
)

func TestShortestDistanceDirectLogicalError(t *testing.T) {
	m := dem.New()
	if err := m.AppendError(0.01, []dem.DemTarget{dem.ObservableID(0)}); err != nil {
		t.Fatalf("AppendError: %v", err)
	}

	out, err := ShortestGraphlikeUndetectableLogicalError(m, false)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out.Instructions) != 1 {
		t.Fatalf("expected the distance-1 shortcut to return a single error, got %d", len(out.Instructions))
	}
	targets := out.Targets(out.Instructions[0])
	if len(targets) != 1 || !targets[0].IsObservableID() || targets[0].RawID() != 0 {
		t.Fatalf("expected a bare L0 target, got %v", targets)
	}
}

func TestShortestDistanceThreeLinkChain(t *testing.T) {
	// A 3-qubit repetition-code-like chain: two detectors, three error
	// mechanisms (boundary-D0, D0-D1, D1-boundary), each of which flips
	// the single logical observable. The minimum undetectable logical
	// error is all three of them at once.
	m := dem.New()
	mustAppend(t, m, 0.01, dem.RelativeDetectorID(0), dem.ObservableID(0))
	mustAppend(t, m, 0.01, dem.RelativeDetectorID(0), dem.RelativeDetectorID(1), dem.ObservableID(0))
	mustAppend(t, m, 0.01, dem.RelativeDetectorID(1), dem.ObservableID(0))

	out, err := ShortestGraphlikeUndetectableLogicalError(m, false)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out.Instructions) != 3 {
		t.Fatalf("expected a 3-edge minimum path, got %d instructions", len(out.Instructions))
	}

	obsParity := false
	detParity := map[uint64]bool{}
	for _, ins := range out.Instructions {
		for _, target := range out.Targets(ins) {
			switch {
			case target.IsObservableID():
				obsParity = !obsParity
			case target.IsRelativeDetectorID():
				detParity[target.RawID()] = !detParity[target.RawID()]
			}
		}
	}
	if !obsParity {
		t.Fatalf("combined error should flip the logical observable an odd number of times")
	}
	for det, flipped := range detParity {
		if flipped {
			t.Fatalf("combined error should leave every detector unexcited, but D%d flips", det)
		}
	}
}

func TestShortestDistanceIgnoresUngraphlikeWhenAsked(t *testing.T) {
	// Same 3-edge chain as above, plus one 3-detector (non-graphlike)
	// error mechanism that should be rejected by default and silently
	// dropped when ignoreUngraphlike is set, leaving the same chain
	// solution behind.
	m := dem.New()
	mustAppend(t, m, 0.01, dem.RelativeDetectorID(0), dem.RelativeDetectorID(1), dem.RelativeDetectorID(2))
	mustAppend(t, m, 0.01, dem.RelativeDetectorID(0), dem.ObservableID(0))
	mustAppend(t, m, 0.01, dem.RelativeDetectorID(0), dem.RelativeDetectorID(1), dem.ObservableID(0))
	mustAppend(t, m, 0.01, dem.RelativeDetectorID(1), dem.ObservableID(0))

	if _, err := ShortestGraphlikeUndetectableLogicalError(m, false); err == nil {
		t.Fatalf("expected an error for a non-graphlike (3-detector) error mechanism")
	}
	out, err := ShortestGraphlikeUndetectableLogicalError(m, true)
	if err != nil {
		t.Fatalf("search with ignoreUngraphlike: %v", err)
	}
	if len(out.Instructions) != 3 {
		t.Fatalf("expected the 3-edge chain solution once the bad instruction is dropped, got %d", len(out.Instructions))
	}
}

func mustAppend(t *testing.T, m *dem.Model, p float64, targets ...dem.DemTarget) {
	t.Helper()
	if err := m.AppendError(p, targets); err != nil {
		t.Fatalf("AppendError: %v", err)
	}
}
