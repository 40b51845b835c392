// Package tests holds cross-component end-to-end scenarios (spec §8):
// each test drives circuit/sim/dem/decoder together the way a user-level
// circuit or detector error model would, rather than exercising one
// package's internals in isolation.
package tests

import (
	"testing"

	"stabsim/circuit"
	"stabsim/decoder"
	"stabsim/dem"
	"stabsim/rand"
	"stabsim/sim"
)

// Scenario 1: two-qubit Bell-state measurement.
func TestBellStateMeasurementAndTableau(t *testing.T) {
	c := circuit.New()
	mustAppend(t, c, "H", nil, circuit.QubitTarget(0, false))
	mustAppend(t, c, "CNOT", nil, circuit.QubitTarget(0, false), circuit.QubitTarget(1, false))

	tab, err := sim.CircuitToTableau(c, false, true, false)
	if err != nil {
		t.Fatalf("CircuitToTableau: %v", err)
	}
	xx := tab.Zs.Row(0)
	if xx.Sign.Get() {
		t.Fatalf("expected +XX stabilizer image, got a negative sign")
	}

	rng := rand.New(100)
	s := sim.New(2, rng, sim.Config{})
	if err := s.ApplyCircuit(c); err != nil {
		t.Fatalf("ApplyCircuit: %v", err)
	}
	s.MeasureZ([]circuit.Target{circuit.QubitTarget(0, false), circuit.QubitTarget(1, false)}, nil)
	a, b := s.Record().Get(0), s.Record().Get(1)
	if a != b {
		t.Fatalf("Bell pair measurements should agree, got %v and %v", a, b)
	}
}

// Scenario 2: repeated measurement idempotence / deterministic detector.
func TestRepeatedMeasurementDetectorAlwaysQuiet(t *testing.T) {
	for trial := int64(0); trial < 5; trial++ {
		rng := rand.New(200 + trial)
		s := sim.New(1, rng, sim.Config{})
		s.ResetZ([]circuit.Target{circuit.QubitTarget(0, false)})
		s.MeasureZ([]circuit.Target{circuit.QubitTarget(0, false)}, nil)
		s.MeasureZ([]circuit.Target{circuit.QubitTarget(0, false)}, nil)
		first, second := s.Record().Get(0), s.Record().Get(1)
		if first != second {
			t.Fatalf("trial %d: two back-to-back Z measurements of an unperturbed qubit should agree", trial)
		}
	}
}

// Scenario 3: graphlike distance search on a repetition-code-shaped DEM.
// Rather than driving a full rounds=10 memory circuit through the
// simulator, this builds the equivalent distance-7 detector graph
// directly: 7 independent single-qubit error mechanisms chained across 6
// detectors, each one flipping the logical observable, so only using all
// 7 at once cancels every detector while still flipping the observable.
func TestGraphlikeDistanceOfRepCodeChain(t *testing.T) {
	const chainLen = 7
	m := dem.New()
	prev := -1
	for i := 0; i < chainLen; i++ {
		var targets []dem.DemTarget
		if prev >= 0 {
			targets = append(targets, dem.RelativeDetectorID(uint64(prev)))
		}
		if i < chainLen-1 {
			targets = append(targets, dem.RelativeDetectorID(uint64(i)))
		}
		targets = append(targets, dem.ObservableID(0))
		if err := m.AppendError(0.01, targets); err != nil {
			t.Fatalf("AppendError: %v", err)
		}
		prev = i
	}

	out, err := decoder.ShortestGraphlikeUndetectableLogicalError(m, false)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out.Instructions) != chainLen {
		t.Fatalf("expected a %d-edge minimum undetectable logical error, got %d instructions", chainLen, len(out.Instructions))
	}
}

// Scenario 4: circuit multiplication equals explicit repetition, and
// prints as a single REPEAT block.
func TestCircuitMultiplicationEqualsExplicitRepetition(t *testing.T) {
	single := circuit.New()
	mustAppend(t, single, "X", nil, circuit.QubitTarget(0, false))

	tripled, err := single.Repeat(3)
	if err != nil {
		t.Fatalf("Repeat: %v", err)
	}

	explicit := circuit.New()
	for i := 0; i < 3; i++ {
		mustAppend(t, explicit, "X", nil, circuit.QubitTarget(0, false))
	}

	tab1, err := sim.CircuitToTableau(tripled, false, false, false)
	if err != nil {
		t.Fatalf("CircuitToTableau(tripled): %v", err)
	}
	tab2, err := sim.CircuitToTableau(explicit, false, false, false)
	if err != nil {
		t.Fatalf("CircuitToTableau(explicit): %v", err)
	}
	if tab1.Xs.Row(0).Sign.Get() != tab2.Xs.Row(0).Sign.Get() {
		t.Fatalf("X 0 repeated 3 times should act the same whether expressed via REPEAT or explicit unrolling")
	}

	want := "REPEAT 3 {\n    X 0\n}\n"
	if got := tripled.String(); got != want {
		t.Fatalf("expected a single REPEAT 3 block, got:\n%s", got)
	}
}

// Scenario 5: classical feedback, and CircuitToTableau rejecting a
// measurement.
func TestClassicalFeedbackAndTableauRejectsMeasurement(t *testing.T) {
	c := circuit.New()
	mustAppend(t, c, "M", nil, circuit.QubitTarget(0, false))
	mustAppend(t, c, "CNOT", nil, circuit.RecordTarget(1), circuit.QubitTarget(1, false))

	if _, err := sim.CircuitToTableau(c, false, false, false); err == nil {
		t.Fatalf("expected circuit_to_tableau to reject a circuit containing M")
	}

	for trial := int64(0); trial < 4; trial++ {
		rng := rand.New(300 + trial)
		s := sim.New(2, rng, sim.Config{})
		if trial%2 == 1 {
			s.InverseState().PrependX(0)
		}
		if err := s.ApplyCircuit(c); err != nil {
			t.Fatalf("trial %d: ApplyCircuit: %v", trial, err)
		}
		s.MeasureZ([]circuit.Target{circuit.QubitTarget(1, false)}, nil)
		m0 := s.Record().Get(0)
		m1 := s.Record().Get(s.Record().NumRecorded() - 1)
		if m0 != m1 {
			t.Fatalf("trial %d: classically-controlled X should leave qubit 1 matching rec[-1]=%v, got %v", trial, m0, m1)
		}
	}
}

// Scenario 6: MPP parity on a Bell pair.
func TestMPPParityOnBellPair(t *testing.T) {
	rng := rand.New(400)
	s := sim.New(2, rng, sim.Config{})
	s.ApplyCircuit(bellPairCircuit(t))

	xx := []circuit.Target{circuit.PauliTarget(0, true, false, false), circuit.CombinerTarget(), circuit.PauliTarget(1, true, false, false)}
	zz := []circuit.Target{circuit.PauliTarget(0, false, true, false), circuit.CombinerTarget(), circuit.PauliTarget(1, false, true, false)}
	s.MPP(xx)
	s.MPP(zz)

	if s.Record().Get(0) {
		t.Fatalf("XX should be deterministically +1 on a Bell pair")
	}
	if s.Record().Get(1) {
		t.Fatalf("ZZ should be deterministically +1 on a Bell pair")
	}
}

func bellPairCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.New()
	mustAppend(t, c, "H", nil, circuit.QubitTarget(0, false))
	mustAppend(t, c, "CNOT", nil, circuit.QubitTarget(0, false), circuit.QubitTarget(1, false))
	return c
}

func mustAppend(t *testing.T, c *circuit.Circuit, name string, args []float64, targets ...circuit.Target) {
	t.Helper()
	if err := c.AppendOperation(name, args, targets); err != nil {
		t.Fatalf("AppendOperation(%s): %v", name, err)
	}
}
