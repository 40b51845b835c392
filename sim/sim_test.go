package sim

import (
	"testing"

	"stabsim/circuit"
	"stabsim/rand"
)

func TestBellPairMeasurementsAgree(t *testing.T) {
	rng := rand.New(1)
	s := New(2, rng, Config{})
	s.applyUnitary("H", []circuit.Target{circuit.QubitTarget(0, false)})
	if err := s.applyUnitary("CNOT", []circuit.Target{circuit.QubitTarget(0, false), circuit.QubitTarget(1, false)}); err != nil {
		t.Fatalf("CNOT: %v", err)
	}
	s.MeasureZ([]circuit.Target{circuit.QubitTarget(0, false), circuit.QubitTarget(1, false)}, nil)
	a := s.rec.Get(0)
	b := s.rec.Get(1)
	if a != b {
		t.Fatalf("bell pair measurements disagree: %v vs %v", a, b)
	}
}

func TestResetZForcesDeterministicZero(t *testing.T) {
	rng := rand.New(2)
	s := New(1, rng, Config{})
	s.applyUnitary("H", []circuit.Target{circuit.QubitTarget(0, false)})
	s.ResetZ([]circuit.Target{circuit.QubitTarget(0, false)})
	if !s.isDeterministicZ(0) {
		t.Fatalf("qubit should be deterministic in Z after ResetZ")
	}
	s.MeasureZ([]circuit.Target{circuit.QubitTarget(0, false)}, nil)
	if s.rec.Get(s.rec.NumRecorded() - 1) {
		t.Fatalf("ResetZ then MeasureZ should read false")
	}
}

func TestRepeatedMeasurementIsIdempotent(t *testing.T) {
	rng := rand.New(3)
	s := New(1, rng, Config{})
	s.applyUnitary("H", []circuit.Target{circuit.QubitTarget(0, false)})
	s.MeasureZ([]circuit.Target{circuit.QubitTarget(0, false)}, nil)
	first := s.rec.Get(0)
	for i := 0; i < 5; i++ {
		s.MeasureZ([]circuit.Target{circuit.QubitTarget(0, false)}, nil)
		if s.rec.Get(s.rec.NumRecorded()-1) != first {
			t.Fatalf("repeated Z measurement of a collapsed qubit changed outcome")
		}
	}
}

func TestXErrorFlipsZMeasurement(t *testing.T) {
	rng := rand.New(4)
	s := New(1, rng, Config{})
	s.invState.PrependX(0)
	s.MeasureZ([]circuit.Target{circuit.QubitTarget(0, false)}, nil)
	if !s.rec.Get(0) {
		t.Fatalf("X error before Z measurement should read true")
	}
}

func TestClassicalFeedbackSingleCX(t *testing.T) {
	rng := rand.New(5)
	s := New(2, rng, Config{})
	s.invState.PrependX(0)
	s.MeasureZ([]circuit.Target{circuit.QubitTarget(0, false)}, nil)
	ctrl := circuit.RecordTarget(1)
	s.singleCX(ctrl, circuit.QubitTarget(1, false))
	s.MeasureZ([]circuit.Target{circuit.QubitTarget(1, false)}, nil)
	if !s.rec.Get(1) {
		t.Fatalf("classical-controlled X should have fired since record[-1] was true")
	}
}

func TestMPPMeasuresBellParity(t *testing.T) {
	rng := rand.New(6)
	s := New(2, rng, Config{})
	s.applyUnitary("H", []circuit.Target{circuit.QubitTarget(0, false)})
	s.applyUnitary("CNOT", []circuit.Target{circuit.QubitTarget(0, false), circuit.QubitTarget(1, false)})

	x0 := circuit.PauliTarget(0, true, false, false)
	x1 := circuit.PauliTarget(1, true, false, false)
	combiner := circuit.CombinerTarget()
	s.MPP([]circuit.Target{x0, combiner, x1})
	if s.rec.Get(0) {
		t.Fatalf("XX should be deterministically +1 on a Bell pair prepared via H;CNOT")
	}
}

func TestCanonicalStabilizersMatchCount(t *testing.T) {
	rng := rand.New(7)
	s := New(3, rng, Config{})
	s.applyUnitary("H", []circuit.Target{circuit.QubitTarget(0, false)})
	s.applyUnitary("CNOT", []circuit.Target{circuit.QubitTarget(0, false), circuit.QubitTarget(1, false)})
	s.applyUnitary("CNOT", []circuit.Target{circuit.QubitTarget(1, false), circuit.QubitTarget(2, false)})
	stabs := s.CanonicalStabilizers()
	if len(stabs) != 3 {
		t.Fatalf("expected 3 stabilizer generators, got %d", len(stabs))
	}
}

func TestPeekBlochReportsAxis(t *testing.T) {
	rng := rand.New(8)
	s := New(1, rng, Config{})
	p := s.PeekBloch(0)
	if p.Ref().Get(0) != 'Z' || p.Sign {
		t.Fatalf("fresh |0> qubit should peek as +Z, got %s", p.String())
	}
	s.invState.PrependX(0)
	p = s.PeekBloch(0)
	if p.Ref().Get(0) != 'Z' || !p.Sign {
		t.Fatalf("X-flipped qubit should peek as -Z, got %s", p.String())
	}
}
