package circuit

import (
	"strings"
	"testing"
)

func TestParseSimpleBellCircuit(t *testing.T) {
	text := "H 0\nCNOT 0 1\nM 0 1\n"
	c, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Ops) != 3 {
		t.Fatalf("expected 3 ops, got %d", len(c.Ops))
	}
	if got := c.CountQubits(); got != 2 {
		t.Fatalf("expected 2 qubits, got %d", got)
	}
	if got := c.CountMeasurements(); got != 2 {
		t.Fatalf("expected 2 measurements, got %d", got)
	}
}

func TestAdjacentFusableGatesMerge(t *testing.T) {
	c := New()
	if err := c.AppendOperation("H", nil, []Target{QubitTarget(0, false)}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := c.AppendOperation("H", nil, []Target{QubitTarget(1, false)}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(c.Ops) != 1 {
		t.Fatalf("expected fused single op, got %d", len(c.Ops))
	}
	if c.Ops[0].Targets.Len != 2 {
		t.Fatalf("expected 2 fused targets, got %d", c.Ops[0].Targets.Len)
	}
}

func TestTickNeverFuses(t *testing.T) {
	c := New()
	c.AppendOperation("TICK", nil, nil)
	c.AppendOperation("TICK", nil, nil)
	if len(c.Ops) != 2 {
		t.Fatalf("TICK must never fuse, got %d ops", len(c.Ops))
	}
}

func TestRepeatBlockCountsMultiplyWithoutUnrolling(t *testing.T) {
	text := "REPEAT 1000000 {\nM 0\nDETECTOR rec[-1]\n}\n"
	c, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := c.CountMeasurements(); got != 1000000 {
		t.Fatalf("expected 1e6 measurements, got %d", got)
	}
	if got := c.CountDetectors(); got != 1000000 {
		t.Fatalf("expected 1e6 detectors, got %d", got)
	}
}

func TestWithoutNoiseStripsNoiseAndProbabilities(t *testing.T) {
	text := "X_ERROR(0.1) 0\nM(0.01) 0 1\nH 0\n"
	c, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := c.WithoutNoise()
	if err != nil {
		t.Fatalf("WithoutNoise: %v", err)
	}
	for _, op := range out.Ops {
		if op.Gate.Name == "X_ERROR" {
			t.Fatalf("X_ERROR should have been stripped")
		}
		if op.Gate.Name == "M" && op.Args.Len != 0 {
			t.Fatalf("M's probability arg should have been stripped")
		}
	}
}

func TestPySliceSelectsSubrange(t *testing.T) {
	text := "H 0\nH 1\nCNOT 0 1\nM 0 1\n"
	c, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sliced, err := c.PySlice(1, 1, 2)
	if err != nil {
		t.Fatalf("PySlice: %v", err)
	}
	if len(sliced.Ops) != 2 {
		t.Fatalf("expected 2 sliced ops, got %d", len(sliced.Ops))
	}
	if sliced.Ops[0].Gate.Name != "CNOT" {
		t.Fatalf("expected first sliced op to be CNOT, got %s", sliced.Ops[0].Gate.Name)
	}
}

func TestCoordsOfDetectorWithShift(t *testing.T) {
	text := "SHIFT_COORDS(1)\nM 0\nDETECTOR(5) rec[-1]\nSHIFT_COORDS(2)\nM 0\nDETECTOR(5) rec[-1]\n"
	c, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c0, err := c.CoordsOfDetector(0)
	if err != nil {
		t.Fatalf("CoordsOfDetector(0): %v", err)
	}
	if c0[0] != 6 {
		t.Fatalf("expected coord 6 (1+5), got %v", c0)
	}
	c1, err := c.CoordsOfDetector(1)
	if err != nil {
		t.Fatalf("CoordsOfDetector(1): %v", err)
	}
	if c1[0] != 8 {
		t.Fatalf("expected coord 8 (1+2+5), got %v", c1)
	}
}

func TestPrintRoundTripPreservesStructure(t *testing.T) {
	text := "H 0\nCNOT 0 1\nM 0 1\n"
	c, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	printed := c.String()
	reparsed, err := Parse(printed)
	if err != nil {
		t.Fatalf("re-Parse(%q): %v", printed, err)
	}
	if len(reparsed.Ops) != len(c.Ops) {
		t.Fatalf("round trip changed op count: %d vs %d", len(reparsed.Ops), len(c.Ops))
	}
	if !strings.Contains(printed, "CNOT") {
		t.Fatalf("printed text should contain CNOT: %q", printed)
	}
}
