package dem

import "testing"

func TestParseSimpleModel(t *testing.T) {
	text := "error(0.1) D0\nerror(0.2) D0 D1\ndetector(0,0) D0\ndetector(1,0) D1\nlogical_observable L0\n"
	m, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Instructions) != 5 {
		t.Fatalf("expected 5 instructions, got %d", len(m.Instructions))
	}
	if got := m.CountErrors(); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}
	if got := m.CountDetectors(); got != 2 {
		t.Fatalf("expected 2 detectors, got %d", got)
	}
	if got := m.CountObservables(); got != 1 {
		t.Fatalf("expected 1 observable, got %d", got)
	}
}

func TestRepeatBlockDetectorCountWithoutUnrolling(t *testing.T) {
	text := "repeat 1000000 {\nerror(0.01) D0\nshift_detectors(0) 1\ndetector(0) D0\n}\n"
	m, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := m.CountDetectors(); got != 1000001 {
		t.Fatalf("expected 1000001 detectors, got %d", got)
	}
	if got := m.CountErrors(); got != 1000000 {
		t.Fatalf("expected 1e6 errors, got %d", got)
	}
}

func TestFlattenAppliesDetectorAndCoordShifts(t *testing.T) {
	text := "shift_detectors(5) 2\nerror(0.1) D0\ndetector(1) D0\n"
	m, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	flat := m.Flattened()
	var sawError, sawDetector bool
	for _, ins := range flat.Instructions {
		switch ins.Type {
		case Error:
			sawError = true
			if got := flat.Targets(ins)[0].RawID(); got != 2 {
				t.Fatalf("expected shifted error detector id 2, got %d", got)
			}
		case Detector:
			sawDetector = true
			if got := flat.Targets(ins)[0].RawID(); got != 2 {
				t.Fatalf("expected shifted detector id 2, got %d", got)
			}
			if got := flat.Args(ins)[0]; got != 6 {
				t.Fatalf("expected shifted coord 6 (1+5), got %v", got)
			}
		}
	}
	if !sawError || !sawDetector {
		t.Fatalf("flattened model missing expected instructions: %+v", flat.Instructions)
	}
}

func TestRoundedRoundsErrorProbabilities(t *testing.T) {
	text := "error(0.123456) D0\n"
	m, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rounded := m.Rounded(2)
	got := rounded.Args(rounded.Instructions[0])[0]
	if got != 0.12 {
		t.Fatalf("expected rounded probability 0.12, got %v", got)
	}
}

func TestCoordsOfDetectorAfterShift(t *testing.T) {
	text := "shift_detectors(5) 2\ndetector(1) D0\n"
	m, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	coords, err := m.CoordsOfDetector(2)
	if err != nil {
		t.Fatalf("CoordsOfDetector: %v", err)
	}
	if coords[0] != 6 {
		t.Fatalf("expected coord 6, got %v", coords)
	}
}

func TestPrintRoundTrip(t *testing.T) {
	text := "error(0.1) D0 D1\ndetector(0,0) D0\nlogical_observable L0\n"
	m, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	printed := m.String()
	reparsed, err := Parse(printed)
	if err != nil {
		t.Fatalf("re-Parse(%q): %v", printed, err)
	}
	if len(reparsed.Instructions) != len(m.Instructions) {
		t.Fatalf("round trip changed instruction count: %d vs %d", len(reparsed.Instructions), len(m.Instructions))
	}
}
