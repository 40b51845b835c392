package sim

import (
	"stabsim/circuit"
	"stabsim/errs"
)

// applyUnitary dispatches one gate instruction's worth of targets against
// inv_state. Gate names are the canonical ones gate.Data.Name resolves
// aliases to (e.g. "H" covers H_XZ, "S" covers SQRT_Z).
//
// inv_state tracks the inverse of the applied circuit, so most gates are
// prepended using their own formula directly. The eight non-involutory
// gate pairs below are prepended using their OPPOSITE's formula instead
// -- grounded on tableau_simulator.cc's explicit "inverted because we're
// tracking the inverse tableau" comments on exactly these handlers.
func (s *Simulator) applyUnitary(name string, targets []circuit.Target) error {
	switch name {
	case "I":
		return nil
	case "X":
		for _, t := range targets {
			s.invState.PrependX(t.Qubit())
		}
	case "Y":
		for _, t := range targets {
			s.invState.PrependY(t.Qubit())
		}
	case "Z":
		for _, t := range targets {
			s.invState.PrependZ(t.Qubit())
		}
	case "H":
		for _, t := range targets {
			s.invState.PrependH_XZ(t.Qubit())
		}
	case "H_XY":
		for _, t := range targets {
			s.invState.PrependH_XY(t.Qubit())
		}
	case "H_YZ":
		for _, t := range targets {
			s.invState.PrependH_YZ(t.Qubit())
		}
	case "C_XYZ":
		for _, t := range targets {
			s.invState.PrependC_ZYX(t.Qubit())
		}
	case "C_ZYX":
		for _, t := range targets {
			s.invState.PrependC_XYZ(t.Qubit())
		}
	case "S":
		for _, t := range targets {
			s.invState.PrependSQRT_Z_DAG(t.Qubit())
		}
	case "S_DAG":
		for _, t := range targets {
			s.invState.PrependSQRT_Z(t.Qubit())
		}
	case "SQRT_X":
		for _, t := range targets {
			s.invState.PrependSQRT_X_DAG(t.Qubit())
		}
	case "SQRT_X_DAG":
		for _, t := range targets {
			s.invState.PrependSQRT_X(t.Qubit())
		}
	case "SQRT_Y":
		for _, t := range targets {
			s.invState.PrependSQRT_Y_DAG(t.Qubit())
		}
	case "SQRT_Y_DAG":
		for _, t := range targets {
			s.invState.PrependSQRT_Y(t.Qubit())
		}
	case "SWAP":
		return pairwise(targets, func(a, b int) { s.invState.PrependSWAP(a, b) })
	case "ISWAP":
		return pairwise(targets, func(a, b int) { s.invState.PrependISWAP_DAG(a, b) })
	case "ISWAP_DAG":
		return pairwise(targets, func(a, b int) { s.invState.PrependISWAP(a, b) })
	case "XCX":
		return pairwise(targets, func(a, b int) { s.invState.PrependXCX(a, b) })
	case "XCY":
		return pairwise(targets, func(a, b int) { s.invState.PrependXCY(a, b) })
	case "YCX":
		return pairwise(targets, func(a, b int) { s.invState.PrependYCX(a, b) })
	case "YCY":
		return pairwise(targets, func(a, b int) { s.invState.PrependYCY(a, b) })
	case "SQRT_XX":
		return pairwise(targets, func(a, b int) { s.invState.PrependSQRT_XX_DAG(a, b) })
	case "SQRT_XX_DAG":
		return pairwise(targets, func(a, b int) { s.invState.PrependSQRT_XX(a, b) })
	case "SQRT_YY":
		return pairwise(targets, func(a, b int) { s.invState.PrependSQRT_YY_DAG(a, b) })
	case "SQRT_YY_DAG":
		return pairwise(targets, func(a, b int) { s.invState.PrependSQRT_YY(a, b) })
	case "SQRT_ZZ":
		return pairwise(targets, func(a, b int) { s.invState.PrependSQRT_ZZ_DAG(a, b) })
	case "SQRT_ZZ_DAG":
		return pairwise(targets, func(a, b int) { s.invState.PrependSQRT_ZZ(a, b) })
	case "CNOT":
		return pairwiseTargets(targets, s.singleCX)
	case "CY":
		return pairwiseTargets(targets, s.singleCY)
	case "CZ":
		return pairwiseTargets(targets, s.singleCZ)
	case "XCZ":
		return pairwiseTargets(targets, func(a, b circuit.Target) { s.singleCX(b, a) })
	case "YCZ":
		return pairwiseTargets(targets, func(a, b circuit.Target) { s.singleCY(b, a) })
	default:
		return errs.Invariant("sim: %q is not a unitary gate this dispatcher knows about", name)
	}
	return nil
}

func pairwise(targets []circuit.Target, body func(a, b int)) error {
	if len(targets)%2 != 0 {
		return errs.Validation("sim: two-qubit gate given an odd number of targets")
	}
	for k := 0; k < len(targets); k += 2 {
		body(targets[k].Qubit(), targets[k+1].Qubit())
	}
	return nil
}

func pairwiseTargets(targets []circuit.Target, body func(a, b circuit.Target)) error {
	if len(targets)%2 != 0 {
		return errs.Validation("sim: two-qubit gate given an odd number of targets")
	}
	for k := 0; k < len(targets); k += 2 {
		body(targets[k], targets[k+1])
	}
	return nil
}

// isClassical reports whether t names a measurement-record or sweep-bit
// target rather than a physical qubit.
func isClassical(t circuit.Target) bool {
	return t.IsMeasurementRecordTarget() || t.IsSweepBitTarget()
}

// readMeasurementRecord resolves a classical-control target to a bool.
// Sweep-bit targets always read false: this simulator has no notion of
// shot-to-shot sweep variation.
func (s *Simulator) readMeasurementRecord(t circuit.Target) bool {
	if t.IsSweepBitTarget() {
		return false
	}
	b, err := s.rec.Lookback(t.RecordLookback())
	if err != nil {
		return false
	}
	return b
}

// singleCX applies one CNOT, honoring a classical control or erroring on
// an attempt to target the measurement record.
func (s *Simulator) singleCX(c, t circuit.Target) {
	if !isClassical(c) && !isClassical(t) {
		s.invState.PrependZCX(c.Qubit(), t.Qubit())
		return
	}
	if isClassical(t) {
		panic("sim: measurement record editing is not supported")
	}
	if s.readMeasurementRecord(c) {
		s.invState.PrependX(t.Qubit())
	}
}

// singleCY applies one CY, honoring a classical control or erroring on
// an attempt to target the measurement record.
func (s *Simulator) singleCY(c, t circuit.Target) {
	if !isClassical(c) && !isClassical(t) {
		s.invState.PrependZCY(c.Qubit(), t.Qubit())
		return
	}
	if isClassical(t) {
		panic("sim: measurement record editing is not supported")
	}
	if s.readMeasurementRecord(c) {
		s.invState.PrependY(t.Qubit())
	}
}

// singleCZ applies one CZ; either side may be a classical control, and
// both may be simultaneously (a no-op, since a classical bit never
// anticommutes with another classical bit).
func (s *Simulator) singleCZ(q1, q2 circuit.Target) {
	switch {
	case !isClassical(q1) && !isClassical(q2):
		s.invState.PrependZCZ(q1.Qubit(), q2.Qubit())
	case !isClassical(q2):
		if s.readMeasurementRecord(q1) {
			s.invState.PrependZ(q2.Qubit())
		}
	case !isClassical(q1):
		if s.readMeasurementRecord(q2) {
			s.invState.PrependZ(q1.Qubit())
		}
	}
}
