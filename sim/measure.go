package sim

import (
	"stabsim/circuit"
	"stabsim/rare"
)

// noisifyNewMeasurements flips the most-recently-recorded len(targets)
// bits of the measurement record with independent probability args[0],
// if a noise argument was given at all (most M/MX/MY instructions carry
// none).
func (s *Simulator) noisifyNewMeasurements(args []float64, numTargets int) {
	if len(args) == 0 {
		return
	}
	last := s.rec.NumRecorded() - 1
	_ = rare.ForSamples(args[0], uint64(numTargets), s.rng, func(k uint64) {
		s.rec.Flip(last - int(k))
	})
}

func qubitsOf(targets []circuit.Target) []int {
	out := make([]int, len(targets))
	for i, t := range targets {
		out[i] = t.Qubit()
	}
	return out
}

// MeasureX measures every target in the X basis, recording one outcome
// per target (duplicates record the same value twice, matching stim).
func (s *Simulator) MeasureX(targets []circuit.Target, args []float64) {
	s.collapseX(qubitsOf(targets))
	for _, t := range targets {
		b := s.invState.Xs.Row(t.Qubit()).Sign.Get() != t.Inverted()
		s.rec.Record(b)
	}
	s.noisifyNewMeasurements(args, len(targets))
}

// MeasureY measures every target in the Y basis.
func (s *Simulator) MeasureY(targets []circuit.Target, args []float64) {
	s.collapseY(qubitsOf(targets))
	for _, t := range targets {
		b := evalYObs(s.invState, t.Qubit()).Sign != t.Inverted()
		s.rec.Record(b)
	}
	s.noisifyNewMeasurements(args, len(targets))
}

// MeasureZ measures every target in the Z basis.
func (s *Simulator) MeasureZ(targets []circuit.Target, args []float64) {
	s.collapseZ(qubitsOf(targets))
	for _, t := range targets {
		b := s.invState.Zs.Row(t.Qubit()).Sign.Get() != t.Inverted()
		s.rec.Record(b)
	}
	s.noisifyNewMeasurements(args, len(targets))
}

// MeasureResetX measures then forces every target back to the |+> frame.
func (s *Simulator) MeasureResetX(targets []circuit.Target, args []float64) {
	s.collapseX(qubitsOf(targets))
	for _, t := range targets {
		b := s.invState.Xs.Row(t.Qubit()).Sign.Get() != t.Inverted()
		s.rec.Record(b)
	}
	// Resets cannot be grouped with the measurement loop above: the same
	// qubit may appear twice in targets, and an early reset would corrupt
	// the second occurrence's reading.
	for _, t := range targets {
		s.invState.Xs.Row(t.Qubit()).Sign.Set(false)
	}
	s.noisifyNewMeasurements(args, len(targets))
}

// MeasureResetY measures then forces every target back to the |i> frame.
func (s *Simulator) MeasureResetY(targets []circuit.Target, args []float64) {
	s.collapseY(qubitsOf(targets))
	curSigns := make([]bool, len(targets))
	for i, t := range targets {
		y := evalYObs(s.invState, t.Qubit())
		curSigns[i] = y.Sign
		s.rec.Record(y.Sign != t.Inverted())
	}
	for i, t := range targets {
		if curSigns[i] {
			s.invState.Zs.Row(t.Qubit()).Sign.Flip()
		}
	}
	s.noisifyNewMeasurements(args, len(targets))
}

// MeasureResetZ measures then forces every target back to the |0> frame.
func (s *Simulator) MeasureResetZ(targets []circuit.Target, args []float64) {
	s.collapseZ(qubitsOf(targets))
	for _, t := range targets {
		b := s.invState.Zs.Row(t.Qubit()).Sign.Get() != t.Inverted()
		s.rec.Record(b)
	}
	for _, t := range targets {
		s.invState.Zs.Row(t.Qubit()).Sign.Set(false)
	}
	s.noisifyNewMeasurements(args, len(targets))
}

// ResetX collapses every target into the X basis and forces |+>, without
// touching the measurement record.
func (s *Simulator) ResetX(targets []circuit.Target) {
	s.collapseX(qubitsOf(targets))
	for _, t := range targets {
		s.invState.Xs.Row(t.Qubit()).Sign.Set(false)
	}
}

// ResetY collapses every target into the Y basis and forces |i>, without
// touching the measurement record.
func (s *Simulator) ResetY(targets []circuit.Target) {
	s.collapseY(qubitsOf(targets))
	for _, t := range targets {
		if evalYObs(s.invState, t.Qubit()).Sign {
			s.invState.Zs.Row(t.Qubit()).Sign.Flip()
		}
	}
}

// ResetZ collapses every target into the Z basis and forces |0>, without
// touching the measurement record.
func (s *Simulator) ResetZ(targets []circuit.Target) {
	s.collapseZ(qubitsOf(targets))
	for _, t := range targets {
		s.invState.Zs.Row(t.Qubit()).Sign.Set(false)
	}
}
