package sim

import (
	"stabsim/circuit"
	"stabsim/errs"
)

// ApplyCircuit drives c's operations through the simulator in order,
// recursing into REPEAT blocks RepeatCount times each. Annotation-only
// gates (DETECTOR, OBSERVABLE_INCLUDE, TICK, QUBIT_COORDS, SHIFT_COORDS)
// carry no simulated effect for a headless simulator and are skipped.
func (s *Simulator) ApplyCircuit(c *circuit.Circuit) error {
	for _, op := range c.Ops {
		if op.IsRepeat() {
			body := c.Blocks[op.BlockIndex]
			for i := uint64(0); i < op.RepeatCount; i++ {
				if err := s.ApplyCircuit(body); err != nil {
					return err
				}
			}
			continue
		}
		if err := s.applyOperation(c, op); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) applyOperation(c *circuit.Circuit, op circuit.Operation) error {
	targets := c.Targets(op)
	s.ensureLargeEnoughForTargets(targets)
	args := c.Args(op)

	switch op.Gate.Name {
	case "DETECTOR", "OBSERVABLE_INCLUDE", "TICK", "QUBIT_COORDS", "SHIFT_COORDS":
		return nil

	case "M", "MX", "MY":
		return s.measureAnnotated(op.Gate.Name, targets, args)
	case "MR", "MRX", "MRY":
		return s.measureResetAnnotated(op.Gate.Name, targets, args)
	case "R", "RX", "RY":
		return s.resetAnnotated(op.Gate.Name, targets)
	case "MPP":
		s.MPP(targets)
		return nil

	case "X_ERROR":
		s.XError(targets, arg0(args))
		return nil
	case "Y_ERROR":
		s.YError(targets, arg0(args))
		return nil
	case "Z_ERROR":
		s.ZError(targets, arg0(args))
		return nil
	case "DEPOLARIZE1":
		s.Depolarize1(targets, arg0(args))
		return nil
	case "DEPOLARIZE2":
		s.Depolarize2(targets, arg0(args))
		return nil
	case "PAULI_CHANNEL_1":
		s.PauliChannel1(targets, args[0], args[1], args[2])
		return nil
	case "PAULI_CHANNEL_2":
		var w [15]float64
		copy(w[:], args)
		s.PauliChannel2(targets, w)
		return nil
	case "E":
		s.CorrelatedError(targets, arg0(args))
		return nil
	case "ELSE_E":
		s.ElseCorrelatedError(targets, arg0(args))
		return nil

	default:
		return s.applyUnitary(op.Gate.Name, targets)
	}
}

func arg0(args []float64) float64 {
	if len(args) == 0 {
		return 0
	}
	return args[0]
}

func (s *Simulator) measureAnnotated(name string, targets []circuit.Target, args []float64) error {
	switch name {
	case "M":
		s.MeasureZ(targets, args)
	case "MX":
		s.MeasureX(targets, args)
	case "MY":
		s.MeasureY(targets, args)
	default:
		return errs.Invariant("sim: %q is not a measurement gate", name)
	}
	return nil
}

func (s *Simulator) measureResetAnnotated(name string, targets []circuit.Target, args []float64) error {
	switch name {
	case "MR":
		s.MeasureResetZ(targets, args)
	case "MRX":
		s.MeasureResetX(targets, args)
	case "MRY":
		s.MeasureResetY(targets, args)
	default:
		return errs.Invariant("sim: %q is not a measure-reset gate", name)
	}
	return nil
}

func (s *Simulator) resetAnnotated(name string, targets []circuit.Target) error {
	switch name {
	case "R":
		s.ResetZ(targets)
	case "RX":
		s.ResetX(targets)
	case "RY":
		s.ResetY(targets)
	default:
		return errs.Invariant("sim: %q is not a reset gate", name)
	}
	return nil
}

// ensureLargeEnoughForTargets grows inv_state to cover every qubit
// named by targets (skipping combiners and classical record/sweep bits,
// which don't name a physical qubit).
func (s *Simulator) ensureLargeEnoughForTargets(targets []circuit.Target) {
	max := -1
	for _, t := range targets {
		if t.IsCombiner() || t.IsMeasurementRecordTarget() || t.IsSweepBitTarget() {
			continue
		}
		if q := t.Qubit(); q > max {
			max = q
		}
	}
	if max >= 0 {
		s.ensureLargeEnoughForQubits(max + 1)
	}
}
