package sim

import (
	"stabsim/circuit"
	"stabsim/errs"
	"stabsim/gate"
	"stabsim/rand"
	"stabsim/tableau"
)

// CircuitToTableau compiles a circuit made of unitary Clifford operations
// (plus annotations, which carry no tableau effect) into the Tableau
// representing its net action. Measurements, resets and noise channels are
// rejected unless the matching ignore flag says to skip over them instead.
//
// Grounded on original_source/src/stim/util_top/circuit_vs_tableau.h's
// circuit_to_tableau. Reuses applyUnitary (the same dispatch the
// Simulator drives every unitary gate through) on a throwaway Simulator,
// then inverts its inverse-tracking state to get the forward tableau --
// this way every gate the simulator itself supports is automatically
// supported here too, rather than duplicating a second dispatch table.
func CircuitToTableau(c *circuit.Circuit, ignoreNoise, ignoreMeasurement, ignoreReset bool) (*tableau.Tableau, error) {
	s := New(c.CountQubits(), rand.New(1), Config{})
	if err := compileUnitary(s, c, ignoreNoise, ignoreMeasurement, ignoreReset); err != nil {
		return nil, err
	}
	return s.invState.Inverse(), nil
}

func compileUnitary(s *Simulator, c *circuit.Circuit, ignoreNoise, ignoreMeasurement, ignoreReset bool) error {
	for _, op := range c.Ops {
		if op.IsRepeat() {
			body := c.Blocks[op.BlockIndex]
			for i := uint64(0); i < op.RepeatCount; i++ {
				if err := compileUnitary(s, body, ignoreNoise, ignoreMeasurement, ignoreReset); err != nil {
					return err
				}
			}
			continue
		}

		d := op.Gate
		switch d.Name {
		case "DETECTOR", "OBSERVABLE_INCLUDE", "TICK", "QUBIT_COORDS", "SHIFT_COORDS":
			continue
		}

		switch {
		case d.Is(gate.FlagUnitary):
			targets := c.Targets(op)
			s.ensureLargeEnoughForTargets(targets)
			if err := s.applyUnitary(d.Name, targets); err != nil {
				return err
			}
		case d.Is(gate.FlagNoise):
			if !ignoreNoise {
				return errs.Validation("sim: circuit_to_tableau: %q is a noise channel, not a unitary", d.Name)
			}
		case d.Is(gate.FlagReset):
			if !ignoreReset {
				return errs.Validation("sim: circuit_to_tableau: %q is a reset, not a unitary", d.Name)
			}
		case d.Is(gate.FlagProducesResults):
			if !ignoreMeasurement {
				return errs.Validation("sim: circuit_to_tableau: %q is a measurement, not a unitary", d.Name)
			}
		default:
			return errs.Invariant("sim: circuit_to_tableau: unrecognized gate %q", d.Name)
		}
	}
	return nil
}
