// Package sim implements the TableauSimulator (spec 3.9/4.J): the
// forward stabilizer simulator that drives a Circuit through an
// inverse-tracking Tableau, maintaining a measurement record and
// sampling noise channels as it goes. Grounded throughout on
// original_source's simulators/tableau_simulator.cc, which this package
// mirrors method-for-method.
package sim

import (
	"stabsim/circuit"
	"stabsim/pauli"
	"stabsim/rand"
	"stabsim/record"
	"stabsim/tableau"
)

// Config carries the simulator's run-time knobs that aren't part of the
// circuit itself.
type Config struct {
	// SignBias steers the coin flip used for non-deterministic
	// measurements: 0 is a fair coin, <0 always resolves to true (the
	// "-1" outcome), >0 always resolves to false, matching
	// tableau_simulator.cc's sign_bias field.
	SignBias int
}

// Simulator is a stim-style TableauSimulator: it tracks inv_state, the
// inverse of the tableau describing the circuit applied so far, and
// replays gates against it rather than against an explicit state vector.
type Simulator struct {
	invState *tableau.Tableau
	rng      *rand.RNG
	rec      *record.Log
	cfg      Config

	lastCorrelatedErrorOccurred bool
}

// New returns a simulator starting in the |0...0> state over numQubits
// qubits.
func New(numQubits int, rng *rand.RNG, cfg Config) *Simulator {
	return &Simulator{
		invState: tableau.NewIdentity(numQubits),
		rng:      rng,
		rec:      record.NewLog(),
		cfg:      cfg,
	}
}

// NumQubits returns the simulator's current qubit count.
func (s *Simulator) NumQubits() int { return s.invState.NumQubits }

// Record returns the simulator's measurement record log.
func (s *Simulator) Record() *record.Log { return s.rec }

// InverseState exposes the tracked inverse tableau, mainly for tests
// and for peek_* style introspection.
func (s *Simulator) InverseState() *tableau.Tableau { return s.invState }

// ensureLargeEnoughForQubits grows inv_state if a target names a qubit
// beyond its current size.
func (s *Simulator) ensureLargeEnoughForQubits(n int) {
	if n <= s.invState.NumQubits {
		return
	}
	s.invState = s.invState.Expand(n)
}

// SetNumQubits grows or shrinks the tracked state to exactly newNumQubits
// qubits. Shrinking first isolates every dropped qubit (collapsing it to
// a definite Z value and disentangling it) so truncation never discards
// information that was still coupled to a kept qubit.
func (s *Simulator) SetNumQubits(newNumQubits int) {
	if newNumQubits >= s.invState.NumQubits {
		s.ensureLargeEnoughForQubits(newNumQubits)
		return
	}
	r := s.invState.EnterTransposed()
	for q := newNumQubits; q < s.invState.NumQubits; q++ {
		s.collapseIsolateQubitZ(q, r)
	}
	r.Close()
	s.invState = s.invState.Truncate(newNumQubits)
}

// coinFlip resolves a non-deterministic measurement outcome per SignBias.
func (s *Simulator) coinFlip() bool {
	switch {
	case s.cfg.SignBias == 0:
		return s.rng.Bool()
	case s.cfg.SignBias < 0:
		return true
	default:
		return false
	}
}

// isDeterministicX reports whether qubit q's X observable already has a
// definite value: the X generator's image has no X-component left.
func (s *Simulator) isDeterministicX(q int) bool {
	row := s.invState.Xs.Row(q)
	return row.Xs.IsZero()
}

// isDeterministicY reports whether qubit q's Y observable has a definite
// value: the X and Z generators' images agree on their X-component.
func (s *Simulator) isDeterministicY(q int) bool {
	xRow := s.invState.Xs.Row(q)
	zRow := s.invState.Zs.Row(q)
	for i := 0; i < xRow.Xs.NumWords(); i++ {
		if xRow.Xs.Words()[i] != zRow.Xs.Words()[i] {
			return false
		}
	}
	return true
}

// isDeterministicZ reports whether qubit q's Z observable has a definite
// value: the Z generator's image has no X-component left.
func (s *Simulator) isDeterministicZ(q int) bool {
	row := s.invState.Zs.Row(q)
	return row.Xs.IsZero()
}

// evalYObs computes the Y_q observable's current image, Xs.Row(q) times
// Zs.Row(q) up to the i that makes the product Hermitian.
func evalYObs(t *tableau.Tableau, q int) *pauli.PauliString {
	xRow := t.Xs.Row(q)
	result := pauli.Gather(xRow, identityIndices(t.NumQubits))
	ref := result.Ref()
	logI := ref.InplaceRightMultiplyBy(t.Zs.Row(q))
	// Y = i*X*Z, so the sign takes (logI+1)&2; InplaceRightMultiplyBy has
	// already applied logI&2, so flip by the difference between the two.
	if ((logI+1)^logI)&2 != 0 {
		ref.Sign.Flip()
	}
	result.Sign = ref.Sign.Get()
	return result
}

func identityIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// paulis bulk-applies a full Pauli-frame flip: zs.signs ^= p.xs,
// xs.signs ^= p.zs.
func (s *Simulator) paulis(p pauli.PauliStringRef) {
	n := p.NumQubits()
	for q := 0; q < n; q++ {
		if p.Xs.Get(q) != 0 {
			s.invState.Zs.Row(q).Sign.Flip()
		}
		if p.Zs.Get(q) != 0 {
			s.invState.Xs.Row(q).Sign.Flip()
		}
	}
}
