package sim

import (
	"stabsim/circuit"
	"stabsim/rare"
)

// XError flips the Z-frame sign of each sampled target, i.e. applies a
// physical X error.
func (s *Simulator) XError(targets []circuit.Target, p float64) {
	rare.ForSamples(p, uint64(len(targets)), s.rng, func(k uint64) {
		s.invState.Zs.Row(targets[k].Qubit()).Sign.Flip()
	})
}

// YError applies a physical Y error to each sampled target.
func (s *Simulator) YError(targets []circuit.Target, p float64) {
	rare.ForSamples(p, uint64(len(targets)), s.rng, func(k uint64) {
		q := targets[k].Qubit()
		s.invState.Xs.Row(q).Sign.Flip()
		s.invState.Zs.Row(q).Sign.Flip()
	})
}

// ZError applies a physical Z error to each sampled target.
func (s *Simulator) ZError(targets []circuit.Target, p float64) {
	rare.ForSamples(p, uint64(len(targets)), s.rng, func(k uint64) {
		s.invState.Xs.Row(targets[k].Qubit()).Sign.Flip()
	})
}

// Depolarize1 applies a uniformly random non-identity single-qubit
// Pauli to each independently sampled target.
func (s *Simulator) Depolarize1(targets []circuit.Target, p float64) {
	rare.ForSamples(p, uint64(len(targets)), s.rng, func(k uint64) {
		q := targets[k].Qubit()
		choice := 1 + s.rng.Intn(3)
		if choice&1 != 0 {
			s.invState.Xs.Row(q).Sign.Flip()
		}
		if choice&2 != 0 {
			s.invState.Zs.Row(q).Sign.Flip()
		}
	})
}

// Depolarize2 applies a uniformly random non-identity two-qubit Pauli to
// each independently sampled target pair.
func (s *Simulator) Depolarize2(targets []circuit.Target, p float64) {
	pairs := uint64(len(targets) / 2)
	rare.ForSamples(p, pairs, s.rng, func(k uint64) {
		q1 := targets[2*k].Qubit()
		q2 := targets[2*k+1].Qubit()
		choice := 1 + s.rng.Intn(15)
		if choice&1 != 0 {
			s.invState.Xs.Row(q1).Sign.Flip()
		}
		if choice&2 != 0 {
			s.invState.Zs.Row(q1).Sign.Flip()
		}
		if choice&4 != 0 {
			s.invState.Xs.Row(q2).Sign.Flip()
		}
		if choice&8 != 0 {
			s.invState.Zs.Row(q2).Sign.Flip()
		}
	})
}

// applyPauliCategory applies Pauli category c (0=I,1=X,2=Y,3=Z) to qubit q.
func (s *Simulator) applyPauliCategory(q, c int) {
	switch c {
	case 1:
		s.invState.PrependX(q)
	case 2:
		s.invState.PrependY(q)
	case 3:
		s.invState.PrependZ(q)
	}
}

// categoricalPick draws an index in [0,len(weights)] from the cumulative
// distribution (weights..., 1-sum(weights)) -- index len(weights) is the
// identity/no-error outcome.
func categoricalPick(weights []float64, roll float64) int {
	cum := 0.0
	for i, w := range weights {
		cum += w
		if roll < cum {
			return i
		}
	}
	return len(weights)
}

// PauliChannel1 independently applies, to each target, I with probability
// 1-px-py-pz and X/Y/Z with probabilities px/py/pz respectively.
func (s *Simulator) PauliChannel1(targets []circuit.Target, px, py, pz float64) {
	weights := []float64{px, py, pz}
	for _, t := range targets {
		roll := s.rng.Float64()
		switch categoricalPick(weights, roll) {
		case 0:
			s.invState.PrependX(t.Qubit())
		case 1:
			s.invState.PrependY(t.Qubit())
		case 2:
			s.invState.PrependZ(t.Qubit())
		}
	}
}

// pauliChannel2Pairs lists the 15 non-identity two-qubit Pauli categories
// in the canonical IX,IY,IZ,XI,XX,XY,XZ,YI,YX,YY,YZ,ZI,ZX,ZY,ZZ order.
var pauliChannel2Pairs = [15][2]int{
	{0, 1}, {0, 2}, {0, 3},
	{1, 0}, {1, 1}, {1, 2}, {1, 3},
	{2, 0}, {2, 1}, {2, 2}, {2, 3},
	{3, 0}, {3, 1}, {3, 2}, {3, 3},
}

// PauliChannel2 independently applies, to each target pair, one of the
// 15 non-identity two-qubit Paulis per the given weights (in
// pauliChannel2Pairs order), or identity with the remaining probability.
func (s *Simulator) PauliChannel2(targets []circuit.Target, weights [15]float64) {
	for k := 0; k < len(targets); k += 2 {
		q1, q2 := targets[k].Qubit(), targets[k+1].Qubit()
		roll := s.rng.Float64()
		idx := categoricalPick(weights[:], roll)
		if idx == len(weights) {
			continue
		}
		s.applyPauliCategory(q1, pauliChannel2Pairs[idx][0])
		s.applyPauliCategory(q2, pauliChannel2Pairs[idx][1])
	}
}

// CorrelatedError starts a new E/ELSE_E chain: it resets the "did a link
// already fire" flag, then behaves exactly like ElseCorrelatedError.
func (s *Simulator) CorrelatedError(targets []circuit.Target, p float64) {
	s.lastCorrelatedErrorOccurred = false
	s.ElseCorrelatedError(targets, p)
}

// ElseCorrelatedError is one link in an E/ELSE_E chain: it fires with
// probability p, but only if no earlier link in the same chain already
// fired (at most one link in a chain ever applies its Pauli string).
func (s *Simulator) ElseCorrelatedError(targets []circuit.Target, p float64) {
	if s.lastCorrelatedErrorOccurred {
		return
	}
	s.lastCorrelatedErrorOccurred = s.rng.Float64() < p
	if !s.lastCorrelatedErrorOccurred {
		return
	}
	for _, t := range targets {
		switch t.Pauli() {
		case 'X':
			s.invState.PrependX(t.Qubit())
		case 'Y':
			s.invState.PrependY(t.Qubit())
		case 'Z':
			s.invState.PrependZ(t.Qubit())
		}
	}
}
