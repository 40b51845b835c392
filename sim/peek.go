package sim

import (
	"stabsim/circuit"
	"stabsim/pauli"
	"stabsim/record"
	"stabsim/simd"
)

// PeekBloch reports which single-qubit Pauli (if any) qubit q is
// currently a definite eigenstate of: an X/Y/Z-signed single-qubit
// PauliString if q is on an axis, or the identity if it's entangled or
// mixed along every axis.
func (s *Simulator) PeekBloch(q int) *pauli.PauliString {
	x := s.invState.Xs.Row(q)
	z := s.invState.Zs.Row(q)
	result := pauli.NewIdentity(1)
	ref := result.Ref()
	switch {
	case x.Xs.IsZero():
		result.Sign = x.Sign.Get()
		ref.SetPauli(0, 'X')
	case z.Xs.IsZero():
		result.Sign = z.Sign.Get()
		ref.SetPauli(0, 'Z')
	case sameXBits(x.Xs, z.Xs):
		y := evalYObs(s.invState, q)
		result.Sign = y.Sign
		ref.SetPauli(0, 'Y')
	}
	return result
}

// sameXBits reports whether two same-length bit vectors are identical,
// used for the is_deterministic_y-style check that the X and Z
// generators' images agree on their X-component.
func sameXBits(a, b simd.BitsRef) bool {
	aw, bw := a.Words(), b.Words()
	for i := range aw {
		if aw[i] != bw[i] {
			return false
		}
	}
	return true
}

// measureKickbackZ measures target in the Z basis and additionally
// returns the kickback observable: the (possibly trivial) Pauli string
// that, applied after the measurement, would flip the recorded bit.
// Always leaves the qubit isolated afterward so a later kickback call on
// the same qubit doesn't find spurious entanglement.
func (s *Simulator) measureKickbackZ(target circuit.Target) (bool, *pauli.PauliString) {
	flipped := target.Inverted()
	q := target.Qubit()
	var kickback *pauli.PauliString
	hasKickback := !s.isDeterministicZ(q)

	r := s.invState.EnterTransposed()
	if hasKickback {
		pivot := s.collapseQubitZ(q, r)
		kickback = unsignedXInput(s.invState, pivot)
	}
	result := s.invState.Zs.Row(q).Sign.Get() != flipped
	s.rec.Record(result)
	s.collapseIsolateQubitZ(q, r)
	r.Close()

	if kickback == nil {
		kickback = pauli.NewIdentity(0)
	}
	return result, kickback
}

// MeasureKickbackY is measureKickbackZ rotated into the Y basis.
func (s *Simulator) MeasureKickbackY(target circuit.Target) (bool, *pauli.PauliString) {
	s.invState.PrependH_YZ(target.Qubit())
	result, kickback := s.measureKickbackZ(target)
	s.invState.PrependH_YZ(target.Qubit())
	if kickback.NumQubits != 0 {
		ref := kickback.Ref()
		if ref.Zs.Get(target.Qubit()) != 0 {
			ref.Xs.Set(target.Qubit(), 1-ref.Xs.Get(target.Qubit()))
		}
	}
	return result, kickback
}

// MeasureKickbackX is measureKickbackZ rotated into the X basis.
func (s *Simulator) MeasureKickbackX(target circuit.Target) (bool, *pauli.PauliString) {
	s.invState.PrependH_XZ(target.Qubit())
	result, kickback := s.measureKickbackZ(target)
	s.invState.PrependH_XZ(target.Qubit())
	if kickback.NumQubits != 0 {
		ref := kickback.Ref()
		q := target.Qubit()
		x, z := ref.Xs.Get(q), ref.Zs.Get(q)
		ref.Xs.Set(q, z)
		ref.Zs.Set(q, x)
	}
	return result, kickback
}

// MeasureKickbackZ is the exported Z-basis kickback measurement.
func (s *Simulator) MeasureKickbackZ(target circuit.Target) (bool, *pauli.PauliString) {
	return s.measureKickbackZ(target)
}

// CanonicalStabilizers returns a canonicalized (row-echelon, per qubit
// column, X-block then Z-block) generating set for the current state's
// stabilizer group.
func (s *Simulator) CanonicalStabilizers() []*pauli.PauliString {
	t := s.invState.Inverse()
	n := t.NumQubits
	stabilizers := make([]*pauli.PauliString, n)
	for k := 0; k < n; k++ {
		stabilizers[k] = pauli.Gather(t.Zs.Row(k), identityIndices(n))
	}

	minPivot := 0
	for q := 0; q < n; q++ {
		for b := 0; b < 2; b++ {
			pivot := minPivot
			for pivot < n && !bitOf(stabilizers[pivot], q, b) {
				pivot++
			}
			if pivot == n {
				continue
			}
			for sIdx := 0; sIdx < n; sIdx++ {
				if sIdx != pivot && bitOf(stabilizers[sIdx], q, b) {
					dst := stabilizers[sIdx].Ref()
					dst.InplaceRightMultiplyBy(stabilizers[pivot].Ref())
					stabilizers[sIdx].Sign = dst.Sign.Get()
				}
			}
			if minPivot != pivot {
				stabilizers[minPivot], stabilizers[pivot] = stabilizers[pivot], stabilizers[minPivot]
			}
			minPivot++
		}
	}
	return stabilizers
}

func bitOf(p *pauli.PauliString, q, b int) bool {
	ref := p.Ref()
	if b == 0 {
		return ref.Xs.Get(q) != 0
	}
	return ref.Zs.Get(q) != 0
}

// PeekObservableExpectation returns +1/-1 if measuring observable would
// be deterministic on the current state, or 0 if it's random. It works
// on a scratch clone with one ancilla qubit appended: it conjugates the
// ancilla by observable's Pauli product (XCX/ZCX/YCX per qubit,
// depending on which Pauli is present there), then checks whether the
// ancilla's Z value is now deterministic.
func (s *Simulator) PeekObservableExpectation(observable pauli.PauliStringRef) int {
	clone := &Simulator{invState: s.invState.Clone(), rng: s.rng, rec: record.NewLog(), cfg: s.cfg}
	n := clone.invState.NumQubits
	if observable.NumQubits() > n {
		n = observable.NumQubits()
	}
	clone.ensureLargeEnoughForQubits(n + 1)
	anc := n

	if observable.Sign.Get() {
		clone.invState.PrependX(anc)
	}
	for i := 0; i < observable.NumQubits(); i++ {
		x, z := observable.Xs.Get(i), observable.Zs.Get(i)
		switch {
		case x != 0 && z == 0:
			clone.invState.PrependXCX(i, anc)
		case x == 0 && z != 0:
			clone.invState.PrependZCX(i, anc)
		case x != 0 && z != 0:
			clone.invState.PrependYCX(i, anc)
		}
	}

	if !clone.isDeterministicZ(anc) {
		return 0
	}
	clone.MeasureZ([]circuit.Target{circuit.QubitTarget(anc, false)}, nil)
	if clone.rec.Get(clone.rec.NumRecorded() - 1) {
		return -1
	}
	return 1
}
