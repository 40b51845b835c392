package sim

import "stabsim/circuit"

// mppAnchor is one flushed group's measurement bookkeeping: the qubit
// that ends up carrying the group's Z-rotated product, and the combined
// inversion flag accumulated from every Pauli in the group.
type mppAnchor struct {
	qubit    int
	inverted bool
}

// mppGroups splits an MPP instruction's target list on its combiner
// targets, grounded on gate_data_collapsing.cc's decompose_mpp_operation:
// every other entry starting at a group's first target is a real Pauli
// target, and the group extends while the following entry is a
// combiner.
func mppGroups(targets []circuit.Target) [][]circuit.Target {
	var groups [][]circuit.Target
	i := 0
	for i < len(targets) {
		group := []circuit.Target{targets[i]}
		i++
		for i+1 < len(targets) && targets[i].IsCombiner() {
			group = append(group, targets[i+1])
			i += 2
		}
		groups = append(groups, group)
	}
	return groups
}

// MPP measures each group's Pauli-product observable, rotating every
// group member into the Z basis, parity-folding non-anchor members onto
// the group's anchor qubit via CNOT, measuring the anchor, then undoing
// the rotations -- since a Pauli-product measurement projects onto a
// (possibly entangled) eigenspace rather than collapsing to a
// computational-basis product state.
func (s *Simulator) MPP(targets []circuit.Target) {
	groups := mppGroups(targets)
	used := map[int]bool{}
	var hxz, hyz, cnot []int
	var anchors []mppAnchor

	flush := func() {
		if len(anchors) == 0 {
			return
		}
		for _, q := range hxz {
			s.invState.PrependH_XZ(q)
		}
		for _, q := range hyz {
			s.invState.PrependH_YZ(q)
		}
		for k := 0; k < len(cnot); k += 2 {
			s.invState.PrependZCX(cnot[k], cnot[k+1])
		}
		qubits := make([]int, len(anchors))
		inv := make([]bool, len(anchors))
		for i, a := range anchors {
			qubits[i] = a.qubit
			inv[i] = a.inverted
		}
		s.collapseZ(qubits)
		for i, q := range qubits {
			b := s.invState.Zs.Row(q).Sign.Get() != inv[i]
			s.rec.Record(b)
		}
		for k := len(cnot) - 2; k >= 0; k -= 2 {
			s.invState.PrependZCX(cnot[k], cnot[k+1])
		}
		for i := len(hyz) - 1; i >= 0; i-- {
			s.invState.PrependH_YZ(hyz[i])
		}
		for i := len(hxz) - 1; i >= 0; i-- {
			s.invState.PrependH_XZ(hxz[i])
		}

		hxz, hyz, cnot, anchors = nil, nil, nil, nil
		used = map[int]bool{}
	}

	for _, group := range groups {
		groupQubits := make(map[int]bool, len(group))
		for _, t := range group {
			groupQubits[t.Qubit()] = true
		}
		intersects := false
		for q := range groupQubits {
			if used[q] {
				intersects = true
				break
			}
		}
		if intersects {
			flush()
		}

		anchorQubit := group[0].Qubit()
		inverted := false
		for _, t := range group {
			q := t.Qubit()
			switch t.Pauli() {
			case 'X':
				hxz = append(hxz, q)
			case 'Y':
				hyz = append(hyz, q)
			}
			inverted = inverted != t.Inverted()
			if q != anchorQubit {
				cnot = append(cnot, q, anchorQubit)
			}
		}
		anchors = append(anchors, mppAnchor{qubit: anchorQubit, inverted: inverted})
		for q := range groupQubits {
			used[q] = true
		}
	}
	flush()
}
