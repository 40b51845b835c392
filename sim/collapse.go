package sim

import (
	"stabsim/pauli"
	"stabsim/tableau"
)

// colX reads, while inv_state is in transposed mode, generator gen's
// X-component at qubit q: half.Row(q) is qubit q's column (spanning every
// generator) once the tableau is transposed, so colX/colZ index into it
// by generator. This mirrors the raw double-bracket "half.xt[q][gen]"
// reads tableau_simulator.cc's collapse routines use directly on the
// transposed storage, rather than going through the per-generator
// PauliStringRef accessor.
func colX(half tableau.Half, q, gen int) bool {
	row := half.Row(q)
	return row.Xs.Get(gen) != 0
}

func colZ(half tableau.Half, q, gen int) bool {
	row := half.Row(q)
	return row.Zs.Get(gen) != 0
}

// collapseQubitZ is the Gaussian-elimination step at the heart of every
// Z-basis measurement: it finds some qubit whose Z-generator-target
// anticommutes, clears that dependence out of every other qubit sharing
// it, rotates the found qubit to carry a pure Z value, and flips it if
// needed to land on the (possibly biased) coin-flip outcome. Returns the
// qubit used as pivot, or -1 if target's measurement was already
// deterministic.
func (s *Simulator) collapseQubitZ(target int, r *tableau.TransposedRaii) int {
	n := s.invState.NumQubits
	pivot := 0
	for pivot < n && !colX(s.invState.Zs, pivot, target) {
		pivot++
	}
	if pivot == n {
		return -1
	}
	for k := pivot + 1; k < n; k++ {
		if colX(s.invState.Zs, k, target) {
			r.AppendZCX(pivot, k)
		}
	}
	if colZ(s.invState.Zs, pivot, target) {
		r.AppendH_YZ(pivot)
	} else {
		r.AppendH_XZ(pivot)
	}
	resultIfMeasured := s.coinFlip()
	if s.invState.Zs.Row(target).Sign.Get() != resultIfMeasured {
		r.AppendX(pivot)
	}
	return pivot
}

// collapseIsolateQubitZ strengthens collapseQubitZ: after forcing target
// to a definite Z value, it fully disentangles target from every other
// qubit, so the tableau can be safely truncated or reused as kickback
// scratch space afterward.
func (s *Simulator) collapseIsolateQubitZ(target int, r *tableau.TransposedRaii) {
	s.collapseQubitZ(target, r)
	n := s.invState.NumQubits
	for q := 0; ; q++ {
		if colZ(s.invState.Zs, q, target) {
			if q != target {
				r.AppendSWAP(q, target)
			}
			break
		}
	}
	for q := 0; q < n; q++ {
		if q != target && colZ(s.invState.Zs, q, target) {
			r.AppendZCX(q, target)
		}
	}
	if colZ(s.invState.Xs, target, target) {
		r.AppendS(target)
	}
	for q := 0; q < n; q++ {
		if q == target {
			continue
		}
		p := 0
		if colX(s.invState.Xs, q, target) {
			p |= 1
		}
		if colZ(s.invState.Xs, q, target) {
			p |= 2
		}
		switch p {
		case 1:
			r.AppendZCX(target, q)
		case 2:
			r.AppendZCZ(target, q)
		case 3:
			r.AppendZCY(target, q)
		}
	}
}

// collapseZ collapses every still-nondeterministic target in targets to
// a definite Z value. A target appearing twice is harmless: the second
// collapseQubitZ call on an already-collapsed qubit finds no pivot and
// returns immediately.
func (s *Simulator) collapseZ(targets []int) {
	var pending []int
	for _, q := range targets {
		if !s.isDeterministicZ(q) {
			pending = append(pending, q)
		}
	}
	if len(pending) == 0 {
		return
	}
	r := s.invState.EnterTransposed()
	for _, q := range pending {
		s.collapseQubitZ(q, r)
	}
	r.Close()
}

// collapseX collapses every distinct nondeterministic target to a
// definite X value, by rotating into the Z basis, collapsing there, then
// rotating back.
func (s *Simulator) collapseX(targets []int) {
	pending := dedupNondeterministic(targets, s.isDeterministicX)
	if len(pending) == 0 {
		return
	}
	for _, q := range pending {
		s.invState.PrependH_XZ(q)
	}
	r := s.invState.EnterTransposed()
	for _, q := range pending {
		s.collapseQubitZ(q, r)
	}
	r.Close()
	for _, q := range pending {
		s.invState.PrependH_XZ(q)
	}
}

// collapseY collapses every distinct nondeterministic target to a
// definite Y value, by rotating into the Z basis, collapsing there, then
// rotating back.
func (s *Simulator) collapseY(targets []int) {
	pending := dedupNondeterministic(targets, s.isDeterministicY)
	if len(pending) == 0 {
		return
	}
	for _, q := range pending {
		s.invState.PrependH_YZ(q)
	}
	r := s.invState.EnterTransposed()
	for _, q := range pending {
		s.collapseQubitZ(q, r)
	}
	r.Close()
	for _, q := range pending {
		s.invState.PrependH_YZ(q)
	}
}

func dedupNondeterministic(targets []int, isDeterministic func(int) bool) []int {
	seen := map[int]bool{}
	var out []int
	for _, q := range targets {
		if seen[q] || isDeterministic(q) {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

// unsignedXInput builds the kickback observable for a qubit that was
// just isolated at position q by collapseQubitZ: the X-conjugate that,
// applied to the post-measurement state, would toggle the measured bit.
func unsignedXInput(t *tableau.Tableau, q int) *pauli.PauliString {
	out := pauli.NewIdentity(t.NumQubits)
	ref := out.Ref()
	ref.Xs.CopyFrom(t.Zs.Row(q).Zs)
	ref.Zs.CopyFrom(t.Xs.Row(q).Zs)
	return out
}
