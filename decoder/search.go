package decoder

import (
	"fmt"
	"sort"

	"stabsim/dem"
)

// searchState is one BFS node: a (possibly canonicalized) pair of
// detection events still needing to be resolved, plus the logical-frame
// change accumulated while moving them there. detActive is the event
// currently being walked along edges; detHeld is the other one, left in
// place until detActive gets walked into it (or into the boundary).
type searchState struct {
	detActive, detHeld uint64
	obsMask            uint64
}

func (s searchState) isUndetected() bool { return s.detActive == s.detHeld }

// canonical orders (detActive, detHeld) so that equal-up-to-swap states
// compare and hash the same way; the fully-resolved state collapses both
// ends to noNode regardless of which one "arrived" last.
func (s searchState) canonical() searchState {
	switch {
	case s.detActive < s.detHeld:
		return s
	case s.detActive > s.detHeld:
		return searchState{detActive: s.detHeld, detHeld: s.detActive, obsMask: s.obsMask}
	default:
		return searchState{detActive: noNode, detHeld: noNode, obsMask: s.obsMask}
	}
}

// key is the canonical state flattened to a comparable map key.
func (s searchState) key() [3]uint64 {
	c := s.canonical()
	return [3]uint64{c.detActive, c.detHeld, c.obsMask}
}

// appendTransitionTo records the error instruction describing the move
// from other to s: the (up to 4) detectors that get XORed (duplicates --
// a detector present on both sides -- cancel, since flipping it twice is
// a no-op) and the observables whose flipped-state differs between the
// two.
func appendTransitionTo(s, other searchState, out *dem.Model) {
	nodes := []uint64{s.detActive, s.detHeld, other.detActive, other.detHeld}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	var targets []dem.DemTarget
	for k := 0; k < len(nodes); k++ {
		if k+1 < len(nodes) && nodes[k] == nodes[k+1] {
			k++
			continue
		}
		if nodes[k] != noNode {
			targets = append(targets, dem.RelativeDetectorID(nodes[k]))
		}
	}

	diff := s.obsMask ^ other.obsMask
	for obsID := uint64(0); diff != 0; obsID++ {
		if diff&1 != 0 {
			targets = append(targets, dem.ObservableID(obsID))
		}
		diff >>= 1
	}

	// Probability 1 marks a transition that is certain, not sampled; it's
	// always in [0,1] so this can't actually fail.
	_ = out.AppendError(1, targets)
}

// backtrackPath walks backMap from final back to the undetected root,
// emitting one ERROR instruction per hop, then sorts the result the same
// way stim's backtrack_path does (by instruction content, ascending).
func backtrackPath(backMap map[[3]uint64]searchState, final searchState) *dem.Model {
	out := dem.New()
	cur := final
	for {
		prev := backMap[cur.key()]
		appendTransitionTo(cur, prev, out)
		if prev.isUndetected() {
			break
		}
		cur = prev
	}
	sortInstructions(out)
	return out
}

// sortInstructions reorders out.Instructions by their rendered text, the
// Go analogue of sorting DemInstruction objects lexicographically.
func sortInstructions(out *dem.Model) {
	type keyed struct {
		ins dem.Instruction
		key string
	}
	rows := make([]keyed, len(out.Instructions))
	for i, ins := range out.Instructions {
		rows[i] = keyed{ins, instructionSortKey(out, ins)}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].key < rows[j].key })
	for i, r := range rows {
		out.Instructions[i] = r.ins
	}
}

func instructionSortKey(m *dem.Model, ins dem.Instruction) string {
	s := fmt.Sprintf("%v", m.Args(ins))
	for _, t := range m.Targets(ins) {
		s += " " + t.String()
	}
	return s
}

// ShortestGraphlikeUndetectableLogicalError searches a detector error
// model for the cheapest combination of graphlike error mechanisms that
// flips a logical observable while leaving every detector unexcited: the
// model's minimum distance. Grounded directly on
// original_source/src/stim/simulators/min_distance.cc's breadth-first
// search over pairs of detection events.
func ShortestGraphlikeUndetectableLogicalError(model *dem.Model, ignoreUngraphlike bool) (*dem.Model, error) {
	graph, err := FromDEM(model, ignoreUngraphlike)
	if err != nil {
		return nil, err
	}

	if graph.Distance1ErrorMask != 0 {
		out := dem.New()
		s1 := searchState{detActive: noNode, detHeld: noNode, obsMask: graph.Distance1ErrorMask}
		appendTransitionTo(s1, searchState{detActive: noNode, detHeld: noNode}, out)
		return out, nil
	}

	var queue []searchState
	backMap := map[[3]uint64]searchState{}
	root := searchState{detActive: noNode, detHeld: noNode}
	backMap[root.key()] = root

	for node1 := range graph.Nodes {
		for _, e := range graph.Nodes[node1].Edges {
			node2 := e.OppositeNode
			if uint64(node1) < node2 && e.CrossingObservable != 0 {
				start := searchState{detActive: uint64(node1), detHeld: node2, obsMask: e.CrossingObservable}
				queue = append(queue, start)
				backMap[start.key()] = root
			}
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range graph.Nodes[cur.detActive].Edges {
			next := searchState{detActive: e.OppositeNode, detHeld: cur.detHeld, obsMask: e.CrossingObservable ^ cur.obsMask}
			k := next.key()
			if _, seen := backMap[k]; seen {
				continue
			}
			backMap[k] = cur
			if next.isUndetected() {
				return backtrackPath(backMap, next), nil
			}
			if next.detActive == noNode {
				next.detActive, next.detHeld = next.detHeld, next.detActive
			}
			queue = append(queue, next)
		}
	}

	return nil, fmt.Errorf("decoder: failed to find any graphlike logical errors")
}
