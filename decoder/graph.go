// Package decoder implements graphlike shortest-undetectable-logical-error
// search (spec 3.11/4.L): an adjacency graph built from a detector error
// model's graphlike (at most 2-symptom) error mechanisms, plus a
// breadth-first search for the cheapest way to flip a logical observable
// without tripping any detector.
package decoder

import (
	"fmt"

	"stabsim/dem"
)

// noNode marks "the boundary" -- a symptom set with only one detector,
// the other endpoint pinned to an implicit boundary node.
const noNode = ^uint64(0)

// Edge is one adjacency-graph edge: the opposite endpoint (noNode for the
// boundary) and the set of logical observables this error mechanism
// flips, as a bitmask (bit i set means it flips observable i).
type Edge struct {
	OppositeNode       uint64
	CrossingObservable uint64
}

// Node is one detector's adjacency list.
type Node struct {
	Edges []Edge
}

// Graph is the graphlike adjacency structure min_distance.cc calls
// DemAdjGraph: one node per detector, plus an implicit boundary node, plus
// a standalone distance_1_error_mask for any detectorless-but-observable
// error (a direct logical error with zero symptoms).
type Graph struct {
	Nodes              []Node
	Distance1ErrorMask uint64
}

// NewGraph allocates an empty graph over nodeCount detectors.
func NewGraph(nodeCount int) *Graph {
	return &Graph{Nodes: make([]Node, nodeCount)}
}

// addOutwardEdge adds src->dst (deduplicated by (dst, obsMask) pair, since
// the same pair of detectors can be linked by more than one independent
// error mechanism carrying a different observable crossing).
func (g *Graph) addOutwardEdge(src int, dst uint64, obsMask uint64) {
	node := &g.Nodes[src]
	for _, e := range node.Edges {
		if e.OppositeNode == dst && e.CrossingObservable == obsMask {
			return
		}
	}
	node.Edges = append(node.Edges, Edge{OppositeNode: dst, CrossingObservable: obsMask})
}

// addEdgesFromGroup folds one separator-delimited symptom group (at most 2
// detectors plus any number of observable flips) into the graph. More than
// 2 detectors is "ungraphlike"; per ignoreUngraphlike the group is either
// silently dropped or rejected with an error.
func (g *Graph) addEdgesFromGroup(targets []dem.DemTarget, ignoreUngraphlike bool) error {
	var detectors []uint64
	var obsMask uint64
	for _, t := range targets {
		switch {
		case t.IsRelativeDetectorID():
			if len(detectors) == 2 {
				if ignoreUngraphlike {
					return nil
				}
				return fmt.Errorf("decoder: detector error model contains a non-graphlike error mechanism " +
					"(ignore with ignoreUngraphlike, or run decompose_errors before searching)")
			}
			detectors = append(detectors, t.RawID())
		case t.IsObservableID():
			obsMask ^= uint64(1) << t.RawID()
		}
	}

	switch len(detectors) {
	case 1:
		g.addOutwardEdge(int(detectors[0]), noNode, obsMask)
	case 2:
		g.addOutwardEdge(int(detectors[0]), detectors[1], obsMask)
		g.addOutwardEdge(int(detectors[1]), detectors[0], obsMask)
	case 0:
		if obsMask != 0 && g.Distance1ErrorMask == 0 {
			g.Distance1ErrorMask = obsMask
		}
	}
	return nil
}

// addEdgesFromSeparableTargets splits targets on '^' separators and folds
// each resulting group in independently.
func (g *Graph) addEdgesFromSeparableTargets(targets []dem.DemTarget, ignoreUngraphlike bool) error {
	start := 0
	for i := 0; i <= len(targets); i++ {
		if i == len(targets) || targets[i].IsSeparator() {
			if err := g.addEdgesFromGroup(targets[start:i], ignoreUngraphlike); err != nil {
				return err
			}
			start = i + 1
		}
	}
	return nil
}

// FromDEM builds a graph from every nonzero-probability ERROR instruction
// in a flattened model. More than 64 distinct observables isn't supported,
// since CrossingObservable packs the flipped set into a uint64 bitmask.
func FromDEM(model *dem.Model, ignoreUngraphlike bool) (*Graph, error) {
	if model.CountObservables() > 64 {
		return nil, fmt.Errorf("decoder: models with more than 64 observables are not supported")
	}
	flat := model.Flattened()
	g := NewGraph(int(flat.CountDetectors()))
	for _, ins := range flat.Instructions {
		if ins.Type != dem.Error {
			continue
		}
		if flat.Args(ins)[0] == 0 {
			continue
		}
		if err := g.addEdgesFromSeparableTargets(flat.Targets(ins), ignoreUngraphlike); err != nil {
			return nil, err
		}
	}
	return g, nil
}
