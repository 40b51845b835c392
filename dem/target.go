// Package dem implements the detector error model data model (spec
// 3.9/4.H): DemTarget/DemInstruction/DetectorErrorModel, a text parser and
// printer, flatten (loop unrolling with accumulated coordinate/detector
// shifts), probability rounding, and the structural queries (counts,
// detector coordinates) that stay proportional to static size rather than
// to the unrolled execution.
package dem

import "fmt"

// demKind distinguishes the three flavors of DemTarget (spec 3.9).
type demKind byte

const (
	demDetector demKind = iota
	demObservable
	demSeparator
)

// DemTarget is one target of an ERROR/DETECTOR/LOGICAL_OBSERVABLE
// instruction: a relative detector id (Dn), an observable id (Ln), or the
// '^' separator that joins independent symptom sets within one error.
type DemTarget struct {
	kind demKind
	val  uint64
}

// RelativeDetectorID builds a Dn target.
func RelativeDetectorID(n uint64) DemTarget { return DemTarget{kind: demDetector, val: n} }

// ObservableID builds an Ln target.
func ObservableID(n uint64) DemTarget { return DemTarget{kind: demObservable, val: n} }

// Separator builds the '^' target.
func Separator() DemTarget { return DemTarget{kind: demSeparator} }

// IsRelativeDetectorID reports whether t is a Dn target.
func (t DemTarget) IsRelativeDetectorID() bool { return t.kind == demDetector }

// IsObservableID reports whether t is an Ln target.
func (t DemTarget) IsObservableID() bool { return t.kind == demObservable }

// IsSeparator reports whether t is the '^' target.
func (t DemTarget) IsSeparator() bool { return t.kind == demSeparator }

// RawID returns the numeric id carried by a detector or observable target.
func (t DemTarget) RawID() uint64 { return t.val }

// ShiftedIfDetector returns t with its id shifted by delta, if t is a
// detector target (observable ids and separators are never shifted).
func (t DemTarget) ShiftedIfDetector(delta uint64) DemTarget {
	if t.kind == demDetector {
		return DemTarget{kind: demDetector, val: t.val + delta}
	}
	return t
}

func (t DemTarget) String() string {
	switch t.kind {
	case demDetector:
		return fmt.Sprintf("D%d", t.val)
	case demObservable:
		return fmt.Sprintf("L%d", t.val)
	default:
		return "^"
	}
}
