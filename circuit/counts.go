package circuit

import (
	"math"

	"stabsim/gate"
)

// saturatingAdd adds b to a, clamping at math.MaxUint64 (spec 4.G's
// "saturating at u64::MAX" requirement for count_measurements etc).
func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}

func saturatingMul(a uint64, n uint64) uint64 {
	if a == 0 || n == 0 {
		return 0
	}
	if a > math.MaxUint64/n {
		return math.MaxUint64
	}
	return a * n
}

// CountQubits returns the max qubit index + 1 over every static target in
// c and every reachable block, in O(static size): loop repetition counts
// never change this, since the set of targets referenced textually is
// the same regardless of how many times a REPEAT block executes.
func (c *Circuit) CountQubits() int {
	max := -1
	for _, op := range c.Ops {
		if op.IsRepeat() {
			if m := c.Blocks[op.BlockIndex].CountQubits(); m > max {
				max = m
			}
			continue
		}
		for _, t := range c.Targets(op) {
			if t.IsMeasurementRecordTarget() || t.IsSweepBitTarget() || t.IsCombiner() {
				continue
			}
			if q := t.Qubit(); q > max {
				max = q
			}
		}
	}
	return max + 1
}

// CountMeasurements returns the total number of measurement results the
// circuit would produce if fully unrolled, without unrolling: a REPEAT
// contributes n * body.CountMeasurements(), saturating at u64::MAX.
func (c *Circuit) CountMeasurements() uint64 {
	var total uint64
	for _, op := range c.Ops {
		if op.IsRepeat() {
			inner := c.Blocks[op.BlockIndex].CountMeasurements()
			total = saturatingAdd(total, saturatingMul(inner, op.RepeatCount))
			continue
		}
		if op.Gate.Is(gate.FlagProducesResults) {
			total = saturatingAdd(total, uint64(targetGroupCount(c.Targets(op))))
		}
	}
	return total
}

// CountDetectors mirrors CountMeasurements for DETECTOR annotations.
func (c *Circuit) CountDetectors() uint64 {
	var total uint64
	for _, op := range c.Ops {
		if op.IsRepeat() {
			inner := c.Blocks[op.BlockIndex].CountDetectors()
			total = saturatingAdd(total, saturatingMul(inner, op.RepeatCount))
			continue
		}
		if op.Gate.Name == "DETECTOR" {
			total = saturatingAdd(total, 1)
		}
	}
	return total
}

// CountObservables returns one more than the max observable index
// referenced by any OBSERVABLE_INCLUDE, at the top level or in any
// block (observables are indexed globally, not accumulated per spec.G).
func (c *Circuit) CountObservables() int {
	max := -1
	for _, op := range c.Ops {
		if op.IsRepeat() {
			if m := c.Blocks[op.BlockIndex].CountObservables(); m > max {
				max = m
			}
			continue
		}
		if op.Gate.Name == "OBSERVABLE_INCLUDE" {
			args := c.Args(op)
			if len(args) == 1 {
				if idx := int(args[0]); idx > max {
					max = idx
				}
			}
		}
	}
	return max + 1
}

// CountTicks returns the total number of TICK instructions, unrolled.
func (c *Circuit) CountTicks() uint64 {
	var total uint64
	for _, op := range c.Ops {
		if op.IsRepeat() {
			inner := c.Blocks[op.BlockIndex].CountTicks()
			total = saturatingAdd(total, saturatingMul(inner, op.RepeatCount))
			continue
		}
		if op.Gate.Name == "TICK" {
			total = saturatingAdd(total, 1)
		}
	}
	return total
}

// CountSweepBits returns the max sweep-bit index + 1 referenced anywhere.
func (c *Circuit) CountSweepBits() int {
	max := -1
	for _, op := range c.Ops {
		if op.IsRepeat() {
			if m := c.Blocks[op.BlockIndex].CountSweepBits(); m > max {
				max = m
			}
			continue
		}
		for _, t := range c.Targets(op) {
			if t.IsSweepBitTarget() {
				if q := t.Qubit(); q > max {
					max = q
				}
			}
		}
	}
	return max + 1
}

// MaxLookback returns the largest rec[-k] magnitude referenced anywhere.
func (c *Circuit) MaxLookback() int {
	max := 0
	for _, op := range c.Ops {
		if op.IsRepeat() {
			if m := c.Blocks[op.BlockIndex].MaxLookback(); m > max {
				max = m
			}
			continue
		}
		for _, t := range c.Targets(op) {
			if t.IsMeasurementRecordTarget() {
				if k := t.RecordLookback(); k > max {
					max = k
				}
			}
		}
	}
	return max
}

// targetGroupCount returns how many individual measurement results an
// instruction produces: one per qubit target, except MPP where combiner
// targets ('*') join a run of targets into a single product measurement
// (each combiner merges two adjacent targets into one group).
func targetGroupCount(targets []Target) int {
	if len(targets) == 0 {
		return 0
	}
	combinerCount := 0
	for _, t := range targets {
		if t.IsCombiner() {
			combinerCount++
		}
	}
	groups := len(targets) - 2*combinerCount
	if groups < 1 {
		groups = 1
	}
	return groups
}
