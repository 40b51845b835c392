package circuit

import (
	"stabsim/errs"
	"stabsim/gate"
)

// WithoutNoise returns a circuit identical in structure but with every
// noise-flagged operation removed and every measurement's probability
// arg stripped, per spec 4.G. This is a single O(size) pass; REPEAT
// blocks are recursed into (and kept, since repetition count is
// structural, not noise).
func (c *Circuit) WithoutNoise() (*Circuit, error) {
	out := New()
	for _, op := range c.Ops {
		if op.IsRepeat() {
			body, err := c.Blocks[op.BlockIndex].WithoutNoise()
			if err != nil {
				return nil, err
			}
			if err := out.AppendRepeatBlock(op.RepeatCount, body); err != nil {
				return nil, err
			}
			continue
		}
		if op.Gate.Is(gate.FlagNoise) {
			continue
		}
		args := c.Args(op)
		if op.Gate.Is(gate.FlagProducesNoisyResults) {
			args = nil
		}
		if err := out.AppendOperation(op.Gate.Name, args, c.Targets(op)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// PySlice returns a new circuit built from the operations selected by a
// Python-style [start:start+step*length:step] slice over c.Ops, per spec
// 4.G's py_get_slice. REPEAT blocks are copied by reference to their
// existing body (not unrolled); the slice owns an independent pool.
func (c *Circuit) PySlice(start, step, length int) (*Circuit, error) {
	if step == 0 {
		return nil, errs.Validation("circuit: slice step must be nonzero")
	}
	out := New()
	idx := start
	for i := 0; i < length; i++ {
		if idx < 0 || idx >= len(c.Ops) {
			return nil, errs.Validation("circuit: slice index %d out of range", idx)
		}
		op := c.Ops[idx]
		if op.IsRepeat() {
			if err := out.AppendRepeatBlock(op.RepeatCount, c.Blocks[op.BlockIndex]); err != nil {
				return nil, err
			}
		} else if err := out.AppendOperation(op.Gate.Name, c.Args(op), c.Targets(op)); err != nil {
			return nil, err
		}
		idx += step
	}
	return out, nil
}
