package circuit

import "stabsim/errs"

// coordShift holds a running accumulated SHIFT_COORDS vector, extended
// lazily since different ops may shift different numbers of dimensions.
type coordShift []float64

func (s coordShift) add(delta []float64) coordShift {
	if len(delta) > len(s) {
		grown := make(coordShift, len(delta))
		copy(grown, s)
		s = grown
	}
	for i, d := range delta {
		s[i] += d
	}
	return s
}

func addCoords(base []float64, shift coordShift) []float64 {
	n := len(base)
	if len(shift) > n {
		n = len(shift)
	}
	out := make([]float64, n)
	copy(out, base)
	for i, d := range shift {
		out[i] += d
	}
	return out
}

// CoordsOfDetector returns the coordinate tuple of the d-th detector
// (spec 4.G), descending into REPEAT blocks only as far as needed to
// reach index d rather than unrolling every iteration.
func (c *Circuit) CoordsOfDetector(d uint64) ([]float64, error) {
	coords, shift, ok, err := c.coordsOfDetector(d, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Validation("circuit: detector index %d out of range", d)
	}
	_ = shift
	return coords, nil
}

// coordsOfDetector returns (coords, updatedShift, found, err). It walks
// operations in order, consuming detector indices and accumulating
// SHIFT_COORDS, and for REPEAT blocks uses the body's own detector and
// shift counts to jump directly to the containing iteration in O(1)
// arithmetic instead of simulating each one.
func (c *Circuit) coordsOfDetector(d uint64, shift coordShift) ([]float64, coordShift, bool, error) {
	remaining := d
	for _, op := range c.Ops {
		if op.IsRepeat() {
			body := c.Blocks[op.BlockIndex]
			perIter := body.CountDetectors()
			bodyShift := body.totalCoordShift()
			total := saturatingMul(perIter, op.RepeatCount)
			if remaining >= total {
				remaining -= total
				shift = shift.add(scaleShift(bodyShift, float64(op.RepeatCount)))
				continue
			}
			if perIter == 0 {
				return nil, shift, false, nil
			}
			iter := remaining / perIter
			within := remaining % perIter
			shift = shift.add(scaleShift(bodyShift, float64(iter)))
			coords, newShift, ok, err := body.coordsOfDetector(within, shift)
			return coords, newShift, ok, err
		}
		switch op.Gate.Name {
		case "SHIFT_COORDS":
			shift = shift.add(c.Args(op))
		case "DETECTOR":
			if remaining == 0 {
				return addCoords(c.Args(op), shift), shift, true, nil
			}
			remaining--
		}
	}
	return nil, shift, false, nil
}

// totalCoordShift returns the net SHIFT_COORDS accumulated by one full
// pass over c (used to fast-forward across whole REPEAT iterations).
func (c *Circuit) totalCoordShift() coordShift {
	var shift coordShift
	for _, op := range c.Ops {
		if op.IsRepeat() {
			inner := c.Blocks[op.BlockIndex].totalCoordShift()
			shift = shift.add(scaleShift(inner, float64(op.RepeatCount)))
			continue
		}
		if op.Gate.Name == "SHIFT_COORDS" {
			shift = shift.add(c.Args(op))
		}
	}
	return shift
}

func scaleShift(s coordShift, k float64) coordShift {
	out := make(coordShift, len(s))
	for i, v := range s {
		out[i] = v * k
	}
	return out
}
