package dem

// Flattened returns an equivalent model with every repeat block unrolled
// and every detector id / coordinate shift folded directly into the
// targets and args of ERROR/DETECTOR instructions, per spec 4.H and
// original_source's detector_error_model.cc flattened_helper.
func (m *Model) Flattened() *Model {
	out := New()
	var coordShift []float64
	var detShift uint64
	flattenInto(m, &coordShift, &detShift, out)
	return out
}

func flattenInto(m *Model, coordShift *[]float64, detShift *uint64, out *Model) {
	for _, ins := range m.Instructions {
		switch ins.Type {
		case ShiftDetectors:
			args := m.Args(ins)
			for len(*coordShift) < len(args) {
				*coordShift = append(*coordShift, 0)
			}
			for i, d := range args {
				(*coordShift)[i] += d
			}
			for _, t := range m.Targets(ins) {
				*detShift += t.RawID()
			}
		case RepeatBlock:
			body := m.Blocks[ins.BlockIndex]
			for k := uint64(0); k < ins.RepeatCount; k++ {
				flattenInto(body, coordShift, detShift, out)
			}
		case LogicalObservable:
			out.AppendLogicalObservable(m.Targets(ins)[0])
		case Detector:
			args := m.Args(ins)
			for len(*coordShift) < len(args) {
				*coordShift = append(*coordShift, 0)
			}
			shiftedCoords := make([]float64, len(args))
			for i, d := range args {
				shiftedCoords[i] = d + (*coordShift)[i]
			}
			t := m.Targets(ins)[0].ShiftedIfDetector(*detShift)
			out.AppendDetector(shiftedCoords, t)
		case Error:
			targets := m.Targets(ins)
			shifted := make([]DemTarget, len(targets))
			for i, t := range targets {
				shifted[i] = t.ShiftedIfDetector(*detShift)
			}
			out.AppendError(m.Args(ins)[0], shifted)
		}
	}
}

// Rounded returns a copy of m with every error probability rounded to the
// given number of decimal digits (repeat blocks and other instructions
// copied unchanged).
func (m *Model) Rounded(digits int) *Model {
	scale := 1.0
	for i := 0; i < digits; i++ {
		scale *= 10
	}
	out := New()
	for _, ins := range m.Instructions {
		switch ins.Type {
		case RepeatBlock:
			out.AppendRepeatBlock(ins.RepeatCount, m.Blocks[ins.BlockIndex].Rounded(digits))
		case Error:
			p := roundTo(m.Args(ins)[0], scale)
			out.AppendError(p, m.Targets(ins))
		case Detector:
			out.AppendDetector(m.Args(ins), m.Targets(ins)[0])
		case ShiftDetectors:
			var shift uint64
			if targets := m.Targets(ins); len(targets) != 0 {
				shift = targets[0].RawID()
			}
			out.AppendShiftDetectors(m.Args(ins), shift)
		case LogicalObservable:
			out.AppendLogicalObservable(m.Targets(ins)[0])
		}
	}
	return out
}

func roundTo(v, scale float64) float64 {
	scaled := v * scale
	if scaled >= 0 {
		return float64(int64(scaled+0.5)) / scale
	}
	return float64(int64(scaled-0.5)) / scale
}
