package dem

// totalDetectorShift returns the net detector-id shift accumulated by one
// full pass over m (used to fast-forward across whole repeat-block
// iterations in CountDetectors, and recursively for nested blocks).
func (m *Model) totalDetectorShift() uint64 {
	var total uint64
	for _, ins := range m.Instructions {
		switch ins.Type {
		case ShiftDetectors:
			if targets := m.Targets(ins); len(targets) != 0 {
				total += targets[0].RawID()
			}
		case RepeatBlock:
			total += ins.RepeatCount * m.Blocks[ins.BlockIndex].totalDetectorShift()
		}
	}
	return total
}

// CountDetectors returns one more than the largest detector id reachable
// from m, mirroring original_source's count_detectors (offset-tracking,
// without unrolling repeat blocks).
func (m *Model) CountDetectors() uint64 {
	var offset uint64 = 1
	var maxNum uint64
	for _, ins := range m.Instructions {
		switch ins.Type {
		case ShiftDetectors:
			if targets := m.Targets(ins); len(targets) != 0 {
				offset += targets[0].RawID()
			}
		case RepeatBlock:
			block := m.Blocks[ins.BlockIndex]
			n := block.CountDetectors()
			reps := ins.RepeatCount
			blockShift := block.totalDetectorShift()
			offset += blockShift * reps
			if reps > 0 && n > 0 {
				if v := offset + n - 1 - blockShift; v > maxNum {
					maxNum = v
				}
			}
		case Detector, Error:
			for _, t := range m.Targets(ins) {
				if t.IsRelativeDetectorID() {
					if v := offset + t.RawID(); v > maxNum {
						maxNum = v
					}
				}
			}
		}
	}
	return maxNum
}

// CountErrors returns the number of ERROR instructions reachable from m,
// without unrolling repeat blocks.
func (m *Model) CountErrors() uint64 {
	var total uint64
	for _, ins := range m.Instructions {
		switch ins.Type {
		case RepeatBlock:
			total += ins.RepeatCount * m.Blocks[ins.BlockIndex].CountErrors()
		case Error:
			total++
		}
	}
	return total
}

// CountObservables returns one more than the largest observable id
// reachable from m.
func (m *Model) CountObservables() uint64 {
	var maxNum uint64
	for _, ins := range m.Instructions {
		switch ins.Type {
		case RepeatBlock:
			if v := m.Blocks[ins.BlockIndex].CountObservables(); v > maxNum {
				maxNum = v
			}
		case LogicalObservable, Error:
			for _, t := range m.Targets(ins) {
				if t.IsObservableID() {
					if v := t.RawID() + 1; v > maxNum {
						maxNum = v
					}
				}
			}
		}
	}
	return maxNum
}
