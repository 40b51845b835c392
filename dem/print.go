package dem

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the model in canonical text form, repeat blocks printed
// with nested indentation.
func (m *Model) String() string {
	var sb strings.Builder
	m.writeIndented(&sb, 0)
	return sb.String()
}

func (m *Model) writeIndented(sb *strings.Builder, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, ins := range m.Instructions {
		sb.WriteString(indent)
		if ins.Type == RepeatBlock {
			fmt.Fprintf(sb, "repeat %d {\n", ins.RepeatCount)
			m.Blocks[ins.BlockIndex].writeIndented(sb, depth+1)
			fmt.Fprintf(sb, "%s}\n", indent)
			continue
		}
		sb.WriteString(instructionName(ins.Type))
		if args := m.Args(ins); len(args) > 0 {
			sb.WriteByte('(')
			for i, a := range args {
				if i > 0 {
					sb.WriteByte(',')
				}
				sb.WriteString(strconv.FormatFloat(a, 'g', -1, 64))
			}
			sb.WriteByte(')')
		}
		if ins.Type == ShiftDetectors {
			for _, t := range m.Targets(ins) {
				fmt.Fprintf(sb, " %d", t.RawID())
			}
		} else {
			for _, t := range m.Targets(ins) {
				sb.WriteByte(' ')
				sb.WriteString(t.String())
			}
		}
		sb.WriteByte('\n')
	}
}

func instructionName(t InstructionType) string {
	switch t {
	case Error:
		return "error"
	case ShiftDetectors:
		return "shift_detectors"
	case Detector:
		return "detector"
	case LogicalObservable:
		return "logical_observable"
	default:
		return "repeat"
	}
}
