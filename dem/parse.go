package dem

import (
	"strconv"
	"strings"

	"stabsim/errs"
)

// Parse builds a Model from detector-error-model text, per spec 4.H's
// grammar (error/shift_detectors/detector/logical_observable/repeat).
func Parse(text string) (*Model, error) {
	lines := strings.Split(text, "\n")
	m := New()
	_, err := parseLines(lines, 0, m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func parseLines(lines []string, idx int, m *Model) (int, error) {
	for idx < len(lines) {
		raw := lines[idx]
		line := stripComment(raw)
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			idx++
			continue
		}
		if trimmed == "}" {
			return idx + 1, nil
		}
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "repeat") {
			next, err := parseRepeat(lines, idx, trimmed, m)
			if err != nil {
				return idx, err
			}
			idx = next
			continue
		}
		if err := parseInstructionLine(trimmed, m); err != nil {
			return idx, errs.Parse("dem: line %d: %v", idx+1, err)
		}
		idx++
	}
	return idx, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseRepeat(lines []string, idx int, trimmed string, m *Model) (int, error) {
	fields := strings.Fields(trimmed)
	if len(fields) < 3 || !strings.HasSuffix(trimmed, "{") {
		return idx, errs.Parse("dem: line %d: malformed repeat header %q", idx+1, trimmed)
	}
	n, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return idx, errs.Parse("dem: line %d: invalid repeat count %q", idx+1, fields[1])
	}
	body := New()
	next, err := parseLines(lines, idx+1, body)
	if err != nil {
		return idx, err
	}
	if err := m.AppendRepeatBlock(n, body); err != nil {
		return idx, err
	}
	return next, nil
}

func parseInstructionLine(line string, m *Model) error {
	i := 0
	for i < len(line) && isIdentByte(line[i]) {
		i++
	}
	name := strings.ToLower(line[:i])
	rest := strings.TrimSpace(line[i:])

	var args []float64
	if strings.HasPrefix(rest, "(") {
		closeIdx := strings.IndexByte(rest, ')')
		if closeIdx < 0 {
			return errs.Parse("unterminated arg list for %s", name)
		}
		argText := rest[1:closeIdx]
		if strings.TrimSpace(argText) != "" {
			for _, part := range strings.Split(argText, ",") {
				v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
				if err != nil {
					return errs.Parse("invalid numeric arg %q for %s", part, name)
				}
				args = append(args, v)
			}
		}
		rest = strings.TrimSpace(rest[closeIdx+1:])
	}

	fields := strings.Fields(rest)

	switch name {
	case "error":
		if len(args) != 1 {
			return errs.Parse("error instruction needs exactly one probability arg")
		}
		targets, err := parseTargets(fields)
		if err != nil {
			return err
		}
		return m.AppendError(args[0], targets)
	case "shift_detectors":
		var shift uint64
		targetFields := fields
		if len(targetFields) > 0 {
			if v, err := strconv.ParseUint(targetFields[0], 10, 64); err == nil {
				shift = v
				targetFields = targetFields[1:]
			}
		}
		if len(targetFields) != 0 {
			return errs.Parse("shift_detectors takes at most one numeric shift, got trailing %v", targetFields)
		}
		return m.AppendShiftDetectors(args, shift)
	case "detector":
		targets, err := parseTargets(fields)
		if err != nil {
			return err
		}
		if len(targets) != 1 {
			return errs.Parse("detector instruction needs exactly one Dn target")
		}
		return m.AppendDetector(args, targets[0])
	case "logical_observable":
		targets, err := parseTargets(fields)
		if err != nil {
			return err
		}
		if len(targets) != 1 {
			return errs.Parse("logical_observable instruction needs exactly one Ln target")
		}
		return m.AppendLogicalObservable(targets[0])
	default:
		return errs.Parse("unrecognized instruction name %q", name)
	}
}

func isIdentByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func parseTargets(fields []string) ([]DemTarget, error) {
	targets := make([]DemTarget, 0, len(fields))
	for _, tok := range fields {
		t, err := parseTarget(tok)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func parseTarget(tok string) (DemTarget, error) {
	if tok == "^" {
		return Separator(), nil
	}
	if len(tok) < 2 {
		return DemTarget{}, errs.Parse("invalid dem target %q", tok)
	}
	n, err := strconv.ParseUint(tok[1:], 10, 64)
	if err != nil {
		return DemTarget{}, errs.Parse("invalid dem target %q: %v", tok, err)
	}
	switch tok[0] {
	case 'D', 'd':
		return RelativeDetectorID(n), nil
	case 'L', 'l':
		return ObservableID(n), nil
	default:
		return DemTarget{}, errs.Parse("invalid dem target prefix in %q", tok)
	}
}
