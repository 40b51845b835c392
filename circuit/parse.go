package circuit

import (
	"strconv"
	"strings"

	"stabsim/errs"
)

// Parse builds a Circuit from stim-style circuit text, per spec 4.G's
// grammar. Parse errors name the failing construct; no operation is
// half-appended to the circuit on failure (the parser only commits a
// line's operation after the whole line parses successfully).
func Parse(text string) (*Circuit, error) {
	lines := strings.Split(text, "\n")
	c := New()
	_, err := parseLines(lines, 0, c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// parseLines consumes lines starting at idx until a top-level '}' or EOF,
// appending operations into c, and returns the index just past what it
// consumed.
func parseLines(lines []string, idx int, c *Circuit) (int, error) {
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
		upper := strings.ToUpper(trimmed)
		if strings.HasPrefix(upper, "REPEAT") {
			next, err := parseRepeat(lines, idx, trimmed, c)
			if err != nil {
				return idx, err
			}
			idx = next
			continue
		}
		if err := parseInstructionLine(trimmed, c); err != nil {
			return idx, errs.Parse("circuit: line %d: %v", idx+1, err)
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

func parseRepeat(lines []string, idx int, trimmed string, c *Circuit) (int, error) {
	fields := strings.Fields(trimmed)
	if len(fields) < 3 || !strings.HasSuffix(trimmed, "{") {
		return idx, errs.Parse("circuit: line %d: malformed REPEAT header %q", idx+1, trimmed)
	}
	n, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return idx, errs.Parse("circuit: line %d: invalid REPEAT count %q", idx+1, fields[1])
	}
	body := New()
	next, err := parseLines(lines, idx+1, body)
	if err != nil {
		return idx, err
	}
	if len(body.Ops) == 0 {
		return idx, errs.Parse("circuit: line %d: REPEAT block must not be empty", idx+1)
	}
	if err := c.AppendRepeatBlock(n, body); err != nil {
		return idx, err
	}
	return next, nil
}

// parseInstructionLine parses a single `gate args? targets?` line.
func parseInstructionLine(line string, c *Circuit) error {
	i := 0
	for i < len(line) && !isIdentByte(line[i]) {
		i++
	}
	start := i
	for i < len(line) && (isIdentByte(line[i]) || line[i] == '_') {
		i++
	}
	name := line[start:i]
	if name == "" {
		return errs.Parse("expected a gate name")
	}
	rest := strings.TrimSpace(line[i:])

	var args []float64
	if strings.HasPrefix(rest, "(") {
		close := strings.IndexByte(rest, ')')
		if close < 0 {
			return errs.Parse("unterminated arg list for %s", name)
		}
		argText := rest[1:close]
		if strings.TrimSpace(argText) != "" {
			for _, part := range strings.Split(argText, ",") {
				v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
				if err != nil {
					return errs.Parse("invalid numeric arg %q for %s", part, name)
				}
				args = append(args, v)
			}
		}
		rest = strings.TrimSpace(rest[close+1:])
	}

	var targets []Target
	for _, tok := range strings.Fields(rest) {
		t, err := parseTarget(tok)
		if err != nil {
			return errs.Parse("invalid target %q for %s: %v", tok, name, err)
		}
		targets = append(targets, t)
	}

	return c.AppendOperation(name, args, targets)
}

func isIdentByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func parseTarget(tok string) (Target, error) {
	inverted := false
	for strings.HasPrefix(tok, "!") {
		inverted = !inverted
		tok = tok[1:]
	}
	switch {
	case tok == "*":
		return CombinerTarget(), nil
	case strings.HasPrefix(tok, "rec["):
		inner := strings.TrimSuffix(strings.TrimPrefix(tok, "rec["), "]")
		k, err := strconv.Atoi(inner)
		if err != nil || k >= 0 {
			return 0, errs.Parse("rec[] target must be a negative integer, got %q", tok)
		}
		return RecordTarget(-k), nil
	case strings.HasPrefix(tok, "sweep["):
		inner := strings.TrimSuffix(strings.TrimPrefix(tok, "sweep["), "]")
		k, err := strconv.Atoi(inner)
		if err != nil || k < 0 {
			return 0, errs.Parse("sweep[] target must be a nonnegative integer, got %q", tok)
		}
		return SweepBitTarget(k), nil
	case tok != "" && (tok[0] == 'X' || tok[0] == 'x' || tok[0] == 'Y' || tok[0] == 'y' || tok[0] == 'Z' || tok[0] == 'z'):
		q, err := strconv.Atoi(tok[1:])
		if err != nil || q < 0 {
			return 0, errs.Parse("Pauli target must be followed by a qubit index, got %q", tok)
		}
		switch tok[0] {
		case 'X', 'x':
			return PauliTarget(q, true, false, inverted), nil
		case 'Z', 'z':
			return PauliTarget(q, false, true, inverted), nil
		default:
			return PauliTarget(q, true, true, inverted), nil
		}
	default:
		q, err := strconv.Atoi(tok)
		if err != nil || q < 0 {
			return 0, errs.Parse("expected a qubit index, got %q", tok)
		}
		return QubitTarget(q, inverted), nil
	}
}
