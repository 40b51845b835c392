package circuit

import (
	"stabsim/errs"
	"stabsim/gate"
)

// ArgSpan indexes a contiguous run of a Circuit's arg pool.
type ArgSpan struct{ Start, Len int }

// TargetSpan indexes a contiguous run of a Circuit's target pool.
type TargetSpan struct{ Start, Len int }

// Operation is (gate, arg span, target span), per spec 3.8. A REPEAT
// operation instead carries RepeatCount and BlockIndex, with empty spans.
type Operation struct {
	Gate        *gate.Data
	Args        ArgSpan
	Targets     TargetSpan
	RepeatCount uint64
	BlockIndex  int
}

// IsRepeat reports whether op is a REPEAT block marker.
func (op Operation) IsRepeat() bool { return op.Gate != nil && op.Gate.Name == "REPEAT" }

// Circuit is an ordered list of operations plus a list of REPEAT-block
// bodies, backed by monotonic (append-only) arg and target pools so that
// spans captured by earlier operations stay valid across later appends.
type Circuit struct {
	Ops        []Operation
	Blocks     []*Circuit
	argPool    []float64
	targetPool []Target
}

// New returns an empty circuit.
func New() *Circuit { return &Circuit{} }

// Args returns the argument slice for op (a view into the pool; callers
// must not retain it across further appends to this Circuit).
func (c *Circuit) Args(op Operation) []float64 {
	return c.argPool[op.Args.Start : op.Args.Start+op.Args.Len]
}

// Targets returns the target slice for op.
func (c *Circuit) Targets(op Operation) []Target {
	return c.targetPool[op.Targets.Start : op.Targets.Start+op.Targets.Len]
}

// validateArity checks a gate's declared arity against a candidate arg list.
func validateArity(d *gate.Data, args []float64) error {
	switch d.Arity {
	case gate.ArityZero:
		if len(args) != 0 {
			return errs.Validation("circuit: gate %s takes no args, got %d", d.Name, len(args))
		}
	case gate.ArityZeroOne:
		if len(args) > 1 {
			return errs.Validation("circuit: gate %s takes zero or one arg, got %d", d.Name, len(args))
		}
	case gate.ArityExact:
		if len(args) != d.NumArgs {
			return errs.Validation("circuit: gate %s takes exactly %d args, got %d", d.Name, d.NumArgs, len(args))
		}
	}
	if d.Is(gate.FlagArgsAreDisjointProbabilities) {
		sum := 0.0
		for _, a := range args {
			if a < 0 || a > 1 {
				return errs.Validation("circuit: gate %s arg %v out of [0,1]", d.Name, a)
			}
			sum += a
		}
		if sum > 1.0000001 {
			return errs.Validation("circuit: gate %s probability args sum to %v > 1", d.Name, sum)
		}
	}
	return nil
}

func validateTargets(d *gate.Data, targets []Target) error {
	if d.Is(gate.FlagTakesNoTargets) && len(targets) != 0 {
		return errs.Validation("circuit: gate %s takes no targets", d.Name)
	}
	if d.Is(gate.FlagTargetsPairs) && len(targets)%2 != 0 {
		return errs.Validation("circuit: gate %s requires an even number of targets", d.Name)
	}
	if d.TargetsPerOp == 1 || d.TargetsPerOp == 2 {
		if d.TargetsPerOp == 1 && !d.Is(gate.FlagTargetsPauliString) && len(targets) == 0 {
			return errs.Validation("circuit: gate %s requires at least one target", d.Name)
		}
	}
	return nil
}

// validateRecordLookbacks rejects any rec[-k] target whose magnitude
// reaches further back than the measurements already appended to c, per
// spec 8's boundary behaviors (e.g. rec[-5] in a 4-measurement circuit
// must be rejected at parse time).
func (c *Circuit) validateRecordLookbacks(targets []Target) error {
	available := c.CountMeasurements()
	for _, t := range targets {
		if !t.IsMeasurementRecordTarget() {
			continue
		}
		if k := uint64(t.RecordLookback()); k > available {
			return errs.Validation("circuit: rec[-%d] looks back further than the %d measurements recorded so far", t.RecordLookback(), available)
		}
	}
	return nil
}

// sameArgs reports whether a freshly requested arg list equals the args
// already stored for an existing operation.
func (c *Circuit) sameArgs(op Operation, args []float64) bool {
	if op.Args.Len != len(args) {
		return false
	}
	existing := c.Args(op)
	for i := range args {
		if existing[i] != args[i] {
			return false
		}
	}
	return true
}

// AppendOperation appends a gate instruction, fusing it into the
// previous operation when the gate is fusable and both gate+args match,
// per spec 3.8 / 4.G.
func (c *Circuit) AppendOperation(gateName string, args []float64, targets []Target) error {
	d, err := gate.Lookup(gateName)
	if err != nil {
		return err
	}
	if err := validateArity(d, args); err != nil {
		return err
	}
	if err := validateTargets(d, targets); err != nil {
		return err
	}
	if err := c.validateRecordLookbacks(targets); err != nil {
		return err
	}

	if n := len(c.Ops); n > 0 && !d.Is(gate.FlagIsNotFusable) {
		tail := &c.Ops[n-1]
		tailAtPoolEnd := tail.Targets.Start+tail.Targets.Len == len(c.targetPool)
		if tail.Gate == d && tailAtPoolEnd && c.sameArgs(*tail, args) {
			c.targetPool = append(c.targetPool, targets...)
			tail.Targets.Len += len(targets)
			return nil
		}
	}

	argStart := len(c.argPool)
	c.argPool = append(c.argPool, args...)
	targetStart := len(c.targetPool)
	c.targetPool = append(c.targetPool, targets...)
	c.Ops = append(c.Ops, Operation{
		Gate:    d,
		Args:    ArgSpan{Start: argStart, Len: len(args)},
		Targets: TargetSpan{Start: targetStart, Len: len(targets)},
	})
	return nil
}

// AppendRepeatBlock appends a REPEAT n { body } operation. n must be >= 1.
func (c *Circuit) AppendRepeatBlock(n uint64, body *Circuit) error {
	if n < 1 {
		return errs.Validation("circuit: REPEAT count must be >= 1, got %d", n)
	}
	repeatGate, err := gate.Lookup("REPEAT")
	if err != nil {
		return err
	}
	blockIndex := len(c.Blocks)
	c.Blocks = append(c.Blocks, body)
	c.Ops = append(c.Ops, Operation{Gate: repeatGate, RepeatCount: n, BlockIndex: blockIndex})
	return nil
}

// Clear resets the circuit to empty, releasing the pools.
func (c *Circuit) Clear() {
	c.Ops = nil
	c.Blocks = nil
	c.argPool = nil
	c.targetPool = nil
}

// Concat appends a copy of other's operations onto c (spec's `+=`).
func (c *Circuit) Concat(other *Circuit) error {
	for _, op := range other.Ops {
		if op.IsRepeat() {
			if err := c.AppendRepeatBlock(op.RepeatCount, other.Blocks[op.BlockIndex]); err != nil {
				return err
			}
			continue
		}
		if err := c.AppendOperation(op.Gate.Name, other.Args(op), other.Targets(op)); err != nil {
			return err
		}
	}
	return nil
}

// Repeat returns a new circuit equal to c repeated k times (spec's `*= k`).
func (c *Circuit) Repeat(k uint64) (*Circuit, error) {
	out := New()
	if err := out.AppendRepeatBlock(k, c); err != nil {
		return nil, err
	}
	return out, nil
}
