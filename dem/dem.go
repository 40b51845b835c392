package dem

import "stabsim/errs"

// InstructionType distinguishes the five DEM instruction kinds (spec 3.9).
type InstructionType int

const (
	Error InstructionType = iota
	ShiftDetectors
	Detector
	LogicalObservable
	RepeatBlock
)

// ArgSpan indexes a contiguous run of a model's arg pool.
type ArgSpan struct{ Start, Len int }

// TargetSpan indexes a contiguous run of a model's target pool.
type TargetSpan struct{ Start, Len int }

// Instruction is one DEM line: a type plus an arg span and a target span
// (REPEAT instead carries RepeatCount/BlockIndex with empty spans), mirroring
// circuit.Operation's monotonic-pool shape.
type Instruction struct {
	Type        InstructionType
	Args        ArgSpan
	Targets     TargetSpan
	RepeatCount uint64
	BlockIndex  int
}

// Model is a detector error model: an ordered instruction list plus the
// REPEAT-block bodies it references, backed by append-only arg/target pools.
type Model struct {
	Instructions []Instruction
	Blocks       []*Model
	argPool      []float64
	targetPool   []DemTarget
}

// New returns an empty detector error model.
func New() *Model { return &Model{} }

// Args returns the argument slice for ins (a view into the pool).
func (m *Model) Args(ins Instruction) []float64 {
	return m.argPool[ins.Args.Start : ins.Args.Start+ins.Args.Len]
}

// Targets returns the target slice for ins.
func (m *Model) Targets(ins Instruction) []DemTarget {
	return m.targetPool[ins.Targets.Start : ins.Targets.Start+ins.Targets.Len]
}

func (m *Model) appendRaw(typ InstructionType, args []float64, targets []DemTarget) Instruction {
	argStart := len(m.argPool)
	m.argPool = append(m.argPool, args...)
	targetStart := len(m.targetPool)
	m.targetPool = append(m.targetPool, targets...)
	ins := Instruction{
		Type:    typ,
		Args:    ArgSpan{Start: argStart, Len: len(args)},
		Targets: TargetSpan{Start: targetStart, Len: len(targets)},
	}
	m.Instructions = append(m.Instructions, ins)
	return ins
}

// AppendError appends an `error(p) ...targets` instruction.
func (m *Model) AppendError(probability float64, targets []DemTarget) error {
	if probability < 0 || probability > 1 {
		return errs.Validation("dem: error probability %v out of [0,1]", probability)
	}
	m.appendRaw(Error, []float64{probability}, targets)
	return nil
}

// AppendShiftDetectors appends a `shift_detectors(coords) n` instruction.
func (m *Model) AppendShiftDetectors(coordShift []float64, detectorShift uint64) error {
	var targets []DemTarget
	if detectorShift != 0 {
		targets = []DemTarget{RelativeDetectorID(detectorShift)}
	}
	m.appendRaw(ShiftDetectors, coordShift, targets)
	return nil
}

// AppendDetector appends a `detector(coords) Dn` instruction.
func (m *Model) AppendDetector(coords []float64, target DemTarget) error {
	if !target.IsRelativeDetectorID() {
		return errs.Validation("dem: detector instruction needs a Dn target")
	}
	m.appendRaw(Detector, coords, []DemTarget{target})
	return nil
}

// AppendLogicalObservable appends a `logical_observable Ln` instruction.
func (m *Model) AppendLogicalObservable(target DemTarget) error {
	if !target.IsObservableID() {
		return errs.Validation("dem: logical_observable instruction needs an Ln target")
	}
	m.appendRaw(LogicalObservable, nil, []DemTarget{target})
	return nil
}

// AppendRepeatBlock appends a `repeat n { body }` instruction. n must be >= 1.
func (m *Model) AppendRepeatBlock(n uint64, body *Model) error {
	if n < 1 {
		return errs.Validation("dem: repeat count must be >= 1, got %d", n)
	}
	blockIndex := len(m.Blocks)
	m.Blocks = append(m.Blocks, body)
	m.Instructions = append(m.Instructions, Instruction{Type: RepeatBlock, RepeatCount: n, BlockIndex: blockIndex})
	return nil
}

// Clear resets the model to empty.
func (m *Model) Clear() {
	m.Instructions = nil
	m.Blocks = nil
	m.argPool = nil
	m.targetPool = nil
}
