// Package gate implements the static gate table (spec 3.6/3.7): every
// named operation stim-style circuits can contain, keyed by canonical
// name and alias, with per-gate arity/flags and the tableau-level
// function pointers the simulator dispatches through. The table is
// built once at package init and checked for hash collisions the same
// way the original source's gate_data.cc checks its own name table, using
// golang.org/x/crypto/sha3 as the name-hash function.
package gate

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"stabsim/errs"
	"stabsim/tableau"
)

// Flags is a bitset of gate properties, per spec 3.6.
type Flags uint32

const (
	FlagUnitary Flags = 1 << iota
	FlagNoise
	FlagReset
	FlagProducesResults
	FlagProducesNoisyResults
	FlagTargetsPairs
	FlagTargetsPauliString
	FlagTargetsCombiners
	FlagCanTargetBits
	FlagOnlyTargetsMeasurementRecord
	FlagArgsAreDisjointProbabilities
	FlagArgsAreUnsignedIntegers
	FlagIsNotFusable
	FlagTakesNoTargets
)

// Arity constrains how many numeric args a gate instruction may carry.
type Arity int

const (
	ArityZero    Arity = iota // no args
	ArityZeroOne              // zero or one arg
	ArityExact                // exactly NumArgs args
	ArityAny                  // any nonnegative number of args
)

// PrependFunc applies a gate's tableau prepend to the given targets.
type PrependFunc func(t *tableau.Tableau, targets []int) error

// AppendFunc applies a gate's tableau append (in transposed mode) to the
// given targets.
type AppendFunc func(r *tableau.TransposedRaii, targets []int) error

// Data is one gate table entry.
type Data struct {
	Name         string
	Aliases      []string
	Arity        Arity
	NumArgs      int // meaningful when Arity == ArityExact
	Flags        Flags
	TargetsPerOp int // 1 or 2 qubits per logical target group; 0 means variable (e.g. MPP)
	Prepend      PrependFunc
	Append       AppendFunc
}

// Is reports whether all bits of want are set in d.Flags.
func (d *Data) Is(want Flags) bool { return d.Flags&want == want }

func single(prep func(t *tableau.Tableau, q int), app func(r *tableau.TransposedRaii, q int)) (PrependFunc, AppendFunc) {
	var pf PrependFunc
	if prep != nil {
		pf = func(t *tableau.Tableau, targets []int) error {
			for _, q := range targets {
				prep(t, q)
			}
			return nil
		}
	}
	var af AppendFunc
	if app != nil {
		af = func(r *tableau.TransposedRaii, targets []int) error {
			for _, q := range targets {
				app(r, q)
			}
			return nil
		}
	}
	return pf, af
}

func pair(prep func(t *tableau.Tableau, a, b int), app func(r *tableau.TransposedRaii, a, b int)) (PrependFunc, AppendFunc) {
	var pf PrependFunc
	if prep != nil {
		pf = func(t *tableau.Tableau, targets []int) error {
			if len(targets)%2 != 0 {
				return errs.Validation("gate: two-qubit gate needs an even number of targets")
			}
			for i := 0; i < len(targets); i += 2 {
				prep(t, targets[i], targets[i+1])
			}
			return nil
		}
	}
	var af AppendFunc
	if app != nil {
		af = func(r *tableau.TransposedRaii, targets []int) error {
			if len(targets)%2 != 0 {
				return errs.Validation("gate: two-qubit gate needs an even number of targets")
			}
			for i := 0; i < len(targets); i += 2 {
				app(r, targets[i], targets[i+1])
			}
			return nil
		}
	}
	return pf, af
}

func annotation(name string, flags Flags) *Data {
	return &Data{Name: name, Arity: ArityAny, Flags: flags | FlagIsNotFusable}
}

// table is the canonical-name -> *Data registry, populated by register()
// at package init.
var table = map[string]*Data{}

// nameHashTable detects hash collisions between distinct canonical
// spellings the same way the original source's hashed_name_to_gate_type_table
// does: every registered name (canonical or alias) is hashed, and two
// different names landing on the same bucket is a fatal configuration
// error caught at process start rather than silently misrouting lookups.
var nameHashTable = map[[32]byte]string{}

func nameHash(name string) [32]byte {
	return sha3.Sum256([]byte(strings.ToUpper(name)))
}

func register(d *Data) {
	checkHash(d.Name)
	table[d.Name] = d
	for _, alias := range d.Aliases {
		checkHash(alias)
		table[alias] = d
	}
}

func checkHash(name string) {
	h := nameHash(name)
	if existing, ok := nameHashTable[h]; ok && existing != name {
		panic(fmt.Sprintf("gate: name-hash collision between %q and %q", existing, name))
	}
	nameHashTable[h] = name
}

// Lookup resolves a gate by canonical name or alias (case-insensitive).
func Lookup(name string) (*Data, error) {
	canonical := strings.ToUpper(name)
	d, ok := table[canonical]
	if !ok {
		return nil, errs.Parse("gate: unknown gate %q", name)
	}
	return d, nil
}

func init() {
	registerPaulis()
	registerSingleQubitCliffords()
	registerTwoQubitCliffords()
	registerMeasurementsAndResets()
	registerNoise()
	registerAnnotationsAndControl()
}

func registerPaulis() {
	reg1 := func(name string, aliases []string, prep func(*tableau.Tableau, int), app func(*tableau.TransposedRaii, int)) {
		pf, af := single(prep, app)
		register(&Data{Name: name, Aliases: aliases, Arity: ArityZero, Flags: FlagUnitary, TargetsPerOp: 1, Prepend: pf, Append: af})
	}
	reg1("X", nil, (*tableau.Tableau).PrependX, (*tableau.TransposedRaii).AppendX)
	reg1("Y", nil, (*tableau.Tableau).PrependY, nil)
	reg1("Z", nil, (*tableau.Tableau).PrependZ, nil)
	reg1("I", []string{"ID"}, func(*tableau.Tableau, int) {}, nil)
}

func registerSingleQubitCliffords() {
	reg1 := func(name string, aliases []string, prep func(*tableau.Tableau, int), app func(*tableau.TransposedRaii, int)) {
		pf, af := single(prep, app)
		register(&Data{Name: name, Aliases: aliases, Arity: ArityZero, Flags: FlagUnitary, TargetsPerOp: 1, Prepend: pf, Append: af})
	}
	reg1("H", []string{"H_XZ"}, (*tableau.Tableau).PrependH_XZ, (*tableau.TransposedRaii).AppendH_XZ)
	reg1("H_XY", nil, (*tableau.Tableau).PrependH_XY, (*tableau.TransposedRaii).AppendH_XY)
	reg1("H_YZ", nil, (*tableau.Tableau).PrependH_YZ, (*tableau.TransposedRaii).AppendH_YZ)
	reg1("C_XYZ", nil, (*tableau.Tableau).PrependC_XYZ, nil)
	reg1("C_ZYX", nil, (*tableau.Tableau).PrependC_ZYX, nil)
	reg1("S", []string{"SQRT_Z"}, (*tableau.Tableau).PrependSQRT_Z, (*tableau.TransposedRaii).AppendS)
	reg1("S_DAG", []string{"SQRT_Z_DAG"}, (*tableau.Tableau).PrependSQRT_Z_DAG, nil)
	reg1("SQRT_X", nil, (*tableau.Tableau).PrependSQRT_X, nil)
	reg1("SQRT_X_DAG", nil, (*tableau.Tableau).PrependSQRT_X_DAG, nil)
	reg1("SQRT_Y", nil, (*tableau.Tableau).PrependSQRT_Y, nil)
	reg1("SQRT_Y_DAG", nil, (*tableau.Tableau).PrependSQRT_Y_DAG, nil)
}

func registerTwoQubitCliffords() {
	reg2 := func(name string, aliases []string, prep func(*tableau.Tableau, int, int), app func(*tableau.TransposedRaii, int, int)) {
		pf, af := pair(prep, app)
		register(&Data{Name: name, Aliases: aliases, Arity: ArityZero, Flags: FlagUnitary | FlagTargetsPairs, TargetsPerOp: 2, Prepend: pf, Append: af})
	}
	reg2("CNOT", []string{"CX", "ZCX"}, (*tableau.Tableau).PrependZCX, (*tableau.TransposedRaii).AppendZCX)
	reg2("CY", []string{"ZCY"}, (*tableau.Tableau).PrependZCY, (*tableau.TransposedRaii).AppendZCY)
	reg2("CZ", []string{"ZCZ"}, (*tableau.Tableau).PrependZCZ, (*tableau.TransposedRaii).AppendZCZ)
	reg2("XCX", nil, (*tableau.Tableau).PrependXCX, nil)
	reg2("XCY", nil, (*tableau.Tableau).PrependXCY, nil)
	reg2("XCZ", nil, (*tableau.Tableau).PrependXCZ, nil)
	reg2("YCX", nil, (*tableau.Tableau).PrependYCX, nil)
	reg2("YCY", nil, (*tableau.Tableau).PrependYCY, nil)
	reg2("YCZ", nil, (*tableau.Tableau).PrependYCZ, nil)
	reg2("SWAP", nil, (*tableau.Tableau).PrependSWAP, (*tableau.TransposedRaii).AppendSWAP)
	reg2("ISWAP", nil, (*tableau.Tableau).PrependISWAP, nil)
	reg2("ISWAP_DAG", nil, (*tableau.Tableau).PrependISWAP_DAG, nil)
	reg2("SQRT_XX", nil, (*tableau.Tableau).PrependSQRT_XX, nil)
	reg2("SQRT_XX_DAG", nil, (*tableau.Tableau).PrependSQRT_XX_DAG, nil)
	reg2("SQRT_YY", nil, (*tableau.Tableau).PrependSQRT_YY, nil)
	reg2("SQRT_YY_DAG", nil, (*tableau.Tableau).PrependSQRT_YY_DAG, nil)
	reg2("SQRT_ZZ", nil, (*tableau.Tableau).PrependSQRT_ZZ, nil)
	reg2("SQRT_ZZ_DAG", nil, (*tableau.Tableau).PrependSQRT_ZZ_DAG, nil)
}

func registerMeasurementsAndResets() {
	register(&Data{Name: "M", Aliases: []string{"MZ"}, Arity: ArityZeroOne, Flags: FlagProducesResults | FlagProducesNoisyResults, TargetsPerOp: 1})
	register(&Data{Name: "MX", Arity: ArityZeroOne, Flags: FlagProducesResults | FlagProducesNoisyResults, TargetsPerOp: 1})
	register(&Data{Name: "MY", Arity: ArityZeroOne, Flags: FlagProducesResults | FlagProducesNoisyResults, TargetsPerOp: 1})
	register(&Data{Name: "R", Aliases: []string{"RZ"}, Arity: ArityZero, Flags: FlagReset, TargetsPerOp: 1})
	register(&Data{Name: "RX", Arity: ArityZero, Flags: FlagReset, TargetsPerOp: 1})
	register(&Data{Name: "RY", Arity: ArityZero, Flags: FlagReset, TargetsPerOp: 1})
	register(&Data{Name: "MR", Aliases: []string{"MRZ"}, Arity: ArityZeroOne, Flags: FlagReset | FlagProducesResults | FlagProducesNoisyResults, TargetsPerOp: 1})
	register(&Data{Name: "MRX", Arity: ArityZeroOne, Flags: FlagReset | FlagProducesResults | FlagProducesNoisyResults, TargetsPerOp: 1})
	register(&Data{Name: "MRY", Arity: ArityZeroOne, Flags: FlagReset | FlagProducesResults | FlagProducesNoisyResults, TargetsPerOp: 1})
	register(&Data{Name: "MPP", Arity: ArityZero, Flags: FlagProducesResults | FlagTargetsPauliString | FlagTargetsCombiners, TargetsPerOp: 0})
}

func registerNoise() {
	register(&Data{Name: "X_ERROR", Arity: ArityExact, NumArgs: 1, Flags: FlagNoise | FlagArgsAreDisjointProbabilities, TargetsPerOp: 1})
	register(&Data{Name: "Y_ERROR", Arity: ArityExact, NumArgs: 1, Flags: FlagNoise | FlagArgsAreDisjointProbabilities, TargetsPerOp: 1})
	register(&Data{Name: "Z_ERROR", Arity: ArityExact, NumArgs: 1, Flags: FlagNoise | FlagArgsAreDisjointProbabilities, TargetsPerOp: 1})
	register(&Data{Name: "DEPOLARIZE1", Arity: ArityExact, NumArgs: 1, Flags: FlagNoise | FlagArgsAreDisjointProbabilities, TargetsPerOp: 1})
	register(&Data{Name: "DEPOLARIZE2", Arity: ArityExact, NumArgs: 1, Flags: FlagNoise | FlagArgsAreDisjointProbabilities | FlagTargetsPairs, TargetsPerOp: 2})
	register(&Data{Name: "PAULI_CHANNEL_1", Arity: ArityExact, NumArgs: 3, Flags: FlagNoise | FlagArgsAreDisjointProbabilities, TargetsPerOp: 1})
	register(&Data{Name: "PAULI_CHANNEL_2", Arity: ArityExact, NumArgs: 15, Flags: FlagNoise | FlagArgsAreDisjointProbabilities | FlagTargetsPairs, TargetsPerOp: 2})
	register(&Data{Name: "E", Aliases: []string{"CORRELATED_ERROR"}, Arity: ArityExact, NumArgs: 1, Flags: FlagNoise | FlagTargetsPauliString | FlagIsNotFusable})
	register(&Data{Name: "ELSE_E", Aliases: []string{"ELSE_CORRELATED_ERROR"}, Arity: ArityExact, NumArgs: 1, Flags: FlagNoise | FlagTargetsPauliString | FlagIsNotFusable})
}

func registerAnnotationsAndControl() {
	register(annotation("DETECTOR", FlagCanTargetBits|FlagOnlyTargetsMeasurementRecord))
	register(annotation("OBSERVABLE_INCLUDE", FlagCanTargetBits|FlagOnlyTargetsMeasurementRecord))
	register(annotation("TICK", FlagTakesNoTargets))
	register(annotation("QUBIT_COORDS", 0))
	register(annotation("SHIFT_COORDS", FlagTakesNoTargets))
	register(&Data{Name: "REPEAT", Arity: ArityZero, Flags: FlagIsNotFusable | FlagArgsAreUnsignedIntegers})
}
