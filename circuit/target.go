// Package circuit implements the Circuit data model (spec 3.7/3.8/4.G):
// gate targets, operations, monotonic arg/target pools, a text parser and
// printer, fusion of adjacent identical operations, and the structural
// queries (counts, slicing, without_noise, detector coordinates) that
// must cost O(static size) rather than O(unrolled size).
package circuit

import "fmt"

// Target is a single 32-bit encoded gate target, per spec 3.7: qubit
// index in the low 24 bits, plus one of a small set of role flags.
type Target uint32

const (
	qubitBits  = 24
	qubitMask  = (1 << qubitBits) - 1
	flagInvert = 1 << (qubitBits + 0)
	flagPauliX = 1 << (qubitBits + 1)
	flagPauliZ = 1 << (qubitBits + 2)
	flagRecord = 1 << (qubitBits + 3)
	flagSweep  = 1 << (qubitBits + 4)
	flagCombo  = 1 << (qubitBits + 5)
)

// QubitTarget builds a plain qubit target.
func QubitTarget(q int, inverted bool) Target {
	return Target(q&qubitMask) | invertBit(inverted)
}

// PauliTarget builds an X/Y/Z-basis measurement target: x and z together
// select the Pauli (both true = Y).
func PauliTarget(q int, x, z bool, inverted bool) Target {
	t := Target(q&qubitMask) | invertBit(inverted)
	if x {
		t |= flagPauliX
	}
	if z {
		t |= flagPauliZ
	}
	return t
}

// RecordTarget builds a measurement-record lookback target (rec[-k], k >= 1).
func RecordTarget(lookback int) Target {
	return Target(lookback&qubitMask) | flagRecord
}

// SweepBitTarget builds a sweep[k] classical-control target.
func SweepBitTarget(k int) Target {
	return Target(k&qubitMask) | flagSweep
}

// CombinerTarget builds the '*' Pauli-product combiner target.
func CombinerTarget() Target { return Target(flagCombo) }

func invertBit(inverted bool) Target {
	if inverted {
		return flagInvert
	}
	return 0
}

// Qubit returns the low 24-bit payload, interpreted as a qubit index,
// record lookback magnitude, or sweep-bit index depending on the flags.
func (t Target) Qubit() int { return int(t & qubitMask) }

// Inverted reports whether the INVERTED flag is set.
func (t Target) Inverted() bool { return t&flagInvert != 0 }

// WithInverted returns t with the INVERTED flag toggled.
func (t Target) WithInverted() Target { return t ^ flagInvert }

// IsCombiner reports whether t is the '*' Pauli-product combiner.
func (t Target) IsCombiner() bool { return t&flagCombo != 0 }

// IsMeasurementRecordTarget reports whether t is an rec[-k] target.
func (t Target) IsMeasurementRecordTarget() bool { return t&flagRecord != 0 }

// IsSweepBitTarget reports whether t is a sweep[k] target.
func (t Target) IsSweepBitTarget() bool { return t&flagSweep != 0 }

// IsPauliTarget reports whether t carries an X/Y/Z Pauli basis flag.
func (t Target) IsPauliTarget() bool { return t&(flagPauliX|flagPauliZ) != 0 }

// Pauli returns 'X', 'Y', 'Z', or 0 if t is not a Pauli target.
func (t Target) Pauli() byte {
	x, z := t&flagPauliX != 0, t&flagPauliZ != 0
	switch {
	case x && z:
		return 'Y'
	case x:
		return 'X'
	case z:
		return 'Z'
	default:
		return 0
	}
}

// RecordLookback returns the rec[-k] magnitude k (k >= 1).
func (t Target) RecordLookback() int { return t.Qubit() }

// String renders t in the parser's own surface syntax.
func (t Target) String() string {
	prefix := ""
	if t.Inverted() {
		prefix = "!"
	}
	switch {
	case t.IsCombiner():
		return "*"
	case t.IsMeasurementRecordTarget():
		return fmt.Sprintf("rec[-%d]", t.RecordLookback())
	case t.IsSweepBitTarget():
		return fmt.Sprintf("sweep[%d]", t.Qubit())
	case t.IsPauliTarget():
		return fmt.Sprintf("%s%c%d", prefix, t.Pauli(), t.Qubit())
	default:
		return fmt.Sprintf("%s%d", prefix, t.Qubit())
	}
}
