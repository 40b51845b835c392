// Package record implements the measurement-record log (spec 3.10/§6): a
// growable bit-packed append log supporting rec[-k] lookback, and the
// Writer interface + output-format implementations a simulator streams
// results through.
package record

import (
	"stabsim/errs"
	"stabsim/simd"
)

// Log is a growable, bit-packed append-only log of measurement outcomes.
// Bit i is the i-th measurement ever recorded (0-indexed from the start
// of the shot); rec[-k] addresses bit (NumRecorded()-k).
type Log struct {
	words []simd.Word
	n     int
}

// NewLog returns an empty measurement record.
func NewLog() *Log { return &Log{} }

// NumRecorded returns how many bits have been appended so far.
func (l *Log) NumRecorded() int { return l.n }

// Record appends one measurement outcome.
func (l *Log) Record(bit bool) {
	wordIdx := l.n / simd.WordBits
	if wordIdx >= len(l.words) {
		l.words = append(l.words, 0)
	}
	if bit {
		l.words[wordIdx] = l.words[wordIdx].WithBit(l.n%simd.WordBits, 1)
	}
	l.n++
}

// Get returns the bit recorded at absolute index i (0 <= i < NumRecorded()).
func (l *Log) Get(i int) bool {
	return l.words[i/simd.WordBits].Bit(i%simd.WordBits) != 0
}

// Lookback returns the outcome of the k-th most recent measurement
// (k >= 1, rec[-k] in circuit syntax); k must not exceed NumRecorded().
func (l *Log) Lookback(k int) (bool, error) {
	if k < 1 || k > l.n {
		return false, errs.Validation("record: lookback %d out of range for %d recorded bits", k, l.n)
	}
	return l.Get(l.n - k), nil
}

// Flip toggles the bit recorded at absolute index i (0 <= i < NumRecorded()),
// used to apply measurement-noise flips after the fact.
func (l *Log) Flip(i int) {
	wordIdx := i / simd.WordBits
	l.words[wordIdx] = l.words[wordIdx].WithBit(i%simd.WordBits, 1-l.words[wordIdx].Bit(i%simd.WordBits))
}

// Clear empties the log, releasing its backing storage.
func (l *Log) Clear() {
	l.words = nil
	l.n = 0
}

// Tail returns the last count recorded bits, oldest first.
func (l *Log) Tail(count int) []bool {
	if count > l.n {
		count = l.n
	}
	out := make([]bool, count)
	start := l.n - count
	for i := range out {
		out[i] = l.Get(start + i)
	}
	return out
}
