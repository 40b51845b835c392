package record

import (
	"bufio"
	"bytes"
	"testing"
)

func TestLogRecordAndLookback(t *testing.T) {
	l := NewLog()
	l.Record(true)
	l.Record(false)
	l.Record(true)
	if l.NumRecorded() != 3 {
		t.Fatalf("expected 3 recorded bits, got %d", l.NumRecorded())
	}
	last, err := l.Lookback(1)
	if err != nil || last != true {
		t.Fatalf("lookback(1): got (%v,%v), want (true,nil)", last, err)
	}
	first, err := l.Lookback(3)
	if err != nil || first != true {
		t.Fatalf("lookback(3): got (%v,%v), want (true,nil)", first, err)
	}
	mid, err := l.Lookback(2)
	if err != nil || mid != false {
		t.Fatalf("lookback(2): got (%v,%v), want (false,nil)", mid, err)
	}
}

func TestLogLookbackOutOfRangeErrors(t *testing.T) {
	l := NewLog()
	l.Record(true)
	if _, err := l.Lookback(0); err == nil {
		t.Fatalf("expected error for lookback(0)")
	}
	if _, err := l.Lookback(2); err == nil {
		t.Fatalf("expected error for lookback beyond recorded length")
	}
}

func TestLogGrowsAcrossWordBoundary(t *testing.T) {
	l := NewLog()
	for i := 0; i < 200; i++ {
		l.Record(i%7 == 0)
	}
	for i := 0; i < 200; i++ {
		want := i%7 == 0
		if got := l.Get(i); got != want {
			t.Fatalf("bit %d: got %v want %v", i, got, want)
		}
	}
}

func TestFormat01Writer(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	w := NewFormat01Writer(bw)
	for _, b := range []bool{true, false, true} {
		w.WriteBit(b)
	}
	w.WriteEnd()
	bw.Flush()
	if buf.String() != "101\n" {
		t.Fatalf("got %q, want %q", buf.String(), "101\n")
	}
}

func TestFormatHitsWriter(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	w := NewFormatHitsWriter(bw)
	for _, b := range []bool{false, true, false, true, true} {
		w.WriteBit(b)
	}
	w.WriteEnd()
	bw.Flush()
	if buf.String() != "1,3,4\n" {
		t.Fatalf("got %q, want %q", buf.String(), "1,3,4\n")
	}
}

func TestFormatB8WriterPacksLSBFirst(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	w := NewFormatB8Writer(bw)
	bits := []bool{true, false, true, false, false, false, false, false}
	for _, b := range bits {
		w.WriteBit(b)
	}
	w.WriteEnd()
	bw.Flush()
	got := buf.Bytes()
	if len(got) != 1 || got[0] != 0b00000101 {
		t.Fatalf("got %08b, want %08b", got, 0b00000101)
	}
}

func TestFormatDetsWriterTagsResultType(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	w := NewFormatDetsWriter(bw)
	w.BeginResultType('M')
	w.WriteBit(true)
	w.WriteBit(false)
	w.BeginResultType('D')
	w.WriteBit(true)
	w.WriteEnd()
	bw.Flush()
	if buf.String() != "shot M0 D0\n" {
		t.Fatalf("got %q, want %q", buf.String(), "shot M0 D0\n")
	}
}
