package atto

import (
	"strings"
	"testing"
)

func TestBufferEnsureAndAt(t *testing.T) {
	buf := NewBuffer(strings.NewReader("hello"))
	ok, err := buf.Ensure(5)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !ok {
		t.Fatalf("Ensure(5) = false, want true for a 5-byte source")
	}
	c, ok := buf.At(0)
	if !ok || c != 'h' {
		t.Errorf("At(0) = %q, %v, want 'h', true", c, ok)
	}

	ok, err = buf.Ensure(6)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if ok {
		t.Errorf("Ensure(6) = true, want false (only 5 bytes available)")
	}
}

func TestBufferAdvanceTracksLineCol(t *testing.T) {
	buf := NewBuffer(strings.NewReader("ab\ncd\r\nef"))
	if _, err := buf.Ensure(9); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	buf.Advance(9)
	if buf.Line() != 3 || buf.Col() != 3 {
		t.Errorf("after advancing past two line breaks, Line/Col = %d/%d, want 3/3", buf.Line(), buf.Col())
	}
}

func TestBufferAdvanceTreatsCRLFAsOneBreak(t *testing.T) {
	buf := NewBuffer(strings.NewReader("a\r\nb"))
	if _, err := buf.Ensure(4); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	buf.Advance(4)
	if buf.Line() != 2 {
		t.Errorf("Line() = %d, want 2 (a single \\r\\n break)", buf.Line())
	}
}

func TestBufferShiftReclaimsSpace(t *testing.T) {
	// Drive enough Advance calls to push pos past shiftThreshold, forcing
	// fill() to shift on the next read once everything is consumed.
	content := strings.Repeat("x", shiftThreshold+initialBufferCap)
	buf := NewBuffer(strings.NewReader(content))

	for buf.Pos() < shiftThreshold+1 {
		ok, err := buf.Ensure(1)
		if err != nil {
			t.Fatalf("Ensure: %v", err)
		}
		if !ok {
			t.Fatalf("ran out of input before reaching the shift threshold")
		}
		buf.Advance(1)
	}

	snap := buf.Snapshot()

	// Consume the rest, which should force a shift since pos == end with
	// pos above the threshold.
	for {
		ok, err := buf.Ensure(1)
		if err != nil {
			t.Fatalf("Ensure: %v", err)
		}
		if !ok {
			break
		}
		buf.Advance(1)
	}

	if err := buf.Restore(snap); err == nil {
		t.Errorf("Restore should fail once a shift has invalidated the snapshot")
	}
}

func TestBufferGrowPreservesAbsoluteOffsets(t *testing.T) {
	// A single attribute-ish run long enough to force grow() mid-scan,
	// without ever advancing pos past 0 (pos stays fixed while end grows,
	// per the no-shift-mid-scan invariant grow() must uphold).
	content := strings.Repeat("y", initialBufferCap*3)
	buf := NewBuffer(strings.NewReader(content))

	ok, err := buf.Ensure(initialBufferCap * 3)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !ok {
		t.Fatalf("Ensure should have been satisfied by the full content")
	}
	if buf.Pos() != 0 {
		t.Fatalf("Pos() = %d, want 0 (nothing advanced yet)", buf.Pos())
	}
	b, ok := buf.At(initialBufferCap*3 - 1)
	if !ok || b != 'y' {
		t.Errorf("At(last) = %q, %v, want 'y', true -- grow() must have renumbered offsets", b, ok)
	}
}

func TestBufferEnsureReportsCapacityErrorMidStructure(t *testing.T) {
	// A source far bigger than maxBufferCap, with the read head advanced
	// past 0 but nowhere near end (mid-structure: nothing has terminated
	// yet, so shift can never fire). Once the buffer has grown all the
	// way to maxBufferCap, Ensure must report an error instead of looping
	// forever retrying a Read into a zero-length slice.
	content := strings.Repeat("z", maxBufferCap+initialBufferCap)
	buf := NewBuffer(strings.NewReader(content))

	if _, err := buf.Ensure(2); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	buf.Advance(1)
	if buf.Pos() != 1 {
		t.Fatalf("Pos() = %d, want 1", buf.Pos())
	}

	_, err := buf.Ensure(maxBufferCap)
	if err == nil {
		t.Fatalf("Ensure(maxBufferCap) with pos=1 should fail once the buffer is full, not hang or succeed")
	}
	perr, ok := err.(*ParseError)
	if !ok || perr.Kind != MalformedStructure {
		t.Errorf("err = %v (%T), want a *ParseError of kind MalformedStructure", err, err)
	}
}

func TestBufferAtEOF(t *testing.T) {
	buf := NewBuffer(strings.NewReader("hi"))
	if buf.AtEOF() {
		t.Fatalf("AtEOF() = true before reading anything")
	}
	if _, err := buf.Ensure(2); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	buf.Advance(2)
	if _, err := buf.Ensure(1); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !buf.AtEOF() {
		t.Errorf("AtEOF() = false after consuming all input")
	}
}
