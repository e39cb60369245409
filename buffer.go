package atto

import (
	"io"

	"github.com/pkg/errors"
)

const (
	initialBufferCap = 4096
	maxBufferCap     = 1 << 20
	shiftThreshold    = 2048
)

// Position is a cheap, restorable bookmark into a Buffer's unread window.
// It is only valid as long as the buffer region it points into has not been
// shifted away by a refill; Buffer.Restore reports an error otherwise.
type Position struct {
	pos       int
	line, col int
	epoch     int
}

// Line reports the 1-based source line the position refers to.
func (p Position) Line() int { return p.line }

// Col reports the 1-based source column the position refers to.
func (p Position) Col() int { return p.col }

// Buffer is the sliding character buffer described by the buffer manager:
// a contiguous byte slice with a read head and an end-of-valid-data mark,
// refillable from a source and shiftable to reclaim space. Partitions
// handed to a Handler name offsets into the slice returned by Buffer.Bytes,
// and are only meaningful until the next Ensure/Advance call that triggers
// a shift or refill.
type Buffer struct {
	data      []byte
	src       io.Reader
	pos       int
	end       int
	line, col int
	epoch     int
	eof       bool
}

// NewBuffer constructs a Buffer that refills itself from src on demand.
func NewBuffer(src io.Reader) *Buffer {
	return &Buffer{
		data: make([]byte, initialBufferCap),
		src:  src,
		line: 1,
		col:  1,
	}
}

// Bytes returns the buffer's current valid window. The slice is only
// valid until the next call to Ensure or Advance.
func (b *Buffer) Bytes() []byte { return b.data[:b.end] }

// Pos returns the current read-head offset into Bytes.
func (b *Buffer) Pos() int { return b.pos }

// Line returns the 1-based line of the read head.
func (b *Buffer) Line() int { return b.line }

// Col returns the 1-based column of the read head.
func (b *Buffer) Col() int { return b.col }

// Unread returns the number of characters available between the read head
// and the end of valid data, without performing any I/O.
func (b *Buffer) Unread() int { return b.end - b.pos }

// At returns the byte at the given offset relative to the read head, and
// whether that offset is currently backed by valid data.
func (b *Buffer) At(rel int) (byte, bool) {
	idx := b.pos + rel
	if idx < 0 || idx >= b.end {
		return 0, false
	}
	return b.data[idx], true
}

// Ensure guarantees that at least minChars unread characters are available
// starting at the read head, refilling and shifting/growing the buffer as
// needed. It returns false if end-of-input was reached before minChars
// could be satisfied; a subsequent call to Unread reports how many
// characters actually remain.
func (b *Buffer) Ensure(minChars int) (bool, error) {
	for b.end-b.pos < minChars {
		if b.eof {
			return false, nil
		}
		canGrow := b.end < len(b.data) || len(b.data) < maxBufferCap
		canShift := b.pos == b.end && b.pos > shiftThreshold
		if !canGrow && !canShift {
			// No spare capacity, nothing left to grow into, and shift
			// can't free any (pos != end: a structure is still mid-scan).
			// fill would call Read on a zero-length slice here, which
			// io.Reader's contract permits to return (0, nil) forever
			// without ever setting EOF, so this has to be caught before
			// the read is attempted.
			return false, malformedStructureErr(b.line, b.col,
				"structure exceeds maximum buffer size of %d bytes without terminating", maxBufferCap)
		}
		if err := b.fill(); err != nil {
			if err == io.EOF {
				b.eof = true
				continue
			}
			return false, errors.Wrap(err, "atto: buffer refill")
		}
	}
	return true, nil
}

// fill performs a single read into spare capacity, shifting or growing the
// backing array first if necessary.
func (b *Buffer) fill() error {
	if b.pos > shiftThreshold && b.pos == b.end {
		b.shift()
	} else if len(b.data)-b.end < initialBufferCap/4 {
		b.grow()
	}
	n, err := b.src.Read(b.data[b.end:])
	b.end += n
	if n > 0 {
		return nil
	}
	return err
}

// shift moves unread content to the front of the backing array, freeing
// space at the tail and invalidating any outstanding Position snapshots
// that named an offset before the old read head.
func (b *Buffer) shift() {
	n := copy(b.data, b.data[b.pos:b.end])
	b.end = n
	b.pos = 0
	b.epoch++
}

// grow doubles the backing array's capacity up to maxBufferCap. It always
// preserves the existing array's absolute indices (copying data[:end] to
// the same offsets in the new array) rather than shifting first: a shift
// changes what offset 0 means, and growth can happen in the middle of a
// structure's scan, before that structure's partitions have been
// computed. Only fill's boundary-triggered shift is allowed to renumber
// offsets; growth never does.
func (b *Buffer) grow() {
	newCap := len(b.data) * 2
	if newCap > maxBufferCap {
		newCap = maxBufferCap
	}
	if newCap <= len(b.data) {
		return
	}
	grown := make([]byte, newCap)
	copy(grown, b.data[:b.end])
	b.data = grown
}

// Advance moves the read head forward by n characters, updating line and
// column by scanning the consumed range for line breaks. \n, \r, and \r\n
// are each counted as exactly one line break.
func (b *Buffer) Advance(n int) {
	end := b.pos + n
	if end > b.end {
		end = b.end
	}
	i := b.pos
	for i < end {
		c := b.data[i]
		switch c {
		case '\n':
			b.line++
			b.col = 1
			i++
		case '\r':
			b.line++
			b.col = 1
			i++
			if i < end && b.data[i] == '\n' {
				i++
			}
		default:
			b.col++
			i++
		}
	}
	b.pos = end
}

// Snapshot captures the current read position so it can be cheaply
// restored later, as long as no intervening shift has discarded the range.
func (b *Buffer) Snapshot() Position {
	return Position{pos: b.pos, line: b.line, col: b.col, epoch: b.epoch}
}

// Restore rewinds the buffer to a previously captured Position. It fails
// if a shift has occurred since the snapshot was taken, since the region
// it named may no longer be resident in the buffer.
func (b *Buffer) Restore(p Position) error {
	if p.epoch != b.epoch {
		return errors.New("atto: position invalidated by buffer shift")
	}
	b.pos = p.pos
	b.line = p.line
	b.col = p.col
	return nil
}

// AtEOF reports whether the source has been fully drained and no more
// unread characters remain.
func (b *Buffer) AtEOF() bool {
	return b.eof && b.pos >= b.end
}
