// Package wire implements the low-level byte-cursor primitives shared by
// the message and nameservice decoders: bounds-checked reads of the
// D-Bus/AllJoyn scalar types and the alignment arithmetic their wire
// layouts depend on.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrShortBuffer is returned when a read would reach past the end of a
// Buffer's captured bytes.
var ErrShortBuffer = errors.New("wire: short buffer")

// Buffer is a captured region of bytes together with the length the
// sender reported for the enclosing message. Reported can exceed
// len(Data) when the capture was truncated; callers use that to tell a
// genuinely malformed length apart from a buffer that simply needs more
// bytes.
type Buffer struct {
	Data     []byte
	Reported int
}

// NewBuffer wraps b as a fully-captured buffer, i.e. one whose reported
// length equals what was captured.
func NewBuffer(b []byte) Buffer {
	return Buffer{Data: b, Reported: len(b)}
}

// Cursor is a slice-indexed, absolute-offset reader over a Buffer. Unlike
// an io.Reader it never consumes its source: every read takes the offset
// to read from and returns the offset immediately after the value, so
// callers can rewind, peek ahead, or report the exact offset a decode
// stopped at without a separate seek step.
type Cursor struct {
	Buf   Buffer
	Order binary.ByteOrder
}

// NewCursor builds a Cursor over buf using order for multi-byte values.
func NewCursor(buf Buffer, order binary.ByteOrder) Cursor {
	return Cursor{Buf: buf, Order: order}
}

// Len is the number of bytes actually captured.
func (c Cursor) Len() int {
	return len(c.Buf.Data)
}

// Remaining reports how many captured bytes are available starting at
// offset.
func (c Cursor) Remaining(offset int) int {
	n := c.Len() - offset
	if n < 0 {
		return 0
	}
	return n
}

// ensure returns ErrShortBuffer if [offset, offset+n) isn't fully
// captured.
func (c Cursor) ensure(offset, n int) error {
	if offset < 0 || n < 0 {
		return fmt.Errorf("wire: negative offset or length")
	}
	if offset+n > c.Len() {
		return ErrShortBuffer
	}
	return nil
}

// Byte reads one byte at offset.
func (c Cursor) Byte(offset int) (byte, int, error) {
	if err := c.ensure(offset, 1); err != nil {
		return 0, offset, err
	}
	return c.Buf.Data[offset], offset + 1, nil
}

// Bytes reads n raw bytes at offset, returning a sub-slice of the
// underlying buffer. Callers must not retain it past the next mutation
// of the source buffer (there is none in this package, but the teacher's
// convention is preserved: treat it as borrowed).
func (c Cursor) Bytes(offset, n int) ([]byte, int, error) {
	if err := c.ensure(offset, n); err != nil {
		return nil, offset, err
	}
	return c.Buf.Data[offset : offset+n], offset + n, nil
}

// Uint16 reads a 2-byte unsigned integer at offset. The caller is
// responsible for aligning offset first; Uint16 itself does not align.
func (c Cursor) Uint16(offset int) (uint16, int, error) {
	if err := c.ensure(offset, 2); err != nil {
		return 0, offset, err
	}
	return c.Order.Uint16(c.Buf.Data[offset:]), offset + 2, nil
}

// Uint32 reads a 4-byte unsigned integer at offset.
func (c Cursor) Uint32(offset int) (uint32, int, error) {
	if err := c.ensure(offset, 4); err != nil {
		return 0, offset, err
	}
	return c.Order.Uint32(c.Buf.Data[offset:]), offset + 4, nil
}

// Uint64 reads an 8-byte unsigned integer at offset.
func (c Cursor) Uint64(offset int) (uint64, int, error) {
	if err := c.ensure(offset, 8); err != nil {
		return 0, offset, err
	}
	return c.Order.Uint64(c.Buf.Data[offset:]), offset + 8, nil
}

// Float64 reads an 8-byte IEEE 754 double at offset.
func (c Cursor) Float64(offset int) (float64, int, error) {
	bits, next, err := c.Uint64(offset)
	if err != nil {
		return 0, offset, err
	}
	return math.Float64frombits(bits), next, nil
}

// Align returns the next offset at or after offset that is a multiple of
// n (n must be a power of two: 1, 2, 4, or 8), along with the number of
// padding bytes skipped. It does not validate that the padding bytes are
// zero; AllJoyn's dissector never has either, following the teacher's
// and original_source's behavior of accepting whatever is there.
func Align(offset, n int) (next, padding int) {
	if n <= 1 || offset%n == 0 {
		return offset, 0
	}
	next = (offset + n - 1) &^ (n - 1)
	return next, next - offset
}

// AlignUpTo is Align clamped so the result never exceeds max. It is used
// when padding to a type's natural alignment must not run past a
// container's reported end (original_source's pad_according_to_type
// clamps to the tvb's reported length the same way).
func AlignUpTo(offset, n, max int) (next, padding int) {
	next, padding = Align(offset, n)
	if next > max {
		return max, max - offset
	}
	return next, padding
}
