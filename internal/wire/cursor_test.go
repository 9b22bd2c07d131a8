package wire

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCursorUint32(t *testing.T) {
	tt := map[string]struct {
		data []byte
		want uint32
	}{
		"zero":    {data: []byte{0, 0, 0, 0}, want: 0},
		"max":     {data: []byte{0xff, 0xff, 0xff, 0xff}, want: 0xffffffff},
		"ordered": {data: []byte{0x01, 0x00, 0x00, 0x00}, want: 1},
	}

	for name, tc := range tt {
		t.Run(name, func(t *testing.T) {
			c := NewCursor(NewBuffer(tc.data), binary.LittleEndian)
			got, next, err := c.Uint32(0)
			if err != nil {
				t.Fatalf("Uint32: %v", err)
			}
			if got != tc.want {
				t.Errorf("Uint32 = %d, want %d", got, tc.want)
			}
			if next != 4 {
				t.Errorf("next offset = %d, want 4", next)
			}
		})
	}
}

func TestCursorShortBuffer(t *testing.T) {
	c := NewCursor(NewBuffer([]byte{1, 2}), binary.LittleEndian)

	_, _, err := c.Uint32(0)
	if diff := cmp.Diff(ErrShortBuffer, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("Uint32 error mismatch (-want +got):\n%s", diff)
	}
}

func TestAlign(t *testing.T) {
	tt := map[string]struct {
		offset, n   int
		wantNext    int
		wantPadding int
	}{
		"already aligned 4":         {offset: 8, n: 4, wantNext: 8, wantPadding: 0},
		"needs 2 bytes to reach 4":  {offset: 6, n: 4, wantNext: 8, wantPadding: 2},
		"needs 7 bytes to reach 8":  {offset: 1, n: 8, wantNext: 8, wantPadding: 7},
		"alignment of 1 is a no-op": {offset: 3, n: 1, wantNext: 3, wantPadding: 0},
	}

	for name, tc := range tt {
		t.Run(name, func(t *testing.T) {
			next, padding := Align(tc.offset, tc.n)
			if next != tc.wantNext || padding != tc.wantPadding {
				t.Errorf("Align(%d, %d) = (%d, %d), want (%d, %d)",
					tc.offset, tc.n, next, padding, tc.wantNext, tc.wantPadding)
			}
		})
	}
}

func TestAlignUpToClamps(t *testing.T) {
	next, padding := AlignUpTo(5, 8, 6)
	if next != 6 || padding != 1 {
		t.Errorf("AlignUpTo(5, 8, 6) = (%d, %d), want (6, 1)", next, padding)
	}
}

func BenchmarkCursorUint32(b *testing.B) {
	c := NewCursor(NewBuffer([]byte{1, 0, 0, 0}), binary.LittleEndian)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := c.Uint32(0); err != nil {
			b.Fatal(err)
		}
	}
}
