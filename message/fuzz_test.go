package message

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gojoyn/alljoyn/internal/wire"
)

// decodeTwice runs Dispatch over the same bytes twice with independent
// decoders and emitters, in place of the parse-marshal-parse round trip
// of the fuzz harness this file is adapted from: since this decoder
// has no inverse encoder, the property it can check is that decoding
// the same input is deterministic.
func decodeTwice(data []byte) (Result, Result) {
	buf := wire.NewBuffer(data)
	d1, d2 := NewDecoder(), NewDecoder()
	e1, e2 := &TreeEmitter{}, &TreeEmitter{}
	return d1.Dispatch(buf, 0, e1, false), d2.Dispatch(buf, 0, e2, false)
}

func TestDispatchIsDeterministic(t *testing.T) {
	cases := [][]byte{
		{0x00},
		[]byte("OK 1234deadbeef\r\n"),
		{
			'l', byte(TypeMethodCall), 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
			42, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
		},
		{0xff, 0xfe, 0xfd},
	}

	for _, data := range cases {
		r1, r2 := decodeTwice(data)
		opts := cmp.Options{cmpopts.IgnoreUnexported(Node{})}
		if diff := cmp.Diff(r1, r2, opts); diff != "" {
			t.Errorf("Dispatch(%x) not deterministic (-first +second):\n%s", data, diff)
		}
	}
}

// FuzzDispatchNeverPanics checks that Dispatch handles arbitrary bytes
// without panicking, regardless of how malformed the input is.
func FuzzDispatchNeverPanics(f *testing.F) {
	f.Add([]byte{0x00})
	f.Add([]byte("OK 1234deadbeef\r\n"))
	f.Add([]byte{
		'l', byte(TypeMethodCall), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		42, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	})
	f.Add([]byte{0xff, 0xfe, 0xfd, 0x01, 0x02})

	f.Fuzz(func(t *testing.T, data []byte) {
		buf := wire.NewBuffer(data)
		d := NewDecoder()
		emit := &TreeEmitter{}
		_ = d.Dispatch(buf, 0, emit, false)
	})
}
