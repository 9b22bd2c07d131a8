package message

import (
	"testing"

	"github.com/gojoyn/alljoyn/internal/wire"
)

func TestDispatchConnectByte(t *testing.T) {
	buf := wire.NewBuffer([]byte{0x00})
	d := NewDecoder()
	emit := &TreeEmitter{}

	res := d.Dispatch(buf, 0, emit, false)
	if res.Kind != Consumed {
		t.Fatalf("Kind = %v, want Consumed", res.Kind)
	}
	if res.N != 1 {
		t.Errorf("N = %d, want 1", res.N)
	}
}

func TestDispatchSASLOK(t *testing.T) {
	buf := wire.NewBuffer([]byte("OK 1234deadbeef\r\n"))
	d := NewDecoder()
	emit := &TreeEmitter{}

	res := d.Dispatch(buf, 0, emit, false)
	if res.Kind != Consumed {
		t.Fatalf("Kind = %v, want Consumed", res.Kind)
	}
	if res.N != len("OK 1234deadbeef\r\n") {
		t.Errorf("N = %d, want %d", res.N, len("OK 1234deadbeef\r\n"))
	}
}

func TestDispatchSASLNeedsMoreWhenDesegmenting(t *testing.T) {
	buf := wire.NewBuffer([]byte("OK 1234"))
	d := NewDecoder()
	emit := &TreeEmitter{}

	res := d.Dispatch(buf, 0, emit, true)
	if res.Kind != NeedMore {
		t.Fatalf("Kind = %v, want NeedMore", res.Kind)
	}
	if res.From != 0 {
		t.Errorf("From = %d, want 0", res.From)
	}
}

func TestDispatchEmptyMethodCall(t *testing.T) {
	// Little-endian, METHOD_CALL, serial 42, empty body, no header fields.
	data := []byte{
		'l', byte(TypeMethodCall), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		42, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	buf := wire.NewBuffer(data)
	d := NewDecoder()
	emit := &TreeEmitter{}

	res := d.Dispatch(buf, 0, emit, false)
	if res.Kind != Consumed {
		t.Fatalf("Kind = %v, want Consumed", res.Kind)
	}
	want := "Message 0000000042: 'Method call'"
	if res.Info != want {
		t.Errorf("Info = %q, want %q", res.Info, want)
	}
	if res.N != MessageHeaderLength {
		t.Errorf("N = %d, want %d", res.N, MessageHeaderLength)
	}
}

func TestDispatchSignalWithMember(t *testing.T) {
	fields := []byte{
		byte(HeaderMember), fieldSentinelOne, tString, fieldSentinelTwo,
		3, 0, 0, 0, 'F', 'o', 'o', 0x00,
	}
	data := append([]byte{
		'l', byte(TypeSignal), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		7, 0x00, 0x00, 0x00,
		byte(len(fields)), 0x00, 0x00, 0x00,
	}, fields...)
	data = append(data, 0x00, 0x00, 0x00, 0x00) // pad header fields to 8
	buf := wire.NewBuffer(data)
	d := NewDecoder()
	emit := &TreeEmitter{}

	res := d.Dispatch(buf, 0, emit, false)
	if res.Kind != Consumed {
		t.Fatalf("Kind = %v, want Consumed", res.Kind)
	}
	want := "Message 0000000007: 'Signal' Foo"
	if res.Info != want {
		t.Errorf("Info = %q, want %q", res.Info, want)
	}
}

func TestDispatchMessageExceedsMaxPacketLen(t *testing.T) {
	data := make([]byte, MaxPacketLen+1)
	data[0] = 'l'
	data[1] = byte(TypeSignal)
	buf := wire.NewBuffer(data)
	d := NewDecoder()
	emit := &TreeEmitter{}

	res := d.Dispatch(buf, 0, emit, false)
	if res.Kind != Drained {
		t.Fatalf("Kind = %v, want Drained", res.Kind)
	}
}

func TestDispatchTruncatedMessageNeedsMore(t *testing.T) {
	data := []byte{
		'l', byte(TypeMethodCall), 0x00, 0x00,
		0x04, 0x00, 0x00, 0x00, // body length 4, but no body bytes follow
		1, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	buf := wire.NewBuffer(data)
	d := NewDecoder()
	emit := &TreeEmitter{}

	res := d.Dispatch(buf, 0, emit, true)
	if res.Kind != NeedMore {
		t.Fatalf("Kind = %v, want NeedMore", res.Kind)
	}
}

func TestIsOursRecognizesConnectByte(t *testing.T) {
	d := NewDecoder()
	if !d.IsOurs(wire.NewBuffer([]byte{0x00})) {
		t.Errorf("IsOurs = false, want true")
	}
}

func TestIsOursRejectsGarbage(t *testing.T) {
	d := NewDecoder()
	if d.IsOurs(wire.NewBuffer([]byte{0xFF, 0xFE, 0xFD})) {
		t.Errorf("IsOurs = true, want false")
	}
}
