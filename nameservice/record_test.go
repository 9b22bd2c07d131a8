package nameservice

import (
	"testing"

	"github.com/gojoyn/alljoyn/internal/wire"
	"github.com/gojoyn/alljoyn/message"
)

func TestDecodeIsAtV1WithR4Transport(t *testing.T) {
	data := []byte{
		0x01,       // version: sender 0, message 1
		0x00,       // nQuestions
		0x01,       // nAnswers
		0x00,       // timer
		0x08,       // IS-AT flags: R4
		0x01,       // count
		0x00, 0x04, // transport mask: TCP
		192, 168, 1, 2, // IPv4
		0x26, 0xe3, // port 9955
		5, 'h', 'e', 'l', 'l', 'o',
	}

	emit := &message.TreeEmitter{}
	res := Decode(wire.NewBuffer(data), 0, emit)

	if res.Kind != message.Consumed {
		t.Fatalf("Kind = %v, want Consumed", res.Kind)
	}
	want := "VERSION 1 ISAT"
	if res.Info != want {
		t.Errorf("Info = %q, want %q", res.Info, want)
	}
	if res.N != len(data) {
		t.Errorf("N = %d, want %d", res.N, len(data))
	}
}

func TestDecodeWhoHasOnly(t *testing.T) {
	data := []byte{
		0x00, // version: sender 0, message 0
		0x01, // nQuestions
		0x00, // nAnswers
		0x00, // timer
		0x00, // WHO-HAS flags
		0x01, // count
		3, 'F', 'o', 'o',
	}

	emit := &message.TreeEmitter{}
	res := Decode(wire.NewBuffer(data), 0, emit)

	if res.Kind != message.Consumed {
		t.Fatalf("Kind = %v, want Consumed", res.Kind)
	}
	if res.Info != "VERSION 0 WHOHAS" {
		t.Errorf("Info = %q, want %q", res.Info, "VERSION 0 WHOHAS")
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	data := []byte{0x0F, 0x00, 0x00, 0x00} // message version 15
	emit := &message.TreeEmitter{}
	res := Decode(wire.NewBuffer(data), 0, emit)

	if res.Kind != message.Consumed {
		t.Fatalf("Kind = %v, want Consumed", res.Kind)
	}
	if res.Info != "VERSION 15 UNSUPPORTED" {
		t.Errorf("Info = %q, want %q", res.Info, "VERSION 15 UNSUPPORTED")
	}
}

func TestDecodeIsAtV0WithIPv4AndGUID(t *testing.T) {
	data := []byte{
		0x00, // version 0
		0x00, // nQuestions
		0x01, // nAnswers
		0x00, // timer
		0x20 | 0x01, // IS-AT flags: G | F
		0x01,        // count
		0x26, 0xe3,  // port
		10, 20, 30, 40, // IPv4
		4, 'g', 'u', 'i', 'd',
		3, 'B', 'a', 'r',
	}

	emit := &message.TreeEmitter{}
	res := Decode(wire.NewBuffer(data), 0, emit)

	if res.Kind != message.Consumed {
		t.Fatalf("Kind = %v, want Consumed", res.Kind)
	}
	if res.N != len(data) {
		t.Errorf("N = %d, want %d", res.N, len(data))
	}
}

func TestDecodeTruncatedWhoHasDrains(t *testing.T) {
	data := []byte{0x00, 0x01, 0x00, 0x00, 0x00} // flags byte present, count byte missing
	emit := &message.TreeEmitter{}
	res := Decode(wire.NewBuffer(data), 0, emit)

	if res.Kind != message.Drained {
		t.Fatalf("Kind = %v, want Drained", res.Kind)
	}
}
