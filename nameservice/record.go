package nameservice

import (
	"encoding/binary"
	"fmt"

	"github.com/gojoyn/alljoyn/internal/wire"
	"github.com/gojoyn/alljoyn/message"
)

// HeaderLength is the fixed size of the version/counts/timer prologue.
const HeaderLength = 4

// Header is the decoded 4-byte name-service prologue.
type Header struct {
	SenderVersion  byte
	MessageVersion byte
	NQuestions     byte
	NAnswers       byte
	Timer          byte
}

// Decode reads one name-service packet starting at offset: the 4-byte
// header, then NQuestions WHO-HAS records, then NAnswers IS-AT records
// in the layout the message version selects. There is no
// desegmentation concern here (each call covers one datagram): a buffer
// shorter than the header is NotOurs, and every other outcome is
// Consumed or Drained.
func Decode(buf wire.Buffer, offset int, emit message.Emitter) message.Result {
	cur := wire.NewCursor(buf, binary.BigEndian)

	if cur.Remaining(offset) < HeaderLength {
		return message.Result{Kind: message.NotOurs}
	}

	root := emit.Open(message.KindStruct, offset)
	root.Signature = ProtocolLabel

	versionByte, pos, err := cur.Byte(offset)
	if err != nil {
		emit.Close(root, cur.Buf.Reported)
		return message.Result{Kind: message.NotOurs}
	}
	h := Header{SenderVersion: versionByte >> 4, MessageVersion: versionByte & 0x0F}

	h.NQuestions, pos, _ = cur.Byte(pos)
	h.NAnswers, pos, _ = cur.Byte(pos)
	h.Timer, pos, _ = cur.Byte(pos)

	info := fmt.Sprintf("VERSION %d", h.MessageVersion)
	if h.MessageVersion > 1 {
		info = fmt.Sprintf("VERSION %d UNSUPPORTED", h.MessageVersion)
	}
	if h.NAnswers > 0 {
		info += " ISAT"
	}
	if h.NQuestions > 0 {
		info += " WHOHAS"
	}

	if h.MessageVersion > 1 {
		root.AppendLabel(info)
		emit.Close(root, pos)
		return message.Result{Kind: message.Consumed, N: pos - offset, Info: info, Root: root}
	}

	var drained bool
	for i := byte(0); i < h.NQuestions; i++ {
		pos, drained = decodeWhoHas(cur, pos, emit)
		if drained {
			root.AppendLabel(info)
			root.AppendLabel("BAD DATA: WHO-HAS record")
			emit.Close(root, cur.Buf.Reported)
			return message.Result{Kind: message.Drained, N: cur.Buf.Reported - offset, Info: root.Label, Root: root}
		}
	}

	for i := byte(0); i < h.NAnswers; i++ {
		if h.MessageVersion == 0 {
			pos, drained = decodeIsAtV0(cur, pos, emit)
		} else {
			pos, drained = decodeIsAtV1(cur, pos, emit)
		}
		if drained {
			root.AppendLabel(info)
			root.AppendLabel("BAD DATA: IS-AT record")
			emit.Close(root, cur.Buf.Reported)
			return message.Result{Kind: message.Drained, N: cur.Buf.Reported - offset, Info: root.Label, Root: root}
		}
	}

	root.AppendLabel(info)
	emit.Close(root, pos)
	return message.Result{Kind: message.Consumed, N: pos - offset, Info: info, Root: root}
}

// decodeBusNames reads count length-prefixed ASCII bus names into
// children of node, starting at pos.
func decodeBusNames(cur wire.Cursor, pos int, count byte, emit message.Emitter) (int, bool) {
	for i := byte(0); i < count; i++ {
		length, next, err := cur.Byte(pos)
		if err != nil || cur.Remaining(next) < int(length) {
			return cur.Buf.Reported, true
		}
		b, next, err := cur.Bytes(next, int(length))
		if err != nil {
			return cur.Buf.Reported, true
		}
		node := emit.Open(message.KindString, pos)
		node.Bytes = b
		node.AppendLabel("bus name")
		emit.Close(node, next)
		pos = next
	}
	return pos, false
}

// decodeWhoHas reads one WHO-HAS record: a flags byte (meaningful only
// in v0; v1 reserves and zeros it, per nameservice's documented open
// question, so neither version distinguishes its bits here), a count
// byte, then that many bus names.
func decodeWhoHas(cur wire.Cursor, offset int, emit message.Emitter) (int, bool) {
	node := emit.Open(message.KindStruct, offset)
	node.AppendLabel("WHO-HAS")

	_, pos, err := cur.Byte(offset)
	if err != nil {
		emit.Close(node, cur.Buf.Reported)
		return cur.Buf.Reported, true
	}

	count, pos, err := cur.Byte(pos)
	if err != nil {
		emit.Close(node, cur.Buf.Reported)
		return cur.Buf.Reported, true
	}

	next, drained := decodeBusNames(cur, pos, count, emit)
	emit.Close(node, next)
	return next, drained
}

// decodeIsAtV0 reads one version-0 IS-AT record.
func decodeIsAtV0(cur wire.Cursor, offset int, emit message.Emitter) (int, bool) {
	node := emit.Open(message.KindStruct, offset)
	node.AppendLabel("IS-AT")

	flags, pos, err := cur.Byte(offset)
	if err != nil {
		emit.Close(node, cur.Buf.Reported)
		return cur.Buf.Reported, true
	}
	count, pos, err := cur.Byte(pos)
	if err != nil {
		emit.Close(node, cur.Buf.Reported)
		return cur.Buf.Reported, true
	}
	_, pos, err = cur.Uint16(pos) // port
	if err != nil {
		emit.Close(node, cur.Buf.Reported)
		return cur.Buf.Reported, true
	}

	if flags&isAtV0FlagS != 0 {
		var b []byte
		b, pos, err = cur.Bytes(pos, 16)
		if err != nil {
			emit.Close(node, cur.Buf.Reported)
			return cur.Buf.Reported, true
		}
		child := emit.Open(message.KindPrimitive, pos-16)
		child.Bytes = b
		child.AppendLabel("IPv6")
		emit.Close(child, pos)
	}
	if flags&isAtV0FlagF != 0 {
		var b []byte
		b, pos, err = cur.Bytes(pos, 4)
		if err != nil {
			emit.Close(node, cur.Buf.Reported)
			return cur.Buf.Reported, true
		}
		child := emit.Open(message.KindPrimitive, pos-4)
		child.Bytes = b
		child.AppendLabel("IPv4")
		emit.Close(child, pos)
	}
	if flags&isAtV0FlagG != 0 {
		var drained bool
		pos, drained = decodeGUID(cur, pos, emit)
		if drained {
			emit.Close(node, cur.Buf.Reported)
			return cur.Buf.Reported, true
		}
	}

	next, drained := decodeBusNames(cur, pos, count, emit)
	emit.Close(node, next)
	return next, drained
}

// decodeIsAtV1 reads one version-1 IS-AT record, including the
// transport-mask bitfield and the conditional R4/U4/R6/U6 endpoint
// fields.
func decodeIsAtV1(cur wire.Cursor, offset int, emit message.Emitter) (int, bool) {
	node := emit.Open(message.KindStruct, offset)
	node.AppendLabel("IS-AT")

	flags, pos, err := cur.Byte(offset)
	if err != nil {
		emit.Close(node, cur.Buf.Reported)
		return cur.Buf.Reported, true
	}
	count, pos, err := cur.Byte(pos)
	if err != nil {
		emit.Close(node, cur.Buf.Reported)
		return cur.Buf.Reported, true
	}
	maskValue, pos, err := cur.Uint16(pos)
	if err != nil {
		emit.Close(node, cur.Buf.Reported)
		return cur.Buf.Reported, true
	}
	mask := TransportMask(maskValue)
	node.AppendLabel(mask.String())

	readEndpoint := func(addrLen int, label string) bool {
		var b []byte
		b, pos, err = cur.Bytes(pos, addrLen)
		if err != nil {
			return true
		}
		var port uint16
		port, pos, err = cur.Uint16(pos)
		if err != nil {
			return true
		}
		child := emit.Open(message.KindPrimitive, pos-addrLen-2)
		child.Bytes = b
		child.Uint = uint64(port)
		child.AppendLabel(label)
		emit.Close(child, pos)
		return false
	}

	if flags&isAtV1FlagR4 != 0 {
		if readEndpoint(4, "reliable IPv4") {
			emit.Close(node, cur.Buf.Reported)
			return cur.Buf.Reported, true
		}
	}
	if flags&isAtV1FlagU4 != 0 {
		if readEndpoint(4, "unreliable IPv4") {
			emit.Close(node, cur.Buf.Reported)
			return cur.Buf.Reported, true
		}
	}
	if flags&isAtV1FlagR6 != 0 {
		if readEndpoint(16, "reliable IPv6") {
			emit.Close(node, cur.Buf.Reported)
			return cur.Buf.Reported, true
		}
	}
	if flags&isAtV1FlagU6 != 0 {
		if readEndpoint(16, "unreliable IPv6") {
			emit.Close(node, cur.Buf.Reported)
			return cur.Buf.Reported, true
		}
	}
	if flags&isAtV1FlagG != 0 {
		var drained bool
		pos, drained = decodeGUID(cur, pos, emit)
		if drained {
			emit.Close(node, cur.Buf.Reported)
			return cur.Buf.Reported, true
		}
	}

	next, drained := decodeBusNames(cur, pos, count, emit)
	emit.Close(node, next)
	return next, drained
}

// decodeGUID reads a length-prefixed ASCII daemon GUID string.
func decodeGUID(cur wire.Cursor, pos int, emit message.Emitter) (int, bool) {
	length, next, err := cur.Byte(pos)
	if err != nil || cur.Remaining(next) < int(length) {
		return cur.Buf.Reported, true
	}
	b, next, err := cur.Bytes(next, int(length))
	if err != nil {
		return cur.Buf.Reported, true
	}
	node := emit.Open(message.KindString, pos)
	node.Bytes = b
	node.AppendLabel("GUID")
	emit.Close(node, next)
	return next, false
}
