package message

import (
	"fmt"

	"github.com/gojoyn/alljoyn/internal/wire"
)

// Type codes understood by decodeValue.
const (
	tByte       = 'y'
	tBool       = 'b'
	tInt16      = 'n'
	tUint16     = 'q'
	tInt32      = 'i'
	tUint32     = 'u'
	tInt64      = 'x'
	tUint64     = 't'
	tDouble     = 'd'
	tString     = 's'
	tObjectPath = 'o'
	tSignature  = 'g'
	tHandle     = 'h'
	tArray      = 'a'
	tStruct     = '('
	tStructEnd  = ')'
	tDictEntry  = '{'
	tDictEnd    = '}'
	tVariant    = 'v'
)

// decodeValue decodes one complete type from the front of sig at
// offset, emitting a Node through emit. It returns the node, the
// offset immediately after the value, how many bytes of sig the value
// consumed (1 for a scalar or variant, the full bracketed span for a
// struct/dict-entry, 1+element-span for an array), and whether decoding
// hit a malformed structural field and drained the buffer.
//
// fieldCode and isReply are only meaningful for a header field's own
// top-level value: REPLY_SERIAL + UINT32 is annotated "Replies to: …".
// Recursive calls always pass HeaderInvalid/false.
func (d *Decoder) decodeValue(cur wire.Cursor, offset int, sig Signature, fieldCode HeaderCode, isReply bool, emit Emitter, depth int) (node *Node, next int, consumed int, drained bool) {
	if sig.Len() == 0 {
		return nil, offset, 0, false
	}
	if depth > d.maxDepth() {
		node = emit.Open(KindPrimitive, offset)
		node.AppendLabel("BAD DATA: signature nesting too deep")
		next = cur.Buf.Reported
		emit.Close(node, next)
		return node, next, sig.Len(), true
	}

	typeCode, _ := sig.Peek()
	switch typeCode {
	case tByte:
		return d.decodePrimitive(cur, offset, typeCode, 1, 1, emit, fieldCode, isReply)
	case tBool:
		return d.decodePrimitive(cur, offset, typeCode, 4, 4, emit, fieldCode, isReply)
	case tInt16, tUint16:
		return d.decodePrimitive(cur, offset, typeCode, 2, 2, emit, fieldCode, isReply)
	case tInt32, tUint32, tHandle:
		return d.decodePrimitive(cur, offset, typeCode, 4, 4, emit, fieldCode, isReply)
	case tInt64, tUint64, tDouble:
		return d.decodePrimitive(cur, offset, typeCode, 8, 8, emit, fieldCode, isReply)
	case tString, tObjectPath:
		return d.decodeString(cur, offset, typeCode, emit)
	case tSignature:
		return d.decodeSignature(cur, offset, emit)
	case tArray:
		return d.decodeArray(cur, offset, sig, emit, depth)
	case tStruct:
		return d.decodeContainer(cur, offset, sig, KindStruct, tStruct, tStructEnd, emit, depth)
	case tDictEntry:
		return d.decodeContainer(cur, offset, sig, KindDictEntry, tDictEntry, tDictEnd, emit, depth)
	case tVariant:
		return d.decodeVariant(cur, offset, emit, depth)
	default:
		node = emit.Open(KindPrimitive, offset)
		node.AppendLabel(fmt.Sprintf("BAD DATA: unknown type code %q", typeCode))
		next = cur.Buf.Reported
		emit.Close(node, next)
		return node, next, 1, true
	}
}

// decodePrimitive reads a fixed-width scalar after aligning to align.
func (d *Decoder) decodePrimitive(cur wire.Cursor, offset int, typeCode byte, align, width int, emit Emitter, fieldCode HeaderCode, isReply bool) (*Node, int, int, bool) {
	pos, _ := wire.Align(offset, align)
	node := emit.Open(KindPrimitive, pos)
	node.TypeCode = typeCode

	var err error
	switch width {
	case 1:
		var b byte
		b, offset, err = cur.Byte(pos)
		node.Uint = uint64(b)
	case 2:
		var u uint16
		u, offset, err = cur.Uint16(pos)
		node.Uint = uint64(u)
		if typeCode == tInt16 {
			node.Int = int64(int16(u))
		}
	case 4:
		var u uint32
		u, offset, err = cur.Uint32(pos)
		node.Uint = uint64(u)
		if typeCode == tInt32 {
			node.Int = int64(int32(u))
		}
	case 8:
		if typeCode == tDouble {
			node.Float, offset, err = cur.Float64(pos)
		} else {
			node.Uint, offset, err = cur.Uint64(pos)
			if typeCode == tInt64 {
				node.Int = int64(node.Uint)
			}
		}
	}
	if err != nil {
		node.AppendLabel(fmt.Sprintf("BAD DATA: truncated %c value", typeCode))
		drainedAt := cur.Buf.Reported
		emit.Close(node, drainedAt)
		return node, drainedAt, 1, true
	}

	if fieldCode == HeaderReplySerial && typeCode == tUint32 && isReply {
		node.AppendLabel(fmt.Sprintf("Replies to: %09d", node.Uint))
	}

	emit.Close(node, offset)
	return node, offset, 1, false
}

// decodeString decodes STRING or OBJECT_PATH: a 4-byte length followed
// by length+1 bytes (the content plus its terminating NUL).
func (d *Decoder) decodeString(cur wire.Cursor, offset int, typeCode byte, emit Emitter) (*Node, int, int, bool) {
	kind := KindString
	if typeCode == tObjectPath {
		kind = KindObjectPath
	}

	pos, _ := wire.Align(offset, 4)
	node := emit.Open(kind, pos)
	node.TypeCode = typeCode

	strLen, next, err := cur.Uint32(pos)
	if err != nil || int(strLen) > MaxArrayLen || cur.Remaining(next) < int(strLen)+1 {
		node.AppendLabel("BAD DATA: string length")
		drainedAt := cur.Buf.Reported
		emit.Close(node, drainedAt)
		return node, drainedAt, 1, true
	}

	b, next, err := cur.Bytes(next, int(strLen)+1)
	if err != nil {
		node.AppendLabel("BAD DATA: string content")
		drainedAt := cur.Buf.Reported
		emit.Close(node, drainedAt)
		return node, drainedAt, 1, true
	}
	node.Bytes = b[:strLen]

	emit.Close(node, next)
	return node, next, 1, false
}

// decodeSignature decodes SIGNATURE: a 1-byte length followed by
// length+1 bytes.
func (d *Decoder) decodeSignature(cur wire.Cursor, offset int, emit Emitter) (*Node, int, int, bool) {
	node := emit.Open(KindSignature, offset)
	node.TypeCode = tSignature

	sigLen, next, err := cur.Byte(offset)
	if err != nil || cur.Remaining(next) < int(sigLen)+1 {
		node.AppendLabel("BAD DATA: signature length")
		drainedAt := cur.Buf.Reported
		emit.Close(node, drainedAt)
		return node, drainedAt, 1, true
	}

	b, next, err := cur.Bytes(next, int(sigLen)+1)
	if err != nil {
		node.AppendLabel("BAD DATA: signature content")
		drainedAt := cur.Buf.Reported
		emit.Close(node, drainedAt)
		return node, drainedAt, 1, true
	}
	node.Bytes = b[:sigLen]

	emit.Close(node, next)
	return node, next, 1, false
}

// decodeArray decodes ARRAY: a 4-byte byte-length L followed by
// elements of the type immediately after "a" in sig, repeated while the
// consumed byte count is less than L.
func (d *Decoder) decodeArray(cur wire.Cursor, offset int, sig Signature, emit Emitter, depth int) (*Node, int, int, bool) {
	pos, _ := wire.Align(offset, 4)
	node := emit.Open(KindArray, pos)

	elem := sig.Advance(1)
	elemSpan, err := typeSpan(elem.Bytes())
	if err != nil {
		node.AppendLabel("BAD DATA: unbalanced array element signature")
		drainedAt := cur.Buf.Reported
		emit.Close(node, drainedAt)
		return node, drainedAt, sig.Len(), true
	}
	elemType, _ := elem.Peek()
	elemSig := NewSignature(elem.Bytes()[:elemSpan])

	length, next, err := cur.Uint32(pos)
	if err != nil || int(length) > MaxArrayLen || cur.Remaining(next) < int(length) {
		node.AppendLabel("BAD DATA: Array length")
		drainedAt := cur.Buf.Reported
		emit.Close(node, drainedAt)
		return node, drainedAt, 1 + elemSpan, true
	}

	elemAlign := alignmentOf(elemType)
	start, _ := wire.Align(next, elemAlign)

	count := 0
	pos = start
	for pos-start < int(length) {
		var cdrained bool
		_, pos, _, cdrained = d.decodeValue(cur, pos, elemSig, HeaderInvalid, false, emit, depth+1)
		count++
		if cdrained {
			drainedAt := cur.Buf.Reported
			node.AppendLabel(fmt.Sprintf("of %d %q elements", count, elemType))
			emit.Close(node, drainedAt)
			return node, drainedAt, 1 + elemSpan, true
		}
	}

	node.AppendLabel(fmt.Sprintf("of %d %q elements", count, elemType))
	emit.Close(node, pos)
	return node, pos, 1 + elemSpan, false
}

// decodeContainer decodes STRUCT or DICT_ENTRY: align to 8, then decode
// each contained type in turn until the matching close bracket.
func (d *Decoder) decodeContainer(cur wire.Cursor, offset int, sig Signature, kind Kind, open, closeByte byte, emit Emitter, depth int) (*Node, int, int, bool) {
	span, err := typeSpan(sig.Bytes())
	if err != nil {
		node := emit.Open(kind, offset)
		node.AppendLabel("BAD DATA: unbalanced " + string(open) + " signature")
		drainedAt := cur.Buf.Reported
		emit.Close(node, drainedAt)
		return node, drainedAt, sig.Len(), true
	}
	inner := NewSignature(sig.Bytes()[1 : span-1])

	pos, _ := wire.Align(offset, 8)
	node := emit.Open(kind, pos)
	node.Signature = string(sig.Bytes()[:span])

	remaining := inner
	for remaining.Len() > 0 {
		_, next, consumed, cdrained := d.decodeValue(cur, pos, remaining, HeaderInvalid, false, emit, depth+1)
		pos = next
		if cdrained {
			drainedAt := cur.Buf.Reported
			emit.Close(node, drainedAt)
			return node, drainedAt, span, true
		}
		remaining = remaining.Advance(consumed)
	}

	emit.Close(node, pos)
	return node, pos, span, false
}

// decodeVariant decodes VARIANT: a signature value (1-byte length form)
// followed by a value of that signature. Per the Open Question on
// variant over-length in DESIGN.md, a variant whose captured signature
// or contained value would overrun the buffer is clamped and treated as
// complete rather than failing the whole pass — mirrors the original
// dissector's behavior verbatim.
//
// TODO: confirm whether this leniency is intentional or an oversight in
// the implementation it was ported from; until then it is kept as-is.
func (d *Decoder) decodeVariant(cur wire.Cursor, offset int, emit Emitter, depth int) (*Node, int, int, bool) {
	node := emit.Open(KindVariant, offset)

	sigLen, next, err := cur.Byte(offset)
	if err != nil || cur.Remaining(next) < int(sigLen)+1 {
		node.AppendLabel("BAD DATA: variant signature overran buffer")
		clamped := cur.Buf.Reported
		emit.Close(node, clamped)
		return node, clamped, 1, false
	}

	b, next, err := cur.Bytes(next, int(sigLen)+1)
	if err != nil {
		node.AppendLabel("BAD DATA: variant signature overran buffer")
		clamped := cur.Buf.Reported
		emit.Close(node, clamped)
		return node, clamped, 1, false
	}
	innerSig := b[:sigLen]
	node.Signature = string(innerSig)
	node.AppendLabel(string(innerSig) + "'")

	pos := next
	remaining := NewSignature(innerSig)
	for remaining.Len() > 0 {
		_, nextPos, consumed, cdrained := d.decodeValue(cur, pos, remaining, HeaderInvalid, false, emit, depth+1)
		pos = nextPos
		if cdrained {
			node.AppendLabel("BAD DATA: variant value overran buffer")
			pos = cur.Buf.Reported
			break
		}
		remaining = remaining.Advance(consumed)
	}

	emit.Close(node, pos)
	return node, pos, 1, false
}

// alignmentOf returns the alignment width for a type code, per the
// alignment table: 1 for BYTE/SIGNATURE, 2 for INT16/UINT16, 4 for
// BOOLEAN/INT32/UINT32/HANDLE/STRING/OBJECT_PATH/ARRAY, 8 for
// INT64/UINT64/DOUBLE/STRUCT/DICT_ENTRY, 1 for VARIANT.
func alignmentOf(typeCode byte) int {
	switch typeCode {
	case tInt16, tUint16:
		return 2
	case tBool, tInt32, tUint32, tHandle, tString, tObjectPath, tArray:
		return 4
	case tInt64, tUint64, tDouble, tStruct, tDictEntry:
		return 8
	default:
		return 1
	}
}
