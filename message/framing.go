package message

import (
	"encoding/binary"

	"github.com/gojoyn/alljoyn/internal/wire"
)

// ResultKind tags which of the four shapes a Dispatch call returned,
// replacing the original dissector's overloaded integer return plus a
// side-channel desegmentation flag (spec.md §9).
type ResultKind int

const (
	// NotOurs means the buffer at the starting offset isn't the
	// start of anything this decoder recognizes.
	NotOurs ResultKind = iota
	// NeedMore means a partial connect/SASL/message was recognized
	// but more bytes are required before it can be decoded; From is
	// the offset a resumed call should start from.
	NeedMore
	// Consumed means bytes starting at the call's offset were fully
	// decoded; N is how many.
	Consumed
	// Drained means decoding hit a malformed structural field and
	// gave up on the rest of the buffer; N is the number of bytes from
	// the call's offset up to the reported length the cursor was
	// clamped to.
	Drained
)

// Result is what Dispatch returns for one pass over a buffer.
type Result struct {
	Kind ResultKind
	From int
	N    int
	Info string
	Root *Node
}

func resultNotOurs() Result            { return Result{Kind: NotOurs} }
func resultNeedMore(from int) Result   { return Result{Kind: NeedMore, From: from} }
func resultConsumed(n int, info string, root *Node) Result {
	return Result{Kind: Consumed, N: n, Info: info, Root: root}
}
func resultDrained(n int, info string, root *Node) Result {
	return Result{Kind: Drained, N: n, Info: info, Root: root}
}

// Dispatch decides whether the bytes in buf starting at offset are a
// connect byte, a SASL line, or a binary message, and decodes
// accordingly. allowDesegmentation tells Dispatch whether it may ask
// for more bytes (true for a stream transport like TCP) or must treat
// a short buffer as final (false for a single UDP datagram).
func (d *Decoder) Dispatch(buf wire.Buffer, offset int, emit Emitter, allowDesegmentation bool) Result {
	if offset >= len(buf.Data) {
		return resultNotOurs()
	}

	if buf.Data[offset] == 0x00 {
		node := emit.Open(KindPrimitive, offset)
		node.AppendLabel("CONNECT-initial byte")
		emit.Close(node, offset+1)
		return resultConsumed(1, "CONNECT-initial byte", node)
	}

	if cmd, ok := matchSASLCommand(buf.Data, offset); ok {
		end := findLineEnd(buf.Data, offset)
		if end < 0 {
			if allowDesegmentation && len(buf.Data)-offset <= MaxSASLPacketLength {
				return resultNeedMore(offset)
			}
			return resultNotOurs()
		}

		node := emit.Open(KindString, offset)
		node.AppendLabel("SASL-" + cmd)
		cmdNode := emit.Open(KindString, offset)
		cmdNode.Bytes = buf.Data[offset : offset+len(cmd)]
		emit.Close(cmdNode, offset+len(cmd))

		paramNode := emit.Open(KindString, offset+len(cmd))
		paramNode.Bytes = buf.Data[offset+len(cmd) : end+1]
		emit.Close(paramNode, end+1)

		emit.Close(node, end+1)
		return resultConsumed(end+1-offset, "SASL-"+cmd, node)
	}

	return d.dispatchMessage(buf, offset, emit, allowDesegmentation)
}

// dispatchMessage handles the binary message case: §4.2's header
// validation and desegmentation check, then the body via the
// typed-value decoder.
func (d *Decoder) dispatchMessage(buf wire.Buffer, offset int, emit Emitter, allowDesegmentation bool) Result {
	cur := wire.NewCursor(buf, nil)

	remaining := cur.Remaining(offset)
	if remaining < MessageHeaderLength {
		if allowDesegmentation {
			return resultNeedMore(offset)
		}
		return resultNotOurs()
	}

	h, _, err := decodeFixedHeader(cur, offset)
	if err != nil {
		// Not recognizable as a message header at all: refuse rather
		// than drain, so a caller trying several protocols in turn
		// can move on.
		return resultNotOurs()
	}
	cur.Order = h.Order.ByteOrder()

	if remaining > MaxPacketLen {
		node := emit.Open(KindStruct, offset)
		node.AppendLabel("BAD DATA: message exceeds MAX_PACKET_LEN")
		emit.Close(node, buf.Reported)
		return resultDrained(buf.Reported-offset, node.Label, node)
	}

	fieldsEnd, _ := wire.Align(int(h.FieldsLen), 8)
	totalLen := MessageHeaderLength + fieldsEnd + int(h.BodyLen)
	if totalLen > remaining {
		if allowDesegmentation {
			return resultNeedMore(offset)
		}
		node := emit.Open(KindStruct, offset)
		node.AppendLabel("BAD DATA: message truncated")
		emit.Close(node, buf.Reported)
		return resultDrained(buf.Reported-offset, node.Label, node)
	}

	root := emit.Open(KindStruct, offset)
	root.Signature = h.Type.String()

	fieldsStart := offset + MessageHeaderLength
	pos, drained := d.decodeHeaderFields(cur, h, fieldsStart, emit)
	if drained {
		root.AppendLabel(h.Info)
		root.AppendLabel("BAD DATA: header fields")
		emit.Close(root, buf.Reported)
		return resultDrained(buf.Reported-offset, root.Label, root)
	}

	bodyStart, _ := wire.Align(pos, 8)
	bodyEnd := bodyStart + int(h.BodyLen)

	if h.BodyLen > 0 && len(h.BodySignature) > 0 {
		sig := NewSignature(h.BodySignature)
		bpos := bodyStart
		for sig.Len() > 0 {
			_, next, consumed, cdrained := d.decodeValue(cur, bpos, sig, HeaderInvalid, false, emit, 0)
			bpos = next
			if cdrained {
				root.AppendLabel(h.Info)
				root.AppendLabel("BAD DATA: body")
				emit.Close(root, buf.Reported)
				return resultDrained(buf.Reported-offset, root.Label, root)
			}
			sig = sig.Advance(consumed)
		}
		bodyEnd = bpos
	}

	root.AppendLabel(h.Info)
	emit.Close(root, bodyEnd)
	return resultConsumed(bodyEnd-offset, h.Info, root)
}

// ByteOrder maps an Endian flag to the binary.ByteOrder it represents.
func (e Endian) ByteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// IsOurs runs the protocol-identification probe (spec.md §4.1): it
// invokes Dispatch with a NullEmitter at offset 0 and reports whether
// anything was recognized.
func (d *Decoder) IsOurs(buf wire.Buffer) bool {
	res := d.Dispatch(buf, 0, NullEmitter{}, false)
	return res.Kind == Consumed || res.Kind == Drained
}
