package message

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gojoyn/alljoyn/internal/wire"
)

// errBadEndian and errBadMessageType are the header-level malformed
// conditions from spec.md §4.2's validation step; decodeFixedHeader
// reports which one applies. The framing state machine refuses a buffer
// on either error (NotOurs) rather than draining it.
var (
	errBadEndian      = errors.New("message: invalid endian byte")
	errBadMessageType = errors.New("message: invalid message type")
)

// sentinel bytes a header field must carry between its code and its
// type code, and after its type code.
const (
	fieldSentinelOne byte = 0x01
	fieldSentinelTwo byte = 0x00
)

// Header is a decoded message's fixed prologue and header-field array.
type Header struct {
	Order     Endian
	Type      MessageType
	Flags     Flags
	Proto     byte
	BodyLen   uint32
	Serial    uint32
	FieldsLen uint32

	Fields []HeaderField

	// BodySignature is the SIGNATURE header field's value, or nil if
	// absent (an empty body).
	BodySignature []byte
	// Member is the MEMBER header field's string, if present.
	Member string

	// Info accumulates the diagnostic text for this message, in the
	// order the decoder reaches the fields: type, then member, then
	// reply-serial, then signature.
	Info string

	replySerialInfo string
}

// HeaderField is one decoded entry of a header's field array.
type HeaderField struct {
	Code         HeaderCode
	SentinelsBad bool
	Value        *Node
}

// decodeFixedHeader reads the 16-byte prologue at offset. It validates
// only what spec.md calls out as malformed-structural-field conditions
// for the prologue itself (bad endian byte, INVALID message type);
// length-vs-buffer checks belong to the framing state machine, which
// knows whether desegmentation is available.
func decodeFixedHeader(cur wire.Cursor, offset int) (*Header, int, error) {
	endianByte, _, err := cur.Byte(offset)
	if err != nil {
		return nil, offset, err
	}

	var order binary.ByteOrder
	switch Endian(endianByte) {
	case LittleEndian:
		order = binary.LittleEndian
	case BigEndian:
		order = binary.BigEndian
	default:
		return nil, offset, errBadEndian
	}
	cur.Order = order

	h := &Header{Order: Endian(endianByte)}

	typeByte, next, err := cur.Byte(offset + 1)
	if err != nil {
		return nil, offset, err
	}
	h.Type = MessageType(typeByte)
	if h.Type == TypeInvalid {
		return nil, offset, errBadMessageType
	}

	flagsByte, next, err := cur.Byte(offset + 2)
	if err != nil {
		return nil, offset, err
	}
	h.Flags = Flags(flagsByte)

	protoByte, next, err := cur.Byte(offset + 3)
	if err != nil {
		return nil, offset, err
	}
	h.Proto = protoByte

	h.BodyLen, next, err = cur.Uint32(offset + 4)
	if err != nil {
		return nil, offset, err
	}
	h.Serial, next, err = cur.Uint32(offset + 8)
	if err != nil {
		return nil, offset, err
	}
	h.FieldsLen, next, err = cur.Uint32(offset + 12)
	if err != nil {
		return nil, offset, err
	}

	h.Info = fmt.Sprintf("Message %010d: '%s'", h.Serial, h.Type.DisplayName())
	return h, next, nil
}

// decodeHeaderFields decodes the header-field array starting at offset
// (already positioned right after the 16-byte prologue, which is
// always 8-aligned) and running for h.FieldsLen bytes. Each field is
// [code, 0x01, type, 0x00, typed value, padding to 8]. A bad sentinel
// is a soft warning (spec.md §7 kind 4): the field still decodes.
func (d *Decoder) decodeHeaderFields(cur wire.Cursor, h *Header, offset int, emit Emitter) (next int, drained bool) {
	end := offset + int(h.FieldsLen)
	pos := offset

	for pos < end {
		start, _ := wire.Align(pos, 8)
		if cur.Remaining(start) < 4 {
			return cur.Buf.Reported, true
		}

		code, p, err := cur.Byte(start)
		if err != nil {
			return cur.Buf.Reported, true
		}
		sentinelOne, p, err := cur.Byte(p)
		if err != nil {
			return cur.Buf.Reported, true
		}
		typeCode, p, err := cur.Byte(p)
		if err != nil {
			return cur.Buf.Reported, true
		}
		sentinelTwo, p, err := cur.Byte(p)
		if err != nil {
			return cur.Buf.Reported, true
		}

		field := HeaderField{Code: HeaderCode(code)}
		field.SentinelsBad = sentinelOne != fieldSentinelOne || sentinelTwo != fieldSentinelTwo

		isReplyField := field.Code == HeaderReplySerial
		value, next, _, cdrained := d.decodeValue(cur, p, NewSignature([]byte{typeCode}), field.Code, isReplyField, emit, 0)
		field.Value = value
		h.Fields = append(h.Fields, field)

		if cdrained {
			return cur.Buf.Reported, true
		}

		switch {
		case field.Code == HeaderSignature && typeCode == tSignature && value != nil:
			h.BodySignature = value.Bytes
		case field.Code == HeaderMember && typeCode == tString && value != nil:
			h.Member = string(value.Bytes)
		case field.Code == HeaderReplySerial && typeCode == tUint32 && value != nil:
			h.replySerialInfo = fmt.Sprintf(" Replies to: %09d", value.Uint)
		}

		pos = next
	}

	// Compose the info-column text in the fixed order spec.md §5
	// requires: type, then member, then reply-serial, then signature,
	// regardless of what order the fields actually appeared on the
	// wire.
	if h.Member != "" {
		h.Info += " " + h.Member
	}
	h.Info += h.replySerialInfo
	if len(h.BodySignature) > 0 {
		h.Info += fmt.Sprintf(" (%s)", h.BodySignature)
	}

	return pos, false
}
