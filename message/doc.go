// Package message implements the AllJoyn Message Protocol: the
// connect-byte and SASL exchange that opens a connection, and the
// D-Bus-derived binary message format of method calls, replies,
// errors, and signals that follows it.
//
// The entry point is Decoder.Dispatch, which classifies and decodes one
// buffer at a time and reports back through Result how many bytes were
// consumed, whether more are needed, or whether the buffer had to be
// drained because of malformed input.
package message
