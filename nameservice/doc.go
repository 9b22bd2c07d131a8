// Package nameservice implements the AllJoyn Name Service Protocol: a
// compact discovery format carrying WHO-HAS questions and IS-AT answers
// in two wire versions, used for bus-name discovery ahead of a Message
// Protocol connection.
//
// It reuses message.Node, message.Emitter, and message.Result so a host
// can treat both protocols' decoders the same way; the decoder itself
// has no dependency the other direction.
package nameservice
