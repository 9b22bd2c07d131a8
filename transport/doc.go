// Package transport wires the Message and Name Service decoders to
// real sockets. It owns TCP/UDP listeners and IPv4/IPv6 multicast
// group membership, reads bytes off the wire, and hands them to
// message.Dispatch or nameservice.Decode — standing in for the host
// packet-analysis framework the decoder packages are otherwise
// independent of.
package transport
