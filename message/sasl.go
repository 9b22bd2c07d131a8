package message

import "bytes"

// SASL commands recognized at the start of a connection, before any
// binary message is exchanged. Longest-prefix matching isn't needed:
// every command is distinguishable by its first byte, as spec.md §4.1
// notes.
var saslCommands = [][]byte{
	[]byte("AUTH"),
	[]byte("CANCEL"),
	[]byte("BEGIN"),
	[]byte("DATA"),
	[]byte("ERROR"),
	[]byte("REJECTED"),
	[]byte("OK"),
}

// MaxSASLCommandLength is the length of the longest command plus one.
var MaxSASLCommandLength = len(longestSASLCommand()) + 1

// MaxSASLPacketLength bounds how much of a buffer is worth scanning for
// a SASL line terminator before giving up.
var MaxSASLPacketLength = MaxSASLCommandLength + 256

func longestSASLCommand() []byte {
	longest := saslCommands[0]
	for _, c := range saslCommands[1:] {
		if len(c) > len(longest) {
			longest = c
		}
	}
	return longest
}

// matchSASLCommand reports whether data at offset begins with a known
// SASL command, returning the matched command's name.
func matchSASLCommand(data []byte, offset int) (name string, ok bool) {
	rest := data[offset:]
	for _, cmd := range saslCommands {
		if bytes.HasPrefix(rest, cmd) {
			return string(cmd), true
		}
	}
	return "", false
}

// findLineEnd returns the offset of the first '\n' at or after offset,
// or -1 if none is captured.
func findLineEnd(data []byte, offset int) int {
	idx := bytes.IndexByte(data[offset:], '\n')
	if idx < 0 {
		return -1
	}
	return offset + idx
}
