package message

import "errors"

var (
	errEmptySignature      = errors.New("message: empty signature")
	errUnbalancedSignature = errors.New("message: unbalanced signature")
)

// Signature is a read-only view into a type-signature string, advanced
// one complete type at a time. It is a value type: every step returns a
// new Signature rather than mutating through a pointer, matching
// spec.md's "pass by value and return the advanced cursor" guidance for
// recursive decoders.
type Signature struct {
	s []byte
}

// NewSignature wraps a signature string for stepping.
func NewSignature(s []byte) Signature {
	return Signature{s: s}
}

// Len returns the number of bytes remaining.
func (s Signature) Len() int {
	return len(s.s)
}

// Bytes returns the remaining raw signature bytes.
func (s Signature) Bytes() []byte {
	return s.s
}

// Peek returns the next type code without consuming it.
func (s Signature) Peek() (byte, bool) {
	if len(s.s) == 0 {
		return 0, false
	}
	return s.s[0], true
}

// Advance drops the first n bytes.
func (s Signature) Advance(n int) Signature {
	if n > len(s.s) {
		n = len(s.s)
	}
	return Signature{s: s.s[n:]}
}

// typeSpan returns the number of bytes the complete type starting at
// sig[0] occupies: 1 for a scalar or variant code, 1+span(rest) for an
// array (the "a" plus its element type), and the full bracketed extent
// for a struct or dict-entry. Arrays of containers ("a(si)") recurse
// through the array case into the container case.
func typeSpan(sig []byte) (int, error) {
	if len(sig) == 0 {
		return 0, errEmptySignature
	}

	switch sig[0] {
	case '(':
		return spanContainer(sig, '(', ')')
	case '{':
		return spanContainer(sig, '{', '}')
	case 'a':
		n, err := typeSpan(sig[1:])
		if err != nil {
			return 0, err
		}
		return 1 + n, nil
	default:
		return 1, nil
	}
}

// spanContainer scans sig, which must begin with open, for the matching
// close at the same nesting depth, returning the byte length of the
// bracketed group including both brackets.
func spanContainer(sig []byte, open, close byte) (int, error) {
	depth := 0
	for i, b := range sig {
		switch b {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, errUnbalancedSignature
}
