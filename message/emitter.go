package message

// Kind tags the shape of a decoded Node.
type Kind int

// Node kinds, matching the tagged union in the data model: primitives,
// the two NUL-terminated string forms, a signature value, and the four
// container shapes.
const (
	KindPrimitive Kind = iota
	KindString
	KindObjectPath
	KindSignature
	KindArray
	KindStruct
	KindDictEntry
	KindVariant
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindString:
		return "string"
	case KindObjectPath:
		return "object-path"
	case KindSignature:
		return "signature"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindDictEntry:
		return "dict-entry"
	case KindVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// Node is a decoded value. It carries the byte range it occupies in the
// source buffer and, depending on Kind, a scalar value, raw bytes, an
// inner signature, or children.
type Node struct {
	Kind     Kind
	TypeCode byte
	Start    int
	End      int

	// Label accumulates the display text a caller appends via
	// AppendLabel, e.g. an array's element count or a variant's
	// inner-signature text.
	Label string

	// Signature holds a container's balanced sub-signature text (e.g.
	// "(si)") or a variant's inner signature.
	Signature string

	// Bytes holds the raw payload for string, object-path, and
	// signature nodes.
	Bytes []byte

	// Uint holds the numeric value of an unsigned/boolean/handle
	// primitive; Int the value of a signed primitive; Float the value
	// of a double. Which one is meaningful depends on TypeCode.
	Uint  uint64
	Int   int64
	Float float64

	Children []*Node

	parent *Node
}

// AppendLabel appends text to the node's display label, separated by a
// space from whatever is already there.
func (n *Node) AppendLabel(text string) {
	if text == "" {
		return
	}
	if n.Label == "" {
		n.Label = text
		return
	}
	n.Label += " " + text
}

// AddChild appends a fully-closed child node.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// Close records the node's end offset. Callers that got the node from
// an Emitter must call Close exactly once, after which the node must
// not be mutated further except via AddChild for a still-open parent.
func (n *Node) Close(end int) {
	n.End = end
}

// Emitter is the tree-building capability the typed-value decoder emits
// through. It stands in for a host packet-analysis framework's
// "add subtree / add item" calls, decoupling the decoder from any
// particular display framework.
type Emitter interface {
	// Open starts a new node of the given kind at the given start
	// offset. If a node is already open on this Emitter, the new node
	// becomes its child once Close is called.
	Open(kind Kind, start int) *Node
	// Close finalizes a node previously returned by Open, most
	// recently opened first.
	Close(n *Node, end int)
}

// TreeEmitter builds an in-memory Node tree, rooted at Root once the
// outermost Open/Close pair has completed.
type TreeEmitter struct {
	stack []*Node
	Root  *Node
}

// Open implements Emitter.
func (e *TreeEmitter) Open(kind Kind, start int) *Node {
	n := &Node{Kind: kind, Start: start}
	if len(e.stack) > 0 {
		n.parent = e.stack[len(e.stack)-1]
	}
	e.stack = append(e.stack, n)
	return n
}

// Close finalizes n, attaching it to its parent (or recording it as
// Root if it has none). It must be called for every Node returned by
// Open, most-recently-opened first.
func (e *TreeEmitter) Close(n *Node, end int) {
	n.Close(end)
	if len(e.stack) > 0 && e.stack[len(e.stack)-1] == n {
		e.stack = e.stack[:len(e.stack)-1]
	}
	if n.parent != nil {
		n.parent.AddChild(n)
	} else {
		e.Root = n
	}
}

// NullEmitter discards every node it opens. It backs the
// protocol-identification probe, which must run the decoders without
// building any display state.
type NullEmitter struct{}

// Open implements Emitter. The returned Node is never attached anywhere;
// it exists only so decode code has somewhere to write a label.
func (NullEmitter) Open(kind Kind, start int) *Node {
	return &Node{Kind: kind, Start: start}
}

// Close implements Emitter. It records End for completeness but the
// node is discarded immediately afterward.
func (NullEmitter) Close(n *Node, end int) {
	n.Close(end)
}
