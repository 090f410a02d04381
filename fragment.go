package imap

// FragmentKind describes when a Fragment may be sent.
type FragmentKind int

const (
	// FragmentLine can be sent right away.
	FragmentLine FragmentKind = iota
	// FragmentLiteral holds the data of a synchronizing literal. It must only
	// be sent after the peer has answered the preceding FragmentLine with a
	// continuation request.
	FragmentLiteral
)

func (kind FragmentKind) String() string {
	switch kind {
	case FragmentLine:
		return "line"
	case FragmentLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Fragment is a piece of an encoded message.
type Fragment struct {
	Kind FragmentKind
	Data []byte
}
