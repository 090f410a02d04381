package imap

// Greeting is the first response sent by a server on a new connection.
//
// Kind is StatusResponseTypeOK, StatusResponseTypePreAuth or
// StatusResponseTypeBye.
type Greeting struct {
	Kind StatusResponseType
	Code Code // optional
	Text string
}

// NewGreeting creates a greeting, checking that the kind and text are
// valid.
func NewGreeting(kind StatusResponseType, code Code, text string) (*Greeting, error) {
	switch kind {
	case StatusResponseTypeOK, StatusResponseTypePreAuth, StatusResponseTypeBye:
		// ok
	default:
		return nil, &ValidationError{Field: "kind", Value: string(kind), Reason: "must be OK, PREAUTH or BYE"}
	}
	if err := checkText(text); err != nil {
		return nil, err
	}
	if other, ok := code.(CodeOther); ok {
		if _, err := NewCodeOther(other.Code, other.Text); err != nil {
			return nil, err
		}
	}
	return &Greeting{Kind: kind, Code: code, Text: text}, nil
}
