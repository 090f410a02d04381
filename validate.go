package imap

import (
	"fmt"

	"github.com/emersion/go-imap-codec/internal/imapwire"
)

// ValidationError is returned when a value doesn't satisfy the IMAP grammar.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("imap: invalid %v %q: %v", err.Field, err.Value, err.Reason)
}

// NewTag checks that s is a valid command tag.
func NewTag(s string) (string, error) {
	if s == "" {
		return "", &ValidationError{Field: "tag", Value: s, Reason: "must not be empty"}
	}
	for i := 0; i < len(s); i++ {
		if !imapwire.IsTagChar(s[i]) {
			return "", &ValidationError{Field: "tag", Value: s, Reason: fmt.Sprintf("invalid character %q", s[i])}
		}
	}
	return s, nil
}

// NewAtom checks that s is a valid atom.
func NewAtom(s string) (string, error) {
	if !imapwire.IsAtom(s) {
		return "", &ValidationError{Field: "atom", Value: s, Reason: "must be a non-empty run of ATOM-CHAR"}
	}
	return s, nil
}

// NewFlag checks that s is a valid message flag: a keyword atom, or an atom
// prefixed with a backslash. The wildcard "\*" is rejected, use FlagWildcard.
func NewFlag(s string) (Flag, error) {
	f := Flag(s)
	name := s
	if f.IsSystem() {
		name = s[1:]
	}
	if !imapwire.IsAtom(name) {
		return "", &ValidationError{Field: "flag", Value: s, Reason: "must be an atom with an optional leading backslash"}
	}
	return f, nil
}

// NewText checks that s is a valid human-readable text, as found in status
// responses.
func NewText(s string) (string, error) {
	if err := checkText(s); err != nil {
		return "", err
	}
	return s, nil
}

func checkText(s string) error {
	if s == "" {
		return &ValidationError{Field: "text", Value: s, Reason: "must not be empty"}
	}
	if s[0] == '[' {
		return &ValidationError{Field: "text", Value: s, Reason: "must not start with '['"}
	}
	for i := 0; i < len(s); i++ {
		if !imapwire.IsTextChar(s[i]) {
			return &ValidationError{Field: "text", Value: s, Reason: "must not contain CR, LF or NUL"}
		}
	}
	return nil
}

// NewCodeOther creates a response code without a dedicated type. The name
// must be an atom which isn't one of the known codes, and the text must not
// contain "]".
func NewCodeOther(name ResponseCode, text string) (CodeOther, error) {
	if !imapwire.IsAtom(string(name)) {
		return CodeOther{}, &ValidationError{Field: "code", Value: string(name), Reason: "must be an atom"}
	}
	if name.IsKnown() {
		return CodeOther{}, &ValidationError{Field: "code", Value: string(name), Reason: "known code, use the dedicated type"}
	}
	for i := 0; i < len(text); i++ {
		if ch := text[i]; ch == ']' || !imapwire.IsTextChar(ch) {
			return CodeOther{}, &ValidationError{Field: "code text", Value: text, Reason: fmt.Sprintf("invalid character %q", ch)}
		}
	}
	return CodeOther{Code: name, Text: text}, nil
}

// NewContinueBasic creates a continuation request carrying a human-readable
// text.
//
// Without a code, the text must not be valid base64: it would be read back
// as a base64 continuation request.
func NewContinueBasic(code Code, text string) (*ContinueRequest, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	if code == nil && imapwire.IsBase64(text) {
		return nil, &ValidationError{Field: "text", Value: text, Reason: "ambiguous with base64"}
	}
	return &ContinueRequest{Code: code, Text: text}, nil
}
