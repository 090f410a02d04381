// Package imapwire implements the IMAP wire protocol primitives.
//
// The IMAP wire protocol is defined in RFC 9051 section 4. The Decoder works
// on a byte slice and never blocks: when the input ends before a token can be
// decided it reports ErrIncomplete, and when it reaches a literal whose data
// isn't available yet it reports a *LiteralError. The Encoder accumulates
// Fragments instead of writing to a connection.
package imapwire

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ConnSide describes the side of a connection: client or server.
type ConnSide int

const (
	ConnSideClient ConnSide = 1 + iota
	ConnSideServer
)

// ErrIncomplete is returned by a Decoder when more input is needed.
var ErrIncomplete = errors.New("imapwire: incomplete input")

// LiteralError is returned by a Decoder when a literal header has been
// decoded but the literal data isn't fully available.
type LiteralError struct {
	Size    uint32
	NonSync bool
}

func (err *LiteralError) Error() string {
	return fmt.Sprintf("imapwire: waiting for literal data (%v bytes)", err.Size)
}

// SyntaxError is returned by a Decoder when the input cannot be decoded.
type SyntaxError struct {
	Offset   int
	Expected string
	// Got is the offending byte, or a negative value if unknown.
	Got int
}

func (err *SyntaxError) Error() string {
	if err.Got < 0 {
		return fmt.Sprintf("imapwire: at offset %v: expected %v", err.Offset, err.Expected)
	}
	return fmt.Sprintf("imapwire: at offset %v: expected %v, got %q", err.Offset, err.Expected, rune(err.Got))
}

// IsAtomChar returns true if ch is an ATOM-CHAR.
func IsAtomChar(ch byte) bool {
	switch ch {
	case '(', ')', '{', ' ', '%', '*', '"', '\\', ']':
		return false
	default:
		return ch > 0x1F && ch < 0x7F
	}
}

// IsAStringChar returns true if ch is an ASTRING-CHAR.
func IsAStringChar(ch byte) bool {
	return ch == ']' || IsAtomChar(ch)
}

// IsTagChar returns true if ch can be part of a command tag.
func IsTagChar(ch byte) bool {
	return ch != '+' && IsAStringChar(ch)
}

// IsListChar returns true if ch is a list-char (used in LIST patterns).
func IsListChar(ch byte) bool {
	switch ch {
	case '%', '*': // list-wildcards
		return true
	case ']': // resp-specials
		return true
	default:
		return IsAtomChar(ch)
	}
}

// IsTextChar returns true if ch is a TEXT-CHAR. Bytes above 0x7F are
// accepted for UTF-8 text.
func IsTextChar(ch byte) bool {
	return ch != '\r' && ch != '\n' && ch != 0
}

// IsBase64Char returns true if ch is part of the base64 alphabet, padding
// included.
func IsBase64Char(ch byte) bool {
	switch {
	case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
		return true
	case ch == '+', ch == '/', ch == '=':
		return true
	default:
		return false
	}
}

// IsBase64 reports whether s, possibly empty, is a valid base64 payload. A
// continuation request carrying such a text is read back as base64.
func IsBase64(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsBase64Char(s[i]) {
			return false
		}
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}

// IsAtom returns true if s is a valid non-empty atom.
func IsAtom(s string) bool {
	return isToken(s, IsAtomChar)
}

// IsAString returns true if s can be sent as an atom in an astring position.
func IsAString(s string) bool {
	return isToken(s, IsAStringChar)
}

func isToken(s string, valid func(byte) bool) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !valid(s[i]) {
			return false
		}
	}
	return true
}
