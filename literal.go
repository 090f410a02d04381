package imap

import (
	"fmt"
)

// LiteralMode describes how a literal is announced on the wire.
type LiteralMode int

const (
	// LiteralSync is a synchronizing literal, announced with "{n}". A client
	// must wait for a continuation request before sending the literal data.
	LiteralSync LiteralMode = iota
	// LiteralNonSync is a non-synchronizing literal, announced with "{n+}"
	// (RFC 7888).
	LiteralNonSync
)

func (mode LiteralMode) String() string {
	switch mode {
	case LiteralSync:
		return "sync"
	case LiteralNonSync:
		return "non-sync"
	default:
		return fmt.Sprintf("LiteralMode(%d)", int(mode))
	}
}

// Literal is a length-prefixed string.
type Literal struct {
	Data []byte
	Mode LiteralMode
}

// NStringKind is the wire representation of an NString.
type NStringKind int

const (
	NStringNil NStringKind = iota
	NStringQuoted
	NStringLiteral
)

// NString is an nstring: either NIL, a quoted string or a literal.
//
// NString is used for message contents, where the representation is
// preserved. The zero value is NIL.
type NString struct {
	Kind  NStringKind
	Value string
	Mode  LiteralMode // only meaningful for NStringLiteral
}

// NewNString returns a non-NIL NString holding s.
//
// The quoted representation is used if s can be quoted, otherwise a
// synchronizing literal is used.
func NewNString(s string) NString {
	if IsQuotable(s, false) {
		return NString{Kind: NStringQuoted, Value: s}
	}
	return NString{Kind: NStringLiteral, Value: s}
}

// NewNStringLiteral returns an NString holding s as a literal.
func NewNStringLiteral(s string, mode LiteralMode) NString {
	return NString{Kind: NStringLiteral, Value: s, Mode: mode}
}

// IsNil returns true if the NString is NIL.
func (ns NString) IsNil() bool {
	return ns.Kind == NStringNil
}

// MaxQuotedLen is the largest string the encoder will send as a quoted
// string. Longer strings are sent as literals.
const MaxQuotedLen = 4096

// IsQuotable checks whether s can be sent as a quoted string.
//
// Non-ASCII bytes are only allowed if utf8 is set (IMAP4rev2 or UTF8=ACCEPT).
func IsQuotable(s string, utf8 bool) bool {
	if len(s) > MaxQuotedLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]

		// NUL, CR and LF are never valid
		switch ch {
		case 0, '\r', '\n':
			return false
		}

		if !utf8 && ch > 0x7F {
			return false
		}
	}
	return true
}
