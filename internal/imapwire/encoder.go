package imapwire

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// maxQuoted is the length above which strings are always sent as literals.
const maxQuoted = 4096

// Fragment is a piece of encoded output.
type Fragment struct {
	Data []byte
	// Literal is set for the data of a synchronizing literal. It must only be
	// sent once the peer has answered the preceding fragment with a
	// continuation request.
	Literal bool
}

// An Encoder builds an IMAP message as a list of fragments.
//
// Methods don't return errors: the first failure is kept and reported by
// CRLF, and later writes are dropped. Methods return the Encoder so that
// calls can be chained.
type Encoder struct {
	// QuotedUTF8 allows non-ASCII bytes in quoted strings (IMAP4rev2,
	// UTF8=ACCEPT).
	QuotedUTF8 bool
	// LiteralMinus turns client literals of up to 4096 bytes into
	// non-synchronizing literals (LITERAL-).
	LiteralMinus bool
	// LiteralPlus turns all client literals into non-synchronizing literals
	// (LITERAL+).
	LiteralPlus bool

	side ConnSide
	err  error
	done []Fragment
	cur  []byte
}

// NewEncoder creates a new encoder for messages sent by side.
func NewEncoder(side ConnSide) *Encoder {
	return &Encoder{side: side}
}

// SetErr records an error found by the caller. Only the first error is kept.
func (enc *Encoder) SetErr(err error) {
	if enc.err == nil {
		enc.err = err
	}
}

func (enc *Encoder) raw(b ...byte) *Encoder {
	if enc.err == nil {
		enc.cur = append(enc.cur, b...)
	}
	return enc
}

func (enc *Encoder) rawString(s string) *Encoder {
	if enc.err == nil {
		enc.cur = append(enc.cur, s...)
	}
	return enc
}

// CRLF terminates the current line and returns the first error which
// occurred while encoding.
func (enc *Encoder) CRLF() error {
	enc.raw('\r', '\n')
	return enc.err
}

// Fragments returns the encoded fragments.
func (enc *Encoder) Fragments() []Fragment {
	if len(enc.cur) > 0 {
		enc.done = append(enc.done, Fragment{Data: enc.cur})
		enc.cur = nil
	}
	return enc.done
}

// Atom writes s verbatim. The caller is responsible for validation.
func (enc *Encoder) Atom(s string) *Encoder { return enc.rawString(s) }

// Text writes s verbatim, for the trailing text of a response.
func (enc *Encoder) Text(s string) *Encoder { return enc.rawString(s) }

func (enc *Encoder) SP() *Encoder { return enc.raw(' ') }

func (enc *Encoder) Special(ch byte) *Encoder { return enc.raw(ch) }

func (enc *Encoder) NIL() *Encoder { return enc.rawString("NIL") }

// Quoted writes s as a quoted string, escaping '"' and '\'.
func (enc *Encoder) Quoted(s string) *Encoder {
	enc.raw('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\':
			enc.raw('\\', s[i])
		default:
			enc.raw(s[i])
		}
	}
	return enc.raw('"')
}

func (enc *Encoder) canQuote(s string) bool {
	if len(s) > maxQuoted {
		return false
	}
	for _, ch := range []byte(s) {
		if ch == 0 || ch == '\r' || ch == '\n' {
			return false
		}
		if ch > unicode.MaxASCII && !enc.QuotedUTF8 {
			return false
		}
	}
	return true
}

// String writes a quoted string if possible, a literal otherwise.
func (enc *Encoder) String(s string) *Encoder {
	if enc.canQuote(s) {
		return enc.Quoted(s)
	}
	return enc.Literal([]byte(s), enc.NonSyncLiteral(len(s)))
}

// AString writes an atom if possible, a string otherwise.
func (enc *Encoder) AString(s string) *Encoder {
	if IsAString(s) {
		return enc.rawString(s)
	}
	return enc.String(s)
}

// Mailbox writes a mailbox name. INBOX is always written in upper case.
func (enc *Encoder) Mailbox(name string) *Encoder {
	if strings.EqualFold(name, "INBOX") {
		name = "INBOX"
	}
	return enc.AString(name)
}

// NonSyncLiteral reports whether a literal of the provided size may be sent
// as a non-synchronizing literal.
func (enc *Encoder) NonSyncLiteral(size int) bool {
	if enc.side != ConnSideClient {
		return false
	}
	return enc.LiteralPlus || (enc.LiteralMinus && size <= maxQuoted)
}

// Literal writes a literal.
//
// When a client sends a synchronizing literal, the data goes into a
// separate fragment. Otherwise it stays on the current line.
func (enc *Encoder) Literal(b []byte, nonSync bool) *Encoder {
	enc.raw('{').rawString(strconv.Itoa(len(b)))
	if nonSync {
		enc.raw('+')
	}
	enc.raw('}', '\r', '\n')
	if enc.err != nil {
		return enc
	}

	if nonSync || enc.side != ConnSideClient {
		enc.cur = append(enc.cur, b...)
		return enc
	}
	enc.Fragments()
	enc.done = append(enc.done, Fragment{Data: append([]byte(nil), b...), Literal: true})
	return enc
}

// Flag writes a message flag. "\*" is accepted, for PERMANENTFLAGS.
func (enc *Encoder) Flag(flag string) *Encoder {
	if flag == `\*` || isFlag(flag) {
		return enc.rawString(flag)
	}
	enc.SetErr(fmt.Errorf("imapwire: invalid flag %q", flag))
	return enc
}

// MailboxAttr writes a mailbox attribute such as "\Noselect".
func (enc *Encoder) MailboxAttr(attr string) *Encoder {
	if strings.HasPrefix(attr, `\`) && isFlag(attr) {
		return enc.rawString(attr)
	}
	enc.SetErr(fmt.Errorf("imapwire: invalid mailbox attribute %q", attr))
	return enc
}

// isFlag matches flag-keyword and flag-extension: atom chars, with an
// optional leading backslash.
func isFlag(s string) bool {
	s = strings.TrimPrefix(s, `\`)
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsAtomChar(s[i]) {
			return false
		}
	}
	return true
}

func (enc *Encoder) Number(v uint32) *Encoder {
	return enc.rawString(strconv.FormatUint(uint64(v), 10))
}

func (enc *Encoder) Number64(v int64) *Encoder {
	if v < 0 {
		enc.SetErr(fmt.Errorf("imapwire: cannot encode negative number %v", v))
		return enc
	}
	return enc.rawString(strconv.FormatInt(v, 10))
}

// List writes a parenthesized list of n items, calling f for each one.
func (enc *Encoder) List(n int, f func(i int)) *Encoder {
	enc.raw('(')
	for i := 0; i < n; i++ {
		if i > 0 {
			enc.raw(' ')
		}
		f(i)
	}
	return enc.raw(')')
}

// DateTime writes a quoted date-time, as used by INTERNALDATE and APPEND.
func (enc *Encoder) DateTime(t time.Time) *Encoder {
	return enc.Quoted(t.Format(dateTimeLayout))
}

// Date writes a search date.
func (enc *Encoder) Date(t time.Time) *Encoder {
	return enc.rawString(t.Format(dateLayout))
}
