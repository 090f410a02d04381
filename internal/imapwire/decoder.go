package imapwire

import (
	"errors"
	"math"
	"time"
)

const (
	dateTimeLayout = "_2-Jan-2006 15:04:05 -0700"
	dateLayout     = "2-Jan-2006"
)

// A Decoder reads IMAP data from a byte slice.
//
// Most methods come in two flavors: the plain method returns false without
// setting an error when the input doesn't start with the requested token,
// the Expect variant turns that into a *SyntaxError. Running out of input
// always sets ErrIncomplete. The first error is kept and all subsequent
// calls return false.
type Decoder struct {
	buf []byte
	pos int
	err error
}

// NewDecoder creates a new decoder reading from b. The decoder never
// modifies b.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Err returns the first error encountered by the decoder.
func (dec *Decoder) Err() error {
	return dec.err
}

// Offset returns the number of bytes consumed so far.
func (dec *Decoder) Offset() int {
	return dec.pos
}

// Remaining returns the unconsumed part of the input.
func (dec *Decoder) Remaining() []byte {
	return dec.buf[dec.pos:]
}

// Mark returns the current position, to be passed to Backtrack.
func (dec *Decoder) Mark() int {
	return dec.pos
}

// Backtrack rewinds the decoder to mark if the pending error is a syntax
// error, so that the next alternative of an ordered choice can be tried.
//
// Incomplete input and pending literals are never discarded: in that case
// Backtrack returns false and the error is kept.
func (dec *Decoder) Backtrack(mark int) bool {
	var syntaxErr *SyntaxError
	if !errors.As(dec.err, &syntaxErr) {
		return false
	}
	dec.err = nil
	dec.pos = mark
	return true
}

func (dec *Decoder) returnErr(err error) bool {
	if err == nil {
		return true
	}
	if dec.err == nil {
		dec.err = err
	}
	return false
}

func (dec *Decoder) peekByte() (byte, bool) {
	if dec.err != nil {
		return 0, false
	}
	if dec.pos >= len(dec.buf) {
		return 0, dec.returnErr(ErrIncomplete)
	}
	return dec.buf[dec.pos], true
}

func (dec *Decoder) acceptByte(want byte) bool {
	got, ok := dec.peekByte()
	if !ok || got != want {
		return false
	}
	dec.pos++
	return true
}

// Expect sets a syntax error if ok is false and no error is pending.
func (dec *Decoder) Expect(ok bool, name string) bool {
	if !ok && dec.err == nil {
		got := -1
		if dec.pos < len(dec.buf) {
			got = int(dec.buf[dec.pos])
		}
		dec.err = &SyntaxError{Offset: dec.pos, Expected: name, Got: got}
	}
	return ok
}

// Peek checks whether the next byte is b, without consuming it.
func (dec *Decoder) Peek(b byte) bool {
	got, ok := dec.peekByte()
	return ok && got == b
}

func (dec *Decoder) SP() bool {
	return dec.acceptByte(' ')
}

func (dec *Decoder) ExpectSP() bool {
	return dec.Expect(dec.SP(), "SP")
}

func (dec *Decoder) CRLF() bool {
	mark := dec.pos
	if dec.acceptByte('\r') && dec.acceptByte('\n') {
		return true
	}
	dec.pos = mark
	return false
}

func (dec *Decoder) ExpectCRLF() bool {
	return dec.Expect(dec.CRLF(), "CRLF")
}

func (dec *Decoder) Special(b byte) bool {
	return dec.acceptByte(b)
}

func (dec *Decoder) ExpectSpecial(b byte) bool {
	return dec.Expect(dec.Special(b), "'"+string(b)+"'")
}

// Func reads a non-empty run of bytes accepted by valid.
func (dec *Decoder) Func(ptr *string, valid func(ch byte) bool) bool {
	start := dec.pos
	for {
		ch, ok := dec.peekByte()
		if !ok {
			dec.pos = start
			return false
		}
		if !valid(ch) {
			break
		}
		dec.pos++
	}
	if dec.pos == start {
		return false
	}
	*ptr = string(dec.buf[start:dec.pos])
	return true
}

func (dec *Decoder) Atom(ptr *string) bool {
	return dec.Func(ptr, IsAtomChar)
}

func (dec *Decoder) ExpectAtom(ptr *string) bool {
	return dec.Expect(dec.Atom(ptr), "atom")
}

// Keyword reads the case-insensitive keyword kw. The keyword must not be
// immediately followed by another atom character: "BODY" doesn't match
// "BODYSTRUCTURE".
func (dec *Decoder) Keyword(kw string) bool {
	start := dec.pos
	for i := 0; i < len(kw); i++ {
		ch, ok := dec.peekByte()
		if !ok || toUpper(ch) != toUpper(kw[i]) {
			dec.pos = start
			return false
		}
		dec.pos++
	}
	if ch, ok := dec.peekByte(); !ok || IsAtomChar(ch) {
		dec.pos = start
		return false
	}
	return true
}

func (dec *Decoder) ExpectKeyword(kw string) bool {
	return dec.Expect(dec.Keyword(kw), kw)
}

func (dec *Decoder) NIL() bool {
	return dec.Keyword("NIL")
}

func (dec *Decoder) ExpectNIL() bool {
	return dec.Expect(dec.NIL(), "NIL")
}

func toUpper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}

func (dec *Decoder) digits(max uint64) (v uint64, ok bool) {
	start := dec.pos
	for {
		ch, ok := dec.peekByte()
		if !ok {
			dec.pos = start
			return 0, false
		}
		if ch < '0' || ch > '9' {
			break
		}
		d := uint64(ch - '0')
		if v > (max-d)/10 {
			return 0, dec.Expect(false, "number small enough")
		}
		v = v*10 + d
		dec.pos++
	}
	return v, dec.pos > start
}

func (dec *Decoder) Number(ptr *uint32) bool {
	v, ok := dec.digits(math.MaxUint32)
	if ok {
		*ptr = uint32(v)
	}
	return ok
}

func (dec *Decoder) ExpectNumber(ptr *uint32) bool {
	return dec.Expect(dec.Number(ptr), "number")
}

// NzNumber reads a non-zero number.
func (dec *Decoder) NzNumber(ptr *uint32) bool {
	mark := dec.pos
	var v uint32
	if !dec.Number(&v) {
		return false
	}
	if v == 0 {
		dec.pos = mark
		return dec.Expect(false, "nz-number")
	}
	*ptr = v
	return true
}

func (dec *Decoder) ExpectNzNumber(ptr *uint32) bool {
	return dec.Expect(dec.NzNumber(ptr), "nz-number")
}

func (dec *Decoder) Number64(ptr *int64) bool {
	v, ok := dec.digits(math.MaxInt64)
	if ok {
		*ptr = int64(v)
	}
	return ok
}

func (dec *Decoder) ExpectNumber64(ptr *int64) bool {
	return dec.Expect(dec.Number64(ptr), "number64")
}

// Quoted reads a quoted string.
func (dec *Decoder) Quoted(ptr *string) bool {
	if !dec.Special('"') {
		return false
	}
	var b []byte
	for {
		ch, ok := dec.peekByte()
		if !ok {
			return false
		}
		switch ch {
		case '"':
			dec.pos++
			*ptr = string(b)
			return true
		case '\\':
			dec.pos++
			ch, ok = dec.peekByte()
			if !ok {
				return false
			}
			if ch != '"' && ch != '\\' {
				return dec.Expect(false, "quoted-specials")
			}
		case '\r', '\n', 0:
			return dec.Expect(false, "QUOTED-CHAR")
		}
		b = append(b, ch)
		dec.pos++
	}
}

// Literal reads a literal. The literal data is copied.
//
// If the literal header is complete but the data isn't available yet, a
// *LiteralError is set. The data is never allocated before it is available.
func (dec *Decoder) Literal(ptr *[]byte, nonSync *bool) bool {
	if !dec.Special('{') {
		return false
	}
	var size uint32
	if !dec.ExpectNumber(&size) {
		return false
	}
	plus := dec.Special('+')
	if !dec.ExpectSpecial('}') || !dec.ExpectCRLF() {
		return false
	}
	if uint64(len(dec.buf)-dec.pos) < uint64(size) {
		return dec.returnErr(&LiteralError{Size: size, NonSync: plus})
	}

	b := make([]byte, size)
	copy(b, dec.buf[dec.pos:])
	dec.pos += int(size)

	*ptr = b
	if nonSync != nil {
		*nonSync = plus
	}
	return true
}

func (dec *Decoder) ExpectLiteral(ptr *[]byte, nonSync *bool) bool {
	return dec.Expect(dec.Literal(ptr, nonSync), "literal")
}

// String reads a quoted string or a literal.
func (dec *Decoder) String(ptr *string) bool {
	ch, ok := dec.peekByte()
	if !ok {
		return false
	}
	switch ch {
	case '"':
		return dec.Quoted(ptr)
	case '{':
		var b []byte
		if !dec.Literal(&b, nil) {
			return false
		}
		*ptr = string(b)
		return true
	default:
		return false
	}
}

func (dec *Decoder) ExpectString(ptr *string) bool {
	return dec.Expect(dec.String(ptr), "string")
}

func (dec *Decoder) AString(ptr *string) bool {
	if dec.String(ptr) {
		return true
	}
	if dec.err != nil {
		return false
	}
	return dec.Func(ptr, IsAStringChar)
}

func (dec *Decoder) ExpectAString(ptr *string) bool {
	return dec.Expect(dec.AString(ptr), "astring")
}

// NString reads a string or NIL. NIL is returned as an empty string.
func (dec *Decoder) NString(ptr *string) bool {
	if dec.NIL() {
		*ptr = ""
		return true
	}
	return dec.String(ptr)
}

func (dec *Decoder) ExpectNString(ptr *string) bool {
	return dec.Expect(dec.NString(ptr), "nstring")
}

// Text reads a non-empty text, up to the end of the line.
func (dec *Decoder) Text(ptr *string) bool {
	return dec.Func(ptr, IsTextChar)
}

func (dec *Decoder) ExpectText(ptr *string) bool {
	return dec.Expect(dec.Text(ptr), "text")
}

// List reads a parenthesized list, calling f for each item. An empty list
// is accepted. If the input doesn't start with a list, isList is false.
func (dec *Decoder) List(f func() error) (isList bool, err error) {
	if !dec.Special('(') {
		return false, dec.Err()
	}
	if dec.Special(')') {
		return true, nil
	}
	if dec.err != nil {
		return true, dec.err
	}

	for {
		if err := f(); err != nil {
			return true, err
		}

		if dec.Special(')') {
			return true, nil
		} else if !dec.ExpectSP() {
			return true, dec.Err()
		}
	}
}

func (dec *Decoder) ExpectList(f func() error) error {
	isList, err := dec.List(f)
	if err != nil {
		return err
	} else if !dec.Expect(isList, "(") {
		return dec.Err()
	}
	return nil
}

// ExpectNList reads a parenthesized list or NIL.
func (dec *Decoder) ExpectNList(f func() error) error {
	if dec.NIL() {
		return nil
	} else if dec.err != nil {
		return dec.err
	}
	return dec.ExpectList(f)
}

// DateTime reads a date-time. The zone is kept as a fixed offset.
func (dec *Decoder) DateTime(ptr *time.Time) bool {
	mark := dec.pos
	var s string
	if !dec.Quoted(&s) {
		return false
	}
	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		dec.pos = mark
		return dec.Expect(false, "date-time")
	}
	_, offset := t.Zone()
	*ptr = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.FixedZone("", offset))
	return true
}

func (dec *Decoder) ExpectDateTime(ptr *time.Time) bool {
	return dec.Expect(dec.DateTime(ptr), "date-time")
}

// Date reads a date, optionally quoted. The result is in UTC.
func (dec *Decoder) Date(ptr *time.Time) bool {
	mark := dec.pos
	var s string
	if !dec.Quoted(&s) {
		if dec.err != nil || !dec.Func(&s, isDateChar) {
			return false
		}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		dec.pos = mark
		return dec.Expect(false, "date")
	}
	*ptr = t
	return true
}

func (dec *Decoder) ExpectDate(ptr *time.Time) bool {
	return dec.Expect(dec.Date(ptr), "date")
}

func isDateChar(ch byte) bool {
	return ch == '-' || (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
