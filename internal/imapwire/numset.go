package imapwire

import (
	"errors"

	"github.com/emersion/go-imap-codec/internal/imapnum"
)

var errEmptyNumSet = errors.New("imapwire: cannot encode empty sequence set")

// NumSet reads a sequence-set.
func (dec *Decoder) NumSet(ptr *imapnum.Set) bool {
	mark := dec.pos
	var s string
	if !dec.Func(&s, isNumSetChar) {
		return false
	}
	set, err := imapnum.ParseSet(s)
	if err != nil {
		dec.pos = mark
		return dec.Expect(false, "sequence-set")
	}
	*ptr = set
	return true
}

func (dec *Decoder) ExpectNumSet(ptr *imapnum.Set) bool {
	return dec.Expect(dec.NumSet(ptr), "sequence-set")
}

func isNumSetChar(ch byte) bool {
	return ch == '*' || ch == ':' || ch == ',' || (ch >= '0' && ch <= '9')
}

// NumSet writes a sequence-set. The set must not be empty.
func (enc *Encoder) NumSet(set imapnum.Set) *Encoder {
	s := set.String()
	if s == "" {
		enc.SetErr(errEmptyNumSet)
		return enc
	}
	return enc.rawString(s)
}
