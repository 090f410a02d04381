package internal

import (
	"encoding/base64"
	"fmt"

	"github.com/emersion/go-imap-codec/internal/imapwire"
)

// WriteSASL writes a SASL initial response or client response. An empty
// response is written as "=".
func WriteSASL(enc *imapwire.Encoder, b []byte) {
	if len(b) == 0 {
		enc.Atom("=")
		return
	}
	enc.Atom(base64.StdEncoding.EncodeToString(b))
}

// ReadSASL reads a response written by WriteSASL.
//
// "=" yields a non-nil empty slice: go-sasl treats nil as no response.
func ReadSASL(dec *imapwire.Decoder) ([]byte, error) {
	var s string
	if !dec.Expect(dec.Func(&s, imapwire.IsBase64Char), "base64") {
		return nil, dec.Err()
	}
	if s == "=" {
		return []byte{}, nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 %q: %w", s, err)
	}
	return b, nil
}
