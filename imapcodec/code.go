package imapcodec

import (
	"fmt"
	"strings"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

func isCodeTextChar(ch byte) bool {
	return ch != ']' && imapwire.IsTextChar(ch)
}

// readRespText reads a resp-text: an optional response code followed by a
// human-readable text.
//
// Known codes are tried first. If the arguments don't match the code's
// syntax, the code is read as a CodeOther. If that fails too, the bracket is
// taken as part of the text.
func readRespText(dec *imapwire.Decoder) (code imap.Code, text string, err error) {
	start := dec.Mark()
	if dec.Special('[') {
		mark := dec.Mark()
		code, err = readCode(dec)
		if err != nil && dec.Backtrack(mark) {
			code, err = readCodeOther(dec)
			if err != nil && dec.Backtrack(start) {
				code, err = nil, nil
			}
		}
		if err != nil {
			return nil, "", err
		}

		if code != nil && !dec.SP() {
			// Some servers omit the text after the code
			return code, "", dec.Err()
		}
	} else if err := dec.Err(); err != nil {
		return nil, "", err
	}

	if !dec.Text(&text) {
		if err := dec.Err(); err != nil {
			return nil, "", err
		}
	}
	return code, text, nil
}

// readCode reads a response code. The opening bracket must have been
// consumed.
func readCode(dec *imapwire.Decoder) (imap.Code, error) {
	var name string
	if !dec.ExpectAtom(&name) {
		return nil, dec.Err()
	}

	var (
		code imap.Code
		err  error
	)
	switch imap.ResponseCode(strings.ToUpper(name)) {
	case imap.ResponseCodeAlert:
		code = imap.CodeAlert{}
	case imap.ResponseCodeParse:
		code = imap.CodeParse{}
	case imap.ResponseCodeReadOnly:
		code = imap.CodeReadOnly{}
	case imap.ResponseCodeReadWrite:
		code = imap.CodeReadWrite{}
	case imap.ResponseCodeTryCreate:
		code = imap.CodeTryCreate{}
	case imap.ResponseCodeUIDNotSticky:
		code = imap.CodeUIDNotSticky{}
	case imap.ResponseCodeClosed:
		code = imap.CodeClosed{}
	case imap.ResponseCodeBadCharset:
		code, err = readCodeBadCharset(dec)
	case imap.ResponseCodeCapability:
		var caps []imap.Cap
		if !dec.ExpectSP() {
			return nil, dec.Err()
		}
		caps, err = internal.ReadCapList(dec)
		code = imap.CodeCapability{Caps: caps}
	case imap.ResponseCodePermanentFlags:
		var flags []imap.Flag
		if !dec.ExpectSP() {
			return nil, dec.Err()
		}
		flags, err = internal.ReadFlagList(dec, true)
		code = imap.CodePermanentFlags{Flags: flags}
	case imap.ResponseCodeUIDNext:
		var uid uint32
		if !dec.ExpectSP() || !dec.ExpectNzNumber(&uid) {
			return nil, dec.Err()
		}
		code = imap.CodeUIDNext{UID: imap.UID(uid)}
	case imap.ResponseCodeUIDValidity:
		var v uint32
		if !dec.ExpectSP() || !dec.ExpectNzNumber(&v) {
			return nil, dec.Err()
		}
		code = imap.CodeUIDValidity{UIDValidity: v}
	case imap.ResponseCodeUnseen:
		var v uint32
		if !dec.ExpectSP() || !dec.ExpectNzNumber(&v) {
			return nil, dec.Err()
		}
		code = imap.CodeUnseen{SeqNum: v}
	case imap.ResponseCodeAppendUID:
		var c imap.CodeAppendUID
		var uid uint32
		if !dec.ExpectSP() || !dec.ExpectNzNumber(&c.UIDValidity) || !dec.ExpectSP() || !dec.ExpectNzNumber(&uid) {
			return nil, dec.Err()
		}
		c.UID = imap.UID(uid)
		code = c
	case imap.ResponseCodeCopyUID:
		var c imap.CodeCopyUID
		if !dec.ExpectSP() || !dec.ExpectNzNumber(&c.UIDValidity) || !dec.ExpectSP() || !readSeqSet(dec, &c.SourceUIDs) || !dec.ExpectSP() || !readSeqSet(dec, &c.DestUIDs) {
			return nil, dec.Err()
		}
		code = c
	default:
		return readCodeOtherArgs(dec, imap.ResponseCode(name))
	}
	if err != nil {
		return nil, fmt.Errorf("in %v code: %w", name, err)
	}

	if !dec.ExpectSpecial(']') {
		return nil, dec.Err()
	}
	return code, nil
}

func readCodeBadCharset(dec *imapwire.Decoder) (imap.Code, error) {
	var code imap.CodeBadCharset
	if !dec.SP() {
		return code, dec.Err()
	}
	err := dec.ExpectList(func() error {
		var charset string
		if !dec.ExpectAString(&charset) {
			return dec.Err()
		}
		code.Charsets = append(code.Charsets, charset)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !dec.Expect(len(code.Charsets) > 0, "charset") {
		return nil, dec.Err()
	}
	return code, nil
}

// readCodeOther reads any response code as a CodeOther.
func readCodeOther(dec *imapwire.Decoder) (imap.Code, error) {
	var name string
	if !dec.ExpectAtom(&name) {
		return nil, dec.Err()
	}
	return readCodeOtherArgs(dec, imap.ResponseCode(name))
}

func readCodeOtherArgs(dec *imapwire.Decoder, name imap.ResponseCode) (imap.Code, error) {
	code := imap.CodeOther{Code: name}
	if dec.SP() {
		if !dec.Expect(dec.Func(&code.Text, isCodeTextChar), "text") {
			return nil, dec.Err()
		}
	}
	if !dec.ExpectSpecial(']') {
		return nil, dec.Err()
	}
	return code, nil
}

func writeRespText(enc *imapwire.Encoder, code imap.Code, text string) {
	if code != nil {
		enc.Special('[')
		writeCode(enc, code)
		enc.Special(']')
		if text != "" {
			enc.SP()
		}
	}
	if strings.HasPrefix(text, "[") {
		enc.SetErr(fmt.Errorf("imapcodec: text %q would be read back as a response code", text))
		return
	}
	for i := 0; i < len(text); i++ {
		if !imapwire.IsTextChar(text[i]) {
			enc.SetErr(fmt.Errorf("imapcodec: invalid character %q in text", text[i]))
			return
		}
	}
	enc.Text(text)
}

func writeCode(enc *imapwire.Encoder, code imap.Code) {
	enc.Atom(string(code.Name()))
	switch code := code.(type) {
	case imap.CodeAlert, imap.CodeParse, imap.CodeReadOnly, imap.CodeReadWrite,
		imap.CodeTryCreate, imap.CodeUIDNotSticky, imap.CodeClosed:
		// no arguments
	case imap.CodeBadCharset:
		if len(code.Charsets) > 0 {
			enc.SP().List(len(code.Charsets), func(i int) {
				enc.AString(code.Charsets[i])
			})
		}
	case imap.CodeCapability:
		enc.SP()
		internal.WriteCapList(enc, code.Caps)
	case imap.CodePermanentFlags:
		enc.SP()
		internal.WriteFlagList(enc, code.Flags)
	case imap.CodeUIDNext:
		enc.SP()
		writeNzNumber(enc, uint32(code.UID))
	case imap.CodeUIDValidity:
		enc.SP()
		writeNzNumber(enc, code.UIDValidity)
	case imap.CodeUnseen:
		enc.SP()
		writeNzNumber(enc, code.SeqNum)
	case imap.CodeAppendUID:
		enc.SP()
		writeNzNumber(enc, code.UIDValidity)
		enc.SP()
		writeNzNumber(enc, uint32(code.UID))
	case imap.CodeCopyUID:
		enc.SP()
		writeNzNumber(enc, code.UIDValidity)
		enc.SP()
		writeSeqSet(enc, code.SourceUIDs)
		enc.SP()
		writeSeqSet(enc, code.DestUIDs)
	case imap.CodeOther:
		if !imapwire.IsAtom(string(code.Code)) {
			enc.SetErr(fmt.Errorf("imapcodec: invalid response code %q", code.Code))
		}
		if code.Text != "" {
			for i := 0; i < len(code.Text); i++ {
				if !isCodeTextChar(code.Text[i]) {
					enc.SetErr(fmt.Errorf("imapcodec: invalid character %q in response code", code.Text[i]))
				}
			}
			enc.SP().Text(code.Text)
		}
	default:
		enc.SetErr(fmt.Errorf("imapcodec: unsupported response code %T", code))
	}
}

func writeNzNumber(enc *imapwire.Encoder, v uint32) {
	if v == 0 {
		enc.SetErr(fmt.Errorf("imapcodec: unexpected zero number"))
	}
	enc.Number(v)
}
