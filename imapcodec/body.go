package imapcodec

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

// maxBodyDepth limits the nesting of body structures and body extensions.
const maxBodyDepth = 8

var errBodyTooDeep = errors.New("body structure nested too deeply")

func readBody(dec *imapwire.Decoder, depth int) (imap.BodyStructure, error) {
	if depth >= maxBodyDepth {
		return nil, errBodyTooDeep
	}
	if !dec.ExpectSpecial('(') {
		return nil, dec.Err()
	}

	var (
		mediaType string
		token     string
		bs        imap.BodyStructure
		err       error
	)
	if dec.String(&mediaType) {
		token = "body-type-1part"
		bs, err = readBodyType1part(dec, mediaType, depth)
	} else if err := dec.Err(); err != nil {
		return nil, err
	} else {
		token = "body-type-mpart"
		bs, err = readBodyTypeMpart(dec, depth)
	}
	if err != nil {
		return nil, fmt.Errorf("in %v: %w", token, err)
	}

	if !dec.ExpectSpecial(')') {
		return nil, dec.Err()
	}

	return bs, nil
}

func readBodyType1part(dec *imapwire.Decoder, typ string, depth int) (*imap.BodyStructureSinglePart, error) {
	bs := imap.BodyStructureSinglePart{Type: typ}

	if !dec.ExpectSP() || !dec.ExpectString(&bs.Subtype) || !dec.ExpectSP() {
		return nil, dec.Err()
	}

	var err error
	bs.Params, err = readBodyFldParam(dec)
	if err != nil {
		return nil, err
	}

	if !dec.ExpectSP() || !dec.ExpectNString(&bs.ID) || !dec.ExpectSP() || !dec.ExpectNString(&bs.Description) || !dec.ExpectSP() || !dec.ExpectString(&bs.Encoding) || !dec.ExpectSP() || !dec.ExpectNumber(&bs.Size) {
		return nil, dec.Err()
	}

	if strings.EqualFold(bs.Type, "message") && (strings.EqualFold(bs.Subtype, "rfc822") || strings.EqualFold(bs.Subtype, "global")) {
		var msg imap.BodyStructureMessageRFC822

		if !dec.ExpectSP() {
			return nil, dec.Err()
		}

		msg.Envelope, err = readEnvelope(dec)
		if err != nil {
			return nil, err
		}

		if !dec.ExpectSP() {
			return nil, dec.Err()
		}

		msg.BodyStructure, err = readBody(dec, depth+1)
		if err != nil {
			return nil, err
		}

		if !dec.ExpectSP() || !dec.ExpectNumber(&msg.NumLines) {
			return nil, dec.Err()
		}

		bs.MessageRFC822 = &msg
	} else if strings.EqualFold(bs.Type, "text") {
		var text imap.BodyStructureText

		if !dec.ExpectSP() || !dec.ExpectNumber(&text.NumLines) {
			return nil, dec.Err()
		}

		bs.Text = &text
	}

	if dec.SP() {
		bs.Extended, err = readBodyExt1part(dec, depth)
		if err != nil {
			return nil, fmt.Errorf("in body-ext-1part: %w", err)
		}
	} else if err := dec.Err(); err != nil {
		return nil, err
	}

	return &bs, nil
}

func readBodyExt1part(dec *imapwire.Decoder, depth int) (*imap.BodyStructureSinglePartExt, error) {
	var ext imap.BodyStructureSinglePartExt

	if !dec.ExpectNString(&ext.MD5) {
		return nil, dec.Err()
	}

	if !dec.SP() {
		return &ext, dec.Err()
	}

	var err error
	ext.Disposition, err = readBodyFldDsp(dec)
	if err != nil {
		return nil, fmt.Errorf("in body-fld-dsp: %w", err)
	}

	if !dec.SP() {
		return &ext, dec.Err()
	}

	ext.Language, err = readBodyFldLang(dec)
	if err != nil {
		return nil, fmt.Errorf("in body-fld-lang: %w", err)
	}

	if !dec.SP() {
		return &ext, dec.Err()
	}

	if !dec.ExpectNString(&ext.Location) {
		return nil, dec.Err()
	}

	ext.Extensions, err = readBodyExtensions(dec, depth)
	if err != nil {
		return nil, err
	}
	return &ext, nil
}

func readBodyTypeMpart(dec *imapwire.Decoder, depth int) (*imap.BodyStructureMultiPart, error) {
	var bs imap.BodyStructureMultiPart

	for {
		child, err := readBody(dec, depth+1)
		if err != nil {
			return nil, err
		}
		bs.Children = append(bs.Children, child)

		// Children are usually not separated by spaces, but some servers
		// add one.
		if dec.SP() && dec.String(&bs.Subtype) {
			break
		} else if err := dec.Err(); err != nil {
			return nil, err
		}
	}

	if dec.SP() {
		var err error
		bs.Extended, err = readBodyExtMpart(dec, depth)
		if err != nil {
			return nil, fmt.Errorf("in body-ext-mpart: %w", err)
		}
	} else if err := dec.Err(); err != nil {
		return nil, err
	}

	return &bs, nil
}

func readBodyExtMpart(dec *imapwire.Decoder, depth int) (*imap.BodyStructureMultiPartExt, error) {
	var ext imap.BodyStructureMultiPartExt

	var err error
	ext.Params, err = readBodyFldParam(dec)
	if err != nil {
		return nil, fmt.Errorf("in body-fld-param: %w", err)
	}

	if !dec.SP() {
		return &ext, dec.Err()
	}

	ext.Disposition, err = readBodyFldDsp(dec)
	if err != nil {
		return nil, fmt.Errorf("in body-fld-dsp: %w", err)
	}

	if !dec.SP() {
		return &ext, dec.Err()
	}

	ext.Language, err = readBodyFldLang(dec)
	if err != nil {
		return nil, fmt.Errorf("in body-fld-lang: %w", err)
	}

	if !dec.SP() {
		return &ext, dec.Err()
	}

	if !dec.ExpectNString(&ext.Location) {
		return nil, dec.Err()
	}

	ext.Extensions, err = readBodyExtensions(dec, depth)
	if err != nil {
		return nil, err
	}
	return &ext, nil
}

// readBodyExtensions reads the body-extension values following the body
// location.
func readBodyExtensions(dec *imapwire.Decoder, depth int) ([]imap.BodyExtension, error) {
	var l []imap.BodyExtension
	for dec.SP() {
		ext, err := readBodyExtension(dec, depth)
		if err != nil {
			return nil, fmt.Errorf("in body-extension: %w", err)
		}
		l = append(l, ext)
	}
	return l, dec.Err()
}

func readBodyExtension(dec *imapwire.Decoder, depth int) (imap.BodyExtension, error) {
	if depth >= maxBodyDepth {
		return nil, errBodyTooDeep
	}

	var l imap.BodyExtensionList
	isList, err := dec.List(func() error {
		ext, err := readBodyExtension(dec, depth+1)
		if err != nil {
			return err
		}
		l = append(l, ext)
		return nil
	})
	if err != nil {
		return nil, err
	} else if isList {
		if !dec.Expect(len(l) > 0, "body-extension") {
			return nil, dec.Err()
		}
		return l, nil
	}

	var num uint32
	if dec.Number(&num) {
		return imap.BodyExtensionNumber(num), nil
	} else if err := dec.Err(); err != nil {
		return nil, err
	}

	return readNString(dec)
}

func readBodyFldDsp(dec *imapwire.Decoder) (*imap.BodyStructureDisposition, error) {
	if !dec.Special('(') {
		if !dec.ExpectNIL() {
			return nil, dec.Err()
		}
		return nil, nil
	}

	var disp imap.BodyStructureDisposition
	if !dec.ExpectString(&disp.Value) || !dec.ExpectSP() {
		return nil, dec.Err()
	}

	var err error
	disp.Params, err = readBodyFldParam(dec)
	if err != nil {
		return nil, err
	}

	if !dec.ExpectSpecial(')') {
		return nil, dec.Err()
	}
	return &disp, nil
}

func readBodyFldParam(dec *imapwire.Decoder) (map[string]string, error) {
	var (
		params map[string]string
		k      string
		hasKey bool
	)
	err := dec.ExpectNList(func() error {
		var s string
		if !dec.ExpectString(&s) {
			return dec.Err()
		}

		if !hasKey {
			k = s
			hasKey = true
		} else {
			if params == nil {
				params = make(map[string]string)
			}
			params[k] = s
			hasKey = false
		}

		return nil
	})
	if err != nil {
		return nil, err
	} else if hasKey {
		return nil, fmt.Errorf("in body-fld-param: key without value")
	}
	return params, nil
}

func readBodyFldLang(dec *imapwire.Decoder) ([]string, error) {
	var l []string
	isList, err := dec.List(func() error {
		var s string
		if !dec.ExpectString(&s) {
			return dec.Err()
		}
		l = append(l, s)
		return nil
	})
	if err != nil || isList {
		return l, err
	}

	var s string
	if !dec.ExpectNString(&s) {
		return nil, dec.Err()
	}
	if s != "" {
		return []string{s}, nil
	} else {
		return nil, nil
	}
}

// writeBodyStructure writes a body structure. Extension data is written
// whenever it is present, for BODY as well as BODYSTRUCTURE.
func writeBodyStructure(enc *imapwire.Encoder, bs imap.BodyStructure) {
	enc.Special('(')
	switch bs := bs.(type) {
	case *imap.BodyStructureSinglePart:
		writeBodyType1part(enc, bs)
	case *imap.BodyStructureMultiPart:
		writeBodyTypeMpart(enc, bs)
	default:
		enc.SetErr(fmt.Errorf("imapcodec: unsupported body structure %T", bs))
	}
	enc.Special(')')
}

func writeBodyType1part(enc *imapwire.Encoder, bs *imap.BodyStructureSinglePart) {
	enc.String(bs.Type).SP().String(bs.Subtype).SP()
	writeBodyFldParam(enc, bs.Params)
	enc.SP()
	writeNStringValue(enc, bs.ID)
	enc.SP()
	writeNStringValue(enc, bs.Description)
	enc.SP()
	enc.String(bs.Encoding)
	enc.SP().Number(bs.Size)

	if msg := bs.MessageRFC822; msg != nil {
		if msg.BodyStructure == nil {
			enc.SetErr(fmt.Errorf("imapcodec: missing message/rfc822 body structure"))
			return
		}
		enc.SP()
		writeEnvelope(enc, msg.Envelope)
		enc.SP()
		writeBodyStructure(enc, msg.BodyStructure)
		enc.SP().Number(msg.NumLines)
	} else if text := bs.Text; text != nil {
		enc.SP().Number(text.NumLines)
	}

	ext := bs.Extended
	if ext == nil {
		return
	}

	enc.SP()
	writeNStringValue(enc, ext.MD5)
	n := 0
	switch {
	case len(ext.Extensions) > 0:
		n = 4
	case ext.Location != "":
		n = 3
	case ext.Language != nil:
		n = 2
	case ext.Disposition != nil:
		n = 1
	}
	writeBodyExtTail(enc, n, ext.Disposition, ext.Language, ext.Location, ext.Extensions)
}

func writeBodyTypeMpart(enc *imapwire.Encoder, bs *imap.BodyStructureMultiPart) {
	if len(bs.Children) == 0 {
		enc.SetErr(fmt.Errorf("imapcodec: multipart body structure without children"))
		return
	}

	for _, child := range bs.Children {
		writeBodyStructure(enc, child)
	}

	enc.SP().String(bs.Subtype)

	ext := bs.Extended
	if ext == nil {
		return
	}

	enc.SP()
	writeBodyFldParam(enc, ext.Params)
	n := 0
	switch {
	case len(ext.Extensions) > 0:
		n = 4
	case ext.Location != "":
		n = 3
	case ext.Language != nil:
		n = 2
	case ext.Disposition != nil:
		n = 1
	}
	writeBodyExtTail(enc, n, ext.Disposition, ext.Language, ext.Location, ext.Extensions)
}

// writeBodyExtTail writes the first n fields of the extension data common to
// single and multiple parts.
func writeBodyExtTail(enc *imapwire.Encoder, n int, disp *imap.BodyStructureDisposition, lang []string, loc string, exts []imap.BodyExtension) {
	if n >= 1 {
		enc.SP()
		writeBodyFldDsp(enc, disp)
	}
	if n >= 2 {
		enc.SP()
		writeBodyFldLang(enc, lang)
	}
	if n >= 3 {
		enc.SP()
		writeNStringValue(enc, loc)
	}
	if n >= 4 {
		for _, ext := range exts {
			enc.SP()
			writeBodyExtension(enc, ext)
		}
	}
}

func writeBodyExtension(enc *imapwire.Encoder, ext imap.BodyExtension) {
	switch ext := ext.(type) {
	case imap.NString:
		writeNString(enc, ext)
	case imap.BodyExtensionNumber:
		enc.Number(uint32(ext))
	case imap.BodyExtensionList:
		if len(ext) == 0 {
			enc.SetErr(fmt.Errorf("imapcodec: empty body extension list"))
		}
		enc.List(len(ext), func(i int) {
			writeBodyExtension(enc, ext[i])
		})
	default:
		enc.SetErr(fmt.Errorf("imapcodec: unsupported body extension %T", ext))
	}
}

func writeBodyFldParam(enc *imapwire.Encoder, params map[string]string) {
	if len(params) == 0 {
		enc.NIL()
		return
	}

	var l []string
	for k := range params {
		l = append(l, k)
	}
	sort.Strings(l)

	enc.List(len(l), func(i int) {
		k := l[i]
		v := params[k]
		enc.String(k).SP().String(v)
	})
}

func writeBodyFldDsp(enc *imapwire.Encoder, disp *imap.BodyStructureDisposition) {
	if disp == nil {
		enc.NIL()
		return
	}

	enc.Special('(').String(disp.Value).SP()
	writeBodyFldParam(enc, disp.Params)
	enc.Special(')')
}

func writeBodyFldLang(enc *imapwire.Encoder, l []string) {
	switch len(l) {
	case 0:
		enc.NIL()
	case 1:
		enc.String(l[0])
	default:
		enc.List(len(l), func(i int) {
			enc.String(l[i])
		})
	}
}
