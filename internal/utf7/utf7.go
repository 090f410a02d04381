// Package utf7 implements the modified UTF-7 encoding defined in RFC 3501
// section 5.1.3, used for mailbox names.
package utf7

import (
	"encoding/base64"
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	min = 0x20 // Minimum self-representing UTF-7 value
	max = 0x7E // Maximum self-representing UTF-7 value
)

var b64 = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+,").WithPadding(base64.NoPadding)

// ErrInvalidUTF7 means that a decoder encountered invalid modified UTF-7.
var ErrInvalidUTF7 = errors.New("utf7: invalid modified UTF-7")

// Encoding is the modified UTF-7 encoding. Its decoder converts modified
// UTF-7 to UTF-8, its encoder converts UTF-8 to modified UTF-7.
var Encoding encoding.Encoding = utf7Encoding{}

type utf7Encoding struct{}

func (utf7Encoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &decoder{}}
}

func (utf7Encoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: &encoder{}}
}

// Both transformers operate on the whole input at once: mailbox names are
// short and a base64 run can't be split at arbitrary byte boundaries.

type encoder struct {
	transform.NopResetter
}

func (e *encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if !atEOF {
		return 0, 0, transform.ErrShortSrc
	}
	out := encode(src)
	if len(dst) < len(out) {
		return 0, 0, transform.ErrShortDst
	}
	return copy(dst, out), len(src), nil
}

func encode(src []byte) []byte {
	out := make([]byte, 0, len(src))
	var run []uint16
	flush := func() {
		if len(run) == 0 {
			return
		}
		b := make([]byte, 2*len(run))
		for i, u := range run {
			b[2*i] = byte(u >> 8)
			b[2*i+1] = byte(u)
		}
		out = append(out, '&')
		out = append(out, b64.EncodeToString(b)...)
		out = append(out, '-')
		run = run[:0]
	}

	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		src = src[size:]

		if r >= min && r <= max {
			flush()
			out = append(out, byte(r))
			if r == '&' {
				out = append(out, '-')
			}
			continue
		}

		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			run = append(run, uint16(r1), uint16(r2))
		} else {
			run = append(run, uint16(r))
		}
	}
	flush()
	return out
}

type decoder struct {
	transform.NopResetter
}

func (d *decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if !atEOF {
		return 0, 0, transform.ErrShortSrc
	}
	out, err := decode(src)
	if err != nil {
		return 0, 0, err
	}
	if len(dst) < len(out) {
		return 0, 0, transform.ErrShortDst
	}
	return copy(dst, out), len(src), nil
}

func decode(src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src))
	afterRun := false
	for i := 0; i < len(src); i++ {
		ch := src[i]
		if ch < min || ch > max {
			return nil, ErrInvalidUTF7
		}
		if ch != '&' {
			out = append(out, ch)
			afterRun = false
			continue
		}

		end := i + 1
		for end < len(src) && src[end] != '-' {
			end++
		}
		if end == len(src) {
			return nil, ErrInvalidUTF7
		}
		if end == i+1 {
			// "&-" is an escaped "&"
			out = append(out, '&')
			i = end
			afterRun = false
			continue
		}
		if afterRun {
			// two adjacent runs must be merged into one
			return nil, ErrInvalidUTF7
		}

		runes, err := decodeRun(src[i+1 : end])
		if err != nil {
			return nil, err
		}
		out = append(out, runes...)
		i = end
		afterRun = true
	}
	return out, nil
}

func decodeRun(run []byte) ([]byte, error) {
	b := make([]byte, b64.DecodedLen(len(run)))
	n, err := b64.Decode(b, run)
	if err != nil || n%2 != 0 {
		return nil, ErrInvalidUTF7
	}
	b = b[:n]

	// Padding bits must be zero
	if b64.EncodeToString(b) != string(run) {
		return nil, ErrInvalidUTF7
	}

	units := make([]uint16, n/2)
	for i := range units {
		units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}

	var out []byte
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if utf16.IsSurrogate(r) {
			if i+1 == len(units) {
				return nil, ErrInvalidUTF7
			}
			r = utf16.DecodeRune(r, rune(units[i+1]))
			if r == utf8.RuneError {
				return nil, ErrInvalidUTF7
			}
			i++
		} else if r >= min && r <= max {
			// printable ASCII must not be base64-encoded
			return nil, ErrInvalidUTF7
		}
		out = utf8.AppendRune(out, r)
	}
	return out, nil
}
