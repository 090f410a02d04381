// Package imapcodec decodes and encodes IMAP commands, responses and
// greetings.
//
// Decoding never blocks and never reads more than one message: the Decode
// functions return the decoded message along with the rest of the input.
// When the input is truncated, an error matching ErrIncomplete or
// ErrLiteralFound is returned and the caller should call the function again
// with more data.
//
// Encoding produces a list of fragments. Fragments of kind
// imap.FragmentLiteral carry the data of a synchronizing literal and must
// only be sent after the peer has sent a continuation request.
//
// All functions are safe for concurrent use.
package imapcodec

import (
	"bytes"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

// Options contains encoder options.
type Options struct {
	// LiteralPlus enables non-synchronizing literals for all payloads
	// (LITERAL+).
	LiteralPlus bool
	// LiteralMinus enables non-synchronizing literals for payloads up to
	// 4096 bytes (LITERAL- or IMAP4rev2).
	LiteralMinus bool
	// QuotedUTF8 allows non-ASCII quoted strings (IMAP4rev2 or UTF8=ACCEPT).
	QuotedUTF8 bool
}

// OptionsFromCaps returns the encoder options enabled by a set of
// capabilities advertised by the server.
func OptionsFromCaps(caps imap.CapSet) Options {
	return Options{
		LiteralPlus:  caps.Has(imap.CapLiteralPlus),
		LiteralMinus: caps.Has(imap.CapLiteralMinus),
		QuotedUTF8:   caps.Has(imap.CapIMAP4rev2) || caps.Has(imap.CapUTF8Accept),
	}
}

// Encoder encodes IMAP messages. The zero value is ready to use.
type Encoder struct {
	Options Options
}

func (e *Encoder) newWireEncoder(side imapwire.ConnSide) *imapwire.Encoder {
	enc := imapwire.NewEncoder(side)
	if e != nil {
		enc.LiteralPlus = e.Options.LiteralPlus
		enc.LiteralMinus = e.Options.LiteralMinus
		enc.QuotedUTF8 = e.Options.QuotedUTF8
	}
	return enc
}

// EncodeCommand encodes a command sent by a client.
func (e *Encoder) EncodeCommand(cmd *imap.Command) (*Encoded, error) {
	enc := e.newWireEncoder(imapwire.ConnSideClient)
	writeCommand(enc, cmd)
	return finish(enc)
}

// EncodeResponse encodes a response sent by a server.
func (e *Encoder) EncodeResponse(resp imap.Response) (*Encoded, error) {
	enc := e.newWireEncoder(imapwire.ConnSideServer)
	writeResponse(enc, resp)
	return finish(enc)
}

// EncodeGreeting encodes a greeting sent by a server.
func (e *Encoder) EncodeGreeting(g *imap.Greeting) (*Encoded, error) {
	enc := e.newWireEncoder(imapwire.ConnSideServer)
	writeGreeting(enc, g)
	return finish(enc)
}

// EncodeAuthenticateData encodes a line sent by a client during an
// AUTHENTICATE exchange.
func (e *Encoder) EncodeAuthenticateData(data *imap.AuthenticateData) (*Encoded, error) {
	enc := e.newWireEncoder(imapwire.ConnSideClient)
	writeAuthenticateData(enc, data)
	return finish(enc)
}

func finish(enc *imapwire.Encoder) (*Encoded, error) {
	if err := enc.CRLF(); err != nil {
		return nil, err
	}
	wireFrags := enc.Fragments()
	frags := make([]imap.Fragment, len(wireFrags))
	for i, f := range wireFrags {
		kind := imap.FragmentLine
		if f.Literal {
			kind = imap.FragmentLiteral
		}
		frags[i] = imap.Fragment{Kind: kind, Data: f.Data}
	}
	return &Encoded{frags: frags}, nil
}

// Encoded is an encoded message, split into fragments.
//
// Fragments are consumed with Next or Dump. Reset rewinds to the first
// fragment.
type Encoded struct {
	frags []imap.Fragment
	next  int
}

// Next returns the next fragment. ok is false once all fragments have been
// consumed.
func (e *Encoded) Next() (frag imap.Fragment, ok bool) {
	if e.next >= len(e.frags) {
		return imap.Fragment{}, false
	}
	frag = e.frags[e.next]
	e.next++
	return frag, true
}

// Reset rewinds the sequence so that Next returns the first fragment again.
func (e *Encoded) Reset() {
	e.next = 0
}

// Dump consumes all remaining fragments and returns their concatenated
// data.
func (e *Encoded) Dump() []byte {
	var buf bytes.Buffer
	for {
		frag, ok := e.Next()
		if !ok {
			break
		}
		buf.Write(frag.Data)
	}
	return buf.Bytes()
}

// EncodeCommand encodes a command with the default options.
func EncodeCommand(cmd *imap.Command) (*Encoded, error) {
	return (*Encoder)(nil).EncodeCommand(cmd)
}

// EncodeResponse encodes a response with the default options.
func EncodeResponse(resp imap.Response) (*Encoded, error) {
	return (*Encoder)(nil).EncodeResponse(resp)
}

// EncodeGreeting encodes a greeting with the default options.
func EncodeGreeting(g *imap.Greeting) (*Encoded, error) {
	return (*Encoder)(nil).EncodeGreeting(g)
}
