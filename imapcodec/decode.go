package imapcodec

import (
	"bytes"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

// decodeFunc decodes a message, returning an error if the decoder stopped.
type decodeFunc func(dec *imapwire.Decoder) error

func run(b []byte, f decodeFunc) (remainder []byte, err error) {
	dec := imapwire.NewDecoder(b)
	err = f(dec)
	if err == nil {
		err = dec.Err()
	}
	if err != nil {
		// A line is only rejected once its CRLF has been received
		if kind, _ := classify(err); kind == DecodeFailed && !lineComplete(b, dec.Offset()) {
			return nil, imapwire.ErrIncomplete
		}
		return nil, err
	}
	return dec.Remaining(), nil
}

// lineComplete reports whether the line containing offset has been
// terminated in b.
func lineComplete(b []byte, offset int) bool {
	if offset > len(b) {
		offset = len(b)
	}
	if offset > 0 && b[offset-1] == '\n' {
		return true
	}
	return bytes.IndexByte(b[offset:], '\n') >= 0
}

// DecodeCommand decodes a command from the start of b.
//
// On success, the rest of the input is returned. Otherwise, the error is a
// *CommandDecodeError. If a literal is found, the error carries the command
// tag: a server must send a continuation request before the client sends
// the data of a synchronizing literal.
func DecodeCommand(b []byte) (remainder []byte, cmd *imap.Command, err error) {
	var tag string
	remainder, err = run(b, func(dec *imapwire.Decoder) error {
		var err error
		cmd, err = readCommand(dec, &tag)
		return err
	})
	if err != nil {
		kind, litErr := classify(err)
		decErr := &CommandDecodeError{Kind: kind}
		switch kind {
		case DecodeLiteralFound:
			decErr.Tag = tag
			decErr.Length = litErr.Size
			decErr.Mode = literalMode(litErr.NonSync)
		case DecodeFailed:
			decErr.Err = err
		}
		return nil, nil, decErr
	}
	return remainder, cmd, nil
}

// DecodeResponse decodes a response from the start of b.
//
// On success, the rest of the input is returned. Otherwise, the error is a
// *ResponseDecodeError.
func DecodeResponse(b []byte) (remainder []byte, resp imap.Response, err error) {
	remainder, err = run(b, func(dec *imapwire.Decoder) error {
		var err error
		resp, err = readResponse(dec)
		return err
	})
	if err != nil {
		kind, litErr := classify(err)
		decErr := &ResponseDecodeError{Kind: kind}
		switch kind {
		case DecodeLiteralFound:
			decErr.Length = litErr.Size
		case DecodeFailed:
			decErr.Err = err
		}
		return nil, nil, decErr
	}
	return remainder, resp, nil
}

// DecodeGreeting decodes a greeting from the start of b.
//
// On success, the rest of the input is returned. Otherwise, the error is a
// *GreetingDecodeError.
func DecodeGreeting(b []byte) (remainder []byte, g *imap.Greeting, err error) {
	remainder, err = run(b, func(dec *imapwire.Decoder) error {
		var err error
		g, err = readGreeting(dec)
		return err
	})
	if err != nil {
		kind, _ := classify(err)
		if kind != DecodeIncomplete {
			kind = DecodeFailed
		}
		return nil, nil, &GreetingDecodeError{Kind: kind, Err: err}
	}
	return remainder, g, nil
}

// DecodeAuthenticateData decodes a line sent by a client during an
// AUTHENTICATE exchange.
func DecodeAuthenticateData(b []byte) (remainder []byte, data *imap.AuthenticateData, err error) {
	remainder, err = run(b, func(dec *imapwire.Decoder) error {
		var err error
		data, err = readAuthenticateData(dec)
		return err
	})
	if err != nil {
		kind, _ := classify(err)
		if kind != DecodeIncomplete {
			kind = DecodeFailed
		}
		return nil, nil, &AuthenticateDataDecodeError{Kind: kind, Err: err}
	}
	return remainder, data, nil
}
