package imap

import (
	"github.com/emersion/go-sasl"
)

// NewAuthenticateCommand starts a SASL exchange with saslClient and returns
// the matching AUTHENTICATE command.
//
// The initial response is only included in the command if saslIR is set
// (SASL-IR or IMAP4rev2). Otherwise it is returned, to be sent once the
// server asks for it with an empty continuation request.
func NewAuthenticateCommand(tag string, saslClient sasl.Client, saslIR bool) (cmd *Command, initialResp []byte, err error) {
	if _, err := NewTag(tag); err != nil {
		return nil, nil, err
	}
	mech, ir, err := saslClient.Start()
	if err != nil {
		return nil, nil, err
	}
	if _, err := NewAtom(mech); err != nil {
		return nil, nil, err
	}

	body := &AuthenticateCommand{Mechanism: mech}
	if saslIR {
		body.InitialResponse = ir
		ir = nil
	}
	return &Command{Tag: tag, Body: body}, ir, nil
}

// AuthenticateData is a line sent by a client during a SASL exchange, in
// reply to a continuation request.
type AuthenticateData struct {
	Data []byte
	// Cancel is set if the client aborts the exchange ("*").
	Cancel bool
}
