package imapcodec

import (
	"fmt"
	"strings"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

func readGreeting(dec *imapwire.Decoder) (*imap.Greeting, error) {
	var kind string
	if !dec.ExpectSpecial('*') || !dec.ExpectSP() || !dec.ExpectAtom(&kind) {
		return nil, dec.Err()
	}

	g := &imap.Greeting{Kind: imap.StatusResponseType(strings.ToUpper(kind))}
	switch g.Kind {
	case imap.StatusResponseTypeOK, imap.StatusResponseTypePreAuth, imap.StatusResponseTypeBye:
		// ok
	default:
		return nil, fmt.Errorf("invalid greeting kind %q", kind)
	}

	if dec.SP() {
		var err error
		g.Code, g.Text, err = readRespText(dec)
		if err != nil {
			return nil, fmt.Errorf("in resp-text: %w", err)
		}
	} else if err := dec.Err(); err != nil {
		return nil, err
	}
	if !dec.ExpectCRLF() {
		return nil, dec.Err()
	}
	return g, nil
}

func writeGreeting(enc *imapwire.Encoder, g *imap.Greeting) {
	switch g.Kind {
	case imap.StatusResponseTypeOK, imap.StatusResponseTypePreAuth, imap.StatusResponseTypeBye:
		// ok
	default:
		enc.SetErr(fmt.Errorf("imapcodec: invalid greeting kind %q", g.Kind))
	}
	enc.Atom("*").SP().Atom(string(g.Kind))
	if g.Code != nil || g.Text != "" {
		enc.SP()
		writeRespText(enc, g.Code, g.Text)
	}
}
