package imapcodec

import (
	"fmt"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

func readEnvelope(dec *imapwire.Decoder) (*imap.Envelope, error) {
	var envelope imap.Envelope

	if !dec.ExpectSpecial('(') {
		return nil, dec.Err()
	}

	if !dec.ExpectNString(&envelope.Date) || !dec.ExpectSP() || !dec.ExpectNString(&envelope.Subject) || !dec.ExpectSP() {
		return nil, dec.Err()
	}

	addrLists := []struct {
		name string
		out  *[]imap.Address
	}{
		{"env-from", &envelope.From},
		{"env-sender", &envelope.Sender},
		{"env-reply-to", &envelope.ReplyTo},
		{"env-to", &envelope.To},
		{"env-cc", &envelope.Cc},
		{"env-bcc", &envelope.Bcc},
	}
	for _, addrList := range addrLists {
		l, err := readAddressList(dec)
		if err != nil {
			return nil, fmt.Errorf("in %v: %w", addrList.name, err)
		} else if !dec.ExpectSP() {
			return nil, dec.Err()
		}
		*addrList.out = l
	}

	if !dec.ExpectNString(&envelope.InReplyTo) || !dec.ExpectSP() || !dec.ExpectNString(&envelope.MessageID) {
		return nil, dec.Err()
	}

	if !dec.ExpectSpecial(')') {
		return nil, dec.Err()
	}
	return &envelope, nil
}

func readAddressList(dec *imapwire.Decoder) ([]imap.Address, error) {
	var l []imap.Address
	err := dec.ExpectNList(func() error {
		addr, err := readAddress(dec)
		if err != nil {
			return err
		}
		l = append(l, *addr)
		return nil
	})
	return l, err
}

func readAddress(dec *imapwire.Decoder) (*imap.Address, error) {
	var addr imap.Address
	ok := dec.ExpectSpecial('(') &&
		dec.ExpectNString(&addr.Name) && dec.ExpectSP() &&
		dec.ExpectNString(&addr.Adl) && dec.ExpectSP() &&
		dec.ExpectNString(&addr.Mailbox) && dec.ExpectSP() &&
		dec.ExpectNString(&addr.Host) && dec.ExpectSpecial(')')
	if !ok {
		return nil, fmt.Errorf("in address: %w", dec.Err())
	}
	return &addr, nil
}

func writeEnvelope(enc *imapwire.Encoder, envelope *imap.Envelope) {
	if envelope == nil {
		envelope = new(imap.Envelope)
	}

	sp := enc.SP
	enc.Special('(')
	writeNStringValue(enc, envelope.Date)
	sp()
	writeNStringValue(enc, envelope.Subject)
	sp()
	writeAddressList(enc, envelope.From)
	sp()
	writeAddressList(enc, envelope.Sender)
	sp()
	writeAddressList(enc, envelope.ReplyTo)
	sp()
	writeAddressList(enc, envelope.To)
	sp()
	writeAddressList(enc, envelope.Cc)
	sp()
	writeAddressList(enc, envelope.Bcc)
	sp()
	writeNStringValue(enc, envelope.InReplyTo)
	sp()
	writeNStringValue(enc, envelope.MessageID)
	enc.Special(')')
}

func writeAddressList(enc *imapwire.Encoder, l []imap.Address) {
	if len(l) == 0 {
		enc.NIL()
		return
	}

	enc.List(len(l), func(i int) {
		addr := l[i]
		enc.Special('(')
		writeNStringValue(enc, addr.Name)
		enc.SP()
		writeNStringValue(enc, addr.Adl)
		enc.SP()
		writeNStringValue(enc, addr.Mailbox)
		enc.SP()
		writeNStringValue(enc, addr.Host)
		enc.Special(')')
	})
}

// writeNStringValue writes an empty string as NIL.
func writeNStringValue(enc *imapwire.Encoder, s string) {
	if s == "" {
		enc.NIL()
	} else {
		enc.String(s)
	}
}

// readNString reads an nstring, keeping its representation.
func readNString(dec *imapwire.Decoder) (imap.NString, error) {
	if dec.NIL() {
		return imap.NString{}, nil
	} else if err := dec.Err(); err != nil {
		return imap.NString{}, err
	}

	if dec.Peek('"') {
		var s string
		if !dec.Quoted(&s) {
			return imap.NString{}, dec.Err()
		}
		return imap.NString{Kind: imap.NStringQuoted, Value: s}, nil
	} else if dec.Peek('{') {
		var (
			b       []byte
			nonSync bool
		)
		if !dec.ExpectLiteral(&b, &nonSync) {
			return imap.NString{}, dec.Err()
		}
		return imap.NString{Kind: imap.NStringLiteral, Value: string(b), Mode: literalMode(nonSync)}, nil
	}

	dec.Expect(false, "nstring")
	return imap.NString{}, dec.Err()
}

// writeNString writes an nstring, keeping its representation when possible.
// Quoted values which can't be quoted fall back to a synchronizing literal.
func writeNString(enc *imapwire.Encoder, ns imap.NString) {
	switch ns.Kind {
	case imap.NStringNil:
		enc.NIL()
	case imap.NStringQuoted:
		if imap.IsQuotable(ns.Value, enc.QuotedUTF8) {
			enc.Quoted(ns.Value)
		} else {
			enc.Literal([]byte(ns.Value), false)
		}
	case imap.NStringLiteral:
		enc.Literal([]byte(ns.Value), ns.Mode == imap.LiteralNonSync)
	default:
		enc.SetErr(fmt.Errorf("imapcodec: invalid nstring kind %v", ns.Kind))
	}
}
