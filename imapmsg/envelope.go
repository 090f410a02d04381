// Package imapmsg builds IMAP message attributes from RFC 5322 messages.
//
// It is meant for servers producing FETCH responses: the returned values
// can be passed as-is to the encoder.
package imapmsg

import (
	"mime"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"

	"github.com/emersion/go-imap-codec"
)

// Envelope returns a message's envelope from its header.
//
// Header values are kept in their raw form, as required by the ENVELOPE
// structure. Address display names are decoded from any charset and
// re-encoded as UTF-8 encoded-words when needed.
func Envelope(h textproto.Header) *imap.Envelope {
	mh := mail.Header{Header: message.Header{Header: h}}
	return &imap.Envelope{
		Date:      h.Get("Date"),
		Subject:   h.Get("Subject"),
		From:      headerAddressList(mh, "From"),
		Sender:    headerAddressList(mh, "Sender"),
		ReplyTo:   headerAddressList(mh, "Reply-To"),
		To:        headerAddressList(mh, "To"),
		Cc:        headerAddressList(mh, "Cc"),
		Bcc:       headerAddressList(mh, "Bcc"),
		InReplyTo: h.Get("In-Reply-To"),
		MessageID: h.Get("Message-Id"),
	}
}

func headerAddressList(h mail.Header, key string) []imap.Address {
	if !h.Has(key) {
		return nil
	}

	// TODO: handle groups, which net/mail doesn't expose
	addrs, _ := h.AddressList(key)
	var l []imap.Address
	for _, addr := range addrs {
		mailbox, host, ok := strings.Cut(addr.Address, "@")
		if !ok {
			continue
		}
		l = append(l, imap.Address{
			Name:    mime.QEncoding.Encode("utf-8", addr.Name),
			Mailbox: mailbox,
			Host:    host,
		})
	}
	return l
}
