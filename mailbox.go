package imap

import (
	"strings"

	"github.com/emersion/go-imap-codec/internal/utf7"
)

// CanonicalMailboxName returns the canonical form of a mailbox name.
//
// Mailbox names are case-sensitive, except INBOX which is normalized to
// upper case.
func CanonicalMailboxName(name string) string {
	if strings.EqualFold(name, Inbox) {
		return Inbox
	}
	return name
}

// EncodeMailboxName converts a UTF-8 mailbox name to modified UTF-7, the
// representation used on the wire unless UTF8=ACCEPT is enabled.
func EncodeMailboxName(name string) (string, error) {
	return utf7.Encoding.NewEncoder().String(name)
}

// DecodeMailboxName converts a modified UTF-7 mailbox name to UTF-8.
func DecodeMailboxName(name string) (string, error) {
	return utf7.Encoding.NewDecoder().String(name)
}
