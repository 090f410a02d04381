// Package imap defines the typed values exchanged over an IMAP4 connection.
//
// Commands, responses and greetings are defined in RFC 3501 and RFC 9051.
// Package imapcodec converts these values from and to wire bytes.
package imap

import (
	"strings"
)

// Inbox is the case-insensitive name of the special INBOX mailbox.
const Inbox = "INBOX"

// UID is a message unique identifier.
//
// UIDs are strictly ascending within a mailbox. The codec carries them
// unchanged and doesn't check the ordering.
type UID uint32

// Flag is a message flag (RFC 9051 section 2.3.2). System flags start with a
// backslash, keywords don't.
type Flag string

const (
	FlagSeen     Flag = `\Seen`
	FlagAnswered Flag = `\Answered`
	FlagFlagged  Flag = `\Flagged`
	FlagDeleted  Flag = `\Deleted`
	FlagDraft    Flag = `\Draft`

	// FlagRecent only appears in FETCH and FLAGS responses. It was removed
	// in IMAP4rev2.
	FlagRecent Flag = `\Recent`

	// FlagWildcard is only valid in a PERMANENTFLAGS response code.
	FlagWildcard Flag = `\*`

	FlagForwarded Flag = "$Forwarded"
	FlagMDNSent   Flag = "$MDNSent"
	FlagJunk      Flag = "$Junk"
	FlagNotJunk   Flag = "$NotJunk"
)

// IsSystem reports whether the flag is a system flag or a flag extension,
// as opposed to a keyword.
func (f Flag) IsSystem() bool {
	return strings.HasPrefix(string(f), `\`)
}

// MailboxAttr is a mailbox attribute returned in LIST responses
// (RFC 9051 section 7.3.1).
type MailboxAttr string

const (
	MailboxAttrNonExistent   MailboxAttr = `\NonExistent`
	MailboxAttrNoInferiors   MailboxAttr = `\Noinferiors`
	MailboxAttrNoSelect      MailboxAttr = `\Noselect`
	MailboxAttrHasChildren   MailboxAttr = `\HasChildren`
	MailboxAttrHasNoChildren MailboxAttr = `\HasNoChildren`
	MailboxAttrMarked        MailboxAttr = `\Marked`
	MailboxAttrUnmarked      MailboxAttr = `\Unmarked`
	MailboxAttrSubscribed    MailboxAttr = `\Subscribed`
	MailboxAttrRemote        MailboxAttr = `\Remote`
)

// Special-use mailbox attributes (RFC 6154).
const (
	MailboxAttrAll     MailboxAttr = `\All`
	MailboxAttrArchive MailboxAttr = `\Archive`
	MailboxAttrDrafts  MailboxAttr = `\Drafts`
	MailboxAttrFlagged MailboxAttr = `\Flagged`
	MailboxAttrJunk    MailboxAttr = `\Junk`
	MailboxAttrSent    MailboxAttr = `\Sent`
	MailboxAttrTrash   MailboxAttr = `\Trash`
)
