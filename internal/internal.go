// Package internal contains helpers shared by the IMAP codec packages.
package internal

import (
	"fmt"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

// ReadFlagList reads a parenthesized list of flags. The list may be empty.
func ReadFlagList(dec *imapwire.Decoder, allowWildcard bool) ([]imap.Flag, error) {
	var flags []imap.Flag
	err := dec.ExpectList(func() error {
		flag, err := ReadFlag(dec, allowWildcard)
		if err != nil {
			return err
		}
		flags = append(flags, flag)
		return nil
	})
	return flags, err
}

// ReadFlag reads a flag. If allowWildcard is set, "\*" is accepted
// (flag-perm).
func ReadFlag(dec *imapwire.Decoder, allowWildcard bool) (imap.Flag, error) {
	isSystem := dec.Special('\\')
	if isSystem && allowWildcard && dec.Special('*') {
		return imap.FlagWildcard, nil
	}
	var name string
	if !dec.ExpectAtom(&name) {
		return "", fmt.Errorf("in flag: %w", dec.Err())
	}
	if isSystem {
		name = "\\" + name
	}
	return imap.Flag(name), nil
}

// WriteFlagList writes a parenthesized list of flags.
func WriteFlagList(enc *imapwire.Encoder, flags []imap.Flag) {
	enc.List(len(flags), func(i int) {
		enc.Flag(string(flags[i]))
	})
}

// ReadMailbox reads a mailbox name. INBOX is normalized to upper case.
func ReadMailbox(dec *imapwire.Decoder, ptr *string) bool {
	var name string
	if !dec.ExpectAString(&name) {
		return false
	}
	*ptr = imap.CanonicalMailboxName(name)
	return true
}

// ReadCapList reads capabilities separated by spaces, until the end of the
// line. At least one capability is required.
func ReadCapList(dec *imapwire.Decoder) ([]imap.Cap, error) {
	var caps []imap.Cap
	for {
		var name string
		if !dec.ExpectAtom(&name) {
			return caps, dec.Err()
		}
		caps = append(caps, imap.Cap(name))
		if !dec.SP() {
			return caps, dec.Err()
		}
	}
}

// WriteCapList writes capabilities separated by spaces.
func WriteCapList(enc *imapwire.Encoder, caps []imap.Cap) {
	if len(caps) == 0 {
		enc.SetErr(fmt.Errorf("imap: empty capability list"))
		return
	}
	for i, c := range caps {
		if i > 0 {
			enc.SP()
		}
		if !imapwire.IsAtom(string(c)) {
			enc.SetErr(fmt.Errorf("imap: invalid capability %q", c))
		}
		enc.Atom(string(c))
	}
}
