package imap

// ListData is the mailbox data returned by a LIST or LSUB command.
type ListData struct {
	Attrs []MailboxAttr
	// Delim is the hierarchy delimiter, zero if the mailbox has no hierarchy
	Delim   rune
	Mailbox string
	// Lsub is set for LSUB responses
	Lsub bool
}

func (*ListData) response() {}
