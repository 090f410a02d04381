package imap

import (
	"time"
)

// Command is a command sent by a client, identified by a tag.
type Command struct {
	Tag  string
	Body CommandBody
}

// CommandBody is the part of a command following the tag.
type CommandBody interface {
	// Name returns the command name, e.g. "UID FETCH".
	Name() string
}

func uidName(uid bool, name string) string {
	if uid {
		return "UID " + name
	}
	return name
}

type CapabilityCommand struct{}

func (*CapabilityCommand) Name() string { return "CAPABILITY" }

type NoopCommand struct{}

func (*NoopCommand) Name() string { return "NOOP" }

type LogoutCommand struct{}

func (*LogoutCommand) Name() string { return "LOGOUT" }

type StartTLSCommand struct{}

func (*StartTLSCommand) Name() string { return "STARTTLS" }

// AuthenticateCommand starts a SASL authentication exchange.
type AuthenticateCommand struct {
	Mechanism string
	// InitialResponse is sent with the command if non-nil (requires
	// SASL-IR). An empty initial response is sent as "=".
	InitialResponse []byte
}

func (*AuthenticateCommand) Name() string { return "AUTHENTICATE" }

type LoginCommand struct {
	Username, Password string
}

func (*LoginCommand) Name() string { return "LOGIN" }

type SelectCommand struct {
	Mailbox string
}

func (*SelectCommand) Name() string { return "SELECT" }

type ExamineCommand struct {
	Mailbox string
}

func (*ExamineCommand) Name() string { return "EXAMINE" }

type CreateCommand struct {
	Mailbox string
}

func (*CreateCommand) Name() string { return "CREATE" }

type DeleteCommand struct {
	Mailbox string
}

func (*DeleteCommand) Name() string { return "DELETE" }

type RenameCommand struct {
	Mailbox, NewName string
}

func (*RenameCommand) Name() string { return "RENAME" }

type SubscribeCommand struct {
	Mailbox string
}

func (*SubscribeCommand) Name() string { return "SUBSCRIBE" }

type UnsubscribeCommand struct {
	Mailbox string
}

func (*UnsubscribeCommand) Name() string { return "UNSUBSCRIBE" }

// ListCommand lists mailboxes. Pattern may contain the "*" and "%"
// wildcards.
type ListCommand struct {
	Reference, Pattern string
}

func (*ListCommand) Name() string { return "LIST" }

type LsubCommand struct {
	Reference, Pattern string
}

func (*LsubCommand) Name() string { return "LSUB" }

type StatusCommand struct {
	Mailbox string
	Items   []StatusItem
}

func (*StatusCommand) Name() string { return "STATUS" }

// AppendCommand appends a message to a mailbox.
type AppendCommand struct {
	Mailbox string
	Flags   []Flag
	// Time is the internal date of the message, omitted if zero
	Time    time.Time
	Message Literal
}

func (*AppendCommand) Name() string { return "APPEND" }

type CheckCommand struct{}

func (*CheckCommand) Name() string { return "CHECK" }

type CloseCommand struct{}

func (*CloseCommand) Name() string { return "CLOSE" }

type ExpungeCommand struct{}

func (*ExpungeCommand) Name() string { return "EXPUNGE" }

// UIDExpungeCommand expunges the messages with the provided UIDs (requires
// UIDPLUS or IMAP4rev2).
type UIDExpungeCommand struct {
	UIDs SeqSet
}

func (*UIDExpungeCommand) Name() string { return "UID EXPUNGE" }

type SearchCommand struct {
	UID bool
	// Charset is omitted if empty
	Charset  string
	Criteria []SearchKey
}

func (cmd *SearchCommand) Name() string { return uidName(cmd.UID, "SEARCH") }

type FetchCommand struct {
	UID    bool
	SeqSet SeqSet
	Items  []FetchItem
}

func (cmd *FetchCommand) Name() string { return uidName(cmd.UID, "FETCH") }

type StoreCommand struct {
	UID    bool
	SeqSet SeqSet
	Flags  StoreFlags
}

func (cmd *StoreCommand) Name() string { return uidName(cmd.UID, "STORE") }

type CopyCommand struct {
	UID     bool
	SeqSet  SeqSet
	Mailbox string
}

func (cmd *CopyCommand) Name() string { return uidName(cmd.UID, "COPY") }

// MoveCommand requires MOVE or IMAP4rev2.
type MoveCommand struct {
	UID     bool
	SeqSet  SeqSet
	Mailbox string
}

func (cmd *MoveCommand) Name() string { return uidName(cmd.UID, "MOVE") }

// IdleCommand requires IDLE or IMAP4rev2. The client ends the IDLE
// exchange with a "DONE" line, which isn't a command.
type IdleCommand struct{}

func (*IdleCommand) Name() string { return "IDLE" }

// EnableCommand requires ENABLE or IMAP4rev2.
type EnableCommand struct {
	Caps []Cap
}

func (*EnableCommand) Name() string { return "ENABLE" }

// UnselectCommand requires UNSELECT or IMAP4rev2.
type UnselectCommand struct{}

func (*UnselectCommand) Name() string { return "UNSELECT" }
