package imapcodec

import (
	"fmt"
	"strings"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal"
	"github.com/emersion/go-imap-codec/internal/imapnum"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

func readCommand(dec *imapwire.Decoder, tag *string) (*imap.Command, error) {
	if !dec.Expect(dec.Func(tag, imapwire.IsTagChar), "tag") || !dec.ExpectSP() {
		return nil, dec.Err()
	}

	var name string
	if !dec.ExpectAtom(&name) {
		return nil, dec.Err()
	}
	name = strings.ToUpper(name)

	body, err := readCommandBody(dec, name)
	if err != nil {
		return nil, fmt.Errorf("in %v command: %w", name, err)
	}
	if !dec.ExpectCRLF() {
		return nil, dec.Err()
	}
	return &imap.Command{Tag: *tag, Body: body}, nil
}

func readCommandBody(dec *imapwire.Decoder, name string) (imap.CommandBody, error) {
	switch name {
	case "CAPABILITY":
		return &imap.CapabilityCommand{}, nil
	case "NOOP":
		return &imap.NoopCommand{}, nil
	case "LOGOUT":
		return &imap.LogoutCommand{}, nil
	case "STARTTLS":
		return &imap.StartTLSCommand{}, nil
	case "CHECK":
		return &imap.CheckCommand{}, nil
	case "CLOSE":
		return &imap.CloseCommand{}, nil
	case "EXPUNGE":
		return &imap.ExpungeCommand{}, nil
	case "IDLE":
		return &imap.IdleCommand{}, nil
	case "UNSELECT":
		return &imap.UnselectCommand{}, nil
	case "AUTHENTICATE":
		return readAuthenticate(dec)
	case "LOGIN":
		var cmd imap.LoginCommand
		if !dec.ExpectSP() || !dec.ExpectAString(&cmd.Username) || !dec.ExpectSP() || !dec.ExpectAString(&cmd.Password) {
			return nil, dec.Err()
		}
		return &cmd, nil
	case "SELECT", "EXAMINE", "CREATE", "DELETE", "SUBSCRIBE", "UNSUBSCRIBE":
		var mailbox string
		if !dec.ExpectSP() || !internal.ReadMailbox(dec, &mailbox) {
			return nil, dec.Err()
		}
		return newMailboxCommand(name, mailbox), nil
	case "RENAME":
		var cmd imap.RenameCommand
		if !dec.ExpectSP() || !internal.ReadMailbox(dec, &cmd.Mailbox) || !dec.ExpectSP() || !internal.ReadMailbox(dec, &cmd.NewName) {
			return nil, dec.Err()
		}
		return &cmd, nil
	case "LIST", "LSUB":
		var ref, pattern string
		if !dec.ExpectSP() || !dec.ExpectAString(&ref) || !dec.ExpectSP() || !readListMailbox(dec, &pattern) {
			return nil, dec.Err()
		}
		if name == "LSUB" {
			return &imap.LsubCommand{Reference: ref, Pattern: pattern}, nil
		}
		return &imap.ListCommand{Reference: ref, Pattern: pattern}, nil
	case "STATUS":
		return readStatusCmd(dec)
	case "APPEND":
		return readAppend(dec)
	case "ENABLE":
		if !dec.ExpectSP() {
			return nil, dec.Err()
		}
		caps, err := internal.ReadCapList(dec)
		if err != nil {
			return nil, err
		}
		return &imap.EnableCommand{Caps: caps}, nil
	case "UID":
		var sub string
		if !dec.ExpectSP() || !dec.ExpectAtom(&sub) {
			return nil, dec.Err()
		}
		sub = strings.ToUpper(sub)
		switch sub {
		case "EXPUNGE":
			var cmd imap.UIDExpungeCommand
			if !dec.ExpectSP() || !readSeqSet(dec, &cmd.UIDs) {
				return nil, dec.Err()
			}
			return &cmd, nil
		case "SEARCH", "FETCH", "STORE", "COPY", "MOVE":
			return readSeqCommand(dec, sub, true)
		default:
			return nil, fmt.Errorf("unknown UID command %q", sub)
		}
	case "SEARCH", "FETCH", "STORE", "COPY", "MOVE":
		return readSeqCommand(dec, name, false)
	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

func newMailboxCommand(name, mailbox string) imap.CommandBody {
	switch name {
	case "SELECT":
		return &imap.SelectCommand{Mailbox: mailbox}
	case "EXAMINE":
		return &imap.ExamineCommand{Mailbox: mailbox}
	case "CREATE":
		return &imap.CreateCommand{Mailbox: mailbox}
	case "DELETE":
		return &imap.DeleteCommand{Mailbox: mailbox}
	case "SUBSCRIBE":
		return &imap.SubscribeCommand{Mailbox: mailbox}
	case "UNSUBSCRIBE":
		return &imap.UnsubscribeCommand{Mailbox: mailbox}
	default:
		panic(fmt.Errorf("imapcodec: not a mailbox command: %v", name))
	}
}

func readSeqCommand(dec *imapwire.Decoder, name string, uid bool) (imap.CommandBody, error) {
	if name == "SEARCH" {
		cmd, err := readSearch(dec)
		if err != nil {
			return nil, err
		}
		cmd.UID = uid
		return cmd, nil
	}

	var seqSet imap.SeqSet
	if !dec.ExpectSP() || !readSeqSet(dec, &seqSet) || !dec.ExpectSP() {
		return nil, dec.Err()
	}

	switch name {
	case "FETCH":
		items, err := readFetchItems(dec)
		if err != nil {
			return nil, err
		}
		return &imap.FetchCommand{UID: uid, SeqSet: seqSet, Items: items}, nil
	case "STORE":
		flags, err := readStoreFlags(dec)
		if err != nil {
			return nil, err
		}
		return &imap.StoreCommand{UID: uid, SeqSet: seqSet, Flags: *flags}, nil
	case "COPY", "MOVE":
		var mailbox string
		if !internal.ReadMailbox(dec, &mailbox) {
			return nil, dec.Err()
		}
		if name == "MOVE" {
			return &imap.MoveCommand{UID: uid, SeqSet: seqSet, Mailbox: mailbox}, nil
		}
		return &imap.CopyCommand{UID: uid, SeqSet: seqSet, Mailbox: mailbox}, nil
	default:
		panic(fmt.Errorf("imapcodec: not a sequence set command: %v", name))
	}
}

func readSeqSet(dec *imapwire.Decoder, ptr *imap.SeqSet) bool {
	return dec.ExpectNumSet((*imapnum.Set)(ptr))
}

func readAuthenticate(dec *imapwire.Decoder) (*imap.AuthenticateCommand, error) {
	var cmd imap.AuthenticateCommand
	if !dec.ExpectSP() || !dec.ExpectAtom(&cmd.Mechanism) {
		return nil, dec.Err()
	}
	cmd.Mechanism = strings.ToUpper(cmd.Mechanism)
	if !dec.SP() {
		return &cmd, dec.Err()
	}

	ir, err := internal.ReadSASL(dec)
	if err != nil {
		return nil, fmt.Errorf("in initial response: %w", err)
	}
	cmd.InitialResponse = ir
	return &cmd, nil
}

func readListMailbox(dec *imapwire.Decoder, ptr *string) bool {
	if dec.String(ptr) {
		return true
	}
	return dec.Expect(dec.Err() == nil && dec.Func(ptr, imapwire.IsListChar), "list-mailbox")
}

func readStatusCmd(dec *imapwire.Decoder) (*imap.StatusCommand, error) {
	var cmd imap.StatusCommand
	if !dec.ExpectSP() || !internal.ReadMailbox(dec, &cmd.Mailbox) || !dec.ExpectSP() {
		return nil, dec.Err()
	}
	err := dec.ExpectList(func() error {
		var item string
		if !dec.ExpectAtom(&item) {
			return dec.Err()
		}
		cmd.Items = append(cmd.Items, imap.StatusItem(strings.ToUpper(item)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !dec.Expect(len(cmd.Items) > 0, "status-att") {
		return nil, dec.Err()
	}
	return &cmd, nil
}

func readAppend(dec *imapwire.Decoder) (*imap.AppendCommand, error) {
	var cmd imap.AppendCommand
	if !dec.ExpectSP() || !internal.ReadMailbox(dec, &cmd.Mailbox) || !dec.ExpectSP() {
		return nil, dec.Err()
	}

	if dec.Peek('(') {
		flags, err := internal.ReadFlagList(dec, false)
		if err != nil {
			return nil, err
		}
		cmd.Flags = flags
		if !dec.ExpectSP() {
			return nil, dec.Err()
		}
	}

	if dec.Peek('"') {
		if !dec.ExpectDateTime(&cmd.Time) || !dec.ExpectSP() {
			return nil, dec.Err()
		}
	}

	var nonSync bool
	if !dec.ExpectLiteral(&cmd.Message.Data, &nonSync) {
		return nil, dec.Err()
	}
	cmd.Message.Mode = literalMode(nonSync)
	return &cmd, nil
}

func readStoreFlags(dec *imapwire.Decoder) (*imap.StoreFlags, error) {
	var name string
	if !dec.ExpectAtom(&name) || !dec.ExpectSP() {
		return nil, dec.Err()
	}

	var flags imap.StoreFlags
	name = strings.ToUpper(name)
	switch {
	case strings.HasPrefix(name, "+"):
		flags.Op = imap.StoreFlagsAdd
		name = strings.TrimPrefix(name, "+")
	case strings.HasPrefix(name, "-"):
		flags.Op = imap.StoreFlagsDel
		name = strings.TrimPrefix(name, "-")
	}
	switch name {
	case "FLAGS":
		// ok
	case "FLAGS.SILENT":
		flags.Silent = true
	default:
		return nil, fmt.Errorf("unknown STORE data item %q", name)
	}

	if dec.Peek('(') {
		l, err := internal.ReadFlagList(dec, false)
		if err != nil {
			return nil, err
		}
		flags.Flags = l
		return &flags, nil
	}
	for {
		flag, err := internal.ReadFlag(dec, false)
		if err != nil {
			return nil, err
		}
		flags.Flags = append(flags.Flags, flag)
		if !dec.SP() {
			return &flags, dec.Err()
		}
	}
}

func writeCommand(enc *imapwire.Encoder, cmd *imap.Command) {
	if _, err := imap.NewTag(cmd.Tag); err != nil {
		enc.SetErr(err)
		return
	}
	if cmd.Body == nil {
		enc.SetErr(fmt.Errorf("imapcodec: missing command body"))
		return
	}
	enc.Atom(cmd.Tag).SP().Atom(cmd.Body.Name())

	switch body := cmd.Body.(type) {
	case *imap.CapabilityCommand, *imap.NoopCommand, *imap.LogoutCommand, *imap.StartTLSCommand,
		*imap.CheckCommand, *imap.CloseCommand, *imap.ExpungeCommand, *imap.IdleCommand, *imap.UnselectCommand:
		// no arguments
	case *imap.AuthenticateCommand:
		if !imapwire.IsAtom(body.Mechanism) {
			enc.SetErr(fmt.Errorf("imapcodec: invalid SASL mechanism %q", body.Mechanism))
		}
		enc.SP().Atom(body.Mechanism)
		if body.InitialResponse != nil {
			enc.SP()
			internal.WriteSASL(enc, body.InitialResponse)
		}
	case *imap.LoginCommand:
		enc.SP().AString(body.Username).SP().AString(body.Password)
	case *imap.SelectCommand:
		enc.SP().Mailbox(body.Mailbox)
	case *imap.ExamineCommand:
		enc.SP().Mailbox(body.Mailbox)
	case *imap.CreateCommand:
		enc.SP().Mailbox(body.Mailbox)
	case *imap.DeleteCommand:
		enc.SP().Mailbox(body.Mailbox)
	case *imap.SubscribeCommand:
		enc.SP().Mailbox(body.Mailbox)
	case *imap.UnsubscribeCommand:
		enc.SP().Mailbox(body.Mailbox)
	case *imap.RenameCommand:
		enc.SP().Mailbox(body.Mailbox).SP().Mailbox(body.NewName)
	case *imap.ListCommand:
		enc.SP().AString(body.Reference).SP()
		writeListMailbox(enc, body.Pattern)
	case *imap.LsubCommand:
		enc.SP().AString(body.Reference).SP()
		writeListMailbox(enc, body.Pattern)
	case *imap.StatusCommand:
		if len(body.Items) == 0 {
			enc.SetErr(fmt.Errorf("imapcodec: empty STATUS item list"))
		}
		enc.SP().Mailbox(body.Mailbox).SP()
		enc.List(len(body.Items), func(i int) {
			enc.Atom(string(body.Items[i]))
		})
	case *imap.AppendCommand:
		enc.SP().Mailbox(body.Mailbox)
		if len(body.Flags) > 0 {
			enc.SP()
			internal.WriteFlagList(enc, body.Flags)
		}
		if !body.Time.IsZero() {
			enc.SP().DateTime(body.Time)
		}
		nonSync := body.Message.Mode == imap.LiteralNonSync || enc.NonSyncLiteral(len(body.Message.Data))
		enc.SP().Literal(body.Message.Data, nonSync)
	case *imap.UIDExpungeCommand:
		enc.SP()
		writeSeqSet(enc, body.UIDs)
	case *imap.SearchCommand:
		writeSearch(enc, body)
	case *imap.FetchCommand:
		enc.SP()
		writeSeqSet(enc, body.SeqSet)
		enc.SP()
		writeFetchItems(enc, body.Items)
	case *imap.StoreCommand:
		enc.SP()
		writeSeqSet(enc, body.SeqSet)
		enc.SP().Atom(body.Flags.Op.String() + "FLAGS")
		if body.Flags.Silent {
			enc.Atom(".SILENT")
		}
		enc.SP()
		internal.WriteFlagList(enc, body.Flags.Flags)
	case *imap.CopyCommand:
		enc.SP()
		writeSeqSet(enc, body.SeqSet)
		enc.SP().Mailbox(body.Mailbox)
	case *imap.MoveCommand:
		enc.SP()
		writeSeqSet(enc, body.SeqSet)
		enc.SP().Mailbox(body.Mailbox)
	case *imap.EnableCommand:
		enc.SP()
		internal.WriteCapList(enc, body.Caps)
	default:
		enc.SetErr(fmt.Errorf("imapcodec: unsupported command %T", body))
	}
}

func writeSeqSet(enc *imapwire.Encoder, seqSet imap.SeqSet) {
	enc.NumSet(imapnum.Set(seqSet))
}

func writeListMailbox(enc *imapwire.Encoder, pattern string) {
	if isListMailbox(pattern) {
		enc.Atom(pattern)
	} else {
		enc.String(pattern)
	}
}

func isListMailbox(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !imapwire.IsListChar(s[i]) {
			return false
		}
	}
	return true
}

func writeAuthenticateData(enc *imapwire.Encoder, data *imap.AuthenticateData) {
	if data.Cancel {
		enc.Atom("*")
	} else {
		internal.WriteSASL(enc, data.Data)
	}
}

func readAuthenticateData(dec *imapwire.Decoder) (*imap.AuthenticateData, error) {
	if dec.CRLF() {
		return &imap.AuthenticateData{Data: []byte{}}, nil
	} else if dec.Special('*') {
		if !dec.ExpectCRLF() {
			return nil, dec.Err()
		}
		return &imap.AuthenticateData{Cancel: true}, nil
	}

	b, err := internal.ReadSASL(dec)
	if err != nil {
		return nil, err
	}
	if !dec.ExpectCRLF() {
		return nil, dec.Err()
	}
	return &imap.AuthenticateData{Data: b}, nil
}
