package imapcodec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emersion/go-imap-codec"
)

var commandTests = []struct {
	raw string
	cmd *imap.Command
}{
	{
		raw: "a NOOP\r\n",
		cmd: &imap.Command{Tag: "a", Body: &imap.NoopCommand{}},
	},
	{
		raw: "A1 LOGIN alice \"pass word\"\r\n",
		cmd: &imap.Command{Tag: "A1", Body: &imap.LoginCommand{Username: "alice", Password: "pass word"}},
	},
	{
		raw: "A2 SELECT INBOX\r\n",
		cmd: &imap.Command{Tag: "A2", Body: &imap.SelectCommand{Mailbox: "INBOX"}},
	},
	{
		raw: "A3 FETCH 1:3,5 (FLAGS BODY.PEEK[HEADER.FIELDS (From Subject)]<0.100>)\r\n",
		cmd: &imap.Command{Tag: "A3", Body: &imap.FetchCommand{
			SeqSet: imap.SeqSet{{Start: 1, Stop: 3}, {Start: 5, Stop: 5}},
			Items: []imap.FetchItem{
				imap.FetchItemFlags,
				&imap.FetchItemBodySection{
					Section: imap.Section{
						Specifier:    imap.PartSpecifierHeaderFields,
						HeaderFields: []string{"From", "Subject"},
					},
					Partial: &imap.SectionPartial{Offset: 0, Size: 100},
					Peek:    true,
				},
			},
		}},
	},
	{
		raw: "A4 FETCH 1 ALL\r\n",
		cmd: &imap.Command{Tag: "A4", Body: &imap.FetchCommand{
			SeqSet: imap.SeqSetNum(1),
			Items:  []imap.FetchItem{imap.FetchItemAll},
		}},
	},
	{
		raw: "A5 FETCH 2 BODY[1.2.MIME]\r\n",
		cmd: &imap.Command{Tag: "A5", Body: &imap.FetchCommand{
			SeqSet: imap.SeqSetNum(2),
			Items: []imap.FetchItem{&imap.FetchItemBodySection{
				Section: imap.Section{Part: []int{1, 2}, Specifier: imap.PartSpecifierMIME},
			}},
		}},
	},
	{
		raw: "A6 UID STORE 1:* +FLAGS.SILENT (\\Seen)\r\n",
		cmd: &imap.Command{Tag: "A6", Body: &imap.StoreCommand{
			UID:    true,
			SeqSet: imap.SeqSet{{Start: 1, Stop: 0}},
			Flags: imap.StoreFlags{
				Op:     imap.StoreFlagsAdd,
				Silent: true,
				Flags:  []imap.Flag{imap.FlagSeen},
			},
		}},
	},
	{
		raw: "A7 SEARCH CHARSET UTF-8 OR FROM alice NOT SEEN\r\n",
		cmd: &imap.Command{Tag: "A7", Body: &imap.SearchCommand{
			Charset: "UTF-8",
			Criteria: []imap.SearchKey{{
				Key: imap.SearchKeyOr,
				Children: []imap.SearchKey{
					{Key: imap.SearchKeyFrom, Value: "alice"},
					{Key: imap.SearchKeyNot, Children: []imap.SearchKey{{Key: imap.SearchKeySeen}}},
				},
			}},
		}},
	},
	{
		raw: "A8 UID SEARCH 1:10 (DELETED HEADER X-Spam yes) LARGER 1024\r\n",
		cmd: &imap.Command{Tag: "A8", Body: &imap.SearchCommand{
			UID: true,
			Criteria: []imap.SearchKey{
				{Key: imap.SearchKeySeqSet, SeqSet: imap.SeqSet{{Start: 1, Stop: 10}}},
				{Key: imap.SearchKeyAnd, Children: []imap.SearchKey{
					{Key: imap.SearchKeyDeleted},
					{Key: imap.SearchKeyHeader, Field: "X-Spam", Value: "yes"},
				}},
				{Key: imap.SearchKeyLarger, Num: 1024},
			},
		}},
	},
	{
		raw: "A9 AUTHENTICATE PLAIN AGFsaWNlAHBhc3M=\r\n",
		cmd: &imap.Command{Tag: "A9", Body: &imap.AuthenticateCommand{
			Mechanism:       "PLAIN",
			InitialResponse: []byte("\x00alice\x00pass"),
		}},
	},
	{
		raw: "A10 AUTHENTICATE PLAIN =\r\n",
		cmd: &imap.Command{Tag: "A10", Body: &imap.AuthenticateCommand{
			Mechanism:       "PLAIN",
			InitialResponse: []byte{},
		}},
	},
	{
		raw: "A11 STATUS INBOX (MESSAGES UNSEEN)\r\n",
		cmd: &imap.Command{Tag: "A11", Body: &imap.StatusCommand{
			Mailbox: "INBOX",
			Items:   []imap.StatusItem{imap.StatusItemNumMessages, imap.StatusItemNumUnseen},
		}},
	},
	{
		raw: "A12 LIST \"\" *\r\n",
		cmd: &imap.Command{Tag: "A12", Body: &imap.ListCommand{Reference: "", Pattern: "*"}},
	},
	{
		raw: "A13 ENABLE CONDSTORE UTF8=ACCEPT\r\n",
		cmd: &imap.Command{Tag: "A13", Body: &imap.EnableCommand{
			Caps: []imap.Cap{imap.CapCondStore, imap.CapUTF8Accept},
		}},
	},
	{
		raw: "A14 UID EXPUNGE 4:6\r\n",
		cmd: &imap.Command{Tag: "A14", Body: &imap.UIDExpungeCommand{
			UIDs: imap.SeqSet{{Start: 4, Stop: 6}},
		}},
	},
	{
		raw: "A15 MOVE 2 Archive\r\n",
		cmd: &imap.Command{Tag: "A15", Body: &imap.MoveCommand{
			SeqSet:  imap.SeqSetNum(2),
			Mailbox: "Archive",
		}},
	},
	{
		raw: "A16 APPEND INBOX (\\Seen) {5+}\r\nhello\r\n",
		cmd: &imap.Command{Tag: "A16", Body: &imap.AppendCommand{
			Mailbox: "INBOX",
			Flags:   []imap.Flag{imap.FlagSeen},
			Message: imap.Literal{Data: []byte("hello"), Mode: imap.LiteralNonSync},
		}},
	},
	{
		raw: "A17 RENAME Drafts \"Old Drafts\"\r\n",
		cmd: &imap.Command{Tag: "A17", Body: &imap.RenameCommand{Mailbox: "Drafts", NewName: "Old Drafts"}},
	},
	{
		raw: "A18 IDLE\r\n",
		cmd: &imap.Command{Tag: "A18", Body: &imap.IdleCommand{}},
	},
}

func TestDecodeCommand(t *testing.T) {
	for _, tc := range commandTests {
		rest, cmd, err := DecodeCommand([]byte(tc.raw))
		if !assert.NoError(t, err, tc.raw) {
			continue
		}
		assert.Empty(t, rest, tc.raw)
		assert.Equal(t, tc.cmd, cmd, tc.raw)
	}
}

func TestEncodeCommand(t *testing.T) {
	for _, tc := range commandTests {
		encoded, err := (&Encoder{Options: Options{LiteralPlus: true}}).EncodeCommand(tc.cmd)
		if !assert.NoError(t, err, tc.raw) {
			continue
		}
		assert.Equal(t, tc.raw, string(encoded.Dump()), tc.raw)
	}
}

func TestDecodeCommand_normalize(t *testing.T) {
	tests := []struct {
		raw  string
		cmd  *imap.Command
		want string
	}{
		{
			raw:  "x select inbox\r\n",
			cmd:  &imap.Command{Tag: "x", Body: &imap.SelectCommand{Mailbox: "INBOX"}},
			want: "x SELECT INBOX\r\n",
		},
		{
			raw: "x fetch 5,1:3 (flags rfc822.size)\r\n",
			cmd: &imap.Command{Tag: "x", Body: &imap.FetchCommand{
				SeqSet: imap.SeqSet{{Start: 1, Stop: 3}, {Start: 5, Stop: 5}},
				Items:  []imap.FetchItem{imap.FetchItemFlags, imap.FetchItemRFC822Size},
			}},
			want: "x FETCH 1:3,5 (FLAGS RFC822.SIZE)\r\n",
		},
		{
			raw: "x STORE 1 FLAGS \\Seen \\Deleted\r\n",
			cmd: &imap.Command{Tag: "x", Body: &imap.StoreCommand{
				SeqSet: imap.SeqSetNum(1),
				Flags:  imap.StoreFlags{Flags: []imap.Flag{imap.FlagSeen, imap.FlagDeleted}},
			}},
			want: "x STORE 1 FLAGS (\\Seen \\Deleted)\r\n",
		},
		{
			raw:  "x authenticate plain\r\n",
			cmd:  &imap.Command{Tag: "x", Body: &imap.AuthenticateCommand{Mechanism: "PLAIN"}},
			want: "x AUTHENTICATE PLAIN\r\n",
		},
	}
	for _, tc := range tests {
		_, cmd, err := DecodeCommand([]byte(tc.raw))
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.cmd, cmd, tc.raw)

		encoded, err := EncodeCommand(cmd)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, string(encoded.Dump()), tc.raw)
	}
}

func TestDecodeCommand_remainder(t *testing.T) {
	rest, cmd, err := DecodeCommand([]byte("a NOOP\r\nb NOOP\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "a", cmd.Tag)
	assert.Equal(t, "b NOOP\r\n", string(rest))

	rest, cmd, err = DecodeCommand(rest)
	require.NoError(t, err)
	assert.Equal(t, "b", cmd.Tag)
	assert.Empty(t, rest)
}

func TestDecodeCommand_incomplete(t *testing.T) {
	tests := []string{
		"",
		"A1",
		"A1 ",
		"A1 NOOP",
		"A1 NOOP\r",
		"A1 LOGIN alice",
		"A1 LOGIN alice \"pass",
		"A1 FETCH 1:",
		"A1 FETCH (FLAGS (\\Seen))",
		"A1 FOO bar",
	}
	for _, raw := range tests {
		_, _, err := DecodeCommand([]byte(raw))
		assert.ErrorIs(t, err, ErrIncomplete, raw)

		var decErr *CommandDecodeError
		if assert.ErrorAs(t, err, &decErr, raw) {
			assert.Equal(t, DecodeIncomplete, decErr.Kind, raw)
		}
	}
}

func TestDecodeCommand_literalFound(t *testing.T) {
	tests := []struct {
		raw    string
		tag    string
		length uint32
		mode   imap.LiteralMode
	}{
		{"A1 LOGIN {5}\r\n", "A1", 5, imap.LiteralSync},
		{"A1 LOGIN {5}\r\nali", "A1", 5, imap.LiteralSync},
		{"A2 APPEND INBOX {10+}\r\nabc", "A2", 10, imap.LiteralNonSync},
		{"A3 APPEND INBOX (\\Seen) \"01-Jan-2024 10:00:00 +0000\" {4294967295}\r\n", "A3", 4294967295, imap.LiteralSync},
	}
	for _, tc := range tests {
		_, _, err := DecodeCommand([]byte(tc.raw))
		assert.ErrorIs(t, err, ErrLiteralFound, tc.raw)

		var decErr *CommandDecodeError
		if !assert.ErrorAs(t, err, &decErr, tc.raw) {
			continue
		}
		assert.Equal(t, DecodeLiteralFound, decErr.Kind, tc.raw)
		assert.Equal(t, tc.tag, decErr.Tag, tc.raw)
		assert.Equal(t, tc.length, decErr.Length, tc.raw)
		assert.Equal(t, tc.mode, decErr.Mode, tc.raw)
	}
}

var failedCommands = []string{
	"A1 FOO\r\n",
	"A1 FETCH (FLAGS (\\Seen))\r\n",
	"* NOOP\r\n",
	"A1 LOGIN alice\r\n",
	"A1 SELECT\r\n",
	"A1 FETCH 0 FLAGS\r\n",
	"A1 FETCH 1 ()\r\n",
	"A1 FETCH 1 (FLAGS ALL)\r\n",
	"A1 FETCH 1 BODY[MIME]\r\n",
	"A1 STATUS INBOX ()\r\n",
	"A1 STORE 1 FLAGZ (\\Seen)\r\n",
	"A1 UID NOOP\r\n",
	"A1 LOGIN a \"b\nc\"\r\n",
}

func TestDecodeCommand_failed(t *testing.T) {
	for _, raw := range failedCommands {
		_, _, err := DecodeCommand([]byte(raw))
		assert.ErrorIs(t, err, ErrFailed, raw)

		var decErr *CommandDecodeError
		if assert.ErrorAs(t, err, &decErr, raw) {
			assert.Equal(t, DecodeFailed, decErr.Kind, raw)
			assert.Error(t, decErr.Err, raw)
		}
	}
}

func TestDecodeCommand_failedIsFinal(t *testing.T) {
	suffixes := []string{"", "\r\n", "A2 NOOP\r\n", "{5}\r\nhello\r\n"}
	for _, raw := range failedCommands {
		for _, suffix := range suffixes {
			_, _, err := DecodeCommand([]byte(raw + suffix))
			assert.ErrorIs(t, err, ErrFailed, raw+suffix)
		}
	}
}

func TestEncodeCommand_literal(t *testing.T) {
	cmd := &imap.Command{Tag: "A1", Body: &imap.LoginCommand{Username: "alice", Password: "p\r\nss"}}

	encoded, err := EncodeCommand(cmd)
	require.NoError(t, err)
	var frags []imap.Fragment
	for {
		frag, ok := encoded.Next()
		if !ok {
			break
		}
		frags = append(frags, frag)
	}
	want := []imap.Fragment{
		{Kind: imap.FragmentLine, Data: []byte("A1 LOGIN alice {5}\r\n")},
		{Kind: imap.FragmentLiteral, Data: []byte("p\r\nss")},
		{Kind: imap.FragmentLine, Data: []byte("\r\n")},
	}
	assert.Equal(t, want, frags)

	for _, options := range []Options{{LiteralPlus: true}, {LiteralMinus: true}} {
		encoded, err := (&Encoder{Options: options}).EncodeCommand(cmd)
		require.NoError(t, err)
		frag, ok := encoded.Next()
		require.True(t, ok)
		assert.Equal(t, imap.FragmentLine, frag.Kind)
		assert.Equal(t, "A1 LOGIN alice {5+}\r\np\r\nss\r\n", string(frag.Data))
		_, ok = encoded.Next()
		assert.False(t, ok)
	}
}

func TestEncodeCommand_literalMinusLimit(t *testing.T) {
	msg := make([]byte, 4097)
	for i := range msg {
		msg[i] = 'a'
	}
	cmd := &imap.Command{Tag: "A1", Body: &imap.AppendCommand{
		Mailbox: "INBOX",
		Message: imap.Literal{Data: msg},
	}}

	encoded, err := (&Encoder{Options: Options{LiteralMinus: true}}).EncodeCommand(cmd)
	require.NoError(t, err)
	frag, ok := encoded.Next()
	require.True(t, ok)
	assert.Equal(t, "A1 APPEND INBOX {4097}\r\n", string(frag.Data))
	frag, ok = encoded.Next()
	require.True(t, ok)
	assert.Equal(t, imap.FragmentLiteral, frag.Kind)
	assert.Len(t, frag.Data, 4097)
}

func TestEncodeCommand_literalOrdering(t *testing.T) {
	cmd := &imap.Command{Tag: "A1", Body: &imap.AppendCommand{
		Mailbox: "Sent\r\nItems",
		Message: imap.Literal{Data: []byte("hello")},
	}}
	encoded, err := EncodeCommand(cmd)
	require.NoError(t, err)

	var kinds []imap.FragmentKind
	var lines []string
	for {
		frag, ok := encoded.Next()
		if !ok {
			break
		}
		kinds = append(kinds, frag.Kind)
		lines = append(lines, string(frag.Data))
	}
	assert.Equal(t, []imap.FragmentKind{
		imap.FragmentLine, imap.FragmentLiteral, imap.FragmentLine, imap.FragmentLiteral, imap.FragmentLine,
	}, kinds)
	assert.Equal(t, []string{
		"A1 APPEND {11}\r\n", "Sent\r\nItems", " {5}\r\n", "hello", "\r\n",
	}, lines)
}

func TestEncodeCommand_invalid(t *testing.T) {
	tests := []*imap.Command{
		{Tag: "", Body: &imap.NoopCommand{}},
		{Tag: "A+1", Body: &imap.NoopCommand{}},
		{Tag: "A1"},
		{Tag: "A1", Body: &imap.FetchCommand{SeqSet: imap.SeqSetNum(1)}},
		{Tag: "A1", Body: &imap.FetchCommand{Items: []imap.FetchItem{imap.FetchItemFlags}}},
		{Tag: "A1", Body: &imap.FetchCommand{
			SeqSet: imap.SeqSetNum(1),
			Items:  []imap.FetchItem{imap.FetchItemAll, imap.FetchItemFlags},
		}},
		{Tag: "A1", Body: &imap.StatusCommand{Mailbox: "INBOX"}},
		{Tag: "A1", Body: &imap.SearchCommand{}},
		{Tag: "A1", Body: &imap.SearchCommand{Criteria: []imap.SearchKey{{Key: imap.SearchKeyOr}}}},
		{Tag: "A1", Body: &imap.EnableCommand{}},
		{Tag: "A1", Body: &imap.StoreCommand{
			SeqSet: imap.SeqSetNum(1),
			Flags:  imap.StoreFlags{Flags: []imap.Flag{"\\"}},
		}},
		{Tag: "A1", Body: &imap.AuthenticateCommand{Mechanism: "SCRAM SHA"}},
	}
	for _, cmd := range tests {
		_, err := EncodeCommand(cmd)
		assert.Error(t, err, "%+v", cmd)
	}
}

func TestCommandDecodeError(t *testing.T) {
	err := error(&CommandDecodeError{Kind: DecodeLiteralFound, Tag: "A1", Length: 5})
	assert.True(t, errors.Is(err, ErrLiteralFound))
	assert.False(t, errors.Is(err, ErrIncomplete))
	assert.False(t, errors.Is(err, ErrFailed))
	assert.Equal(t, `imapcodec: command "A1": sync literal of 5 bytes found`, err.Error())
}
