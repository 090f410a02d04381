package imapcodec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emersion/go-imap-codec"
)

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		raw  string
		resp imap.Response
	}{
		{
			raw:  "* OK Hello, World!\r\n",
			resp: &imap.StatusResponse{Type: imap.StatusResponseTypeOK, Text: "Hello, World!"},
		},
		{
			raw:  "* SEARCH 1\r\n",
			resp: &imap.SearchData{Nums: []uint32{1}},
		},
		{
			raw:  "* SEARCH\r\n",
			resp: &imap.SearchData{},
		},
		{
			raw:  "* 12 EXPUNGE\r\n",
			resp: &imap.ExpungeData{SeqNum: 12},
		},
		{
			raw:  "* 0 EXISTS\r\n",
			resp: &imap.ExistsData{NumMessages: 0},
		},
		{
			raw: "* 12345 FETCH (BODY[] {5}\r\nABCDE)\r\n",
			resp: &imap.FetchData{SeqNum: 12345, Items: []imap.FetchItemData{
				imap.FetchItemDataBodySection{Data: imap.NewNStringLiteral("ABCDE", imap.LiteralSync)},
			}},
		},
		{
			raw: "* OK [ALERT] Hello, world!\r\n",
			resp: &imap.StatusResponse{
				Type: imap.StatusResponseTypeOK,
				Code: imap.CodeAlert{},
				Text: "Hello, world!",
			},
		},
		{
			raw: "A1 OK [UIDNEXT 4392] Predicted next UID\r\n",
			resp: &imap.StatusResponse{
				Tag:  "A1",
				Type: imap.StatusResponseTypeOK,
				Code: imap.CodeUIDNext{UID: 4392},
				Text: "Predicted next UID",
			},
		},
		{
			raw: "a2 no [TRYCREATE] No such mailbox\r\n",
			resp: &imap.StatusResponse{
				Tag:  "a2",
				Type: imap.StatusResponseTypeNo,
				Code: imap.CodeTryCreate{},
				Text: "No such mailbox",
			},
		},
		{
			raw:  "* BYE\r\n",
			resp: &imap.StatusResponse{Type: imap.StatusResponseTypeBye},
		},
		{
			raw: "* LIST (\\HasNoChildren) \"/\" inbox\r\n",
			resp: &imap.ListData{
				Attrs:   []imap.MailboxAttr{imap.MailboxAttrHasNoChildren},
				Delim:   '/',
				Mailbox: "INBOX",
			},
		},
		{
			raw: "* LSUB () NIL Archive\r\n",
			resp: &imap.ListData{
				Mailbox: "Archive",
				Lsub:    true,
			},
		},
		{
			raw: "* STATUS INBOX (MESSAGES 3 UNSEEN 1)\r\n",
			resp: &imap.StatusData{Mailbox: "INBOX", Items: []imap.StatusItemValue{
				{Item: imap.StatusItemNumMessages, Value: 3},
				{Item: imap.StatusItemNumUnseen, Value: 1},
			}},
		},
		{
			raw:  "* CAPABILITY IMAP4rev1 LITERAL+ AUTH=PLAIN\r\n",
			resp: &imap.CapabilityData{Caps: []imap.Cap{imap.CapIMAP4rev1, imap.CapLiteralPlus, "AUTH=PLAIN"}},
		},
		{
			raw:  "* ENABLED CONDSTORE\r\n",
			resp: &imap.EnabledData{Caps: []imap.Cap{imap.CapCondStore}},
		},
		{
			raw:  "* FLAGS (\\Answered \\Seen $Junk)\r\n",
			resp: &imap.FlagsData{Flags: []imap.Flag{imap.FlagAnswered, imap.FlagSeen, imap.FlagJunk}},
		},
		{
			raw: "* 3 FETCH (UID 42 RFC822.SIZE 1024 FLAGS ())\r\n",
			resp: &imap.FetchData{SeqNum: 3, Items: []imap.FetchItemData{
				imap.FetchItemDataUID{UID: 42},
				imap.FetchItemDataRFC822Size{Size: 1024},
				imap.FetchItemDataFlags{},
			}},
		},
		{
			raw:  "+ Ready for literal data\r\n",
			resp: &imap.ContinueRequest{Text: "Ready for literal data"},
		},
		{
			raw:  "+ aGk=\r\n",
			resp: &imap.ContinueRequest{Base64: []byte("hi")},
		},
		{
			raw:  "+\r\n",
			resp: &imap.ContinueRequest{Base64: []byte{}},
		},
		{
			raw:  "+ \r\n",
			resp: &imap.ContinueRequest{Base64: []byte{}},
		},
		{
			raw:  "+ [ALERT] go ahead\r\n",
			resp: &imap.ContinueRequest{Code: imap.CodeAlert{}, Text: "go ahead"},
		},
	}
	for _, tc := range tests {
		rest, resp, err := DecodeResponse([]byte(tc.raw))
		if !assert.NoError(t, err, tc.raw) {
			continue
		}
		assert.Empty(t, rest, tc.raw)
		assert.Equal(t, tc.resp, resp, tc.raw)
	}
}

func TestDecodeResponse_code(t *testing.T) {
	tests := []struct {
		raw  string
		code imap.Code
		text string
	}{
		{"* OK [XFOO bar baz] hi\r\n", imap.CodeOther{Code: "XFOO", Text: "bar baz"}, "hi"},
		{"* OK [XFOO] hi\r\n", imap.CodeOther{Code: "XFOO"}, "hi"},
		{"* NO [NONEXISTENT] Unknown mailbox\r\n", imap.CodeOther{Code: imap.ResponseCodeNonExistent}, "Unknown mailbox"},
		{"* OK [UIDNEXT abc] x\r\n", imap.CodeOther{Code: "UIDNEXT", Text: "abc"}, "x"},
		{"* OK [UIDNEXT 0] x\r\n", imap.CodeOther{Code: "UIDNEXT", Text: "0"}, "x"},
		{"* OK [ALERT extra] x\r\n", imap.CodeOther{Code: "ALERT", Text: "extra"}, "x"},
		{"* OK [not a code\r\n", nil, "[not a code"},
		{"* OK []\r\n", nil, "[]"},
		{"* OK [ALERT]\r\n", imap.CodeAlert{}, ""},
		{"* OK [READ-ONLY] EXAMINE completed\r\n", imap.CodeReadOnly{}, "EXAMINE completed"},
		{"* OK [UIDVALIDITY 3857529045] UIDs valid\r\n", imap.CodeUIDValidity{UIDValidity: 3857529045}, "UIDs valid"},
		{"* OK [UNSEEN 17] Message 17 is first unseen\r\n", imap.CodeUnseen{SeqNum: 17}, "Message 17 is first unseen"},
		{
			"* OK [PERMANENTFLAGS (\\Deleted \\Seen \\*)] Limited\r\n",
			imap.CodePermanentFlags{Flags: []imap.Flag{imap.FlagDeleted, imap.FlagSeen, imap.FlagWildcard}},
			"Limited",
		},
		{
			"* OK [CAPABILITY IMAP4rev1 SASL-IR] ready\r\n",
			imap.CodeCapability{Caps: []imap.Cap{imap.CapIMAP4rev1, imap.CapSASLIR}},
			"ready",
		},
		{"* NO [BADCHARSET (UTF-8 US-ASCII)] x\r\n", imap.CodeBadCharset{Charsets: []string{"UTF-8", "US-ASCII"}}, "x"},
		{"* NO [BADCHARSET] x\r\n", imap.CodeBadCharset{}, "x"},
		{"* OK [APPENDUID 38505 3955] APPEND completed\r\n", imap.CodeAppendUID{UIDValidity: 38505, UID: 3955}, "APPEND completed"},
		{
			"* OK [COPYUID 38505 304,319:320 3956:3958] Done\r\n",
			imap.CodeCopyUID{
				UIDValidity: 38505,
				SourceUIDs:  imap.SeqSet{{Start: 304, Stop: 304}, {Start: 319, Stop: 320}},
				DestUIDs:    imap.SeqSet{{Start: 3956, Stop: 3958}},
			},
			"Done",
		},
	}
	for _, tc := range tests {
		_, resp, err := DecodeResponse([]byte(tc.raw))
		if !assert.NoError(t, err, tc.raw) {
			continue
		}
		status, ok := resp.(*imap.StatusResponse)
		if !assert.True(t, ok, tc.raw) {
			continue
		}
		assert.Equal(t, tc.code, status.Code, tc.raw)
		assert.Equal(t, tc.text, status.Text, tc.raw)
	}
}

func TestDecodeResponse_longestMatch(t *testing.T) {
	tests := []struct {
		raw  string
		item imap.FetchItemData
	}{
		{"* 1 FETCH (RFC822.TEXT \"hi\")\r\n", imap.FetchItemDataRFC822Text{Data: imap.NewNString("hi")}},
		{"* 1 FETCH (RFC822.HEADER NIL)\r\n", imap.FetchItemDataRFC822Header{}},
		{"* 1 FETCH (RFC822 \"hi\")\r\n", imap.FetchItemDataRFC822{Data: imap.NewNString("hi")}},
		{"* 1 FETCH (RFC822.SIZE 4)\r\n", imap.FetchItemDataRFC822Size{Size: 4}},
		{
			"* 1 FETCH (BODYSTRUCTURE (\"text\" \"plain\" NIL NIL NIL \"7bit\" 2 1))\r\n",
			imap.FetchItemDataBodyStructure{BodyStructure: &imap.BodyStructureSinglePart{
				Type: "text", Subtype: "plain", Encoding: "7bit", Size: 2,
				Text: &imap.BodyStructureText{NumLines: 1},
			}},
		},
		{
			"* 1 FETCH (BODY (\"text\" \"plain\" NIL NIL NIL \"7bit\" 2 1))\r\n",
			imap.FetchItemDataBody{BodyStructure: &imap.BodyStructureSinglePart{
				Type: "text", Subtype: "plain", Encoding: "7bit", Size: 2,
				Text: &imap.BodyStructureText{NumLines: 1},
			}},
		},
		{"* 1 FETCH (BODY[TEXT] \"hi\")\r\n", imap.FetchItemDataBodySection{
			Section: imap.Section{Specifier: imap.PartSpecifierText},
			Data:    imap.NewNString("hi"),
		}},
	}
	for _, tc := range tests {
		_, resp, err := DecodeResponse([]byte(tc.raw))
		if !assert.NoError(t, err, tc.raw) {
			continue
		}
		assert.Equal(t, &imap.FetchData{SeqNum: 1, Items: []imap.FetchItemData{tc.item}}, resp, tc.raw)
	}

	cmdTests := []struct {
		raw  string
		item imap.FetchItem
	}{
		{"A1 FETCH 1 BODYSTRUCTURE\r\n", imap.FetchItemBodyStructure},
		{"A1 FETCH 1 BODY\r\n", imap.FetchItemBody},
		{"A1 FETCH 1 RFC822.HEADER\r\n", imap.FetchItemRFC822Header},
		{"A1 FETCH 1 RFC822\r\n", imap.FetchItemRFC822},
	}
	for _, tc := range cmdTests {
		_, cmd, err := DecodeCommand([]byte(tc.raw))
		if !assert.NoError(t, err, tc.raw) {
			continue
		}
		assert.Equal(t, []imap.FetchItem{tc.item}, cmd.Body.(*imap.FetchCommand).Items, tc.raw)
	}
}

func TestEncodeResponse_bodyExtension(t *testing.T) {
	resp := &imap.FetchData{SeqNum: 1, Items: []imap.FetchItemData{
		imap.FetchItemDataBody{BodyStructure: &imap.BodyStructureSinglePart{
			Type: "text", Subtype: "plain", Encoding: "7bit", Size: 2,
			Text:     &imap.BodyStructureText{NumLines: 1},
			Extended: &imap.BodyStructureSinglePartExt{MD5: "abc"},
		}},
	}}
	encoded, err := EncodeResponse(resp)
	require.NoError(t, err)
	raw := encoded.Dump()
	assert.Equal(t, "* 1 FETCH (BODY (\"text\" \"plain\" NIL NIL NIL \"7bit\" 2 1 \"abc\"))\r\n", string(raw))

	_, decoded, err := DecodeResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, resp, decoded)
}

func TestEnvelope_emptyIsNIL(t *testing.T) {
	want := &imap.FetchData{SeqNum: 1, Items: []imap.FetchItemData{
		imap.FetchItemDataEnvelope{Envelope: &imap.Envelope{}},
	}}
	nilRaw := "* 1 FETCH (ENVELOPE (NIL NIL NIL NIL NIL NIL NIL NIL NIL NIL))\r\n"
	for _, raw := range []string{
		nilRaw,
		"* 1 FETCH (ENVELOPE (NIL \"\" NIL NIL NIL NIL NIL NIL NIL NIL))\r\n",
	} {
		_, resp, err := DecodeResponse([]byte(raw))
		if assert.NoError(t, err, raw) {
			assert.Equal(t, want, resp, raw)
		}
	}

	encoded, err := EncodeResponse(want)
	require.NoError(t, err)
	assert.Equal(t, nilRaw, string(encoded.Dump()))
}

func TestDecodeResponse_internalDate(t *testing.T) {
	raw := "* 1 FETCH (INTERNALDATE \"17-Jul-1996 02:44:25 -0700\")\r\n"
	_, resp, err := DecodeResponse([]byte(raw))
	require.NoError(t, err)

	data := resp.(*imap.FetchData)
	require.Len(t, data.Items, 1)
	item := data.Items[0].(imap.FetchItemDataInternalDate)
	assert.True(t, item.Time.Equal(time.Date(1996, 7, 17, 9, 44, 25, 0, time.UTC)))

	encoded, err := EncodeResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, raw, string(encoded.Dump()))
}

func TestDecodeResponse_literalFound(t *testing.T) {
	tests := []struct {
		raw    string
		length uint32
	}{
		{"* 12345 FETCH (BODY[] {5}\r\n", 5},
		{"* 12345 FETCH (BODY[] {5}\r\nABC", 5},
		{"* 1 FETCH (RFC822.TEXT {10+}\r\n", 10},
	}
	for _, tc := range tests {
		_, _, err := DecodeResponse([]byte(tc.raw))
		assert.ErrorIs(t, err, ErrLiteralFound, tc.raw)

		var decErr *ResponseDecodeError
		if assert.ErrorAs(t, err, &decErr, tc.raw) {
			assert.Equal(t, DecodeLiteralFound, decErr.Kind, tc.raw)
			assert.Equal(t, tc.length, decErr.Length, tc.raw)
		}
	}
}

func TestDecodeResponse_incomplete(t *testing.T) {
	tests := []string{
		"",
		"*",
		"* OK",
		"* OK Hello",
		"* 12 EXPUNGE",
		"* 12345 FETCH (BODY[] {5}\r\nABCDE",
		"* 12345 FETCH (BODY[] {5}\r\nABCDE)\r",
		"+",
		"+ aGk=",
		"* 0 EXPUNGE",
	}
	for _, raw := range tests {
		_, _, err := DecodeResponse([]byte(raw))
		assert.ErrorIs(t, err, ErrIncomplete, raw)
	}
}

func TestDecodeResponse_failed(t *testing.T) {
	tests := []string{
		"* 0 EXPUNGE\r\n",
		"* 0 FETCH (UID 1)\r\n",
		"* 3 FETCH ()\r\n",
		"* 3 FETCH (UID 0)\r\n",
		"A1 PREAUTH hi\r\n",
		"A1 BYE hi\r\n",
		"* FOO\r\n",
		"* SEARCH 0\r\n",
		"* LIST () \"ab\" INBOX\r\n",
		"+ OK\rx\r\n",
	}
	for _, raw := range tests {
		_, _, err := DecodeResponse([]byte(raw))
		assert.ErrorIs(t, err, ErrFailed, raw)

		_, _, err = DecodeResponse([]byte(raw + "* OK more\r\n"))
		assert.ErrorIs(t, err, ErrFailed, raw)
	}
}

func TestEncodeResponse(t *testing.T) {
	tests := []struct {
		resp imap.Response
		raw  string
	}{
		{&imap.SearchData{Nums: []uint32{1}}, "* SEARCH 1\r\n"},
		{&imap.SearchData{}, "* SEARCH\r\n"},
		{&imap.ExpungeData{SeqNum: 12}, "* 12 EXPUNGE\r\n"},
		{&imap.ExistsData{NumMessages: 23}, "* 23 EXISTS\r\n"},
		{&imap.RecentData{NumRecent: 0}, "* 0 RECENT\r\n"},
		{
			&imap.StatusResponse{Type: imap.StatusResponseTypeOK, Code: imap.CodeAlert{}, Text: "Hello, world!"},
			"* OK [ALERT] Hello, world!\r\n",
		},
		{
			&imap.StatusResponse{Tag: "A1", Type: imap.StatusResponseTypeOK, Code: imap.CodeReadWrite{}, Text: "SELECT completed"},
			"A1 OK [READ-WRITE] SELECT completed\r\n",
		},
		{
			&imap.StatusResponse{Tag: "A2", Type: imap.StatusResponseTypeBad},
			"A2 BAD\r\n",
		},
		{&imap.ContinueRequest{Text: "Ready"}, "+ Ready\r\n"},
		{&imap.ContinueRequest{Base64: []byte("hi")}, "+ aGk=\r\n"},
		{&imap.ContinueRequest{Base64: []byte{}}, "+ \r\n"},
		{
			&imap.ListData{Attrs: []imap.MailboxAttr{imap.MailboxAttrHasNoChildren}, Delim: '/', Mailbox: "inbox"},
			"* LIST (\\HasNoChildren) \"/\" INBOX\r\n",
		},
		{
			&imap.StatusData{Mailbox: "INBOX", Items: []imap.StatusItemValue{
				{Item: imap.StatusItemNumMessages, Value: 3},
				{Item: imap.StatusItemNumUnseen, Value: 1},
			}},
			"* STATUS INBOX (MESSAGES 3 UNSEEN 1)\r\n",
		},
		{&imap.CapabilityData{Caps: []imap.Cap{imap.CapIMAP4rev1, imap.CapLiteralPlus}}, "* CAPABILITY IMAP4rev1 LITERAL+\r\n"},
		{&imap.EnabledData{}, "* ENABLED\r\n"},
		{&imap.FlagsData{Flags: []imap.Flag{imap.FlagSeen, imap.FlagDeleted}}, "* FLAGS (\\Seen \\Deleted)\r\n"},
		{
			&imap.FetchData{SeqNum: 7, Items: []imap.FetchItemData{
				imap.FetchItemDataUID{UID: 42},
				imap.FetchItemDataBodySection{
					Section: imap.Section{Part: []int{2}, Specifier: imap.PartSpecifierHeaderFieldsNot, HeaderFields: []string{"Received"}},
					Data:    imap.NString{},
				},
			}},
			"* 7 FETCH (UID 42 BODY[2.HEADER.FIELDS.NOT (Received)] NIL)\r\n",
		},
	}
	for _, tc := range tests {
		encoded, err := EncodeResponse(tc.resp)
		if !assert.NoError(t, err, tc.raw) {
			continue
		}
		assert.Equal(t, tc.raw, string(encoded.Dump()), tc.raw)
	}
}

var multiFragmentResponse = &imap.FetchData{
	SeqNum: 12345,
	Items: []imap.FetchItemData{
		imap.FetchItemDataBodySection{Data: imap.NewNStringLiteral("ABCDE", imap.LiteralNonSync)},
	},
}

func TestEncodeResponse_literal(t *testing.T) {
	encoded, err := EncodeResponse(multiFragmentResponse)
	require.NoError(t, err)

	frag, ok := encoded.Next()
	require.True(t, ok)
	assert.Equal(t, imap.FragmentLine, frag.Kind)
	assert.Equal(t, "* 12345 FETCH (BODY[] {5+}\r\nABCDE)\r\n", string(frag.Data))

	_, ok = encoded.Next()
	assert.False(t, ok)
}

func TestEncodeResponse_literalSync(t *testing.T) {
	resp := &imap.FetchData{
		SeqNum: 1,
		Items: []imap.FetchItemData{
			imap.FetchItemDataRFC822{Data: imap.NewNString("a\r\nb")},
		},
	}
	encoded, err := EncodeResponse(resp)
	require.NoError(t, err)

	// Servers never wait for a continuation request
	frag, ok := encoded.Next()
	require.True(t, ok)
	assert.Equal(t, imap.FragmentLine, frag.Kind)
	assert.Equal(t, "* 1 FETCH (RFC822 {4}\r\na\r\nb)\r\n", string(frag.Data))
}

func TestEncodeResponse_invalid(t *testing.T) {
	tests := []imap.Response{
		&imap.StatusResponse{Tag: "A1", Type: imap.StatusResponseTypeBye, Text: "x"},
		&imap.StatusResponse{Type: imap.StatusResponseTypePreAuth, Text: "x"},
		&imap.StatusResponse{Tag: "A 1", Type: imap.StatusResponseTypeOK, Text: "x"},
		&imap.StatusResponse{Type: imap.StatusResponseTypeOK, Text: "a\r\nb"},
		&imap.StatusResponse{Type: imap.StatusResponseTypeOK, Code: imap.CodeOther{Code: "X]Y"}},
		&imap.StatusResponse{Type: imap.StatusResponseTypeOK, Code: imap.CodeUIDNext{}},
		&imap.FetchData{SeqNum: 0, Items: []imap.FetchItemData{imap.FetchItemDataUID{UID: 1}}},
		&imap.FetchData{SeqNum: 1},
		&imap.FetchData{SeqNum: 1, Items: []imap.FetchItemData{imap.FetchItemDataUID{}}},
		&imap.SearchData{Nums: []uint32{0}},
		&imap.ExpungeData{},
		&imap.CapabilityData{},
		&imap.ListData{Attrs: []imap.MailboxAttr{"NoSlash"}, Mailbox: "INBOX"},
		&imap.ContinueRequest{Text: "done"},
		&imap.ContinueRequest{},
		&imap.StatusResponse{Type: imap.StatusResponseTypeOK, Text: "[ALERT] hi"},
		&imap.StatusResponse{Tag: "A1", Type: imap.StatusResponseTypeNo, Code: imap.CodeAlert{}, Text: "[x]"},
	}
	for _, resp := range tests {
		_, err := EncodeResponse(resp)
		assert.Error(t, err, "%#v", resp)
	}
}

func TestEncodeResponse_continueText(t *testing.T) {
	for _, text := range []string{"done", "[ALERT] hi"} {
		_, err := EncodeResponse(&imap.ContinueRequest{Text: text})
		assert.Error(t, err, text)
	}

	req := &imap.ContinueRequest{Code: imap.CodeAlert{}, Text: "done"}
	encoded, err := EncodeResponse(req)
	require.NoError(t, err)
	raw := encoded.Dump()
	assert.Equal(t, "+ [ALERT] done\r\n", string(raw))

	_, resp, err := DecodeResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, req, resp)
}

func TestEncoded_Dump(t *testing.T) {
	cmd := &imap.Command{Tag: "A1", Body: &imap.LoginCommand{Username: "alice", Password: "p\r\nss"}}

	encoded, err := EncodeCommand(cmd)
	require.NoError(t, err)
	assert.Equal(t, "A1 LOGIN alice {5}\r\np\r\nss\r\n", string(encoded.Dump()))
	_, ok := encoded.Next()
	assert.False(t, ok)
	assert.Empty(t, encoded.Dump())

	encoded, err = EncodeCommand(cmd)
	require.NoError(t, err)
	frag, ok := encoded.Next()
	require.True(t, ok)
	assert.Equal(t, "A1 LOGIN alice {5}\r\n", string(frag.Data))
	assert.Equal(t, "p\r\nss\r\n", string(encoded.Dump()))

	encoded.Reset()
	frag, ok = encoded.Next()
	require.True(t, ok)
	assert.Equal(t, imap.Fragment{Kind: imap.FragmentLine, Data: []byte("A1 LOGIN alice {5}\r\n")}, frag)
	assert.Equal(t, "p\r\nss\r\n", string(encoded.Dump()))
}
