package imapcodec

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

func readResponse(dec *imapwire.Decoder) (imap.Response, error) {
	if dec.Special('+') {
		return readContinueRequest(dec)
	} else if err := dec.Err(); err != nil {
		return nil, err
	}

	if dec.Special('*') {
		if !dec.ExpectSP() {
			return nil, dec.Err()
		}
		return readUntagged(dec)
	} else if err := dec.Err(); err != nil {
		return nil, err
	}

	var tag string
	if !dec.Expect(dec.Func(&tag, imapwire.IsTagChar), "tag") || !dec.ExpectSP() {
		return nil, dec.Err()
	}
	var typ string
	if !dec.ExpectAtom(&typ) {
		return nil, dec.Err()
	}
	resp := &imap.StatusResponse{Tag: tag, Type: imap.StatusResponseType(strings.ToUpper(typ))}
	switch resp.Type {
	case imap.StatusResponseTypeOK, imap.StatusResponseTypeNo, imap.StatusResponseTypeBad:
		// ok
	default:
		return nil, fmt.Errorf("invalid tagged response type %q", typ)
	}
	if err := readStatusRespText(dec, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// readStatusRespText reads the optional resp-text of a status response,
// followed by CRLF.
func readStatusRespText(dec *imapwire.Decoder, resp *imap.StatusResponse) error {
	if dec.SP() {
		var err error
		resp.Code, resp.Text, err = readRespText(dec)
		if err != nil {
			return fmt.Errorf("in resp-text: %w", err)
		}
	} else if err := dec.Err(); err != nil {
		return err
	}
	if !dec.ExpectCRLF() {
		return dec.Err()
	}
	return nil
}

func readContinueRequest(dec *imapwire.Decoder) (*imap.ContinueRequest, error) {
	if !dec.SP() {
		// Some servers send "+" alone
		if !dec.ExpectCRLF() {
			return nil, dec.Err()
		}
		return &imap.ContinueRequest{Base64: []byte{}}, nil
	}

	// base64 is tried first and must span the whole line
	mark := dec.Mark()
	var s string
	if !dec.Func(&s, imapwire.IsBase64Char) {
		if err := dec.Err(); err != nil {
			return nil, err
		}
	}
	if dec.CRLF() {
		if b, err := base64.StdEncoding.DecodeString(s); err == nil {
			return &imap.ContinueRequest{Base64: b}, nil
		}
	} else if err := dec.Err(); err != nil {
		return nil, err
	}
	dec.Expect(false, "base64")
	dec.Backtrack(mark)

	code, text, err := readRespText(dec)
	if err != nil {
		return nil, fmt.Errorf("in resp-text: %w", err)
	}
	if !dec.ExpectCRLF() {
		return nil, dec.Err()
	}
	return &imap.ContinueRequest{Code: code, Text: text}, nil
}

func readUntagged(dec *imapwire.Decoder) (imap.Response, error) {
	var num uint32
	if dec.Number(&num) {
		return readMessageData(dec, num)
	} else if err := dec.Err(); err != nil {
		return nil, err
	}

	var name string
	if !dec.ExpectAtom(&name) {
		return nil, dec.Err()
	}
	name = strings.ToUpper(name)

	var (
		resp imap.Response
		err  error
	)
	switch name {
	case "OK", "NO", "BAD", "BYE":
		status := &imap.StatusResponse{Type: imap.StatusResponseType(name)}
		if err := readStatusRespText(dec, status); err != nil {
			return nil, err
		}
		return status, nil
	case "CAPABILITY":
		var caps []imap.Cap
		if !dec.ExpectSP() {
			return nil, dec.Err()
		}
		caps, err = internal.ReadCapList(dec)
		resp = &imap.CapabilityData{Caps: caps}
	case "ENABLED":
		data := &imap.EnabledData{}
		for dec.SP() {
			var c string
			if !dec.ExpectAtom(&c) {
				return nil, dec.Err()
			}
			data.Caps = append(data.Caps, imap.Cap(c))
		}
		resp = data
	case "FLAGS":
		var flags []imap.Flag
		if !dec.ExpectSP() {
			return nil, dec.Err()
		}
		flags, err = internal.ReadFlagList(dec, false)
		resp = &imap.FlagsData{Flags: flags}
	case "LIST", "LSUB":
		if !dec.ExpectSP() {
			return nil, dec.Err()
		}
		var data *imap.ListData
		data, err = readMailboxList(dec)
		if data != nil {
			data.Lsub = name == "LSUB"
		}
		resp = data
	case "SEARCH":
		data := &imap.SearchData{}
		for dec.SP() {
			var n uint32
			if !dec.ExpectNzNumber(&n) {
				return nil, dec.Err()
			}
			data.Nums = append(data.Nums, n)
		}
		resp = data
	case "STATUS":
		if !dec.ExpectSP() {
			return nil, dec.Err()
		}
		resp, err = readStatusData(dec)
	default:
		return nil, fmt.Errorf("unknown untagged response %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("in %v response: %w", name, err)
	}
	if err := dec.Err(); err != nil {
		return nil, err
	}

	if !dec.ExpectCRLF() {
		return nil, dec.Err()
	}
	return resp, nil
}

func readMessageData(dec *imapwire.Decoder, num uint32) (imap.Response, error) {
	var name string
	if !dec.ExpectSP() || !dec.ExpectAtom(&name) {
		return nil, dec.Err()
	}
	name = strings.ToUpper(name)

	var resp imap.Response
	switch name {
	case "EXISTS":
		resp = &imap.ExistsData{NumMessages: num}
	case "RECENT":
		resp = &imap.RecentData{NumRecent: num}
	case "EXPUNGE", "FETCH":
		if !dec.Expect(num > 0, "nz-number") {
			return nil, dec.Err()
		}
		if name == "EXPUNGE" {
			resp = &imap.ExpungeData{SeqNum: num}
			break
		}
		if !dec.ExpectSP() {
			return nil, dec.Err()
		}
		data, err := readMsgAtt(dec, num)
		if err != nil {
			return nil, fmt.Errorf("in FETCH response: %w", err)
		}
		resp = data
	default:
		return nil, fmt.Errorf("unknown message data %q", name)
	}

	if !dec.ExpectCRLF() {
		return nil, dec.Err()
	}
	return resp, nil
}

func readMailboxList(dec *imapwire.Decoder) (*imap.ListData, error) {
	var data imap.ListData

	flags, err := internal.ReadFlagList(dec, false)
	if err != nil {
		return nil, err
	}
	for _, flag := range flags {
		data.Attrs = append(data.Attrs, imap.MailboxAttr(flag))
	}

	if !dec.ExpectSP() {
		return nil, dec.Err()
	}

	if !dec.NIL() {
		var delim string
		if !dec.Expect(dec.Quoted(&delim), "hierarchy delimiter") {
			return nil, dec.Err()
		}
		r, size := utf8.DecodeRuneInString(delim)
		if !dec.Expect(size > 0 && size == len(delim) && r != utf8.RuneError, "single character") {
			return nil, dec.Err()
		}
		data.Delim = r
	}

	if !dec.ExpectSP() || !internal.ReadMailbox(dec, &data.Mailbox) {
		return nil, dec.Err()
	}
	return &data, nil
}

func readStatusData(dec *imapwire.Decoder) (*imap.StatusData, error) {
	var data imap.StatusData
	if !internal.ReadMailbox(dec, &data.Mailbox) || !dec.ExpectSP() {
		return nil, dec.Err()
	}
	err := dec.ExpectList(func() error {
		var (
			name string
			iv   imap.StatusItemValue
		)
		if !dec.ExpectAtom(&name) || !dec.ExpectSP() || !dec.ExpectNumber64(&iv.Value) {
			return dec.Err()
		}
		iv.Item = imap.StatusItem(strings.ToUpper(name))
		data.Items = append(data.Items, iv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func writeResponse(enc *imapwire.Encoder, resp imap.Response) {
	switch resp := resp.(type) {
	case *imap.StatusResponse:
		writeStatusResponse(enc, resp)
	case *imap.ContinueRequest:
		writeContinueRequest(enc, resp)
	case *imap.CapabilityData:
		enc.Atom("*").SP().Atom("CAPABILITY").SP()
		internal.WriteCapList(enc, resp.Caps)
	case *imap.EnabledData:
		enc.Atom("*").SP().Atom("ENABLED")
		if len(resp.Caps) > 0 {
			enc.SP()
			internal.WriteCapList(enc, resp.Caps)
		}
	case *imap.FlagsData:
		enc.Atom("*").SP().Atom("FLAGS").SP()
		internal.WriteFlagList(enc, resp.Flags)
	case *imap.ListData:
		writeListData(enc, resp)
	case *imap.SearchData:
		enc.Atom("*").SP().Atom("SEARCH")
		for _, num := range resp.Nums {
			enc.SP()
			writeNzNumber(enc, num)
		}
	case *imap.StatusData:
		enc.Atom("*").SP().Atom("STATUS").SP().Mailbox(resp.Mailbox).SP()
		enc.List(len(resp.Items), func(i int) {
			item := resp.Items[i]
			enc.Atom(string(item.Item)).SP().Number64(item.Value)
		})
	case *imap.ExistsData:
		enc.Atom("*").SP().Number(resp.NumMessages).SP().Atom("EXISTS")
	case *imap.RecentData:
		enc.Atom("*").SP().Number(resp.NumRecent).SP().Atom("RECENT")
	case *imap.ExpungeData:
		enc.Atom("*").SP()
		writeNzNumber(enc, resp.SeqNum)
		enc.SP().Atom("EXPUNGE")
	case *imap.FetchData:
		writeFetchData(enc, resp)
	default:
		enc.SetErr(fmt.Errorf("imapcodec: unsupported response %T", resp))
	}
}

func writeStatusResponse(enc *imapwire.Encoder, resp *imap.StatusResponse) {
	if resp.Tag == "" {
		switch resp.Type {
		case imap.StatusResponseTypeOK, imap.StatusResponseTypeNo, imap.StatusResponseTypeBad, imap.StatusResponseTypeBye:
			// ok
		default:
			enc.SetErr(fmt.Errorf("imapcodec: invalid untagged status response type %q", resp.Type))
		}
		enc.Atom("*")
	} else {
		switch resp.Type {
		case imap.StatusResponseTypeOK, imap.StatusResponseTypeNo, imap.StatusResponseTypeBad:
			// ok
		default:
			enc.SetErr(fmt.Errorf("imapcodec: invalid tagged status response type %q", resp.Type))
		}
		if _, err := imap.NewTag(resp.Tag); err != nil {
			enc.SetErr(err)
		}
		enc.Atom(resp.Tag)
	}
	enc.SP().Atom(string(resp.Type))
	if resp.Code != nil || resp.Text != "" {
		enc.SP()
		writeRespText(enc, resp.Code, resp.Text)
	}
}

func writeContinueRequest(enc *imapwire.Encoder, req *imap.ContinueRequest) {
	enc.Atom("+").SP()
	if req.Base64 != nil {
		enc.Atom(base64.StdEncoding.EncodeToString(req.Base64))
		return
	}
	if req.Code == nil && imapwire.IsBase64(req.Text) {
		enc.SetErr(fmt.Errorf("imapcodec: continuation text %q would be read back as base64", req.Text))
		return
	}
	writeRespText(enc, req.Code, req.Text)
}

func writeListData(enc *imapwire.Encoder, data *imap.ListData) {
	name := "LIST"
	if data.Lsub {
		name = "LSUB"
	}
	enc.Atom("*").SP().Atom(name).SP()
	enc.List(len(data.Attrs), func(i int) {
		enc.MailboxAttr(string(data.Attrs[i]))
	})
	enc.SP()
	if data.Delim == 0 {
		enc.NIL()
	} else {
		enc.Quoted(string(data.Delim))
	}
	enc.SP().Mailbox(data.Mailbox)
}
