package imapmsg

import (
	"bufio"
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-message/textproto"

	"github.com/emersion/go-imap-codec"
)

// Message is a message stored by a server.
type Message struct {
	UID          imap.UID
	Flags        []imap.Flag
	InternalDate time.Time
	// Data is the raw RFC 5322 message
	Data []byte
}

// expandMacro returns the items a FETCH macro stands for.
func expandMacro(kw imap.FetchItemKeyword) []imap.FetchItem {
	switch imap.FetchItem(kw) {
	case imap.FetchItemAll:
		return []imap.FetchItem{imap.FetchItemFlags, imap.FetchItemInternalDate, imap.FetchItemRFC822Size, imap.FetchItemEnvelope}
	case imap.FetchItemFast:
		return []imap.FetchItem{imap.FetchItemFlags, imap.FetchItemInternalDate, imap.FetchItemRFC822Size}
	case imap.FetchItemFull:
		return []imap.FetchItem{imap.FetchItemFlags, imap.FetchItemInternalDate, imap.FetchItemRFC822Size, imap.FetchItemEnvelope, imap.FetchItemBody}
	}
	return []imap.FetchItem{kw}
}

// Fetch builds the FETCH response for the message with the provided
// sequence number.
//
// Macros are expanded. The UID is always included, first, as servers do
// for UID FETCH.
func (msg *Message) Fetch(seqNum uint32, items []imap.FetchItem) (*imap.FetchData, error) {
	data := &imap.FetchData{
		SeqNum: seqNum,
		Items:  []imap.FetchItemData{imap.FetchItemDataUID{UID: msg.UID}},
	}

	var expanded []imap.FetchItem
	for _, item := range items {
		if kw, ok := item.(imap.FetchItemKeyword); ok {
			expanded = append(expanded, expandMacro(kw)...)
		} else {
			expanded = append(expanded, item)
		}
	}

	for _, item := range expanded {
		if item == imap.FetchItemUID {
			continue
		}
		itemData, err := msg.fetchItem(item)
		if err != nil {
			return nil, err
		}
		data.Items = append(data.Items, itemData)
	}
	return data, nil
}

func (msg *Message) fetchItem(item imap.FetchItem) (imap.FetchItemData, error) {
	if item, ok := item.(*imap.FetchItemBodySection); ok {
		b, err := BodySection(msg.Data, &item.Section, item.Partial)
		if err != nil {
			return nil, err
		}
		itemData := imap.FetchItemDataBodySection{
			Section: item.Section,
			Data:    imap.NewNString(string(b)),
		}
		if item.Partial != nil {
			origin := uint32(item.Partial.Offset)
			itemData.Origin = &origin
		}
		return itemData, nil
	}

	switch item {
	case imap.FetchItemFlags:
		return imap.FetchItemDataFlags{Flags: msg.Flags}, nil
	case imap.FetchItemInternalDate:
		return imap.FetchItemDataInternalDate{Time: msg.InternalDate}, nil
	case imap.FetchItemRFC822Size:
		return imap.FetchItemDataRFC822Size{Size: int64(len(msg.Data))}, nil
	case imap.FetchItemRFC822:
		return imap.FetchItemDataRFC822{Data: imap.NewNString(string(msg.Data))}, nil
	case imap.FetchItemRFC822Header:
		b, err := BodySection(msg.Data, &imap.Section{Specifier: imap.PartSpecifierHeader}, nil)
		if err != nil {
			return nil, err
		}
		return imap.FetchItemDataRFC822Header{Data: imap.NewNString(string(b))}, nil
	case imap.FetchItemRFC822Text:
		b, err := BodySection(msg.Data, &imap.Section{Specifier: imap.PartSpecifierText}, nil)
		if err != nil {
			return nil, err
		}
		return imap.FetchItemDataRFC822Text{Data: imap.NewNString(string(b))}, nil
	case imap.FetchItemEnvelope:
		header, err := msg.header()
		if err != nil {
			return nil, err
		}
		return imap.FetchItemDataEnvelope{Envelope: Envelope(header)}, nil
	case imap.FetchItemBody, imap.FetchItemBodyStructure:
		br := bufio.NewReader(bytes.NewReader(msg.Data))
		header, err := textproto.ReadHeader(br)
		if err != nil {
			return nil, err
		}
		extended := item == imap.FetchItemBodyStructure
		bs, err := BodyStructure(header, br, extended)
		if err != nil {
			return nil, err
		}
		if extended {
			return imap.FetchItemDataBodyStructure{BodyStructure: bs}, nil
		}
		return imap.FetchItemDataBody{BodyStructure: bs}, nil
	default:
		return nil, fmt.Errorf("imapmsg: unsupported FETCH item %v", item)
	}
}

func (msg *Message) header() (textproto.Header, error) {
	return textproto.ReadHeader(bufio.NewReader(bytes.NewReader(msg.Data)))
}
