package imapcodec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

func isMsgAttNameChar(ch byte) bool {
	return ch != '[' && imapwire.IsAtomChar(ch)
}

// readMsgAttName reads a fetch-att or msg-att name. The whole name is read
// at once, so that "BODYSTRUCTURE" is never taken for "BODY" and
// "RFC822.HEADER" never for "RFC822".
func readMsgAttName(dec *imapwire.Decoder) (string, error) {
	var name string
	if !dec.Expect(dec.Func(&name, isMsgAttNameChar), "fetch-att") {
		return "", dec.Err()
	}
	return strings.ToUpper(name), nil
}

func readFetchItems(dec *imapwire.Decoder) ([]imap.FetchItem, error) {
	var items []imap.FetchItem
	isList, err := dec.List(func() error {
		item, err := readFetchAtt(dec, false)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	} else if isList {
		if !dec.Expect(len(items) > 0, "fetch-att") {
			return nil, dec.Err()
		}
		return items, nil
	}

	item, err := readFetchAtt(dec, true)
	if err != nil {
		return nil, err
	}
	return []imap.FetchItem{item}, nil
}

func readFetchAtt(dec *imapwire.Decoder, allowMacro bool) (imap.FetchItem, error) {
	name, err := readMsgAttName(dec)
	if err != nil {
		return nil, err
	}

	switch kw := imap.FetchItemKeyword(name); imap.FetchItem(kw) {
	case imap.FetchItemAll, imap.FetchItemFast, imap.FetchItemFull:
		if !allowMacro {
			return nil, fmt.Errorf("macro %v must be the only fetch item", name)
		}
		return kw, nil
	case imap.FetchItemBodyStructure, imap.FetchItemEnvelope, imap.FetchItemFlags,
		imap.FetchItemInternalDate, imap.FetchItemRFC822, imap.FetchItemRFC822Header,
		imap.FetchItemRFC822Size, imap.FetchItemRFC822Text, imap.FetchItemUID:
		return kw, nil
	case imap.FetchItemBody:
		if !dec.Special('[') {
			return kw, dec.Err()
		}
		return readFetchBodySection(dec, false)
	}

	if name == "BODY.PEEK" {
		if !dec.ExpectSpecial('[') {
			return nil, dec.Err()
		}
		return readFetchBodySection(dec, true)
	}
	return nil, fmt.Errorf("unknown fetch item %q", name)
}

func readFetchBodySection(dec *imapwire.Decoder, peek bool) (*imap.FetchItemBodySection, error) {
	item := imap.FetchItemBodySection{Peek: peek}
	section, err := readSection(dec)
	if err != nil {
		return nil, err
	}
	item.Section = *section

	if dec.Special('<') {
		var partial imap.SectionPartial
		if !dec.ExpectNumber64(&partial.Offset) || !dec.ExpectSpecial('.') || !dec.ExpectNumber64(&partial.Size) {
			return nil, dec.Err()
		}
		if !dec.Expect(partial.Size > 0, "nz-number") || !dec.ExpectSpecial('>') {
			return nil, dec.Err()
		}
		item.Partial = &partial
	} else if err := dec.Err(); err != nil {
		return nil, err
	}

	return &item, nil
}

// readSection reads a section-spec and the closing bracket. The opening
// bracket must have been consumed.
func readSection(dec *imapwire.Decoder) (*imap.Section, error) {
	var section imap.Section

	if dec.Special(']') {
		return &section, nil
	} else if err := dec.Err(); err != nil {
		return nil, err
	}

	part, dot, err := readSectionPart(dec)
	if err != nil {
		return nil, err
	}
	section.Part = part

	if len(part) == 0 || dot {
		var specifier string
		if !dec.ExpectAtom(&specifier) {
			return nil, dec.Err()
		}
		section.Specifier = imap.PartSpecifier(strings.ToUpper(specifier))

		switch section.Specifier {
		case imap.PartSpecifierHeader, imap.PartSpecifierText:
			// ok
		case imap.PartSpecifierMIME:
			if len(part) == 0 {
				return nil, fmt.Errorf("MIME section specifier requires a part number")
			}
		case imap.PartSpecifierHeaderFields, imap.PartSpecifierHeaderFieldsNot:
			if !dec.ExpectSP() {
				return nil, dec.Err()
			}
			section.HeaderFields, err = readHeaderList(dec)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown section specifier %q", specifier)
		}
	}

	if !dec.ExpectSpecial(']') {
		return nil, dec.Err()
	}
	return &section, nil
}

// readSectionPart reads a section-part. dot is true if the part is followed
// by a dot and a section-text.
func readSectionPart(dec *imapwire.Decoder) (part []int, dot bool, err error) {
	for {
		if len(part) > 0 && !dec.Special('.') {
			return part, false, dec.Err()
		}

		var num uint32
		if !dec.NzNumber(&num) {
			if err := dec.Err(); err != nil {
				return nil, false, err
			}
			return part, len(part) > 0, nil
		}
		part = append(part, int(num))
	}
}

func readHeaderList(dec *imapwire.Decoder) ([]string, error) {
	var l []string
	err := dec.ExpectList(func() error {
		var s string
		if !dec.ExpectAString(&s) {
			return dec.Err()
		}
		l = append(l, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !dec.Expect(len(l) > 0, "header-fld-name") {
		return nil, dec.Err()
	}
	return l, nil
}

func writeFetchItems(enc *imapwire.Encoder, items []imap.FetchItem) {
	switch len(items) {
	case 0:
		enc.SetErr(fmt.Errorf("imapcodec: empty FETCH item list"))
	case 1:
		writeFetchItem(enc, items[0])
	default:
		enc.List(len(items), func(i int) {
			if kw, ok := items[i].(imap.FetchItemKeyword); ok && kw.IsMacro() {
				enc.SetErr(fmt.Errorf("imapcodec: macro %v must be the only fetch item", kw))
			}
			writeFetchItem(enc, items[i])
		})
	}
}

func writeFetchItem(enc *imapwire.Encoder, item imap.FetchItem) {
	switch item := item.(type) {
	case imap.FetchItemKeyword:
		enc.Atom(string(item))
	case *imap.FetchItemBodySection:
		enc.Atom("BODY")
		if item.Peek {
			enc.Atom(".PEEK")
		}
		writeSection(enc, &item.Section)
		if partial := item.Partial; partial != nil {
			if partial.Size <= 0 {
				enc.SetErr(fmt.Errorf("imapcodec: invalid partial size %v", partial.Size))
			}
			enc.Special('<').Number64(partial.Offset).Special('.').Number64(partial.Size).Special('>')
		}
	default:
		enc.SetErr(fmt.Errorf("imapcodec: unknown fetch item type %T", item))
	}
}

func writeSection(enc *imapwire.Encoder, section *imap.Section) {
	enc.Special('[')
	writeSectionPart(enc, section.Part)
	if len(section.Part) > 0 && section.Specifier != imap.PartSpecifierNone {
		enc.Special('.')
	}
	if section.Specifier != imap.PartSpecifierNone {
		enc.Atom(string(section.Specifier))

		switch section.Specifier {
		case imap.PartSpecifierHeaderFields, imap.PartSpecifierHeaderFieldsNot:
			if len(section.HeaderFields) == 0 {
				enc.SetErr(fmt.Errorf("imapcodec: empty header field list"))
			}
			enc.SP().List(len(section.HeaderFields), func(i int) {
				enc.AString(section.HeaderFields[i])
			})
		}
	}
	enc.Special(']')
}

func writeSectionPart(enc *imapwire.Encoder, part []int) {
	if len(part) == 0 {
		return
	}

	var l []string
	for _, num := range part {
		if num <= 0 {
			enc.SetErr(fmt.Errorf("imapcodec: invalid section part %v", num))
		}
		l = append(l, strconv.Itoa(num))
	}
	enc.Atom(strings.Join(l, "."))
}

func readMsgAtt(dec *imapwire.Decoder, seqNum uint32) (*imap.FetchData, error) {
	data := imap.FetchData{SeqNum: seqNum}
	err := dec.ExpectList(func() error {
		item, err := readMsgAttItem(dec)
		if err != nil {
			return err
		}
		data.Items = append(data.Items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !dec.Expect(len(data.Items) > 0, "msg-att") {
		return nil, dec.Err()
	}
	return &data, nil
}

func readMsgAttItem(dec *imapwire.Decoder) (imap.FetchItemData, error) {
	name, err := readMsgAttName(dec)
	if err != nil {
		return nil, err
	}

	if name == "BODY" && dec.Special('[') {
		return readMsgAttBodySection(dec)
	} else if err := dec.Err(); err != nil {
		return nil, err
	}

	if !dec.ExpectSP() {
		return nil, dec.Err()
	}

	switch imap.FetchItem(imap.FetchItemKeyword(name)) {
	case imap.FetchItemFlags:
		flags, err := internal.ReadFlagList(dec, false)
		if err != nil {
			return nil, err
		}
		return imap.FetchItemDataFlags{Flags: flags}, nil
	case imap.FetchItemEnvelope:
		envelope, err := readEnvelope(dec)
		if err != nil {
			return nil, fmt.Errorf("in envelope: %w", err)
		}
		return imap.FetchItemDataEnvelope{Envelope: envelope}, nil
	case imap.FetchItemInternalDate:
		var item imap.FetchItemDataInternalDate
		if !dec.ExpectDateTime(&item.Time) {
			return nil, dec.Err()
		}
		return item, nil
	case imap.FetchItemRFC822:
		ns, err := readNString(dec)
		if err != nil {
			return nil, err
		}
		return imap.FetchItemDataRFC822{Data: ns}, nil
	case imap.FetchItemRFC822Header:
		ns, err := readNString(dec)
		if err != nil {
			return nil, err
		}
		return imap.FetchItemDataRFC822Header{Data: ns}, nil
	case imap.FetchItemRFC822Text:
		ns, err := readNString(dec)
		if err != nil {
			return nil, err
		}
		return imap.FetchItemDataRFC822Text{Data: ns}, nil
	case imap.FetchItemRFC822Size:
		var item imap.FetchItemDataRFC822Size
		if !dec.ExpectNumber64(&item.Size) {
			return nil, dec.Err()
		}
		return item, nil
	case imap.FetchItemBodyStructure:
		bs, err := readBody(dec, 0)
		if err != nil {
			return nil, err
		}
		return imap.FetchItemDataBodyStructure{BodyStructure: bs}, nil
	case imap.FetchItemBody:
		bs, err := readBody(dec, 0)
		if err != nil {
			return nil, err
		}
		return imap.FetchItemDataBody{BodyStructure: bs}, nil
	case imap.FetchItemUID:
		var uid uint32
		if !dec.ExpectNzNumber(&uid) {
			return nil, dec.Err()
		}
		return imap.FetchItemDataUID{UID: imap.UID(uid)}, nil
	default:
		return nil, fmt.Errorf("unknown msg-att %q", name)
	}
}

func readMsgAttBodySection(dec *imapwire.Decoder) (imap.FetchItemDataBodySection, error) {
	var item imap.FetchItemDataBodySection
	section, err := readSection(dec)
	if err != nil {
		return item, err
	}
	item.Section = *section

	if dec.Special('<') {
		var origin uint32
		if !dec.ExpectNumber(&origin) || !dec.ExpectSpecial('>') {
			return item, dec.Err()
		}
		item.Origin = &origin
	} else if err := dec.Err(); err != nil {
		return item, err
	}

	if !dec.ExpectSP() {
		return item, dec.Err()
	}
	item.Data, err = readNString(dec)
	return item, err
}

func writeFetchData(enc *imapwire.Encoder, data *imap.FetchData) {
	if data.SeqNum == 0 {
		enc.SetErr(fmt.Errorf("imapcodec: invalid FETCH sequence number 0"))
	}
	if len(data.Items) == 0 {
		enc.SetErr(fmt.Errorf("imapcodec: empty FETCH data"))
	}
	enc.Atom("*").SP().Number(data.SeqNum).SP().Atom("FETCH").SP()
	enc.List(len(data.Items), func(i int) {
		writeMsgAttItem(enc, data.Items[i])
	})
}

func writeMsgAttItem(enc *imapwire.Encoder, item imap.FetchItemData) {
	switch item := item.(type) {
	case imap.FetchItemDataFlags:
		enc.Atom("FLAGS").SP()
		internal.WriteFlagList(enc, item.Flags)
	case imap.FetchItemDataEnvelope:
		enc.Atom("ENVELOPE").SP()
		writeEnvelope(enc, item.Envelope)
	case imap.FetchItemDataInternalDate:
		enc.Atom("INTERNALDATE").SP().DateTime(item.Time)
	case imap.FetchItemDataRFC822:
		enc.Atom("RFC822").SP()
		writeNString(enc, item.Data)
	case imap.FetchItemDataRFC822Header:
		enc.Atom("RFC822.HEADER").SP()
		writeNString(enc, item.Data)
	case imap.FetchItemDataRFC822Text:
		enc.Atom("RFC822.TEXT").SP()
		writeNString(enc, item.Data)
	case imap.FetchItemDataRFC822Size:
		enc.Atom("RFC822.SIZE").SP().Number64(item.Size)
	case imap.FetchItemDataBodyStructure:
		enc.Atom("BODYSTRUCTURE").SP()
		writeBodyStructure(enc, item.BodyStructure)
	case imap.FetchItemDataBody:
		enc.Atom("BODY").SP()
		writeBodyStructure(enc, item.BodyStructure)
	case imap.FetchItemDataBodySection:
		enc.Atom("BODY")
		writeSection(enc, &item.Section)
		if item.Origin != nil {
			enc.Special('<').Number(*item.Origin).Special('>')
		}
		enc.SP()
		writeNString(enc, item.Data)
	case imap.FetchItemDataUID:
		if item.UID == 0 {
			enc.SetErr(fmt.Errorf("imapcodec: invalid UID 0"))
		}
		enc.Atom("UID").SP().Number(uint32(item.UID))
	default:
		enc.SetErr(fmt.Errorf("imapcodec: unknown fetch item data type %T", item))
	}
}
