package imapmsg

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/textproto"

	"github.com/emersion/go-imap-codec"
)

var errNoSuchPart = errors.New("imapmsg: no such message body part")

// openMessagePart descends into an encapsulated message, if the part is one.
func openMessagePart(header textproto.Header, body io.Reader, parentMediaType string) (textproto.Header, io.Reader, error) {
	mediaType, _ := contentType(message.Header{Header: header}, parentMediaType)
	if mediaType != "message/rfc822" && mediaType != "message/global" {
		return header, body, nil
	}
	br := bufio.NewReader(body)
	header, err := textproto.ReadHeader(br)
	if err != nil {
		return header, nil, err
	}
	return header, br, nil
}

// BodySection extracts a body section from a raw message. The partial range
// is applied if non-nil.
func BodySection(buf []byte, section *imap.Section, partial *imap.SectionPartial) ([]byte, error) {
	br := bufio.NewReader(bytes.NewReader(buf))
	header, err := textproto.ReadHeader(br)
	if err != nil {
		return nil, err
	}
	var body io.Reader = br

	// The first part of a non-multipart message is the message itself
	mediaType, _ := contentType(message.Header{Header: header}, "")
	partPath := section.Part
	if !strings.HasPrefix(mediaType, "multipart/") && len(partPath) > 0 && partPath[0] == 1 {
		partPath = partPath[1:]
	}

	var parentMediaType string
	for _, partNum := range partPath {
		header, body, err = openMessagePart(header, body, parentMediaType)
		if err != nil {
			return nil, err
		}

		mediaType, typeParams := contentType(message.Header{Header: header}, parentMediaType)
		if !strings.HasPrefix(mediaType, "multipart/") {
			if partNum != 1 {
				return nil, errNoSuchPart
			}
			continue
		}

		mr := textproto.NewMultipartReader(body, typeParams["boundary"])
		for j := 1; j <= partNum; j++ {
			p, err := mr.NextPart()
			if err == io.EOF {
				return nil, errNoSuchPart
			} else if err != nil {
				return nil, err
			}
			if j == partNum {
				parentMediaType = mediaType
				header = p.Header
				body = p
			}
		}
	}

	if len(section.Part) > 0 {
		switch section.Specifier {
		case imap.PartSpecifierHeader, imap.PartSpecifierHeaderFields, imap.PartSpecifierHeaderFieldsNot, imap.PartSpecifierText:
			header, body, err = openMessagePart(header, body, parentMediaType)
			if err != nil {
				return nil, err
			}
		}
	}

	switch section.Specifier {
	case imap.PartSpecifierHeaderFields:
		keep := make(map[string]struct{})
		for _, k := range section.HeaderFields {
			keep[strings.ToLower(k)] = struct{}{}
		}
		for field := header.Fields(); field.Next(); {
			if _, ok := keep[strings.ToLower(field.Key())]; !ok {
				field.Del()
			}
		}
	case imap.PartSpecifierHeaderFieldsNot:
		for _, k := range section.HeaderFields {
			header.Del(k)
		}
	}

	var b bytes.Buffer

	writeHeader := true
	switch section.Specifier {
	case imap.PartSpecifierNone:
		writeHeader = len(section.Part) == 0
	case imap.PartSpecifierText:
		writeHeader = false
	}
	if writeHeader {
		if err := textproto.WriteHeader(&b, header); err != nil {
			return nil, err
		}
	}

	switch section.Specifier {
	case imap.PartSpecifierNone, imap.PartSpecifierText:
		if _, err := io.Copy(&b, body); err != nil {
			return nil, err
		}
	}

	return extractPartial(b.Bytes(), partial), nil
}

func extractPartial(b []byte, partial *imap.SectionPartial) []byte {
	if partial == nil {
		return b
	}
	if partial.Offset > int64(len(b)) {
		return nil
	}
	end := partial.Offset + partial.Size
	if end > int64(len(b)) {
		end = int64(len(b))
	}
	return b[partial.Offset:end]
}
