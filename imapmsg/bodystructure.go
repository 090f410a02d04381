package imapmsg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/textproto"

	"github.com/emersion/go-imap-codec"
)

// maxDepth matches the nesting accepted by the decoder.
const maxDepth = 8

// BodyStructure computes a message's body structure from its header and
// body. The BODYSTRUCTURE extension data is only filled if extended is set.
func BodyStructure(header textproto.Header, body io.Reader, extended bool) (imap.BodyStructure, error) {
	return bodyStructure(header, body, "", extended, 0)
}

func bodyStructure(rawHeader textproto.Header, r io.Reader, parentMediaType string, extended bool, depth int) (imap.BodyStructure, error) {
	if depth >= maxDepth {
		return nil, fmt.Errorf("imapmsg: message nested too deeply")
	}

	header := message.Header{Header: rawHeader}
	mediaType, typeParams := contentType(header, parentMediaType)
	primaryType, subType, _ := strings.Cut(mediaType, "/")

	if primaryType == "multipart" {
		bs := &imap.BodyStructureMultiPart{Subtype: subType}
		mr := textproto.NewMultipartReader(r, typeParams["boundary"])
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			} else if err != nil {
				return nil, fmt.Errorf("imapmsg: failed to read %v part: %w", mediaType, err)
			}
			child, err := bodyStructure(part.Header, part, mediaType, extended, depth+1)
			if err != nil {
				return nil, err
			}
			bs.Children = append(bs.Children, child)
		}
		if len(bs.Children) == 0 {
			return nil, fmt.Errorf("imapmsg: %v without parts", mediaType)
		}
		if extended {
			bs.Extended = &imap.BodyStructureMultiPartExt{
				Params:      typeParams,
				Disposition: contentDisposition(header),
				Language:    contentLanguage(header),
				Location:    header.Get("Content-Location"),
			}
		}
		return bs, nil
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	numLines := uint32(bytes.Count(body, []byte("\n")))

	bs := &imap.BodyStructureSinglePart{
		Type:        primaryType,
		Subtype:     subType,
		Params:      typeParams,
		ID:          header.Get("Content-Id"),
		Description: header.Get("Content-Description"),
		Encoding:    contentTransferEncoding(header),
		Size:        uint32(len(body)),
	}
	if mediaType == "message/rfc822" || mediaType == "message/global" {
		br := bufio.NewReader(bytes.NewReader(body))
		childHeader, err := textproto.ReadHeader(br)
		if err != nil {
			return nil, fmt.Errorf("imapmsg: failed to read encapsulated message header: %w", err)
		}
		childBS, err := bodyStructure(childHeader, br, "", extended, depth+1)
		if err != nil {
			return nil, err
		}
		bs.MessageRFC822 = &imap.BodyStructureMessageRFC822{
			Envelope:      Envelope(childHeader),
			BodyStructure: childBS,
			NumLines:      numLines,
		}
	} else if primaryType == "text" {
		bs.Text = &imap.BodyStructureText{NumLines: numLines}
	}
	if extended {
		bs.Extended = &imap.BodyStructureSinglePartExt{
			MD5:         header.Get("Content-Md5"),
			Disposition: contentDisposition(header),
			Language:    contentLanguage(header),
			Location:    header.Get("Content-Location"),
		}
	}
	return bs, nil
}

// contentType returns the media type of a part, applying the RFC 2045 and
// RFC 2046 defaults.
func contentType(header message.Header, parentMediaType string) (string, map[string]string) {
	if !header.Has("Content-Type") {
		if parentMediaType == "multipart/digest" {
			return "message/rfc822", nil
		}
		return "text/plain", map[string]string{"charset": "us-ascii"}
	}
	mediaType, params, err := header.ContentType()
	if err != nil || !strings.Contains(mediaType, "/") {
		return "application/octet-stream", nil
	}
	if len(params) == 0 {
		params = nil
	}
	return strings.ToLower(mediaType), params
}

func contentTransferEncoding(header message.Header) string {
	enc := strings.TrimSpace(header.Get("Content-Transfer-Encoding"))
	if enc == "" {
		return "7bit"
	}
	return strings.ToLower(enc)
}

func contentDisposition(header message.Header) *imap.BodyStructureDisposition {
	disp, dispParams, _ := header.ContentDisposition()
	if disp == "" {
		return nil
	}
	if len(dispParams) == 0 {
		dispParams = nil
	}
	return &imap.BodyStructureDisposition{
		Value:  disp,
		Params: dispParams,
	}
}

func contentLanguage(header message.Header) []string {
	v := header.Get("Content-Language")
	if v == "" {
		return nil
	}
	// TODO: handle CFWS
	l := strings.Split(v, ",")
	for i, lang := range l {
		l[i] = strings.TrimSpace(lang)
	}
	return l
}
