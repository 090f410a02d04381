package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/imapcodec"
	"github.com/emersion/go-imap-codec/imapmsg"
)

func loadMessage(path string) (*imapmsg.Message, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &imapmsg.Message{
		UID:          1,
		InternalDate: fi.ModTime(),
		Data:         b,
	}, nil
}

// answer replies to FETCH commands as if the message was the only one in
// the selected mailbox.
func answer(cmd *imap.Command, msg *imapmsg.Message) {
	fetch, ok := cmd.Body.(*imap.FetchCommand)
	if !ok {
		return
	}

	var responses []imap.Response
	num := uint32(1)
	if fetch.UID {
		num = uint32(msg.UID)
	}
	if fetch.SeqSet.Contains(num) || fetch.SeqSet.Dynamic() {
		data, err := msg.Fetch(1, fetch.Items)
		if err != nil {
			responses = append(responses, &imap.StatusResponse{
				Tag:  cmd.Tag,
				Type: imap.StatusResponseTypeNo,
				Text: fmt.Sprintf("FETCH failed: %v", err),
			})
			writeResponses(responses)
			return
		}
		responses = append(responses, data)
	}
	responses = append(responses, &imap.StatusResponse{
		Tag:  cmd.Tag,
		Type: imap.StatusResponseTypeOK,
		Text: "FETCH completed",
	})
	writeResponses(responses)
}

func writeResponses(responses []imap.Response) {
	for _, resp := range responses {
		encoded, err := imapcodec.EncodeResponse(resp)
		if err != nil {
			fmt.Printf("Failed to encode response: %v\n", err)
			continue
		}
		s := strings.TrimSuffix(string(encoded.Dump()), "\r\n")
		for _, line := range strings.Split(s, "\r\n") {
			fmt.Printf("S: %v%v%v\n", colorServer, line, colorReset)
		}
	}
}
