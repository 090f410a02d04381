package imap

import (
	"fmt"
)

// StatusResponseType is a generic status response type.
type StatusResponseType string

const (
	StatusResponseTypeOK      StatusResponseType = "OK"
	StatusResponseTypeNo      StatusResponseType = "NO"
	StatusResponseTypeBad     StatusResponseType = "BAD"
	StatusResponseTypePreAuth StatusResponseType = "PREAUTH"
	StatusResponseTypeBye     StatusResponseType = "BYE"
)

// Response is a response sent by a server: a *StatusResponse, a
// *ContinueRequest or server data (*CapabilityData, *FetchData and so on).
type Response interface {
	response()
}

var (
	_ Response = (*StatusResponse)(nil)
	_ Response = (*ContinueRequest)(nil)
	_ Response = (*CapabilityData)(nil)
	_ Response = (*EnabledData)(nil)
	_ Response = (*FlagsData)(nil)
	_ Response = (*ListData)(nil)
	_ Response = (*SearchData)(nil)
	_ Response = (*StatusData)(nil)
	_ Response = (*ExistsData)(nil)
	_ Response = (*RecentData)(nil)
	_ Response = (*ExpungeData)(nil)
	_ Response = (*FetchData)(nil)
)

// StatusResponse is a generic status response.
//
// Untagged status responses have an empty Tag. Tagged status responses can
// only be OK, NO or BAD. Untagged ones can be OK, NO, BAD or BYE; PREAUTH is
// only valid in a Greeting.
//
// See RFC 9051 section 7.1.
type StatusResponse struct {
	Tag  string
	Type StatusResponseType
	Code Code // optional
	Text string
}

func (*StatusResponse) response() {}

// Err returns an *Error for NO and BAD responses, nil otherwise.
func (resp *StatusResponse) Err() error {
	switch resp.Type {
	case StatusResponseTypeNo, StatusResponseTypeBad:
		return (*Error)(resp)
	default:
		return nil
	}
}

// Error is a NO or BAD status response used as a Go error.
type Error StatusResponse

func (err *Error) Error() string {
	text := err.Text
	if text == "" {
		text = "<unknown>"
	}
	if err.Code == nil {
		return fmt.Sprintf("imap: %v %v", err.Type, text)
	}
	return fmt.Sprintf("imap: %v [%v] %v", err.Type, err.Code.Name(), text)
}

// ContinueRequest is a continuation request ("+" response), sent by a
// server to ask for the data of a synchronizing literal or during SASL
// authentication.
type ContinueRequest struct {
	Code Code // optional
	Text string
	// Base64 holds the decoded payload of a base64 continuation request
	// (SASL challenge). If non-nil, Code and Text are ignored.
	Base64 []byte
}

func (*ContinueRequest) response() {}
