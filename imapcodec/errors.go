package imapcodec

import (
	"errors"
	"fmt"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

var (
	// ErrIncomplete is matched by decode errors reporting that more input is
	// needed. The caller should retry with the same input followed by more
	// bytes.
	ErrIncomplete = errors.New("imapcodec: incomplete input")
	// ErrFailed is matched by decode errors reporting that the input can't be
	// decoded, no matter what follows.
	ErrFailed = errors.New("imapcodec: decoding failed")
	// ErrLiteralFound is matched by decode errors reporting that a literal
	// announcement has been decoded but its data isn't available yet.
	ErrLiteralFound = errors.New("imapcodec: literal found")
)

// DecodeErrorKind is the outcome of a failed decode call.
type DecodeErrorKind int

const (
	DecodeIncomplete DecodeErrorKind = iota + 1
	DecodeFailed
	DecodeLiteralFound
)

func (kind DecodeErrorKind) String() string {
	switch kind {
	case DecodeIncomplete:
		return "incomplete"
	case DecodeFailed:
		return "failed"
	case DecodeLiteralFound:
		return "literal found"
	default:
		return fmt.Sprintf("DecodeErrorKind(%d)", int(kind))
	}
}

func (kind DecodeErrorKind) sentinel() error {
	switch kind {
	case DecodeIncomplete:
		return ErrIncomplete
	case DecodeFailed:
		return ErrFailed
	case DecodeLiteralFound:
		return ErrLiteralFound
	default:
		return nil
	}
}

// CommandDecodeError is returned by DecodeCommand.
type CommandDecodeError struct {
	Kind DecodeErrorKind

	// Set for DecodeLiteralFound: the literal is part of the command
	// identified by Tag. Synchronizing literals require a continuation
	// request before the client sends the data.
	Tag    string
	Length uint32
	Mode   imap.LiteralMode

	// Err is the underlying syntax error for DecodeFailed.
	Err error
}

func (err *CommandDecodeError) Error() string {
	switch err.Kind {
	case DecodeLiteralFound:
		return fmt.Sprintf("imapcodec: command %q: %v literal of %v bytes found", err.Tag, err.Mode, err.Length)
	case DecodeFailed:
		return fmt.Sprintf("imapcodec: failed to decode command: %v", err.Err)
	default:
		return "imapcodec: incomplete command"
	}
}

func (err *CommandDecodeError) Is(target error) bool {
	return target == err.Kind.sentinel()
}

func (err *CommandDecodeError) Unwrap() error {
	return err.Err
}

// ResponseDecodeError is returned by DecodeResponse.
type ResponseDecodeError struct {
	Kind DecodeErrorKind
	// Length is set for DecodeLiteralFound.
	Length uint32
	// Err is the underlying syntax error for DecodeFailed.
	Err error
}

func (err *ResponseDecodeError) Error() string {
	switch err.Kind {
	case DecodeLiteralFound:
		return fmt.Sprintf("imapcodec: literal of %v bytes found in response", err.Length)
	case DecodeFailed:
		return fmt.Sprintf("imapcodec: failed to decode response: %v", err.Err)
	default:
		return "imapcodec: incomplete response"
	}
}

func (err *ResponseDecodeError) Is(target error) bool {
	return target == err.Kind.sentinel()
}

func (err *ResponseDecodeError) Unwrap() error {
	return err.Err
}

// GreetingDecodeError is returned by DecodeGreeting. Greetings never contain
// literals, so Kind is either DecodeIncomplete or DecodeFailed.
type GreetingDecodeError struct {
	Kind DecodeErrorKind
	Err  error
}

func (err *GreetingDecodeError) Error() string {
	if err.Kind == DecodeFailed {
		return fmt.Sprintf("imapcodec: failed to decode greeting: %v", err.Err)
	}
	return "imapcodec: incomplete greeting"
}

func (err *GreetingDecodeError) Is(target error) bool {
	return target == err.Kind.sentinel()
}

func (err *GreetingDecodeError) Unwrap() error {
	return err.Err
}

// AuthenticateDataDecodeError is returned by DecodeAuthenticateData.
type AuthenticateDataDecodeError struct {
	Kind DecodeErrorKind
	Err  error
}

func (err *AuthenticateDataDecodeError) Error() string {
	if err.Kind == DecodeFailed {
		return fmt.Sprintf("imapcodec: failed to decode authenticate data: %v", err.Err)
	}
	return "imapcodec: incomplete authenticate data"
}

func (err *AuthenticateDataDecodeError) Is(target error) bool {
	return target == err.Kind.sentinel()
}

func (err *AuthenticateDataDecodeError) Unwrap() error {
	return err.Err
}

// classify maps a decoder error to a decode outcome.
func classify(err error) (kind DecodeErrorKind, litErr *imapwire.LiteralError) {
	switch {
	case errors.Is(err, imapwire.ErrIncomplete):
		return DecodeIncomplete, nil
	case errors.As(err, &litErr):
		return DecodeLiteralFound, litErr
	default:
		return DecodeFailed, nil
	}
}

func literalMode(nonSync bool) imap.LiteralMode {
	if nonSync {
		return imap.LiteralNonSync
	}
	return imap.LiteralSync
}
