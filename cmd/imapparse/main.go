package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/imapcodec"
	"github.com/emersion/go-imap-codec/imapmsg"
)

const (
	colorServer = "\x1b[34m"
	colorReset  = "\x1b[0m"
)

var (
	mode        string
	debug       bool
	messagePath string
)

var welcome = `# Parsing of IMAP %vs

"C:" denotes the client,
"S:" denotes the server, and
".." denotes the continuation of an (incomplete) message, e.g. due to the use of an IMAP literal.

Note: "\n" will be automatically replaced by "\r\n".

--------------------------------------------------------------------------------------------------

Enter IMAP %v (or "exit").
`

type decodeFunc func(b []byte) (rest []byte, v interface{}, err error)

func main() {
	flag.StringVar(&mode, "mode", "command", "Kind of message to parse: command, response or greeting")
	flag.BoolVar(&debug, "debug", false, "Print the encoded fragments of each parsed message")
	flag.StringVar(&messagePath, "message", "", "Answer FETCH commands with this RFC 5322 message")
	flag.Parse()

	var decode decodeFunc
	switch mode {
	case "command":
		decode = func(b []byte) ([]byte, interface{}, error) { return imapcodec.DecodeCommand(b) }
	case "response":
		decode = func(b []byte) ([]byte, interface{}, error) { return imapcodec.DecodeResponse(b) }
	case "greeting":
		decode = func(b []byte) ([]byte, interface{}, error) { return imapcodec.DecodeGreeting(b) }
	default:
		log.Fatalf("Unknown mode %q", mode)
	}

	var msg *imapmsg.Message
	if messagePath != "" {
		if mode != "command" {
			log.Fatalf("-message requires -mode command")
		}
		var err error
		msg, err = loadMessage(messagePath)
		if err != nil {
			log.Fatalf("Failed to load message: %v", err)
		}
	}

	fmt.Printf(welcome, mode, mode)

	role := "C: "
	if mode != "command" {
		role = "S: "
	}

	br := bufio.NewReader(os.Stdin)
	var buf []byte
	for {
		if len(buf) > 0 {
			rest, v, err := decode(buf)
			switch {
			case err == nil:
				printValue(v)
				if cmd, ok := v.(*imap.Command); ok && msg != nil {
					answer(cmd, msg)
				}
				buf = rest
				continue
			case errors.Is(err, imapcodec.ErrLiteralFound):
				if mode == "command" {
					// Acknowledge the literal, as a server would
					fmt.Printf("S: %v+ %v\n", colorServer, colorReset)
				}
			case errors.Is(err, imapcodec.ErrFailed):
				fmt.Printf("Error parsing %v: %v\n", mode, err)
				fmt.Println("Clearing buffer.")
				buf = nil
			}
		}

		prompt := role
		if len(buf) > 0 {
			prompt = ".. "
		}
		line, err := readLine(br, prompt)
		if err == io.EOF {
			return
		} else if err != nil {
			log.Fatalf("Failed to read input: %v", err)
		}
		if len(buf) == 0 && strings.TrimSpace(line) == "exit" {
			return
		}
		buf = append(buf, line...)
		buf = append(buf, "\r\n"...)
	}
}

func readLine(br *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := br.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

func printValue(v interface{}) {
	var (
		encoded *imapcodec.Encoded
		err     error
	)
	switch v := v.(type) {
	case *imap.Command:
		fmt.Printf("Command{Tag: %q, Body: %T %+v}\n", v.Tag, v.Body, v.Body)
		encoded, err = imapcodec.EncodeCommand(v)
	case imap.Response:
		fmt.Printf("%T %+v\n", v, v)
		encoded, err = imapcodec.EncodeResponse(v)
	case *imap.Greeting:
		fmt.Printf("Greeting%+v\n", *v)
		encoded, err = imapcodec.EncodeGreeting(v)
	}
	if !debug {
		return
	}
	if err != nil {
		log.Printf("Failed to re-encode: %v", err)
		return
	}
	for {
		frag, ok := encoded.Next()
		if !ok {
			break
		}
		log.Printf("%v fragment: %q", frag.Kind, frag.Data)
	}
}
