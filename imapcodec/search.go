package imapcodec

import (
	"fmt"
	"strings"

	"github.com/emersion/go-imap-codec"
	"github.com/emersion/go-imap-codec/internal/imapnum"
	"github.com/emersion/go-imap-codec/internal/imapwire"
)

// maxSearchDepth limits the nesting of NOT, OR and parenthesized keys.
const maxSearchDepth = 32

func readSearch(dec *imapwire.Decoder) (*imap.SearchCommand, error) {
	var cmd imap.SearchCommand
	if !dec.ExpectSP() {
		return nil, dec.Err()
	}
	if dec.Keyword("CHARSET") {
		if !dec.ExpectSP() || !dec.ExpectAString(&cmd.Charset) || !dec.ExpectSP() {
			return nil, dec.Err()
		}
	} else if err := dec.Err(); err != nil {
		return nil, err
	}

	for {
		key, err := readSearchKey(dec, 0)
		if err != nil {
			return nil, err
		}
		cmd.Criteria = append(cmd.Criteria, *key)
		if !dec.SP() {
			return &cmd, dec.Err()
		}
	}
}

func readSearchKey(dec *imapwire.Decoder, depth int) (*imap.SearchKey, error) {
	if depth > maxSearchDepth {
		return nil, fmt.Errorf("search keys nested too deeply")
	}

	if dec.Peek('(') {
		key := imap.SearchKey{Key: imap.SearchKeyAnd}
		err := dec.ExpectList(func() error {
			child, err := readSearchKey(dec, depth+1)
			if err != nil {
				return err
			}
			key.Children = append(key.Children, *child)
			return nil
		})
		if err != nil {
			return nil, err
		}
		if !dec.Expect(len(key.Children) > 0, "search-key") {
			return nil, dec.Err()
		}
		return &key, nil
	}

	var set imapnum.Set
	if dec.NumSet(&set) {
		return &imap.SearchKey{Key: imap.SearchKeySeqSet, SeqSet: imap.SeqSet(set)}, nil
	} else if err := dec.Err(); err != nil {
		return nil, err
	}

	var name string
	if !dec.ExpectAtom(&name) {
		return nil, dec.Err()
	}
	key := imap.SearchKey{Key: imap.SearchKeyName(strings.ToUpper(name))}
	arg, ok := key.Key.Arg()
	if !ok || key.Key == imap.SearchKeySeqSet || key.Key == imap.SearchKeyAnd {
		return nil, fmt.Errorf("unknown search key %q", name)
	}

	if arg == imap.SearchKeyArgNone {
		return &key, nil
	}
	if !dec.ExpectSP() {
		return nil, dec.Err()
	}

	switch arg {
	case imap.SearchKeyArgAString:
		if !dec.ExpectAString(&key.Value) {
			return nil, dec.Err()
		}
	case imap.SearchKeyArgAtom:
		if !dec.ExpectAtom(&key.Value) {
			return nil, dec.Err()
		}
	case imap.SearchKeyArgDate:
		if !dec.ExpectDate(&key.Date) {
			return nil, dec.Err()
		}
	case imap.SearchKeyArgNumber:
		if !dec.ExpectNumber(&key.Num) {
			return nil, dec.Err()
		}
	case imap.SearchKeyArgHeader:
		if !dec.ExpectAString(&key.Field) || !dec.ExpectSP() || !dec.ExpectAString(&key.Value) {
			return nil, dec.Err()
		}
	case imap.SearchKeyArgSeqSet:
		if !dec.ExpectNumSet(&set) {
			return nil, dec.Err()
		}
		key.SeqSet = imap.SeqSet(set)
	case imap.SearchKeyArgKeys:
		n := 1
		if key.Key == imap.SearchKeyOr {
			n = 2
		}
		for i := 0; i < n; i++ {
			if i > 0 && !dec.ExpectSP() {
				return nil, dec.Err()
			}
			child, err := readSearchKey(dec, depth+1)
			if err != nil {
				return nil, err
			}
			key.Children = append(key.Children, *child)
		}
	}
	return &key, nil
}

func writeSearch(enc *imapwire.Encoder, cmd *imap.SearchCommand) {
	if cmd.Charset != "" {
		enc.SP().Atom("CHARSET").SP().AString(cmd.Charset)
	}
	if len(cmd.Criteria) == 0 {
		enc.SetErr(fmt.Errorf("imapcodec: empty SEARCH criteria"))
	}
	for i := range cmd.Criteria {
		enc.SP()
		writeSearchKey(enc, &cmd.Criteria[i])
	}
}

func writeSearchKey(enc *imapwire.Encoder, key *imap.SearchKey) {
	arg, ok := key.Key.Arg()
	if !ok {
		enc.SetErr(fmt.Errorf("imapcodec: unknown search key %q", key.Key))
		return
	}

	switch key.Key {
	case imap.SearchKeySeqSet:
		writeSeqSet(enc, key.SeqSet)
		return
	case imap.SearchKeyAnd:
		if len(key.Children) == 0 {
			enc.SetErr(fmt.Errorf("imapcodec: empty search key list"))
		}
		enc.List(len(key.Children), func(i int) {
			writeSearchKey(enc, &key.Children[i])
		})
		return
	}

	enc.Atom(string(key.Key))
	switch arg {
	case imap.SearchKeyArgAString:
		enc.SP().AString(key.Value)
	case imap.SearchKeyArgAtom:
		if !imapwire.IsAtom(key.Value) {
			enc.SetErr(fmt.Errorf("imapcodec: invalid keyword %q", key.Value))
		}
		enc.SP().Atom(key.Value)
	case imap.SearchKeyArgDate:
		enc.SP().Date(key.Date)
	case imap.SearchKeyArgNumber:
		enc.SP().Number(key.Num)
	case imap.SearchKeyArgHeader:
		enc.SP().AString(key.Field).SP().AString(key.Value)
	case imap.SearchKeyArgSeqSet:
		enc.SP()
		writeSeqSet(enc, key.SeqSet)
	case imap.SearchKeyArgKeys:
		n := 1
		if key.Key == imap.SearchKeyOr {
			n = 2
		}
		if len(key.Children) != n {
			enc.SetErr(fmt.Errorf("imapcodec: %v search key needs %v arguments", key.Key, n))
			return
		}
		for i := range key.Children {
			enc.SP()
			writeSearchKey(enc, &key.Children[i])
		}
	}
}
