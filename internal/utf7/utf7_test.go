package utf7_test

import (
	"strings"
	"testing"

	"github.com/emersion/go-imap-codec/internal/utf7"
)

var decode = []struct {
	in  string
	out string
	ok  bool
}{
	{"", "", true},
	{"abc", "abc", true},
	{"&-abc", "&abc", true},
	{"abc&-", "abc&", true},
	{"a&-b&-c", "a&b&c", true},
	{"&ABk-", "\x19", true},
	{"&AB8-", "\x1F", true},
	{"ABk-", "ABk-", true},
	{"&-,&-&AP8-&-", "&,&ÿ&", true},
	{"abc &- &AP8A,wD,- &- xyz", "abc & ÿÿÿ & xyz", true},
	{"&ZeVnLIqe-", "日本語", true},
	{"00000000000000000000 &MEIwQjBCMEIwQjBCMEIwQjBCMEIwQjBCMEIwQjBCMEIwQjBCMEIwQjBCMEIwQjBCMEIwQjBCMEIwQjBCMEIwQjBCMEIwQjBCMEI- 00000000000000000000",
		"00000000000000000000 " + strings.Repeat("\U00003042", 37) + " 00000000000000000000", true},
	{"&2D3eCg- &2D3eCw-", "\U0001f60a \U0001f60b", true},

	// Illegal code point in ASCII
	{"\x00", "", false},
	{"abc\n", "", false},
	{"abc\x7Fxyz", "", false},
	{"М", "", false},

	// Invalid Base64 alphabet
	{"&/+8-", "", false},
	{"&*-", "", false},
	{"&ZeVnLIqe -", "", false},
	{"&ZeVnLIqe\r\n-", "", false},

	// Padding
	{"&AAAAHw=-", "", false},
	{"&2AD-", "", false},

	// One byte short
	{"&2A-", "", false},
	{"&AAAAHwB,A-", "", false},

	// Unterminated shift
	{"&", "", false},
	{"&Jjo", "", false},
	{"abc&Jjo", "", false},

	// Adjacent runs
	{"&AGE-&Jjo-", "", false},
	{"&U,BTFw-&ZeVnLIqe-", "", false},

	// ASCII in Base64
	{"&AGE-", "", false},
	{"&ACY-", "", false},
	{"&JjoAIQ-", "", false},

	// Bad surrogate
	{"&2AA-", "", false},
	{"&3AA-", "", false},
	{"&2AAAQQ-", "", false},
	{"&3ADYAA-", "", false},
}

func TestDecoder(t *testing.T) {
	dec := utf7.Encoding.NewDecoder()

	for _, test := range decode {
		out, err := dec.String(test.in)
		if out != test.out {
			t.Errorf("Decode(%+q) = %+q, want %+q", test.in, out, test.out)
		}
		if test.ok {
			if err != nil {
				t.Errorf("Decode(%+q) unexpected error: %v", test.in, err)
			}
		} else if err == nil {
			t.Errorf("Decode(%+q) expected error", test.in)
		}
	}
}

var encode = []struct {
	in  string
	out string
}{
	{"", ""},
	{"INBOX", "INBOX"},
	{"&", "&-"},
	{"Tom & Jerry", "Tom &- Jerry"},
	{"ÿ", "&AP8-"},
	{"ÿÿÿ", "&AP8A,wD,-"},
	{"~peter/mail/台北/日本語", "~peter/mail/&U,BTFw-/&ZeVnLIqe-"},
	{"\U0001f60a", "&2D3eCg-"},
	{"\x1F", "&AB8-"},
}

func TestEncoder(t *testing.T) {
	enc := utf7.Encoding.NewEncoder()

	for _, test := range encode {
		out, err := enc.String(test.in)
		if err != nil {
			t.Errorf("Encode(%+q) unexpected error: %v", test.in, err)
		}
		if out != test.out {
			t.Errorf("Encode(%+q) = %+q, want %+q", test.in, out, test.out)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	enc := utf7.Encoding.NewEncoder()
	dec := utf7.Encoding.NewDecoder()

	for _, test := range encode {
		encoded, err := enc.String(test.in)
		if err != nil {
			t.Fatalf("Encode(%+q): %v", test.in, err)
		}
		decoded, err := dec.String(encoded)
		if err != nil {
			t.Fatalf("Decode(%+q): %v", encoded, err)
		}
		if decoded != test.in {
			t.Errorf("Decode(Encode(%+q)) = %+q", test.in, decoded)
		}
	}
}
