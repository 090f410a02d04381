package imap

import (
	"sort"
	"strings"
)

// Cap is a capability name, as sent in a CAPABILITY response or ENABLE
// command. Some capabilities carry a value after an equal sign, for instance
// "AUTH=PLAIN".
type Cap string

// Split returns the name and the optional value of the capability.
func (c Cap) Split() (name, value string) {
	name, value, _ = strings.Cut(string(c), "=")
	return name, value
}

// Base protocol revisions.
const (
	CapIMAP4rev1 Cap = "IMAP4rev1" // RFC 3501
	CapIMAP4rev2 Cap = "IMAP4rev2" // RFC 9051
)

// Capabilities which change how commands and responses are framed on the
// wire.
const (
	CapLiteralPlus  Cap = "LITERAL+"    // RFC 7888
	CapLiteralMinus Cap = "LITERAL-"    // RFC 7888
	CapSASLIR       Cap = "SASL-IR"     // RFC 4959
	CapUTF8Accept   Cap = "UTF8=ACCEPT" // RFC 6855
	CapUTF8Only     Cap = "UTF8=ONLY"   // RFC 6855
	CapBinary       Cap = "BINARY"      // RFC 3516
)

// Capabilities for commands and response data supported by the codec.
const (
	CapAuthPlain    Cap = "AUTH=PLAIN"
	CapStartTLS     Cap = "STARTTLS"
	CapIdle         Cap = "IDLE"          // RFC 2177
	CapEnable       Cap = "ENABLE"        // RFC 5161
	CapNamespace    Cap = "NAMESPACE"     // RFC 2342
	CapUnselect     Cap = "UNSELECT"      // RFC 3691
	CapUIDPlus      Cap = "UIDPLUS"       // RFC 4315
	CapMove         Cap = "MOVE"          // RFC 6851
	CapESearch      Cap = "ESEARCH"       // RFC 4731
	CapSearchRes    Cap = "SEARCHRES"     // RFC 5182
	CapListExtended Cap = "LIST-EXTENDED" // RFC 5258
	CapListStatus   Cap = "LIST-STATUS"   // RFC 5819
	CapStatusSize   Cap = "STATUS=SIZE"   // RFC 8438
	CapCondStore    Cap = "CONDSTORE"     // RFC 7162
	CapQResync      Cap = "QRESYNC"       // RFC 7162
	CapAppendLimit  Cap = "APPENDLIMIT"   // RFC 7889
)

// implied maps a capability to the capabilities it brings along.
var implied = map[Cap][]Cap{
	CapIMAP4rev2: {
		CapNamespace, CapUnselect, CapUIDPlus, CapESearch, CapSearchRes,
		CapEnable, CapIdle, CapSASLIR, CapListExtended, CapListStatus,
		CapMove, CapLiteralMinus, CapStatusSize,
	},
	CapLiteralPlus: {CapLiteralMinus},
	CapQResync:     {CapCondStore},
	CapUTF8Only:    {CapUTF8Accept},
}

// AuthCap returns the capability advertising a SASL mechanism.
func AuthCap(mechanism string) Cap {
	return Cap("AUTH=" + mechanism)
}

// CapSet is a set of capabilities.
type CapSet map[Cap]struct{}

// Has reports whether c is advertised, either directly or through a
// capability which implies it. A bare name also matches a capability
// carrying a value: "APPENDLIMIT" is present if "APPENDLIMIT=1024" is.
func (set CapSet) Has(c Cap) bool {
	for have := range set {
		if have == c {
			return true
		}
		if name, value := have.Split(); value != "" && Cap(name) == c {
			return true
		}
		for _, other := range implied[have] {
			if other == c {
				return true
			}
		}
	}
	return false
}

// Values returns the values of the capabilities with the given name, sorted.
// For instance Values("AUTH") returns the SASL mechanisms.
func (set CapSet) Values(name string) []string {
	var l []string
	for c := range set {
		if n, v := c.Split(); n == name && v != "" {
			l = append(l, v)
		}
	}
	sort.Strings(l)
	return l
}

// AuthMechanisms returns the advertised SASL mechanisms, sorted.
func (set CapSet) AuthMechanisms() []string {
	return set.Values("AUTH")
}
