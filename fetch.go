package imap

import (
	"time"
)

// FetchItem is a message data item which can be requested by a FETCH command.
type FetchItem interface {
	fetchItem()
}

var (
	_ FetchItem = FetchItemKeyword("")
	_ FetchItem = (*FetchItemBodySection)(nil)
)

// FetchItemKeyword is a FETCH item described by a single keyword.
type FetchItemKeyword string

func (FetchItemKeyword) fetchItem() {}

var (
	// Macros
	FetchItemAll  FetchItem = FetchItemKeyword("ALL")
	FetchItemFast FetchItem = FetchItemKeyword("FAST")
	FetchItemFull FetchItem = FetchItemKeyword("FULL")

	FetchItemBody          FetchItem = FetchItemKeyword("BODY")
	FetchItemBodyStructure FetchItem = FetchItemKeyword("BODYSTRUCTURE")
	FetchItemEnvelope      FetchItem = FetchItemKeyword("ENVELOPE")
	FetchItemFlags         FetchItem = FetchItemKeyword("FLAGS")
	FetchItemInternalDate  FetchItem = FetchItemKeyword("INTERNALDATE")
	FetchItemRFC822        FetchItem = FetchItemKeyword("RFC822")
	FetchItemRFC822Header  FetchItem = FetchItemKeyword("RFC822.HEADER")
	FetchItemRFC822Size    FetchItem = FetchItemKeyword("RFC822.SIZE")
	FetchItemRFC822Text    FetchItem = FetchItemKeyword("RFC822.TEXT")
	FetchItemUID           FetchItem = FetchItemKeyword("UID")
)

// IsMacro returns true if the keyword is one of ALL, FAST or FULL. A macro
// must be the only item of a FETCH command.
func (kw FetchItemKeyword) IsMacro() bool {
	switch FetchItem(kw) {
	case FetchItemAll, FetchItemFast, FetchItemFull:
		return true
	}
	return false
}

type PartSpecifier string

const (
	PartSpecifierNone            PartSpecifier = ""
	PartSpecifierHeader          PartSpecifier = "HEADER"
	PartSpecifierHeaderFields    PartSpecifier = "HEADER.FIELDS"
	PartSpecifierHeaderFieldsNot PartSpecifier = "HEADER.FIELDS.NOT"
	PartSpecifierMIME            PartSpecifier = "MIME"
	PartSpecifierText            PartSpecifier = "TEXT"
)

// Section is a body section, the part between brackets in BODY[1.HEADER].
//
// The zero value designates the whole message ("BODY[]").
type Section struct {
	Part      []int
	Specifier PartSpecifier
	// Only for PartSpecifierHeaderFields and PartSpecifierHeaderFieldsNot
	HeaderFields []string
}

type SectionPartial struct {
	Offset, Size int64
}

// FetchItemBodySection is a FETCH BODY[] data item.
type FetchItemBodySection struct {
	Section
	Partial *SectionPartial
	Peek    bool
}

func (*FetchItemBodySection) fetchItem() {}

// FetchItemData is a message attribute returned in a FETCH response.
type FetchItemData interface {
	fetchItemData()
}

var (
	_ FetchItemData = FetchItemDataFlags{}
	_ FetchItemData = FetchItemDataEnvelope{}
	_ FetchItemData = FetchItemDataInternalDate{}
	_ FetchItemData = FetchItemDataRFC822{}
	_ FetchItemData = FetchItemDataRFC822Header{}
	_ FetchItemData = FetchItemDataRFC822Text{}
	_ FetchItemData = FetchItemDataRFC822Size{}
	_ FetchItemData = FetchItemDataBody{}
	_ FetchItemData = FetchItemDataBodyStructure{}
	_ FetchItemData = FetchItemDataBodySection{}
	_ FetchItemData = FetchItemDataUID{}
)

type FetchItemDataFlags struct {
	Flags []Flag
}

func (FetchItemDataFlags) fetchItemData() {}

type FetchItemDataEnvelope struct {
	Envelope *Envelope
}

func (FetchItemDataEnvelope) fetchItemData() {}

type FetchItemDataInternalDate struct {
	Time time.Time
}

func (FetchItemDataInternalDate) fetchItemData() {}

type FetchItemDataRFC822 struct {
	Data NString
}

func (FetchItemDataRFC822) fetchItemData() {}

type FetchItemDataRFC822Header struct {
	Data NString
}

func (FetchItemDataRFC822Header) fetchItemData() {}

type FetchItemDataRFC822Text struct {
	Data NString
}

func (FetchItemDataRFC822Text) fetchItemData() {}

type FetchItemDataRFC822Size struct {
	Size int64
}

func (FetchItemDataRFC822Size) fetchItemData() {}

// FetchItemDataBody is the non-extensible form of the body structure,
// returned for the BODY item.
type FetchItemDataBody struct {
	BodyStructure BodyStructure
}

func (FetchItemDataBody) fetchItemData() {}

type FetchItemDataBodyStructure struct {
	BodyStructure BodyStructure
}

func (FetchItemDataBodyStructure) fetchItemData() {}

// FetchItemDataBodySection is the contents of a body section, returned for
// BODY[] and BODY.PEEK[] items.
type FetchItemDataBodySection struct {
	Section Section
	// Origin is the offset of the first byte for partial fetches
	Origin *uint32
	Data   NString
}

func (FetchItemDataBodySection) fetchItemData() {}

type FetchItemDataUID struct {
	UID UID
}

func (FetchItemDataUID) fetchItemData() {}
