package imap

// CapabilityData is the data returned by a CAPABILITY command, or sent
// unsolicited by a server.
type CapabilityData struct {
	Caps []Cap
}

func (*CapabilityData) response() {}

// CapSet returns the capabilities as a set.
func (data *CapabilityData) CapSet() CapSet {
	set := make(CapSet, len(data.Caps))
	for _, c := range data.Caps {
		set[c] = struct{}{}
	}
	return set
}

// EnabledData is the data returned by an ENABLE command.
type EnabledData struct {
	Caps []Cap
}

func (*EnabledData) response() {}

// FlagsData lists the flags defined in the selected mailbox.
type FlagsData struct {
	Flags []Flag
}

func (*FlagsData) response() {}

// SearchData is the data returned by a SEARCH command: message sequence
// numbers, or UIDs for UID SEARCH. Nums may be empty.
type SearchData struct {
	Nums []uint32
}

func (*SearchData) response() {}

// ExistsData reports the number of messages in the mailbox.
type ExistsData struct {
	NumMessages uint32
}

func (*ExistsData) response() {}

// RecentData reports the number of messages with the \Recent flag.
type RecentData struct {
	NumRecent uint32
}

func (*RecentData) response() {}

// ExpungeData reports that a message has been permanently removed.
type ExpungeData struct {
	SeqNum uint32
}

func (*ExpungeData) response() {}

// FetchData is the data returned for a single message by a FETCH command,
// or sent unsolicited by a server.
type FetchData struct {
	SeqNum uint32
	Items  []FetchItemData
}

func (*FetchData) response() {}
