package imap

// StatusItem is a data item which can be requested by a STATUS command.
type StatusItem string

const (
	StatusItemNumMessages StatusItem = "MESSAGES"
	StatusItemNumRecent   StatusItem = "RECENT" // removed in IMAP4rev2
	StatusItemUIDNext     StatusItem = "UIDNEXT"
	StatusItemUIDValidity StatusItem = "UIDVALIDITY"
	StatusItemNumUnseen   StatusItem = "UNSEEN"
	StatusItemNumDeleted  StatusItem = "DELETED" // requires IMAP4rev2 or QUOTA
	StatusItemSize        StatusItem = "SIZE"    // requires IMAP4rev2 or STATUS=SIZE
)

// StatusItemValue is a STATUS item along with its value.
type StatusItemValue struct {
	Item  StatusItem
	Value int64
}

// StatusData is the data returned by a STATUS command.
//
// Items are kept in the order they were sent.
type StatusData struct {
	Mailbox string
	Items   []StatusItemValue
}

// Get returns the value of a STATUS item.
func (data *StatusData) Get(item StatusItem) (v int64, ok bool) {
	for _, iv := range data.Items {
		if iv.Item == item {
			return iv.Value, true
		}
	}
	return 0, false
}

func (*StatusData) response() {}
