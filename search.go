package imap

import (
	"time"
)

// SearchKeyName is the name of a search key.
type SearchKeyName string

const (
	SearchKeyAll        SearchKeyName = "ALL"
	SearchKeyAnswered   SearchKeyName = "ANSWERED"
	SearchKeyDeleted    SearchKeyName = "DELETED"
	SearchKeyDraft      SearchKeyName = "DRAFT"
	SearchKeyFlagged    SearchKeyName = "FLAGGED"
	SearchKeyNew        SearchKeyName = "NEW"
	SearchKeyOld        SearchKeyName = "OLD"
	SearchKeyRecent     SearchKeyName = "RECENT"
	SearchKeySeen       SearchKeyName = "SEEN"
	SearchKeyUnanswered SearchKeyName = "UNANSWERED"
	SearchKeyUndeleted  SearchKeyName = "UNDELETED"
	SearchKeyUndraft    SearchKeyName = "UNDRAFT"
	SearchKeyUnflagged  SearchKeyName = "UNFLAGGED"
	SearchKeyUnseen     SearchKeyName = "UNSEEN"

	// Value is the argument
	SearchKeyBcc     SearchKeyName = "BCC"
	SearchKeyBody    SearchKeyName = "BODY"
	SearchKeyCc      SearchKeyName = "CC"
	SearchKeyFrom    SearchKeyName = "FROM"
	SearchKeySubject SearchKeyName = "SUBJECT"
	SearchKeyText    SearchKeyName = "TEXT"
	SearchKeyTo      SearchKeyName = "TO"

	// Value is the flag keyword
	SearchKeyKeyword   SearchKeyName = "KEYWORD"
	SearchKeyUnkeyword SearchKeyName = "UNKEYWORD"

	// Date is the argument, only the date is used
	SearchKeyBefore     SearchKeyName = "BEFORE"
	SearchKeyOn         SearchKeyName = "ON"
	SearchKeySince      SearchKeyName = "SINCE"
	SearchKeySentBefore SearchKeyName = "SENTBEFORE"
	SearchKeySentOn     SearchKeyName = "SENTON"
	SearchKeySentSince  SearchKeyName = "SENTSINCE"

	// Num is the argument
	SearchKeyLarger  SearchKeyName = "LARGER"
	SearchKeySmaller SearchKeyName = "SMALLER"

	// Field is the header field name, Value the searched string
	SearchKeyHeader SearchKeyName = "HEADER"

	// SeqSet is the argument
	SearchKeyUID    SearchKeyName = "UID"
	SearchKeySeqSet SearchKeyName = "" // bare sequence-set

	// Children are the arguments
	SearchKeyNot SearchKeyName = "NOT" // one child
	SearchKeyOr  SearchKeyName = "OR"  // two children
	SearchKeyAnd SearchKeyName = "AND" // parenthesized list, one or more children
)

// SearchKey is a search criterion of a SEARCH command.
//
// Only the fields relevant to Key are used.
type SearchKey struct {
	Key      SearchKeyName
	Field    string
	Value    string
	Date     time.Time
	Num      uint32
	SeqSet   SeqSet
	Children []SearchKey
}

// SearchKeyArg describes the arguments taken by a search key.
type SearchKeyArg int

const (
	SearchKeyArgNone SearchKeyArg = iota
	SearchKeyArgAString
	SearchKeyArgAtom
	SearchKeyArgDate
	SearchKeyArgNumber
	SearchKeyArgHeader
	SearchKeyArgSeqSet
	SearchKeyArgKeys
)

var searchKeyArgs = map[SearchKeyName]SearchKeyArg{
	SearchKeyAll:        SearchKeyArgNone,
	SearchKeyAnswered:   SearchKeyArgNone,
	SearchKeyDeleted:    SearchKeyArgNone,
	SearchKeyDraft:      SearchKeyArgNone,
	SearchKeyFlagged:    SearchKeyArgNone,
	SearchKeyNew:        SearchKeyArgNone,
	SearchKeyOld:        SearchKeyArgNone,
	SearchKeyRecent:     SearchKeyArgNone,
	SearchKeySeen:       SearchKeyArgNone,
	SearchKeyUnanswered: SearchKeyArgNone,
	SearchKeyUndeleted:  SearchKeyArgNone,
	SearchKeyUndraft:    SearchKeyArgNone,
	SearchKeyUnflagged:  SearchKeyArgNone,
	SearchKeyUnseen:     SearchKeyArgNone,
	SearchKeyBcc:        SearchKeyArgAString,
	SearchKeyBody:       SearchKeyArgAString,
	SearchKeyCc:         SearchKeyArgAString,
	SearchKeyFrom:       SearchKeyArgAString,
	SearchKeySubject:    SearchKeyArgAString,
	SearchKeyText:       SearchKeyArgAString,
	SearchKeyTo:         SearchKeyArgAString,
	SearchKeyKeyword:    SearchKeyArgAtom,
	SearchKeyUnkeyword:  SearchKeyArgAtom,
	SearchKeyBefore:     SearchKeyArgDate,
	SearchKeyOn:         SearchKeyArgDate,
	SearchKeySince:      SearchKeyArgDate,
	SearchKeySentBefore: SearchKeyArgDate,
	SearchKeySentOn:     SearchKeyArgDate,
	SearchKeySentSince:  SearchKeyArgDate,
	SearchKeyLarger:     SearchKeyArgNumber,
	SearchKeySmaller:    SearchKeyArgNumber,
	SearchKeyHeader:     SearchKeyArgHeader,
	SearchKeyUID:        SearchKeyArgSeqSet,
	SearchKeySeqSet:     SearchKeyArgSeqSet,
	SearchKeyNot:        SearchKeyArgKeys,
	SearchKeyOr:         SearchKeyArgKeys,
	SearchKeyAnd:        SearchKeyArgKeys,
}

// Arg returns the kind of argument taken by the search key. ok is false for
// unknown keys.
func (name SearchKeyName) Arg() (arg SearchKeyArg, ok bool) {
	arg, ok = searchKeyArgs[name]
	return arg, ok
}

// SearchKeySet returns a search key matching a sequence set.
func SearchKeySet(seqSet SeqSet) SearchKey {
	return SearchKey{Key: SearchKeySeqSet, SeqSet: seqSet}
}

// SearchKeyNotOf negates a search key.
func SearchKeyNotOf(key SearchKey) SearchKey {
	return SearchKey{Key: SearchKeyNot, Children: []SearchKey{key}}
}

// SearchKeyOrOf matches messages matching either a or b.
func SearchKeyOrOf(a, b SearchKey) SearchKey {
	return SearchKey{Key: SearchKeyOr, Children: []SearchKey{a, b}}
}
