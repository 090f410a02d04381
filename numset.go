package imap

import (
	"github.com/emersion/go-imap-codec/internal/imapnum"
)

// SeqSet is a set of message sequence numbers or UIDs.
//
// Ranges are kept sorted and merged: "3,1:2" and "1:3" are the same set.
type SeqSet imapnum.Set

// SeqSetNum returns a new SeqSet containing the specified numbers.
func SeqSetNum(nums ...uint32) SeqSet {
	var s SeqSet
	s.AddNum(nums...)
	return s
}

// ParseSeqSet parses a sequence-set such as "1:4,7,9:*".
func ParseSeqSet(s string) (SeqSet, error) {
	set, err := imapnum.ParseSet(s)
	return SeqSet(set), err
}

func (s SeqSet) String() string {
	return imapnum.Set(s).String()
}

// Dynamic returns true if the set contains "*" or "n:*" values.
func (s SeqSet) Dynamic() bool {
	return imapnum.Set(s).Dynamic()
}

// Contains returns true if the non-zero number is contained in the set.
func (s SeqSet) Contains(num uint32) bool {
	return imapnum.Set(s).Contains(num)
}

// Nums returns a slice of all numbers contained in the set.
func (s SeqSet) Nums() ([]uint32, bool) {
	return imapnum.Set(s).Nums()
}

// AddNum inserts new numbers into the set. The value 0 represents "*".
func (s *SeqSet) AddNum(nums ...uint32) {
	(*imapnum.Set)(s).AddNum(nums...)
}

// AddRange inserts a new range into the set.
func (s *SeqSet) AddRange(start, stop uint32) {
	(*imapnum.Set)(s).AddRange(start, stop)
}

// AddSet inserts all numbers from other into s.
func (s *SeqSet) AddSet(other SeqSet) {
	(*imapnum.Set)(s).AddSet(imapnum.Set(other))
}

// SeqRange is a range of message sequence numbers or UIDs.
type SeqRange = imapnum.Range
