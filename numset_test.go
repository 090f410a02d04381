package imap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeqSet(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"1", "1"},
		{"3,1:2", "1:3"},
		{"5:3", "3:5"},
		{"1:4,7,9:*", "1:4,7,9:*"},
		{"*", "*"},
		{"2,4,3", "2:4"},
	}
	for _, tc := range tests {
		set, err := ParseSeqSet(tc.in)
		if assert.NoError(t, err, tc.in) {
			assert.Equal(t, tc.out, set.String(), tc.in)
		}
	}

	for _, in := range []string{"", "0", "1:", ":1", "a", "1,,2"} {
		_, err := ParseSeqSet(in)
		assert.Error(t, err, in)
	}
}

func TestSeqSet(t *testing.T) {
	set := SeqSetNum(1, 2, 3, 10)
	assert.Equal(t, "1:3,10", set.String())
	assert.True(t, set.Contains(2))
	assert.False(t, set.Contains(4))
	assert.False(t, set.Dynamic())

	nums, ok := set.Nums()
	require.True(t, ok)
	assert.Equal(t, []uint32{1, 2, 3, 10}, nums)

	set.AddRange(20, 0)
	assert.True(t, set.Dynamic())
	_, ok = set.Nums()
	assert.False(t, ok)

	var other SeqSet
	other.AddSet(set)
	assert.Equal(t, "1:3,10,20:*", other.String())
}
