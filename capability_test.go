package imap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapSet_Has(t *testing.T) {
	rev2 := CapSet{CapIMAP4rev2: {}}
	assert.True(t, rev2.Has(CapIMAP4rev2))
	assert.True(t, rev2.Has(CapIdle))
	assert.True(t, rev2.Has(CapLiteralMinus))
	assert.False(t, rev2.Has(CapLiteralPlus))
	assert.False(t, rev2.Has(CapIMAP4rev1))

	plus := CapSet{CapLiteralPlus: {}}
	assert.True(t, plus.Has(CapLiteralMinus))

	assert.True(t, CapSet{CapQResync: {}}.Has(CapCondStore))
	assert.True(t, CapSet{CapUTF8Only: {}}.Has(CapUTF8Accept))
	assert.False(t, CapSet{}.Has(CapIdle))
}

func TestCapSet_AuthMechanisms(t *testing.T) {
	set := CapSet{
		CapIMAP4rev1:       {},
		AuthCap("PLAIN"):   {},
		AuthCap("XOAUTH2"): {},
	}
	assert.Equal(t, []string{"PLAIN", "XOAUTH2"}, set.AuthMechanisms())
	assert.Equal(t, CapAuthPlain, AuthCap("PLAIN"))
}

func TestCapSet_values(t *testing.T) {
	set := CapSet{"APPENDLIMIT=1024": {}, CapIMAP4rev1: {}, "SORT=DISPLAY": {}}
	assert.True(t, set.Has(CapAppendLimit))
	assert.False(t, set.Has("SORT=DISPLAYX"))
	assert.True(t, set.Has("SORT"))
	assert.Equal(t, []string{"1024"}, set.Values("APPENDLIMIT"))
	assert.Empty(t, set.Values("IMAP4rev1"))

	name, value := Cap("AUTH=PLAIN").Split()
	assert.Equal(t, "AUTH", name)
	assert.Equal(t, "PLAIN", value)
}
