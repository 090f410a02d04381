package imap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandBody_Name(t *testing.T) {
	tests := []struct {
		body CommandBody
		name string
	}{
		{&NoopCommand{}, "NOOP"},
		{&LoginCommand{}, "LOGIN"},
		{&FetchCommand{}, "FETCH"},
		{&FetchCommand{UID: true}, "UID FETCH"},
		{&SearchCommand{UID: true}, "UID SEARCH"},
		{&StoreCommand{}, "STORE"},
		{&CopyCommand{UID: true}, "UID COPY"},
		{&MoveCommand{UID: true}, "UID MOVE"},
		{&UIDExpungeCommand{}, "UID EXPUNGE"},
		{&IdleCommand{}, "IDLE"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.name, tc.body.Name())
	}
}

func TestStoreFlagsOp_String(t *testing.T) {
	assert.Equal(t, "", StoreFlagsSet.String())
	assert.Equal(t, "+", StoreFlagsAdd.String())
	assert.Equal(t, "-", StoreFlagsDel.String())
}

func TestFetchItemKeyword_IsMacro(t *testing.T) {
	for _, item := range []FetchItem{FetchItemAll, FetchItemFast, FetchItemFull} {
		assert.True(t, item.(FetchItemKeyword).IsMacro(), item)
	}
	assert.False(t, FetchItemUID.(FetchItemKeyword).IsMacro())
}

func TestLiteralMode_String(t *testing.T) {
	assert.Equal(t, "sync", LiteralSync.String())
	assert.Equal(t, "non-sync", LiteralNonSync.String())
}

func TestNewNString(t *testing.T) {
	assert.Equal(t, NString{Kind: NStringQuoted, Value: "hello"}, NewNString("hello"))
	assert.Equal(t, NString{Kind: NStringLiteral, Value: "a\r\nb"}, NewNString("a\r\nb"))
	assert.True(t, NString{}.IsNil())
	assert.False(t, NewNString("").IsNil())
}
