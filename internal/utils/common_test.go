package utils

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRemoveControlCharacters(t *testing.T) {
	assert.Equal(t, "hello world", RemoveControlCharacters("hello\nworld"))
	assert.Equal(t, "clean", RemoveControlCharacters("cl\x00ean"))
	assert.Equal(t, "a b c", RemoveControlCharacters("a\tb\rc"))
	assert.Equal(t, "", RemoveControlCharacters(""))
}

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "short", TruncateForLog("short", 10))
	assert.Equal(t, "abcde...", TruncateForLog("abcdefghij", 5))
	assert.Equal(t, "abc", TruncateForLog("abc", 0))
}

func TestTruncateForLog_RuneBoundary(t *testing.T) {
	// "héllo" is 6 bytes; a cut at 2 would split the é.
	got := TruncateForLog("héllo", 2)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "h...", got)

	multi := TruncateForLog("日本語テスト", 7)
	assert.True(t, utf8.ValidString(multi))
	assert.Equal(t, "日本...", multi)
}
