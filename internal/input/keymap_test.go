package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyTableResolvesToDistinctKeys(t *testing.T) {
	seen := make(map[HostKey]string)
	for _, code := range KeyCodes() {
		key := LookupKey(code)
		assert.NotEqual(t, UnknownKey, key, code)
		if other, dup := seen[key]; dup {
			t.Errorf("%q and %q both map to %q", code, other, key)
		}
		seen[key] = code
	}
}

func TestLookupKey(t *testing.T) {
	assert.Equal(t, HostKey("left"), LookupKey("arrowleft"))
	assert.Equal(t, HostKey("q"), LookupKey("keyq"))
	assert.Equal(t, HostKey("num5"), LookupKey("numpad5"))
	assert.Equal(t, HostKey("enter"), LookupKey("enter"))
}

func TestLookupUnknownKey(t *testing.T) {
	for _, code := range []string{"", "KeyQ", "launchmail", "numpad10"} {
		assert.Equal(t, UnknownKey, LookupKey(code), code)
	}
}

func TestButtonFor(t *testing.T) {
	id := func(v uint8) *uint8 { return &v }

	assert.Equal(t, ButtonLeft, ButtonFor(id(0)))
	assert.Equal(t, ButtonMiddle, ButtonFor(id(1)))
	assert.Equal(t, ButtonRight, ButtonFor(id(2)))
	assert.Equal(t, UnknownButton, ButtonFor(id(3)))
	assert.Equal(t, UnknownButton, ButtonFor(nil))
}
