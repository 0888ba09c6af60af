//go:build cgo

package hostinput

import (
	"testing"

	"deskstream/internal/input"

	"github.com/stretchr/testify/assert"
)

// Keys in the viewer table that robotgo has no name for.
var robotMissing = map[input.HostKey]bool{
	"altgr":      true,
	"pause":      true,
	"scrolllock": true,
}

func TestKeyTableAgainstRobotNames(t *testing.T) {
	for _, code := range input.KeyCodes() {
		key := input.LookupKey(code)
		if robotMissing[key] {
			assert.False(t, robotSupports(key), "code %q -> %q", code, key)
			continue
		}
		assert.True(t, robotSupports(key), "code %q -> %q is not a robotgo key name", code, key)
	}
}

func TestRobotRejectsKeysItCannotSend(t *testing.T) {
	for key := range robotMissing {
		for _, down := range []bool{true, false} {
			assert.ErrorIs(t, Robot{}.Key(key, down), ErrUnsupported, "key %q", key)
		}
	}
}
