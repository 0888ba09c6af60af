// Package hostinput injects input events into the local desktop session.
// With cgo the events go through robotgo; without it Windows falls back to
// user32 calls and other platforms get an injector that rejects every
// event.
package hostinput

import "github.com/pkg/errors"

// ErrUnsupported is returned for events this build cannot synthesize.
var ErrUnsupported = errors.New("input injection not supported by this build")
