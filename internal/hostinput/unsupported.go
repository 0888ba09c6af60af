//go:build !cgo && !windows

package hostinput

import "deskstream/internal/input"

// New returns the injector for this platform.
func New() input.Injector { return unsupported{} }

type unsupported struct{}

func (unsupported) Move(x, y int) error                    { return ErrUnsupported }
func (unsupported) Button(b input.Button, down bool) error { return ErrUnsupported }
func (unsupported) Scroll(dx, dy int) error                { return ErrUnsupported }
func (unsupported) Key(k input.HostKey, down bool) error   { return ErrUnsupported }
