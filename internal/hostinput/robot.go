//go:build cgo

package hostinput

import (
	"strconv"

	"deskstream/internal/input"

	"github.com/go-vgo/robotgo"
	"github.com/pkg/errors"
)

// New returns the injector for this platform.
func New() input.Injector { return Robot{} }

// Robot synthesizes events with robotgo.
type Robot struct{}

func (Robot) Move(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (Robot) Button(b input.Button, down bool) error {
	return errors.Wrapf(robotgo.Toggle(string(b), direction(down)), "toggle %s", b)
}

func (Robot) Scroll(dx, dy int) error {
	robotgo.Scroll(dx, dy)
	return nil
}

func (Robot) Key(k input.HostKey, down bool) error {
	if !robotSupports(k) {
		return errors.Wrapf(ErrUnsupported, "key %s", k)
	}
	return errors.Wrapf(robotgo.KeyToggle(string(k), direction(down)), "key %s", k)
}

// robotNames are the multi-character key names robotgo resolves. robotgo
// turns any other name into keycode 0 without reporting an error.
var robotNames = map[input.HostKey]bool{
	"backspace": true, "delete": true, "enter": true, "tab": true,
	"esc": true, "escape": true, "up": true, "down": true, "right": true,
	"left": true, "home": true, "end": true, "pageup": true, "pagedown": true,
	"cmd": true, "lcmd": true, "rcmd": true, "command": true,
	"alt": true, "lalt": true, "ralt": true,
	"ctrl": true, "lctrl": true, "rctrl": true, "control": true,
	"shift": true, "lshift": true, "rshift": true, "right_shift": true,
	"capslock": true, "space": true, "print": true, "printscreen": true,
	"insert": true, "menu": true,
	"num_lock": true, "num.": true, "num+": true, "num-": true, "num*": true,
	"num/": true, "num_clear": true, "num_enter": true, "num_equal": true,
}

func init() {
	for i := 1; i <= 24; i++ {
		robotNames[input.HostKey("f"+strconv.Itoa(i))] = true
	}
	for i := 0; i <= 9; i++ {
		robotNames[input.HostKey("num"+strconv.Itoa(i))] = true
	}
}

func robotSupports(k input.HostKey) bool {
	return len(k) == 1 || robotNames[k]
}

func direction(down bool) string {
	if down {
		return "down"
	}
	return "up"
}
