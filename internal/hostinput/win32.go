//go:build windows && !cgo

package hostinput

import (
	"syscall"

	"deskstream/internal/input"

	"github.com/pkg/errors"
)

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	procSetCursorPos = user32.NewProc("SetCursorPos")
	procMouseEvent   = user32.NewProc("mouse_event")
	procKeybdEvent   = user32.NewProc("keybd_event")
)

const (
	MOUSEEVENTF_LEFTDOWN   = 0x0002
	MOUSEEVENTF_LEFTUP     = 0x0004
	MOUSEEVENTF_RIGHTDOWN  = 0x0008
	MOUSEEVENTF_RIGHTUP    = 0x0010
	MOUSEEVENTF_MIDDLEDOWN = 0x0020
	MOUSEEVENTF_MIDDLEUP   = 0x0040
	MOUSEEVENTF_WHEEL      = 0x0800
	MOUSEEVENTF_HWHEEL     = 0x1000

	KEYEVENTF_KEYUP = 0x0002

	WHEEL_DELTA = 120
)

// New returns the injector for this platform.
func New() input.Injector { return win32{} }

type win32 struct{}

func (win32) Move(x, y int) error {
	ret, _, err := procSetCursorPos.Call(uintptr(int32(x)), uintptr(int32(y)))
	if ret == 0 {
		return errors.Wrap(err, "SetCursorPos")
	}
	return nil
}

func (win32) Button(b input.Button, down bool) error {
	var flags uint32
	switch b {
	case input.ButtonLeft:
		flags = pick(down, MOUSEEVENTF_LEFTDOWN, MOUSEEVENTF_LEFTUP)
	case input.ButtonRight:
		flags = pick(down, MOUSEEVENTF_RIGHTDOWN, MOUSEEVENTF_RIGHTUP)
	case input.ButtonMiddle:
		flags = pick(down, MOUSEEVENTF_MIDDLEDOWN, MOUSEEVENTF_MIDDLEUP)
	default:
		return errors.Wrapf(ErrUnsupported, "button %q", b)
	}
	mouseEvent(flags, 0)
	return nil
}

func (win32) Scroll(dx, dy int) error {
	if dy != 0 {
		mouseEvent(MOUSEEVENTF_WHEEL, int32(dy*WHEEL_DELTA))
	}
	if dx != 0 {
		mouseEvent(MOUSEEVENTF_HWHEEL, int32(dx*WHEEL_DELTA))
	}
	return nil
}

func (win32) Key(k input.HostKey, down bool) error {
	vk, ok := virtualKeys[k]
	if !ok {
		return errors.Wrapf(ErrUnsupported, "key %q", k)
	}
	var flags uint32
	if !down {
		flags = KEYEVENTF_KEYUP
	}
	procKeybdEvent.Call(uintptr(vk), 0, uintptr(flags), 0)
	return nil
}

func mouseEvent(flags uint32, data int32) {
	procMouseEvent.Call(uintptr(flags), 0, 0, uintptr(uint32(data)), 0)
}

func pick(down bool, d, u uint32) uint32 {
	if down {
		return d
	}
	return u
}

var virtualKeys = map[input.HostKey]uint16{
	"lalt": 0xA4, "ralt": 0xA5, "altgr": 0xA5,
	"lctrl": 0xA2, "rctrl": 0xA3,
	"lshift": 0xA0, "rshift": 0xA1,
	"lcmd": 0x5B, "rcmd": 0x5C,
	"backspace": 0x08, "tab": 0x09, "enter": 0x0D, "esc": 0x1B, "space": 0x20,
	"capslock": 0x14, "pause": 0x13, "printscreen": 0x2C,
	"scrolllock": 0x91, "num_lock": 0x90,
	"pageup": 0x21, "pagedown": 0x22, "end": 0x23, "home": 0x24,
	"insert": 0x2D, "delete": 0x2E,
	"left": 0x25, "up": 0x26, "right": 0x27, "down": 0x28,

	"f1": 0x70, "f2": 0x71, "f3": 0x72, "f4": 0x73, "f5": 0x74, "f6": 0x75,
	"f7": 0x76, "f8": 0x77, "f9": 0x78, "f10": 0x79, "f11": 0x7A, "f12": 0x7B,

	";": 0xBA, "=": 0xBB, ",": 0xBC, "-": 0xBD, ".": 0xBE, "/": 0xBF,
	"`": 0xC0, "[": 0xDB, "\\": 0xDC, "]": 0xDD, "'": 0xDE,

	"num0": 0x60, "num1": 0x61, "num2": 0x62, "num3": 0x63, "num4": 0x64,
	"num5": 0x65, "num6": 0x66, "num7": 0x67, "num8": 0x68, "num9": 0x69,
	"num*": 0x6A, "num+": 0x6B, "num-": 0x6D, "num.": 0x6E, "num/": 0x6F,
	"num_enter": 0x0D,
}

func init() {
	for c := '0'; c <= '9'; c++ {
		virtualKeys[input.HostKey(string(c))] = uint16(c)
	}
	for c := 'a'; c <= 'z'; c++ {
		virtualKeys[input.HostKey(string(c))] = uint16('A' + (c - 'a'))
	}
}
