package input

// HostKey is a key name understood by the host injector.
type HostKey string

// UnknownKey is what unrecognized codes resolve to.
const UnknownKey HostKey = ""

// Button is a mouse button name understood by the host injector.
type Button string

const (
	ButtonLeft    Button = "left"
	ButtonMiddle  Button = "center"
	ButtonRight   Button = "right"
	UnknownButton Button = ""
)

// ButtonFor maps the viewer's button number (0 left, 1 middle, 2 right).
func ButtonFor(id *uint8) Button {
	if id == nil {
		return UnknownButton
	}
	switch *id {
	case 0:
		return ButtonLeft
	case 1:
		return ButtonMiddle
	case 2:
		return ButtonRight
	}
	return UnknownButton
}

// LookupKey resolves a lower-cased browser key code ("keyq", "arrowleft",
// "numpad5") to a host key. Unknown codes return UnknownKey.
func LookupKey(code string) HostKey {
	if k, ok := keyTable[code]; ok {
		return k
	}
	return UnknownKey
}

// KeyCodes returns every code in the key table.
func KeyCodes() []string {
	codes := make([]string, 0, len(keyTable))
	for code := range keyTable {
		codes = append(codes, code)
	}
	return codes
}

var keyTable = map[string]HostKey{
	"altleft":      "lalt",
	"altright":     "ralt",
	"altgraph":     "altgr",
	"backspace":    "backspace",
	"capslock":     "capslock",
	"controlleft":  "lctrl",
	"controlright": "rctrl",
	"delete":       "delete",
	"end":          "end",
	"enter":        "enter",
	"escape":       "esc",
	"home":         "home",
	"insert":       "insert",
	"metaleft":     "lcmd",
	"metaright":    "rcmd",
	"pagedown":     "pagedown",
	"pageup":       "pageup",
	"pause":        "pause",
	"printscreen":  "printscreen",
	"scrolllock":   "scrolllock",
	"numlock":      "num_lock",
	"shiftleft":    "lshift",
	"shiftright":   "rshift",
	"space":        "space",
	"tab":          "tab",

	"arrowup":    "up",
	"arrowdown":  "down",
	"arrowleft":  "left",
	"arrowright": "right",

	"f1":  "f1",
	"f2":  "f2",
	"f3":  "f3",
	"f4":  "f4",
	"f5":  "f5",
	"f6":  "f6",
	"f7":  "f7",
	"f8":  "f8",
	"f9":  "f9",
	"f10": "f10",
	"f11": "f11",
	"f12": "f12",

	"backquote":    "`",
	"minus":        "-",
	"equal":        "=",
	"bracketleft":  "[",
	"bracketright": "]",
	"semicolon":    ";",
	"quote":        "'",
	"backslash":    "\\",
	"comma":        ",",
	"period":       ".",
	"slash":        "/",

	"digit0": "0",
	"digit1": "1",
	"digit2": "2",
	"digit3": "3",
	"digit4": "4",
	"digit5": "5",
	"digit6": "6",
	"digit7": "7",
	"digit8": "8",
	"digit9": "9",

	"keya": "a",
	"keyb": "b",
	"keyc": "c",
	"keyd": "d",
	"keye": "e",
	"keyf": "f",
	"keyg": "g",
	"keyh": "h",
	"keyi": "i",
	"keyj": "j",
	"keyk": "k",
	"keyl": "l",
	"keym": "m",
	"keyn": "n",
	"keyo": "o",
	"keyp": "p",
	"keyq": "q",
	"keyr": "r",
	"keys": "s",
	"keyt": "t",
	"keyu": "u",
	"keyv": "v",
	"keyw": "w",
	"keyx": "x",
	"keyy": "y",
	"keyz": "z",

	"numpad0":        "num0",
	"numpad1":        "num1",
	"numpad2":        "num2",
	"numpad3":        "num3",
	"numpad4":        "num4",
	"numpad5":        "num5",
	"numpad6":        "num6",
	"numpad7":        "num7",
	"numpad8":        "num8",
	"numpad9":        "num9",
	"numpadadd":      "num+",
	"numpadsubtract": "num-",
	"numpadmultiply": "num*",
	"numpaddivide":   "num/",
	"numpaddelete":   "num.",
	"numpadenter":    "num_enter",
}
