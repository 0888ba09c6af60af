package types

// Frame is one encoded, boundary-framed JPEG chunk ready to be written to a
// viewer. Chunk is shared between viewers and must not be modified.
type Frame struct {
	Chunk  []byte
	Width  int
	Height int
}

// RawFrame is an RGBA pixel buffer as captured from the host display.
type RawFrame struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
}

// HostDisplayMetrics is the native geometry of the captured display,
// resolved once at startup.
type HostDisplayMetrics struct {
	Width  int
	Height int
}

// PointerKind is the pointer command id sent by the viewer.
type PointerKind uint8

const (
	PointerPress PointerKind = iota
	PointerRelease
	PointerMove
	PointerWheel
)

func (k PointerKind) String() string {
	switch k {
	case PointerPress:
		return "press"
	case PointerRelease:
		return "release"
	case PointerMove:
		return "move"
	case PointerWheel:
		return "wheel"
	}
	return "unknown"
}

// KeyKind is the key command id sent by the viewer.
type KeyKind uint8

const (
	KeyPress KeyKind = iota
	KeyRelease
)

func (k KeyKind) String() string {
	switch k {
	case KeyPress:
		return "press"
	case KeyRelease:
		return "release"
	}
	return "unknown"
}

// PointerCommand is a pointer action positioned in the viewer's coordinate
// space. Optional fields are nil when the viewer omitted them.
type PointerCommand struct {
	Kind           PointerKind
	X, Y           *int32
	ViewportHeight *float32
	Button         *uint8
	DeltaX, DeltaY *int64
}

// KeyCommand is a keyboard action on a symbolic key code.
type KeyCommand struct {
	Kind KeyKind
	Code string
}

// MouseRequest is the JSON body of the pointer endpoint.
type MouseRequest struct {
	ID     uint8    `json:"id"`
	X      *int32   `json:"x,omitempty"`
	Y      *int32   `json:"y,omitempty"`
	DeltaX *int64   `json:"delta_x,omitempty"`
	DeltaY *int64   `json:"delta_y,omitempty"`
	Height *float32 `json:"height,omitempty"`
	Button *uint8   `json:"button,omitempty"`
}

// Command converts the request into a PointerCommand.
func (r MouseRequest) Command() PointerCommand {
	return PointerCommand{
		Kind:           PointerKind(r.ID),
		X:              r.X,
		Y:              r.Y,
		ViewportHeight: r.Height,
		Button:         r.Button,
		DeltaX:         r.DeltaX,
		DeltaY:         r.DeltaY,
	}
}

// KeyRequest is the JSON body of the key endpoint.
type KeyRequest struct {
	ID   uint8  `json:"id"`
	Code string `json:"code"`
}

// Command converts the request into a KeyCommand.
func (r KeyRequest) Command() KeyCommand {
	return KeyCommand{Kind: KeyKind(r.ID), Code: r.Code}
}

// ControlMessage is a pointer or key request carried over a message
// transport (websocket or data channel). Type selects which fields apply.
type ControlMessage struct {
	Type string `json:"type"`
	MouseRequest
	Code string `json:"code,omitempty"`
}

// Key returns the key request carried by the message.
func (m ControlMessage) Key() KeyRequest {
	return KeyRequest{ID: m.ID, Code: m.Code}
}

// Status is the outbound payload of the status endpoint.
type Status struct {
	Viewers int `json:"viewers"`
	Width   int `json:"width"`
	Height  int `json:"height"`
}
