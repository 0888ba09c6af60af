package input

import (
	"sync"
	"time"

	"deskstream/internal/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Pacing is the pause after every synthesized event.
const Pacing = 20 * time.Millisecond

var (
	ErrUnknownKey    = errors.New("unknown key")
	ErrUnknownButton = errors.New("unknown mouse button")
)

// Injector synthesizes input events on the host.
type Injector interface {
	Move(x, y int) error
	Button(b Button, down bool) error
	Scroll(dx, dy int) error
	Key(k HostKey, down bool) error
}

// Dispatcher replays viewer commands through an Injector. Commands are
// serialized so the events of one command are never interleaved with
// another's.
type Dispatcher struct {
	mapper   *Mapper
	injector Injector
	pacing   time.Duration
	sleep    func(time.Duration)

	mu sync.Mutex
}

// NewDispatcher returns a dispatcher pacing events by Pacing.
func NewDispatcher(mapper *Mapper, injector Injector) *Dispatcher {
	return &Dispatcher{
		mapper:   mapper,
		injector: injector,
		pacing:   Pacing,
		sleep:    time.Sleep,
	}
}

// DispatchPointer moves to the command's position and then performs its
// button or wheel action there.
func (d *Dispatcher) DispatchPointer(cmd types.PointerCommand) {
	switch cmd.Kind {
	case types.PointerPress, types.PointerRelease, types.PointerMove, types.PointerWheel:
	default:
		log.WithField("id", uint8(cmd.Kind)).Warn("ignoring pointer command with unknown id")
		return
	}

	x, y, err := d.position(cmd)
	if err != nil {
		log.WithError(err).WithField("kind", cmd.Kind).Warn("ignoring pointer command")
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.send("move", func() error { return d.injector.Move(x, y) })

	switch cmd.Kind {
	case types.PointerPress:
		b := ButtonFor(cmd.Button)
		d.send("button down", func() error { return d.button(b, true) })
	case types.PointerRelease:
		b := ButtonFor(cmd.Button)
		d.send("button up", func() error { return d.button(b, false) })
	case types.PointerWheel:
		dx, dy := deref(cmd.DeltaX), deref(cmd.DeltaY)
		d.send("wheel", func() error { return d.injector.Scroll(int(-dx), int(-dy)) })
	}
}

// DispatchKey presses or releases the host key for cmd.Code.
func (d *Dispatcher) DispatchKey(cmd types.KeyCommand) {
	var down bool
	switch cmd.Kind {
	case types.KeyPress:
		down = true
	case types.KeyRelease:
	default:
		log.WithField("id", uint8(cmd.Kind)).Warn("ignoring key command with unknown id")
		return
	}

	key := LookupKey(cmd.Code)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.send("key "+cmd.Kind.String(), func() error {
		if key == UnknownKey {
			return errors.Wrapf(ErrUnknownKey, "code %q", cmd.Code)
		}
		return d.injector.Key(key, down)
	})
}

func (d *Dispatcher) position(cmd types.PointerCommand) (int, int, error) {
	if cmd.X == nil || cmd.Y == nil {
		return 0, 0, errors.New("missing pointer position")
	}
	if cmd.ViewportHeight == nil {
		return 0, 0, errors.Wrap(ErrInvalidViewport, "missing height")
	}
	return d.mapper.Scale(int(*cmd.X), int(*cmd.Y), float64(*cmd.ViewportHeight))
}

func (d *Dispatcher) button(b Button, down bool) error {
	if b == UnknownButton {
		return ErrUnknownButton
	}
	return d.injector.Button(b, down)
}

// send runs one synthesis and always waits out the pacing delay.
func (d *Dispatcher) send(what string, fn func() error) {
	if err := fn(); err != nil {
		log.WithError(err).Warnf("could not send %s", what)
	}
	d.sleep(d.pacing)
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// Dispatch routes a control message received over a message transport.
func (d *Dispatcher) Dispatch(msg types.ControlMessage) {
	switch msg.Type {
	case "mouse":
		d.DispatchPointer(msg.MouseRequest.Command())
	case "key":
		d.DispatchKey(msg.Key().Command())
	default:
		log.WithField("type", msg.Type).Warn("ignoring control message with unknown type")
	}
}
