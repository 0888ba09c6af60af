package clients

import (
	"sync"

	"deskstream/internal/types"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// QueueSize is the number of frames a viewer may fall behind before it is
// dropped.
const QueueSize = 100

// Viewer is the consuming half of a registered viewer channel. C is closed
// when the registry drops the viewer.
type Viewer struct {
	ID string
	C  <-chan types.Frame

	done chan struct{}
	once sync.Once
}

// Close marks the viewer as gone. The registry notices on its next
// broadcast.
func (v *Viewer) Close() {
	v.once.Do(func() { close(v.done) })
}

type member struct {
	ch   chan types.Frame
	done <-chan struct{}
}

// Registry fans frames out to every registered viewer.
type Registry struct {
	mu      sync.Mutex
	members map[string]*member
	closed  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{members: make(map[string]*member)}
}

// Register adds a viewer with a fresh queue.
func (r *Registry) Register() *Viewer {
	ch := make(chan types.Frame, QueueSize)
	v := &Viewer{ID: uuid.NewString(), C: ch, done: make(chan struct{})}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		close(ch)
		return v
	}
	r.members[v.ID] = &member{ch: ch, done: v.done}
	log.WithFields(log.Fields{"viewer": v.ID, "total": len(r.members)}).Debug("viewer registered")
	return v
}

// Broadcast offers frame to every viewer without blocking. Viewers that
// have gone away or whose queue is full are removed and their channel is
// closed; the others always receive the frame.
func (r *Registry) Broadcast(frame types.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.members {
		select {
		case <-m.done:
			r.drop(id, m, "disconnected")
			continue
		default:
		}

		select {
		case m.ch <- frame:
		default:
			r.drop(id, m, "queue full")
		}
	}
}

// drop must be called with mu held.
func (r *Registry) drop(id string, m *member, reason string) {
	close(m.ch)
	delete(r.members, id)
	log.WithFields(log.Fields{"viewer": id, "reason": reason, "remaining": len(r.members)}).Debug("viewer dropped")
}

// Len returns the number of registered viewers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Close drops every viewer. Viewers registered afterwards receive an
// already-closed channel.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for id, m := range r.members {
		close(m.ch)
		delete(r.members, id)
	}
	log.Info("viewer registry closed")
}
