package rtc

import (
	"context"
	"encoding/json"
	"sync"

	"deskstream/internal/types"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// InputLabel is the data channel label carrying control messages.
const InputLabel = "input"

// Handler receives every control message from a peer's input channel.
type Handler func(msg types.ControlMessage)

// Manager answers WebRTC offers from viewers that want to send input over a
// data channel instead of HTTP requests. Video is not carried over WebRTC.
type Manager struct {
	config webrtc.Configuration
	handle Handler

	mu    sync.Mutex
	peers map[string]*webrtc.PeerConnection
}

// NewManager returns a manager using the given STUN/TURN URLs.
func NewManager(iceServers []string, handle Handler) *Manager {
	cfg := webrtc.Configuration{}
	if len(iceServers) > 0 {
		cfg.ICEServers = []webrtc.ICEServer{{URLs: iceServers}}
	}
	return &Manager{
		config: cfg,
		handle: handle,
		peers:  make(map[string]*webrtc.PeerConnection),
	}
}

// Answer accepts a remote offer and returns the local answer once ICE
// gathering is complete.
func (m *Manager) Answer(ctx context.Context, offer webrtc.SessionDescription) (*webrtc.SessionDescription, error) {
	pc, err := webrtc.NewPeerConnection(m.config)
	if err != nil {
		return nil, errors.Wrap(err, "new peer connection")
	}
	id := uuid.NewString()
	logger := log.WithField("peer", id)

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != InputLabel {
			logger.WithField("label", dc.Label()).Debug("ignoring data channel")
			return
		}
		dc.OnOpen(func() {
			logger.Info("input channel open")
		})
		dc.OnMessage(func(msg webrtc.DataChannelMessage) {
			m.onMessage(logger, msg.Data)
		})
	})

	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		logger.WithField("state", s.String()).Debug("peer connection state changed")
		switch s {
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed:
			go m.remove(id)
		}
	})

	if err := pc.SetRemoteDescription(offer); err != nil {
		_ = pc.Close()
		return nil, errors.Wrap(err, "set remote description")
	}
	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		_ = pc.Close()
		return nil, errors.Wrap(err, "create answer")
	}
	gatherComplete := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(answer); err != nil {
		_ = pc.Close()
		return nil, errors.Wrap(err, "set local description")
	}

	select {
	case <-gatherComplete:
	case <-ctx.Done():
		_ = pc.Close()
		return nil, errors.Wrap(ctx.Err(), "ice gathering")
	}

	m.mu.Lock()
	m.peers[id] = pc
	m.mu.Unlock()

	logger.Info("answered peer offer")
	return pc.LocalDescription(), nil
}

func (m *Manager) onMessage(logger *log.Entry, data []byte) {
	var msg types.ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.WithError(err).Warn("bad control message")
		return
	}
	m.handle(msg)
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	pc, ok := m.peers[id]
	delete(m.peers, id)
	m.mu.Unlock()

	if ok {
		if err := pc.Close(); err != nil {
			log.WithError(err).WithField("peer", id).Debug("close peer connection")
		}
	}
}

// Len returns the number of live peers.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.peers)
}

// Close closes every peer connection.
func (m *Manager) Close() {
	m.mu.Lock()
	peers := m.peers
	m.peers = make(map[string]*webrtc.PeerConnection)
	m.mu.Unlock()

	for id, pc := range peers {
		if err := pc.Close(); err != nil {
			log.WithError(err).WithField("peer", id).Debug("close peer connection")
		}
	}
}
