package server

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"os"
	"time"

	"deskstream/internal/capture"
	"deskstream/internal/clients"
	"deskstream/internal/input"
	"deskstream/internal/rtc"
	"deskstream/internal/types"

	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	log "github.com/sirupsen/logrus"
)

//go:embed static
var embeddedFiles embed.FS

const (
	wsReadLimit   = 64 << 10
	wsReadTimeout = 60 * time.Second
	offerTimeout  = 10 * time.Second

	// DefaultWriteTimeout bounds the write of one stream chunk.
	DefaultWriteTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Config holds the collaborators behind the HTTP surface.
type Config struct {
	Registry   *clients.Registry
	Dispatcher *input.Dispatcher
	Peers      *rtc.Manager
	Metrics    types.HostDisplayMetrics
	// StaticDir overrides the embedded viewer page when set.
	StaticDir string
	// WriteTimeout defaults to DefaultWriteTimeout.
	WriteTimeout time.Duration
}

// Server exposes the video stream and the control endpoints.
type Server struct {
	cfg Config
	mux *http.ServeMux
}

// New builds the route table.
func New(cfg Config) *Server {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	s := &Server{cfg: cfg, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /streaming", s.HandleStream)
	s.mux.HandleFunc("POST /api/mouse", s.HandleMouse)
	s.mux.HandleFunc("POST /api/key", s.HandleKey)
	s.mux.HandleFunc("GET /api/ws", s.HandleWS)
	s.mux.HandleFunc("GET /api/status", s.HandleStatus)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w)
	})
	if cfg.Peers != nil {
		s.mux.HandleFunc("POST /api/rtc/offer", s.HandleOffer)
	}
	s.mux.Handle("GET /", http.FileServerFS(s.staticFS()))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) staticFS() fs.FS {
	if s.cfg.StaticDir != "" {
		return os.DirFS(s.cfg.StaticDir)
	}
	sub, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// HandleStream registers a viewer and writes its frames as a
// multipart/x-mixed-replace body until the client goes away or the
// registry drops it.
func (s *Server) HandleStream(w http.ResponseWriter, r *http.Request) {
	viewer := s.cfg.Registry.Register()
	defer viewer.Close()

	logger := log.WithFields(log.Fields{"viewer": viewer.ID, "remote": r.RemoteAddr})
	logger.Info("viewer connected")

	h := w.Header()
	h.Set("Cache-Control", "no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
	h.Set("Connection", "close")
	h.Set("Content-Type", capture.ContentType)
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	_ = rc.Flush()

	for {
		select {
		case <-r.Context().Done():
			logger.Info("viewer disconnected")
			return
		case frame, ok := <-viewer.C:
			if !ok {
				logger.Info("viewer dropped by registry")
				return
			}
			if err := rc.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
				logger.WithError(err).Debug("stream write deadline not supported")
			}
			if _, err := w.Write(frame.Chunk); err != nil {
				logger.WithError(err).Debug("stream write failed")
				return
			}
			if err := rc.Flush(); err != nil {
				logger.WithError(err).Debug("stream flush failed")
				return
			}
		}
	}
}

// HandleMouse replays a pointer command. The reply is "ok" whether or not
// the command was recognized.
func (s *Server) HandleMouse(w http.ResponseWriter, r *http.Request) {
	var req types.MouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	s.cfg.Dispatcher.DispatchPointer(req.Command())
	writeOK(w)
}

// HandleKey replays a key command. The reply is always "ok".
func (s *Server) HandleKey(w http.ResponseWriter, r *http.Request) {
	var req types.KeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	s.cfg.Dispatcher.DispatchKey(req.Command())
	writeOK(w)
}

// HandleWS accepts a websocket carrying a sequence of control messages.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer ws.Close()

	ws.SetReadLimit(wsReadLimit)
	_ = ws.SetReadDeadline(time.Now().Add(wsReadTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	logger := log.WithField("remote", r.RemoteAddr)
	logger.Info("control websocket connected")

	for {
		var msg types.ControlMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WithError(err).Warn("control websocket read failed")
			} else {
				logger.Info("control websocket closed")
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(wsReadTimeout))
		s.cfg.Dispatcher.Dispatch(msg)
	}
}

// HandleOffer answers a WebRTC offer whose input data channel carries
// control messages.
func (s *Server) HandleOffer(w http.ResponseWriter, r *http.Request) {
	var offer webrtc.SessionDescription
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		http.Error(w, "invalid offer", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), offerTimeout)
	defer cancel()

	answer, err := s.cfg.Peers.Answer(ctx, offer)
	if err != nil {
		log.WithError(err).Warn("failed to answer offer")
		http.Error(w, "failed to answer offer", http.StatusInternalServerError)
		return
	}
	writeJSON(w, answer)
}

// HandleStatus reports the viewer count and host display size.
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.Status{
		Viewers: s.cfg.Registry.Len(),
		Width:   s.cfg.Metrics.Width,
		Height:  s.cfg.Metrics.Height,
	})
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Debug("write json response")
	}
}
