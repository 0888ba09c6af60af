package capture

import (
	"context"
	"time"

	"deskstream/internal/types"

	log "github.com/sirupsen/logrus"
)

// Period is the fixed capture cadence (25 frames per second).
const Period = 40 * time.Millisecond

// Sink receives every frame produced by the loop.
type Sink interface {
	Broadcast(frame types.Frame)
}

// Loop captures, processes and broadcasts a frame every Period. Frames are
// produced even when nobody is watching so a new viewer gets one at once.
type Loop struct {
	src  Source
	proc *Processor
	sink Sink

	lastGood    types.Frame
	haveGood    bool
	captureFail bool
	encodeFail  bool
}

// NewLoop wires a source to a sink.
func NewLoop(src Source, sink Sink) *Loop {
	return &Loop{src: src, proc: NewProcessor(), sink: sink}
}

// Run ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(Period)
	defer ticker.Stop()

	log.WithField("period", Period).Info("capture loop started")
	for {
		select {
		case <-ctx.Done():
			log.Info("capture loop stopped")
			return
		case <-ticker.C:
			l.Tick()
		}
	}
}

// Tick runs one capture → process → broadcast step. A failed capture is
// replaced by a blank frame; a failed encode by the last good frame. If
// neither is available the tick is skipped.
func (l *Loop) Tick() {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("capture tick panicked")
		}
	}()

	frame, ok := l.next()
	if !ok {
		return
	}
	l.sink.Broadcast(frame)
}

func (l *Loop) next() (types.Frame, bool) {
	var (
		frame types.Frame
		err   error
	)

	raw, cerr := l.src.Capture()
	if cerr != nil {
		if !l.captureFail {
			log.WithError(cerr).Warn("failed to capture, sending blank frames")
		}
		l.captureFail = true
		frame, err = l.proc.Blank()
	} else {
		if l.captureFail {
			log.Info("capture recovered")
		}
		l.captureFail = false
		frame, err = l.proc.Process(raw)
	}

	if err != nil {
		if !l.encodeFail {
			log.WithError(err).Warn("failed to encode frame")
		}
		l.encodeFail = true
		return l.lastGood, l.haveGood
	}
	if l.encodeFail {
		log.Info("frame encoding recovered")
	}
	l.encodeFail = false
	l.lastGood, l.haveGood = frame, true
	return frame, true
}
