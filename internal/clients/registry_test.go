package clients

import (
	"sync"
	"testing"

	"deskstream/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(n int) types.Frame {
	return types.Frame{Chunk: []byte{byte(n)}, Width: 1, Height: 1}
}

func drain(v *Viewer) int {
	n := 0
	for range v.C {
		n++
	}
	return n
}

func TestRegisterAndBroadcast(t *testing.T) {
	r := NewRegistry()
	a := r.Register()
	b := r.Register()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, r.Len())

	r.Broadcast(frame(7))

	assert.Equal(t, frame(7), <-a.C)
	assert.Equal(t, frame(7), <-b.C)
}

func TestBroadcastDropsSaturatedViewerOnly(t *testing.T) {
	r := NewRegistry()
	fast1 := r.Register()
	slow := r.Register()
	fast2 := r.Register()

	for i := 0; i < QueueSize; i++ {
		r.Broadcast(frame(i))
		<-fast1.C
		<-fast2.C
	}
	require.Len(t, slow.C, QueueSize)
	require.Equal(t, 3, r.Len())

	r.Broadcast(frame(QueueSize))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, frame(QueueSize), <-fast1.C)
	assert.Equal(t, frame(QueueSize), <-fast2.C)
	// the slow viewer keeps what was queued, then sees its channel closed
	assert.Equal(t, QueueSize, drain(slow))

	r.Broadcast(frame(0))
	assert.Equal(t, 2, r.Len())
}

func TestBroadcastDropsClosedViewer(t *testing.T) {
	r := NewRegistry()
	gone := r.Register()
	stay := r.Register()

	gone.Close()
	gone.Close()
	assert.Equal(t, 2, r.Len(), "departure is noticed lazily")

	r.Broadcast(frame(1))

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 0, drain(gone))
	assert.Equal(t, frame(1), <-stay.C)
}

func TestBroadcastWithoutViewers(t *testing.T) {
	r := NewRegistry()
	assert.NotPanics(t, func() { r.Broadcast(frame(1)) })
	assert.Equal(t, 0, r.Len())
}

func TestClose(t *testing.T) {
	r := NewRegistry()
	v := r.Register()

	r.Close()
	r.Close()

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, drain(v))

	late := r.Register()
	assert.Equal(t, 0, drain(late))
	assert.Equal(t, 0, r.Len())
	assert.NotPanics(t, func() { r.Broadcast(frame(1)) })
}

func TestConcurrentRegisterAndBroadcast(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			r.Broadcast(frame(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			v := r.Register()
			if i%2 == 0 {
				v.Close()
			}
		}
	}()
	wg.Wait()

	r.Broadcast(frame(0))
	assert.LessOrEqual(t, r.Len(), 25)
}
