package app

import (
	"sync"

	"github.com/dkeye/rooms/internal/core"
)

type fakeSignal struct {
	mu     sync.Mutex
	frames []core.Frame
	pings  int
	closed bool
}

func (f *fakeSignal) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeSignal) Ping() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return nil
}

func (f *fakeSignal) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSignal) state() (pings int, closed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings, f.closed
}
