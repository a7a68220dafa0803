package module

import (
	"sync"
	"time"
)

// gate is the shared wait primitive behind Sleep and SleepUntil. A
// release closes the current channel, waking every waiter at once,
// and re-arms with a fresh channel for the next round. Waiters grab
// the channel under the mutex so a concurrent release cannot strand
// them on a stale one.
type gate struct {
	mutex sync.Mutex
	ch    chan struct{}
}

func newGate() *gate {
	return &gate{ch: make(chan struct{})}
}

// wait blocks until the duration elapses or the gate is released.
// Non-positive durations return immediately.
func (g *gate) wait(d time.Duration) {
	if d <= 0 {
		return
	}

	g.mutex.Lock()
	ch := g.ch
	g.mutex.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ch:
	case <-timer.C:
	}
}

// release wakes all current waiters.
func (g *gate) release() {
	g.mutex.Lock()
	close(g.ch)
	g.ch = make(chan struct{})
	g.mutex.Unlock()
}
