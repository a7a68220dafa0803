// Package events provides the process-wide signal channel between
// modules and the scheduler loop.
//
// Modules emit typed signals instead of calling back into the
// scheduler: NotifyChange when cached output went stale, CheckState
// when a module stopped and the scheduler should decide whether the
// process keeps running, Refresh when every module should rebuild.
package events

import (
	"sync"
	"time"
)

// Signal identifies the kind of event being emitted.
type Signal int

const (
	// SignalNotifyChange means a module's content is dirty and the bar
	// should re-render.
	SignalNotifyChange Signal = iota
	// SignalCheckState means a module changed lifecycle state and the
	// scheduler should check whether any module is still running.
	SignalCheckState
	// SignalRefresh means all modules should rebuild, typically after
	// a configuration change.
	SignalRefresh
)

// String returns the string representation of the signal.
func (s Signal) String() string {
	switch s {
	case SignalNotifyChange:
		return "notify_change"
	case SignalCheckState:
		return "check_state"
	case SignalRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Event is one emitted signal with its source module, if any.
type Event struct {
	Signal    Signal
	Module    string
	Timestamp time.Time
}

// Emitter fans events out to all subscribers.
type Emitter struct {
	mutex  sync.RWMutex
	subs   []chan Event
	closed bool
}

// NewEmitter creates an emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{subs: make([]chan Event, 0)}
}

// Subscribe registers a new subscriber channel with the given buffer.
// Events are dropped per-subscriber when the buffer is full, so a slow
// consumer cannot stall an emitting module.
func (e *Emitter) Subscribe(buffer int) <-chan Event {
	ch := make(chan Event, buffer)

	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.closed {
		close(ch)
		return ch
	}
	e.subs = append(e.subs, ch)
	return ch
}

// Emit delivers the signal to every subscriber without blocking.
func (e *Emitter) Emit(signal Signal, module string) {
	event := Event{
		Signal:    signal,
		Module:    module,
		Timestamp: time.Now(),
	}

	e.mutex.RLock()
	defer e.mutex.RUnlock()
	if e.closed {
		return
	}
	for _, sub := range e.subs {
		select {
		case sub <- event:
		default:
			// Skip if the subscriber's buffer is full.
		}
	}
}

// Close closes every subscriber channel. Emit becomes a no-op.
func (e *Emitter) Close() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for _, sub := range e.subs {
		close(sub)
	}
	e.subs = nil
}
