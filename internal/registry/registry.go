// Package registry tracks the running modules of one bar process.
//
// The scheduler loop renders by iterating the registry in registration
// order, the IPC surface routes incoming actions through it, and the
// config watcher uses it to refresh every module at once. Watchers can
// subscribe to registry membership changes.
package registry

import (
	"sync"
	"time"
)

// Module is the surface the rest of the process sees of one segment.
// The concrete implementation lives in internal/module.
type Module interface {
	Name() string
	NameRaw() string
	Type() string
	Running() bool
	Contents() string
	Input(name, data string) bool
	Broadcast()
	Stop()
	Join()
}

// EventType represents the type of registry event.
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeRemoved
)

// Event represents a change in registry membership.
type Event struct {
	Type      EventType
	Name      string
	Timestamp time.Time
}

// Registry manages all configured modules.
type Registry struct {
	modules  map[string]Module
	order    []string
	watchers []chan Event
	mutex    sync.RWMutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		modules:  make(map[string]Module),
		order:    make([]string, 0),
		watchers: make([]chan Event, 0),
	}
}

// Register adds a module. Registering a name twice replaces the old
// module but keeps its position on the bar.
func (r *Registry) Register(m Module) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	name := m.NameRaw()
	if _, exists := r.modules[name]; !exists {
		r.order = append(r.order, name)
	}
	r.modules[name] = m

	r.notify(Event{Type: EventTypeAdded, Name: name, Timestamp: time.Now()})
}

// Get retrieves a module by its raw name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	m, exists := r.modules[name]
	return m, exists
}

// All returns the modules in registration order.
func (r *Registry) All() []Module {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]Module, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.modules[name])
	}
	return result
}

// Count returns the number of registered modules.
func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.modules)
}

// Remove removes a module from the registry.
func (r *Registry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.modules[name]; !exists {
		return
	}
	delete(r.modules, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.notify(Event{Type: EventTypeRemoved, Name: name, Timestamp: time.Now()})
}

// AnyRunning reports whether at least one module is still running.
func (r *Registry) AnyRunning() bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, m := range r.modules {
		if m.Running() {
			return true
		}
	}
	return false
}

// BroadcastAll marks every module's output stale.
func (r *Registry) BroadcastAll() {
	for _, m := range r.All() {
		m.Broadcast()
	}
}

// StopAll stops every module and joins their workers.
func (r *Registry) StopAll() {
	for _, m := range r.All() {
		m.Stop()
	}
	for _, m := range r.All() {
		m.Join()
	}
}

// Input routes an action to a specific module, or to the first module
// that accepts it when name is empty. It returns whether any module
// handled the action.
func (r *Registry) Input(module, action, data string) bool {
	if module != "" {
		m, ok := r.Get(module)
		if !ok {
			return false
		}
		return m.Input(action, data)
	}
	for _, m := range r.All() {
		if m.Input(action, data) {
			return true
		}
	}
	return false
}

// Watch registers a watcher channel for membership events.
func (r *Registry) Watch(buffer int) <-chan Event {
	ch := make(chan Event, buffer)

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.watchers = append(r.watchers, ch)
	return ch
}

// notify must be called with the mutex held.
func (r *Registry) notify(event Event) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full.
		}
	}
}
