// Package actions maps action names to module callbacks and invokes
// them.
//
// Each module owns one Router and registers, at construction time, the
// name of every action it handles together with a callback of one of
// two shapes: no argument, or a single string payload. The module
// base's Input method uses the Router to answer external input events,
// so a module that never reimplements Input gets action routing for
// free.
//
// The set of legal actions per module is static and known up front,
// which is why registration problems and invoking an unregistered name
// are treated as programming errors (panics), not runtime failures.
package actions

import (
	"fmt"

	"github.com/conneroisu/barcore/internal/logging"
)

// Callback is an action handler that takes no payload.
type Callback func()

// DataCallback is an action handler that takes a string payload.
type DataCallback func(data string)

// entry holds exactly one of the two callback shapes, selected by
// withData.
type entry struct {
	withData bool
	without  Callback
	with     DataCallback
}

// Router dispatches named actions to registered callbacks.
type Router struct {
	callbacks map[string]entry
	log       logging.Logger
}

// NewRouter creates an empty router.
func NewRouter(log logging.Logger) *Router {
	return &Router{
		callbacks: make(map[string]entry),
		log:       log,
	}
}

// Register associates a no-payload callback with an action name,
// overwriting any prior registration. Empty names and nil callbacks
// are rejected at registration time: registration happens during
// module construction, so either one is a programming error.
func (r *Router) Register(name string, fn Callback) {
	if name == "" {
		panic("actions: register with empty action name")
	}
	if fn == nil {
		panic(fmt.Sprintf("actions: register %q with nil callback", name))
	}
	r.callbacks[name] = entry{withData: false, without: fn}
}

// RegisterWithData associates a payload-taking callback with an action
// name, overwriting any prior registration.
func (r *Router) RegisterWithData(name string, fn DataCallback) {
	if name == "" {
		panic("actions: register with empty action name")
	}
	if fn == nil {
		panic(fmt.Sprintf("actions: register %q with nil callback", name))
	}
	r.callbacks[name] = entry{withData: true, with: fn}
}

// Has reports whether an action name is registered.
func (r *Router) Has(name string) bool {
	_, ok := r.callbacks[name]
	return ok
}

// Invoke runs the callback registered for name. The action must exist;
// callers that cannot guarantee that go through the module's Input
// instead. Payload data handed to a no-payload action is discarded
// with a diagnostic.
func (r *Router) Invoke(name, data string) {
	e, ok := r.callbacks[name]
	if !ok {
		panic(fmt.Sprintf("actions: invoke of unregistered action %q", name))
	}

	if data != "" && !e.withData {
		r.log.Warn("discarding data for action that takes none",
			"action", name, "data", data)
	}

	if e.withData {
		e.with(data)
	} else {
		e.without()
	}
}

// Names returns the registered action names, for diagnostics.
func (r *Router) Names() []string {
	names := make([]string, 0, len(r.callbacks))
	for name := range r.callbacks {
		names = append(names, name)
	}
	return names
}
