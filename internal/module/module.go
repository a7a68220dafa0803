// Package module implements the runtime shared by every bar segment:
// lifecycle management across worker goroutines, action routing,
// format rendering, and output caching.
//
// A concrete module embeds *Base and passes itself in as the
// Implementation. The Base handles everything generic; the
// implementation only materializes tags, picks the active format
// name, and registers its actions.
package module

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/conneroisu/barcore/internal/actions"
	"github.com/conneroisu/barcore/internal/builder"
	"github.com/conneroisu/barcore/internal/config"
	"github.com/conneroisu/barcore/internal/errors"
	"github.com/conneroisu/barcore/internal/events"
	"github.com/conneroisu/barcore/internal/format"
	"github.com/conneroisu/barcore/internal/logging"
)

// Implementation is the polymorphic extension point each concrete
// module provides.
type Implementation interface {
	// Build materializes one tag into the builder and reports whether
	// it produced output. Returning false means the tag is unknown to
	// this module or has no data right now; the renderer corrects the
	// surrounding spacing and moves on.
	Build(b *builder.Builder, tag string) bool

	// Format returns the name of the format to render with.
	Format() string

	// Teardown runs during Stop while both module locks are held.
	Teardown()
}

// OutputProvider optionally replaces the default render pass.
type OutputProvider interface {
	Output() string
}

// Deps bundles the process-wide collaborators a module needs.
type Deps struct {
	Log    logging.Logger
	Events *events.Emitter
	Faults *errors.Collector
}

// Base is the generic runtime owned by one module instance.
type Base struct {
	impl Implementation

	name    string
	nameRaw string
	typ     string

	handleEvents bool

	enabled atomic.Bool
	dirty   atomic.Bool
	cache   string

	// buildMu serializes rendering with shutdown; updateMu guards
	// implementation state touched outside rendering. Stop acquires
	// both, always build first, to avoid lock-order inversion.
	buildMu  sync.Mutex
	updateMu sync.Mutex

	router    *actions.Router
	gate      *gate
	formatter *format.Formatter
	builder   *builder.Builder
	workers   sync.WaitGroup

	log    logging.Logger
	events *events.Emitter
	faults *errors.Collector
}

// New creates the runtime for one configured module. The full module
// name is "module/" + name, matching the configuration section.
func New(impl Implementation, typ, name string, mc config.ModuleConfig, deps Deps) *Base {
	log := deps.Log
	if log == nil {
		log = logging.Nop()
	}
	emitter := deps.Events
	if emitter == nil {
		emitter = events.NewEmitter()
	}

	full := "module/" + name
	log = log.WithComponent(full)

	m := &Base{
		impl:         impl,
		name:         full,
		nameRaw:      name,
		typ:          typ,
		handleEvents: mc.HandleEvents(),
		router:       actions.NewRouter(log),
		gate:         newGate(),
		formatter:    format.NewFormatter(full, mc),
		builder:      builder.New(),
		log:          log,
		events:       emitter,
		faults:       deps.Faults,
	}
	m.dirty.Store(true)
	return m
}

// Name returns the full module name, e.g. "module/date".
func (m *Base) Name() string {
	return m.name
}

// NameRaw returns the configured name without the "module/" prefix.
func (m *Base) NameRaw() string {
	return m.nameRaw
}

// Type returns the module type constant, e.g. "internal/date".
func (m *Base) Type() string {
	return m.typ
}

// Running reports whether the module has been started and not stopped.
func (m *Base) Running() bool {
	return m.enabled.Load()
}

// Router exposes the action table for registration during
// construction.
func (m *Base) Router() *actions.Router {
	return m.router
}

// Log returns the module-scoped logger.
func (m *Base) Log() logging.Logger {
	return m.log
}

// HasFormat reports whether a named format is configured, letting
// implementations fall back to the default when a state-specific
// format is absent.
func (m *Base) HasFormat(name string) bool {
	return m.formatter.Has(name)
}

// Update runs fn under the update lock. Implementations use it for
// mutable state touched from both their worker and action callbacks.
func (m *Base) Update(fn func()) {
	m.updateMu.Lock()
	defer m.updateMu.Unlock()
	fn()
}

// Start marks the module running and spawns its worker goroutines.
func (m *Base) Start(workers ...func()) {
	if !m.enabled.CompareAndSwap(false, true) {
		return
	}
	m.log.Info("starting", "type", m.typ)
	for _, fn := range workers {
		m.Worker(fn)
	}
}

// Worker spawns one owned goroutine, joined by Join.
func (m *Base) Worker(fn func()) {
	m.workers.Add(1)
	go func() {
		defer m.workers.Done()
		fn()
	}()
}

// Stop transitions the module to stopped. It is a no-op when the
// module is not running. The running flag drops first so workers see
// it immediately, then both locks are taken in the fixed build-then-
// update order, and with both held the sleep gate is released, the
// implementation tears down, and a check-state signal tells the
// scheduler to re-evaluate the process.
func (m *Base) Stop() {
	if !m.enabled.CompareAndSwap(true, false) {
		return
	}
	m.log.Info("stopping")

	m.buildMu.Lock()
	m.updateMu.Lock()
	defer m.updateMu.Unlock()
	defer m.buildMu.Unlock()

	m.Wakeup()
	m.impl.Teardown()

	m.events.Emit(events.SignalCheckState, m.name)
}

// Halt logs an unrecoverable fault and performs an orderly stop. The
// module stays inactive for the rest of the process.
func (m *Base) Halt(message string) {
	m.log.Error(nil, message)
	m.log.Info("stopping after fault")
	if m.faults != nil {
		m.faults.Add(m.name, message, errors.SeverityFatal)
	}
	m.Stop()
}

// Join waits for every owned worker goroutine. Safe to call after
// Stop has already run.
func (m *Base) Join() {
	m.workers.Wait()
}

// Broadcast marks the cached output stale and notifies the scheduler.
// Implementations call it whenever their underlying data changes.
func (m *Base) Broadcast() {
	m.dirty.Store(true)
	m.events.Emit(events.SignalNotifyChange, m.name)
}

// Contents returns the rendered output, rebuilding it only when a
// broadcast has marked it stale. Non-empty output gets a reset control
// tag appended so decoration cannot leak into the next segment.
func (m *Base) Contents() string {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	if m.dirty.Load() {
		m.log.Debug("rebuilding cache")
		out := m.output()
		// Make sure the builder is really empty.
		m.builder.Flush()
		if out != "" {
			m.builder.Control(builder.Reset)
			out += m.builder.Flush()
		}
		m.cache = out
		m.dirty.Store(false)
	}
	return m.cache
}

func (m *Base) output() string {
	if op, ok := m.impl.(OutputProvider); ok {
		return op.Output()
	}
	return m.render()
}

// Input delivers a named external event. It returns false when the
// name is not a registered action or the module has event handling
// disabled; this is the recoverable query form, unlike the router's
// own Invoke.
func (m *Base) Input(name, data string) bool {
	if !m.handleEvents {
		m.log.Debug("ignoring input, event handling disabled", "action", name)
		return false
	}
	if !m.router.Has(name) {
		return false
	}
	m.router.Invoke(name, data)
	return true
}

// idleInterval is the poll pause used by modules without an external
// change source.
const idleInterval = 25 * time.Millisecond

// Idle sleeps for a short fixed interval, released early by Wakeup.
func (m *Base) Idle() {
	m.Sleep(idleInterval)
}

// Sleep blocks for the duration or until Wakeup, whichever comes
// first. It returns immediately when the module is not running; a
// woken caller must re-check Running to learn why it woke.
func (m *Base) Sleep(d time.Duration) {
	if !m.Running() {
		return
	}
	m.gate.wait(d)
}

// SleepUntil blocks until the absolute deadline or until Wakeup.
func (m *Base) SleepUntil(t time.Time) {
	if !m.Running() {
		return
	}
	m.gate.wait(time.Until(t))
}

// Wakeup releases every goroutine currently blocked in Sleep or
// SleepUntil. It does not change the running flag.
func (m *Base) Wakeup() {
	m.log.Debug("releasing sleep gate")
	m.gate.release()
}
