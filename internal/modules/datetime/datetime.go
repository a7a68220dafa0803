// Package datetime is the reference module implementation: a clock
// segment that polls on an interval and demonstrates the full module
// surface, including a toggle action switching between a primary and
// an alternate view.
package datetime

import (
	"time"

	"github.com/conneroisu/barcore/internal/builder"
	"github.com/conneroisu/barcore/internal/config"
	"github.com/conneroisu/barcore/internal/format"
	"github.com/conneroisu/barcore/internal/module"
)

// Type is the module type constant.
const Type = "internal/date"

// AltFormat is resolved while the alternate view is toggled on, when
// the module section defines it.
const AltFormat = "format-alt"

// Module renders the current time.
type Module struct {
	*module.Base

	interval  time.Duration
	layout    string
	layoutAlt string
	alt       bool

	now func() time.Time
}

// New creates a datetime module from its configuration section.
//
// Options: "interval" (poll interval, default 1s), "layout" (Go time
// layout for the primary view), "layout-alt" (layout for the toggled
// view).
func New(name string, mc config.ModuleConfig, deps module.Deps) *Module {
	interval, err := time.ParseDuration(mc.Option("interval", "1s"))
	if err != nil || interval <= 0 {
		interval = time.Second
	}

	m := &Module{
		interval:  interval,
		layout:    mc.Option("layout", "15:04"),
		layoutAlt: mc.Option("layout-alt", "Mon Jan 2, 15:04:05"),
		now:       time.Now,
	}
	m.Base = module.New(m, Type, name, mc, deps)

	m.Router().Register("toggle", m.toggle)
	m.Router().RegisterWithData("layout", m.setLayout)
	return m
}

// Start spawns the poll worker.
func (m *Module) Start() {
	m.Base.Start(m.worker)
}

func (m *Module) worker() {
	for m.Running() {
		m.Broadcast()
		m.Sleep(m.interval)
	}
}

// Build materializes the clock tags.
func (m *Module) Build(b *builder.Builder, tag string) bool {
	switch tag {
	case "<label>", "<date>":
		b.Node(m.now().Format(m.activeLayout()))
		return true
	default:
		return false
	}
}

// Format selects the alternate format while toggled, when configured.
func (m *Module) Format() string {
	var alt bool
	m.Update(func() { alt = m.alt })
	if alt && m.HasFormat(AltFormat) {
		return AltFormat
	}
	return format.Default
}

// Teardown has nothing to release.
func (m *Module) Teardown() {}

func (m *Module) activeLayout() string {
	var layout string
	m.Update(func() {
		if m.alt {
			layout = m.layoutAlt
		} else {
			layout = m.layout
		}
	})
	return layout
}

func (m *Module) toggle() {
	m.Update(func() { m.alt = !m.alt })
	m.Broadcast()
}

func (m *Module) setLayout(data string) {
	if data == "" {
		m.Log().Warn("layout action without a layout string")
		return
	}
	m.Update(func() { m.layout = data })
	m.Broadcast()
}
