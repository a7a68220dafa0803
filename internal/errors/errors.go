// Package errors carries the fault records produced when modules halt
// or misbehave, and a collector the runtime uses to report them at
// shutdown.
package errors

import (
	"fmt"
	"sync"
	"time"
)

// Severity classifies a module fault.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityFatal
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ModuleError records a runtime fault raised by one module.
type ModuleError struct {
	Module    string
	Message   string
	Severity  Severity
	Timestamp time.Time
}

// Error implements the error interface.
func (me *ModuleError) Error() string {
	return fmt.Sprintf("%s: %s: %s", me.Module, me.Severity, me.Message)
}

// Collector accumulates module faults across the process lifetime.
type Collector struct {
	faults []ModuleError
	mutex  sync.RWMutex
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{faults: make([]ModuleError, 0)}
}

// Add records a fault, stamping it with the current time.
func (c *Collector) Add(module, message string, severity Severity) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.faults = append(c.faults, ModuleError{
		Module:    module,
		Message:   message,
		Severity:  severity,
		Timestamp: time.Now(),
	})
}

// Faults returns a copy of all recorded faults.
func (c *Collector) Faults() []ModuleError {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	result := make([]ModuleError, len(c.faults))
	copy(result, c.faults)
	return result
}

// Count returns the number of recorded faults.
func (c *Collector) Count() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.faults)
}

// HasFatal reports whether any recorded fault is fatal.
func (c *Collector) HasFatal() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	for _, f := range c.faults {
		if f.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// Clear drops all recorded faults.
func (c *Collector) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.faults = c.faults[:0]
}
