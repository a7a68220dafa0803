package actions

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/barcore/internal/logging"
)

func TestRouterHasBeforeAndAfterRegister(t *testing.T) {
	r := NewRouter(logging.Nop())

	assert.False(t, r.Has("toggle"))
	r.Register("toggle", func() {})
	assert.True(t, r.Has("toggle"))

	assert.False(t, r.Has("seek"))
	r.RegisterWithData("seek", func(string) {})
	assert.True(t, r.Has("seek"))
}

func TestRouterInvokeWithoutData(t *testing.T) {
	r := NewRouter(logging.Nop())

	calls := 0
	r.Register("toggle", func() { calls++ })

	r.Invoke("toggle", "")
	assert.Equal(t, 1, calls)
}

func TestRouterInvokeWithData(t *testing.T) {
	r := NewRouter(logging.Nop())

	var got string
	r.RegisterWithData("seek", func(data string) { got = data })

	r.Invoke("seek", "+5")
	assert.Equal(t, "+5", got)
}

func TestRouterDiscardsPayloadForNoDataAction(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewLogger(&logging.Config{
		Level:  logging.LevelDebug,
		Format: "text",
		Output: &buf,
	})
	r := NewRouter(log)

	calls := 0
	r.Register("toggle", func() { calls++ })

	// Payload goes nowhere, the callback still runs exactly once,
	// and a diagnostic is logged.
	r.Invoke("toggle", "ignored")
	assert.Equal(t, 1, calls)
	assert.Contains(t, buf.String(), "toggle")
	assert.Contains(t, buf.String(), "discarding")
}

func TestRouterOverwritesRegistration(t *testing.T) {
	r := NewRouter(logging.Nop())

	first, second := 0, 0
	r.Register("toggle", func() { first++ })
	r.Register("toggle", func() { second++ })

	r.Invoke("toggle", "")
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestRouterRegistrationShapesAreDistinct(t *testing.T) {
	r := NewRouter(logging.Nop())

	var data string
	r.RegisterWithData("set", func(d string) { data = d })

	// Re-registering the same name with the other shape replaces the
	// entry including its discriminant.
	calls := 0
	r.Register("set", func() { calls++ })

	r.Invoke("set", "payload")
	assert.Equal(t, 1, calls)
	assert.Empty(t, data)
}

func TestRouterInvokeUnregisteredPanics(t *testing.T) {
	r := NewRouter(logging.Nop())

	require.Panics(t, func() { r.Invoke("missing", "") })
}

func TestRouterRejectsEmptyName(t *testing.T) {
	r := NewRouter(logging.Nop())

	require.Panics(t, func() { r.Register("", func() {}) })
	require.Panics(t, func() { r.RegisterWithData("", func(string) {}) })
}

func TestRouterRejectsNilCallback(t *testing.T) {
	r := NewRouter(logging.Nop())

	require.Panics(t, func() { r.Register("toggle", nil) })
	require.Panics(t, func() { r.RegisterWithData("seek", nil) })
}

func TestRouterNames(t *testing.T) {
	r := NewRouter(logging.Nop())
	r.Register("toggle", func() {})
	r.RegisterWithData("seek", func(string) {})

	assert.ElementsMatch(t, []string{"toggle", "seek"}, r.Names())
}
