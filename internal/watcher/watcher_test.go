package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/barcore/internal/logging"
)

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "barcore.yml")
	require.NoError(t, os.WriteFile(path, []byte("bar: {}\n"), 0o644))

	var fired atomic.Int32
	w, err := New(path, 50*time.Millisecond, func() { fired.Add(1) }, logging.Nop())
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// Let the watch loop settle before touching the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("bar: {padding: 1}\n"), 0o644))

	assert.Eventually(t, func() bool {
		return fired.Load() >= 1
	}, 3*time.Second, 25*time.Millisecond)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "barcore.yml")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o644))

	var fired atomic.Int32
	w, err := New(path, 150*time.Millisecond, func() { fired.Add(1) }, logging.Nop())
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("burst\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return fired.Load() >= 1
	}, 3*time.Second, 25*time.Millisecond)

	// The burst collapses into one (or at most two) callbacks, never
	// one per write.
	assert.LessOrEqual(t, fired.Load(), int32(2))
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "barcore.yml")
	other := filepath.Join(dir, "other.yml")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o644))

	var fired atomic.Int32
	w, err := New(path, 50*time.Millisecond, func() { fired.Add(1) }, logging.Nop())
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("b\n"), 0o644))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(0), fired.Load())
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := New("/nonexistent/dir/barcore.yml", 50*time.Millisecond, func() {}, logging.Nop())
	assert.Error(t, err)
}
