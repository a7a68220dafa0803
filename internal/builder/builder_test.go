package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderNodeAndFlush(t *testing.T) {
	b := New()
	assert.True(t, b.Empty())

	b.Node("CPU")
	b.Node(" 42%")
	assert.Equal(t, 7, b.Len())
	assert.Equal(t, "CPU 42%", b.Flush())

	// Flush resets internal state.
	assert.True(t, b.Empty())
	assert.Equal(t, "", b.Flush())
}

func TestBuilderSpaceMinimumGap(t *testing.T) {
	b := New()
	b.Node("X")
	b.Space(2)
	b.Node("Y")
	assert.Equal(t, "X  Y", b.Flush())

	// Existing trailing spaces count toward the gap.
	b.Node("X ")
	b.Space(1)
	b.Node("Y")
	assert.Equal(t, "X Y", b.Flush())

	b.Node("X ")
	b.Space(3)
	b.Node("Y")
	assert.Equal(t, "X   Y", b.Flush())

	b.Node("X")
	b.Space(0)
	b.Node("Y")
	assert.Equal(t, "XY", b.Flush())
}

func TestBuilderControl(t *testing.T) {
	b := New()
	b.Control(Reset)
	assert.Equal(t, "%{R}", b.Flush())

	b.Foreground("#ff0000")
	b.Node("hot")
	b.Control(ForegroundClose)
	assert.Equal(t, "%{F#ff0000}hot%{F-}", b.Flush())

	b.Background("#222")
	b.Node("cool")
	b.Control(BackgroundClose)
	assert.Equal(t, "%{B#222}cool%{B-}", b.Flush())
}

func TestBuilderRemoveTrailingSpace(t *testing.T) {
	b := New()
	b.Node("X")
	b.Space(2)
	b.RemoveTrailingSpace(2)
	assert.Equal(t, "X", b.Flush())

	// Removes at most what is there.
	b.Node("X ")
	b.RemoveTrailingSpace(5)
	assert.Equal(t, "X", b.Flush())

	// Only spaces are removed, never content.
	b.Node("X")
	b.RemoveTrailingSpace(3)
	assert.Equal(t, "X", b.Flush())

	// Removes only n even when more spaces are present.
	b.Node("X    ")
	b.RemoveTrailingSpace(2)
	assert.Equal(t, "X  ", b.Flush())
}

func TestPad(t *testing.T) {
	assert.Equal(t, " x ", Pad("x", 1))
	assert.Equal(t, "  x  ", Pad("x", 2))
	assert.Equal(t, "x", Pad("x", 0))
	assert.Equal(t, "", Pad("", 3))
}
