// Package builder incrementally assembles the markup string for one
// rendered segment.
//
// The dialect is the usual bar format-tag syntax: control tags are
// written as %{...} and everything else is literal text. The renderer
// drives one Builder per module, pushing literal nodes, spacers, and
// control tags, then takes the accumulated output with Flush.
//
// Space has minimum-gap semantics. It guarantees the output ends with
// at least the requested number of spaces rather than blindly
// appending, so a literal that already carries its own padding is not
// widened further.
package builder

import "strings"

// Control tag markers.
const (
	// Reset clears all decoration state so it cannot leak into the
	// next segment on the bar.
	Reset = "R"
	// ForegroundClose and BackgroundClose pop one color each.
	ForegroundClose = "F-"
	BackgroundClose = "B-"
)

// Builder accumulates markup output.
type Builder struct {
	output []byte
}

// New creates an empty builder.
func New() *Builder {
	return &Builder{output: make([]byte, 0, 64)}
}

// Node appends literal text.
func (b *Builder) Node(text string) {
	b.output = append(b.output, text...)
}

// Append appends raw trailing text, same as Node. It exists so call
// sites can distinguish tag-adjacent literals from format trailers.
func (b *Builder) Append(text string) {
	b.output = append(b.output, text...)
}

// Space pads the output so it ends with at least n spaces.
func (b *Builder) Space(n int) {
	if n <= 0 {
		return
	}
	have := b.trailingSpaces()
	for i := have; i < n; i++ {
		b.output = append(b.output, ' ')
	}
}

// Control appends a control tag, e.g. Control(Reset) produces "%{R}".
func (b *Builder) Control(marker string) {
	b.output = append(b.output, "%{"...)
	b.output = append(b.output, marker...)
	b.output = append(b.output, '}')
}

// Foreground opens a foreground color tag.
func (b *Builder) Foreground(color string) {
	b.Control("F" + color)
}

// Background opens a background color tag.
func (b *Builder) Background(color string) {
	b.Control("B" + color)
}

// RemoveTrailingSpace strips at most n trailing space characters. The
// renderer calls this after a tag fails to build, undoing the spacer
// inserted ahead of it so absent tags do not leave compounding blank
// padding.
func (b *Builder) RemoveTrailingSpace(n int) {
	if n <= 0 {
		return
	}
	have := b.trailingSpaces()
	if have < n {
		n = have
	}
	b.output = b.output[:len(b.output)-n]
}

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int {
	return len(b.output)
}

// Empty reports whether nothing has been accumulated.
func (b *Builder) Empty() bool {
	return len(b.output) == 0
}

// Flush returns the accumulated content and resets the builder.
func (b *Builder) Flush() string {
	out := string(b.output)
	b.output = b.output[:0]
	return out
}

func (b *Builder) trailingSpaces() int {
	n := 0
	for i := len(b.output) - 1; i >= 0 && b.output[i] == ' '; i-- {
		n++
	}
	return n
}

// Pad returns s wrapped in n spaces on both sides.
func Pad(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	pad := strings.Repeat(" ", n)
	return pad + s + pad
}
