// Package format holds the parsed templates a module renders through.
//
// A module section in the configuration carries one or more named
// format blocks; each becomes an immutable Format resolved by name
// once per render pass. The Format also carries the decoration
// metadata (prefix, suffix, colors, padding) applied to the assembled
// content after all tags have been built.
package format

import (
	"fmt"

	"github.com/conneroisu/barcore/internal/builder"
	"github.com/conneroisu/barcore/internal/config"
)

// Default is the format name used when a module does not select a
// state-specific one.
const Default = config.DefaultFormat

// Format is one immutable parsed template.
type Format struct {
	Name       string
	Template   string
	Spacing    int
	Padding    int
	Prefix     string
	Suffix     string
	Foreground string
	Background string
}

// MinGap returns the smallest gap allowed between tags once padding is
// applicable. Spacing never collapses to zero.
func (f *Format) MinGap() int {
	if f.Spacing < 1 {
		return 1
	}
	return f.Spacing
}

// Decorate wraps fully assembled content with the format's
// presentation markers. Empty content stays empty; decoration never
// manufactures output for a segment that produced none.
func (f *Format) Decorate(b *builder.Builder, content string) string {
	if content == "" {
		return ""
	}

	if f.Background != "" {
		b.Background(f.Background)
	}
	if f.Foreground != "" {
		b.Foreground(f.Foreground)
	}
	if f.Prefix != "" {
		b.Node(f.Prefix)
	}
	b.Node(builder.Pad(content, f.Padding))
	if f.Suffix != "" {
		b.Node(f.Suffix)
	}
	if f.Foreground != "" {
		b.Control(builder.ForegroundClose)
	}
	if f.Background != "" {
		b.Control(builder.BackgroundClose)
	}
	return b.Flush()
}

// Formatter resolves named formats for one module.
type Formatter struct {
	module  string
	formats map[string]*Format
}

// NewFormatter builds the format set for one module section. A module
// configured without any format block gets a bare "<label>" default so
// simple modules need no format configuration at all.
func NewFormatter(module string, mc config.ModuleConfig) *Formatter {
	formats := make(map[string]*Format, len(mc.Formats))
	for name, fc := range mc.Formats {
		formats[name] = &Format{
			Name:       name,
			Template:   fc.Template,
			Spacing:    fc.Spacing,
			Padding:    fc.Padding,
			Prefix:     fc.Prefix,
			Suffix:     fc.Suffix,
			Foreground: fc.Foreground,
			Background: fc.Background,
		}
	}
	if _, ok := formats[Default]; !ok {
		formats[Default] = &Format{Name: Default, Template: "<label>"}
	}
	return &Formatter{module: module, formats: formats}
}

// Get resolves a format by name.
func (f *Formatter) Get(name string) (*Format, error) {
	format, ok := f.formats[name]
	if !ok {
		return nil, fmt.Errorf("%s: no format named %q", f.module, name)
	}
	return format, nil
}

// Has reports whether a format name is defined.
func (f *Formatter) Has(name string) bool {
	_, ok := f.formats[name]
	return ok
}
