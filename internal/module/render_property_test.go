//go:build property

package module

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/barcore/internal/config"
	"github.com/conneroisu/barcore/internal/logging"
)

// TestRenderProperties validates the spacing and trimming rules of the
// render pass over generated inputs.
func TestRenderProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4711)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	tagOutput := gen.RegexMatch(`[a-zA-Z0-9%]{1,8}`)

	properties.Property("gap between consecutive built tags is exactly the spacing", prop.ForAll(
		func(spacing int, a, b string) bool {
			m, _ := newTestModule(
				config.FormatConfig{Template: "<a><b>", Spacing: spacing},
				map[string]string{"<a>": a, "<b>": b},
			)
			return m.render() == a+strings.Repeat(" ", spacing)+b
		},
		gen.IntRange(1, 5),
		tagOutput,
		tagOutput,
	))

	properties.Property("no leading padding before the first successful tag", prop.ForAll(
		func(spacing int, b string) bool {
			m, _ := newTestModule(
				config.FormatConfig{Template: "<a> <b>", Spacing: spacing},
				map[string]string{"<b>": b},
			)
			out := m.render()
			return out == b && !strings.HasPrefix(out, " ")
		},
		gen.IntRange(1, 5),
		tagOutput,
	))

	properties.Property("failed middle tag never compounds padding", prop.ForAll(
		func(spacing int, a, c string) bool {
			m, _ := newTestModule(
				config.FormatConfig{Template: "<a><b><c>", Spacing: spacing},
				map[string]string{"<a>": a, "<c>": c},
			)
			return m.render() == a+strings.Repeat(" ", spacing)+c
		},
		gen.IntRange(1, 5),
		tagOutput,
		tagOutput,
	))

	properties.Property("contents is idempotent without broadcast", prop.ForAll(
		func(a string) bool {
			impl := &testImpl{tags: map[string]string{"<a>": a}}
			mc := config.ModuleConfig{
				Type: "test/prop",
				Formats: map[string]config.FormatConfig{
					"format": {Template: "<a>", Spacing: 1},
				},
			}
			m := New(impl, "test/prop", "prop", mc, Deps{Log: logging.Nop()})

			first := m.Contents()
			second := m.Contents()
			return first == second && impl.buildCalls == 1
		},
		tagOutput,
	))

	properties.TestingRun(t)
}
