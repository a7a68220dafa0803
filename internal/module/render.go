package module

import (
	"strings"
)

// render is the default output pass: one left-to-right sweep over the
// active format's template, asking the implementation to build each
// <tag> and assembling the result with the format's spacing rules.
//
// Until something has been emitted, literal text between tags has its
// leading spaces stripped so a segment never opens with stray
// inter-tag padding. Once any tag has built, later tags are preceded
// by the configured spacing, and a tag that fails to build takes its
// spacer back out so consecutive gaps never compound.
func (m *Base) render() string {
	f, err := m.formatter.Get(m.impl.Format())
	if err != nil {
		m.log.Error(err, "cannot resolve format")
		return ""
	}

	var (
		noTagBuilt   = true
		literalBuilt = false
	)
	minGap := f.MinGap()
	value := f.Template

	for {
		start := strings.IndexByte(value, '<')
		if start < 0 {
			break
		}
		rel := strings.IndexByte(value[start:], '>')
		if rel < 0 {
			break
		}
		end := start + rel

		if start > 0 {
			literal := value[:start]
			if noTagBuilt {
				// No tag has produced output yet, so drop the
				// whitespace configured between format tags while
				// keeping any real text.
				trimmed := strings.TrimLeft(literal, " ")
				if trimmed != "" {
					literalBuilt = true
					m.builder.Node(trimmed)
				}
			} else {
				m.builder.Node(literal)
			}
			value = value[start:]
			end -= start
		}

		tag := value[:end+1]

		if !noTagBuilt {
			m.builder.Space(f.Spacing)
		} else if literalBuilt {
			// The first non-empty literal counts as output: later
			// tags get spacing, but the one right after the literal
			// rides on the literal's own trailing text.
			noTagBuilt = false
		}

		built := m.impl.Build(m.builder, tag)
		if !built && !noTagBuilt {
			m.builder.RemoveTrailingSpace(minGap)
		}
		if built {
			noTagBuilt = false
		}

		value = value[len(tag):]
	}

	if value != "" {
		m.builder.Append(value)
	}

	return f.Decorate(m.builder, m.builder.Flush())
}
