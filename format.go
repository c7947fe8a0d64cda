package skillreview

import (
	"fmt"
	"strings"
)

// PromptFormatter renders an analysis unit as text for the analyzer.
type PromptFormatter interface {
	Format(path string, unit Unit) string
}

// DefaultFormatter implements PromptFormatter with the standard format.
type DefaultFormatter struct{}

// Format renders the unit as structured text: the changed region framed by
// its unchanged context, or the whole change for whole-file units.
func (f *DefaultFormatter) Format(path string, unit Unit) string {
	var sb strings.Builder

	if unit.Whole {
		fmt.Fprintf(&sb, "<file path=%q>\n", path)
		writeBlock(&sb, unit.Hunk.Content)
		sb.WriteString("</file>")
		return sb.String()
	}

	start, end := unit.Hunk.NewRange()
	last := end - 1
	if last < start {
		last = start
	}
	fmt.Fprintf(&sb, "<change path=%q lines=\"%d-%d\">\n", path, start, last)

	if len(unit.ContextBefore) > 0 {
		sb.WriteString("<context-before>\n")
		for _, line := range unit.ContextBefore {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("</context-before>\n")
	}

	sb.WriteString("<diff>\n")
	writeBlock(&sb, unit.Hunk.Content)
	sb.WriteString("</diff>\n")

	if len(unit.ContextAfter) > 0 {
		sb.WriteString("<context-after>\n")
		for _, line := range unit.ContextAfter {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("</context-after>\n")
	}

	sb.WriteString("</change>")
	return sb.String()
}

// writeBlock writes s ensuring a trailing newline.
func writeBlock(sb *strings.Builder, s string) {
	sb.WriteString(s)
	if !strings.HasSuffix(s, "\n") {
		sb.WriteString("\n")
	}
}
