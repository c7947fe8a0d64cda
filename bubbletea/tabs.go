package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// tabWidth is the standard tab stop interval.
const tabWidth = 8

// ExpandTabs converts tab characters to spaces using 8-column tab stops.
// Viewports render tabs as a single cell, which misaligns indented code;
// fix snippets pass through here before display. The startCol parameter is
// the column where the string begins, which affects how the first tab
// expands.
func ExpandTabs(s string, startCol int) string {
	if !strings.Contains(s, "\t") {
		return s
	}

	var sb strings.Builder
	col := startCol
	for _, r := range s {
		if r == '\t' {
			nextStop := ((col / tabWidth) + 1) * tabWidth
			sb.WriteString(strings.Repeat(" ", nextStop-col))
			col = nextStop
		} else {
			sb.WriteRune(r)
			col += lipgloss.Width(string(r))
		}
	}
	return sb.String()
}
