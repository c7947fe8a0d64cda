// Package render draws skill reports: a styled terminal rendering for
// local runs and a plain Markdown body for review comments.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/fwojciec/skillreview"
)

// defaultWidth is the header rule width when none is configured.
const defaultWidth = 80

// Terminal renders reports for human terminals.
//
// All fields are optional: a nil Theme renders without color, a nil
// Tokenizer or Detector disables snippet highlighting, and a nil
// Renderer binds styles to the output writer's color profile.
type Terminal struct {
	Theme     skillreview.Theme
	Tokenizer skillreview.Tokenizer
	Detector  skillreview.LanguageDetector
	Renderer  *lipgloss.Renderer
	Width     int // header rule width; 0 selects the default
}

// Render writes the report to w. Findings appear most severe first, each
// with its location, description, and highlighted fix snippet, followed
// by per-file failures and the summary and usage footer.
func (t *Terminal) Render(w io.Writer, report *skillreview.SkillReport) error {
	if report == nil {
		return nil
	}

	renderer := t.Renderer
	if renderer == nil {
		renderer = lipgloss.NewRenderer(w)
	}

	var styles skillreview.Styles
	if t.Theme != nil {
		styles = t.Theme.Styles()
	}

	width := t.Width
	if width == 0 {
		width = defaultWidth
	}

	headerStyle := styleFromColorPair(styles.Header, renderer)
	locationStyle := styleFromColorPair(styles.Location, renderer)
	failureStyle := styleFromColorPair(styles.Failure, renderer)
	mutedStyle := styleFromColorPair(styles.Muted, renderer)
	titleStyle := renderer.NewStyle().Bold(true)

	var sb strings.Builder

	sb.WriteString(headerStyle.Render(headerLine(report, width)))
	sb.WriteString("\n")

	for _, f := range SortFindings(report.Findings) {
		sb.WriteString("\n")

		badge := styleFromColorPair(styles.Badge(f.Severity), renderer)
		sb.WriteString(badge.Render(" " + strings.ToUpper(string(f.Severity)) + " "))
		sb.WriteString(" ")
		sb.WriteString(titleStyle.Render(f.Title))
		sb.WriteString("\n")

		if f.Location != nil {
			sb.WriteString("  ")
			sb.WriteString(locationStyle.Render(formatLocation(*f.Location)))
			sb.WriteString("\n")
		}

		if f.Description != "" {
			for _, line := range strings.Split(strings.TrimRight(f.Description, "\n"), "\n") {
				sb.WriteString("  ")
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		}

		if f.Fix != nil && f.Fix.Replacement != "" {
			sb.WriteString("  ")
			sb.WriteString(mutedStyle.Render("suggested fix:"))
			sb.WriteString("\n")
			t.writeSnippet(&sb, f, styles.Snippet, renderer)
		}
	}

	if len(report.Failures) > 0 {
		sb.WriteString("\n")
		sb.WriteString(failureStyle.Render("analysis failures:"))
		sb.WriteString("\n")
		for _, fail := range report.Failures {
			sb.WriteString("  ")
			sb.WriteString(failureStyle.Render(fail.Path + ": " + fail.Message))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(report.Summary))
	sb.WriteString("\n")
	if line := usageLine(report); line != "" {
		sb.WriteString(mutedStyle.Render(line))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// writeSnippet writes the fix replacement indented under its finding,
// syntax highlighted when a tokenizer and detector are available.
func (t *Terminal) writeSnippet(sb *strings.Builder, f skillreview.Finding, base skillreview.ColorPair, renderer *lipgloss.Renderer) {
	snippet := strings.TrimRight(f.Fix.Replacement, "\n")
	baseStyle := styleFromColorPair(base, renderer)

	var tokens []skillreview.Token
	if t.Tokenizer != nil && t.Detector != nil {
		if language := t.Detector.DetectFromPath(fixPath(f)); language != "" {
			tokens = t.Tokenizer.Tokenize(language, snippet)
		}
	}

	if tokens == nil {
		for _, line := range strings.Split(snippet, "\n") {
			sb.WriteString("    ")
			sb.WriteString(baseStyle.Render(line))
			sb.WriteString("\n")
		}
		return
	}

	sb.WriteString("    ")
	for _, tok := range tokens {
		style := renderer.NewStyle()
		switch {
		case tok.Style.Foreground != "":
			style = style.Foreground(lipgloss.Color(tok.Style.Foreground))
		case base.Foreground != "":
			style = style.Foreground(lipgloss.Color(base.Foreground))
		}
		if tok.Style.Bold {
			style = style.Bold(true)
		}

		// Tokens may span lines; re-indent after every newline.
		parts := strings.Split(tok.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				sb.WriteString("\n    ")
			}
			if part != "" {
				sb.WriteString(style.Render(part))
			}
		}
	}
	sb.WriteString("\n")
}

// SortFindings returns the findings ordered most severe first, then by
// path and start line. Input order breaks remaining ties; the input is
// not modified.
func SortFindings(findings []skillreview.Finding) []skillreview.Finding {
	sorted := make([]skillreview.Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if ra, rb := a.Severity.Rank(), b.Severity.Rank(); ra != rb {
			return ra < rb
		}
		if a.Path() != b.Path() {
			return a.Path() < b.Path()
		}
		return a.StartLine() < b.StartLine()
	})
	return sorted
}

// headerLine builds the report header rule.
// Format: ── skill ─────────────────── N findings ──
func headerLine(report *skillreview.SkillReport, width int) string {
	count := "no findings"
	switch n := len(report.Findings); {
	case n == 1:
		count = "1 finding"
	case n > 1:
		count = fmt.Sprintf("%d findings", n)
	}

	middle := "── " + report.Skill + " "
	end := " " + count + " ──"

	fillWidth := width - lipgloss.Width(middle) - lipgloss.Width(end)
	if fillWidth < 3 {
		fillWidth = 3
	}
	return middle + strings.Repeat("─", fillWidth) + end
}

// usageLine formats token and cost accounting. Empty when nothing was
// recorded.
func usageLine(report *skillreview.SkillReport) string {
	total := report.Usage.TotalTokens()
	if total == 0 && report.Duration == 0 {
		return ""
	}

	parts := []string{humanize.Comma(total) + " tokens"}
	if report.Usage.CostUSD > 0 {
		parts = append(parts, fmt.Sprintf("$%.4f", report.Usage.CostUSD))
	}
	if report.Duration > 0 {
		parts = append(parts, report.Duration.Round(100*time.Millisecond).String())
	}
	return strings.Join(parts, ", ")
}

// formatLocation formats a location as path:line or path:start-end.
func formatLocation(loc skillreview.Location) string {
	if loc.EndLine > loc.StartLine {
		return fmt.Sprintf("%s:%d-%d", loc.Path, loc.StartLine, loc.EndLine)
	}
	return fmt.Sprintf("%s:%d", loc.Path, loc.StartLine)
}

// fixPath returns the path a fix applies to, falling back to the
// finding's own location.
func fixPath(f skillreview.Finding) string {
	if f.Fix != nil && f.Fix.Location.Path != "" {
		return f.Fix.Location.Path
	}
	return f.Path()
}

// styleFromColorPair creates a lipgloss style from a ColorPair.
func styleFromColorPair(cp skillreview.ColorPair, renderer *lipgloss.Renderer) lipgloss.Style {
	style := renderer.NewStyle()
	if cp.Foreground != "" {
		style = style.Foreground(lipgloss.Color(cp.Foreground))
	}
	if cp.Background != "" {
		style = style.Background(lipgloss.Color(cp.Background))
	}
	return style
}
