package skillreview

// ColorPair represents a foreground and background color combination.
// Colors should be hex strings in "#RRGGBB" format (e.g., "#ff0000" for red).
// Empty strings are valid and indicate no color override (use terminal default).
type ColorPair struct {
	Foreground string
	Background string
}

// Styles contains color pairs for the visual elements of a rendered report.
type Styles struct {
	Critical ColorPair // critical severity badge
	High     ColorPair // high severity badge
	Medium   ColorPair // medium severity badge
	Low      ColorPair // low severity badge
	Info     ColorPair // info severity badge

	Header   ColorPair // skill header line
	Location ColorPair // path:line references
	Snippet  ColorPair // suggested-fix snippet text
	Failure  ColorPair // per-file failure lines
	Muted    ColorPair // summary, usage, separators
}

// Badge returns the color pair for a severity badge. Unknown severities
// get the info pair.
func (s Styles) Badge(sev Severity) ColorPair {
	switch sev {
	case SeverityCritical:
		return s.Critical
	case SeverityHigh:
		return s.High
	case SeverityMedium:
		return s.Medium
	case SeverityLow:
		return s.Low
	default:
		return s.Info
	}
}

// Palette holds the semantic colors snippet highlighting draws from.
type Palette struct {
	Keyword     string
	String      string
	Number      string
	Comment     string
	Operator    string
	Function    string
	Type        string
	Constant    string
	Punctuation string
}

// Theme provides colors for rendering reports.
// Different implementations can provide light/dark variants.
type Theme interface {
	Styles() Styles
	Palette() Palette
}
