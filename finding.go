package skillreview

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Severity is the ordered scale findings are ranked on, most severe first.
type Severity string

// Severities, most severe first.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// severityRanks maps each severity to its rank. Critical is rank 0; larger
// ranks are less severe.
var severityRanks = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityInfo:     4,
}

// Rank returns the numeric rank of the severity. Unknown severities rank
// below info so they never satisfy a threshold.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return len(severityRanks)
}

// AtLeast reports whether the severity is at or above the threshold, i.e.
// at least as severe.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() <= threshold.Rank()
}

// Location identifies where a finding was detected.
type Location struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line,omitempty"`
}

// Fix is a suggested replacement for the located lines.
type Fix struct {
	Replacement string   `json:"replacement"`
	Location    Location `json:"location"`
}

// Finding is one issue reported by the analyzer. The orchestrator treats
// findings as opaque except for ID, Severity, and Location, which drive
// deduplication and threshold filtering.
type Finding struct {
	ID          string    `json:"id"`
	Severity    Severity  `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    *Location `json:"location,omitempty"`
	Fix         *Fix      `json:"fix,omitempty"`
}

// Path returns the finding's file path, or empty when it has no location.
func (f Finding) Path() string {
	if f.Location == nil {
		return ""
	}
	return f.Location.Path
}

// StartLine returns the finding's starting line, or 0 when it has no
// location.
func (f Finding) StartLine() int {
	if f.Location == nil {
		return 0
	}
	return f.Location.StartLine
}

// FindingID derives a stable identifier for a finding that arrived
// without one, hashing the fields that name and place it.
func FindingID(f Finding) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s:%s:%d", f.Path(), f.Title, f.StartLine()))

	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars.
}

// AnyAtOrAbove reports whether any finding meets or exceeds the threshold.
// An empty threshold matches nothing.
func AnyAtOrAbove(findings []Finding, threshold Severity) bool {
	return CountAtOrAbove(findings, threshold) > 0
}

// CountAtOrAbove returns how many findings meet or exceed the threshold.
// An empty threshold matches nothing.
func CountAtOrAbove(findings []Finding, threshold Severity) int {
	if threshold == "" {
		return 0
	}
	n := 0
	for _, f := range findings {
		if f.Severity.AtLeast(threshold) {
			n++
		}
	}
	return n
}
