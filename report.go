package skillreview

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// FileFailure records a per-file analysis failure surfaced in a report.
// Failures never abort sibling files; they ride along so the host can
// decide overall success.
type FileFailure struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SkillReport is the orchestrator's output for one applied skill.
type SkillReport struct {
	Skill    string            `json:"skill"`
	Findings []Finding         `json:"findings"`
	Summary  string            `json:"summary"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Duration time.Duration     `json:"duration"`
	Usage    Usage             `json:"usage"`
	Failures []FileFailure     `json:"failures,omitempty"`
}

// ReportStore persists skill reports across runs.
type ReportStore interface {
	Save(ctx context.Context, report *SkillReport) error
	List(ctx context.Context) ([]*SkillReport, error)
}

// SeverityCounts returns the number of findings per severity, keyed by the
// canonical severity values.
func (r *SkillReport) SeverityCounts() map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}

// Summarize builds the one-line textual summary for a finding set: total
// count, per-severity breakdown in rank order, distinct files touched, and
// a partial-failure note when failures occurred.
func Summarize(findings []Finding, failures []FileFailure) string {
	if len(findings) == 0 && len(failures) == 0 {
		return "no findings"
	}

	var sb strings.Builder
	if len(findings) == 1 {
		sb.WriteString("1 finding")
	} else {
		fmt.Fprintf(&sb, "%d findings", len(findings))
	}

	if len(findings) > 0 {
		counts := make(map[Severity]int)
		files := make(map[string]bool)
		for _, f := range findings {
			counts[f.Severity]++
			if p := f.Path(); p != "" {
				files[p] = true
			}
		}

		var parts []string
		for _, sev := range []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo} {
			if counts[sev] > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
			}
		}
		if len(parts) > 0 {
			fmt.Fprintf(&sb, " (%s)", strings.Join(parts, ", "))
		}
		if len(files) == 1 {
			sb.WriteString(" in 1 file")
		} else if len(files) > 1 {
			fmt.Fprintf(&sb, " across %d files", len(files))
		}
	}

	if len(failures) == 1 {
		sb.WriteString("; 1 file failed analysis")
	} else if len(failures) > 1 {
		fmt.Fprintf(&sb, "; %d files failed analysis", len(failures))
	}

	return sb.String()
}
