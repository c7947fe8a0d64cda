package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fwojciec/skillreview"
)

// Markdown builds the plain comment body for a report, suitable for
// posting on a pull request. Findings appear most severe first.
// maxFindings caps the findings included; 0 includes them all.
func Markdown(report *skillreview.SkillReport, maxFindings int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## skillreview: %s\n\n", report.Skill)
	sb.WriteString(report.Summary)
	sb.WriteString("\n")

	findings := SortFindings(report.Findings)
	omitted := 0
	if maxFindings > 0 && len(findings) > maxFindings {
		omitted = len(findings) - maxFindings
		findings = findings[:maxFindings]
	}

	for _, f := range findings {
		fmt.Fprintf(&sb, "\n### %s: %s\n\n", strings.ToUpper(string(f.Severity)), f.Title)
		if f.Location != nil {
			fmt.Fprintf(&sb, "`%s`\n\n", formatLocation(*f.Location))
		}
		if f.Description != "" {
			sb.WriteString(strings.TrimRight(f.Description, "\n"))
			sb.WriteString("\n")
		}
		if f.Fix != nil && f.Fix.Replacement != "" {
			fmt.Fprintf(&sb, "\nSuggested fix:\n\n```%s\n%s\n```\n",
				fenceLanguage(f), strings.TrimRight(f.Fix.Replacement, "\n"))
		}
	}

	switch {
	case omitted == 1:
		sb.WriteString("\n_1 finding omitted._\n")
	case omitted > 1:
		fmt.Fprintf(&sb, "\n_%d findings omitted._\n", omitted)
	}

	if len(report.Failures) > 0 {
		sb.WriteString("\n**Analysis failures:**\n\n")
		for _, fail := range report.Failures {
			fmt.Fprintf(&sb, "- `%s`: %s\n", fail.Path, fail.Message)
		}
	}

	if line := usageLine(report); line != "" {
		fmt.Fprintf(&sb, "\n_%s_\n", line)
	}

	return sb.String()
}

// fenceLanguage guesses the code fence language from the fix path's
// extension.
func fenceLanguage(f skillreview.Finding) string {
	return strings.TrimPrefix(filepath.Ext(fixPath(f)), ".")
}
