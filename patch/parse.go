// Package patch turns per-file unified diff patches into analysis units:
// it parses hunk markers, coalesces nearby hunks under gap and size
// constraints, and attaches surrounding file content as context.
package patch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/skillreview"
)

// marker matches a unified-diff hunk marker: @@ -a[,b] +c[,d] @@ header.
// Counts are optional and default to 1.
var marker = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(?: (.*))?$`)

// Result is the outcome of parsing one per-file patch. Skipped holds the
// lines that were not part of any hunk: file headers before the first
// marker and marker-shaped lines that did not parse. Callers decide
// whether an empty hunk list is itself a problem.
type Result struct {
	Hunks   []skillreview.Hunk
	Skipped []string
}

// Parse extracts the ordered hunks from a per-file unified diff patch,
// such as the per-file patch fragments VCS hosts report. Parsing is
// best-effort: malformed markers are skipped, a patch with no markers
// yields an empty hunk list, and nothing here returns an error.
//
// Each hunk's Content reproduces its marker-delimited section of the
// input verbatim, so concatenating all hunk contents in order restores
// the marker-delimited part of the patch.
func Parse(patch string) Result {
	var res Result
	if patch == "" {
		return res
	}

	var (
		cur     *skillreview.Hunk
		content strings.Builder
		oldLine int
		newLine int
	)

	flush := func() {
		if cur == nil {
			return
		}
		cur.Content = content.String()
		res.Hunks = append(res.Hunks, *cur)
		cur = nil
		content.Reset()
	}

	// SplitAfter keeps line terminators so Content round-trips exactly,
	// including a final line without a trailing newline.
	for _, raw := range strings.SplitAfter(patch, "\n") {
		if raw == "" {
			continue
		}
		line := strings.TrimSuffix(raw, "\n")

		if strings.HasPrefix(line, "@@") {
			m := marker.FindStringSubmatch(line)
			if m == nil {
				res.Skipped = append(res.Skipped, line)
				continue
			}
			flush()
			h := skillreview.Hunk{
				OldStart: atoi(m[1], 0),
				OldCount: atoi(m[2], 1),
				NewStart: atoi(m[3], 0),
				NewCount: atoi(m[4], 1),
				Header:   m[5],
			}
			cur = &h
			oldLine = h.OldStart
			newLine = h.NewStart
			content.WriteString(raw)
			continue
		}

		if cur == nil {
			res.Skipped = append(res.Skipped, line)
			continue
		}

		content.WriteString(raw)

		switch {
		case strings.HasPrefix(line, "+"):
			cur.Lines = append(cur.Lines, skillreview.Line{
				Type:    skillreview.LineAdded,
				Content: line[1:],
				NewLine: newLine,
			})
			newLine++
		case strings.HasPrefix(line, "-"):
			cur.Lines = append(cur.Lines, skillreview.Line{
				Type:    skillreview.LineDeleted,
				Content: line[1:],
				OldLine: oldLine,
			})
			oldLine++
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file" annotates the previous line.
			if n := len(cur.Lines); n > 0 {
				cur.Lines[n-1].NoNewline = true
			}
		default:
			// Context line. Some hosts trim the leading space from empty
			// context lines, so an empty line counts as empty context.
			cur.Lines = append(cur.Lines, skillreview.Line{
				Type:    skillreview.LineContext,
				Content: strings.TrimPrefix(line, " "),
				OldLine: oldLine,
				NewLine: newLine,
			})
			oldLine++
			newLine++
		}
	}
	flush()

	return res
}

// ParseFile parses a per-file patch into a FileDiff, keeping the raw
// patch for whole-file analysis.
func ParseFile(path, patch string, status skillreview.FileStatus) skillreview.FileDiff {
	res := Parse(patch)
	return skillreview.FileDiff{
		Path:   path,
		Status: status,
		Hunks:  res.Hunks,
		Patch:  patch,
	}
}

// atoi parses a marker count, returning def for the empty (omitted) form.
// The regexp guarantees digits, so failure cannot happen.
func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
