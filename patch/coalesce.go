package patch

import (
	"cmp"
	"slices"
	"strings"

	"github.com/fwojciec/skillreview"
)

// separator joins the contents of merged hunks. It mimics the ellipsis
// diff tools print between elided regions.
const separator = "..."

// Coalesce merges hunks that sit close together into larger units. Hunks
// are ordered by new-file start line (stable on ties), then folded left to
// right: a hunk merges into the accumulated unit when the line gap between
// them is at most maxGapLines and their combined content size is at most
// maxChunkSize. A single hunk already over maxChunkSize passes through
// as-is rather than being truncated.
//
// The pass is greedy, not globally optimal: it never defers a merge to
// enable a better one later. Inputs are not mutated.
func Coalesce(hunks []skillreview.Hunk, maxGapLines, maxChunkSize int) []skillreview.Hunk {
	if len(hunks) <= 1 {
		return hunks
	}

	sorted := make([]skillreview.Hunk, len(hunks))
	copy(sorted, hunks)
	slices.SortStableFunc(sorted, func(a, b skillreview.Hunk) int {
		return cmp.Compare(a.NewStart, b.NewStart)
	})

	out := make([]skillreview.Hunk, 0, len(sorted))
	cur := sorted[0]
	for _, next := range sorted[1:] {
		gap := next.NewStart - (cur.NewStart + cur.NewCount)
		if gap <= maxGapLines && len(cur.Content)+len(next.Content) <= maxChunkSize {
			cur = merge(cur, next)
			continue
		}
		out = append(out, cur)
		cur = next
	}
	return append(out, cur)
}

// WouldCoalesce reports whether coalescing with the given thresholds
// would strictly reduce the hunk count.
func WouldCoalesce(hunks []skillreview.Hunk, maxGapLines, maxChunkSize int) bool {
	return len(Coalesce(hunks, maxGapLines, maxChunkSize)) < len(hunks)
}

// merge combines two hunks into one spanning unit. Ranges become the
// union of both inputs (min start, max end) so overlapping hunks are
// represented correctly; the header comes from the earlier hunk; contents
// are joined with a separator line; line lists are concatenated.
func merge(a, b skillreview.Hunk) skillreview.Hunk {
	m := skillreview.Hunk{
		Header: a.Header,
	}
	m.OldStart, m.OldCount = unionRange(a.OldStart, a.OldCount, b.OldStart, b.OldCount)
	m.NewStart, m.NewCount = unionRange(a.NewStart, a.NewCount, b.NewStart, b.NewCount)

	var sb strings.Builder
	sb.WriteString(a.Content)
	if !strings.HasSuffix(a.Content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(separator)
	sb.WriteString("\n")
	sb.WriteString(b.Content)
	m.Content = sb.String()

	m.Lines = make([]skillreview.Line, 0, len(a.Lines)+len(b.Lines))
	m.Lines = append(m.Lines, a.Lines...)
	m.Lines = append(m.Lines, b.Lines...)

	return m
}

// unionRange returns the smallest range covering both input ranges.
func unionRange(aStart, aCount, bStart, bCount int) (start, count int) {
	start = min(aStart, bStart)
	end := max(aStart+aCount, bStart+bCount)
	return start, end - start
}
