package skillreview

import "fmt"

// ValidationReason identifies why a finding's location is invalid.
type ValidationReason string

// Validation error reasons.
const (
	ErrFileNotAnalyzed ValidationReason = "file_not_analyzed"
	ErrLineOutOfRange  ValidationReason = "line_out_of_range"
)

// ValidationError describes one finding whose location does not refer to
// the analyzed change set. Analyzers occasionally report locations outside
// the content they were shown; hosts filter or flag these before
// publishing.
type ValidationError struct {
	FindingID string           // ID of the offending finding
	Location  Location         // The problematic location
	Reason    ValidationReason // Why this location is invalid
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	switch e.Reason {
	case ErrFileNotAnalyzed:
		return fmt.Sprintf("finding %s: file %q was not part of the analyzed change",
			e.FindingID, e.Location.Path)
	case ErrLineOutOfRange:
		return fmt.Sprintf("finding %s: line %d of %q is outside every analyzed region",
			e.FindingID, e.Location.StartLine, e.Location.Path)
	default:
		return fmt.Sprintf("finding %s: unknown error for %q line %d",
			e.FindingID, e.Location.Path, e.Location.StartLine)
	}
}

// ValidateFindings checks that every located finding refers to a file and
// line region that was actually analyzed. Findings without a location are
// always valid. Returns a slice of validation errors, or nil if all
// locations check out.
//
// A line is in range when it falls inside any unit's context-expanded
// span; whole-file units accept any line of their file.
func ValidateFindings(files []PreparedFile, findings []Finding, contextLines int) []ValidationError {
	type span struct{ start, end int }
	spans := make(map[string][]span, len(files))
	whole := make(map[string]bool, len(files))

	for _, file := range files {
		for _, unit := range file.Units {
			if unit.Whole {
				whole[file.Path] = true
				continue
			}
			start, end := unit.Hunk.ContextRange(contextLines)
			spans[file.Path] = append(spans[file.Path], span{start, end})
		}
	}

	var errs []ValidationError
	for _, f := range findings {
		if f.Location == nil {
			continue
		}
		loc := *f.Location

		_, analyzed := spans[loc.Path]
		if !analyzed && !whole[loc.Path] {
			errs = append(errs, ValidationError{
				FindingID: f.ID,
				Location:  loc,
				Reason:    ErrFileNotAnalyzed,
			})
			continue
		}
		if whole[loc.Path] {
			continue
		}

		inRange := false
		for _, s := range spans[loc.Path] {
			if loc.StartLine >= s.start && loc.StartLine < s.end {
				inRange = true
				break
			}
		}
		if !inRange {
			errs = append(errs, ValidationError{
				FindingID: f.ID,
				Location:  loc,
				Reason:    ErrLineOutOfRange,
			})
		}
	}

	return errs
}
