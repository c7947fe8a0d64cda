package skillreview

import "slices"

// Trigger binds an event type, action list, and path filters to a named
// skill and an output policy. Triggers are configuration: fully resolved
// at load time and read-only afterward.
type Trigger struct {
	Name        string   `json:"name"`
	Event       string   `json:"event"`
	Actions     []string `json:"actions,omitempty"`      // ignored for action-less events
	Paths       []string `json:"paths,omitempty"`        // include filters, OR across files and patterns
	IgnorePaths []string `json:"ignore_paths,omitempty"` // applies only when every file is excluded
	FailOn      Severity `json:"fail_on,omitempty"`      // empty disables build failure
	CommentOn   Severity `json:"comment_on,omitempty"`   // empty disables commenting
	MaxFindings int      `json:"max_findings,omitempty"` // 0 means unlimited
	Model       string   `json:"model,omitempty"`        // analyzer model override
	SkillRef    string   `json:"skill_ref,omitempty"`    // pinned remote skill, owner/repo@rev:path
}

// Matches reports whether the trigger applies to the event. An unknown
// event type or action is a normal false, never an error.
//
// The action check is skipped for events that carry no action. Include
// paths require at least one changed file to match at least one pattern.
// Ignore paths disqualify only when every changed file matches some
// pattern; a mixed change set with one non-excluded file still qualifies.
func (t Trigger) Matches(e Event) bool {
	if t.Event != e.Type {
		return false
	}

	if e.Action != "" && !slices.Contains(t.Actions, e.Action) {
		return false
	}

	if len(t.Paths) > 0 {
		included := false
		for _, f := range e.Files {
			if matchesAny(f.Path, t.Paths) {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}

	if len(t.IgnorePaths) > 0 && len(e.Files) > 0 {
		allExcluded := true
		for _, f := range e.Files {
			if !matchesAny(f.Path, t.IgnorePaths) {
				allExcluded = false
				break
			}
		}
		if allExcluded {
			return false
		}
	}

	return true
}

// ShouldFail reports whether the findings meet the trigger's fail-on
// threshold.
func (t Trigger) ShouldFail(findings []Finding) bool {
	return AnyAtOrAbove(findings, t.FailOn)
}

// ShouldComment reports whether the findings meet the trigger's comment-on
// threshold.
func (t Trigger) ShouldComment(findings []Finding) bool {
	return AnyAtOrAbove(findings, t.CommentOn)
}
