// Package skillreview provides domain types for decomposing code changes
// into bounded analysis units and reconciling the findings an external
// analyzer reports for them.
package skillreview

import (
	"context"
	"io"
)

// Hunk represents one contiguous change region in a file's diff.
// Values are immutable once parsed; coalescing produces new Hunks.
type Hunk struct {
	OldStart int    // From @@ -X,...
	OldCount int    // From @@ -X,Y ...
	NewStart int    // From @@ ...,+X
	NewCount int    // From @@ ...,+X,Y
	Header   string // Optional declaration label after the closing @@
	Content  string // Raw hunk text, marker line included
	Lines    []Line // Body lines in order, marker excluded
}

// NewRange returns the half-open line range [start, end) the hunk covers
// in the new file. The new range determines ordering and merging.
func (h Hunk) NewRange() (start, end int) {
	return h.NewStart, h.NewStart + h.NewCount
}

// ContextRange returns the new-file range expanded by contextLines on both
// ends. The start never goes below line 1.
func (h Hunk) ContextRange(contextLines int) (start, end int) {
	start, end = h.NewRange()
	start -= contextLines
	if start < 1 {
		start = 1
	}
	return start, end + contextLines
}

// Line represents a single line within a hunk.
type Line struct {
	Type      LineType
	Content   string
	OldLine   int  // 0 if line is Added
	NewLine   int  // 0 if line is Deleted
	NoNewline bool // "\ No newline at end of file" marker
}

// LineType represents the type of a diff line.
type LineType int

// Line types.
const (
	LineContext LineType = iota
	LineAdded
	LineDeleted
)

// FileStatus describes what happened to a file in a change set. The values
// match the status strings VCS hosts report per changed file.
type FileStatus string

// File statuses.
const (
	StatusAdded    FileStatus = "added"
	StatusRemoved  FileStatus = "removed"
	StatusModified FileStatus = "modified"
	StatusRenamed  FileStatus = "renamed"
)

// FileDiff represents one file's parsed diff. Hunks appear in patch order,
// which is not necessarily sorted by line. Patch keeps the original raw
// text for whole-file analysis and fallback rendering.
type FileDiff struct {
	Path   string
	Status FileStatus
	Hunks  []Hunk
	Patch  string
}

// Stats returns the number of added and deleted lines in the file.
func (f FileDiff) Stats() (added, deleted int) {
	for _, hunk := range f.Hunks {
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineAdded:
				added++
			case LineDeleted:
				deleted++
			}
		}
	}
	return added, deleted
}

// Unit is one analyzer call's worth of change content: a hunk plus
// unchanged surrounding lines pulled from the current file content. A
// whole-file unit carries the file's entire change in Hunk.Content and has
// no context of its own.
type Unit struct {
	Hunk          Hunk
	ContextBefore []string // unchanged lines immediately before the hunk
	ContextAfter  []string // unchanged lines immediately after the hunk
	Whole         bool     // true when the unit spans the whole file
}

// PreparedFile is the per-file input handed to the orchestrator: the path
// plus the ordered units to analyze. Units are analyzed sequentially in
// the order given.
type PreparedFile struct {
	Path  string
	Units []Unit
}

// FileReader provides current file content for building unit context.
// Implementations read from a worktree, a VCS ref, or a remote host.
type FileReader interface {
	// ReadFile returns the content of the file at path, or an error if the
	// file cannot be read. A missing file is an error; callers treat it as
	// "no context available".
	ReadFile(ctx context.Context, path string) (string, error)
}

// DiffSource produces the raw unified diff of a local repository against
// a base reference. An empty base means the default comparison, working
// tree against HEAD.
type DiffSource interface {
	Diff(ctx context.Context, repoPath, base string) (string, error)
}

// DiffParser splits a raw, possibly multi-file unified diff into its
// per-file changes.
type DiffParser interface {
	Parse(r io.Reader) ([]ChangedFile, error)
}
