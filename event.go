package skillreview

import "context"

// ChangedFile is one file in an incoming change set. Patch holds the
// file's unified diff fragment as reported by the host (may be empty for
// binary files).
type ChangedFile struct {
	Path   string     `json:"path"`
	Status FileStatus `json:"status"`
	Patch  string     `json:"patch,omitempty"`
}

// Event is the change-set context a review runs against. Action is empty
// for events that carry none, such as scheduled runs.
type Event struct {
	Type   string        `json:"type"`
	Action string        `json:"action,omitempty"`
	Repo   string        `json:"repo,omitempty"`
	Number int           `json:"number,omitempty"`
	Files  []ChangedFile `json:"files"`
}

// Paths returns the changed file paths in order.
func (e Event) Paths() []string {
	paths := make([]string, len(e.Files))
	for i, f := range e.Files {
		paths[i] = f.Path
	}
	return paths
}

// ChangeSource fetches the change set for a review target, typically a
// pull request on a VCS host.
type ChangeSource interface {
	Changes(ctx context.Context, repo string, number int) (*Event, error)
}

// Commenter posts a review summary back to the change's host.
type Commenter interface {
	Comment(ctx context.Context, repo string, number int, body string) error
}
