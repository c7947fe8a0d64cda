package skillreview

import "context"

// ReportBrowser presents a skill report interactively and blocks until the
// user exits or the context is cancelled.
type ReportBrowser interface {
	Browse(ctx context.Context, report *SkillReport) error
}

// Clipboard provides copy-to-clipboard functionality.
type Clipboard interface {
	Copy(content string) error
}
