package mock

import (
	"context"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var (
	_ skillreview.ReportBrowser = (*ReportBrowser)(nil)
	_ skillreview.Clipboard     = (*Clipboard)(nil)
)

// ReportBrowser is a mock implementation of skillreview.ReportBrowser.
type ReportBrowser struct {
	BrowseFn func(ctx context.Context, report *skillreview.SkillReport) error
}

func (b *ReportBrowser) Browse(ctx context.Context, report *skillreview.SkillReport) error {
	return b.BrowseFn(ctx, report)
}

// Clipboard is a mock implementation of skillreview.Clipboard.
type Clipboard struct {
	CopyFn func(content string) error
}

func (c *Clipboard) Copy(content string) error {
	return c.CopyFn(content)
}
