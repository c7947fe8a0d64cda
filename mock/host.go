package mock

import (
	"context"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var (
	_ skillreview.ChangeSource = (*ChangeSource)(nil)
	_ skillreview.Commenter    = (*Commenter)(nil)
)

// ChangeSource is a mock implementation of skillreview.ChangeSource.
type ChangeSource struct {
	ChangesFn func(ctx context.Context, repo string, number int) (*skillreview.Event, error)
}

func (s *ChangeSource) Changes(ctx context.Context, repo string, number int) (*skillreview.Event, error) {
	return s.ChangesFn(ctx, repo, number)
}

// Commenter is a mock implementation of skillreview.Commenter.
type Commenter struct {
	CommentFn func(ctx context.Context, repo string, number int, body string) error
}

func (c *Commenter) Comment(ctx context.Context, repo string, number int, body string) error {
	return c.CommentFn(ctx, repo, number, body)
}
