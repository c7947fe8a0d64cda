package mock

import (
	"context"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var _ skillreview.SkillFetcher = (*SkillFetcher)(nil)

// SkillFetcher is a mock implementation of skillreview.SkillFetcher.
type SkillFetcher struct {
	FetchFn func(ctx context.Context, ref string) (*skillreview.Skill, error)
}

func (f *SkillFetcher) Fetch(ctx context.Context, ref string) (*skillreview.Skill, error) {
	return f.FetchFn(ctx, ref)
}
