package mock

import (
	"context"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var _ skillreview.DiffSource = (*DiffSource)(nil)

// DiffSource is a mock implementation of skillreview.DiffSource.
type DiffSource struct {
	DiffFn func(ctx context.Context, repoPath, base string) (string, error)
}

func (d *DiffSource) Diff(ctx context.Context, repoPath, base string) (string, error) {
	return d.DiffFn(ctx, repoPath, base)
}
