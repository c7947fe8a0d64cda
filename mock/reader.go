package mock

import (
	"context"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var _ skillreview.FileReader = (*FileReader)(nil)

// FileReader is a mock implementation of skillreview.FileReader.
type FileReader struct {
	ReadFileFn func(ctx context.Context, path string) (string, error)
}

func (r *FileReader) ReadFile(ctx context.Context, path string) (string, error) {
	return r.ReadFileFn(ctx, path)
}
