package mock

import (
	"context"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var _ skillreview.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of skillreview.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, req skillreview.AnalyzeRequest) (*skillreview.AnalyzeResult, error)
}

func (a *Analyzer) Analyze(ctx context.Context, req skillreview.AnalyzeRequest) (*skillreview.AnalyzeResult, error) {
	return a.AnalyzeFn(ctx, req)
}
