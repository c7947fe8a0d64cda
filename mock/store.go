package mock

import (
	"context"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var _ skillreview.ReportStore = (*ReportStore)(nil)

// ReportStore is a mock implementation of skillreview.ReportStore.
type ReportStore struct {
	SaveFn func(ctx context.Context, report *skillreview.SkillReport) error
	ListFn func(ctx context.Context) ([]*skillreview.SkillReport, error)
}

func (s *ReportStore) Save(ctx context.Context, report *skillreview.SkillReport) error {
	return s.SaveFn(ctx, report)
}

func (s *ReportStore) List(ctx context.Context) ([]*skillreview.SkillReport, error) {
	return s.ListFn(ctx)
}
