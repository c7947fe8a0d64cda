package mock

import "github.com/fwojciec/skillreview"

// Compile-time interface verification.
var _ skillreview.PromptFormatter = (*PromptFormatter)(nil)

// PromptFormatter is a mock implementation of skillreview.PromptFormatter.
type PromptFormatter struct {
	FormatFn func(path string, unit skillreview.Unit) string
}

func (f *PromptFormatter) Format(path string, unit skillreview.Unit) string {
	return f.FormatFn(path, unit)
}
