package mock

import (
	"io"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var _ skillreview.DiffParser = (*DiffParser)(nil)

// DiffParser is a mock implementation of skillreview.DiffParser.
type DiffParser struct {
	ParseFn func(r io.Reader) ([]skillreview.ChangedFile, error)
}

func (p *DiffParser) Parse(r io.Reader) ([]skillreview.ChangedFile, error) {
	return p.ParseFn(r)
}
