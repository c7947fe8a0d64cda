package patch

import (
	"context"
	"strings"

	"github.com/fwojciec/skillreview"
)

// Preparation defaults.
const (
	DefaultMaxGapLines  = 10
	DefaultMaxChunkSize = 16 * 1024
	DefaultContextLines = 5
)

// Options bound unit preparation. Zero values select the defaults.
type Options struct {
	MaxGapLines  int // largest unchanged-line gap bridged when coalescing
	MaxChunkSize int // largest combined content size for a merge, in bytes
	ContextLines int // unchanged lines attached before and after each hunk
	Modes        []skillreview.ModePattern
}

func (o Options) withDefaults() Options {
	if o.MaxGapLines == 0 {
		o.MaxGapLines = DefaultMaxGapLines
	}
	if o.MaxChunkSize == 0 {
		o.MaxChunkSize = DefaultMaxChunkSize
	}
	if o.ContextLines == 0 {
		o.ContextLines = DefaultContextLines
	}
	return o
}

// Preparer turns a change set into the per-file unit lists the runner
// consumes: classify each file, parse and coalesce its patch, and attach
// surrounding lines read from the current file content.
type Preparer struct {
	Reader  skillreview.FileReader // optional; nil disables context extraction
	Options Options
}

// Prepare builds PreparedFiles for the changed files. Skipped files and
// files whose patches contain no hunks are dropped. Context extraction is
// best-effort: when the current content cannot be read the units simply
// carry no context. The only error returned is ctx's.
func (p *Preparer) Prepare(ctx context.Context, files []skillreview.ChangedFile) ([]skillreview.PreparedFile, error) {
	opts := p.Options.withDefaults()

	var prepared []skillreview.PreparedFile
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch skillreview.ClassifyFile(f.Path, opts.Modes) {
		case skillreview.ModeSkip:
			continue
		case skillreview.ModeWhole:
			unit, ok := p.wholeUnit(ctx, f)
			if !ok {
				continue
			}
			prepared = append(prepared, skillreview.PreparedFile{
				Path:  f.Path,
				Units: []skillreview.Unit{unit},
			})
		default:
			units := p.hunkUnits(ctx, f, opts)
			if len(units) == 0 {
				continue
			}
			prepared = append(prepared, skillreview.PreparedFile{
				Path:  f.Path,
				Units: units,
			})
		}
	}
	return prepared, nil
}

// wholeUnit builds the single unit for a whole-file mode file: the
// current file content when readable, the raw patch otherwise.
func (p *Preparer) wholeUnit(ctx context.Context, f skillreview.ChangedFile) (skillreview.Unit, bool) {
	content := ""
	if p.Reader != nil && f.Status != skillreview.StatusRemoved {
		if c, err := p.Reader.ReadFile(ctx, f.Path); err == nil {
			content = c
		}
	}
	if content == "" {
		content = f.Patch
	}
	if content == "" {
		return skillreview.Unit{}, false
	}
	return skillreview.Unit{
		Hunk:  skillreview.Hunk{Content: content},
		Whole: true,
	}, true
}

// hunkUnits parses, coalesces, and contextualizes one file's hunks.
func (p *Preparer) hunkUnits(ctx context.Context, f skillreview.ChangedFile, opts Options) []skillreview.Unit {
	hunks := Coalesce(Parse(f.Patch).Hunks, opts.MaxGapLines, opts.MaxChunkSize)
	if len(hunks) == 0 {
		return nil
	}

	var lines []string
	if p.Reader != nil && f.Status != skillreview.StatusRemoved {
		if content, err := p.Reader.ReadFile(ctx, f.Path); err == nil {
			lines = splitLines(content)
		}
	}

	units := make([]skillreview.Unit, 0, len(hunks))
	for _, h := range hunks {
		start, end := h.NewRange()
		units = append(units, skillreview.Unit{
			Hunk:          h,
			ContextBefore: window(lines, start-1-opts.ContextLines, start-1),
			ContextAfter:  window(lines, end-1, end-1+opts.ContextLines),
		})
	}
	return units
}

// splitLines splits file content into lines without a phantom final
// element for a trailing newline.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// window returns lines[lo:hi] clamped to valid bounds, nil when empty.
func window(lines []string, lo, hi int) []string {
	if lo < 0 {
		lo = 0
	}
	if hi > len(lines) {
		hi = len(lines)
	}
	if lo >= hi {
		return nil
	}
	return lines[lo:hi]
}
