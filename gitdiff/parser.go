// Package gitdiff implements diff parsing using bluekeyes/go-gitdiff.
package gitdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var _ skillreview.DiffParser = (*Parser)(nil)

// Parser splits full unified diffs into per-file changes using go-gitdiff.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a possibly multi-file unified diff and returns one entry per
// changed file. Each entry's Patch holds the file's hunks rebuilt in the
// per-file form VCS hosts report: marker lines and bodies only, no file
// headers. Binary files get an empty Patch.
func (p *Parser) Parse(r io.Reader) ([]skillreview.ChangedFile, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, err
	}

	changed := make([]skillreview.ChangedFile, 0, len(files))
	for _, f := range files {
		changed = append(changed, convertFile(f))
	}

	return changed, nil
}

func convertFile(f *gitdiff.File) skillreview.ChangedFile {
	// go-gitdiff strips a/ and b/ prefixes and leaves NewName empty for
	// deletions.
	cf := skillreview.ChangedFile{
		Path:   f.NewName,
		Status: skillreview.StatusModified,
	}

	switch {
	case f.IsNew:
		cf.Status = skillreview.StatusAdded
	case f.IsDelete:
		cf.Status = skillreview.StatusRemoved
		cf.Path = f.OldName
	case f.IsRename:
		cf.Status = skillreview.StatusRenamed
	case f.IsCopy:
		// A copy introduces new content at the new path.
		cf.Status = skillreview.StatusAdded
	}

	if f.IsBinary {
		return cf
	}

	var sb strings.Builder
	for _, frag := range f.TextFragments {
		writeFragment(&sb, frag)
	}
	cf.Patch = sb.String()

	return cf
}

// writeFragment rebuilds one fragment's unified-diff text: the marker line
// followed by the body. Counts are always written explicitly, which is
// valid unified diff even where git would omit a ",1".
func writeFragment(sb *strings.Builder, frag *gitdiff.TextFragment) {
	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@", frag.OldPosition, frag.OldLines, frag.NewPosition, frag.NewLines)
	if frag.Comment != "" {
		sb.WriteString(" ")
		sb.WriteString(frag.Comment)
	}
	sb.WriteString("\n")

	for _, l := range frag.Lines {
		switch l.Op {
		case gitdiff.OpAdd:
			sb.WriteString("+")
		case gitdiff.OpDelete:
			sb.WriteString("-")
		default:
			sb.WriteString(" ")
		}
		// Line content keeps its trailing newline except on a final line
		// without one.
		sb.WriteString(l.Line)
		if l.NoEOL() {
			sb.WriteString("\n\\ No newline at end of file\n")
		}
	}
}
