package skillreview

// FileMode is how a changed file should be processed.
type FileMode int

// File modes.
const (
	ModeHunks FileMode = iota // analyze per coalesced hunk (default)
	ModeWhole                 // bypass chunking, analyze the full change
	ModeSkip                  // exclude the file entirely
)

// String returns the mode's configuration name.
func (m FileMode) String() string {
	switch m {
	case ModeWhole:
		return "whole"
	case ModeSkip:
		return "skip"
	default:
		return "hunks"
	}
}

// ModePattern pairs a glob pattern with the mode it assigns.
type ModePattern struct {
	Pattern string
	Mode    FileMode
}

// builtinSkips matches files whose diffs carry no review signal: lockfiles,
// minified or bundled assets, build output, and generated code.
var builtinSkips = []string{
	"**/package-lock.json",
	"**/pnpm-lock.yaml",
	"**/yarn.lock",
	"**/bun.lockb",
	"**/Cargo.lock",
	"**/Gemfile.lock",
	"**/composer.lock",
	"**/poetry.lock",
	"**/uv.lock",
	"**/go.sum",
	"**/*.min.js",
	"**/*.min.css",
	"**/*.bundle.js",
	"**/*.map",
	"**/dist/**",
	"**/build/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/__snapshots__/**",
	"**/*.pb.go",
	"**/*_generated.go",
	"**/*.generated.*",
}

// ClassifyFile returns the mode for path. Caller-supplied patterns are
// checked first in the order given, so a caller can override a built-in
// skip; the built-in skip list is checked next; anything else defaults to
// ModeHunks. Pure function, no I/O.
func ClassifyFile(path string, overrides []ModePattern) FileMode {
	for _, p := range overrides {
		if MatchGlob(p.Pattern, path) {
			return p.Mode
		}
	}
	for _, p := range builtinSkips {
		if MatchGlob(p, path) {
			return ModeSkip
		}
	}
	return ModeHunks
}
