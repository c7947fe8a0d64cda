package skillreview

import (
	"regexp"
	"strings"
)

// MatchGlob reports whether path matches the glob pattern. Matching is
// against the full path, anchored at both ends. Pattern syntax:
//
//	**/  zero or more whole path segments
//	**   any sequence of characters, including /
//	*    any sequence of characters, excluding /
//	?    exactly one character, excluding /
//
// Every other character matches literally; there is no malformed pattern,
// so matching never fails.
func MatchGlob(pattern, path string) bool {
	return globRegexp(pattern).MatchString(path)
}

// globRegexp translates a glob pattern into an anchored regexp. The
// translation only ever emits valid regexp syntax, so compilation cannot
// fail.
func globRegexp(pattern string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(pattern); {
		switch pattern[i] {
		case '*':
			switch {
			case strings.HasPrefix(pattern[i:], "**/"):
				sb.WriteString("(?:.*/)?")
				i += 3
			case strings.HasPrefix(pattern[i:], "**"):
				sb.WriteString(".*")
				i += 2
			default:
				sb.WriteString("[^/]*")
				i++
			}
		case '?':
			sb.WriteString("[^/]")
			i++
		default:
			sb.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			i++
		}
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String())
}

// matchesAny reports whether path matches at least one of the patterns.
func matchesAny(path string, patterns []string) bool {
	for _, p := range patterns {
		if MatchGlob(p, path) {
			return true
		}
	}
	return false
}
