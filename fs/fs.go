// Package fs provides filesystem-backed skill loading and caching.
package fs

import (
	"os"
	"path/filepath"
)

// DefaultCacheDir returns the default cache directory for skillreview.
// Uses XDG_CACHE_HOME if set, otherwise falls back to ~/.cache/skillreview,
// or system temp directory if home is unavailable.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "skillreview")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "skillreview")
	}
	return filepath.Join(home, ".cache", "skillreview")
}
