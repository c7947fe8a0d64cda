package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var _ skillreview.SkillFetcher = (*Fetcher)(nil)

// Fetcher wraps a SkillFetcher with file-based caching. Refs pin a
// revision, so a cached entry never goes stale.
type Fetcher struct {
	inner    skillreview.SkillFetcher
	cacheDir string
}

// NewFetcher creates a new caching fetcher.
func NewFetcher(inner skillreview.SkillFetcher, cacheDir string) *Fetcher {
	return &Fetcher{
		inner:    inner,
		cacheDir: cacheDir,
	}
}

// Fetch returns a cached skill or delegates to the inner fetcher.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*skillreview.Skill, error) {
	hash := hashRef(ref)

	// Check cache
	if cached, err := f.loadFromCache(hash); err == nil {
		return cached, nil
	}

	// Cache miss - delegate to inner
	skill, err := f.inner.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	// Store in cache (best-effort)
	_ = f.saveToCache(hash, skill)

	return skill, nil
}

func hashRef(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(sum[:])
}

func (f *Fetcher) cachePath(hash string) string {
	return filepath.Join(f.cacheDir, hash+".json")
}

func (f *Fetcher) loadFromCache(hash string) (*skillreview.Skill, error) {
	data, err := os.ReadFile(f.cachePath(hash))
	if err != nil {
		return nil, err
	}

	var skill skillreview.Skill
	if err := json.Unmarshal(data, &skill); err != nil {
		return nil, err
	}

	return &skill, nil
}

func (f *Fetcher) saveToCache(hash string, skill *skillreview.Skill) error {
	if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
		return err
	}

	data, err := json.Marshal(skill)
	if err != nil {
		return err
	}

	return os.WriteFile(f.cachePath(hash), data, 0644)
}
