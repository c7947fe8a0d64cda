package github

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/fwojciec/skillreview"
	"github.com/fwojciec/skillreview/fs"
)

// Compile-time interface verification.
var _ skillreview.SkillFetcher = (*Client)(nil)

// skillRefRe parses a pinned skill reference: owner/repo@rev:path.
var skillRefRe = regexp.MustCompile(`^([^/@:]+/[^/@:]+)@([^:]+):(.+)$`)

// Fetch resolves a pinned remote skill reference. The ref's path may name
// the skill directory or its SKILL.md directly.
func (c *Client) Fetch(ctx context.Context, ref string) (*skillreview.Skill, error) {
	m := skillRefRe.FindStringSubmatch(ref)
	if m == nil {
		return nil, fmt.Errorf("invalid skill ref %q (want owner/repo@rev:path)", ref)
	}
	repo, rev, file := m[1], m[2], m[3]

	if !strings.HasSuffix(file, fs.SkillFile) {
		file = file + "/" + fs.SkillFile
	}

	content, err := c.Contents(ctx, repo, file, rev)
	if err != nil {
		return nil, fmt.Errorf("fetch skill %q: %w", ref, err)
	}

	skill, err := fs.ParseSkill(skillNameFromRef(repo, file), content)
	if err != nil {
		return nil, fmt.Errorf("skill %q: %w", ref, err)
	}

	return skill, nil
}

// skillNameFromRef derives the fallback skill name from the ref: the
// directory holding SKILL.md, or the repository short name for a
// root-level manifest.
func skillNameFromRef(repo, file string) string {
	if dir := path.Base(path.Dir(file)); dir != "." && dir != "/" {
		return dir
	}
	_, name, _ := strings.Cut(repo, "/")
	return name
}
