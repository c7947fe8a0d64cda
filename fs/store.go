package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/skillreview"
	"gopkg.in/yaml.v3"
)

// SkillFile is the manifest file name inside each skill directory.
const SkillFile = "SKILL.md"

// Store loads skills from a directory tree of <dir>/<name>/SKILL.md files.
// Each SKILL.md carries YAML frontmatter (name, description, model)
// followed by the Markdown instructions.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads and parses the named skill. A missing directory or manifest
// is an error, as is malformed frontmatter.
func (s *Store) Load(ctx context.Context, name string) (*skillreview.Skill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name, SkillFile))
	if err != nil {
		return nil, fmt.Errorf("load skill %q: %w", name, err)
	}

	skill, err := ParseSkill(name, string(data))
	if err != nil {
		return nil, fmt.Errorf("skill %q: %w", name, err)
	}

	return skill, nil
}

// List returns every skill under the store directory in name order.
// Directories without a SKILL.md are ignored; a malformed manifest in a
// skill directory is an error.
func (s *Store) List(ctx context.Context) ([]*skillreview.Skill, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	var skills []*skillreview.Skill
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.dir, e.Name(), SkillFile)); err != nil {
			continue
		}
		skill, err := s.Load(ctx, e.Name())
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}

	return skills, nil
}

type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Model       string `yaml:"model"`
}

// ParseSkill splits SKILL.md content into frontmatter and instructions.
// The frontmatter name wins over fallbackName when both are present.
func ParseSkill(fallbackName, content string) (*skillreview.Skill, error) {
	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return nil, fmt.Errorf("missing frontmatter")
	}

	end := strings.Index(rest, "\n---\n")
	tail := 5
	if end == -1 {
		if !strings.HasSuffix(rest, "\n---") {
			return nil, fmt.Errorf("unterminated frontmatter")
		}
		end = len(rest) - 4
		tail = 4
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if fm.Name == "" {
		fm.Name = fallbackName
	}

	return &skillreview.Skill{
		Name:         fm.Name,
		Description:  fm.Description,
		Model:        fm.Model,
		Instructions: strings.TrimSpace(rest[end+tail:]),
	}, nil
}
