package skillreview

import (
	"context"
	"fmt"
	"strings"
)

// Skill is a fully resolved review policy: the instructions the analyzer
// runs with, plus identifying metadata. Resolution (file loading, remote
// fetch, trigger overrides) happens before a Skill reaches the runner.
type Skill struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Instructions string `json:"instructions"`
	Model        string `json:"model,omitempty"`
}

// SystemPrompt derives the analyzer system prompt from the skill's
// instructions.
func (s Skill) SystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a code reviewer applying the policy below to one unit of a code change.\n")
	sb.WriteString("Report only issues this policy covers. Respond with a JSON array of findings; an empty array means the unit is clean.\n")
	sb.WriteString("Each finding has: severity (critical|high|medium|low|info), title, description, ")
	sb.WriteString("and optionally location {path, start_line, end_line} and fix {replacement, location}.\n\n")
	fmt.Fprintf(&sb, "## Policy: %s\n\n", s.Name)
	sb.WriteString(s.Instructions)
	return sb.String()
}

// AnalyzeRequest is one unit of content submitted to the analyzer.
type AnalyzeRequest struct {
	System    string // system prompt derived from the active skill
	Content   string // the unit rendered for analysis
	Model     string // model identifier; empty selects the adapter default
	MaxTokens int    // response budget; 0 selects the adapter default
}

// AnalyzeResult is what the analyzer returns for one unit.
type AnalyzeResult struct {
	Findings []Finding
	Usage    Usage
}

// Analyzer is the external content-analysis engine. Implementations are
// expected to be slow and occasionally fail; callers isolate failures at
// the unit boundary. Zero findings is a clean result, not an error.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error)
}

// SkillFetcher resolves a pinned remote skill reference of the form
// owner/repo@rev:path into a Skill.
type SkillFetcher interface {
	Fetch(ctx context.Context, ref string) (*Skill, error)
}
