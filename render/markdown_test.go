package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/skillreview"
	"github.com/fwojciec/skillreview/render"
)

func TestMarkdown(t *testing.T) {
	t.Parallel()

	out := render.Markdown(sampleReport(), 0)

	t.Run("opens with the skill header and summary", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(out, "## skillreview: no-secrets\n"))
		assert.Contains(t, out, "2 findings (1 high, 1 medium) across 2 files")
	})

	t.Run("renders each finding as a section", func(t *testing.T) {
		assert.Contains(t, out, "### HIGH: Hardcoded AWS credential")
		assert.Contains(t, out, "### MEDIUM: Predictable temp file name")
		assert.Contains(t, out, "`src/auth.go:42-44`")
		assert.Contains(t, out, "The secret key is embedded in source.")
	})

	t.Run("orders sections most severe first", func(t *testing.T) {
		high := strings.Index(out, "### HIGH:")
		medium := strings.Index(out, "### MEDIUM:")
		require.GreaterOrEqual(t, high, 0)
		require.GreaterOrEqual(t, medium, 0)
		assert.Less(t, high, medium)
	})

	t.Run("fences fix snippets by file extension", func(t *testing.T) {
		assert.Contains(t, out, "Suggested fix:")
		assert.Contains(t, out, "```go\nkey := os.Getenv(\"AWS_SECRET_KEY\")\n```")
	})

	t.Run("closes with the usage footer", func(t *testing.T) {
		assert.Contains(t, out, "_12,345 tokens, $0.0312, 4.2s_")
	})
}

func TestMarkdown_MaxFindings(t *testing.T) {
	t.Parallel()

	out := render.Markdown(sampleReport(), 1)

	assert.Contains(t, out, "### HIGH: Hardcoded AWS credential")
	assert.NotContains(t, out, "Predictable temp file name")
	assert.Contains(t, out, "_1 finding omitted._")
}

func TestMarkdown_Failures(t *testing.T) {
	t.Parallel()

	report := &skillreview.SkillReport{
		Skill:   "style",
		Summary: "no findings; 1 file failed analysis",
		Failures: []skillreview.FileFailure{
			{Path: "big.go", Message: "unit 2: response truncated"},
		},
	}

	out := render.Markdown(report, 0)

	assert.Contains(t, out, "**Analysis failures:**")
	assert.Contains(t, out, "- `big.go`: unit 2: response truncated")
}

func TestMarkdown_NoFindings(t *testing.T) {
	t.Parallel()

	report := &skillreview.SkillReport{
		Skill:   "no-secrets",
		Summary: "no findings",
	}

	out := render.Markdown(report, 0)

	assert.Contains(t, out, "## skillreview: no-secrets")
	assert.Contains(t, out, "no findings")
	assert.NotContains(t, out, "###")
	assert.NotContains(t, out, "omitted")
}
