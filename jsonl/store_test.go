package jsonl_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/skillreview"
	"github.com/fwojciec/skillreview/jsonl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_List(t *testing.T) {
	t.Parallel()

	t.Run("loads valid history file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "history.jsonl")
		content := `{"skill":"no-secrets","findings":[],"summary":"no findings","duration":1200000000,"usage":{}}
{"skill":"style","findings":[{"severity":"low","title":"Long line"}],"summary":"1 finding (1 low)","duration":800000000,"usage":{"input_tokens":100}}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		store := jsonl.NewStore(path)
		reports, err := store.List(context.Background())

		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, "no-secrets", reports[0].Skill)
		assert.Equal(t, "no findings", reports[0].Summary)
		assert.Equal(t, "style", reports[1].Skill)
		require.Len(t, reports[1].Findings, 1)
		assert.Equal(t, "Long line", reports[1].Findings[0].Title)
		assert.Equal(t, int64(100), reports[1].Usage.InputTokens)
	})

	t.Run("returns empty list for non-existent file", func(t *testing.T) {
		t.Parallel()

		store := jsonl.NewStore("/nonexistent/path.jsonl")
		reports, err := store.List(context.Background())

		require.NoError(t, err)
		assert.Empty(t, reports)
	})

	t.Run("returns error for malformed JSON", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "bad.jsonl")
		content := `{"skill":"ok","findings":[]}
not valid json`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		store := jsonl.NewStore(path)
		_, err := store.List(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("skips blank lines", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "gaps.jsonl")
		content := "{\"skill\":\"a\",\"findings\":[]}\n\n{\"skill\":\"b\",\"findings\":[]}\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		store := jsonl.NewStore(path)
		reports, err := store.List(context.Background())

		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, "a", reports[0].Skill)
		assert.Equal(t, "b", reports[1].Skill)
	})
}

func TestStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("appends reports across calls", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "history.jsonl")
		store := jsonl.NewStore(path)
		ctx := context.Background()

		first := &skillreview.SkillReport{
			Skill:    "no-secrets",
			Findings: []skillreview.Finding{},
			Summary:  "no findings",
			Duration: 2 * time.Second,
		}
		second := &skillreview.SkillReport{
			Skill: "style",
			Findings: []skillreview.Finding{
				{Severity: skillreview.SeverityLow, Title: "Long line"},
			},
			Summary: "1 finding (1 low) in 1 file",
			Usage:   skillreview.Usage{InputTokens: 250, OutputTokens: 40},
		}

		require.NoError(t, store.Save(ctx, first))
		require.NoError(t, store.Save(ctx, second))

		reports, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, "no-secrets", reports[0].Skill)
		assert.Equal(t, 2*time.Second, reports[0].Duration)
		assert.Equal(t, "style", reports[1].Skill)
		assert.Equal(t, int64(250), reports[1].Usage.InputTokens)
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "subdir", "nested", "history.jsonl")
		store := jsonl.NewStore(path)

		err := store.Save(context.Background(), &skillreview.SkillReport{Skill: "x"})

		require.NoError(t, err)

		reports, err := store.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, reports, 1)
	})

	t.Run("preserves findings through round trip", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "history.jsonl")
		store := jsonl.NewStore(path)

		report := &skillreview.SkillReport{
			Skill: "no-secrets",
			Findings: []skillreview.Finding{
				{
					ID:       "f1",
					Severity: skillreview.SeverityCritical,
					Title:    "Hardcoded API key",
					Location: &skillreview.Location{Path: "config.go", StartLine: 12},
				},
			},
			Summary:  "1 finding (1 critical) in 1 file",
			Failures: []skillreview.FileFailure{{Path: "big.go", Message: "timeout"}},
		}

		require.NoError(t, store.Save(context.Background(), report))

		reports, err := store.List(context.Background())
		require.NoError(t, err)
		require.Len(t, reports, 1)
		got := reports[0]
		require.Len(t, got.Findings, 1)
		assert.Equal(t, "f1", got.Findings[0].ID)
		assert.Equal(t, skillreview.SeverityCritical, got.Findings[0].Severity)
		require.NotNil(t, got.Findings[0].Location)
		assert.Equal(t, "config.go", got.Findings[0].Location.Path)
		assert.Equal(t, 12, got.Findings[0].Location.StartLine)
		require.Len(t, got.Failures, 1)
		assert.Equal(t, "big.go", got.Failures[0].Path)
	})
}
