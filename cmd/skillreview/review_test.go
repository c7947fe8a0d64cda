package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/skillreview"
	main "github.com/fwojciec/skillreview/cmd/skillreview"
	"github.com/fwojciec/skillreview/mock"
)

// samplePatch is the per-file hunk form VCS hosts report. The hunk spans
// new-file lines 10 through 16.
const samplePatch = `@@ -10,7 +10,7 @@ func login() {
 	user := find(name)
 	if user == nil {
 		return errNotFound
-	}
+	} // found
 	token := "hardcoded-secret"
 	session.save(token)
 }
`

// sampleDiff is the same change in full git form.
const sampleDiff = "diff --git a/auth.go b/auth.go\n" +
	"index 1234567..abcdefg 100644\n" +
	"--- a/auth.go\n" +
	"+++ b/auth.go\n" +
	samplePatch

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// noContext is a reader for which every file is missing, so units carry
// no surrounding lines.
func noContext() *mock.FileReader {
	return &mock.FileReader{
		ReadFileFn: func(_ context.Context, _ string) (string, error) {
			return "", os.ErrNotExist
		},
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeDiff(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "change.diff")
	require.NoError(t, os.WriteFile(path, []byte(sampleDiff), 0o644))
	return path
}

func writeSkill(t *testing.T, dir, name, description string) {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	manifest := "---\nname: " + name + "\ndescription: " + description + "\n---\n\nFlag any hardcoded credentials.\n"
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(manifest), 0o644))
}

func secretFinding() skillreview.Finding {
	return skillreview.Finding{
		ID:       "secret-1",
		Severity: skillreview.SeverityHigh,
		Title:    "Hardcoded secret",
		Location: &skillreview.Location{Path: "auth.go", StartLine: 13},
	}
}

func analyzerReturning(findings ...skillreview.Finding) *mock.Analyzer {
	return &mock.Analyzer{
		AnalyzeFn: func(_ context.Context, _ skillreview.AnalyzeRequest) (*skillreview.AnalyzeResult, error) {
			return &skillreview.AnalyzeResult{
				Findings: findings,
				Usage:    skillreview.Usage{InputTokens: 1000, OutputTokens: 500},
			}, nil
		},
	}
}

func execute(cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestReview_DiffFile(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "no-secrets", "Detects hardcoded credentials")
	cfgPath := writeConfig(t, "skills_dir: "+skillsDir+"\n")

	var req skillreview.AnalyzeRequest
	rc := &main.ReviewCommand{
		Analyzer: &mock.Analyzer{
			AnalyzeFn: func(_ context.Context, r skillreview.AnalyzeRequest) (*skillreview.AnalyzeResult, error) {
				req = r
				return &skillreview.AnalyzeResult{
					Findings: []skillreview.Finding{secretFinding()},
					Usage:    skillreview.Usage{InputTokens: 1000, OutputTokens: 500},
				}, nil
			},
		},
		Reader: noContext(),
		Logger: discardLogger(),
	}

	out, _, err := execute(main.NewReviewCommand(rc),
		"--config", cfgPath, "--diff", writeDiff(t), "--skill", "no-secrets", "--no-color")

	require.NoError(t, err)
	assert.Contains(t, req.System, "no-secrets")
	assert.Contains(t, req.System, "Flag any hardcoded credentials.")
	assert.Contains(t, req.Content, `token := "hardcoded-secret"`)
	assert.Contains(t, out, "HIGH  Hardcoded secret")
	assert.Contains(t, out, "auth.go:13")
	assert.Contains(t, out, "1 finding (1 high) in 1 file")
	assert.Contains(t, out, "1,500 tokens")
}

func TestReview_Stdin(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "no-secrets", "Detects hardcoded credentials")
	cfgPath := writeConfig(t, "skills_dir: "+skillsDir+"\n")

	rc := &main.ReviewCommand{
		Analyzer: analyzerReturning(secretFinding()),
		Reader:   noContext(),
		Logger:   discardLogger(),
	}
	cmd := main.NewReviewCommand(rc)
	cmd.SetIn(strings.NewReader(sampleDiff))

	out, _, err := execute(cmd, "--config", cfgPath, "--diff", "-", "--skill", "no-secrets", "--no-color")

	require.NoError(t, err)
	assert.Contains(t, out, "Hardcoded secret")
}

func TestReview_EmptyDiff(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, "skills_dir: "+t.TempDir()+"\n")

	rc := &main.ReviewCommand{Logger: discardLogger()}
	cmd := main.NewReviewCommand(rc)
	cmd.SetIn(strings.NewReader(""))

	_, _, err := execute(cmd, "--config", cfgPath, "--diff", "-")

	require.ErrorIs(t, err, main.ErrNoChanges)
}

func TestReview_Worktree(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "no-secrets", "Detects hardcoded credentials")
	cfgPath := writeConfig(t, "skills_dir: "+skillsDir+"\n")

	var gotPath, gotBase string
	rc := &main.ReviewCommand{
		Analyzer: analyzerReturning(secretFinding()),
		Diffs: &mock.DiffSource{
			DiffFn: func(_ context.Context, repoPath, base string) (string, error) {
				gotPath, gotBase = repoPath, base
				return sampleDiff, nil
			},
		},
		Reader: noContext(),
		Logger: discardLogger(),
	}

	out, _, err := execute(main.NewReviewCommand(rc),
		"--config", cfgPath, "--path", "/repo", "--base", "main", "--skill", "no-secrets", "--no-color")

	require.NoError(t, err)
	assert.Equal(t, "/repo", gotPath)
	assert.Equal(t, "main", gotBase)
	assert.Contains(t, out, "Hardcoded secret")
}

func TestReview_FailOnThreshold(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, failOn string) error {
		t.Helper()
		skillsDir := t.TempDir()
		writeSkill(t, skillsDir, "no-secrets", "Detects hardcoded credentials")
		cfgPath := writeConfig(t, "skills_dir: "+skillsDir+"\n")

		rc := &main.ReviewCommand{
			Analyzer: analyzerReturning(secretFinding()),
			Reader:   noContext(),
			Logger:   discardLogger(),
		}
		_, _, err := execute(main.NewReviewCommand(rc),
			"--config", cfgPath, "--diff", writeDiff(t), "--skill", "no-secrets", "--fail-on", failOn, "--no-color")
		return err
	}

	t.Run("fails at or above the threshold", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, run(t, "high"), main.ErrFindingsAboveThreshold)
	})

	t.Run("passes below the threshold", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, run(t, "critical"))
	})
}

func TestReview_PullRequest_Comments(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "no-secrets", "Detects hardcoded credentials")
	cfgPath := writeConfig(t, "skills_dir: "+skillsDir+`
triggers:
  - name: no-secrets
    event: pull_request
    comment_on: medium
`)

	var gotRepo, gotBody string
	var gotNumber int
	rc := &main.ReviewCommand{
		Analyzer: analyzerReturning(secretFinding()),
		Source: &mock.ChangeSource{
			ChangesFn: func(_ context.Context, repo string, number int) (*skillreview.Event, error) {
				return &skillreview.Event{
					Type:   "pull_request",
					Repo:   repo,
					Number: number,
					Files: []skillreview.ChangedFile{
						{Path: "auth.go", Status: skillreview.StatusModified, Patch: samplePatch},
					},
				}, nil
			},
		},
		Commenter: &mock.Commenter{
			CommentFn: func(_ context.Context, repo string, number int, body string) error {
				gotRepo, gotNumber, gotBody = repo, number, body
				return nil
			},
		},
		Reader: noContext(),
		Logger: discardLogger(),
	}

	_, _, err := execute(main.NewReviewCommand(rc),
		"--config", cfgPath, "--repo", "acme/widgets", "--pr", "7", "--no-color")

	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", gotRepo)
	assert.Equal(t, 7, gotNumber)
	assert.Contains(t, gotBody, "## skillreview: no-secrets")
	assert.Contains(t, gotBody, "### HIGH: Hardcoded secret")
}

func TestReview_DryRun(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "no-secrets", "Detects hardcoded credentials")
	cfgPath := writeConfig(t, "skills_dir: "+skillsDir+`
triggers:
  - name: no-secrets
    event: pull_request
    comment_on: medium
`)

	commented := false
	saved := false
	rc := &main.ReviewCommand{
		Analyzer: analyzerReturning(secretFinding()),
		Source: &mock.ChangeSource{
			ChangesFn: func(_ context.Context, _ string, _ int) (*skillreview.Event, error) {
				return &skillreview.Event{
					Type: "pull_request",
					Files: []skillreview.ChangedFile{
						{Path: "auth.go", Status: skillreview.StatusModified, Patch: samplePatch},
					},
				}, nil
			},
		},
		Commenter: &mock.Commenter{
			CommentFn: func(_ context.Context, _ string, _ int, _ string) error {
				commented = true
				return nil
			},
		},
		History: &mock.ReportStore{
			SaveFn: func(_ context.Context, _ *skillreview.SkillReport) error {
				saved = true
				return nil
			},
		},
		Reader: noContext(),
		Logger: discardLogger(),
	}

	out, _, err := execute(main.NewReviewCommand(rc),
		"--config", cfgPath, "--repo", "acme/widgets", "--pr", "7", "--dry-run", "--no-color")

	require.NoError(t, err)
	assert.Contains(t, out, "Hardcoded secret", "dry run still renders the report")
	assert.False(t, commented, "dry run should not post comments")
	assert.False(t, saved, "dry run should not write history")
}

func TestReview_SavesHistory(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "no-secrets", "Detects hardcoded credentials")
	cfgPath := writeConfig(t, "skills_dir: "+skillsDir+"\n")

	var savedReport *skillreview.SkillReport
	rc := &main.ReviewCommand{
		Analyzer: analyzerReturning(secretFinding()),
		History: &mock.ReportStore{
			SaveFn: func(_ context.Context, r *skillreview.SkillReport) error {
				savedReport = r
				return nil
			},
		},
		Reader: noContext(),
		Logger: discardLogger(),
	}

	_, _, err := execute(main.NewReviewCommand(rc),
		"--config", cfgPath, "--diff", writeDiff(t), "--skill", "no-secrets", "--no-color")

	require.NoError(t, err)
	require.NotNil(t, savedReport)
	assert.Equal(t, "no-secrets", savedReport.Skill)
	assert.Len(t, savedReport.Findings, 1)
}

func TestReview_Browse(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "no-secrets", "Detects hardcoded credentials")
	cfgPath := writeConfig(t, "skills_dir: "+skillsDir+"\n")

	var browsed *skillreview.SkillReport
	rc := &main.ReviewCommand{
		Analyzer: analyzerReturning(secretFinding()),
		Browser: &mock.ReportBrowser{
			BrowseFn: func(_ context.Context, r *skillreview.SkillReport) error {
				browsed = r
				return nil
			},
		},
		Reader: noContext(),
		Logger: discardLogger(),
	}

	out, _, err := execute(main.NewReviewCommand(rc),
		"--config", cfgPath, "--diff", writeDiff(t), "--skill", "no-secrets", "--browse", "--no-color")

	require.NoError(t, err)
	require.NotNil(t, browsed)
	assert.Equal(t, "no-secrets", browsed.Skill)
	assert.Len(t, browsed.Findings, 1)
	assert.NotContains(t, out, "Hardcoded secret", "browsing replaces the printed report")
}

func TestReview_NoTriggersMatch(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "no-secrets", "Detects hardcoded credentials")
	cfgPath := writeConfig(t, "skills_dir: "+skillsDir+`
triggers:
  - name: no-secrets
    event: pull_request
`)

	analyzed := false
	rc := &main.ReviewCommand{
		Analyzer: &mock.Analyzer{
			AnalyzeFn: func(_ context.Context, _ skillreview.AnalyzeRequest) (*skillreview.AnalyzeResult, error) {
				analyzed = true
				return &skillreview.AnalyzeResult{}, nil
			},
		},
		Reader: noContext(),
		Logger: discardLogger(),
	}

	_, stderr, err := execute(main.NewReviewCommand(rc),
		"--config", cfgPath, "--diff", writeDiff(t), "--no-color")

	require.NoError(t, err)
	assert.Contains(t, stderr, "no triggers matched this change")
	assert.False(t, analyzed, "a pull_request trigger should not match a local run")
}

func TestReview_LocalTriggerMatches(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "no-secrets", "Detects hardcoded credentials")
	cfgPath := writeConfig(t, "skills_dir: "+skillsDir+`
triggers:
  - name: no-secrets
    event: local
    paths: ["*.go"]
`)

	rc := &main.ReviewCommand{
		Analyzer: analyzerReturning(secretFinding()),
		Reader:   noContext(),
		Logger:   discardLogger(),
	}

	out, _, err := execute(main.NewReviewCommand(rc),
		"--config", cfgPath, "--diff", writeDiff(t), "--no-color")

	require.NoError(t, err)
	assert.Contains(t, out, "no-secrets")
	assert.Contains(t, out, "Hardcoded secret")
}

func TestReview_DropsInvalidFindings(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "no-secrets", "Detects hardcoded credentials")
	cfgPath := writeConfig(t, "skills_dir: "+skillsDir+"\n")

	phantom := skillreview.Finding{
		ID:       "phantom-1",
		Severity: skillreview.SeverityMedium,
		Title:    "Phantom issue",
		Location: &skillreview.Location{Path: "auth.go", StartLine: 999},
	}
	rc := &main.ReviewCommand{
		Analyzer: analyzerReturning(secretFinding(), phantom),
		Reader:   noContext(),
		Logger:   discardLogger(),
	}

	out, _, err := execute(main.NewReviewCommand(rc),
		"--config", cfgPath, "--diff", writeDiff(t), "--skill", "no-secrets", "--no-color")

	require.NoError(t, err)
	assert.Contains(t, out, "Hardcoded secret")
	assert.NotContains(t, out, "Phantom issue")
	assert.Contains(t, out, "1 finding (1 high) in 1 file", "summary reflects the dropped finding")
}

func TestReview_MissingSkill(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, "skills_dir: "+t.TempDir()+"\n")

	rc := &main.ReviewCommand{Logger: discardLogger()}

	_, _, err := execute(main.NewReviewCommand(rc),
		"--config", cfgPath, "--diff", writeDiff(t), "--skill", "nope")

	require.Error(t, err)
	assert.ErrorContains(t, err, `load skill "nope"`)
}

func TestReview_FlagValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "repo without pr",
			args:    []string{"--repo", "acme/widgets"},
			wantErr: "--repo requires --pr",
		},
		{
			name:    "pr and diff together",
			args:    []string{"--repo", "acme/widgets", "--pr", "7", "--diff", "x.diff"},
			wantErr: "mutually exclusive",
		},
		{
			name:    "fail-on without skill",
			args:    []string{"--fail-on", "high"},
			wantErr: "--fail-on requires --skill",
		},
		{
			name:    "unknown fail-on severity",
			args:    []string{"--skill", "x", "--fail-on", "urgent"},
			wantErr: `unknown --fail-on severity "urgent"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rc := &main.ReviewCommand{Logger: discardLogger()}
			_, _, err := execute(main.NewReviewCommand(rc), tt.args...)

			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
