package git_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/fwojciec/skillreview/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a temporary git repository with a known history for testing.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	// Initialize repo with "main" as default branch
	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	// Create initial commit on main
	writeFile(t, dir, "README.md", "# Test Repo\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	return dir
}

// runGit executes a git command in the given directory.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "command git %v failed: %s", args, string(output))
	return string(output)
}

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
}

func TestRunner_Diff(t *testing.T) {
	t.Parallel()

	t.Run("returns worktree changes against HEAD", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		writeFile(t, dir, "README.md", "# Test Repo\n\nuncommitted line\n")

		runner := git.NewRunner(dir)
		ctx := context.Background()

		diff, err := runner.Diff(ctx, dir, "")

		require.NoError(t, err)
		assert.Contains(t, diff, "README.md")
		assert.Contains(t, diff, "+uncommitted line")
	})

	t.Run("returns empty diff when clean", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		runner := git.NewRunner(dir)
		ctx := context.Background()

		diff, err := runner.Diff(ctx, dir, "")

		require.NoError(t, err)
		assert.Empty(t, diff)
	})

	t.Run("returns committed changes against base ref", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		runGit(t, dir, "checkout", "-b", "feature")
		writeFile(t, dir, "feature.txt", "feature content\n")
		runGit(t, dir, "add", ".")
		runGit(t, dir, "commit", "-m", "Add feature")

		runner := git.NewRunner(dir)
		ctx := context.Background()

		diff, err := runner.Diff(ctx, dir, "main")

		require.NoError(t, err)
		assert.Contains(t, diff, "feature.txt")
		assert.Contains(t, diff, "+feature content")
	})

	t.Run("fails on unknown base", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		runner := git.NewRunner(dir)
		ctx := context.Background()

		_, err := runner.Diff(ctx, dir, "no-such-ref")

		assert.Error(t, err)
	})
}

func TestRunner_ReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads worktree content", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		runner := git.NewRunner(dir)
		ctx := context.Background()

		content, err := runner.ReadFile(ctx, "README.md")

		require.NoError(t, err)
		assert.Equal(t, "# Test Repo\n", content)
	})

	t.Run("fails on missing file", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		runner := git.NewRunner(dir)
		ctx := context.Background()

		_, err := runner.ReadFile(ctx, "nope.txt")

		assert.Error(t, err)
	})
}
