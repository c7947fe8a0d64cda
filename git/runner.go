// Package git provides access to git operations via shell commands.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var (
	_ skillreview.DiffSource = (*Runner)(nil)
	_ skillreview.FileReader = (*Runner)(nil)
)

// Runner executes git commands in a repository and reads worktree files.
type Runner struct {
	repoPath string
}

// NewRunner creates a runner rooted at repoPath. An empty path means the
// current directory.
func NewRunner(repoPath string) *Runner {
	if repoPath == "" {
		repoPath = "."
	}
	return &Runner{repoPath: repoPath}
}

// Diff returns the unified diff of the working tree against base. An
// empty base compares against HEAD.
func (r *Runner) Diff(ctx context.Context, repoPath, base string) (string, error) {
	if repoPath == "" {
		repoPath = r.repoPath
	}
	if base == "" {
		base = "HEAD"
	}

	args := []string{"-C", repoPath, "diff", base}
	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git diff failed: %s", string(exitErr.Stderr))
		}
		return "", fmt.Errorf("git diff failed: %w", err)
	}
	return string(output), nil
}

// ReadFile returns the current worktree content of path, relative to the
// repository root.
func (r *Runner) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(r.repoPath, path))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
